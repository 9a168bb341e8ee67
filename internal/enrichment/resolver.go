package enrichment

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"github.com/maxaizer/job-monitor/internal/entities"
	"github.com/maxaizer/job-monitor/internal/textmatch"
	gocache "github.com/patrickmn/go-cache"
	"time"
)

type LocationResolver struct {
	gazetteer *Gazetteer
}

func NewLocationResolver(gazetteer *Gazetteer) *LocationResolver {
	return &LocationResolver{gazetteer: gazetteer}
}

// Resolve finds the first gazetteer name in title and description. The result is nil
// when nothing matched. The only error is a gazetteer that could not be loaded.
func (r *LocationResolver) Resolve(ctx context.Context, title, description string) (*entities.PostingLocation, error) {
	if err := r.gazetteer.Load(ctx); err != nil {
		return nil, err
	}

	text := textmatch.Join(title, description)
	if text.IsBlank() {
		return nil, nil
	}

	location, _ := r.gazetteer.find(text)
	return location, nil
}

type locationResolver interface {
	Resolve(ctx context.Context, title, description string) (*entities.PostingLocation, error)
}

// CachedResolver remembers resolutions by text, since agencies often repost the same ad.
type CachedResolver struct {
	resolver locationResolver
	cache    *gocache.Cache
}

func NewCachedResolver(resolver locationResolver, expiration time.Duration) *CachedResolver {
	return &CachedResolver{
		resolver: resolver,
		cache:    gocache.New(expiration, 2*expiration),
	}
}

func (r *CachedResolver) Resolve(ctx context.Context, title, description string) (*entities.PostingLocation, error) {
	key := textCacheKey(title, description)
	if cached, found := r.cache.Get(key); found {
		return copyLocation(cached.(*entities.PostingLocation)), nil
	}

	location, err := r.resolver.Resolve(ctx, title, description)
	if err != nil {
		return nil, err
	}

	r.cache.Set(key, copyLocation(location), gocache.DefaultExpiration)
	return location, nil
}

func textCacheKey(title, description string) string {
	hash := sha256.Sum256([]byte(title + "\x00" + description))
	return hex.EncodeToString(hash[:])
}

func copyLocation(location *entities.PostingLocation) *entities.PostingLocation {
	if location == nil {
		return nil
	}
	c := *location
	return &c
}
