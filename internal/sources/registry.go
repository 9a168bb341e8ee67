package sources

import (
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

// Build returns the sources to run. An empty enabled list enables every known source.
func Build(enabled []string, client HTTPClient, limiter *HostLimiter, platsbanken *Platsbanken) []Source {
	all := lo.Map(Sites, func(site Site, _ int) Source {
		return NewHTMLSource(site, client, limiter)
	})
	if platsbanken != nil {
		all = append(all, platsbanken)
	}

	if len(enabled) == 0 {
		return all
	}

	known := lo.Map(all, func(s Source, _ int) string { return string(s.Name()) })
	for _, name := range enabled {
		if !lo.Contains(known, name) {
			log.Warnf("unknown source %q in config, ignoring", name)
		}
	}

	return lo.Filter(all, func(s Source, _ int) bool {
		return lo.Contains(enabled, string(s.Name()))
	})
}
