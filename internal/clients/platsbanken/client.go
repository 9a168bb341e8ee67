package platsbanken

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
	"io"
	"net/http"
	"time"
)

const DefaultBaseURL = "https://jobsearch.api.jobtechdev.se"

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// StatusError is returned for non-200 responses.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request failed with status %v, body: %v", e.StatusCode, e.Body)
}

type Client struct {
	baseURL     string
	httpClient  HTTPClient
	rateLimiter *rate.Limiter
	retryDelay  time.Duration
}

func NewClient() *Client {
	return &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		retryDelay: 2 * time.Second,
	}
}

func (c *Client) SetHTTPClient(client HTTPClient) {
	c.httpClient = client
}

func (c *Client) SetBaseURL(baseURL string) {
	c.baseURL = baseURL
}

func (c *Client) SetRateLimit(maxRequestsPerSecond float64) {
	c.rateLimiter = rate.NewLimiter(rate.Limit(maxRequestsPerSecond), 1)
}

func (c *Client) SetRetryDelay(delay time.Duration) {
	c.retryDelay = delay
}

func (c *Client) Search(ctx context.Context, parameters SearchParameters) (SearchResponse, error) {

	if err := parameters.Validate(); err != nil {
		return SearchResponse{}, fmt.Errorf("invalid parameters: %w", err)
	}

	apiURL := c.baseURL + "/search?" + parameters.ToUrlParams().Encode()

	var body []byte
	var err error

	_, _, _ = lo.AttemptWhileWithDelay(3, c.retryDelay, func(i int, _ time.Duration) (error, bool) {
		if i > 0 {
			log.Warnf("platsbanken api returned server error, retrying (%d)...", i)
		}
		body, err = c.sendRequest(ctx, http.MethodGet, apiURL, nil)
		return err, isServerError(err)
	})
	if err != nil {
		return SearchResponse{}, err
	}

	var response SearchResponse
	if err = json.NewDecoder(bytes.NewReader(body)).Decode(&response); err != nil {
		return SearchResponse{}, fmt.Errorf("error decoding JSON response: %v", err)
	}

	return response, nil
}

func (c *Client) sendRequest(ctx context.Context, method string, url string, body io.Reader) ([]byte, error) {

	if c.rateLimiter != nil {
		err := c.rateLimiter.Wait(ctx)
		if err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %v", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error sending request: %w", err)
	}
	defer resp.Body.Close()

	return c.handleResponse(resp)
}

func (c *Client) handleResponse(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response body: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return body, nil
}

func isServerError(err error) bool {
	statusErr, ok := err.(*StatusError)
	return ok && statusErr.StatusCode >= http.StatusInternalServerError
}
