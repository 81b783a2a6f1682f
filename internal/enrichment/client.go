// Package enrichment looks up optional external movie metadata (collection,
// keyword tags, score, popularity) from a TMDB-compatible API.
package enrichment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/netpersona/popcorn/internal/cache"
	"github.com/netpersona/popcorn/internal/config"
	"github.com/netpersona/popcorn/internal/logger"
	"github.com/netpersona/popcorn/internal/metrics"
	"github.com/netpersona/popcorn/internal/models"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

const breakerComponent = "enrichment"

// ErrStatus is returned for non-200 responses
var ErrStatus = errors.New("unexpected response status")

// Client queries the metadata service. Results, including misses, are cached
// per (title, year); concurrent lookups for the same key share one request.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *CircuitBreaker
	results    *cache.LRU[string, *models.Enrichment]
	group      singleflight.Group
}

// NewClient builds a client from configuration. It returns nil when no API key is set.
func NewClient(cfg config.EnrichmentConfig) (*Client, error) {
	if !cfg.Enabled() {
		return nil, nil
	}

	results, err := cache.New[string, *models.Enrichment](cfg.CacheSize, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create enrichment cache: %w", err)
	}

	breaker := NewCircuitBreaker(cfg.FailureThreshold, cfg.ResetTimeout)
	breaker.OnStateChange(func(state CircuitState) {
		metrics.SetCircuitBreakerState(breakerComponent, state.String())
		logger.Log.Warn().
			Str("component", breakerComponent).
			Str("state", state.String()).
			Msg("Enrichment circuit breaker changed state")
	})
	metrics.SetCircuitBreakerState(breakerComponent, StateClosed.String())

	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		breaker: breaker,
		results: results,
	}, nil
}

// BreakerState reports the circuit breaker state
func (c *Client) BreakerState() CircuitState {
	return c.breaker.State()
}

// Lookup finds a title by exact year. A nil result with a nil error means the
// service has no match.
func (c *Client) Lookup(ctx context.Context, title string, year int) (*models.Enrichment, error) {
	key := cacheKey(title, year)
	if cached, ok := c.results.Get(key); ok {
		metrics.RecordEnrichmentLookup("hit")
		return cached, nil
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		var found *models.Enrichment
		callErr := c.breaker.Call(func() error {
			var err error
			found, err = c.fetch(ctx, title, year)
			return err
		})
		if callErr != nil {
			return nil, callErr
		}
		c.results.Put(key, found)
		return found, nil
	})
	if err != nil {
		if errors.Is(err, ErrCircuitOpen) {
			metrics.RecordEnrichmentLookup("rejected")
		} else {
			metrics.RecordEnrichmentLookup("error")
		}
		return nil, err
	}

	metrics.RecordEnrichmentLookup("miss")
	result, _ := v.(*models.Enrichment)
	return result, nil
}

func (c *Client) fetch(ctx context.Context, title string, year int) (*models.Enrichment, error) {
	params := url.Values{}
	params.Set("query", title)
	if year > 0 {
		params.Set("year", strconv.Itoa(year))
	}

	var search searchResponse
	if err := c.get(ctx, "/search/movie", params, &search); err != nil {
		return nil, err
	}
	if len(search.Results) == 0 || search.Results[0].ID == 0 {
		return nil, nil
	}

	id := search.Results[0].ID
	details := url.Values{}
	details.Set("append_to_response", "keywords")

	var movie movieResponse
	if err := c.get(ctx, "/movie/"+strconv.Itoa(id), details, &movie); err != nil {
		return nil, err
	}

	return movie.toEnrichment(), nil
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	params.Set("api_key", c.apiKey)
	u := c.baseURL + endpoint + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to request %s: %w", endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	logger.Log.Debug().
		Str("endpoint", endpoint).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("Enrichment request")

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w %d for %s: %s", ErrStatus, resp.StatusCode, endpoint, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", endpoint, err)
	}
	return nil
}

func cacheKey(title string, year int) string {
	return strings.ToLower(strings.TrimSpace(title)) + "|" + strconv.Itoa(year)
}

type searchResponse struct {
	Results []struct {
		ID    int    `json:"id"`
		Title string `json:"title"`
	} `json:"results"`
}

type movieResponse struct {
	ID                  int      `json:"id"`
	VoteAverage         *float64 `json:"vote_average"`
	Popularity          *float64 `json:"popularity"`
	BelongsToCollection *struct {
		ID int `json:"id"`
	} `json:"belongs_to_collection"`
	Keywords struct {
		Keywords []struct {
			ID   int    `json:"id"`
			Name string `json:"name"`
		} `json:"keywords"`
	} `json:"keywords"`
}

func (m *movieResponse) toEnrichment() *models.Enrichment {
	e := &models.Enrichment{
		ExternalID: m.ID,
		Score:      m.VoteAverage,
		Popularity: m.Popularity,
	}
	if m.BelongsToCollection != nil && m.BelongsToCollection.ID != 0 {
		id := m.BelongsToCollection.ID
		e.CollectionID = &id
	}
	for _, kw := range m.Keywords.Keywords {
		e.TagIDs = append(e.TagIDs, kw.ID)
	}
	return e
}
