package filter

import (
	"context"

	"github.com/netpersona/popcorn/internal/logger"
	"github.com/netpersona/popcorn/internal/models"
)

// Reasons reported by Evaluate
const (
	ReasonBlacklisted        = "blacklisted"
	ReasonWhitelisted        = "whitelisted"
	ReasonBelowMinScore      = "below_min_score"
	ReasonBelowMinPopularity = "below_min_popularity"
	ReasonEnrichmentMatch    = "enrichment_match"
	ReasonMatched            = "matched"
	ReasonNoMatch            = "no_match"
	ReasonRatingExcluded     = "rating_excluded"
)

// Enricher supplies optional external metadata for a title
type Enricher interface {
	Lookup(ctx context.Context, title string, year int) (*models.Enrichment, error)
}

// Decision is the outcome of evaluating one entry
type Decision struct {
	Eligible bool   `json:"eligible"`
	Reason   string `json:"reason"`
	// Keyword is the first keyword that matched, if any
	Keyword string `json:"keyword,omitempty"`
}

// Engine evaluates themed channel criteria. The enricher is optional.
type Engine struct {
	enricher Enricher
}

// NewEngine creates an engine. Pass nil when enrichment is not configured.
func NewEngine(enricher Enricher) *Engine {
	return &Engine{enricher: enricher}
}

// IsEligible reports whether entry belongs on the channel described by c
func (e *Engine) IsEligible(ctx context.Context, c *Criteria, entry *models.CatalogEntry, overrides Overrides) bool {
	return e.Evaluate(ctx, c, entry, overrides).Eligible
}

// Evaluate applies overrides, enrichment hard filters, predicate combination
// and the rating allow-list, in that order.
func (e *Engine) Evaluate(ctx context.Context, c *Criteria, entry *models.CatalogEntry, overrides Overrides) Decision {
	if overrides.IsBlacklisted(entry.SourceID) {
		return Decision{Reason: ReasonBlacklisted}
	}
	if overrides.IsWhitelisted(entry.SourceID) {
		return Decision{Eligible: true, Reason: ReasonWhitelisted}
	}

	enriched := false
	if info := e.lookup(ctx, c, entry); info != nil {
		if c.MinScore != nil && info.Score != nil && *info.Score < *c.MinScore {
			return Decision{Reason: ReasonBelowMinScore}
		}
		if c.MinPopularity != nil && info.Popularity != nil && *info.Popularity < *c.MinPopularity {
			return Decision{Reason: ReasonBelowMinPopularity}
		}
		enriched = c.enrichmentMatch(info)
	}

	genre := c.genreMatch(entry.Genre)
	keyword, keywordHit := c.keywordMatch(entry.Title, entry.SummaryText())

	var matched bool
	if c.Mode == models.FilterModeAny {
		matched = genre || keywordHit
	} else {
		matched = genre && keywordHit
	}

	reason := ReasonMatched
	if !matched && enriched {
		matched = true
		reason = ReasonEnrichmentMatch
	}
	if !matched {
		return Decision{Reason: ReasonNoMatch}
	}

	if !c.ratingAllowed(entry.Rating()) {
		return Decision{Reason: ReasonRatingExcluded, Keyword: keyword}
	}
	return Decision{Eligible: true, Reason: reason, Keyword: keyword}
}

// EligibleEntries filters a catalog for a channel. Rows sharing a source id
// are collapsed to the first eligible one.
func (e *Engine) EligibleEntries(ctx context.Context, ch *models.ThemedChannel, entries []*models.CatalogEntry, overrides Overrides) []*models.CatalogEntry {
	c := ParseCriteria(ch)
	seen := make(map[string]struct{}, len(entries))
	eligible := make([]*models.CatalogEntry, 0)

	for _, entry := range entries {
		if _, dup := seen[entry.SourceID]; dup {
			continue
		}
		if !e.IsEligible(ctx, c, entry, overrides) {
			continue
		}
		seen[entry.SourceID] = struct{}{}
		eligible = append(eligible, entry)
	}

	logger.Log.Info().
		Str("channel", ch.Name).
		Int("candidates", len(entries)).
		Int("eligible", len(eligible)).
		Msg("Filtered catalog for themed channel")

	return eligible
}

func (e *Engine) lookup(ctx context.Context, c *Criteria, entry *models.CatalogEntry) *models.Enrichment {
	if e.enricher == nil || entry.Year == nil || *entry.Year <= 0 || !c.WantsEnrichment() {
		return nil
	}
	info, err := e.enricher.Lookup(ctx, entry.Title, *entry.Year)
	if err != nil {
		logger.Log.Debug().
			Err(err).
			Str("channel", c.Channel).
			Str("source_id", entry.SourceID).
			Msg("Enrichment lookup failed, continuing without it")
		return nil
	}
	return info
}
