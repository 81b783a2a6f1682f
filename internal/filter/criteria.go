// Package filter decides which catalog entries belong on a themed channel.
package filter

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/netpersona/popcorn/internal/logger"
	"github.com/netpersona/popcorn/internal/models"
	"golang.org/x/text/unicode/norm"
)

// Criteria is the parsed form of a themed channel's stored filter text.
type Criteria struct {
	Channel       string
	Mode          string
	Genres        []string
	Keywords      []string
	Ratings       map[string]struct{}
	CollectionIDs map[int]struct{}
	KeywordIDs    map[int]struct{}
	MinScore      *float64
	MinPopularity *float64

	keywordPatterns []*regexp.Regexp
}

// NormalizeMode maps stored mode values to ALL or ANY. Legacy AND/OR are
// accepted; ok is false for anything else, in which case ALL is returned.
func NormalizeMode(mode string) (string, bool) {
	switch strings.ToUpper(strings.TrimSpace(mode)) {
	case "", models.FilterModeAll, "AND":
		return models.FilterModeAll, true
	case models.FilterModeAny, "OR":
		return models.FilterModeAny, true
	}
	return models.FilterModeAll, false
}

// ParseCriteria parses a channel's filter fields once. Malformed values are
// logged and treated as no constraint.
func ParseCriteria(ch *models.ThemedChannel) *Criteria {
	c := &Criteria{
		Channel:       ch.Name,
		Ratings:       make(map[string]struct{}),
		CollectionIDs: make(map[int]struct{}),
		KeywordIDs:    make(map[int]struct{}),
	}

	mode, ok := NormalizeMode(ch.FilterMode)
	if !ok {
		logger.Log.Warn().
			Str("channel", ch.Name).
			Str("filter_mode", ch.FilterMode).
			Msg("Unknown filter mode, using ALL")
	}
	c.Mode = mode

	for _, g := range splitList(ch.GenreFilter) {
		c.Genres = append(c.Genres, strings.ToLower(norm.NFC.String(g)))
	}

	for _, kw := range splitList(ch.Keywords) {
		kw = strings.ToLower(norm.NFC.String(kw))
		c.Keywords = append(c.Keywords, kw)
		c.keywordPatterns = append(c.keywordPatterns, wholeWord(kw))
	}

	for _, r := range splitList(ch.RatingFilter) {
		c.Ratings[strings.ToUpper(r)] = struct{}{}
	}

	parseIDs(ch.Name, "collection_ids", ch.CollectionIDs, c.CollectionIDs)
	parseIDs(ch.Name, "external_keyword_ids", ch.ExternalKeywordIDs, c.KeywordIDs)

	c.MinScore = parseThreshold(ch.Name, "min_score", ch.MinScore)
	c.MinPopularity = parseThreshold(ch.Name, "min_popularity", ch.MinPopularity)

	return c
}

// WantsEnrichment reports whether any predicate needs external metadata
func (c *Criteria) WantsEnrichment() bool {
	return len(c.CollectionIDs) > 0 || len(c.KeywordIDs) > 0 || c.MinScore != nil || c.MinPopularity != nil
}

// HasRatingFilter reports whether an allow-list of ratings is configured
func (c *Criteria) HasRatingFilter() bool {
	return len(c.Ratings) > 0
}

func (c *Criteria) genreMatch(genre string) bool {
	if len(c.Genres) == 0 || genre == "" {
		return false
	}
	genre = strings.ToLower(norm.NFC.String(genre))
	for _, g := range c.Genres {
		if strings.Contains(genre, g) {
			return true
		}
	}
	return false
}

// keywordMatch returns the first keyword found in title or summary
func (c *Criteria) keywordMatch(title, summary string) (string, bool) {
	if len(c.keywordPatterns) == 0 {
		return "", false
	}
	title = norm.NFC.String(title)
	summary = norm.NFC.String(summary)
	for i, re := range c.keywordPatterns {
		if re.MatchString(title) || (summary != "" && re.MatchString(summary)) {
			return c.Keywords[i], true
		}
	}
	return "", false
}

func (c *Criteria) ratingAllowed(rating string) bool {
	rating = strings.ToUpper(strings.TrimSpace(rating))
	if !c.HasRatingFilter() || rating == "" {
		return true
	}
	_, ok := c.Ratings[rating]
	return ok
}

func (c *Criteria) enrichmentMatch(e *models.Enrichment) bool {
	if e.CollectionID != nil {
		if _, ok := c.CollectionIDs[*e.CollectionID]; ok {
			return true
		}
	}
	for _, id := range e.TagIDs {
		if _, ok := c.KeywordIDs[id]; ok {
			return true
		}
	}
	return false
}

// wholeWord matches kw case-insensitively when it is not flanked by letters,
// digits or underscores. RE2's \b only knows ASCII word characters.
func wholeWord(kw string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)(?:^|[^\p{L}\p{N}_])` + regexp.QuoteMeta(kw) + `(?:$|[^\p{L}\p{N}_])`)
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseIDs(channel, field, raw string, into map[int]struct{}) {
	for _, tok := range splitList(raw) {
		id, err := strconv.Atoi(tok)
		if err != nil {
			logger.Log.Warn().
				Str("channel", channel).
				Str("field", field).
				Str("value", tok).
				Msg("Ignoring malformed id in filter")
			continue
		}
		into[id] = struct{}{}
	}
}

func parseThreshold(channel, field, raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		logger.Log.Warn().
			Str("channel", channel).
			Str("field", field).
			Str("value", raw).
			Msg("Ignoring unparseable filter threshold")
		return nil
	}
	return &v
}
