package media

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// ParseResult contains metadata extracted from a movie filename
type ParseResult struct {
	Title       string // Display title
	Year        *int   // Release year (nil if not found)
	RawFilename string // Original filename for reference
}

// Year bounds accepted from filenames
const (
	minYear = 1888
	maxYear = 2100
)

var (
	// "Alien (1979)" or "Alien [1979]"
	patternBracketYear = regexp.MustCompile(`^(.+?)\s*[(\[](\d{4})[)\]]`)

	// "Alien.1979.1080p.BluRay" or "Alien 1979 Remastered"
	patternDottedYear = regexp.MustCompile(`^(.+?)[._ ](\d{4})(?:[._ ]|$)`)

	// Release tags that end the title when no year is present
	patternReleaseTag = regexp.MustCompile(`(?i)[._ ](?:480p|576p|720p|1080p|2160p|4k|bluray|brrip|bdrip|web-?dl|webrip|hdtv|dvdrip|remux|x264|x265|h264|hevc)(?:[._ ]|$)`)

	patternSpaces = regexp.MustCompile(`\s+`)
)

// ParseFilename extracts a movie title and year from a file path.
// "Alien (1979).mkv" yields Title "Alien" and Year 1979.
func ParseFilename(fullPath string) ParseResult {
	result := ParseResult{RawFilename: fullPath}

	name := filepath.Base(fullPath)
	name = strings.TrimSuffix(name, filepath.Ext(name))

	for _, pattern := range []*regexp.Regexp{patternBracketYear, patternDottedYear} {
		matches := pattern.FindStringSubmatch(name)
		if matches == nil {
			continue
		}
		if year, ok := parseYear(matches[2]); ok {
			result.Title = cleanTitle(matches[1])
			result.Year = &year
			if result.Title != "" {
				return result
			}
		}
	}

	if loc := patternReleaseTag.FindStringIndex(name); loc != nil && loc[0] > 0 {
		name = name[:loc[0]]
	}
	result.Title = cleanTitle(name)
	result.Year = nil
	return result
}

// cleanTitle replaces separators with spaces and collapses whitespace
func cleanTitle(name string) string {
	cleaned := strings.ReplaceAll(name, ".", " ")
	cleaned = strings.ReplaceAll(cleaned, "_", " ")
	cleaned = strings.TrimSpace(cleaned)
	cleaned = strings.TrimRight(cleaned, " -")
	return patternSpaces.ReplaceAllString(cleaned, " ")
}

func parseYear(s string) (int, bool) {
	year, err := strconv.Atoi(s)
	if err != nil || year < minYear || year > maxYear {
		return 0, false
	}
	return year, true
}
