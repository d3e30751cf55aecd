package ingest

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// RawListing is a site-specific posting extracted from HTML, prior to
// entity resolution. It only ever lives for the duration of a run.
type RawListing struct {
	Title          string
	Description    string
	CompanyName    string
	LocationName   string
	CategoryName   string
	SourceURL      string
	SourceWebsite  string
	EmploymentType string
	SalaryMin      *float64
	SalaryMax      *float64
	PostedDate     *time.Time
}

// Valid reports whether the listing carries the fields the pipeline
// requires. Invalid listings are dropped during parsing, not errored.
func (l RawListing) Valid() bool {
	if strings.TrimSpace(l.SourceURL) == "" {
		return false
	}
	if strings.TrimSpace(l.Title) == "" {
		return false
	}
	if strings.TrimSpace(l.CompanyName) == "" {
		return false
	}
	return true
}

var salaryNumberRe = regexp.MustCompile(`\d[\d,.]*`)

// parseSalaryRange extracts a numeric min/max from loosely formatted
// salary text such as "SGD 4,000 - 6,000" or "800-1200 USD". Malformed
// or absent numbers leave both bounds nil; the listing is still accepted.
func parseSalaryRange(text string) (min, max *float64) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	matches := salaryNumberRe.FindAllString(text, 2)
	if len(matches) == 0 {
		return nil, nil
	}
	lo, ok := parseSalaryNumber(matches[0])
	if !ok {
		return nil, nil
	}
	hi := lo
	if len(matches) > 1 {
		if v, ok := parseSalaryNumber(matches[1]); ok {
			hi = v
		}
	}
	if hi < lo {
		lo, hi = hi, lo
	}
	return &lo, &hi
}

func parseSalaryNumber(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

var postedDateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2 Jan 2006",
	"02 Jan 2006",
	"Jan 2, 2006",
}

// parsePostedDate tries a small set of layouts; unparseable input yields
// nil rather than an error.
func parsePostedDate(text string) *time.Time {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	for _, layout := range postedDateLayouts {
		if tm, err := time.Parse(layout, text); err == nil {
			tm = tm.UTC()
			return &tm
		}
	}
	return nil
}

func pickNonEmpty(a, b string) string {
	a = strings.TrimSpace(a)
	if a != "" {
		return a
	}
	return strings.TrimSpace(b)
}
