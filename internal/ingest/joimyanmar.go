package ingest

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// JoiMyanmarAdapter scrapes one JoiMyanmar search page per run with a
// plain HTTP GET and goquery parsing.
type JoiMyanmarAdapter struct {
	searchURL   string
	base        *url.URL
	client      *http.Client
	maxListings int
	logger      *log.Logger
}

func NewJoiMyanmarAdapter(searchURL string, maxListings int, timeout time.Duration, logger *log.Logger) *JoiMyanmarAdapter {
	searchURL = strings.TrimSpace(searchURL)
	if searchURL == "" {
		searchURL = "https://www.joimyanmar.com/jobs"
	}
	if maxListings <= 0 {
		maxListings = 50
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	a := &JoiMyanmarAdapter{
		searchURL:   searchURL,
		client:      &http.Client{Timeout: timeout},
		maxListings: maxListings,
		logger:      logger,
	}
	if u, err := url.Parse(searchURL); err == nil {
		a.base = u
	}
	return a
}

func (a *JoiMyanmarAdapter) Name() string { return "joimyanmar" }

var joiMyanmarContainerSelectors = []string{
	"div.job-listing",
	"li.job-item",
	"div.search-results div.job",
	"article.job",
}

func (a *JoiMyanmarAdapter) Fetch(ctx context.Context) (FetchResult, error) {
	if a == nil {
		return FetchResult{}, fmt.Errorf("nil adapter")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.searchURL, nil)
	if err != nil {
		return FetchResult{}, fmt.Errorf("joimyanmar request: %w", err)
	}
	req.Header.Set("User-Agent", adapterUserAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9,my;q=0.8")

	resp, err := a.client.Do(req)
	if err != nil {
		return FetchResult{}, fmt.Errorf("joimyanmar fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return FetchResult{}, fmt.Errorf("joimyanmar fetch: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, 5<<20))
	if err != nil {
		return FetchResult{}, fmt.Errorf("joimyanmar parse: %w", err)
	}

	out := a.parsePage(doc.Selection)
	if a.logger != nil {
		a.logger.Printf("adapter=joimyanmar raw=%d listings=%d", out.RawScraped, len(out.Listings))
	}
	return out, nil
}

func (a *JoiMyanmarAdapter) parsePage(root *goquery.Selection) FetchResult {
	var out FetchResult

	containers := findContainers(root, joiMyanmarContainerSelectors)
	if containers == nil {
		return out
	}

	containers.EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		out.RawScraped++
		if l, ok := a.parseContainer(sel); ok {
			out.Listings = append(out.Listings, l)
		}
		return len(out.Listings) < a.maxListings
	})
	return out
}

func (a *JoiMyanmarAdapter) parseContainer(sel *goquery.Selection) (RawListing, bool) {
	link := extractField(sel, []fieldStrategy{
		{selector: "h2 a", attr: "href"},
		{selector: "h3 a", attr: "href"},
		{selector: "a.job-title", attr: "href"},
		{selector: "a[href*='/job/']", attr: "href"},
	})

	l := RawListing{
		Title: extractField(sel, []fieldStrategy{
			{selector: "h2 a"},
			{selector: "h3 a"},
			{selector: "a.job-title"},
			{selector: "h2"},
		}),
		CompanyName: extractField(sel, []fieldStrategy{
			{selector: "div.company-name"},
			{selector: "span.company"},
			{selector: "a.employer"},
		}),
		LocationName: extractField(sel, []fieldStrategy{
			{selector: "span.job-location"},
			{selector: "div.location"},
			{selector: "li.location"},
		}),
		CategoryName: extractField(sel, []fieldStrategy{
			{selector: "span.job-category"},
			{selector: "div.category a"},
			{selector: "div.category"},
		}),
		EmploymentType: extractField(sel, []fieldStrategy{
			{selector: "span.job-type"},
			{selector: "div.employment-type"},
		}),
		Description: extractField(sel, []fieldStrategy{
			{selector: "div.job-summary"},
			{selector: "p.description"},
			{selector: "p"},
		}),
		SourceURL:     absoluteURL(a.base, link),
		SourceWebsite: a.Name(),
	}

	if l.LocationName == "" {
		l.LocationName = "Yangon"
	}
	if l.CategoryName == "" {
		l.CategoryName = "Administration"
	}

	salaryText := extractField(sel, []fieldStrategy{
		{selector: "span.salary-range"},
		{selector: "div.salary"},
	})
	l.SalaryMin, l.SalaryMax = parseSalaryRange(salaryText)

	postedText := extractField(sel, []fieldStrategy{
		{selector: "time", attr: "datetime"},
		{selector: "span.posted"},
	})
	l.PostedDate = parsePostedDate(postedText)

	return l, l.Valid()
}

var _ SourceAdapter = (*JoiMyanmarAdapter)(nil)
