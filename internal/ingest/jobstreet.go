package ingest

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
)

// JobStreetAdapter scrapes one JobStreet search page per run.
type JobStreetAdapter struct {
	searchURL   string
	base        *url.URL
	allowedHost string
	maxListings int
	timeout     time.Duration
	logger      *log.Logger
}

func NewJobStreetAdapter(searchURL string, maxListings int, timeout time.Duration, logger *log.Logger) *JobStreetAdapter {
	searchURL = strings.TrimSpace(searchURL)
	if searchURL == "" {
		searchURL = "https://sg.jobstreet.com/jobs"
	}
	if maxListings <= 0 {
		maxListings = 50
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	a := &JobStreetAdapter{
		searchURL:   searchURL,
		maxListings: maxListings,
		timeout:     timeout,
		logger:      logger,
	}
	if u, err := url.Parse(searchURL); err == nil {
		a.base = u
		a.allowedHost = hostOnly(u.Host)
	}
	return a
}

func (a *JobStreetAdapter) Name() string { return "jobstreet" }

var jobStreetContainerSelectors = []string{
	"article[data-job-id]",
	"article[data-card-type='JobCard']",
	"div.job-card",
	"div[data-search-sol-meta] article",
	"article",
}

func (a *JobStreetAdapter) Fetch(ctx context.Context) (FetchResult, error) {
	if a == nil {
		return FetchResult{}, fmt.Errorf("nil adapter")
	}

	c := colly.NewCollector(
		colly.AllowedDomains(a.allowedHost),
		colly.UserAgent(adapterUserAgent),
	)
	c.SetRequestTimeout(a.timeout)
	_ = c.Limit(&colly.LimitRule{DomainGlob: "*", Parallelism: 1, RandomDelay: 500 * time.Millisecond})

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept-Language", "en-SG,en;q=0.9")
	})

	var out FetchResult
	c.OnHTML("html", func(e *colly.HTMLElement) {
		out = a.parsePage(e.DOM)
	})

	var reqErr error
	c.OnError(func(r *colly.Response, err error) {
		reqErr = err
	})

	if err := ctx.Err(); err != nil {
		return FetchResult{}, err
	}
	if err := c.Visit(a.searchURL); err != nil {
		return FetchResult{}, fmt.Errorf("jobstreet fetch: %w", err)
	}
	c.Wait()
	if reqErr != nil {
		return FetchResult{}, fmt.Errorf("jobstreet fetch: %w", reqErr)
	}

	if a.logger != nil {
		a.logger.Printf("adapter=jobstreet raw=%d listings=%d", out.RawScraped, len(out.Listings))
	}
	return out, nil
}

func (a *JobStreetAdapter) parsePage(root *goquery.Selection) FetchResult {
	var out FetchResult

	containers := findContainers(root, jobStreetContainerSelectors)
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

func (a *JobStreetAdapter) parseContainer(sel *goquery.Selection) (RawListing, bool) {
	link := extractField(sel, []fieldStrategy{
		{selector: "a[data-automation='jobTitle']", attr: "href"},
		{selector: "h3 a", attr: "href"},
		{selector: "h1 a", attr: "href"},
		{selector: "a[href*='/job/']", attr: "href"},
	})

	l := RawListing{
		Title: extractField(sel, []fieldStrategy{
			{selector: "a[data-automation='jobTitle']"},
			{selector: "[data-automation='jobTitle']"},
			{selector: "h3"},
			{selector: "h1"},
		}),
		CompanyName: extractField(sel, []fieldStrategy{
			{selector: "[data-automation='jobCompany']"},
			{selector: "span.company"},
			{selector: "div.company a"},
		}),
		LocationName: extractField(sel, []fieldStrategy{
			{selector: "[data-automation='jobLocation']"},
			{selector: "span.location"},
		}),
		CategoryName: extractField(sel, []fieldStrategy{
			{selector: "[data-automation='jobClassification']"},
			{selector: "span.category"},
		}),
		EmploymentType: extractField(sel, []fieldStrategy{
			{selector: "[data-automation='jobWorkType']"},
			{selector: "span.work-type"},
		}),
		Description: extractField(sel, []fieldStrategy{
			{selector: "[data-automation='jobShortDescription']"},
			{selector: "span.job-teaser"},
			{selector: "p"},
		}),
		SourceURL:     absoluteURL(a.base, link),
		SourceWebsite: a.Name(),
	}

	if l.LocationName == "" {
		l.LocationName = "Singapore"
	}
	if l.CategoryName == "" {
		l.CategoryName = "Technology"
	}

	salaryText := extractField(sel, []fieldStrategy{
		{selector: "[data-automation='jobSalary']"},
		{selector: "span.salary"},
	})
	l.SalaryMin, l.SalaryMax = parseSalaryRange(salaryText)

	postedText := extractField(sel, []fieldStrategy{
		{selector: "time", attr: "datetime"},
		{selector: "[data-automation='jobListingDate']"},
		{selector: "span.posted-date"},
	})
	l.PostedDate = parsePostedDate(postedText)

	return l, l.Valid()
}

func hostOnly(host string) string {
	host = strings.TrimSpace(host)
	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	return host
}

var _ SourceAdapter = (*JobStreetAdapter)(nil)
