package ingest

import (
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func docFromHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return doc
}

func TestExtractFieldFallbackOrder(t *testing.T) {
	doc := docFromHTML(t, `
		<div class="card">
			<span class="primary">  Primary Title </span>
			<span class="secondary">Secondary Title</span>
		</div>`)
	container := doc.Find("div.card")

	got := extractField(container, []fieldStrategy{
		{selector: "span.primary"},
		{selector: "span.secondary"},
	})
	if got != "Primary Title" {
		t.Fatalf("expected first strategy to win, got %q", got)
	}

	got = extractField(container, []fieldStrategy{
		{selector: "span.missing"},
		{selector: "span.secondary"},
	})
	if got != "Secondary Title" {
		t.Fatalf("expected fallback strategy, got %q", got)
	}

	got = extractField(container, []fieldStrategy{
		{selector: "span.missing"},
		{selector: "span.also-missing"},
	})
	if got != "" {
		t.Fatalf("expected empty on exhausted chain, got %q", got)
	}
}

func TestExtractFieldSkipsEmptyMatches(t *testing.T) {
	doc := docFromHTML(t, `
		<div class="card">
			<span class="primary">   </span>
			<span class="secondary">Real Value</span>
		</div>`)
	container := doc.Find("div.card")

	got := extractField(container, []fieldStrategy{
		{selector: "span.primary"},
		{selector: "span.secondary"},
	})
	if got != "Real Value" {
		t.Fatalf("expected whitespace-only match to be skipped, got %q", got)
	}
}

func TestExtractFieldAttr(t *testing.T) {
	doc := docFromHTML(t, `<div class="card"><a href="/job/42">Engineer</a></div>`)
	container := doc.Find("div.card")

	got := extractField(container, []fieldStrategy{{selector: "a", attr: "href"}})
	if got != "/job/42" {
		t.Fatalf("expected href attribute, got %q", got)
	}
}

func TestFindContainersChain(t *testing.T) {
	doc := docFromHTML(t, `
		<ul>
			<li class="job-item">one</li>
			<li class="job-item">two</li>
		</ul>`)

	matches := findContainers(doc.Selection, []string{"article[data-job-id]", "li.job-item"})
	if matches == nil || matches.Length() != 2 {
		t.Fatalf("expected second selector to match 2 containers")
	}

	if m := findContainers(doc.Selection, []string{"div.none", "span.none"}); m != nil {
		t.Fatalf("expected nil on exhausted container chain")
	}
}

func TestAbsoluteURL(t *testing.T) {
	base, _ := url.Parse("https://example.com/jobs?page=1")

	if got := absoluteURL(base, "/job/1"); got != "https://example.com/job/1" {
		t.Fatalf("expected relative link rewritten, got %q", got)
	}
	if got := absoluteURL(base, "https://other.example/job/2"); got != "https://other.example/job/2" {
		t.Fatalf("expected absolute link untouched, got %q", got)
	}
	if got := absoluteURL(base, ""); got != "" {
		t.Fatalf("expected empty href to stay empty, got %q", got)
	}
	if got := absoluteURL(nil, "/job/3"); got != "" {
		t.Fatalf("expected empty result without base, got %q", got)
	}
}
