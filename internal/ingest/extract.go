package ingest

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// fieldStrategy is one way of pulling a field out of a listing container.
// Strategies are tried in order; the first that yields non-empty text
// wins. An empty attr means the element's text content.
type fieldStrategy struct {
	selector string
	attr     string
}

func extractField(container *goquery.Selection, strategies []fieldStrategy) string {
	if container == nil {
		return ""
	}
	for _, st := range strategies {
		node := container.Find(st.selector).First()
		if node.Length() == 0 {
			continue
		}
		var v string
		if st.attr != "" {
			v, _ = node.Attr(st.attr)
		} else {
			v = node.Text()
		}
		v = strings.TrimSpace(v)
		if v != "" {
			return v
		}
	}
	return ""
}

// findContainers tries each container selector in order and returns the
// matches of the first selector that finds anything. Sites restructure
// their markup; an exhausted chain means zero listings, never a crash.
func findContainers(root *goquery.Selection, selectors []string) *goquery.Selection {
	if root == nil {
		return nil
	}
	for _, sel := range selectors {
		matches := root.Find(sel)
		if matches.Length() > 0 {
			return matches
		}
	}
	return nil
}

// absoluteURL rewrites href against base when it is relative. Unparseable
// input yields the empty string so the listing fails validation instead
// of carrying a broken link.
func absoluteURL(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if ref.IsAbs() {
		return ref.String()
	}
	if base == nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}
