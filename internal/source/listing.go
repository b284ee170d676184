package source

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"

	"github.com/isoforge/isopin/internal/vercmp"
)

// DefaultListingSelector matches the anchors of a plain directory index.
const DefaultListingSelector = "a[href]"

// listingXPath recovers anchors when a narrower CSS selector finds none,
// e.g. a fancy-index selector applied to a bare autoindex page.
const listingXPath = "//a[@href]"

// ListingMax scrapes version directories out of an HTML index page and
// returns the newest one. With a non-empty family only versions inside that
// release line are considered.
func (r *Resolver) ListingMax(ctx context.Context, url, selector, family string) (string, error) {
	data, err := r.client.Get(ctx, url)
	if err != nil {
		return "", err
	}

	if selector == "" {
		selector = DefaultListingSelector
	}
	hrefs, err := extractHrefs(data, selector)
	if err != nil {
		return "", fmt.Errorf("failed to parse listing %s: %w", url, err)
	}

	var candidates []string
	for _, href := range hrefs {
		version := strings.TrimSuffix(href, "/")
		if !vercmp.Numeric(version) {
			continue
		}
		if family != "" && !vercmp.HasFamily(version, family) {
			continue
		}
		candidates = append(candidates, version)
	}
	if len(candidates) == 0 {
		if family != "" {
			return "", fmt.Errorf("%w: no %s.* directories under %s", ErrNoVersions, family, url)
		}
		return "", fmt.Errorf("%w: no version directories under %s", ErrNoVersions, url)
	}

	return vercmp.Latest(candidates), nil
}

// extractHrefs pulls anchor targets out of an HTML page, trying the CSS
// selector first and falling back to an XPath query when it matches nothing.
func extractHrefs(content []byte, selector string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}

	var hrefs []string
	doc.Find(selector).Each(func(_ int, selection *goquery.Selection) {
		if href, exists := selection.Attr("href"); exists {
			hrefs = append(hrefs, href)
		}
	})
	if len(hrefs) > 0 {
		return hrefs, nil
	}

	root, err := htmlquery.Parse(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}
	nodes, err := htmlquery.QueryAll(root, listingXPath)
	if err != nil {
		return nil, err
	}
	for _, node := range nodes {
		if href := htmlquery.SelectAttr(node, "href"); href != "" {
			hrefs = append(hrefs, href)
		}
	}

	return hrefs, nil
}
