// Package fetch reads metadata from web pages referenced by captures.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	defaultTimeout = 10 * time.Second
	// Pages larger than this are cut off before parsing.
	maxBodyBytes = 2 << 20
	userAgent    = "noca (+https://github.com/open-cli-collective/noca)"
)

// NewHTTPClient returns a client suitable for Title.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: defaultTimeout}
}

// Title fetches url and returns the document title. It prefers the
// og:title meta tag and falls back to <title>. An empty string means the
// page has no title.
func Title(ctx context.Context, client *http.Client, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	res, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("could not get %s: %w", url, err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		return "", fmt.Errorf("could not get %s: status %d", url, res.StatusCode)
	}

	document, err := goquery.NewDocumentFromReader(io.LimitReader(res.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("could not parse body: %w", err)
	}

	if og, ok := document.Find(`meta[property="og:title"]`).First().Attr("content"); ok {
		if title := clean(og); title != "" {
			return title, nil
		}
	}

	return clean(document.Find("title").First().Text()), nil
}

func clean(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
