package api

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// pageIDPattern matches a 32 character hex id, with or without dashes, at the
// end of a page URL or on its own.
var pageIDPattern = regexp.MustCompile(`([0-9a-fA-F]{8}-?[0-9a-fA-F]{4}-?[0-9a-fA-F]{4}-?[0-9a-fA-F]{4}-?[0-9a-fA-F]{12})(?:[?#].*)?$`)

// NormalizePageID accepts a page id or a Notion page URL and returns the id.
// Input that does not contain an id is returned trimmed and unchanged.
func NormalizePageID(s string) string {
	s = strings.TrimSpace(s)
	if m := pageIDPattern.FindStringSubmatch(s); m != nil {
		return strings.ToLower(m[1])
	}
	return s
}

// GetPage returns a single page by ID.
func (c *Client) GetPage(ctx context.Context, pageID string) (*Page, error) {
	path := fmt.Sprintf("/pages/%s", NormalizePageID(pageID))

	body, err := c.Get(ctx, path)
	if err != nil {
		return nil, err
	}

	var page Page
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("failed to parse page response: %w", err)
	}

	return &page, nil
}
