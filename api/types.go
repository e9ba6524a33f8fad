// Package api provides the Notion REST API client.
package api

import (
	"fmt"
	"strings"
	"time"
)

// Page represents a Notion page.
type Page struct {
	Object         string              `json:"object"`
	ID             string              `json:"id"`
	URL            string              `json:"url,omitempty"`
	Archived       bool                `json:"archived,omitempty"`
	CreatedTime    time.Time           `json:"created_time"`
	LastEditedTime time.Time           `json:"last_edited_time"`
	Properties     map[string]Property `json:"properties,omitempty"`
}

// Property is a page property. Only the fields needed to read a title are
// decoded.
type Property struct {
	ID    string          `json:"id,omitempty"`
	Type  string          `json:"type"`
	Title []PlainRichText `json:"title,omitempty"`
}

// PlainRichText is the read side of a rich text item.
type PlainRichText struct {
	PlainText string `json:"plain_text"`
}

// Title returns the text of the page's title property, or "" if the page has
// none.
func (p *Page) Title() string {
	for _, prop := range p.Properties {
		if prop.Type != "title" {
			continue
		}
		var sb strings.Builder
		for _, rt := range prop.Title {
			sb.WriteString(rt.PlainText)
		}
		return sb.String()
	}
	return ""
}

// BlockList is the paginated list returned by the block children endpoints.
type BlockList struct {
	Object     string        `json:"object"`
	Results    []BlockResult `json:"results"`
	NextCursor *string       `json:"next_cursor"`
	HasMore    bool          `json:"has_more"`
}

// BlockResult is the summary of a block returned by the API.
type BlockResult struct {
	Object      string `json:"object"`
	ID          string `json:"id"`
	Type        string `json:"type"`
	HasChildren bool   `json:"has_children"`
}

// ErrorResponse represents a Notion API error.
type ErrorResponse struct {
	Object  string `json:"object"`
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *ErrorResponse) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Message
}

// IsNotFound reports whether the error is a 404 from the API.
func (e *ErrorResponse) IsNotFound() bool {
	return e.Status == 404 || e.Code == "object_not_found"
}

// IsUnauthorized reports whether the token was rejected.
func (e *ErrorResponse) IsUnauthorized() bool {
	return e.Status == 401 || e.Code == "unauthorized"
}

// IsForbidden reports whether the integration lacks access to the resource.
func (e *ErrorResponse) IsForbidden() bool {
	return e.Status == 403 || e.Code == "restricted_resource"
}

// Hint suggests a fix for common setup mistakes, or returns "".
func (e *ErrorResponse) Hint() string {
	switch {
	case e.IsUnauthorized():
		return "check your Notion integration token"
	case e.IsNotFound():
		return "check the page ID and share the page with your integration"
	case e.IsForbidden():
		return "the integration needs the insert content capability on this page"
	}
	return ""
}
