// Package publish appends processed markdown to a Notion page.
package publish

import (
	"context"
	"errors"
	"fmt"

	"github.com/open-cli-collective/noca/api"
	"github.com/open-cli-collective/noca/internal/logger"
	"github.com/open-cli-collective/noca/pkg/md"
)

// ErrEmptyDocument is returned when the markdown produces no blocks.
var ErrEmptyDocument = errors.New("document has no content")

// Client is the subset of the Notion API the publisher uses.
type Client interface {
	GetPage(ctx context.Context, pageID string) (*api.Page, error)
	AppendBlockChildren(ctx context.Context, blockID string, children []*md.NotionBlock) (int, error)
}

// Publisher appends content to one Notion page.
type Publisher struct {
	client Client
	pageID string
	log    *logger.Logger
}

// New creates a publisher for pageID. A nil log discards events.
func New(client Client, pageID string, log *logger.Logger) *Publisher {
	if log == nil {
		log = logger.Discard()
	}
	return &Publisher{client: client, pageID: pageID, log: log}
}

// Blocks converts markdown into the blocks AppendMarkdown sends: a divider
// separating this entry from earlier ones, followed by the document.
func Blocks(markdown string) []*md.NotionBlock {
	doc := md.ToNotionBlocks(md.ParseBlocks(markdown))
	return append([]*md.NotionBlock{md.NewDivider()}, doc...)
}

// AppendMarkdown converts markdown to blocks and appends them, after a
// divider, to the end of the page. It returns the number of blocks appended.
func (p *Publisher) AppendMarkdown(ctx context.Context, markdown string) (int, error) {
	blocks := Blocks(markdown)
	if len(blocks) == 1 {
		return 0, ErrEmptyDocument
	}

	n, err := p.client.AppendBlockChildren(ctx, p.pageID, blocks)
	if err != nil {
		p.log.PushFailed(p.pageID, n, err)
		return n, fmt.Errorf("failed to append blocks: %w", err)
	}

	p.log.BlocksPushed(p.pageID, n)
	return n, nil
}

// PageTitle reads the page and returns its title. It doubles as a
// connection check for the configured token.
func (p *Publisher) PageTitle(ctx context.Context) (string, error) {
	page, err := p.client.GetPage(ctx, p.pageID)
	if err != nil {
		return "", fmt.Errorf("failed to connect to Notion page: %w", err)
	}
	return page.Title(), nil
}
