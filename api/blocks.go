package api

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/open-cli-collective/noca/pkg/md"
)

// MaxChildrenPerRequest is the most children the append endpoint accepts in
// one request.
const MaxChildrenPerRequest = 100

// AppendChildrenRequest is the request body for appending block children.
type AppendChildrenRequest struct {
	Children []*md.NotionBlock `json:"children"`
}

// AppendBlockChildren appends blocks to the end of a page or block, splitting
// them into requests of at most MaxChildrenPerRequest. Nested children beyond
// that limit are appended to the created parent block in follow-up requests.
// It returns the number of top-level blocks appended before any error.
func (c *Client) AppendBlockChildren(ctx context.Context, blockID string, children []*md.NotionBlock) (int, error) {
	path := fmt.Sprintf("/blocks/%s/children", NormalizePageID(blockID))

	appended := 0
	for start := 0; start < len(children); start += MaxChildrenPerRequest {
		end := start + MaxChildrenPerRequest
		if end > len(children) {
			end = len(children)
		}

		batch, overflow := splitNested(children[start:end])

		body, err := c.Patch(ctx, path, &AppendChildrenRequest{Children: batch})
		if err != nil {
			return appended, err
		}

		var result BlockList
		if err := json.Unmarshal(body, &result); err != nil {
			return appended, fmt.Errorf("failed to parse append response: %w", err)
		}

		appended += end - start

		for _, i := range sortedKeys(overflow) {
			if i >= len(result.Results) || result.Results[i].ID == "" {
				return appended, fmt.Errorf("append response is missing block %d of the batch", i)
			}
			if _, err := c.AppendBlockChildren(ctx, result.Results[i].ID, overflow[i]); err != nil {
				return appended, fmt.Errorf("failed to append nested children: %w", err)
			}
		}
	}

	return appended, nil
}

// splitNested returns a copy of batch in which no block carries more than
// MaxChildrenPerRequest children, and the removed children keyed by the
// block's index in batch. The caller's blocks are not modified.
func splitNested(batch []*md.NotionBlock) ([]*md.NotionBlock, map[int][]*md.NotionBlock) {
	out := make([]*md.NotionBlock, len(batch))
	overflow := map[int][]*md.NotionBlock{}
	for i, b := range batch {
		out[i] = b
		if len(b.Children) <= MaxChildrenPerRequest {
			continue
		}
		head := *b
		head.Children = b.Children[:MaxChildrenPerRequest]
		out[i] = &head
		overflow[i] = b.Children[MaxChildrenPerRequest:]
	}
	return out, overflow
}

func sortedKeys(m map[int][]*md.NotionBlock) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
