package md

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func marshalBlock(t *testing.T, b *NotionBlock) map[string]interface{} {
	t.Helper()
	data, err := json.Marshal(b)
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func TestToNotionBlocks_Types(t *testing.T) {
	doc := "# One\n## Two\n### Three\n- bullet\n1. number\n- [x] done\n> quote\n---\n```go\nx := 1\n```\n<details><summary>s</summary>b</details>\nplain"
	blocks := ToNotionBlocks(ParseBlocks(doc))

	types := make([]string, 0, len(blocks))
	for _, b := range blocks {
		types = append(types, b.Type)
	}
	assert.Equal(t, []string{
		"heading_1", "heading_2", "heading_3",
		"bulleted_list_item", "numbered_list_item", "to_do",
		"quote", "divider", "code", "toggle", "paragraph",
	}, types)
}

func TestNotionBlock_MarshalParagraph(t *testing.T) {
	blocks := ToNotionBlocks(ParseBlocks("Hello **world**"))
	require.Len(t, blocks, 1)

	out := marshalBlock(t, blocks[0])
	assert.Equal(t, "block", out["object"])
	assert.Equal(t, "paragraph", out["type"])

	payload := out["paragraph"].(map[string]interface{})
	richText := payload["rich_text"].([]interface{})
	require.Len(t, richText, 2)

	first := richText[0].(map[string]interface{})
	assert.Equal(t, "text", first["type"])
	assert.Equal(t, "Hello ", first["text"].(map[string]interface{})["content"])
	assert.NotContains(t, first, "annotations")

	second := richText[1].(map[string]interface{})
	annotations := second["annotations"].(map[string]interface{})
	assert.Equal(t, true, annotations["bold"])
	assert.NotContains(t, annotations, "italic")
}

func TestNotionBlock_MarshalDivider(t *testing.T) {
	data, err := json.Marshal(NewDivider())
	require.NoError(t, err)
	assert.JSONEq(t, `{"object":"block","type":"divider","divider":{}}`, string(data))
}

func TestNotionBlock_MarshalUncheckedToDo(t *testing.T) {
	blocks := ToNotionBlocks(ParseBlocks("- [ ] open task"))
	require.Len(t, blocks, 1)

	out := marshalBlock(t, blocks[0])
	payload := out["to_do"].(map[string]interface{})
	assert.Contains(t, payload, "checked")
	assert.Equal(t, false, payload["checked"])
}

func TestNotionBlock_MarshalLink(t *testing.T) {
	blocks := ToNotionBlocks(ParseBlocks("[Go](https://go.dev)"))
	require.Len(t, blocks, 1)

	data, err := json.Marshal(blocks[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"object": "block",
		"type": "paragraph",
		"paragraph": {
			"rich_text": [
				{"type": "text", "text": {"content": "Go", "link": {"url": "https://go.dev"}}}
			]
		}
	}`, string(data))
}

func TestNotionBlock_MarshalCode(t *testing.T) {
	blocks := ToNotionBlocks(ParseBlocks("```ts\nlet x = 1\n```"))
	require.Len(t, blocks, 1)

	data, err := json.Marshal(blocks[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"object": "block",
		"type": "code",
		"code": {
			"rich_text": [{"type": "text", "text": {"content": "let x = 1"}}],
			"language": "typescript"
		}
	}`, string(data))
}

func TestNotionBlock_MarshalToggle(t *testing.T) {
	blocks := ToNotionBlocks(ParseBlocks("<details><summary>More</summary>inside</details>"))
	require.Len(t, blocks, 1)

	out := marshalBlock(t, blocks[0])
	payload := out["toggle"].(map[string]interface{})
	children := payload["children"].([]interface{})
	require.Len(t, children, 1)

	child := children[0].(map[string]interface{})
	assert.Equal(t, "paragraph", child["type"])
}

func TestNotionBlock_EmptyHeadingKeepsRichText(t *testing.T) {
	blocks := ToNotionBlocks([]Block{{Type: BlockHeading, Level: 2}})
	require.Len(t, blocks, 1)

	out := marshalBlock(t, blocks[0])
	payload := out["heading_2"].(map[string]interface{})
	assert.Contains(t, payload, "rich_text")
}

func TestToNotionBlocks_HeadingLevelClamped(t *testing.T) {
	blocks := ToNotionBlocks([]Block{
		{Type: BlockHeading, Level: 0},
		{Type: BlockHeading, Level: 6},
	})
	assert.Equal(t, "heading_1", blocks[0].Type)
	assert.Equal(t, "heading_3", blocks[1].Type)
}

func TestToNotionBlocks_LongContentSplit(t *testing.T) {
	content := strings.Repeat("a", 4500)
	blocks := ToNotionBlocks([]Block{{Type: BlockParagraph, Spans: []TextSpan{
		{Content: content, Annotations: Annotations{Italic: true}},
	}}})
	require.Len(t, blocks, 1)

	richText := blocks[0].RichText
	require.Len(t, richText, 3)
	assert.Len(t, richText[0].Text.Content, 2000)
	assert.Len(t, richText[1].Text.Content, 2000)
	assert.Len(t, richText[2].Text.Content, 500)
	for _, rt := range richText {
		require.NotNil(t, rt.Annotations)
		assert.True(t, rt.Annotations.Italic)
	}
}

func TestSplitContent(t *testing.T) {
	assert.Equal(t, []string{""}, splitContent("", 5))
	assert.Equal(t, []string{"abc"}, splitContent("abc", 5))
	assert.Equal(t, []string{"abcde"}, splitContent("abcde", 5))
	assert.Equal(t, []string{"abc", "de"}, splitContent("abcde", 3))

	// Runes are never cut in half.
	assert.Equal(t, []string{"日本", "語"}, splitContent("日本語", 2))
}

func TestNotionLanguage(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", "plain text"},
		{"plain text", "plain text"},
		{"go", "go"},
		{"Go", "go"},
		{"golang", "go"},
		{"js", "javascript"},
		{"ts", "typescript"},
		{"py", "python"},
		{"sh", "shell"},
		{"bash", "bash"},
		{"yml", "yaml"},
		{"cpp", "c++"},
		{"csharp", "c#"},
		{" rust ", "rust"},
		{"txt", "plain text"},
		{"brainfuck", "plain text"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NotionLanguage(tt.input))
		})
	}
}
