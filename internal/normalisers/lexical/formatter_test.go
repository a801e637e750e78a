package lexical

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/accords-library/search-sync/internal/core/domain"
	"github.com/accords-library/search-sync/internal/core/ports/driven"
)

func TestNew(t *testing.T) {
	formatter := New()
	require.NotNil(t, formatter)

	var _ driven.TextFormatter = formatter
}

func TestInlineTitle(t *testing.T) {
	tests := []struct {
		name     string
		pretitle string
		title    string
		subtitle string
		want     string
	}{
		{"title only", "", "Hello", "", "Hello"},
		{"all parts", "Part 1", "Hello", "World", "Part 1: Hello - World"},
		{"pretitle", "Part 1", "Hello", "", "Part 1: Hello"},
		{"subtitle", "", "Hello", "World", "Hello - World"},
	}

	formatter := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatter.InlineTitle(tt.pretitle, tt.title, tt.subtitle))
		})
	}
}

func TestRichText_Paragraphs(t *testing.T) {
	content := domain.RichText(`{
		"root": {
			"type": "root",
			"children": [
				{"type": "paragraph", "children": [
					{"type": "text", "text": "Hello "},
					{"type": "text", "text": "world", "format": 1}
				]},
				{"type": "heading", "tag": "h2", "children": [
					{"type": "text", "text": "Chapter"}
				]}
			]
		}
	}`)

	text, err := New().RichText(content)
	require.NoError(t, err)
	assert.Equal(t, "Hello world\n\nChapter", text)
}

func TestRichText_LinebreakAndTab(t *testing.T) {
	content := domain.RichText(`{"root": {"type": "root", "children": [
		{"type": "paragraph", "children": [
			{"type": "text", "text": "line one"},
			{"type": "linebreak"},
			{"type": "tab"},
			{"type": "text", "text": "line two"}
		]}
	]}}`)

	text, err := New().RichText(content)
	require.NoError(t, err)
	assert.Equal(t, "line one\n\tline two", text)
}

func TestRichText_List(t *testing.T) {
	content := domain.RichText(`{"root": {"type": "root", "children": [
		{"type": "list", "listType": "bullet", "children": [
			{"type": "listitem", "children": [{"type": "text", "text": "first"}]},
			{"type": "listitem", "children": [{"type": "text", "text": "second"}]}
		]},
		{"type": "paragraph", "children": [{"type": "text", "text": "after"}]}
	]}}`)

	text, err := New().RichText(content)
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond\n\nafter", text)
}

func TestRichText_LinksAndUnknownNodes(t *testing.T) {
	content := domain.RichText(`{"root": {"type": "root", "children": [
		{"type": "paragraph", "children": [
			{"type": "text", "text": "see "},
			{"type": "link", "fields": {"url": "https://example.com"}, "children": [
				{"type": "text", "text": "here"}
			]},
			{"type": "someFutureNode", "children": [{"type": "text", "text": "!"}]},
			{"type": "horizontalrule"}
		]}
	]}}`)

	text, err := New().RichText(content)
	require.NoError(t, err)
	assert.Equal(t, "see here!", text)
}

func TestRichText_SkipsEmptyBlocks(t *testing.T) {
	content := domain.RichText(`{"root": {"type": "root", "children": [
		{"type": "paragraph", "children": []},
		{"type": "paragraph", "children": [{"type": "text", "text": "only"}]},
		{"type": "upload", "value": {"id": "img1"}}
	]}}`)

	text, err := New().RichText(content)
	require.NoError(t, err)
	assert.Equal(t, "only", text)
}

func TestRichText_BlockWithNestedRichText(t *testing.T) {
	content := domain.RichText(`{"root": {"type": "root", "children": [
		{"type": "block", "fields": {
			"blockType": "transcriptBlock",
			"lines": [{"content": "ignored"}],
			"content": {"root": {"type": "root", "children": [
				{"type": "paragraph", "children": [{"type": "text", "text": "nested"}]}
			]}},
			"caption": {"root": {"type": "root", "children": [
				{"type": "paragraph", "children": [{"type": "text", "text": "caption"}]}
			]}}
		}},
		{"type": "paragraph", "children": [{"type": "text", "text": "tail"}]}
	]}}`)

	text, err := New().RichText(content)
	require.NoError(t, err)
	assert.Equal(t, "caption\n\nnested\n\ntail", text)
}

func TestRichText_Empty(t *testing.T) {
	formatter := New()

	for _, content := range []domain.RichText{nil, domain.RichText("null"), domain.RichText("  ")} {
		text, err := formatter.RichText(content)
		require.NoError(t, err)
		assert.Empty(t, text)
	}

	text, err := formatter.RichText(domain.RichText(`{"root": {"type": "root", "children": []}}`))
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestRichText_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not json", `{"root":`},
		{"no root", `{"type": "paragraph"}`},
		{"wrong shape", `"plain string"`},
	}

	formatter := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := formatter.RichText(domain.RichText(tt.content))
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}
