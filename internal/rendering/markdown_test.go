package rendering

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkdownToElements_Headings(t *testing.T) {
	src := "# Title\n\n## Section\n\n### Sub\n\n#### Minor\n\nBody   text\nwrapped.\n"
	got, err := MarkdownToElements(src)
	require.NoError(t, err)
	assert.Equal(t, []Element{
		Title("Title"),
		Heading("Section"),
		Subheading("Sub"),
		Paragraph("Minor"),
		Paragraph("Body text wrapped."),
	}, got)
}

func TestMarkdownToElements_Lists(t *testing.T) {
	src := "- one\n- two **bold**\n  - nested\n\n1. first\n2. second\n"
	got, err := MarkdownToElements(src)
	require.NoError(t, err)
	assert.Equal(t, []Element{
		Bullet("one", 0),
		Bullet("two bold", 0),
		Bullet("nested", 1),
		NumberedItem(1, "first", 0),
		NumberedItem(2, "second", 0),
	}, got)
}

func TestMarkdownToElements_TableAndRule(t *testing.T) {
	src := "| Item | Amount |\n|------|--------|\n| Bed fee | $175 |\n\n---\n\n> Quoted note\n"
	got, err := MarkdownToElements(src)
	require.NoError(t, err)
	require.Len(t, got, 3)

	require.Equal(t, KindTable, got[0].Kind)
	assert.Equal(t, []string{"Item", "Amount"}, got[0].Table.Headers)
	assert.Equal(t, [][]string{{"Bed fee", "$175"}}, got[0].Table.Rows)
	assert.Equal(t, Spacer(), got[1])
	assert.Equal(t, Paragraph("Quoted note"), got[2])
}

func TestMarkdownToElements_Empty(t *testing.T) {
	got, err := MarkdownToElements("")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMarkdownToElements_RawHTMLBlockIsOmitted(t *testing.T) {
	got, err := MarkdownToElements("<div>internal note</div>\n")
	require.NoError(t, err)
	assert.Empty(t, got)
}
