package doc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sambeau/lkql/pkg/lkql/lkql"
)

const source = `# Rules for object declarations.

# All object declarations.
# Includes **constants**.
let decls = query o@ObjectDecl

let x = 1 # not documentation
# Declarations named A.
let named = query o@ObjectDecl when o.identifier == "A"
print(named)

# detached

let plain = 2
`

func TestExtract(t *testing.T) {
	unit, err := lkql.Parse(source)
	require.NoError(t, err)

	entries := Extract(unit)
	require.Len(t, entries, 4)

	assert.Equal(t, Entry{Name: "decls", Line: 5, Kind: "query", Text: "All object declarations.\nIncludes **constants**."}, entries[0])
	assert.Equal(t, Entry{Name: "x", Line: 7, Kind: "integer", Text: ""}, entries[1])
	assert.Equal(t, Entry{Name: "named", Line: 9, Kind: "filtered-query", Text: "Declarations named A."}, entries[2])
	assert.Equal(t, "plain", entries[3].Name)
	assert.Empty(t, entries[3].Text)
}

func TestTrailingCommentDoesNotDocumentNextLine(t *testing.T) {
	unit, err := lkql.Parse("let a = 1 # about a\nlet b = 2")
	require.NoError(t, err)

	entries := Extract(unit)
	require.Len(t, entries, 2)
	assert.Empty(t, entries[1].Text)
}

func TestMarkdown(t *testing.T) {
	md := Markdown("Rules", []Entry{
		{Name: "decls", Line: 3, Kind: "query", Text: "All declarations."},
		{Name: "n", Line: 4, Kind: "integer"},
	})
	assert.Equal(t, "# Rules\n\n## `decls`\n\n*query, line 3*\n\nAll declarations.\n\n## `n`\n\n*integer, line 4*\n\n", md)
}

func TestHTML(t *testing.T) {
	html, err := HTML("Rules", []Entry{{Name: "decls", Line: 3, Kind: "query", Text: "Includes **constants**."}})
	require.NoError(t, err)

	assert.Contains(t, html, `<h1 id="rules">Rules</h1>`)
	assert.Contains(t, html, "<code>decls</code>")
	assert.Contains(t, html, "<strong>constants</strong>")
}
