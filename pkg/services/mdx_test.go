package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileMDXRendersMarkdown(t *testing.T) {
	out, err := CompileMDX("# Hello Wordma\n\nSome *text* and ~~old~~.\n\n| a | b |\n|---|---|\n| 1 | 2 |\n")
	require.NoError(t, err)

	assert.Contains(t, out, `<h1 id="hello-wordma">Hello Wordma</h1>`)
	assert.Contains(t, out, "<em>text</em>")
	assert.Contains(t, out, "<del>old</del>")
	assert.Contains(t, out, "<table>")
}

func TestCompileMDXDropsFrontMatterAndESM(t *testing.T) {
	src := "---\ntitle: Post\n---\nimport Chart from './Chart'\nexport const meta = 1\n\n# Title\n\n<Chart />\n"
	out, err := CompileMDX(src)
	require.NoError(t, err)

	assert.NotContains(t, out, "title: Post")
	assert.NotContains(t, out, "import Chart")
	assert.NotContains(t, out, "export const")
	assert.Contains(t, out, "<h1")
	assert.Contains(t, out, "<Chart />")
}

func TestCompileMDXIgnoresBracesInCode(t *testing.T) {
	src := "Inline `map[string]{` code.\n\n```go\nfunc main() {\n```\n\nDone with {props.name}.\n"
	_, err := CompileMDX(src)
	require.NoError(t, err)
}

func TestCompileMDXErrors(t *testing.T) {
	testCases := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "UnclosedExpression",
			content: "# Title\n\nValue {props.x\n",
			want:    "3:7: Unexpected end of file in expression",
		},
		{
			name:    "StrayClosingBrace",
			content: "oops }\n",
			want:    "1:6: Unexpected closing brace",
		},
		{
			name:    "LineNumbersCountFrontMatter",
			content: "---\ntitle: x\n---\n{\n",
			want:    "4:1: Unexpected end of file",
		},
		{
			name:    "BrokenFrontMatter",
			content: "---\ntitle: [x\n---\nbody\n",
			want:    "front matter: parse yaml front matter",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := CompileMDX(tc.content)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestCompileMDXEscapedBrace(t *testing.T) {
	_, err := CompileMDX(`literal \{ brace`)
	require.NoError(t, err)
}

func TestCompileMDXLeadingThematicBreak(t *testing.T) {
	out, err := CompileMDX("---\n\nText after a rule.\n")
	require.NoError(t, err)

	assert.Contains(t, out, "<hr")
	assert.Contains(t, out, "Text after a rule.")
}

func TestCompileMDXBracesInStringLiterals(t *testing.T) {
	for _, src := range []string{
		"Close {'}'} here.\n",
		`Open {"{"} here.` + "\n",
		"Template {`a}b`} here.\n",
		`Escaped {'it\'s }'} here.` + "\n",
	} {
		_, err := CompileMDX(src)
		assert.NoError(t, err, src)
	}

	_, err := CompileMDX("Prose with 'quotes' and a stray }\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unexpected closing brace")
}
