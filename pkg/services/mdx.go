package services

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// mdxCompiler has fixed options: GFM, heading ids, raw HTML and component tags passed through.
var mdxCompiler = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	goldmark.WithRendererOptions(html.WithUnsafe()),
)

// CompileMDX renders MDX content to HTML. Front matter is validated and dropped,
// top-level import/export lines are dropped, and {expression} braces must balance.
func CompileMDX(content string) (string, error) {
	src := normalizeLineEndings(content)

	block, body, _, found := splitFrontMatter(src)
	if found {
		if _, _, _, err := ParseFrontMatter([]byte(src)); err != nil {
			return "", fmt.Errorf("front matter: %w", err)
		}
		// keep line numbers in errors relative to the original document
		body = strings.Repeat("\n", strings.Count(block, "\n")+2) + body
	}

	body = stripESM(body)
	if err := checkExpressions(body); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := mdxCompiler.Convert([]byte(body), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// stripESM blanks top-level import/export statements outside fenced code.
func stripESM(src string) string {
	lines := strings.Split(src, "\n")
	var fence string
	for i, line := range lines {
		if f, ok := fenceMarker(line); ok {
			switch {
			case fence == "":
				fence = f
			case strings.HasPrefix(f, fence):
				fence = ""
			}
			continue
		}
		if fence != "" {
			continue
		}
		if strings.HasPrefix(line, "import ") || strings.HasPrefix(line, "export ") {
			lines[i] = ""
		}
	}
	return strings.Join(lines, "\n")
}

func fenceMarker(line string) (string, bool) {
	trimmed := strings.TrimLeft(line, " ")
	if len(line)-len(trimmed) > 3 {
		return "", false
	}
	for _, ch := range []string{"`", "~"} {
		n := 0
		for n < len(trimmed) && trimmed[n] == ch[0] {
			n++
		}
		if n >= 3 {
			return trimmed[:n], true
		}
	}
	return "", false
}

type bracePos struct{ line, col int }

// checkExpressions reports unbalanced { } outside code spans and fenced blocks.
func checkExpressions(src string) error {
	var (
		stack      []bracePos
		fence      string
		inlineTick int
		quote      rune
	)

	for i, line := range strings.Split(src, "\n") {
		lineNo := i + 1
		if f, ok := fenceMarker(line); ok && len(stack) == 0 {
			switch {
			case fence == "":
				fence = f
			case strings.HasPrefix(f, fence):
				fence = ""
			}
			continue
		}
		if fence != "" {
			continue
		}
		if strings.TrimSpace(line) == "" {
			// code spans do not cross paragraphs
			inlineTick = 0
		}

		runes := []rune(line)
		for j := 0; j < len(runes); j++ {
			r := runes[j]
			if quote != 0 {
				// string literal inside an expression
				switch r {
				case '\\':
					j++
				case quote:
					quote = 0
				}
				continue
			}
			switch {
			case len(stack) > 0 && inlineTick == 0 && (r == '\'' || r == '"' || r == '`'):
				quote = r
			case r == '\\' && inlineTick == 0:
				j++
			case r == '`':
				n := 1
				for j+n < len(runes) && runes[j+n] == '`' {
					n++
				}
				if inlineTick == 0 {
					inlineTick = n
				} else if inlineTick == n {
					inlineTick = 0
				}
				j += n - 1
			case inlineTick > 0:
			case r == '{':
				stack = append(stack, bracePos{lineNo, j + 1})
			case r == '}':
				if len(stack) == 0 {
					return fmt.Errorf("%d:%d: Unexpected closing brace '}'", lineNo, j+1)
				}
				stack = stack[:len(stack)-1]
			}
		}
	}

	if len(stack) > 0 {
		open := stack[len(stack)-1]
		return fmt.Errorf("%d:%d: Unexpected end of file in expression, expected a corresponding closing brace for '{'", open.line, open.col)
	}
	return nil
}
