package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

var ErrNoFrontMatter = errors.New("no front matter")

var delimiters = map[string]string{
	"---": "yaml",
	"+++": "toml",
}

// splitFrontMatter separates a leading ---/+++ block from the body.
// found is false when the content does not open with a delimiter line or the
// block is never closed; a lone leading --- is a thematic break.
func splitFrontMatter(content string) (block, body, format string, found bool) {
	content = normalizeLineEndings(content)
	firstLine, rest, _ := strings.Cut(content, "\n")
	delim := strings.TrimRight(firstLine, " \t")
	format, ok := delimiters[delim]
	if !ok {
		return "", content, "", false
	}

	lines := strings.SplitAfter(rest, "\n")
	offset := 0
	for _, line := range lines {
		if strings.TrimRight(line, " \t\n") == delim {
			return rest[:offset], rest[offset+len(line):], format, true
		}
		offset += len(line)
	}
	return "", content, "", false
}

// ParseFrontMatter returns the front matter map, the trimmed body and the format name.
func ParseFrontMatter(content []byte) (map[string]interface{}, string, string, error) {
	block, body, format, found := splitFrontMatter(string(content))
	if found {
		var err error
		fm := map[string]interface{}{}
		switch format {
		case "yaml":
			err = yaml.Unmarshal([]byte(block), &fm)
		case "toml":
			err = toml.Unmarshal([]byte(block), &fm)
		}
		if err != nil {
			return nil, "", "", fmt.Errorf("parse %s front matter: %w", format, err)
		}
		return sanitizeFrontMatter(fm), strings.TrimSpace(body), format, nil
	}

	// Check for JSON ({)
	if strings.HasPrefix(strings.TrimSpace(string(content)), "{") {
		var fm map[string]interface{}
		if err := json.Unmarshal(content, &fm); err == nil {
			return fm, "", "json", nil
		}
	}

	return nil, "", "", ErrNoFrontMatter
}

// ConstructFileContent renders front matter and body back into a content file.
func ConstructFileContent(fm map[string]interface{}, body string, format string) ([]byte, error) {
	normalizedFM := sanitizeFrontMatter(fm)
	if normalizedFM == nil {
		normalizedFM = map[string]interface{}{}
	}

	var buf bytes.Buffer
	switch format {
	case "yaml":
		buf.WriteString("---\n")
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(normalizedFM); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		buf.WriteString("---\n")
	case "toml":
		buf.WriteString("+++\n")
		enc := toml.NewEncoder(&buf)
		if err := enc.Encode(normalizedFM); err != nil {
			return nil, err
		}
		buf.WriteString("+++\n")
	case "json":
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(normalizedFM); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}

	if body != "" {
		buf.WriteString("\n")
		buf.WriteString(body)
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

func sanitizeFrontMatter(fm map[string]interface{}) map[string]interface{} {
	if fm == nil {
		return nil
	}
	sanitized := make(map[string]interface{}, len(fm))
	for k, v := range fm {
		sanitized[k] = sanitizeFrontMatterValue(v)
	}
	return sanitized
}

func sanitizeFrontMatterValue(value interface{}) interface{} {
	switch v := value.(type) {
	case map[string]interface{}:
		return sanitizeFrontMatter(v)
	case map[interface{}]interface{}:
		normalized := make(map[string]interface{}, len(v))
		for key, inner := range v {
			normalized[fmt.Sprint(key)] = sanitizeFrontMatterValue(inner)
		}
		return normalized
	case []interface{}:
		slice := make([]interface{}, len(v))
		for i := range v {
			slice[i] = sanitizeFrontMatterValue(v[i])
		}
		return slice
	default:
		return v
	}
}

func normalizeLineEndings(input string) string {
	return strings.ReplaceAll(input, "\r\n", "\n")
}
