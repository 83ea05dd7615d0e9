package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/natefinch/atomic"

	"wordma/pkg/models"
)

// DefaultThumbnail matches the theme content schema default.
const DefaultThumbnail = "/images/img-2.jpg"

// ExportManifestName lists, inside the posts dir, the files the last export wrote.
const ExportManifestName = ".wordma-export.json"

// ArticleLister is the part of Store the exporter needs.
type ArticleLister interface {
	ListArticles(ctx context.Context) ([]models.Article, error)
}

// ExportResult lists files touched by ExportContent, relative to the posts dir.
type ExportResult struct {
	Dir     string   `json:"dir"`
	Written []string `json:"written"`
	Removed []string `json:"removed"`
}

// ExportContent writes each article to <contentDir>/posts as Markdown with YAML front matter.
// Files written by a previous export whose article no longer exists or was renamed are removed;
// the manifest of exported names keeps hand-written posts out of that sweep.
func ExportContent(ctx context.Context, lister ArticleLister, contentDir string) (*ExportResult, error) {
	articles, err := lister.ListArticles(ctx)
	if err != nil {
		return nil, err
	}

	postsDir := filepath.Join(contentDir, "posts")
	if err := os.MkdirAll(postsDir, 0o755); err != nil {
		return nil, fmt.Errorf("create posts dir: %w", err)
	}

	previous, err := readExportManifest(postsDir)
	if err != nil {
		return nil, err
	}

	result := &ExportResult{Dir: postsDir, Written: []string{}, Removed: []string{}}
	keep := make(map[string]bool, len(articles))

	for _, a := range articles {
		name := ExportFileName(a)
		data, err := RenderPost(a)
		if err != nil {
			return result, fmt.Errorf("render article %d: %w", a.ID, err)
		}
		if err := atomic.WriteFile(filepath.Join(postsDir, name), bytes.NewReader(data)); err != nil {
			return result, fmt.Errorf("write %s: %w", name, err)
		}
		keep[name] = true
		result.Written = append(result.Written, name)
	}
	sort.Strings(result.Written)

	if err := writeExportManifest(postsDir, result.Written); err != nil {
		return result, err
	}

	for _, name := range previous {
		if keep[name] || name != filepath.Base(name) || filepath.Ext(name) != ".md" {
			continue
		}
		err := os.Remove(filepath.Join(postsDir, name))
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return result, fmt.Errorf("remove stale %s: %w", name, err)
		}
		result.Removed = append(result.Removed, name)
	}

	sort.Strings(result.Removed)
	return result, nil
}

type exportManifest struct {
	Files []string `json:"files"`
}

func readExportManifest(postsDir string) ([]string, error) {
	raw, err := os.ReadFile(filepath.Join(postsDir, ExportManifestName))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read export manifest: %w", err)
	}
	var m exportManifest
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("parse export manifest: %w", err)
	}
	return m.Files, nil
}

func writeExportManifest(postsDir string, files []string) error {
	raw, err := json.MarshalIndent(exportManifest{Files: files}, "", "  ")
	if err != nil {
		return err
	}
	if err := atomic.WriteFile(filepath.Join(postsDir, ExportManifestName), bytes.NewReader(raw)); err != nil {
		return fmt.Errorf("write export manifest: %w", err)
	}
	return nil
}

// ExportFileName is "<id>-<slug>.md", or "<id>.md" when the title has no ASCII letters or digits.
func ExportFileName(a models.Article) string {
	id := strconv.FormatUint(uint64(a.ID), 10)
	if slug := Slugify(a.Title); slug != "" {
		return id + "-" + slug + ".md"
	}
	return id + ".md"
}

// Slugify lowercases ASCII letters and digits and joins runs of anything else with "-".
func Slugify(title string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(title) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			dash = false
			continue
		}
		dash = true
	}
	return b.String()
}

// RenderPost builds the content file for one article.
func RenderPost(a models.Article) ([]byte, error) {
	description := ""
	if a.Summary != nil {
		description = *a.Summary
	}
	thumbnail := DefaultThumbnail
	if a.Cover != nil && *a.Cover != "" {
		thumbnail = *a.Cover
	}

	fm := map[string]interface{}{
		"title":       a.Title,
		"created":     a.CreatedAt.UTC(),
		"updated":     a.UpdatedAt.UTC(),
		"draft":       a.Status != models.StatusPublished,
		"description": description,
		"thumbnail":   thumbnail,
		"tags":        []interface{}{},
		"categories":  []interface{}{},
	}
	return ConstructFileContent(fm, strings.TrimSpace(a.Content), "yaml")
}
