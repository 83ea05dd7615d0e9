package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"wordma/pkg/models"
)

// buildTempDir is where theme builds write their static output inside the deploy dir.
const buildTempDir = ".temp"

// ThemeManager installs, runs and builds themes under ThemesDir.
type ThemeManager struct {
	ThemesDir      string
	DeployDir      string
	PackageManager string
	Runner         Runner
}

// BuildResult describes where a theme build ended up.
type BuildResult struct {
	Log       string `json:"log"`
	OutputDir string `json:"output_dir,omitempty"`
	Moved     bool   `json:"moved"`
}

// ThemeNameFromURL takes the last path segment of a git URL without ".git".
func ThemeNameFromURL(rawURL string) string {
	trimmed := strings.TrimRight(strings.TrimSpace(rawURL), "/")
	if i := strings.LastIndexAny(trimmed, "/:"); i >= 0 {
		trimmed = trimmed[i+1:]
	}
	return strings.TrimSuffix(trimmed, ".git")
}

func (m *ThemeManager) themeDir(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return "", fmt.Errorf("%w: theme name %q", ErrInvalidInput, name)
	}
	return filepath.Join(m.ThemesDir, name), nil
}

// Add clones a theme repository into the themes directory.
func (m *ThemeManager) Add(ctx context.Context, rawURL string) (string, string, error) {
	name := ThemeNameFromURL(rawURL)
	dir, err := m.themeDir(name)
	if err != nil {
		return "", "", err
	}

	if err := os.MkdirAll(m.ThemesDir, 0o755); err != nil {
		return "", "", fmt.Errorf("create themes dir: %w", err)
	}
	if _, err := os.Stat(dir); err == nil {
		return name, "", fmt.Errorf("%w: %s", ErrThemeExists, name)
	}

	out, err := m.Runner.Run(ctx, m.ThemesDir, "git", "clone", rawURL, dir)
	if err != nil {
		return name, out, fmt.Errorf("git clone %s: %w", rawURL, err)
	}
	log.Printf("主题 %q 已添加: %s", name, dir)
	return name, out, nil
}

// checkRunnable verifies the theme exists and has a package.json.
func (m *ThemeManager) checkRunnable(name string) (string, error) {
	dir, err := m.themeDir(name)
	if err != nil {
		return "", err
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrThemeNotFound, name)
	}
	if _, err := os.Stat(filepath.Join(dir, "package.json")); err != nil {
		return "", fmt.Errorf("%w: theme %s", ErrNoPackageJSON, name)
	}
	return dir, nil
}

// Dev runs the theme's dev script; it blocks until the process exits or ctx is cancelled.
func (m *ThemeManager) Dev(ctx context.Context, name string) (string, error) {
	dir, err := m.checkRunnable(name)
	if err != nil {
		return "", err
	}
	return m.Runner.Run(ctx, dir, m.PackageManager, "run", "dev")
}

// Build runs the theme's build script and moves DeployDir/.temp to DeployDir/<name>.
func (m *ThemeManager) Build(ctx context.Context, name string) (*BuildResult, error) {
	dir, err := m.checkRunnable(name)
	if err != nil {
		return nil, err
	}

	out, err := m.Runner.Run(ctx, dir, m.PackageManager, "run", "build")
	result := &BuildResult{Log: out}
	if err != nil {
		return result, fmt.Errorf("build theme %s: %w", name, err)
	}

	tempDir := filepath.Join(m.DeployDir, buildTempDir)
	if _, err := os.Stat(tempDir); err != nil {
		log.Printf("未找到构建输出目录 %s", tempDir)
		return result, nil
	}

	target := filepath.Join(m.DeployDir, name)
	if err := os.RemoveAll(target); err != nil {
		return result, fmt.Errorf("remove previous build %s: %w", target, err)
	}
	if err := os.Rename(tempDir, target); err != nil {
		return result, fmt.Errorf("move build output: %w", err)
	}
	result.OutputDir = target
	result.Moved = true
	return result, nil
}

// Update pulls the theme from origin main, falling back to master.
func (m *ThemeManager) Update(ctx context.Context, name string) (string, error) {
	dir, err := m.themeDir(name)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(dir); err != nil {
		return "", fmt.Errorf("%w: %s", ErrThemeNotFound, name)
	}
	if _, err := os.Stat(filepath.Join(dir, ".git")); err != nil {
		return "", fmt.Errorf("%w: theme %s", ErrNotGitRepo, name)
	}

	out, err := m.Runner.Run(ctx, dir, "git", "pull", "origin", "main")
	if err == nil {
		return out, nil
	}
	if !strings.Contains(out, "main") && !strings.Contains(err.Error(), "main") {
		return out, fmt.Errorf("git pull: %w", err)
	}

	log.Printf("主题 %q 没有 main 分支, 尝试 master", name)
	fallback, ferr := m.Runner.Run(ctx, dir, "git", "pull", "origin", "master")
	if ferr != nil {
		return out + fallback, fmt.Errorf("git pull (main and master): %w", ferr)
	}
	return fallback, nil
}

// List returns installed themes sorted by name. A missing themes dir is an empty list.
func (m *ThemeManager) List() ([]models.Theme, error) {
	entries, err := os.ReadDir(m.ThemesDir)
	if errors.Is(err, os.ErrNotExist) {
		return []models.Theme{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read themes dir: %w", err)
	}

	themes := []models.Theme{}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(m.ThemesDir, entry.Name())
		themes = append(themes, models.Theme{
			Name:           entry.Name(),
			Path:           dir,
			HasPackageJSON: fileExists(filepath.Join(dir, "package.json")),
			IsGit:          fileExists(filepath.Join(dir, ".git")),
		})
	}
	sort.Slice(themes, func(i, j int) bool { return themes[i].Name < themes[j].Name })
	return themes, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
