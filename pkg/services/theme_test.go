package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newThemeManager(t *testing.T, runner *fakeRunner) *ThemeManager {
	t.Helper()
	root := t.TempDir()
	return &ThemeManager{
		ThemesDir:      filepath.Join(root, "themes"),
		DeployDir:      filepath.Join(root, ".deploy"),
		PackageManager: "pnpm",
		Runner:         runner,
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestThemeNameFromURL(t *testing.T) {
	testCases := map[string]string{
		"https://github.com/wordma/theme-paper.git": "theme-paper",
		"https://github.com/wordma/theme-paper/":    "theme-paper",
		"git@github.com:wordma/theme-ink.git":       "theme-ink",
		"theme-local":                               "theme-local",
	}
	for in, want := range testCases {
		assert.Equal(t, want, ThemeNameFromURL(in), in)
	}
}

func TestThemeAdd(t *testing.T) {
	runner := &fakeRunner{}
	m := newThemeManager(t, runner)

	name, _, err := m.Add(context.Background(), "https://github.com/wordma/paper.git")
	require.NoError(t, err)
	assert.Equal(t, "paper", name)

	want := []string{"git clone https://github.com/wordma/paper.git " + filepath.Join(m.ThemesDir, "paper")}
	if diff := cmp.Diff(want, runner.commands()); diff != "" {
		t.Fatalf("commands mismatch (-want +got):\n%s", diff)
	}

	require.NoError(t, os.MkdirAll(filepath.Join(m.ThemesDir, "paper"), 0o755))
	_, _, err = m.Add(context.Background(), "https://github.com/wordma/paper.git")
	assert.True(t, errors.Is(err, ErrThemeExists))
	assert.Len(t, runner.calls, 1)
}

func TestThemeBuildMovesOutput(t *testing.T) {
	runner := &fakeRunner{}
	m := newThemeManager(t, runner)
	themeDir := filepath.Join(m.ThemesDir, "paper")
	writeFile(t, filepath.Join(themeDir, "package.json"), `{"name":"paper"}`)
	writeFile(t, filepath.Join(m.DeployDir, "paper", "stale.html"), "old")

	runner.respond = func(c runCall) (string, error) {
		writeFile(t, filepath.Join(m.DeployDir, buildTempDir, "index.html"), "<html></html>")
		return "built", nil
	}

	res, err := m.Build(context.Background(), "paper")
	require.NoError(t, err)
	assert.True(t, res.Moved)
	assert.Equal(t, "built", res.Log)
	assert.Equal(t, themeDir, runner.calls[0].Dir)
	assert.Equal(t, "pnpm run build", runner.commands()[0])

	assert.FileExists(t, filepath.Join(m.DeployDir, "paper", "index.html"))
	assert.NoFileExists(t, filepath.Join(m.DeployDir, "paper", "stale.html"))
	assert.NoDirExists(t, filepath.Join(m.DeployDir, buildTempDir))
}

func TestThemeBuildWithoutOutput(t *testing.T) {
	m := newThemeManager(t, &fakeRunner{})
	writeFile(t, filepath.Join(m.ThemesDir, "paper", "package.json"), `{}`)

	res, err := m.Build(context.Background(), "paper")
	require.NoError(t, err)
	assert.False(t, res.Moved)
}

func TestThemeRunnableChecks(t *testing.T) {
	m := newThemeManager(t, &fakeRunner{})
	require.NoError(t, os.MkdirAll(filepath.Join(m.ThemesDir, "bare"), 0o755))

	_, err := m.Dev(context.Background(), "missing")
	assert.True(t, errors.Is(err, ErrThemeNotFound))

	_, err = m.Build(context.Background(), "bare")
	assert.True(t, errors.Is(err, ErrNoPackageJSON))

	_, err = m.Build(context.Background(), "../escape")
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestThemeUpdateFallsBackToMaster(t *testing.T) {
	runner := &fakeRunner{
		respond: func(c runCall) (string, error) {
			if c.Args[len(c.Args)-1] == "main" {
				return "fatal: couldn't find remote ref main", errors.New("exit status 1")
			}
			return "Already up to date.", nil
		},
	}
	m := newThemeManager(t, runner)
	require.NoError(t, os.MkdirAll(filepath.Join(m.ThemesDir, "paper", ".git"), 0o755))

	out, err := m.Update(context.Background(), "paper")
	require.NoError(t, err)
	assert.Equal(t, "Already up to date.", out)
	assert.Equal(t, []string{"git pull origin main", "git pull origin master"}, runner.commands())
}

func TestThemeUpdateRequiresGit(t *testing.T) {
	m := newThemeManager(t, &fakeRunner{})
	require.NoError(t, os.MkdirAll(filepath.Join(m.ThemesDir, "paper"), 0o755))

	_, err := m.Update(context.Background(), "paper")
	assert.True(t, errors.Is(err, ErrNotGitRepo))
}

func TestThemeList(t *testing.T) {
	m := newThemeManager(t, &fakeRunner{})

	themes, err := m.List()
	require.NoError(t, err)
	assert.Empty(t, themes)

	writeFile(t, filepath.Join(m.ThemesDir, "zen", "package.json"), `{}`)
	require.NoError(t, os.MkdirAll(filepath.Join(m.ThemesDir, "art", ".git"), 0o755))
	writeFile(t, filepath.Join(m.ThemesDir, "README.md"), "ignored")

	themes, err = m.List()
	require.NoError(t, err)
	require.Len(t, themes, 2)
	assert.Equal(t, "art", themes[0].Name)
	assert.True(t, themes[0].IsGit)
	assert.False(t, themes[0].HasPackageJSON)
	assert.Equal(t, "zen", themes[1].Name)
	assert.True(t, themes[1].HasPackageJSON)
}
