package config

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	root := t.TempDir()
	t.Setenv("WORDMA_PROJECT_ROOT", root)
	t.Setenv("WORDMA_DATA_DIR", filepath.Join(root, "data"))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "wordma.db", cfg.DBName)
	assert.Equal(t, "themes", cfg.ThemesDir)
	assert.Equal(t, ".deploy", cfg.DeployDir)
	assert.Equal(t, "pnpm", cfg.PackageManager)
	assert.Equal(t, "main", cfg.GitBranch)
	assert.Equal(t, []string{"http://localhost:1420", "tauri://localhost"}, cfg.AllowedOrigins)
	assert.Equal(t, filepath.Join(root, "data", "wordma.db"), cfg.DBPath())
}

func TestLoadProjectFileWithComments(t *testing.T) {
	root := t.TempDir()
	t.Setenv("WORDMA_PROJECT_ROOT", root)
	t.Setenv("WORDMA_DATA_DIR", filepath.Join(root, "data"))

	content := `{
	// themes live next to the site sources
	"themes_dir": "site-themes",
	"package_manager": "npm",
	"git_branch": "gh-pages", // trailing comma is fine
}`
	require.NoError(t, os.WriteFile(filepath.Join(root, ProjectFileName), []byte(content), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "site-themes", cfg.ThemesDir)
	assert.Equal(t, "npm", cfg.PackageManager)
	assert.Equal(t, "gh-pages", cfg.GitBranch)
	assert.Equal(t, filepath.Join(root, "site-themes"), cfg.Resolve(cfg.ThemesDir))
}

func TestLoadEnvWinsOverProjectFile(t *testing.T) {
	root := t.TempDir()
	t.Setenv("WORDMA_PROJECT_ROOT", root)
	t.Setenv("WORDMA_DATA_DIR", filepath.Join(root, "data"))
	t.Setenv("WORDMA_PACKAGE_MANAGER", "yarn")

	require.NoError(t, os.WriteFile(filepath.Join(root, ProjectFileName), []byte(`{"package_manager": "npm"}`), 0o644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "yarn", cfg.PackageManager)
}

func TestLoadRejectsBrokenProjectFile(t *testing.T) {
	root := t.TempDir()
	t.Setenv("WORDMA_PROJECT_ROOT", root)
	t.Setenv("WORDMA_DATA_DIR", filepath.Join(root, "data"))

	require.NoError(t, os.WriteFile(filepath.Join(root, ProjectFileName), []byte(`{"themes_dir": `), 0o644))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse wordma.json")
}

func TestLoadInvalidEnv(t *testing.T) {
	root := t.TempDir()
	t.Setenv("WORDMA_PROJECT_ROOT", root)
	t.Setenv("WORDMA_DEBUG", "not-a-bool")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env:")
}

func TestInitWithoutDotEnvIsQuiet(t *testing.T) {
	root := t.TempDir()
	t.Chdir(root)
	t.Setenv("WORDMA_PROJECT_ROOT", root)
	t.Setenv("WORDMA_DATA_DIR", filepath.Join(root, "data"))

	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	require.NoError(t, Init())
	assert.Empty(t, buf.String())
	assert.Equal(t, root, Cfg.ProjectRoot)
	assert.Equal(t, "http://127.0.0.1:1421/auth/callback", OauthConf.RedirectURL)
}

func TestInitLoadsDotEnv(t *testing.T) {
	root := t.TempDir()
	t.Chdir(root)
	t.Setenv("WORDMA_PROJECT_ROOT", root)
	t.Setenv("WORDMA_DATA_DIR", filepath.Join(root, "data"))
	t.Setenv("WORDMA_PACKAGE_MANAGER", "")
	os.Unsetenv("WORDMA_PACKAGE_MANAGER")
	require.NoError(t, os.WriteFile(filepath.Join(root, ".env"), []byte("WORDMA_PACKAGE_MANAGER=npm\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("WORDMA_PACKAGE_MANAGER") })

	require.NoError(t, Init())
	assert.Equal(t, "npm", Cfg.PackageManager)
}
