package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testCLI runs wordma against a temp project root and data dir.
type testCLI struct {
	t    *testing.T
	Root string
	Data string
}

func newTestCLI(t *testing.T) *testCLI {
	t.Helper()

	c := &testCLI{t: t, Root: t.TempDir(), Data: t.TempDir()}
	t.Setenv("WORDMA_PROJECT_ROOT", c.Root)
	t.Setenv("WORDMA_DATA_DIR", c.Data)
	t.Setenv("GITHUB_TOKEN", "")
	return c
}

func (c *testCLI) Run(args ...string) (string, string, int) {
	return c.RunWithInput("", args...)
}

func (c *testCLI) RunWithInput(stdin string, args ...string) (string, string, int) {
	var outBuf, errBuf bytes.Buffer
	code := Run(strings.NewReader(stdin), &outBuf, &errBuf, append([]string{"wordma"}, args...), nil)
	return outBuf.String(), errBuf.String(), code
}

func (c *testCLI) WriteFile(rel, content string) {
	c.t.Helper()
	path := filepath.Join(c.Root, rel)
	require.NoError(c.t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(c.t, os.WriteFile(path, []byte(content), 0o644))
}

func TestRunWithoutArgsPrintsUsage(t *testing.T) {
	c := newTestCLI(t)

	out, _, code := c.Run()
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "Usage: wordma <command> [args]")
	assert.Contains(t, out, "deploy init <url> [--yes]")
	assert.Contains(t, out, "content export [--dir]")
}

func TestRunUnknownCommand(t *testing.T) {
	c := newTestCLI(t)

	_, errOut, code := c.Run("frobnicate")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "error: unknown command: frobnicate")
	assert.Contains(t, errOut, "Commands:")
}

func TestCommandHelp(t *testing.T) {
	c := newTestCLI(t)

	out, _, code := c.Run("deploy", "init", "--help")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "Usage: wordma deploy init <url> [--yes]")
	assert.Contains(t, out, "--yes")
}

func TestCommandBadFlag(t *testing.T) {
	c := newTestCLI(t)

	_, errOut, code := c.Run("theme", "list", "--nope")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "error:")
}

func TestCommandName(t *testing.T) {
	tests := []struct {
		usage string
		want  string
	}{
		{"serve [--addr]", "serve"},
		{"version", "version"},
		{"theme list", "theme list"},
		{"theme add <url>", "theme add"},
		{"deploy init <url> [--yes]", "deploy init"},
	}
	for _, tt := range tests {
		c := &Command{Usage: tt.usage}
		assert.Equal(t, tt.want, c.Name(), tt.usage)
	}
}

func TestDBMigrate(t *testing.T) {
	c := newTestCLI(t)

	out, errOut, code := c.Run("db", "migrate")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, filepath.Join(c.Data, "wordma.db"))
	assert.Contains(t, out, "ensure_tables_exist")
	assert.Contains(t, out, "add_site_path")
	assert.Contains(t, out, "add_article_indexes")
	assert.FileExists(t, filepath.Join(c.Data, "wordma.db"))

	// a second run applies nothing new and still lists the history
	out, errOut, code = c.Run("db", "migrate")
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, 1, strings.Count(out, "ensure_tables_exist"))
}

func TestVersion(t *testing.T) {
	c := newTestCLI(t)

	out, _, code := c.Run("version")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "wordma dev")
	assert.Contains(t, out, "no package.json")

	c.WriteFile("package.json", `{"name": "my-blog", "version": "1.2.3", "description": "Notes"}`)
	out, _, code = c.Run("version")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "project: my-blog 1.2.3")
	assert.Contains(t, out, "Notes")
}

func TestContentExport(t *testing.T) {
	c := newTestCLI(t)

	out, errOut, code := c.Run("content", "export")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "wrote 1-wordma.md")
	assert.FileExists(t, filepath.Join(c.Root, "content", "posts", "1-wordma.md"))

	out, errOut, code = c.Run("content", "export", "--dir", "site/content")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "1 posts in")
	assert.FileExists(t, filepath.Join(c.Root, "site", "content", "posts", "1-wordma.md"))
}

func TestDeployDeleteConfirms(t *testing.T) {
	c := newTestCLI(t)
	c.WriteFile("package.json", `{"name": "blog"}`)
	c.WriteFile(".deploy/index.html", "<html></html>")
	deployDir := filepath.Join(c.Root, ".deploy")

	out, _, code := c.RunWithInput("n\n", "deploy", "delete")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "[y/N]")
	assert.Contains(t, out, "Aborted.")
	assert.DirExists(t, deployDir)

	out, _, code = c.RunWithInput("y\n", "deploy", "delete")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "deleted")
	assert.NoDirExists(t, deployDir)

	out, _, code = c.Run("deploy", "delete", "--yes")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "nothing to delete")
}

func TestDeployRequiresProject(t *testing.T) {
	c := newTestCLI(t)

	_, errOut, code := c.Run("deploy", "delete", "--yes")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "error:")

	_, errOut, code = c.Run("deploy", "init")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "repository url is required")
}

func TestDeployStatusWithoutCheckout(t *testing.T) {
	c := newTestCLI(t)

	_, errOut, code := c.Run("deploy", "status")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "deploy directory")
}

func TestThemeList(t *testing.T) {
	c := newTestCLI(t)

	out, _, code := c.Run("theme", "list")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "no themes installed")

	c.WriteFile("themes/ink/package.json", `{"name": "ink"}`)
	c.WriteFile("themes/bare/README.md", "bare")
	out, _, code = c.Run("theme", "list")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "ink\n")
	assert.Contains(t, out, "bare (no package.json)")
}

func TestThemeBuildUnknownTheme(t *testing.T) {
	c := newTestCLI(t)

	_, errOut, code := c.Run("theme", "build", "missing")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "missing")

	_, errOut, code = c.Run("theme", "build")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "theme name is required")
}

func TestServeStopsOnSignal(t *testing.T) {
	newTestCLI(t)

	sigCh := make(chan os.Signal, 1)
	sigCh <- os.Interrupt

	var outBuf, errBuf bytes.Buffer
	code := Run(nil, &outBuf, &errBuf, []string{"wordma", "serve", "--addr", "127.0.0.1:0"}, sigCh)
	require.Equal(t, 0, code, errBuf.String())

	out := outBuf.String()
	assert.Contains(t, out, "bridge listening on http://127.0.0.1:")
	assert.Contains(t, out, "bridge token: ")
	assert.Contains(t, out, "bridge stopped")
}
