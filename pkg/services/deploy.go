package services

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DeployManager owns the .deploy checkout that built sites are pushed from.
type DeployManager struct {
	Root      string
	DeployDir string
	Branch    string
	UserName  string
	UserEmail string
	Runner    Runner
}

// CheckProjectRoot requires a package.json in Root.
func (m *DeployManager) CheckProjectRoot() error {
	if !fileExists(filepath.Join(m.Root, "package.json")) {
		return fmt.Errorf("%w: %s", ErrNotProject, m.Root)
	}
	return nil
}

func (m *DeployManager) Exists() bool {
	info, err := os.Stat(m.DeployDir)
	return err == nil && info.IsDir()
}

// Init clones url into the deploy dir, replacing an existing one.
// Callers confirm the replacement with the user first.
func (m *DeployManager) Init(ctx context.Context, rawURL string) (string, error) {
	if err := m.CheckProjectRoot(); err != nil {
		return "", err
	}
	if strings.TrimSpace(rawURL) == "" {
		return "", fmt.Errorf("%w: repository url is required", ErrInvalidInput)
	}

	if m.Exists() {
		log.Printf("删除现有的部署目录 %s", m.DeployDir)
		if err := os.RemoveAll(m.DeployDir); err != nil {
			return "", fmt.Errorf("remove deploy dir: %w", err)
		}
	}

	out, err := m.Runner.Run(ctx, m.Root, "git", "clone", rawURL, m.DeployDir)
	if err != nil {
		return out, fmt.Errorf("git clone %s: %w", rawURL, err)
	}
	return out, nil
}

// Delete removes the deploy dir.
func (m *DeployManager) Delete() error {
	if err := m.CheckProjectRoot(); err != nil {
		return err
	}
	if !m.Exists() {
		return ErrDeployMissing
	}
	if err := os.RemoveAll(m.DeployDir); err != nil {
		return fmt.Errorf("remove deploy dir: %w", err)
	}
	return nil
}

// Status lists uncommitted files in the deploy checkout.
func (m *DeployManager) Status(ctx context.Context) ([]string, error) {
	if !m.Exists() {
		return nil, ErrDeployMissing
	}
	dirty, err := gitDirtyFiles(ctx, m.Runner, m.DeployDir)
	if err != nil {
		return nil, err
	}
	if dirty == nil {
		dirty = []string{}
	}
	return dirty, nil
}

// Push commits everything in the deploy dir and pushes it to origin.
func (m *DeployManager) Push(ctx context.Context, token string) (string, error) {
	if !m.Exists() {
		return "", ErrDeployMissing
	}

	var logs strings.Builder
	out, err := m.Runner.Run(ctx, m.DeployDir, "git", "add", ".")
	logs.WriteString(out)
	if err != nil {
		return logs.String(), fmt.Errorf("git add: %w", err)
	}

	msg := fmt.Sprintf("Update via Wordma: %s", time.Now().Format("2006-01-02 15:04:05"))
	out, err = m.Runner.Run(ctx, m.DeployDir, "git",
		"-c", "user.name="+m.UserName,
		"-c", "user.email="+m.UserEmail,
		"commit", "-m", msg)
	logs.WriteString(out)
	if err != nil && !nothingToCommit(out) {
		return logs.String(), fmt.Errorf("git commit: %w", err)
	}

	out, err = ExecuteGitWithToken(ctx, m.Runner, m.DeployDir, token, "push", "origin", "HEAD:"+m.Branch)
	logs.WriteString(out)
	if err != nil {
		return logs.String(), fmt.Errorf("git push: %w", err)
	}
	return logs.String(), nil
}

func nothingToCommit(out string) bool {
	return strings.Contains(out, "nothing to commit") || strings.Contains(out, "nothing added to commit")
}
