package services

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// ExecuteGitWithToken runs git with the OAuth token injected into the origin URL.
// The token never appears in the returned log.
func ExecuteGitWithToken(ctx context.Context, runner Runner, dir, token string, args ...string) (string, error) {
	if token == "" {
		return runner.Run(ctx, dir, "git", args...)
	}

	out, err := runner.Run(ctx, dir, "git", "remote", "get-url", "origin")
	if err != nil {
		return "Failed to get remote url", err
	}
	remoteURL := strings.TrimSpace(out)
	u, err := url.Parse(remoteURL)
	if err != nil || u.Scheme == "" {
		return "Invalid remote url", fmt.Errorf("remote url %q cannot carry a token", remoteURL)
	}
	u.User = url.UserPassword("oauth2", token)
	authenticatedURL := u.String()

	newArgs := make([]string, len(args))
	copy(newArgs, args)
	for i, v := range newArgs {
		if v == "origin" {
			newArgs[i] = authenticatedURL
		}
	}

	output, err := runner.Run(ctx, dir, "git", newArgs...)
	safeLog := strings.ReplaceAll(output, authenticatedURL, remoteURL)
	safeLog = strings.ReplaceAll(safeLog, token, "***")
	return safeLog, err
}

// gitDirtyFiles lists paths reported by `git status --porcelain`, sorted.
func gitDirtyFiles(ctx context.Context, runner Runner, dir string) ([]string, error) {
	out, err := runner.Run(ctx, dir, "git", "status", "--porcelain")
	if err != nil {
		return nil, fmt.Errorf("git status: %w: %s", err, strings.TrimSpace(out))
	}

	var dirty []string
	for _, line := range strings.Split(out, "\n") {
		if len(line) < 4 {
			continue
		}
		path := strings.TrimSpace(line[3:])
		path = strings.Trim(path, "\"")
		dirty = append(dirty, path)
	}
	sort.Strings(dirty)
	return dirty, nil
}
