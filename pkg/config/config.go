package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/tailscale/hujson"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

// ProjectFileName is the optional per-project config file, JSON with comments allowed.
const ProjectFileName = "wordma.json"

// Config holds everything the backend reads from the environment.
type Config struct {
	DataDir string `env:"WORDMA_DATA_DIR"`
	DBName  string `env:"WORDMA_DB_NAME" envDefault:"wordma.db"`
	Debug   bool   `env:"WORDMA_DEBUG" envDefault:"false"`

	// Bridge settings
	BridgeAddr     string   `env:"WORDMA_BRIDGE_ADDR" envDefault:"127.0.0.1:1421"`
	AllowedOrigins []string `env:"WORDMA_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:1420,tauri://localhost"`
	SessionSecret  string   `env:"SESSION_SECRET"`
	AppURL         string   `env:"APP_URL" envDefault:"http://127.0.0.1:1421"`

	// Project layout
	ProjectRoot    string `env:"WORDMA_PROJECT_ROOT" envDefault:"."`
	ThemesDir      string `env:"WORDMA_THEMES_DIR" envDefault:"themes"`
	DeployDir      string `env:"WORDMA_DEPLOY_DIR" envDefault:".deploy"`
	ContentDir     string `env:"WORDMA_CONTENT_DIR" envDefault:"content"`
	PackageManager string `env:"WORDMA_PACKAGE_MANAGER" envDefault:"pnpm"`

	// Git settings
	GitUserEmail string `env:"GIT_USER_EMAIL" envDefault:"bot@wordma.local"`
	GitUserName  string `env:"GIT_USER_NAME" envDefault:"Wordma Bot"`
	GitBranch    string `env:"GIT_BRANCH" envDefault:"main"`

	GitHubClientID     string `env:"GITHUB_CLIENT_ID"`
	GitHubClientSecret string `env:"GITHUB_CLIENT_SECRET"`
	GitHubRedirectURL  string `env:"GITHUB_REDIRECT_URL"`
	// GitHubToken authenticates `wordma deploy push` outside the bridge.
	GitHubToken string `env:"GITHUB_TOKEN"`
}

// projectFile mirrors the subset of Config that wordma.json may set.
type projectFile struct {
	ThemesDir      string `json:"themes_dir"`
	DeployDir      string `json:"deploy_dir"`
	ContentDir     string `json:"content_dir"`
	PackageManager string `json:"package_manager"`
	GitBranch      string `json:"git_branch"`
}

var (
	Cfg       *Config
	OauthConf *oauth2.Config
)

// Init loads .env, the environment and wordma.json into Cfg.
func Init() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Error loading .env file: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		return err
	}
	Cfg = cfg

	redirectURL := cfg.GitHubRedirectURL
	if redirectURL == "" {
		redirectURL = cfg.AppURL + "/auth/callback"
	}
	OauthConf = &oauth2.Config{
		ClientID:     cfg.GitHubClientID,
		ClientSecret: cfg.GitHubClientSecret,
		Scopes:       []string{"repo"},
		Endpoint:     github.Endpoint,
		RedirectURL:  redirectURL,
	}
	return nil
}

// Load parses the environment and overlays the project file.
// Explicitly set environment variables win over wordma.json, which wins over defaults.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.DataDir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("resolve data dir: %w", err)
		}
		cfg.DataDir = filepath.Join(base, "wordma")
	}

	root, err := filepath.Abs(cfg.ProjectRoot)
	if err != nil {
		return nil, fmt.Errorf("resolve project root: %w", err)
	}
	cfg.ProjectRoot = root

	pf, err := readProjectFile(filepath.Join(root, ProjectFileName))
	if err != nil {
		return nil, err
	}
	if pf != nil {
		overlay(&cfg.ThemesDir, "WORDMA_THEMES_DIR", pf.ThemesDir)
		overlay(&cfg.DeployDir, "WORDMA_DEPLOY_DIR", pf.DeployDir)
		overlay(&cfg.ContentDir, "WORDMA_CONTENT_DIR", pf.ContentDir)
		overlay(&cfg.PackageManager, "WORDMA_PACKAGE_MANAGER", pf.PackageManager)
		overlay(&cfg.GitBranch, "GIT_BRANCH", pf.GitBranch)
	}

	return &cfg, nil
}

func readProjectFile(path string) (*projectFile, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", ProjectFileName, err)
	}

	std, err := hujson.Standardize(raw)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", ProjectFileName, err)
	}

	var pf projectFile
	if err := json.Unmarshal(std, &pf); err != nil {
		return nil, fmt.Errorf("parse %s: %w", ProjectFileName, err)
	}
	return &pf, nil
}

func overlay(dst *string, key, value string) {
	if value == "" {
		return
	}
	if _, set := os.LookupEnv(key); set {
		return
	}
	*dst = value
}

// DBPath is the SQLite file inside the data dir.
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, c.DBName)
}

// Resolve joins a project-relative directory onto ProjectRoot.
func (c *Config) Resolve(dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(c.ProjectRoot, dir)
}
