package models

// Theme is a static-site project under the themes directory.
type Theme struct {
	Name           string `json:"name"`
	Path           string `json:"path"`
	HasPackageJSON bool   `json:"has_package_json"`
	IsGit          bool   `json:"is_git"`
}

// ProjectInfo is the part of package.json shown by `wordma version`.
type ProjectInfo struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description"`
}
