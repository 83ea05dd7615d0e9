package services

import "errors"

var (
	ErrPathNotFound  = errors.New("path does not exist")
	ErrNotDirectory  = errors.New("path is not a directory")
	ErrNotFound      = errors.New("record not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrSiteNameTaken = errors.New("site name already exists")

	ErrThemeExists   = errors.New("theme already exists")
	ErrThemeNotFound = errors.New("theme not found")
	ErrNoPackageJSON = errors.New("package.json not found")
	ErrNotGitRepo    = errors.New("not a git repository")
	ErrNotProject    = errors.New("not a project root: package.json not found")
	ErrDeployMissing = errors.New("deploy directory does not exist")
)
