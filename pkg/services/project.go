package services

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"wordma/pkg/models"
)

// ReadProjectInfo reads name, version and description from root/package.json.
func ReadProjectInfo(root string) (*models.ProjectInfo, error) {
	raw, err := os.ReadFile(filepath.Join(root, "package.json"))
	if err != nil {
		return nil, fmt.Errorf("read package.json: %w", err)
	}
	var info models.ProjectInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return nil, fmt.Errorf("parse package.json: %w", err)
	}
	return &info, nil
}
