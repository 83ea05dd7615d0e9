package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"wordma/pkg/models"
)

// Store is the data access layer over wordma.db.
type Store struct {
	db       *gorm.DB
	articles articleCache
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// --- Sites ---

// CreateSite inserts a site; names are unique.
func (s *Store) CreateSite(ctx context.Context, name, description string, path *string) (uint, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, fmt.Errorf("%w: site name is required", ErrInvalidInput)
	}

	exists, err := s.SiteNameExists(ctx, name)
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, fmt.Errorf("%w: %q", ErrSiteNameTaken, name)
	}

	site := models.Site{Name: name, Description: description, Path: path}
	if err := s.db.WithContext(ctx).Create(&site).Error; err != nil {
		return 0, fmt.Errorf("create site: %w", err)
	}
	return site.ID, nil
}

func (s *Store) ListSites(ctx context.Context) ([]models.Site, error) {
	var sites []models.Site
	if err := s.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&sites).Error; err != nil {
		return nil, fmt.Errorf("list sites: %w", err)
	}
	return sites, nil
}

func (s *Store) GetSite(ctx context.Context, id uint) (*models.Site, error) {
	var site models.Site
	if err := s.db.WithContext(ctx).First(&site, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("site %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get site: %w", err)
	}
	return &site, nil
}

func (s *Store) HasSites(ctx context.Context) (bool, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Site{}).Count(&n).Error; err != nil {
		return false, fmt.Errorf("count sites: %w", err)
	}
	return n > 0, nil
}

func (s *Store) SiteNameExists(ctx context.Context, name string) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Site{}).Where("name = ?", strings.TrimSpace(name)).Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("check site name: %w", err)
	}
	return n > 0, nil
}

// --- Articles ---

// ListArticles returns all articles, newest first.
func (s *Store) ListArticles(ctx context.Context) ([]models.Article, error) {
	return s.articles.get(ctx, s.loadArticles)
}

func (s *Store) loadArticles(ctx context.Context) ([]models.Article, error) {
	var articles []models.Article
	if err := s.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&articles).Error; err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	return articles, nil
}

func (s *Store) GetArticle(ctx context.Context, id uint) (*models.Article, error) {
	var a models.Article
	if err := s.db.WithContext(ctx).First(&a, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("article %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get article: %w", err)
	}
	return &a, nil
}

// SaveArticle creates the article when ID is zero, otherwise updates it in place.
func (s *Store) SaveArticle(ctx context.Context, a *models.Article) error {
	a.Title = strings.TrimSpace(a.Title)
	if a.Title == "" {
		return fmt.Errorf("%w: article title is required", ErrInvalidInput)
	}
	if a.Type == "" {
		a.Type = models.ArticleMarkdown
	}
	if a.Status == "" {
		a.Status = models.StatusDraft
	}
	if !a.Type.Valid() {
		return fmt.Errorf("%w: unknown article type %q", ErrInvalidInput, a.Type)
	}
	if !a.Status.Valid() {
		return fmt.Errorf("%w: unknown article status %q", ErrInvalidInput, a.Status)
	}

	db := s.db.WithContext(ctx)
	if a.ID == 0 {
		if err := db.Create(a).Error; err != nil {
			return fmt.Errorf("create article: %w", err)
		}
		s.articles.invalidate()
		return nil
	}

	a.UpdatedAt = time.Now().UTC()
	res := db.Model(&models.Article{ID: a.ID}).
		Select("title", "content", "type", "summary", "cover", "status", "updated_at").
		Updates(a)
	if res.Error != nil {
		return fmt.Errorf("update article: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("article %d: %w", a.ID, ErrNotFound)
	}
	s.articles.invalidate()

	saved, err := s.GetArticle(ctx, a.ID)
	if err != nil {
		return err
	}
	*a = *saved
	return nil
}

func (s *Store) DeleteArticle(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Article{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete article: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("article %d: %w", id, ErrNotFound)
	}
	s.articles.invalidate()
	return nil
}

// --- Settings ---

// GetSetting returns the value and whether the key exists.
func (s *Store) GetSetting(ctx context.Context, key string) (string, bool, error) {
	var setting models.Setting
	err := s.db.WithContext(ctx).Where("key = ?", key).First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get setting %s: %w", key, err)
	}
	return setting.Value, true, nil
}

// SetSetting inserts or replaces a key.
func (s *Store) SetSetting(ctx context.Context, key, value string) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&models.Setting{Key: key, Value: value}).Error
	if err != nil {
		return fmt.Errorf("set setting %s: %w", key, err)
	}
	return nil
}

// GetLastSiteID returns nil when no site was remembered.
func (s *Store) GetLastSiteID(ctx context.Context) (*uint, error) {
	value, ok, err := s.GetSetting(ctx, models.SettingLastSiteID)
	if err != nil || !ok || value == "" {
		return nil, err
	}
	id, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("setting %s holds %q: %w", models.SettingLastSiteID, value, err)
	}
	out := uint(id)
	return &out, nil
}

func (s *Store) SetLastSiteID(ctx context.Context, id uint) error {
	return s.SetSetting(ctx, models.SettingLastSiteID, strconv.FormatUint(uint64(id), 10))
}
