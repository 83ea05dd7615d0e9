package models

import "time"

type ArticleType string

const (
	ArticleMarkdown ArticleType = "markdown"
	ArticleRichText ArticleType = "richtext"
)

type ArticleStatus string

const (
	StatusDraft     ArticleStatus = "draft"
	StatusPublished ArticleStatus = "published"
)

// Article is a blog post stored in the local database.
type Article struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	Title     string        `gorm:"not null" json:"title"`
	Content   string        `json:"content"`
	Type      ArticleType   `gorm:"not null;default:markdown" json:"type"`
	Summary   *string       `json:"summary,omitempty"`
	Cover     *string       `json:"cover,omitempty"`
	Status    ArticleStatus `gorm:"default:draft" json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

func (Article) TableName() string { return "article" }

func (t ArticleType) Valid() bool {
	return t == ArticleMarkdown || t == ArticleRichText
}

func (s ArticleStatus) Valid() bool {
	return s == StatusDraft || s == StatusPublished
}
