package models

import (
	"strings"
	"time"
)

const (
	// MaxCommentLength bounds the free-text body of a comment.
	MaxCommentLength = 10000
	// MaxAuthorLength bounds the display name attached to a comment.
	MaxAuthorLength = 50
	// AnonymousAuthor is substituted when no display name is supplied.
	AnonymousAuthor = "anonymous"
)

// Comment is the stored form of a reader comment. AuthorToken and IP are
// private fields: they persist and surface in admin reads but are stripped
// from every public read.
type Comment struct {
	ID          string     `json:"id"`
	PostSlug    string     `json:"postSlug"`
	ParentID    *string    `json:"parentId"`
	Author      string     `json:"author"`
	AuthorToken string     `json:"authorToken"`
	Content     string     `json:"content"`
	IP          string     `json:"ip"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt"`
	Edited      bool       `json:"edited"`
}

// PublicComment is a Comment with the private fields removed.
type PublicComment struct {
	ID        string     `json:"id"`
	PostSlug  string     `json:"postSlug"`
	ParentID  *string    `json:"parentId"`
	Author    string     `json:"author"`
	Content   string     `json:"content"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt"`
	Edited    bool       `json:"edited"`
}

// Public strips the private fields for reader-facing responses.
func (c Comment) Public() PublicComment {
	return PublicComment{
		ID:        c.ID,
		PostSlug:  c.PostSlug,
		ParentID:  c.ParentID,
		Author:    c.Author,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		Edited:    c.Edited,
	}
}

// PublicComments redacts a whole collection.
func PublicComments(comments []Comment) []PublicComment {
	public := make([]PublicComment, 0, len(comments))
	for _, c := range comments {
		public = append(public, c.Public())
	}
	return public
}

// NormalizeAuthor trims the supplied display name and substitutes the
// anonymous sentinel when nothing usable remains.
func NormalizeAuthor(author string) string {
	trimmed := strings.TrimSpace(author)
	if trimmed == "" {
		return AnonymousAuthor
	}
	return trimmed
}
