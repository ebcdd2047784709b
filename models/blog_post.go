package models

import "time"

// BlogPost represents a complete blog post with metadata. Posts live in a
// single list document keyed by slug; tags are denormalized onto the post.
type BlogPost struct {
	Slug       string     `json:"slug"`
	Title      string     `json:"title"`
	Summary    *string    `json:"summary,omitempty"`
	Content    string     `json:"content"`
	DateAdded  time.Time  `json:"dateAdded"`
	DateEdited *time.Time `json:"dateEdited,omitempty"`
	Length     int        `json:"length"`
	Tags       []string   `json:"tags,omitempty"`
}
