package models

import "time"

// Project is a portfolio entry rendered by the terminal frontend.
type Project struct {
	Slug        string     `json:"slug"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Tech        []string   `json:"tech,omitempty"`
	RepoURL     *string    `json:"repoUrl,omitempty"`
	DemoURL     *string    `json:"demoUrl,omitempty"`
	DateAdded   time.Time  `json:"dateAdded"`
	DateEdited  *time.Time `json:"dateEdited,omitempty"`
	Featured    bool       `json:"featured"`
}
