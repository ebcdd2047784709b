package database

import (
	"github.com/vincitamore/tui-blog-backend/storage"
)

// Document keys. Comment collections are keyed per post slug; everything else
// is a singleton document. The "comments/" prefix keeps collection keys out of
// the singletons' namespace.
const (
	commentsKeyPrefix = "comments/"
	metaKey           = "comments-meta"
	bansKey           = "bans"
	sessionsKey       = "admin-sessions"
	credentialsKey    = "admin-credentials"
	blogPostsKey      = "blog-posts"
	projectsKey       = "projects"
)

func commentsKey(slug string) string {
	return commentsKeyPrefix + slug
}

type Database struct {
	commentRepo    *CommentRepo
	metaRepo       *MetaRepo
	banRepo        *BanRepo
	sessionRepo    *SessionRepo
	credentialRepo *CredentialRepo
	blogPostRepo   *BlogPostRepo
	projectRepo    *ProjectRepo
}

// New initializes a new Database struct with each repository using a shared
// document store instance
func New(store storage.Store) Database {
	return Database{
		commentRepo:    NewCommentRepo(store),
		metaRepo:       NewMetaRepo(store),
		banRepo:        NewBanRepo(store),
		sessionRepo:    NewSessionRepo(store),
		credentialRepo: NewCredentialRepo(store),
		blogPostRepo:   NewBlogPostRepo(store),
		projectRepo:    NewProjectRepo(store),
	}
}

// Accessor methods for each repository

func (d Database) CommentRepo() *CommentRepo {
	return d.commentRepo
}

func (d Database) MetaRepo() *MetaRepo {
	return d.metaRepo
}

func (d Database) BanRepo() *BanRepo {
	return d.banRepo
}

func (d Database) SessionRepo() *SessionRepo {
	return d.sessionRepo
}

func (d Database) CredentialRepo() *CredentialRepo {
	return d.credentialRepo
}

func (d Database) BlogPostRepo() *BlogPostRepo {
	return d.blogPostRepo
}

func (d Database) ProjectRepo() *ProjectRepo {
	return d.projectRepo
}
