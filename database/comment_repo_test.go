package database

import (
	"context"
	"testing"
	"time"

	"github.com/vincitamore/tui-blog-backend/errs"
	"github.com/vincitamore/tui-blog-backend/models"
	"github.com/vincitamore/tui-blog-backend/storage"
)

func TestCommentRepoFindAllSortsByCreation(t *testing.T) {
	repo := NewCommentRepo(storage.NewMemoryStore())
	ctx := context.Background()
	base := time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC)

	repo.Add(ctx, "post-a", testComment("c2", "post-a", base.Add(time.Hour)))
	repo.Add(ctx, "post-a", testComment("c1", "post-a", base))
	repo.Add(ctx, "post-a", testComment("c3", "post-a", base.Add(2*time.Hour)))

	comments, err := repo.FindAll(ctx, "post-a")
	if err != nil {
		t.Fatalf("FindAll failed: %v", err)
	}
	if len(comments) != 3 {
		t.Fatalf("Expected 3 comments, got %d", len(comments))
	}
	for i, want := range []string{"c1", "c2", "c3"} {
		if comments[i].ID != want {
			t.Errorf("Expected comments[%d]=%s, got %s", i, want, comments[i].ID)
		}
	}
}

func TestCommentRepoFindAllAbsentCollection(t *testing.T) {
	repo := NewCommentRepo(storage.NewMemoryStore())

	comments, err := repo.FindAll(context.Background(), "never-written")
	if err != nil {
		t.Fatalf("FindAll failed: %v", err)
	}
	if len(comments) != 0 {
		t.Errorf("Expected empty collection, got %d entries", len(comments))
	}
}

func TestCommentRepoCorruptCollectionTreatedAsEmpty(t *testing.T) {
	store := storage.NewMemoryStore()
	repo := NewCommentRepo(store)
	ctx := context.Background()

	store.Put(ctx, commentsKey("post-a"), []byte("{not json"))

	comments, err := repo.FindAll(ctx, "post-a")
	if err != nil {
		t.Fatalf("Expected corrupt document to degrade, got error: %v", err)
	}
	if len(comments) != 0 {
		t.Errorf("Expected empty collection, got %d entries", len(comments))
	}

	// A write through the repo replaces the corrupt document.
	if err := repo.Add(ctx, "post-a", testComment("c1", "post-a", time.Now().UTC())); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	comments, _ = repo.FindAll(ctx, "post-a")
	if len(comments) != 1 {
		t.Errorf("Expected 1 comment after rewrite, got %d", len(comments))
	}
}

func TestCommentRepoFindByID(t *testing.T) {
	repo := NewCommentRepo(storage.NewMemoryStore())
	ctx := context.Background()
	repo.Add(ctx, "post-a", testComment("c1", "post-a", time.Now().UTC()))

	found, err := repo.FindByID(ctx, "post-a", "c1")
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if found == nil || found.ID != "c1" {
		t.Errorf("Expected c1, got %+v", found)
	}

	absent, err := repo.FindByID(ctx, "post-a", "ghost")
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if absent != nil {
		t.Errorf("Expected nil for unknown id, got %+v", absent)
	}
}

func TestCommentRepoUpdateAppliesGuardAndMutation(t *testing.T) {
	repo := NewCommentRepo(storage.NewMemoryStore())
	ctx := context.Background()
	repo.Add(ctx, "post-a", testComment("c1", "post-a", time.Now().UTC()))

	editedAt := time.Date(2025, 4, 2, 9, 0, 0, 0, time.UTC)
	updated, err := repo.Update(ctx, "post-a", "c1",
		func(stored models.Comment) error {
			if stored.AuthorToken != "token-c1" {
				return errs.NewOwnershipDeniedError()
			}
			return nil
		},
		func(c *models.Comment) {
			c.Content = "rewritten"
			c.UpdatedAt = &editedAt
			c.Edited = true
		})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Content != "rewritten" || !updated.Edited {
		t.Errorf("Expected mutation applied, got %+v", updated)
	}

	stored, _ := repo.FindByID(ctx, "post-a", "c1")
	if stored.Content != "rewritten" {
		t.Errorf("Expected mutation persisted, got %q", stored.Content)
	}
	if stored.AuthorToken != "token-c1" {
		t.Errorf("Expected authorToken untouched, got %q", stored.AuthorToken)
	}
}

func TestCommentRepoUpdateGuardRejectionLeavesStateAlone(t *testing.T) {
	repo := NewCommentRepo(storage.NewMemoryStore())
	ctx := context.Background()
	repo.Add(ctx, "post-a", testComment("c1", "post-a", time.Now().UTC()))

	_, err := repo.Update(ctx, "post-a", "c1",
		func(models.Comment) error { return errs.NewOwnershipDeniedError() },
		func(c *models.Comment) { c.Content = "should not happen" })
	if !errs.IsOwnershipDeniedError(err) {
		t.Fatalf("Expected ownership error, got %v", err)
	}

	stored, _ := repo.FindByID(ctx, "post-a", "c1")
	if stored.Content != "content of c1" {
		t.Errorf("Expected content unchanged after rejected update, got %q", stored.Content)
	}
}

func TestCommentRepoUpdateUnknownID(t *testing.T) {
	repo := NewCommentRepo(storage.NewMemoryStore())

	_, err := repo.Update(context.Background(), "post-a", "ghost", nil, func(c *models.Comment) {})
	if !errs.IsNotFound(err) {
		t.Errorf("Expected not found, got %v", err)
	}
}

func TestCommentRepoDeleteOrphansChildren(t *testing.T) {
	repo := NewCommentRepo(storage.NewMemoryStore())
	ctx := context.Background()
	base := time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC)

	parent := testComment("x", "post-a", base)
	childY := testComment("y", "post-a", base.Add(time.Minute))
	childY.ParentID = &parent.ID
	childZ := testComment("z", "post-a", base.Add(2*time.Minute))
	childZ.ParentID = &parent.ID
	grandchild := testComment("g", "post-a", base.Add(3*time.Minute))
	grandchild.ParentID = &childY.ID

	repo.Add(ctx, "post-a", parent)
	repo.Add(ctx, "post-a", childY)
	repo.Add(ctx, "post-a", childZ)
	repo.Add(ctx, "post-a", grandchild)

	removed, err := repo.Delete(ctx, "post-a", "x")
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if removed.ID != "x" {
		t.Errorf("Expected removed comment x, got %s", removed.ID)
	}

	comments, _ := repo.FindAll(ctx, "post-a")
	if len(comments) != 3 {
		t.Fatalf("Expected children to survive deletion, got %d comments", len(comments))
	}
	for _, c := range comments {
		switch c.ID {
		case "y", "z":
			if c.ParentID != nil {
				t.Errorf("Expected %s promoted to root, got parentId %v", c.ID, *c.ParentID)
			}
		case "g":
			if c.ParentID == nil || *c.ParentID != "y" {
				t.Errorf("Expected grandchild to keep its parent, got %v", c.ParentID)
			}
		}
	}
}

func TestCommentRepoDeleteUnknownID(t *testing.T) {
	repo := NewCommentRepo(storage.NewMemoryStore())

	_, err := repo.Delete(context.Background(), "post-a", "ghost")
	if !errs.IsNotFound(err) {
		t.Errorf("Expected not found, got %v", err)
	}
}

func TestCommentRepoSurfacesStorageErrors(t *testing.T) {
	store := newBrokenStore(storage.NewMemoryStore())
	store.failGets[commentsKey("post-a")] = true
	repo := NewCommentRepo(store)

	_, err := repo.FindAll(context.Background(), "post-a")
	if !errs.IsStorageUnavailableError(err) {
		t.Errorf("Expected storage unavailable, got %v", err)
	}
}
