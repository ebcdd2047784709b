package models

import (
	"fmt"
	"testing"
	"time"
)

func TestRecordAddIncrementsAndPrepends(t *testing.T) {
	var meta CommentsMeta

	entry := RecentComment{ID: "c1", PostSlug: "post-a", Author: "anonymous", Preview: "hi"}
	if !meta.RecordAdd("post-a", entry) {
		t.Fatal("Expected first RecordAdd to apply")
	}

	if meta.TotalComments != 1 {
		t.Errorf("Expected totalComments 1, got %d", meta.TotalComments)
	}
	if meta.CommentsByPost["post-a"] != 1 {
		t.Errorf("Expected commentsByPost[post-a] 1, got %d", meta.CommentsByPost["post-a"])
	}
	if len(meta.RecentComments) != 1 || meta.RecentComments[0].ID != "c1" {
		t.Errorf("Expected c1 at head of recentComments, got %+v", meta.RecentComments)
	}
}

func TestRecordAddIsIdempotent(t *testing.T) {
	var meta CommentsMeta
	entry := RecentComment{ID: "c1", PostSlug: "post-a"}

	meta.RecordAdd("post-a", entry)
	if meta.RecordAdd("post-a", entry) {
		t.Fatal("Expected repeated RecordAdd to be a no-op")
	}

	if meta.TotalComments != 1 {
		t.Errorf("Expected totalComments to stay 1, got %d", meta.TotalComments)
	}
	if len(meta.RecentComments) != 1 {
		t.Errorf("Expected one recent entry, got %d", len(meta.RecentComments))
	}
}

func TestRecordAddCapsRecentComments(t *testing.T) {
	var meta CommentsMeta

	for i := 0; i < MaxRecentComments+5; i++ {
		id := fmt.Sprintf("c%d", i)
		meta.RecordAdd("post-a", RecentComment{ID: id, PostSlug: "post-a"})
	}

	if len(meta.RecentComments) != MaxRecentComments {
		t.Fatalf("Expected recentComments capped at %d, got %d", MaxRecentComments, len(meta.RecentComments))
	}
	newest := fmt.Sprintf("c%d", MaxRecentComments+4)
	if meta.RecentComments[0].ID != newest {
		t.Errorf("Expected newest entry %s at head, got %s", newest, meta.RecentComments[0].ID)
	}
	if meta.TotalComments != MaxRecentComments+5 {
		t.Errorf("Expected totalComments %d, got %d", MaxRecentComments+5, meta.TotalComments)
	}
}

func TestRecordRemoveDecrementsAndDropsRecent(t *testing.T) {
	var meta CommentsMeta
	meta.RecordAdd("post-a", RecentComment{ID: "c1", PostSlug: "post-a"})
	meta.RecordAdd("post-a", RecentComment{ID: "c2", PostSlug: "post-a"})

	if !meta.RecordRemove("post-a", "c1") {
		t.Fatal("Expected RecordRemove to apply")
	}

	if meta.TotalComments != 1 {
		t.Errorf("Expected totalComments 1, got %d", meta.TotalComments)
	}
	if meta.CommentsByPost["post-a"] != 1 {
		t.Errorf("Expected commentsByPost[post-a] 1, got %d", meta.CommentsByPost["post-a"])
	}
	for _, recent := range meta.RecentComments {
		if recent.ID == "c1" {
			t.Error("Expected c1 to be dropped from recentComments")
		}
	}
}

func TestRecordRemoveFloorsAtZero(t *testing.T) {
	var meta CommentsMeta

	if !meta.RecordRemove("post-a", "ghost") {
		t.Fatal("Expected RecordRemove to apply on empty meta")
	}

	if meta.TotalComments != 0 {
		t.Errorf("Expected totalComments floored at 0, got %d", meta.TotalComments)
	}
	if meta.CommentsByPost["post-a"] != 0 {
		t.Errorf("Expected commentsByPost floored at 0, got %d", meta.CommentsByPost["post-a"])
	}
}

func TestRecordRemoveIsIdempotent(t *testing.T) {
	var meta CommentsMeta
	meta.RecordAdd("post-a", RecentComment{ID: "c1", PostSlug: "post-a"})
	meta.RecordAdd("post-a", RecentComment{ID: "c2", PostSlug: "post-a"})

	meta.RecordRemove("post-a", "c1")
	if meta.RecordRemove("post-a", "c1") {
		t.Fatal("Expected repeated RecordRemove to be a no-op")
	}
	if meta.TotalComments != 1 {
		t.Errorf("Expected totalComments to stay 1, got %d", meta.TotalComments)
	}
}

func TestRecordEditRefreshesPreviewOnly(t *testing.T) {
	var meta CommentsMeta
	meta.RecordAdd("post-a", RecentComment{ID: "c1", PostSlug: "post-a", Preview: "old"})

	if !meta.RecordEdit("c1", "new") {
		t.Fatal("Expected RecordEdit to apply for a cached comment")
	}
	if meta.RecentComments[0].Preview != "new" {
		t.Errorf("Expected preview replaced, got %q", meta.RecentComments[0].Preview)
	}
	if meta.TotalComments != 1 {
		t.Errorf("Expected counters untouched, got totalComments %d", meta.TotalComments)
	}

	if meta.RecordEdit("ghost", "whatever") {
		t.Error("Expected RecordEdit to be a no-op for an uncached comment")
	}
}

func TestAppliedMarkersAreBounded(t *testing.T) {
	var meta CommentsMeta

	for i := 0; i < maxAppliedMarkers+20; i++ {
		meta.RecordAdd("post-a", RecentComment{ID: fmt.Sprintf("c%d", i), PostSlug: "post-a"})
	}

	if len(meta.Applied) != maxAppliedMarkers {
		t.Fatalf("Expected applied markers capped at %d, got %d", maxAppliedMarkers, len(meta.Applied))
	}
	// The oldest markers fell out of the window, so their deltas can apply again.
	if meta.hasApplied("+c0") {
		t.Error("Expected oldest marker to be trimmed")
	}
	newest := fmt.Sprintf("+c%d", maxAppliedMarkers+19)
	if !meta.hasApplied(newest) {
		t.Errorf("Expected newest marker %s to be retained", newest)
	}
}

func TestNormalizeReadiesZeroValue(t *testing.T) {
	var meta CommentsMeta
	meta.TotalComments = -3

	meta.Normalize()

	if meta.CommentsByPost == nil {
		t.Error("Expected commentsByPost map allocated")
	}
	if meta.RecentComments == nil {
		t.Error("Expected recentComments slice allocated")
	}
	if meta.TotalComments != 0 {
		t.Errorf("Expected negative total floored at 0, got %d", meta.TotalComments)
	}
}

func TestRecentCommentTimestampsSurviveRoundTrip(t *testing.T) {
	created := time.Date(2025, 3, 10, 8, 30, 0, 0, time.UTC)
	var meta CommentsMeta
	meta.RecordAdd("post-a", RecentComment{ID: "c1", PostSlug: "post-a", CreatedAt: created})

	if !meta.RecentComments[0].CreatedAt.Equal(created) {
		t.Errorf("Expected createdAt %v, got %v", created, meta.RecentComments[0].CreatedAt)
	}
}
