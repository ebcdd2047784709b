package models

import "time"

const (
	// MaxRecentComments caps the recent-activity cache held in the metadata
	// document.
	MaxRecentComments = 50
	// PreviewLength caps cached comment previews, counted in runes.
	PreviewLength = 100

	// maxAppliedMarkers bounds the idempotency window. Markers older than the
	// window fall away; a redelivered delta from that far back double-counts,
	// which the reconcile pass repairs.
	maxAppliedMarkers = 200
)

// RecentComment is the preview entry cached in CommentsMeta, newest first.
type RecentComment struct {
	ID        string    `json:"id"`
	PostSlug  string    `json:"postSlug"`
	Author    string    `json:"author"`
	Preview   string    `json:"preview"`
	CreatedAt time.Time `json:"createdAt"`
}

// CommentsMeta is the singleton summary document kept beside the per-post
// comment collections. It is a derived cache: the authoritative count for any
// post is always re-derivable by scanning that post's collection.
type CommentsMeta struct {
	TotalComments  int             `json:"totalComments"`
	CommentsByPost map[string]int  `json:"commentsByPost"`
	RecentComments []RecentComment `json:"recentComments"`
	// Applied holds "+id"/"-id" markers for recently applied deltas so a
	// retried update cannot double-count.
	Applied []string `json:"applied"`
}

// Normalize readies a freshly unmarshaled (or zero-valued) document for use.
func (m *CommentsMeta) Normalize() {
	if m.CommentsByPost == nil {
		m.CommentsByPost = make(map[string]int)
	}
	if m.RecentComments == nil {
		m.RecentComments = []RecentComment{}
	}
	if m.TotalComments < 0 {
		m.TotalComments = 0
	}
}

// RecordAdd applies the create delta for the given comment. Returns false
// without touching state when this comment's add was already applied.
func (m *CommentsMeta) RecordAdd(slug string, entry RecentComment) bool {
	m.Normalize()
	if m.hasApplied("+" + entry.ID) {
		return false
	}

	m.TotalComments++
	m.CommentsByPost[slug]++

	m.RecentComments = append([]RecentComment{entry}, m.RecentComments...)
	if len(m.RecentComments) > MaxRecentComments {
		m.RecentComments = m.RecentComments[:MaxRecentComments]
	}

	m.markApplied("+" + entry.ID)
	return true
}

// RecordRemove applies the delete delta for the given comment id. Counters
// floor at zero to tolerate a missed earlier increment. Returns false when
// this removal was already applied.
func (m *CommentsMeta) RecordRemove(slug, id string) bool {
	m.Normalize()
	if m.hasApplied("-" + id) {
		return false
	}

	if m.TotalComments > 0 {
		m.TotalComments--
	}
	if m.CommentsByPost[slug] > 0 {
		m.CommentsByPost[slug]--
	}

	for i, recent := range m.RecentComments {
		if recent.ID == id {
			m.RecentComments = append(m.RecentComments[:i], m.RecentComments[i+1:]...)
			break
		}
	}

	m.markApplied("-" + id)
	return true
}

// RecordEdit refreshes the cached preview when the comment is still inside
// the recent window. Counters are untouched; edits are count-neutral.
func (m *CommentsMeta) RecordEdit(id, preview string) bool {
	m.Normalize()
	for i := range m.RecentComments {
		if m.RecentComments[i].ID == id {
			m.RecentComments[i].Preview = preview
			return true
		}
	}
	return false
}

func (m *CommentsMeta) hasApplied(marker string) bool {
	for _, applied := range m.Applied {
		if applied == marker {
			return true
		}
	}
	return false
}

func (m *CommentsMeta) markApplied(marker string) {
	m.Applied = append(m.Applied, marker)
	if len(m.Applied) > maxAppliedMarkers {
		m.Applied = m.Applied[len(m.Applied)-maxAppliedMarkers:]
	}
}
