package models

import "time"

const (
	// DefaultBanReason is recorded when the admin supplies none.
	DefaultBanReason = "no reason provided"
	// BanIssuer identifies who applied a ban. Single-admin deployment, so a
	// constant rather than tracked identity.
	BanIssuer = "admin"
)

// BanEntry blocks an IP address from creating comments. Matching is exact
// string comparison; no CIDR or wildcard support.
type BanEntry struct {
	IP       string    `json:"ip"`
	Reason   string    `json:"reason"`
	BannedAt time.Time `json:"bannedAt"`
	BannedBy string    `json:"bannedBy"`
}
