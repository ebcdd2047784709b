package services

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/vincitamore/tui-blog-backend/database"
)

// ClientAllowed reports whether ip may post comments. When the ban list
// cannot be read the check fails open: comments stay available during a
// storage outage, at the cost of a banned visitor slipping through.
func ClientAllowed(ctx context.Context, bans *database.BanRepo, ip string) bool {
	banned, err := bans.Contains(ctx, ip)
	if err != nil {
		log.Warn().Err(err).Str("ip", ip).Msg("ban list unreadable, allowing request")
		return true
	}
	return !banned
}
