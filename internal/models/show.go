package models

import (
	"strings"
	"time"

	"github.com/uptrace/bun"
)

type Show struct {
	bun.BaseModel `bun:"table:shows,alias:s"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	StartTime time.Time `bun:"start_time,notnull" json:"start_time"`
	ArtistID  int64     `bun:"artist_id,notnull" json:"artist_id"`
	VenueID   int64     `bun:"venue_id,notnull" json:"venue_id"`

	Artist *Artist `bun:"rel:belongs-to,join:artist_id=id" json:"-"`
	Venue  *Venue  `bun:"rel:belongs-to,join:venue_id=id" json:"-"`
}

// IsUpcoming reports whether a show starting at start is still ahead of now.
// A show starting exactly at now counts as upcoming.
func IsUpcoming(start, now time.Time) bool {
	return !start.Before(now)
}

// AreaKey normalizes a city/state pair so that "San Francisco, CA" and
// "san francisco, ca" land in the same area.
func AreaKey(city, state string) string {
	return strings.ToLower(strings.TrimSpace(city)) + "\x00" + strings.ToLower(strings.TrimSpace(state))
}

// SearchKey is the lowercased text searches run against: the name on one
// line and "city, state" on the next. Lowercasing happens here rather than
// in SQL because SQLite's LOWER only folds ASCII.
func SearchKey(name, city, state string) string {
	return strings.ToLower(name) + "\n" + strings.ToLower(city) + ", " + strings.ToLower(state)
}
