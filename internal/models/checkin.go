package models

import "time"

// CheckIn records that the user drank a specific beer at a specific time.
// History entries are append-only: once written they are never updated or
// deleted, so CheckIn carries no document ID or mutation metadata.
type CheckIn struct {
	Date time.Time `json:"date"`
	Beer *Beer     `json:"beer"`
}

// CheckInPage is one page of a user's check-in history, newest first.
// HasMore is a heuristic: it is true iff the page came back full, which can
// report true even when the full page was exactly the last of the data.
type CheckInPage struct {
	CheckIns []*CheckIn `json:"checkIns"`
	HasMore  bool       `json:"hasMore"`
}
