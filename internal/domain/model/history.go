package model

import "time"

// HistoryEntry records a dog the user has been shown. Entries are append-only.
type HistoryEntry struct {
	ID     int64
	Dog    DogResult
	SeenAt time.Time
}
