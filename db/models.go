package db

import (
	"time"

	"gorm.io/gorm"
)

// CachedModInfo is one cached marketplace metadata record. The cache lets
// repeat scans reuse recent enrichment responses instead of hitting the
// network for every known mod.
type CachedModInfo struct {
	gorm.Model
	RemoteID    string `gorm:"uniqueIndex"` // Platform id on the marketplace
	Title       string
	Owner       string // Numeric id of the creator
	OwnerName   string
	FileName    string // Original upload file name
	FileSize    uint64
	Description string
	TimeCreated int64 // Unix seconds, marketplace creation time
	TimeUpdated int64 // Unix seconds, last marketplace update
	FetchedAt   time.Time
}
