package store

import (
	"time"

	"go.uber.org/zap"

	"pack-mod-manager/db"
	"pack-mod-manager/logger"
	"pack-mod-manager/mods"
)

// cacheTTL is how long a cached metadata record is served without going
// back to the network.
const cacheTTL = 6 * time.Hour

// Result is the outcome of one enrichment request.
type Result struct {
	Items []Metadata
	Err   error
}

// Dispatcher runs enrichment requests in the background. Requests are
// fire-and-forget: the returned channel is buffered, so the background work
// completes and is simply discarded if the caller never reads it.
type Dispatcher struct {
	client *Client
}

// NewDispatcher wraps a client for background use.
func NewDispatcher(client *Client) *Dispatcher {
	return &Dispatcher{client: client}
}

// Request fetches metadata for a batch of platform ids asynchronously and
// returns a handle the caller may await. Cached records younger than the
// TTL are served locally; only the rest hit the network, and fresh
// responses are written back to the cache.
func (d *Dispatcher) Request(ids []string) <-chan Result {
	out := make(chan Result, 1)

	go func() {
		cached, missing := fromCache(ids)

		var fetched []Metadata
		var err error
		if len(missing) > 0 {
			fetched, err = d.client.FetchMetadata(missing)
			if err == nil {
				storeInCache(fetched)
			}
		}

		items := append(cached, fetched...)
		if err != nil && len(items) == 0 {
			out <- Result{Err: err}
			return
		}
		if err != nil {
			logger.Log.Warnw("Partial enrichment: network fetch failed, serving cache only", zap.Error(err))
		}
		out <- Result{Items: items}
	}()

	return out
}

// Merge applies metadata records onto registry mods, matched by store id.
// Unmatched records are ignored.
func Merge(registry *mods.Registry, items []Metadata) {
	for _, item := range items {
		for _, modd := range registry.Mods {
			if modd.Store.IsNone() || modd.Store.ID != item.RemoteID {
				continue
			}
			modd.Name = item.Title
			modd.Creator = item.Owner
			modd.CreatorName = item.OwnerName
			modd.FileName = item.FileName
			modd.FileSize = item.FileSize
			modd.Description = item.Description
			modd.TimeCreated = item.TimeCreated
			modd.TimeUpdated = item.TimeUpdated
		}
	}
}

func fromCache(ids []string) (cached []Metadata, missing []string) {
	if db.DB == nil {
		return nil, ids
	}

	cutoff := time.Now().Add(-cacheTTL)
	for _, id := range ids {
		var info db.CachedModInfo
		result := db.DB.Where("remote_id = ?", id).First(&info)
		if result.Error != nil || info.FetchedAt.Before(cutoff) {
			missing = append(missing, id)
			continue
		}
		cached = append(cached, Metadata{
			RemoteID:    info.RemoteID,
			Title:       info.Title,
			Owner:       info.Owner,
			OwnerName:   info.OwnerName,
			FileName:    info.FileName,
			FileSize:    info.FileSize,
			Description: info.Description,
			TimeCreated: info.TimeCreated,
			TimeUpdated: info.TimeUpdated,
		})
	}
	return cached, missing
}

func storeInCache(items []Metadata) {
	if db.DB == nil {
		return
	}

	for _, item := range items {
		info := db.CachedModInfo{
			RemoteID:    item.RemoteID,
			Title:       item.Title,
			Owner:       item.Owner,
			OwnerName:   item.OwnerName,
			FileName:    item.FileName,
			FileSize:    item.FileSize,
			Description: item.Description,
			TimeCreated: item.TimeCreated,
			TimeUpdated: item.TimeUpdated,
			FetchedAt:   time.Now(),
		}

		var existing db.CachedModInfo
		if err := db.DB.Where("remote_id = ?", item.RemoteID).First(&existing).Error; err == nil {
			info.ID = existing.ID
			info.CreatedAt = existing.CreatedAt
			if err := db.DB.Save(&info).Error; err != nil {
				logger.Log.Warnw("Failed to update cached metadata", zap.String("remote_id", item.RemoteID), zap.Error(err))
			}
			continue
		}
		if err := db.DB.Create(&info).Error; err != nil {
			logger.Log.Warnw("Failed to cache metadata", zap.String("remote_id", item.RemoteID), zap.Error(err))
		}
	}
}
