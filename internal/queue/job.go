package queue

// CleanupJob is what we push to Redis Streams when an asset is deleted: the
// size-variant object keys left to remove. The primary blob is removed
// synchronously before the catalog row; variants are best-effort.
type CleanupJob struct {
	AssetID string   `json:"asset_id"`
	Keys    []string `json:"keys"`
}
