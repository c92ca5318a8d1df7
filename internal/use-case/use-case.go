// Package use_case owns the media asset catalog: every upload, edit,
// deletion and reorder goes through here so callers never touch the object
// store or the table directly.
package use_case

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/swairua/kennedynespot/internal/entities"
	"github.com/swairua/kennedynespot/internal/logger"
	"github.com/swairua/kennedynespot/internal/queue"
	"github.com/swairua/kennedynespot/internal/r2"
	"github.com/swairua/kennedynespot/internal/savings"
	"github.com/swairua/kennedynespot/internal/transcoder"
)

const (
	catalogCacheKey = "catalog"
	catalogCacheTTL = time.Minute
)

type Catalog interface {
	InsertAsset(ctx context.Context, a entities.MediaAsset) (entities.MediaAsset, error)
	ListAssets(ctx context.Context) ([]entities.MediaAsset, error)
	GetAsset(ctx context.Context, id string) (entities.MediaAsset, error)
	UpdateAsset(ctx context.Context, id string, upd entities.AssetUpdate) error
	DeleteAsset(ctx context.Context, id string) error
	ReorderAssets(ctx context.Context, ids []string, startIndex int) error
	RenameFolder(ctx context.Context, oldName, newName string) (int64, error)
	ClearFolder(ctx context.Context, name string) (int64, error)
}

type BlobStore interface {
	Upload(ctx context.Context, key, contentType string, payload []byte) (string, error)
	Remove(ctx context.Context, key string) error
	KeyFromURL(url string) string
}

type CleanupQueue interface {
	EnqueueCleanup(ctx context.Context, job queue.CleanupJob) error
}

type ListCache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Store(ctx context.Context, key string, ttl time.Duration, value string) error
	Flush(ctx context.Context) error
}

// UploadFile is one file of an upload batch, already read into memory.
type UploadFile struct {
	Name string
	Size int64
	Data []byte
}

// FileResult reports the outcome for a single file of a batch. Err is nil on
// success; a failed file never aborts the remaining batch.
type FileResult struct {
	Name    string `json:"name"`
	URL     string `json:"url,omitempty"`
	Saved   string `json:"saved,omitempty"`
	Percent int    `json:"percent,omitempty"`
	Error   string `json:"error,omitempty"`

	optimized int64
	err       error
}

func (r FileResult) Failed() bool { return r.err != nil }

// UploadReport aggregates a batch: created URLs plus overall savings.
type UploadReport struct {
	URLs          []string     `json:"urls"`
	Files         []FileResult `json:"files"`
	OriginalSize  int64        `json:"original_size"`
	OptimizedSize int64        `json:"optimized_size"`
	Saved         string       `json:"saved,omitempty"`
}

type useCase struct {
	catalog    Catalog
	blobs      BlobStore
	cleanup    CleanupQueue
	listCache  ListCache
	trans      *transcoder.Transcoder
	keyPrefix  string
	maxFileLen int64
	log        *logger.Logger
}

func New(catalog Catalog, blobs BlobStore, cleanup CleanupQueue, listCache ListCache, keyPrefix string, maxFileLen int64, log *logger.Logger) *useCase {
	if keyPrefix == "" {
		keyPrefix = "blog"
	}
	return &useCase{
		catalog:    catalog,
		blobs:      blobs,
		cleanup:    cleanup,
		listCache:  listCache,
		trans:      transcoder.New(),
		keyPrefix:  keyPrefix,
		maxFileLen: maxFileLen,
		log:        log,
	}
}

// List returns the catalog in presentation order, cached for a short TTL.
func (c *useCase) List(ctx context.Context) ([]entities.MediaAsset, error) {
	if c.listCache != nil {
		if raw, ok, err := c.listCache.Get(ctx, catalogCacheKey); err == nil && ok {
			var assets []entities.MediaAsset
			if err := json.Unmarshal([]byte(raw), &assets); err == nil {
				return assets, nil
			}
		}
	}

	assets, err := c.catalog.ListAssets(ctx)
	if err != nil {
		return nil, err
	}

	if c.listCache != nil {
		if raw, err := json.Marshal(assets); err == nil {
			if err := c.listCache.Store(ctx, catalogCacheKey, catalogCacheTTL, string(raw)); err != nil {
				c.log.Warn("catalog cache store failed", "err", err)
			}
		}
	}
	return assets, nil
}

// Upload processes the batch sequentially: validate, transcode, persist
// blobs, insert the catalog row. Per-file failures are reported and the batch
// continues.
func (c *useCase) Upload(ctx context.Context, files []UploadFile) (UploadReport, error) {
	report := UploadReport{}

	for _, f := range files {
		res := c.uploadOne(ctx, f)
		report.Files = append(report.Files, res)
		if res.Failed() {
			c.log.Warn("upload rejected", "file", f.Name, "err", res.err)
			continue
		}
		report.URLs = append(report.URLs, res.URL)
		report.OriginalSize += f.Size
	}

	for _, f := range report.Files {
		if !f.Failed() {
			report.OptimizedSize += f.optimized
		}
	}

	if len(report.URLs) > 0 {
		report.Saved = savings.Describe(report.OriginalSize, report.OptimizedSize)
		c.invalidate(ctx)
	}
	return report, nil
}

func (c *useCase) uploadOne(ctx context.Context, f UploadFile) FileResult {
	res := FileResult{Name: f.Name}
	fail := func(err error) FileResult {
		res.err = err
		res.Error = err.Error()
		return res
	}

	mime := mimetype.Detect(f.Data)
	if !strings.HasPrefix(mime.String(), "image/") {
		return fail(fmt.Errorf("%s: %w", f.Name, entities.ErrNotAnImage))
	}
	if f.Size > c.maxFileLen {
		return fail(fmt.Errorf("%s: %w", f.Name, entities.ErrFileTooLarge))
	}

	out, err := c.trans.Transcode(bytes.NewReader(f.Data))
	if err != nil {
		return fail(fmt.Errorf("optimize %s: %w", f.Name, err))
	}

	// Primary rendition must land before anything else; its failure drops the
	// whole file.
	primaryKey := r2.ObjectKey(c.keyPrefix, f.Name, "", out.Original.Format)
	primaryURL, err := c.blobs.Upload(ctx, primaryKey, "image/"+out.Original.Format, out.Original.Blob)
	if err != nil {
		return fail(fmt.Errorf("upload %s: %w", f.Name, err))
	}

	// Size variants are best-effort: a failed variant is skipped and the row
	// references only what actually landed.
	sizeURLs := make(map[string]string, len(out.Sizes))
	optimized := int64(len(out.Original.Blob))
	for label, rend := range out.Sizes {
		key := r2.ObjectKey(c.keyPrefix, f.Name, label, rend.Format)
		url, err := c.blobs.Upload(ctx, key, "image/"+rend.Format, rend.Blob)
		if err != nil {
			c.log.Warn("size variant upload failed", "file", f.Name, "label", label, "err", err)
			continue
		}
		sizeURLs[label] = url
		optimized += int64(len(rend.Blob))
	}

	alt := baseName(f.Name)
	asset := entities.MediaAsset{
		URL:           primaryURL,
		Alt:           &alt,
		Sizes:         sizeURLs,
		OriginalSize:  f.Size,
		OptimizedSize: optimized,
		Width:         out.Original.Width,
		Height:        out.Original.Height,
	}
	if _, err := c.catalog.InsertAsset(ctx, asset); err != nil {
		return fail(fmt.Errorf("save %s: %w", f.Name, err))
	}

	res.URL = primaryURL
	res.optimized = optimized
	res.Percent = savings.PercentSaved(f.Size, optimized)
	res.Saved = savings.Describe(f.Size, optimized)
	return res
}

// Update merges partial fields into the asset row.
func (c *useCase) Update(ctx context.Context, id string, upd entities.AssetUpdate) error {
	if err := c.catalog.UpdateAsset(ctx, id, upd); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

// Delete removes the primary blob, then the catalog row. A primary removal
// failure aborts the whole deletion so the row never dangles without its
// blob; size variants are cleaned up in the background.
func (c *useCase) Delete(ctx context.Context, id, url string) error {
	asset, err := c.catalog.GetAsset(ctx, id)
	if err != nil {
		return err
	}

	if err := c.blobs.Remove(ctx, c.blobs.KeyFromURL(url)); err != nil {
		return fmt.Errorf("remove blob: %w", err)
	}

	if err := c.catalog.DeleteAsset(ctx, id); err != nil {
		return err
	}

	// Variant blobs are only fair game once the row is gone; a failed row
	// delete must not race the cleanup worker.
	if len(asset.Sizes) > 0 && c.cleanup != nil {
		keys := make([]string, 0, len(asset.Sizes))
		for _, sizeURL := range asset.Sizes {
			keys = append(keys, c.blobs.KeyFromURL(sizeURL))
		}
		if err := c.cleanup.EnqueueCleanup(ctx, queue.CleanupJob{AssetID: id, Keys: keys}); err != nil {
			c.log.Warn("cleanup enqueue failed", "asset", id, "err", err)
		}
	}

	c.invalidate(ctx)
	return nil
}

// Reorder assigns order_index = startIndex + position to each id, as one
// transaction.
func (c *useCase) Reorder(ctx context.Context, ids []string, startIndex int) error {
	if err := c.catalog.ReorderAssets(ctx, ids, startIndex); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

// RenameFolder moves every asset in oldName to newName and reports the count.
func (c *useCase) RenameFolder(ctx context.Context, oldName, newName string) (int64, error) {
	if strings.TrimSpace(oldName) == "" || strings.TrimSpace(newName) == "" {
		return 0, entities.ErrEmptyFolderName
	}
	n, err := c.catalog.RenameFolder(ctx, oldName, newName)
	if err != nil {
		return 0, err
	}
	c.invalidate(ctx)
	return n, nil
}

// DeleteFolder sends the folder's assets back to root; the assets themselves
// are untouched.
func (c *useCase) DeleteFolder(ctx context.Context, name string) (int64, error) {
	if strings.TrimSpace(name) == "" {
		return 0, entities.ErrEmptyFolderName
	}
	n, err := c.catalog.ClearFolder(ctx, name)
	if err != nil {
		return 0, err
	}
	c.invalidate(ctx)
	return n, nil
}

func (c *useCase) invalidate(ctx context.Context) {
	if c.listCache == nil {
		return
	}
	if err := c.listCache.Flush(ctx); err != nil {
		c.log.Warn("catalog cache invalidation failed", "err", err)
	}
}

func baseName(fileName string) string {
	if i := strings.LastIndex(fileName, "."); i > 0 {
		return fileName[:i]
	}
	return fileName
}
