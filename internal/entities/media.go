package entities

import "time"

// Size-ladder labels. A label appears in MediaAsset.Sizes only when the
// rendition was actually generated (target width below the source width).
const (
	SizeSmall  = "small"
	SizeMedium = "medium"
	SizeLarge  = "large"
	SizeXLarge = "xlarge"
)

// MediaAsset is one row of the media catalog: the primary rendition plus the
// map of generated size variants. Folder is nil for root; OrderIndex is nil
// until the asset has been reordered at least once.
type MediaAsset struct {
	ID            string            `json:"id"`
	URL           string            `json:"url"`
	Alt           *string           `json:"alt,omitempty"`
	Credit        *string           `json:"credit,omitempty"`
	Folder        *string           `json:"folder,omitempty"`
	OrderIndex    *int              `json:"order_index,omitempty"`
	Sizes         map[string]string `json:"sizes"`
	OriginalSize  int64             `json:"original_size"`
	OptimizedSize int64             `json:"optimized_size"`
	Width         int               `json:"width"`
	Height        int               `json:"height"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// InFolder reports whether the asset belongs to the given folder; nil means
// root on both sides.
func (a *MediaAsset) InFolder(folder *string) bool {
	if folder == nil {
		return a.Folder == nil
	}
	return a.Folder != nil && *a.Folder == *folder
}

// AssetUpdate carries a partial update; nil fields are left untouched.
// SetFolder/SetAlt etc. distinguish "set to null" from "do not change".
type AssetUpdate struct {
	Alt         *string
	ClearAlt    bool
	Credit      *string
	Folder      *string
	ClearFolder bool
	OrderIndex  *int
}

// FolderView is derived from the catalog on every read and never persisted:
// a folder exists only while at least one asset carries its name.
type FolderView struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}
