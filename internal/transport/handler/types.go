package handler

// UpdateAssetRequest carries a partial asset update; absent fields stay
// untouched, explicit nulls clear the column.
type UpdateAssetRequest struct {
	Alt         *string `json:"alt" validate:"omitempty,max=255"`
	ClearAlt    bool    `json:"clear_alt"`
	Credit      *string `json:"credit" validate:"omitempty,max=255"`
	Folder      *string `json:"folder" validate:"omitempty,max=64"`
	ClearFolder bool    `json:"clear_folder"`
	OrderIndex  *int    `json:"order_index" validate:"omitempty,gte=0"`
}

type DeleteAssetRequest struct {
	URL string `json:"url" validate:"required,url"`
}

type ReorderRequest struct {
	IDs        []string `json:"ids" validate:"required,min=1,dive,required"`
	StartIndex int      `json:"start_index" validate:"gte=0"`
}

type MoveRequest struct {
	Folder      *string `json:"folder"`
	MovedID     string  `json:"moved_id" validate:"required"`
	TargetIndex int     `json:"target_index" validate:"gte=0"`
}

type CreateFolderRequest struct {
	Name string `json:"name" validate:"required,max=64"`
}

type RenameFolderRequest struct {
	NewName string `json:"new_name" validate:"required,max=64"`
}

type FragmentRequest struct {
	ImageURL  string `json:"image_url" validate:"required,url"`
	AltText   string `json:"alt_text"`
	Preset    string `json:"preset" validate:"omitempty,oneof=small medium large full custom"`
	Width     int    `json:"width" validate:"gte=0"`
	Height    int    `json:"height" validate:"gte=0"`
	Alignment string `json:"alignment" validate:"omitempty,oneof=left center right full"`
	Caption   string `json:"caption"`
}
