package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/swairua/kennedynespot/internal/config"
	"github.com/swairua/kennedynespot/internal/editor"
	"github.com/swairua/kennedynespot/internal/entities"
	"github.com/swairua/kennedynespot/internal/folders"
	"github.com/swairua/kennedynespot/internal/library"
	use_case "github.com/swairua/kennedynespot/internal/use-case"
)

type AssetStore interface {
	List(ctx context.Context) ([]entities.MediaAsset, error)
	Upload(ctx context.Context, files []use_case.UploadFile) (use_case.UploadReport, error)
	Update(ctx context.Context, id string, upd entities.AssetUpdate) error
	Delete(ctx context.Context, id, url string) error
	Reorder(ctx context.Context, ids []string, startIndex int) error
}

type Handler struct {
	assets    AssetStore
	folders   *folders.Manager
	library   *library.Controller
	cfg       *config.Config
	validator *validator.Validate
}

func New(assets AssetStore, fm *folders.Manager, lib *library.Controller, cfg *config.Config) *Handler {
	return &Handler{
		assets:    assets,
		folders:   fm,
		library:   lib,
		cfg:       cfg,
		validator: validator.New(),
	}
}

// UploadImages accepts a multipart batch under the "images" field. Per-file
// validation failures are reported inside the response; the batch continues.
func (h *Handler) UploadImages(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.Upload.MaxRequestBodyMB<<20)

	maxMultipartMem := h.cfg.Upload.MaxMultipartMemoryMB
	if err := r.ParseMultipartForm(maxMultipartMem << 20); err != nil {
		writeMultipartError(w, err)
		return
	}

	fhs := r.MultipartForm.File["images"]
	if len(fhs) == 0 {
		writeJSONError(w, `missing image files: form field key should be "images"`, http.StatusBadRequest)
		return
	}

	files := make([]use_case.UploadFile, 0, len(fhs))
	for _, fh := range fhs {
		f, err := fh.Open()
		if err != nil {
			writeJSONError(w, "an error occurred while reading the upload: "+err.Error(), http.StatusBadRequest)
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			writeJSONError(w, "an error occurred while reading the upload: "+err.Error(), http.StatusBadRequest)
			return
		}
		files = append(files, use_case.UploadFile{
			Name: fh.Filename,
			Size: fh.Size,
			Data: data,
		})
	}

	report, err := h.assets.Upload(r.Context(), files)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, report)
}

func (h *Handler) ListImages(w http.ResponseWriter, r *http.Request) {
	assets, err := h.assets.List(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if name := r.URL.Query().Get("folder"); name != "" {
		var folder *string
		if name != folders.RootName {
			folder = &name
		}
		assets = library.Filter(assets, folder)
	}

	writeJSON(w, http.StatusOK, assets)
}

func (h *Handler) UpdateImage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpdateAssetRequest
	if !decodeBody(w, r, h.validator, &req) {
		return
	}

	upd := entities.AssetUpdate{
		Alt:         req.Alt,
		ClearAlt:    req.ClearAlt,
		Credit:      req.Credit,
		Folder:      req.Folder,
		ClearFolder: req.ClearFolder,
		OrderIndex:  req.OrderIndex,
	}
	if err := h.assets.Update(r.Context(), id, upd); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "updated", "id": id})
}

func (h *Handler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req DeleteAssetRequest
	if !decodeBody(w, r, h.validator, &req) {
		return
	}

	if err := h.assets.Delete(r.Context(), id, req.URL); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted", "id": id})
}

func (h *Handler) ReorderImages(w http.ResponseWriter, r *http.Request) {
	var req ReorderRequest
	if !decodeBody(w, r, h.validator, &req) {
		return
	}

	if err := h.assets.Reorder(r.Context(), req.IDs, req.StartIndex); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"status": "reordered", "count": len(req.IDs)})
}

// MoveImage is the modality-independent reorder command: place one asset at
// a target position within its folder's visible list.
func (h *Handler) MoveImage(w http.ResponseWriter, r *http.Request) {
	var req MoveRequest
	if !decodeBody(w, r, h.validator, &req) {
		return
	}

	if err := h.library.Move(r.Context(), req.Folder, req.MovedID, req.TargetIndex); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "moved", "id": req.MovedID})
}

func (h *Handler) ListFolders(w http.ResponseWriter, r *http.Request) {
	listing, err := h.folders.List(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listing)
}

func (h *Handler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	var req CreateFolderRequest
	if !decodeBody(w, r, h.validator, &req) {
		return
	}

	view, err := h.folders.Create(req.Name)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	// Acknowledgment only: the folder becomes persistent once an asset moves
	// into it.
	writeJSON(w, http.StatusCreated, view)
}

func (h *Handler) RenameFolder(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var req RenameFolderRequest
	if !decodeBody(w, r, h.validator, &req) {
		return
	}

	moved, err := h.folders.Rename(r.Context(), name, req.NewName)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"status": "renamed", "assets_moved": moved})
}

func (h *Handler) DeleteFolder(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	moved, err := h.folders.Delete(r.Context(), name)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"status": "deleted", "assets_moved_to_root": moved})
}

// RenderFragment turns an asset plus presentation options into the markdown
// block the editor appends. Missing alt text is a validation failure and no
// fragment is produced.
func (h *Handler) RenderFragment(w http.ResponseWriter, r *http.Request) {
	var req FragmentRequest
	if !decodeBody(w, r, h.validator, &req) {
		return
	}

	fragment, err := editor.Fragment(editor.Insertion{
		ImageURL:  req.ImageURL,
		AltText:   req.AltText,
		Preset:    req.Preset,
		Width:     req.Width,
		Height:    req.Height,
		Alignment: req.Alignment,
		Caption:   req.Caption,
	})
	if err != nil {
		if errors.Is(err, editor.ErrMissingAlt) {
			writeJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"fragment": fragment})
}
