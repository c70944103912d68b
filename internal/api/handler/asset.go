package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/trippix/mediavault/internal/domain/model"
	"github.com/trippix/mediavault/internal/domain/repository"
	"github.com/trippix/mediavault/internal/usecase"
)

// multipartMemoryLimit bounds the in-memory part of multipart parsing;
// larger files spill to disk.
const multipartMemoryLimit = 8 << 20

// AssetResponse is the JSON representation of an asset.
type AssetResponse struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	OriginalFileName string `json:"original_file_name"`
	Province         string `json:"province,omitempty"`
	City             string `json:"city,omitempty"`
	Place            string `json:"place,omitempty"`
	StorageKey       string `json:"storage_key"`
	URL              string `json:"url"`
	SizeBytes        int64  `json:"size_bytes"`
	ContentType      string `json:"content_type"`
	Extension        string `json:"extension"`
	Description      string `json:"description,omitempty"`
	Tags             string `json:"tags,omitempty"`
	CreatedAt        string `json:"created_at"`
	UpdatedAt        string `json:"updated_at"`
}

// AssetListResponse is one page of assets plus the total match count.
type AssetListResponse struct {
	Items      []AssetResponse `json:"items"`
	TotalCount int             `json:"totalCount"`
	Page       int             `json:"page"`
	PerPage    int             `json:"perPage"`
}

// DeleteResponse reports a delete outcome, warning included.
type DeleteResponse struct {
	Message string `json:"message"`
	Warning string `json:"warning,omitempty"`
}

// AssetHandler handles media-asset HTTP requests.
type AssetHandler struct {
	svc            usecase.AssetService
	maxUploadBytes int64
}

// NewAssetHandler creates a new AssetHandler.
func NewAssetHandler(svc usecase.AssetService, maxUploadBytes int64) *AssetHandler {
	return &AssetHandler{svc: svc, maxUploadBytes: maxUploadBytes}
}

// Save handles POST /v1/images (multipart form).
func (h *AssetHandler) Save(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		Error(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		Error(w, http.StatusBadRequest, "File is required")
		return
	}
	defer file.Close()

	asset, err := h.svc.Save(r.Context(), usecase.SaveAssetInput{
		Name: r.FormValue("name"),
		Location: model.LocationPath{
			Province: r.FormValue("province"),
			City:     r.FormValue("city"),
			Place:    r.FormValue("place"),
		},
		File:        file,
		SizeBytes:   header.Size,
		FileName:    header.Filename,
		Description: r.FormValue("description"),
		Tags:        r.FormValue("tags"),
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	JSON(w, http.StatusCreated, h.toAssetResponse(asset))
}

// GetFile handles GET /v1/images/file/* and streams raw object bytes.
func (h *AssetHandler) GetFile(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")
	if key == "" {
		Error(w, http.StatusBadRequest, "Storage path is required")
		return
	}

	reader, contentType, err := h.svc.Get(r.Context(), key)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, reader); err != nil {
		// Headers already sent; nothing left to do but note it.
		return
	}
}

// Describe handles GET /v1/images/{id}.
func (h *AssetHandler) Describe(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		Error(w, http.StatusBadRequest, "Asset ID must be a valid UUID")
		return
	}

	asset, err := h.svc.Describe(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	JSON(w, http.StatusOK, h.toAssetResponse(asset))
}

// Update handles PUT /v1/images/{id} (multipart form, everything optional).
func (h *AssetHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		Error(w, http.StatusBadRequest, "Asset ID must be a valid UUID")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		Error(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	input := usecase.UpdateAssetInput{
		ID:              id,
		CreateIfMissing: r.URL.Query().Get("createIfMissing") == "true",
	}

	if file, header, err := r.FormFile("file"); err == nil {
		defer file.Close()
		input.File = file
		input.SizeBytes = header.Size
		input.FileName = header.Filename
	}

	if v, ok := formValue(r, "name"); ok {
		input.NewName = &v
	}
	if hasAny(r, "province", "city", "place") {
		input.NewLocation = &model.LocationPath{
			Province: r.FormValue("province"),
			City:     r.FormValue("city"),
			Place:    r.FormValue("place"),
		}
	}
	if v, ok := formValue(r, "description"); ok {
		input.Description = &v
	}
	if v, ok := formValue(r, "tags"); ok {
		input.Tags = &v
	}

	out, err := h.svc.Update(r.Context(), input)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	resp := struct {
		Asset   AssetResponse `json:"asset"`
		Warning string        `json:"warning,omitempty"`
	}{
		Asset:   h.toAssetResponse(out.Asset),
		Warning: out.Warning,
	}
	JSON(w, http.StatusOK, resp)
}

// Delete handles DELETE /v1/images/{id}.
func (h *AssetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		Error(w, http.StatusBadRequest, "Asset ID must be a valid UUID")
		return
	}

	result := h.svc.Delete(r.Context(), id)
	if !result.Success {
		status := http.StatusInternalServerError
		if result.Message == "not found" {
			status = http.StatusNotFound
		}
		Error(w, status, result.Message)
		return
	}

	JSON(w, http.StatusOK, DeleteResponse{
		Message: result.Message,
		Warning: result.Warning,
	})
}

// List handles GET /v1/images.
func (h *AssetHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := repository.AssetFilter{
		Query:       q.Get("q"),
		Name:        q.Get("name"),
		Province:    q.Get("province"),
		City:        q.Get("city"),
		Place:       q.Get("place"),
		Extension:   q.Get("extension"),
		Tags:        q.Get("tags"),
		Description: q.Get("description"),
	}

	sort := repository.AssetSort{
		Field:      repository.SortField(q.Get("_sort")),
		Descending: q.Get("_order") == "desc" || q.Get("_order") == "DESC",
	}

	page := repository.Page{
		Page:    atoiDefault(q.Get("page"), 1),
		PerPage: atoiDefault(q.Get("perPage"), repository.DefaultPerPage),
	}.Normalize()

	result, err := h.svc.List(r.Context(), filter, sort, page)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	items := make([]AssetResponse, 0, len(result.Items))
	for _, asset := range result.Items {
		items = append(items, h.toAssetResponse(asset))
	}

	JSON(w, http.StatusOK, AssetListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Page:       page.Page,
		PerPage:    page.PerPage,
	})
}

func (h *AssetHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrEmptyName),
		errors.Is(err, model.ErrEmptyFile),
		errors.Is(err, model.ErrNameTooLong),
		errors.Is(err, model.ErrExtensionNotAllowed),
		errors.Is(err, model.ErrCityWithoutProvince),
		errors.Is(err, model.ErrPlaceWithoutCity):
		Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, repository.ErrDuplicateAsset):
		Error(w, http.StatusConflict, "An asset with this name already exists")
	case errors.Is(err, repository.ErrAssetNotFound),
		errors.Is(err, repository.ErrObjectNotFound):
		Error(w, http.StatusNotFound, "Asset not found")
	case errors.Is(err, repository.ErrStorageBackend),
		errors.Is(err, repository.ErrIndexBackend):
		Error(w, http.StatusBadGateway, "Storage backend unavailable")
	default:
		Error(w, http.StatusInternalServerError, "An unexpected error occurred")
	}
}

func (h *AssetHandler) toAssetResponse(a *model.Asset) AssetResponse {
	return AssetResponse{
		ID:               a.ID.String(),
		Name:             a.Name,
		OriginalFileName: a.OriginalFileName,
		Province:         a.Location.Province,
		City:             a.Location.City,
		Place:            a.Location.Place,
		StorageKey:       a.StorageKey,
		URL:              h.svc.PublicURL(a.StorageKey),
		SizeBytes:        a.SizeBytes,
		ContentType:      a.ContentType,
		Extension:        a.Extension.String(),
		Description:      a.Description,
		Tags:             a.Tags,
		CreatedAt:        a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        a.UpdatedAt.Format(time.RFC3339),
	}
}

// formValue reports whether the field was present in the form at all,
// so callers can distinguish "clear this" from "leave unchanged".
func formValue(r *http.Request, key string) (string, bool) {
	if r.MultipartForm == nil {
		return "", false
	}
	vals, ok := r.MultipartForm.Value[key]
	if !ok || len(vals) == 0 {
		return "", false
	}
	return vals[0], true
}

func hasAny(r *http.Request, keys ...string) bool {
	for _, k := range keys {
		if _, ok := formValue(r, k); ok {
			return true
		}
	}
	return false
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
