package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/trippix/mediavault/internal/domain/model"
	"github.com/trippix/mediavault/internal/domain/repository"
	"github.com/trippix/mediavault/internal/usecase"
)

// The catalog endpoints are pass-through CRUD; handlers only parse,
// delegate and translate errors.

type NameRequest struct {
	Name string `json:"name"`
}

type CityRequest struct {
	ProvinceID string `json:"province_id"`
	Name       string `json:"name"`
}

type PlaceRequest struct {
	CityID      string `json:"city_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type ProvinceResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type CityResponse struct {
	ID         string `json:"id"`
	ProvinceID string `json:"province_id"`
	Name       string `json:"name"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

type PlaceResponse struct {
	ID          string `json:"id"`
	CityID      string `json:"city_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

type TagResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// CatalogHandler handles province/city/place/tag HTTP requests.
type CatalogHandler struct {
	svc usecase.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(svc usecase.CatalogService) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

// Provinces

func (h *CatalogHandler) CreateProvince(w http.ResponseWriter, r *http.Request) {
	var req NameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	p, err := h.svc.CreateProvince(r.Context(), req.Name)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	JSON(w, http.StatusCreated, toProvinceResponse(p))
}

func (h *CatalogHandler) ListProvinces(w http.ResponseWriter, r *http.Request) {
	provinces, err := h.svc.ListProvinces(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	resp := make([]ProvinceResponse, 0, len(provinces))
	for _, p := range provinces {
		resp = append(resp, toProvinceResponse(p))
	}
	JSON(w, http.StatusOK, resp)
}

func (h *CatalogHandler) GetProvince(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	p, err := h.svc.GetProvince(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	JSON(w, http.StatusOK, toProvinceResponse(p))
}

func (h *CatalogHandler) UpdateProvince(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var req NameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	p, err := h.svc.RenameProvince(r.Context(), id, req.Name)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	JSON(w, http.StatusOK, toProvinceResponse(p))
}

func (h *CatalogHandler) DeleteProvince(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteProvince(r.Context(), id); err != nil {
		h.handleServiceError(w, err)
		return
	}
	JSON(w, http.StatusOK, nil)
}

// Cities

func (h *CatalogHandler) CreateCity(w http.ResponseWriter, r *http.Request) {
	var req CityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	provinceID, err := uuid.Parse(req.ProvinceID)
	if err != nil {
		Error(w, http.StatusBadRequest, "Province ID must be a valid UUID")
		return
	}

	c, err := h.svc.CreateCity(r.Context(), provinceID, req.Name)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	JSON(w, http.StatusCreated, toCityResponse(c))
}

func (h *CatalogHandler) ListCities(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if pid := q.Get("provinceId"); pid != "" {
		provinceID, err := uuid.Parse(pid)
		if err != nil {
			Error(w, http.StatusBadRequest, "Province ID must be a valid UUID")
			return
		}
		cities, err := h.svc.ListCitiesByProvince(r.Context(), provinceID)
		if err != nil {
			h.handleServiceError(w, err)
			return
		}
		JSON(w, http.StatusOK, toCityResponses(cities))
		return
	}

	cities, err := h.svc.ListCities(r.Context(), q.Get("name"))
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	JSON(w, http.StatusOK, toCityResponses(cities))
}

func (h *CatalogHandler) GetCity(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	c, err := h.svc.GetCity(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	JSON(w, http.StatusOK, toCityResponse(c))
}

func (h *CatalogHandler) UpdateCity(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var req NameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	c, err := h.svc.RenameCity(r.Context(), id, req.Name)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	JSON(w, http.StatusOK, toCityResponse(c))
}

func (h *CatalogHandler) DeleteCity(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteCity(r.Context(), id); err != nil {
		h.handleServiceError(w, err)
		return
	}
	JSON(w, http.StatusOK, nil)
}

// Places

func (h *CatalogHandler) CreatePlace(w http.ResponseWriter, r *http.Request) {
	var req PlaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	cityID, err := uuid.Parse(req.CityID)
	if err != nil {
		Error(w, http.StatusBadRequest, "City ID must be a valid UUID")
		return
	}

	p, err := h.svc.CreatePlace(r.Context(), cityID, req.Name, req.Description)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	JSON(w, http.StatusCreated, toPlaceResponse(p))
}

func (h *CatalogHandler) ListPlaces(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if cid := q.Get("cityId"); cid != "" {
		cityID, err := uuid.Parse(cid)
		if err != nil {
			Error(w, http.StatusBadRequest, "City ID must be a valid UUID")
			return
		}
		places, err := h.svc.ListPlacesByCity(r.Context(), cityID)
		if err != nil {
			h.handleServiceError(w, err)
			return
		}
		JSON(w, http.StatusOK, toPlaceResponses(places))
		return
	}

	places, err := h.svc.ListPlaces(r.Context(), q.Get("name"))
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	JSON(w, http.StatusOK, toPlaceResponses(places))
}

func (h *CatalogHandler) GetPlace(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	p, err := h.svc.GetPlace(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	JSON(w, http.StatusOK, toPlaceResponse(p))
}

func (h *CatalogHandler) UpdatePlace(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var req PlaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	p, err := h.svc.UpdatePlace(r.Context(), id, req.Name, req.Description)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	JSON(w, http.StatusOK, toPlaceResponse(p))
}

func (h *CatalogHandler) DeletePlace(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeletePlace(r.Context(), id); err != nil {
		h.handleServiceError(w, err)
		return
	}
	JSON(w, http.StatusOK, nil)
}

// Tags

func (h *CatalogHandler) CreateTag(w http.ResponseWriter, r *http.Request) {
	var req NameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	t, err := h.svc.CreateTag(r.Context(), req.Name)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	JSON(w, http.StatusCreated, toTagResponse(t))
}

func (h *CatalogHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.svc.ListTags(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	resp := make([]TagResponse, 0, len(tags))
	for _, t := range tags {
		resp = append(resp, toTagResponse(t))
	}
	JSON(w, http.StatusOK, resp)
}

func (h *CatalogHandler) UpdateTag(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var req NameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	t, err := h.svc.RenameTag(r.Context(), id, req.Name)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	JSON(w, http.StatusOK, toTagResponse(t))
}

func (h *CatalogHandler) DeleteTag(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteTag(r.Context(), id); err != nil {
		h.handleServiceError(w, err)
		return
	}
	JSON(w, http.StatusOK, nil)
}

func (h *CatalogHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, usecase.ErrEmptyCatalogName):
		Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, repository.ErrDuplicateName):
		Error(w, http.StatusConflict, "An entry with this name already exists")
	case errors.Is(err, repository.ErrInUse):
		Error(w, http.StatusConflict, "Entry is still referenced by other records")
	case errors.Is(err, repository.ErrProvinceNotFound),
		errors.Is(err, repository.ErrCityNotFound),
		errors.Is(err, repository.ErrPlaceNotFound),
		errors.Is(err, repository.ErrTagNotFound):
		Error(w, http.StatusNotFound, "Not found")
	default:
		Error(w, http.StatusInternalServerError, "An unexpected error occurred")
	}
}

func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		Error(w, http.StatusBadRequest, "ID must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}

func toProvinceResponse(p *model.Province) ProvinceResponse {
	return ProvinceResponse{
		ID:        p.ID.String(),
		Name:      p.Name,
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
		UpdatedAt: p.UpdatedAt.Format(time.RFC3339),
	}
}

func toCityResponse(c *model.City) CityResponse {
	return CityResponse{
		ID:         c.ID.String(),
		ProvinceID: c.ProvinceID.String(),
		Name:       c.Name,
		CreatedAt:  c.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  c.UpdatedAt.Format(time.RFC3339),
	}
}

func toCityResponses(cities []*model.City) []CityResponse {
	resp := make([]CityResponse, 0, len(cities))
	for _, c := range cities {
		resp = append(resp, toCityResponse(c))
	}
	return resp
}

func toPlaceResponse(p *model.Place) PlaceResponse {
	return PlaceResponse{
		ID:          p.ID.String(),
		CityID:      p.CityID.String(),
		Name:        p.Name,
		Description: p.Description,
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   p.UpdatedAt.Format(time.RFC3339),
	}
}

func toPlaceResponses(places []*model.Place) []PlaceResponse {
	resp := make([]PlaceResponse, 0, len(places))
	for _, p := range places {
		resp = append(resp, toPlaceResponse(p))
	}
	return resp
}

func toTagResponse(t *model.Tag) TagResponse {
	return TagResponse{
		ID:        t.ID.String(),
		Name:      t.Name,
		CreatedAt: t.CreatedAt.Format(time.RFC3339),
		UpdatedAt: t.UpdatedAt.Format(time.RFC3339),
	}
}
