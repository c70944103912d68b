package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/trippix/mediavault/internal/domain/model"
	"github.com/trippix/mediavault/internal/domain/repository"
	"github.com/trippix/mediavault/internal/usecase"
)

// Mock CatalogService. Only the methods under test get function fields;
// the rest return not-found sentinels.

type mockCatalogService struct {
	createProvinceFn func(ctx context.Context, name string) (*model.Province, error)
	listProvincesFn  func(ctx context.Context, nameFilter string) ([]*model.Province, error)
	renameProvinceFn func(ctx context.Context, id uuid.UUID, name string) (*model.Province, error)
	deleteProvinceFn func(ctx context.Context, id uuid.UUID) error
	createCityFn     func(ctx context.Context, provinceID uuid.UUID, name string) (*model.City, error)
	listCitiesByFn   func(ctx context.Context, provinceID uuid.UUID) ([]*model.City, error)
	createPlaceFn    func(ctx context.Context, cityID uuid.UUID, name, description string) (*model.Place, error)
	createTagFn      func(ctx context.Context, name string) (*model.Tag, error)
	renameTagFn      func(ctx context.Context, id uuid.UUID, name string) (*model.Tag, error)
}

func (m *mockCatalogService) CreateProvince(ctx context.Context, name string) (*model.Province, error) {
	if m.createProvinceFn != nil {
		return m.createProvinceFn(ctx, name)
	}
	return nil, repository.ErrProvinceNotFound
}

func (m *mockCatalogService) GetProvince(ctx context.Context, id uuid.UUID) (*model.Province, error) {
	return nil, repository.ErrProvinceNotFound
}

func (m *mockCatalogService) ListProvinces(ctx context.Context, nameFilter string) ([]*model.Province, error) {
	if m.listProvincesFn != nil {
		return m.listProvincesFn(ctx, nameFilter)
	}
	return nil, nil
}

func (m *mockCatalogService) RenameProvince(ctx context.Context, id uuid.UUID, name string) (*model.Province, error) {
	if m.renameProvinceFn != nil {
		return m.renameProvinceFn(ctx, id, name)
	}
	return nil, repository.ErrProvinceNotFound
}

func (m *mockCatalogService) DeleteProvince(ctx context.Context, id uuid.UUID) error {
	if m.deleteProvinceFn != nil {
		return m.deleteProvinceFn(ctx, id)
	}
	return nil
}

func (m *mockCatalogService) CreateCity(ctx context.Context, provinceID uuid.UUID, name string) (*model.City, error) {
	if m.createCityFn != nil {
		return m.createCityFn(ctx, provinceID, name)
	}
	return nil, repository.ErrProvinceNotFound
}

func (m *mockCatalogService) GetCity(ctx context.Context, id uuid.UUID) (*model.City, error) {
	return nil, repository.ErrCityNotFound
}

func (m *mockCatalogService) ListCities(ctx context.Context, nameFilter string) ([]*model.City, error) {
	return nil, nil
}

func (m *mockCatalogService) ListCitiesByProvince(ctx context.Context, provinceID uuid.UUID) ([]*model.City, error) {
	if m.listCitiesByFn != nil {
		return m.listCitiesByFn(ctx, provinceID)
	}
	return nil, nil
}

func (m *mockCatalogService) RenameCity(ctx context.Context, id uuid.UUID, name string) (*model.City, error) {
	return nil, repository.ErrCityNotFound
}

func (m *mockCatalogService) DeleteCity(ctx context.Context, id uuid.UUID) error {
	return nil
}

func (m *mockCatalogService) CreatePlace(ctx context.Context, cityID uuid.UUID, name, description string) (*model.Place, error) {
	if m.createPlaceFn != nil {
		return m.createPlaceFn(ctx, cityID, name, description)
	}
	return nil, repository.ErrCityNotFound
}

func (m *mockCatalogService) GetPlace(ctx context.Context, id uuid.UUID) (*model.Place, error) {
	return nil, repository.ErrPlaceNotFound
}

func (m *mockCatalogService) ListPlaces(ctx context.Context, nameFilter string) ([]*model.Place, error) {
	return nil, nil
}

func (m *mockCatalogService) ListPlacesByCity(ctx context.Context, cityID uuid.UUID) ([]*model.Place, error) {
	return nil, nil
}

func (m *mockCatalogService) UpdatePlace(ctx context.Context, id uuid.UUID, name, description string) (*model.Place, error) {
	return nil, repository.ErrPlaceNotFound
}

func (m *mockCatalogService) DeletePlace(ctx context.Context, id uuid.UUID) error {
	return nil
}

func (m *mockCatalogService) CreateTag(ctx context.Context, name string) (*model.Tag, error) {
	if m.createTagFn != nil {
		return m.createTagFn(ctx, name)
	}
	return nil, repository.ErrTagNotFound
}

func (m *mockCatalogService) ListTags(ctx context.Context, nameFilter string) ([]*model.Tag, error) {
	return nil, nil
}

func (m *mockCatalogService) RenameTag(ctx context.Context, id uuid.UUID, name string) (*model.Tag, error) {
	if m.renameTagFn != nil {
		return m.renameTagFn(ctx, id, name)
	}
	return nil, repository.ErrTagNotFound
}

func (m *mockCatalogService) DeleteTag(ctx context.Context, id uuid.UUID) error {
	return nil
}

func sampleProvince(name string) *model.Province {
	return &model.Province{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

func jsonRequest(t *testing.T, method, path string, payload any) *http.Request {
	t.Helper()

	var body []byte
	switch v := payload.(type) {
	case string:
		body = []byte(v)
	default:
		var err error
		body, err = json.Marshal(v)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestCatalogHandler_CreateProvince(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    any
		setupMock      func(m *mockCatalogService)
		wantStatusCode int
		checkResponse  func(t *testing.T, body []byte)
	}{
		{
			name:        "successful creation",
			requestBody: NameRequest{Name: "golestan"},
			setupMock: func(m *mockCatalogService) {
				m.createProvinceFn = func(ctx context.Context, name string) (*model.Province, error) {
					return sampleProvince(name), nil
				}
			},
			wantStatusCode: http.StatusCreated,
			checkResponse: func(t *testing.T, body []byte) {
				var resp ProvinceResponse
				decodeEnvelope(t, body, &resp)
				if resp.Name != "golestan" {
					t.Errorf("name = %v, want golestan", resp.Name)
				}
				if resp.ID == "" {
					t.Error("expected id to be set")
				}
			},
		},
		{
			name:           "invalid JSON body",
			requestBody:    "not json",
			setupMock:      func(m *mockCatalogService) {},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:        "blank name",
			requestBody: NameRequest{Name: "   "},
			setupMock: func(m *mockCatalogService) {
				m.createProvinceFn = func(ctx context.Context, name string) (*model.Province, error) {
					return nil, usecase.ErrEmptyCatalogName
				}
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:        "duplicate name",
			requestBody: NameRequest{Name: "golestan"},
			setupMock: func(m *mockCatalogService) {
				m.createProvinceFn = func(ctx context.Context, name string) (*model.Province, error) {
					return nil, repository.ErrDuplicateName
				}
			},
			wantStatusCode: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockCatalogService{}
			tt.setupMock(mock)
			h := NewCatalogHandler(mock)

			req := jsonRequest(t, http.MethodPost, "/v1/provinces", tt.requestBody)
			rec := httptest.NewRecorder()

			h.CreateProvince(rec, req)

			if rec.Code != tt.wantStatusCode {
				t.Errorf("expected status %d, got %d", tt.wantStatusCode, rec.Code)
			}

			if tt.checkResponse != nil {
				tt.checkResponse(t, rec.Body.Bytes())
			}
		})
	}
}

func TestCatalogHandler_ListProvinces(t *testing.T) {
	mock := &mockCatalogService{
		listProvincesFn: func(ctx context.Context, nameFilter string) ([]*model.Province, error) {
			if nameFilter != "gol" {
				t.Errorf("nameFilter = %v, want gol", nameFilter)
			}
			return []*model.Province{sampleProvince("golestan"), sampleProvince("gilan")}, nil
		},
	}
	h := NewCatalogHandler(mock)

	req := httptest.NewRequest(http.MethodGet, "/v1/provinces?name=gol", nil)
	rec := httptest.NewRecorder()

	h.ListProvinces(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp []ProvinceResponse
	decodeEnvelope(t, rec.Body.Bytes(), &resp)
	if len(resp) != 2 {
		t.Errorf("expected 2 provinces, got %d", len(resp))
	}
}

func TestCatalogHandler_UpdateProvince(t *testing.T) {
	provinceID := uuid.New()

	mock := &mockCatalogService{
		renameProvinceFn: func(ctx context.Context, id uuid.UUID, name string) (*model.Province, error) {
			if id != provinceID {
				t.Errorf("id = %v, want %v", id, provinceID)
			}
			if name != "gulistan" {
				t.Errorf("name = %v, want gulistan", name)
			}
			p := sampleProvince(name)
			p.ID = id
			return p, nil
		},
	}
	h := NewCatalogHandler(mock)

	r := chi.NewRouter()
	r.Put("/v1/provinces/{id}", h.UpdateProvince)

	req := jsonRequest(t, http.MethodPut, "/v1/provinces/"+provinceID.String(), NameRequest{Name: "gulistan"})
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
}

func TestCatalogHandler_DeleteProvince(t *testing.T) {
	tests := []struct {
		name           string
		provinceID     string
		setupMock      func(m *mockCatalogService)
		wantStatusCode int
	}{
		{
			name:           "successful delete",
			provinceID:     uuid.New().String(),
			setupMock:      func(m *mockCatalogService) {},
			wantStatusCode: http.StatusOK,
		},
		{
			name:       "still referenced",
			provinceID: uuid.New().String(),
			setupMock: func(m *mockCatalogService) {
				m.deleteProvinceFn = func(ctx context.Context, id uuid.UUID) error {
					return repository.ErrInUse
				}
			},
			wantStatusCode: http.StatusConflict,
		},
		{
			name:       "not found",
			provinceID: uuid.New().String(),
			setupMock: func(m *mockCatalogService) {
				m.deleteProvinceFn = func(ctx context.Context, id uuid.UUID) error {
					return repository.ErrProvinceNotFound
				}
			},
			wantStatusCode: http.StatusNotFound,
		},
		{
			name:           "invalid ID",
			provinceID:     "not-a-uuid",
			setupMock:      func(m *mockCatalogService) {},
			wantStatusCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockCatalogService{}
			tt.setupMock(mock)
			h := NewCatalogHandler(mock)

			r := chi.NewRouter()
			r.Delete("/v1/provinces/{id}", h.DeleteProvince)

			req := httptest.NewRequest(http.MethodDelete, "/v1/provinces/"+tt.provinceID, nil)
			rec := httptest.NewRecorder()

			r.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatusCode {
				t.Errorf("expected status %d, got %d", tt.wantStatusCode, rec.Code)
			}
		})
	}
}

func TestCatalogHandler_CreateCity(t *testing.T) {
	provinceID := uuid.New()

	tests := []struct {
		name           string
		requestBody    any
		setupMock      func(m *mockCatalogService)
		wantStatusCode int
	}{
		{
			name:        "successful creation",
			requestBody: CityRequest{ProvinceID: provinceID.String(), Name: "gorgan"},
			setupMock: func(m *mockCatalogService) {
				m.createCityFn = func(ctx context.Context, pid uuid.UUID, name string) (*model.City, error) {
					if pid != provinceID {
						t.Errorf("provinceID = %v, want %v", pid, provinceID)
					}
					return &model.City{
						ID:         uuid.New(),
						ProvinceID: pid,
						Name:       name,
						CreatedAt:  time.Now(),
						UpdatedAt:  time.Now(),
					}, nil
				}
			},
			wantStatusCode: http.StatusCreated,
		},
		{
			name:           "invalid province ID",
			requestBody:    CityRequest{ProvinceID: "not-a-uuid", Name: "gorgan"},
			setupMock:      func(m *mockCatalogService) {},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:        "province does not exist",
			requestBody: CityRequest{ProvinceID: uuid.New().String(), Name: "gorgan"},
			setupMock: func(m *mockCatalogService) {
				m.createCityFn = func(ctx context.Context, pid uuid.UUID, name string) (*model.City, error) {
					return nil, repository.ErrProvinceNotFound
				}
			},
			wantStatusCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockCatalogService{}
			tt.setupMock(mock)
			h := NewCatalogHandler(mock)

			req := jsonRequest(t, http.MethodPost, "/v1/cities", tt.requestBody)
			rec := httptest.NewRecorder()

			h.CreateCity(rec, req)

			if rec.Code != tt.wantStatusCode {
				t.Errorf("expected status %d, got %d", tt.wantStatusCode, rec.Code)
			}
		})
	}
}

func TestCatalogHandler_ListCities_ByProvince(t *testing.T) {
	provinceID := uuid.New()

	mock := &mockCatalogService{
		listCitiesByFn: func(ctx context.Context, pid uuid.UUID) ([]*model.City, error) {
			if pid != provinceID {
				t.Errorf("provinceID = %v, want %v", pid, provinceID)
			}
			return []*model.City{
				{ID: uuid.New(), ProvinceID: pid, Name: "gorgan", CreatedAt: time.Now(), UpdatedAt: time.Now()},
			}, nil
		},
	}
	h := NewCatalogHandler(mock)

	req := httptest.NewRequest(http.MethodGet, "/v1/cities?provinceId="+provinceID.String(), nil)
	rec := httptest.NewRecorder()

	h.ListCities(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp []CityResponse
	decodeEnvelope(t, rec.Body.Bytes(), &resp)
	if len(resp) != 1 {
		t.Fatalf("expected 1 city, got %d", len(resp))
	}
	if resp[0].ProvinceID != provinceID.String() {
		t.Errorf("province_id = %v, want %v", resp[0].ProvinceID, provinceID)
	}
}

func TestCatalogHandler_ListCities_InvalidProvinceID(t *testing.T) {
	h := NewCatalogHandler(&mockCatalogService{})

	req := httptest.NewRequest(http.MethodGet, "/v1/cities?provinceId=not-a-uuid", nil)
	rec := httptest.NewRecorder()

	h.ListCities(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rec.Code)
	}
}

func TestCatalogHandler_CreatePlace(t *testing.T) {
	cityID := uuid.New()

	mock := &mockCatalogService{
		createPlaceFn: func(ctx context.Context, cid uuid.UUID, name, description string) (*model.Place, error) {
			if cid != cityID {
				t.Errorf("cityID = %v, want %v", cid, cityID)
			}
			if description != "forest park" {
				t.Errorf("description = %v, want forest park", description)
			}
			return &model.Place{
				ID:          uuid.New(),
				CityID:      cid,
				Name:        name,
				Description: description,
				CreatedAt:   time.Now(),
				UpdatedAt:   time.Now(),
			}, nil
		},
	}
	h := NewCatalogHandler(mock)

	req := jsonRequest(t, http.MethodPost, "/v1/places", PlaceRequest{
		CityID:      cityID.String(),
		Name:        "naharkhoran",
		Description: "forest park",
	})
	rec := httptest.NewRecorder()

	h.CreatePlace(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rec.Code)
	}

	var resp PlaceResponse
	decodeEnvelope(t, rec.Body.Bytes(), &resp)
	if resp.Description != "forest park" {
		t.Errorf("description = %v, want forest park", resp.Description)
	}
}

func TestCatalogHandler_CreateTag(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    any
		setupMock      func(m *mockCatalogService)
		wantStatusCode int
	}{
		{
			name:        "successful creation",
			requestBody: NameRequest{Name: "landscape"},
			setupMock: func(m *mockCatalogService) {
				m.createTagFn = func(ctx context.Context, name string) (*model.Tag, error) {
					return &model.Tag{ID: uuid.New(), Name: name, CreatedAt: time.Now(), UpdatedAt: time.Now()}, nil
				}
			},
			wantStatusCode: http.StatusCreated,
		},
		{
			name:        "duplicate tag",
			requestBody: NameRequest{Name: "landscape"},
			setupMock: func(m *mockCatalogService) {
				m.createTagFn = func(ctx context.Context, name string) (*model.Tag, error) {
					return nil, repository.ErrDuplicateName
				}
			},
			wantStatusCode: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockCatalogService{}
			tt.setupMock(mock)
			h := NewCatalogHandler(mock)

			req := jsonRequest(t, http.MethodPost, "/v1/tags", tt.requestBody)
			rec := httptest.NewRecorder()

			h.CreateTag(rec, req)

			if rec.Code != tt.wantStatusCode {
				t.Errorf("expected status %d, got %d", tt.wantStatusCode, rec.Code)
			}
		})
	}
}

func TestCatalogHandler_UpdateTag(t *testing.T) {
	tagID := uuid.New()

	mock := &mockCatalogService{
		renameTagFn: func(ctx context.Context, id uuid.UUID, name string) (*model.Tag, error) {
			if id != tagID {
				t.Errorf("id = %v, want %v", id, tagID)
			}
			return &model.Tag{ID: id, Name: name, CreatedAt: time.Now(), UpdatedAt: time.Now()}, nil
		},
	}
	h := NewCatalogHandler(mock)

	r := chi.NewRouter()
	r.Put("/v1/tags/{id}", h.UpdateTag)

	req := jsonRequest(t, http.MethodPut, "/v1/tags/"+tagID.String(), NameRequest{Name: "nature"})
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
}
