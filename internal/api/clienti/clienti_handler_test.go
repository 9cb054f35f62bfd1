package clienti

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ecoloptim/ecoloptim-api/internal/api/auth"
	"github.com/ecoloptim/ecoloptim-api/internal/types"
)

// MockClientiService is a mock implementation of the ClientiService interface
type MockClientiService struct {
	mock.Mock
}

func (m *MockClientiService) List(ctx context.Context, params ListParams) ([]types.Client, types.Pagination, error) {
	args := m.Called(ctx, params)
	var clients []types.Client
	if args.Get(0) != nil {
		clients = args.Get(0).([]types.Client)
	}
	return clients, args.Get(1).(types.Pagination), args.Error(2)
}

func (m *MockClientiService) GetByID(ctx context.Context, id int64) (*types.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Client), args.Error(1)
}

func (m *MockClientiService) Create(ctx context.Context, req ClientRequest, creatDe int64) (*types.Client, error) {
	args := m.Called(ctx, req, creatDe)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Client), args.Error(1)
}

func (m *MockClientiService) Update(ctx context.Context, id int64, req ClientRequest) (*types.Client, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Client), args.Error(1)
}

func (m *MockClientiService) SoftDelete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func decodeEnvelope(t *testing.T, body *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var envelope map[string]interface{}
	require.NoError(t, json.Unmarshal(body.Bytes(), &envelope))
	return envelope
}

// withURLParam injects a chi route parameter the way the router would.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func withClaims(r *http.Request, userID int64) *http.Request {
	claims := &types.Claims{UserID: userID, Username: "ana", Rol: types.RoleUser}
	return r.WithContext(context.WithValue(r.Context(), auth.ClaimsKey, claims))
}

func TestListHandler(t *testing.T) {
	logger := slog.Default()

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockClientiService)
		handler := NewClientiHandler(mockService, logger)

		clients := []types.Client{{ID: 1, Nume: "SC Alfa SRL", TipClient: "firma", Activ: true}}
		pagination := types.Pagination{Page: 2, Limit: 10, Total: 15, Pages: 2}
		mockService.On("List", mock.Anything, ListParams{Search: "alfa", Page: 2, Limit: 10}).
			Return(clients, pagination, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/clienti?search=alfa&page=2&limit=10", nil)
		rr := httptest.NewRecorder()

		handler.List(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		envelope := decodeEnvelope(t, rr.Body)
		assert.Equal(t, true, envelope["success"])
		data := envelope["data"].([]interface{})
		assert.Len(t, data, 1)
		pag := envelope["pagination"].(map[string]interface{})
		assert.Equal(t, float64(2), pag["page"])
		assert.Equal(t, float64(15), pag["total"])
		mockService.AssertExpectations(t)
	})

	t.Run("EmptyResultIsArray", func(t *testing.T) {
		mockService := new(MockClientiService)
		handler := NewClientiHandler(mockService, logger)

		mockService.On("List", mock.Anything, ListParams{}).
			Return(nil, types.Pagination{Page: 1, Limit: 50}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/clienti", nil)
		rr := httptest.NewRecorder()

		handler.List(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		// data is [] and never null.
		assert.Contains(t, rr.Body.String(), `"data":[]`)
		mockService.AssertExpectations(t)
	})

	t.Run("NonNumericPageIgnored", func(t *testing.T) {
		mockService := new(MockClientiService)
		handler := NewClientiHandler(mockService, logger)

		mockService.On("List", mock.Anything, ListParams{}).
			Return([]types.Client{}, types.Pagination{Page: 1, Limit: 50}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/clienti?page=abc", nil)
		rr := httptest.NewRecorder()

		handler.List(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		mockService.AssertExpectations(t)
	})
}

func TestGetByIDHandler(t *testing.T) {
	logger := slog.Default()

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockClientiService)
		handler := NewClientiHandler(mockService, logger)

		client := &types.Client{ID: 5, Nume: "SC Alfa SRL", Activ: true}
		mockService.On("GetByID", mock.Anything, int64(5)).Return(client, nil).Once()

		req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/clienti/5", nil), "id", "5")
		rr := httptest.NewRecorder()

		handler.GetByID(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		envelope := decodeEnvelope(t, rr.Body)
		data := envelope["data"].(map[string]interface{})
		assert.Equal(t, "SC Alfa SRL", data["nume"])
		mockService.AssertExpectations(t)
	})

	t.Run("NotFound", func(t *testing.T) {
		mockService := new(MockClientiService)
		handler := NewClientiHandler(mockService, logger)

		mockService.On("GetByID", mock.Anything, int64(99)).Return(nil, types.ErrNotFound).Once()

		req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/clienti/99", nil), "id", "99")
		rr := httptest.NewRecorder()

		handler.GetByID(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
		envelope := decodeEnvelope(t, rr.Body)
		assert.Equal(t, "Clientul nu a fost găsit.", envelope["message"])
		mockService.AssertExpectations(t)
	})

	t.Run("InvalidID", func(t *testing.T) {
		mockService := new(MockClientiService)
		handler := NewClientiHandler(mockService, logger)

		req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/clienti/abc", nil), "id", "abc")
		rr := httptest.NewRecorder()

		handler.GetByID(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockService.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})
}

func TestCreateHandler(t *testing.T) {
	logger := slog.Default()

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockClientiService)
		handler := NewClientiHandler(mockService, logger)

		created := &types.Client{ID: 1, Nume: "SC Alfa SRL", TipClient: "firma", Activ: true}
		mockService.On("Create", mock.Anything, mock.AnythingOfType("ClientRequest"), int64(42)).
			Return(created, nil).Once()

		body := `{"nume":"SC Alfa SRL","tip_client":"firma","cui_cnp":"RO123"}`
		req := withClaims(httptest.NewRequest(http.MethodPost, "/api/clienti", bytes.NewBufferString(body)), 42)
		rr := httptest.NewRecorder()

		handler.Create(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)
		envelope := decodeEnvelope(t, rr.Body)
		assert.Equal(t, "Client creat cu succes!", envelope["message"])
		mockService.AssertExpectations(t)
	})

	t.Run("MissingNume", func(t *testing.T) {
		mockService := new(MockClientiService)
		handler := NewClientiHandler(mockService, logger)

		body := `{"tip_client":"firma"}`
		req := withClaims(httptest.NewRequest(http.MethodPost, "/api/clienti", bytes.NewBufferString(body)), 42)
		rr := httptest.NewRecorder()

		handler.Create(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		envelope := decodeEnvelope(t, rr.Body)
		assert.Equal(t, "Numele clientului este obligatoriu.", envelope["message"])
		mockService.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("InvalidTipClient", func(t *testing.T) {
		mockService := new(MockClientiService)
		handler := NewClientiHandler(mockService, logger)

		body := `{"nume":"SC Alfa SRL","tip_client":"ong"}`
		req := withClaims(httptest.NewRequest(http.MethodPost, "/api/clienti", bytes.NewBufferString(body)), 42)
		rr := httptest.NewRecorder()

		handler.Create(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		envelope := decodeEnvelope(t, rr.Body)
		assert.NotEmpty(t, envelope["errors"])
		mockService.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("NoClaims", func(t *testing.T) {
		mockService := new(MockClientiService)
		handler := NewClientiHandler(mockService, logger)

		body := `{"nume":"SC Alfa SRL"}`
		req := httptest.NewRequest(http.MethodPost, "/api/clienti", bytes.NewBufferString(body))
		rr := httptest.NewRecorder()

		handler.Create(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		mockService.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("DuplicateCuiCnp", func(t *testing.T) {
		mockService := new(MockClientiService)
		handler := NewClientiHandler(mockService, logger)

		mockService.On("Create", mock.Anything, mock.AnythingOfType("ClientRequest"), int64(42)).
			Return(nil, types.ErrDuplicateCuiCnp).Once()

		body := `{"nume":"SC Alfa SRL","cui_cnp":"RO123"}`
		req := withClaims(httptest.NewRequest(http.MethodPost, "/api/clienti", bytes.NewBufferString(body)), 42)
		rr := httptest.NewRecorder()

		handler.Create(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		envelope := decodeEnvelope(t, rr.Body)
		assert.Equal(t, "Un client cu acest CUI/CNP există deja.", envelope["message"])
		mockService.AssertExpectations(t)
	})
}

func TestUpdateHandler(t *testing.T) {
	logger := slog.Default()

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockClientiService)
		handler := NewClientiHandler(mockService, logger)

		updated := &types.Client{ID: 5, Nume: "SC Alfa SRL", Activ: true}
		mockService.On("Update", mock.Anything, int64(5), mock.AnythingOfType("ClientRequest")).
			Return(updated, nil).Once()

		body := `{"nume":"SC Alfa SRL"}`
		req := withURLParam(httptest.NewRequest(http.MethodPut, "/api/clienti/5", bytes.NewBufferString(body)), "id", "5")
		rr := httptest.NewRecorder()

		handler.Update(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		envelope := decodeEnvelope(t, rr.Body)
		assert.Equal(t, "Client actualizat cu succes!", envelope["message"])
		mockService.AssertExpectations(t)
	})

	t.Run("NotFound", func(t *testing.T) {
		mockService := new(MockClientiService)
		handler := NewClientiHandler(mockService, logger)

		mockService.On("Update", mock.Anything, int64(99), mock.AnythingOfType("ClientRequest")).
			Return(nil, types.ErrNotFound).Once()

		body := `{"nume":"SC Alfa SRL"}`
		req := withURLParam(httptest.NewRequest(http.MethodPut, "/api/clienti/99", bytes.NewBufferString(body)), "id", "99")
		rr := httptest.NewRecorder()

		handler.Update(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("DuplicateCuiCnp", func(t *testing.T) {
		mockService := new(MockClientiService)
		handler := NewClientiHandler(mockService, logger)

		mockService.On("Update", mock.Anything, int64(5), mock.AnythingOfType("ClientRequest")).
			Return(nil, types.ErrDuplicateCuiCnp).Once()

		body := `{"nume":"SC Alfa SRL","cui_cnp":"RO123"}`
		req := withURLParam(httptest.NewRequest(http.MethodPut, "/api/clienti/5", bytes.NewBufferString(body)), "id", "5")
		rr := httptest.NewRecorder()

		handler.Update(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		envelope := decodeEnvelope(t, rr.Body)
		assert.Equal(t, "Un alt client cu acest CUI/CNP există deja.", envelope["message"])
		mockService.AssertExpectations(t)
	})
}

func TestDeleteHandler(t *testing.T) {
	logger := slog.Default()

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockClientiService)
		handler := NewClientiHandler(mockService, logger)

		mockService.On("SoftDelete", mock.Anything, int64(5)).Return(nil).Once()

		req := withURLParam(httptest.NewRequest(http.MethodDelete, "/api/clienti/5", nil), "id", "5")
		rr := httptest.NewRecorder()

		handler.Delete(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		envelope := decodeEnvelope(t, rr.Body)
		assert.Equal(t, "Client șters cu succes!", envelope["message"])
		mockService.AssertExpectations(t)
	})

	t.Run("NotFound", func(t *testing.T) {
		mockService := new(MockClientiService)
		handler := NewClientiHandler(mockService, logger)

		mockService.On("SoftDelete", mock.Anything, int64(99)).Return(types.ErrNotFound).Once()

		req := withURLParam(httptest.NewRequest(http.MethodDelete, "/api/clienti/99", nil), "id", "99")
		rr := httptest.NewRecorder()

		handler.Delete(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
		envelope := decodeEnvelope(t, rr.Body)
		assert.Equal(t, "Clientul nu a fost găsit.", envelope["message"])
		mockService.AssertExpectations(t)
	})
}
