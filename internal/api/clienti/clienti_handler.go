package clienti

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ecoloptim/ecoloptim-api/internal/api"
	"github.com/ecoloptim/ecoloptim-api/internal/api/auth"
	"github.com/ecoloptim/ecoloptim-api/internal/types"
)

type ClientiHandler struct {
	clientiService ClientiService
	logger         *slog.Logger
}

func NewClientiHandler(clientiService ClientiService, logger *slog.Logger) *ClientiHandler {
	return &ClientiHandler{
		logger:         logger,
		clientiService: clientiService,
	}
}

// List godoc
// @Summary      List Clients
// @Description  Paginated list of active clients with optional substring search.
// @Tags         Clienti
// @Produce      json
// @Param        search query string false "Substring matched against name, cui_cnp, email, phone"
// @Param        page query int false "Page number, default 1"
// @Param        limit query int false "Page size, default 50"
// @Success      200 {object} api.Response "Clients"
// @Failure      401 {object} api.Response "Unauthorized"
// @Failure      500 {object} api.Response "Internal Server Error"
// @Security     BearerAuth
// @Router       /clienti [get]
func (h *ClientiHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "List"))

	params := ListParams{Search: r.URL.Query().Get("search")}
	if v := r.URL.Query().Get("page"); v != "" {
		params.Page, _ = strconv.Atoi(v)
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		params.Limit, _ = strconv.Atoi(v)
	}

	clients, pagination, err := h.clientiService.List(ctx, params)
	if err != nil {
		l.ErrorContext(ctx, "Failed to list clients", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Eroare la obținerea clienților.")
		return
	}

	if clients == nil {
		clients = []types.Client{}
	}
	api.WriteJSONResponse(w, r, http.StatusOK, api.Response{
		Success:    true,
		Data:       clients,
		Pagination: pagination,
	})
}

// GetByID godoc
// @Summary      Get Client
// @Tags         Clienti
// @Produce      json
// @Param        id path int true "Client ID"
// @Success      200 {object} api.Response "Client"
// @Failure      404 {object} api.Response "Not Found"
// @Security     BearerAuth
// @Router       /clienti/{id} [get]
func (h *ClientiHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "GetByID"))

	id, err := parseID(r)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "ID invalid.")
		return
	}

	client, err := h.clientiService.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Clientul nu a fost găsit.")
			return
		}
		l.ErrorContext(ctx, "Failed to get client", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Eroare la obținerea clientului.")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, api.Response{
		Success: true,
		Data:    client,
	})
}

// Create godoc
// @Summary      Create Client
// @Tags         Clienti
// @Accept       json
// @Produce      json
// @Success      201 {object} api.Response "Client created"
// @Failure      400 {object} api.Response "Validation failed or duplicate cui_cnp"
// @Security     BearerAuth
// @Router       /clienti [post]
func (h *ClientiHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Create"))

	claims, ok := auth.ClaimsFromContext(ctx)
	if !ok {
		l.ErrorContext(ctx, "Claims not found in context")
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Acces interzis. Token lipsește.")
		return
	}

	var req ClientRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.Nume == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Numele clientului este obligatoriu.")
		return
	}
	if errs := api.ValidateStruct(req); errs != nil {
		api.ValidationErrorResponse(w, r, errs)
		return
	}

	client, err := h.clientiService.Create(ctx, req, claims.UserID)
	if err != nil {
		if errors.Is(err, types.ErrDuplicateCuiCnp) {
			api.ErrorResponse(w, r, http.StatusBadRequest, "Un client cu acest CUI/CNP există deja.")
			return
		}
		l.ErrorContext(ctx, "Failed to create client", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Eroare la crearea clientului.")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusCreated, api.Response{
		Success: true,
		Message: "Client creat cu succes!",
		Data:    client,
	})
}

// Update godoc
// @Summary      Update Client
// @Description  Full replacement of the editable fields; omitted optional fields are cleared.
// @Tags         Clienti
// @Accept       json
// @Produce      json
// @Param        id path int true "Client ID"
// @Success      200 {object} api.Response "Client updated"
// @Failure      400 {object} api.Response "Validation failed or duplicate cui_cnp"
// @Failure      404 {object} api.Response "Not Found"
// @Security     BearerAuth
// @Router       /clienti/{id} [put]
func (h *ClientiHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Update"))

	id, err := parseID(r)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "ID invalid.")
		return
	}

	var req ClientRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.Nume == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Numele clientului este obligatoriu.")
		return
	}
	if errs := api.ValidateStruct(req); errs != nil {
		api.ValidationErrorResponse(w, r, errs)
		return
	}

	client, err := h.clientiService.Update(ctx, id, req)
	if err != nil {
		switch {
		case errors.Is(err, types.ErrNotFound):
			api.ErrorResponse(w, r, http.StatusNotFound, "Clientul nu a fost găsit.")
		case errors.Is(err, types.ErrDuplicateCuiCnp):
			api.ErrorResponse(w, r, http.StatusBadRequest, "Un alt client cu acest CUI/CNP există deja.")
		default:
			l.ErrorContext(ctx, "Failed to update client", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Eroare la actualizarea clientului.")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, api.Response{
		Success: true,
		Message: "Client actualizat cu succes!",
		Data:    client,
	})
}

// Delete godoc
// @Summary      Delete Client
// @Description  Soft delete: the record is marked inactive and retained.
// @Tags         Clienti
// @Produce      json
// @Param        id path int true "Client ID"
// @Success      200 {object} api.Response "Client deleted"
// @Failure      404 {object} api.Response "Not Found"
// @Security     BearerAuth
// @Router       /clienti/{id} [delete]
func (h *ClientiHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Delete"))

	id, err := parseID(r)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "ID invalid.")
		return
	}

	if err := h.clientiService.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Clientul nu a fost găsit.")
			return
		}
		l.ErrorContext(ctx, "Failed to delete client", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Eroare la ștergerea clientului.")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, api.Response{
		Success: true,
		Message: "Client șters cu succes!",
	})
}

func parseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
