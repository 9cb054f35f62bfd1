package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/ecoloptim/ecoloptim-api/internal/api"
	"github.com/ecoloptim/ecoloptim-api/internal/types"
)

type AuthHandler struct {
	authService AuthService
	logger      *slog.Logger
}

func NewAuthHandler(authService AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		logger:      logger,
		authService: authService,
	}
}

// Register godoc
// @Summary      Register
// @Description  Creates a new account and returns its public fields plus a session token.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Success      201 {object} api.Response "Account created"
// @Failure      400 {object} api.Response "Validation failed or duplicate username/email"
// @Failure      500 {object} api.Response "Internal Server Error"
// @Router       /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Register"))

	var req RegisterRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if errs := api.ValidateStruct(req); errs != nil {
		api.ValidationErrorResponse(w, r, errs)
		return
	}

	resp, err := h.authService.Register(ctx, req)
	if err != nil {
		if errors.Is(err, types.ErrConflict) {
			api.ErrorResponse(w, r, http.StatusBadRequest, "Username sau email există deja.")
			return
		}
		l.ErrorContext(ctx, "Register failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Eroare la crearea contului.")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusCreated, api.Response{
		Success: true,
		Message: "Cont creat cu succes!",
		Data:    resp,
	})
}

// Login godoc
// @Summary      Login
// @Description  Authenticates an active user and returns a session token.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Success      200 {object} api.Response "Authenticated"
// @Failure      400 {object} api.Response "Validation failed"
// @Failure      401 {object} api.Response "Invalid credentials"
// @Failure      500 {object} api.Response "Internal Server Error"
// @Router       /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Login"))

	var req LoginRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if errs := api.ValidateStruct(req); errs != nil {
		api.ValidationErrorResponse(w, r, errs)
		return
	}

	resp, err := h.authService.Login(ctx, req.Username, req.Parola)
	if err != nil {
		if errors.Is(err, types.ErrUnauthenticated) {
			api.ErrorResponse(w, r, http.StatusUnauthorized, "Username sau parolă incorecte.")
			return
		}
		l.ErrorContext(ctx, "Login failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Eroare la autentificare.")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, api.Response{
		Success: true,
		Message: "Autentificare reușită!",
		Data:    resp,
	})
}

// GetProfile godoc
// @Summary      Get Profile
// @Description  Retrieves the authenticated user's profile information.
// @Tags         Auth
// @Produce      json
// @Success      200 {object} api.Response "User Profile"
// @Failure      401 {object} api.Response "Unauthorized"
// @Failure      404 {object} api.Response "User Not Found"
// @Failure      500 {object} api.Response "Internal Server Error"
// @Security     BearerAuth
// @Router       /auth/profile [get]
func (h *AuthHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "GetProfile"))

	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		l.ErrorContext(ctx, "Claims not found in context")
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Acces interzis. Token lipsește.")
		return
	}

	profile, err := h.authService.GetProfile(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "User nu a fost găsit.")
			return
		}
		l.ErrorContext(ctx, "Failed to get profile", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Eroare la obținerea profilului.")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, api.Response{
		Success: true,
		Data:    profile,
	})
}
