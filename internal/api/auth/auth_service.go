package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/ecoloptim/ecoloptim-api/app/observability/metrics"
	"github.com/ecoloptim/ecoloptim-api/config"
	"github.com/ecoloptim/ecoloptim-api/internal/types"
)

var _ AuthService = (*AuthServiceImpl)(nil)

// AuthService orchestrates registration, login and profile retrieval.
type AuthService interface {
	// Register creates a new identity and returns its public fields plus a
	// session token. Returns types.ErrConflict when the username or email is
	// taken (active or not; the two causes are not distinguished).
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)

	// Login authenticates an active user. "No such user" and "wrong password"
	// both return types.ErrUnauthenticated so callers cannot enumerate
	// accounts.
	Login(ctx context.Context, username, parola string) (*AuthResponse, error)

	// GetProfile looks up the user behind a verified token payload.
	GetProfile(ctx context.Context, userID int64) (*types.UserProfile, error)
}

type AuthServiceImpl struct {
	logger *slog.Logger
	repo   AuthRepo
	jwtCfg config.JWTConfig
}

func NewAuthService(repo AuthRepo, jwtCfg config.JWTConfig, logger *slog.Logger) *AuthServiceImpl {
	return &AuthServiceImpl{
		logger: logger,
		repo:   repo,
		jwtCfg: jwtCfg,
	}
}

func (s *AuthServiceImpl) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	l := s.logger.With(slog.String("method", "Register"), slog.String("username", req.Username))
	metrics.Get().RegisterRequestsTotal.Add(ctx, 1)

	taken, err := s.repo.ExistsByUsernameOrEmail(ctx, req.Username, req.Email)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	if taken {
		l.WarnContext(ctx, "Username or email already taken")
		return nil, types.ErrConflict
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Parola), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	rol := req.Rol
	if rol == "" {
		rol = types.RoleUser
	}

	user, err := s.repo.InsertUser(ctx, req.Username, req.Email, string(hash), req.NumeComplet, req.Telefon, rol)
	if err != nil {
		if errors.Is(err, types.ErrConflict) {
			return nil, types.ErrConflict
		}
		return nil, fmt.Errorf("register: %w", err)
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	l.InfoContext(ctx, "User registered", slog.Int64("user_id", user.ID))
	return &AuthResponse{User: user.Public(), Token: token}, nil
}

func (s *AuthServiceImpl) Login(ctx context.Context, username, parola string) (*AuthResponse, error) {
	l := s.logger.With(slog.String("method", "Login"))
	metrics.Get().LoginRequestsTotal.Add(ctx, 1)

	user, err := s.repo.GetActiveByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			// Same error as a wrong password: do not reveal whether the
			// username exists.
			return nil, types.ErrUnauthenticated
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.ParolaHash), []byte(parola)); err != nil {
		l.WarnContext(ctx, "Password mismatch", slog.Int64("user_id", user.ID))
		return nil, types.ErrUnauthenticated
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	l.InfoContext(ctx, "User logged in", slog.Int64("user_id", user.ID))
	return &AuthResponse{User: user.Public(), Token: token}, nil
}

func (s *AuthServiceImpl) GetProfile(ctx context.Context, userID int64) (*types.UserProfile, error) {
	profile, err := s.repo.GetProfileByID(ctx, userID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return profile, nil
}

// generateToken issues a signed HS256 session token carrying id, username and
// role. Validity window comes from config (7 days).
func (s *AuthServiceImpl) generateToken(user *types.User) (string, error) {
	now := time.Now()
	claims := types.Claims{
		UserID:   user.ID,
		Username: user.Username,
		Rol:      user.Rol,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.jwtCfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtCfg.TokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtCfg.SecretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
