package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ecoloptim/ecoloptim-api/internal/types"
)

var _ AuthRepo = (*PostgresAuthRepo)(nil)

// PgxPool is the subset of pgxpool.Pool the repository needs. Satisfied by
// pgxmock in tests.
type PgxPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// AuthRepo defines the contract for identity persistence.
type AuthRepo interface {
	// ExistsByUsernameOrEmail checks the global uniqueness scope: active and
	// inactive rows alike.
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)

	// InsertUser creates the identity row and returns it with the generated
	// id and creation timestamp. Returns types.ErrConflict when the unique
	// indexes on username/email reject the insert.
	InsertUser(ctx context.Context, username, email, parolaHash, numeComplet string, telefon *string, rol string) (*types.User, error)

	// GetActiveByUsername returns types.ErrNotFound when no active row
	// matches.
	GetActiveByUsername(ctx context.Context, username string) (*types.User, error)

	// GetProfileByID returns types.ErrNotFound when the user no longer exists.
	GetProfileByID(ctx context.Context, id int64) (*types.UserProfile, error)
}

type PostgresAuthRepo struct {
	logger *slog.Logger
	pgpool PgxPool
}

func NewPostgresAuthRepo(pgpool PgxPool, logger *slog.Logger) *PostgresAuthRepo {
	return &PostgresAuthRepo{
		logger: logger,
		pgpool: pgpool,
	}
}

const uniqueViolationCode = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

func (r *PostgresAuthRepo) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	ctx, span := otel.Tracer("AuthRepo").Start(ctx, "ExistsByUsernameOrEmail", trace.WithAttributes(
		attribute.String("db.sql.table", "utilizatori"),
	))
	defer span.End()

	var id int64
	err := r.pgpool.QueryRow(ctx,
		"SELECT id FROM utilizatori WHERE username = $1 OR email = $2",
		username, email).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "Database query failed")
		return false, fmt.Errorf("failed to check username/email uniqueness: %w", err)
	}
	return true, nil
}

func (r *PostgresAuthRepo) InsertUser(ctx context.Context, username, email, parolaHash, numeComplet string, telefon *string, rol string) (*types.User, error) {
	ctx, span := otel.Tracer("AuthRepo").Start(ctx, "InsertUser", trace.WithAttributes(
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.sql.table", "utilizatori"),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "InsertUser"))

	var user types.User
	err := r.pgpool.QueryRow(ctx,
		`INSERT INTO utilizatori (username, email, parola_hash, nume_complet, telefon, rol)
         VALUES ($1, $2, $3, $4, $5, $6)
         RETURNING id, username, email, rol, nume_complet, telefon, activ, creat_la`,
		username, email, parolaHash, numeComplet, telefon, rol,
	).Scan(&user.ID, &user.Username, &user.Email, &user.Rol, &user.NumeComplet, &user.Telefon, &user.Activ, &user.CreatLa)
	if err != nil {
		if isUniqueViolation(err) {
			// Two concurrent registrations can both pass the eager check; the
			// unique indexes are the authority.
			return nil, types.ErrConflict
		}
		l.ErrorContext(ctx, "Failed to insert user", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Database insert failed")
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}
	return &user, nil
}

func (r *PostgresAuthRepo) GetActiveByUsername(ctx context.Context, username string) (*types.User, error) {
	ctx, span := otel.Tracer("AuthRepo").Start(ctx, "GetActiveByUsername", trace.WithAttributes(
		attribute.String("db.sql.table", "utilizatori"),
	))
	defer span.End()

	var user types.User
	err := r.pgpool.QueryRow(ctx,
		`SELECT id, username, email, parola_hash, nume_complet, telefon, rol, activ, creat_la
         FROM utilizatori
         WHERE username = $1 AND activ = true`,
		username,
	).Scan(&user.ID, &user.Username, &user.Email, &user.ParolaHash, &user.NumeComplet, &user.Telefon, &user.Rol, &user.Activ, &user.CreatLa)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "Database query failed")
		return nil, fmt.Errorf("failed to query user by username: %w", err)
	}
	return &user, nil
}

func (r *PostgresAuthRepo) GetProfileByID(ctx context.Context, id int64) (*types.UserProfile, error) {
	ctx, span := otel.Tracer("AuthRepo").Start(ctx, "GetProfileByID", trace.WithAttributes(
		attribute.String("db.sql.table", "utilizatori"),
		attribute.Int64("user.id", id),
	))
	defer span.End()

	var profile types.UserProfile
	err := r.pgpool.QueryRow(ctx,
		`SELECT id, username, email, rol, nume_complet, telefon, creat_la
         FROM utilizatori
         WHERE id = $1`,
		id,
	).Scan(&profile.ID, &profile.Username, &profile.Email, &profile.Rol, &profile.NumeComplet, &profile.Telefon, &profile.CreatLa)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "Database query failed")
		return nil, fmt.Errorf("failed to query user profile: %w", err)
	}
	return &profile, nil
}
