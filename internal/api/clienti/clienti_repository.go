package clienti

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ecoloptim/ecoloptim-api/app/observability/metrics"
	"github.com/ecoloptim/ecoloptim-api/internal/types"
)

var _ ClientiRepo = (*PostgresClientiRepo)(nil)

// PgxPool is the subset of pgxpool.Pool the repository needs. Satisfied by
// pgxmock in tests.
type PgxPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// ClientiRepo defines the contract for client-record persistence. All reads
// and uniqueness checks are scoped to activ = true.
type ClientiRepo interface {
	// List returns one page of active clients, newest first, each enriched
	// with the creator's username. An empty search returns everything.
	List(ctx context.Context, search string, limit, offset int) ([]types.Client, error)

	// Count returns the total number of rows matching the same predicate as
	// List, without pagination.
	Count(ctx context.Context, search string) (int, error)

	// GetByID returns types.ErrNotFound for absent or inactive rows.
	GetByID(ctx context.Context, id int64) (*types.Client, error)

	// ExistsActive reports whether an active row with this id exists.
	ExistsActive(ctx context.Context, id int64) (bool, error)

	// ExistsActiveCuiCnp checks the active-only uniqueness scope for a tax id.
	// excludeID > 0 ignores that row (the record being updated).
	ExistsActiveCuiCnp(ctx context.Context, cuiCnp string, excludeID int64) (bool, error)

	// Insert creates the row and returns it in full. Returns
	// types.ErrDuplicateCuiCnp when the partial unique index rejects the tax id.
	Insert(ctx context.Context, req ClientRequest, creatDe int64) (*types.Client, error)

	// Update rewrites every editable column and refreshes actualizat_la.
	// Returns types.ErrNotFound when no active row matches and
	// types.ErrDuplicateCuiCnp on a tax id collision.
	Update(ctx context.Context, id int64, req ClientRequest) (*types.Client, error)

	// SoftDelete flips activ to false and refreshes actualizat_la. Returns
	// types.ErrNotFound when no active row matches.
	SoftDelete(ctx context.Context, id int64) error
}

type PostgresClientiRepo struct {
	logger *slog.Logger
	pgpool PgxPool
}

func NewPostgresClientiRepo(pgpool PgxPool, logger *slog.Logger) *PostgresClientiRepo {
	return &PostgresClientiRepo{
		logger: logger,
		pgpool: pgpool,
	}
}

const uniqueViolationCode = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

const clientColumns = `c.id, c.nume, c.tip_client, c.cui_cnp, c.adresa, c.localitate, c.judet,
        c.cod_postal, c.telefon, c.email, c.persoana_contact, c.observatii,
        c.creat_de, c.activ, c.creat_la, c.actualizat_la`

// Same column list without the alias, for RETURNING clauses.
const bareClientColumns = `id, nume, tip_client, cui_cnp, adresa, localitate, judet,
        cod_postal, telefon, email, persoana_contact, observatii,
        creat_de, activ, creat_la, actualizat_la`

func scanClient(row pgx.Row, withUsername bool) (*types.Client, error) {
	var c types.Client
	dest := []any{
		&c.ID, &c.Nume, &c.TipClient, &c.CuiCnp, &c.Adresa, &c.Localitate, &c.Judet,
		&c.CodPostal, &c.Telefon, &c.Email, &c.PersoanaContact, &c.Observatii,
		&c.CreatDe, &c.Activ, &c.CreatLa, &c.ActualizatLa,
	}
	if withUsername {
		dest = append(dest, &c.CreatDeUsername)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *PostgresClientiRepo) List(ctx context.Context, search string, limit, offset int) ([]types.Client, error) {
	ctx, span := otel.Tracer("ClientiRepo").Start(ctx, "List", trace.WithAttributes(
		attribute.String("db.sql.table", "clienti"),
		attribute.Int("limit", limit),
		attribute.Int("offset", offset),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "List"))
	start := time.Now()

	query := `
        SELECT ` + clientColumns + `, u.username AS creat_de_username
        FROM clienti c
        LEFT JOIN utilizatori u ON c.creat_de = u.id
        WHERE c.activ = true`

	args := []any{}
	if search != "" {
		query += ` AND (
            c.nume ILIKE $1 OR
            c.cui_cnp ILIKE $1 OR
            c.email ILIKE $1 OR
            c.telefon ILIKE $1
        )`
		args = append(args, "%"+search+"%")
	}

	// No secondary tie-break key: ordering among equal timestamps is
	// unspecified.
	query += fmt.Sprintf(" ORDER BY c.creat_la DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pgpool.Query(ctx, query, args...)
	if err != nil {
		l.ErrorContext(ctx, "Failed to query clients", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Database query failed")
		metrics.Get().DbQueryErrorsTotal.Add(ctx, 1)
		return nil, fmt.Errorf("failed to query clients: %w", err)
	}
	defer rows.Close()

	var clients []types.Client
	for rows.Next() {
		c, err := scanClient(rows, true)
		if err != nil {
			return nil, fmt.Errorf("failed to scan client row: %w", err)
		}
		clients = append(clients, *c)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("error iterating client rows: %w", err)
	}

	metrics.Get().DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds())
	span.SetAttributes(attribute.Int("results.count", len(clients)))
	span.SetStatus(codes.Ok, "Clients retrieved")
	return clients, nil
}

func (r *PostgresClientiRepo) Count(ctx context.Context, search string) (int, error) {
	ctx, span := otel.Tracer("ClientiRepo").Start(ctx, "Count", trace.WithAttributes(
		attribute.String("db.sql.table", "clienti"),
	))
	defer span.End()

	query := "SELECT COUNT(*) FROM clienti WHERE activ = true"
	args := []any{}
	if search != "" {
		query += " AND (nume ILIKE $1 OR cui_cnp ILIKE $1 OR email ILIKE $1 OR telefon ILIKE $1)"
		args = append(args, "%"+search+"%")
	}

	var total int
	if err := r.pgpool.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Database query failed")
		metrics.Get().DbQueryErrorsTotal.Add(ctx, 1)
		return 0, fmt.Errorf("failed to count clients: %w", err)
	}
	return total, nil
}

func (r *PostgresClientiRepo) GetByID(ctx context.Context, id int64) (*types.Client, error) {
	ctx, span := otel.Tracer("ClientiRepo").Start(ctx, "GetByID", trace.WithAttributes(
		attribute.String("db.sql.table", "clienti"),
		attribute.Int64("client.id", id),
	))
	defer span.End()

	query := `
        SELECT ` + clientColumns + `, u.username AS creat_de_username
        FROM clienti c
        LEFT JOIN utilizatori u ON c.creat_de = u.id
        WHERE c.id = $1 AND c.activ = true`

	c, err := scanClient(r.pgpool.QueryRow(ctx, query, id), true)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "Database query failed")
		return nil, fmt.Errorf("failed to query client %d: %w", id, err)
	}
	return c, nil
}

func (r *PostgresClientiRepo) ExistsActive(ctx context.Context, id int64) (bool, error) {
	var found int64
	err := r.pgpool.QueryRow(ctx,
		"SELECT id FROM clienti WHERE id = $1 AND activ = true", id).Scan(&found)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check client existence: %w", err)
	}
	return true, nil
}

func (r *PostgresClientiRepo) ExistsActiveCuiCnp(ctx context.Context, cuiCnp string, excludeID int64) (bool, error) {
	query := "SELECT id FROM clienti WHERE cui_cnp = $1 AND activ = true"
	args := []any{cuiCnp}
	if excludeID > 0 {
		query += " AND id != $2"
		args = append(args, excludeID)
	}

	var found int64
	err := r.pgpool.QueryRow(ctx, query, args...).Scan(&found)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check cui_cnp uniqueness: %w", err)
	}
	return true, nil
}

func (r *PostgresClientiRepo) Insert(ctx context.Context, req ClientRequest, creatDe int64) (*types.Client, error) {
	ctx, span := otel.Tracer("ClientiRepo").Start(ctx, "Insert", trace.WithAttributes(
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.sql.table", "clienti"),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "Insert"))

	tip := req.TipClient
	if tip == "" {
		tip = types.TipClientPersoanaFizica
	}

	query := `
        INSERT INTO clienti (
            nume, tip_client, cui_cnp, adresa, localitate, judet,
            cod_postal, telefon, email, persoana_contact, observatii, creat_de
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
        RETURNING ` + bareClientColumns

	c, err := scanClient(r.pgpool.QueryRow(ctx, query,
		req.Nume, tip, req.CuiCnp, req.Adresa, req.Localitate, req.Judet,
		req.CodPostal, req.Telefon, req.Email, req.PersoanaContact, req.Observatii, creatDe,
	), false)
	if err != nil {
		if isUniqueViolation(err) {
			// The partial unique index is the authority; concurrent creates
			// with the same tax id cannot both land.
			return nil, types.ErrDuplicateCuiCnp
		}
		l.ErrorContext(ctx, "Failed to insert client", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Database insert failed")
		metrics.Get().DbQueryErrorsTotal.Add(ctx, 1)
		return nil, fmt.Errorf("failed to insert client: %w", err)
	}
	return c, nil
}

func (r *PostgresClientiRepo) Update(ctx context.Context, id int64, req ClientRequest) (*types.Client, error) {
	ctx, span := otel.Tracer("ClientiRepo").Start(ctx, "Update", trace.WithAttributes(
		attribute.String("db.operation", "UPDATE"),
		attribute.String("db.sql.table", "clienti"),
		attribute.Int64("client.id", id),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "Update"), slog.Int64("client_id", id))

	tip := req.TipClient
	if tip == "" {
		tip = types.TipClientPersoanaFizica
	}

	// Full replacement: omitted optional fields arrive as nil and clear the
	// column.
	query := `
        UPDATE clienti SET
            nume = $1,
            tip_client = $2,
            cui_cnp = $3,
            adresa = $4,
            localitate = $5,
            judet = $6,
            cod_postal = $7,
            telefon = $8,
            email = $9,
            persoana_contact = $10,
            observatii = $11,
            actualizat_la = CURRENT_TIMESTAMP
        WHERE id = $12 AND activ = true
        RETURNING ` + bareClientColumns

	c, err := scanClient(r.pgpool.QueryRow(ctx, query,
		req.Nume, tip, req.CuiCnp, req.Adresa, req.Localitate, req.Judet,
		req.CodPostal, req.Telefon, req.Email, req.PersoanaContact, req.Observatii, id,
	), false)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrNotFound
		}
		if isUniqueViolation(err) {
			return nil, types.ErrDuplicateCuiCnp
		}
		l.ErrorContext(ctx, "Failed to update client", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Database update failed")
		metrics.Get().DbQueryErrorsTotal.Add(ctx, 1)
		return nil, fmt.Errorf("failed to update client %d: %w", id, err)
	}
	return c, nil
}

func (r *PostgresClientiRepo) SoftDelete(ctx context.Context, id int64) error {
	ctx, span := otel.Tracer("ClientiRepo").Start(ctx, "SoftDelete", trace.WithAttributes(
		attribute.String("db.operation", "UPDATE"),
		attribute.String("db.sql.table", "clienti"),
		attribute.Int64("client.id", id),
	))
	defer span.End()

	tag, err := r.pgpool.Exec(ctx,
		"UPDATE clienti SET activ = false, actualizat_la = CURRENT_TIMESTAMP WHERE id = $1 AND activ = true",
		id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Database update failed")
		metrics.Get().DbQueryErrorsTotal.Add(ctx, 1)
		return fmt.Errorf("failed to soft delete client %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return types.ErrNotFound
	}
	return nil
}
