package clienti

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/ecoloptim/ecoloptim-api/internal/types"
)

var _ ClientiService = (*ClientiServiceImpl)(nil)

// ClientiService orchestrates the client-record operations.
type ClientiService interface {
	// List returns one page of active clients plus the pagination block.
	List(ctx context.Context, params ListParams) ([]types.Client, types.Pagination, error)

	// GetByID returns types.ErrNotFound for absent or inactive records.
	GetByID(ctx context.Context, id int64) (*types.Client, error)

	// Create inserts a new client with the requesting identity as creator.
	Create(ctx context.Context, req ClientRequest, creatDe int64) (*types.Client, error)

	// Update is a full replacement of the editable fields; omitted optional
	// fields are cleared, not preserved. This mirrors the documented contract.
	Update(ctx context.Context, id int64, req ClientRequest) (*types.Client, error)

	// SoftDelete marks the record inactive; the row is retained.
	SoftDelete(ctx context.Context, id int64) error
}

type ClientiServiceImpl struct {
	logger *slog.Logger
	repo   ClientiRepo
}

func NewClientiService(repo ClientiRepo, logger *slog.Logger) *ClientiServiceImpl {
	return &ClientiServiceImpl{
		logger: logger,
		repo:   repo,
	}
}

func (s *ClientiServiceImpl) List(ctx context.Context, params ListParams) ([]types.Client, types.Pagination, error) {
	params.Normalize()

	clients, err := s.repo.List(ctx, params.Search, params.Limit, params.Offset())
	if err != nil {
		return nil, types.Pagination{}, fmt.Errorf("list clients: %w", err)
	}

	total, err := s.repo.Count(ctx, params.Search)
	if err != nil {
		return nil, types.Pagination{}, fmt.Errorf("count clients: %w", err)
	}

	pagination := types.Pagination{
		Page:  params.Page,
		Limit: params.Limit,
		Total: total,
		Pages: int(math.Ceil(float64(total) / float64(params.Limit))),
	}
	return clients, pagination, nil
}

func (s *ClientiServiceImpl) GetByID(ctx context.Context, id int64) (*types.Client, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ClientiServiceImpl) Create(ctx context.Context, req ClientRequest, creatDe int64) (*types.Client, error) {
	l := s.logger.With(slog.String("method", "Create"))

	if cui, ok := req.cuiCnp(); ok {
		taken, err := s.repo.ExistsActiveCuiCnp(ctx, cui, 0)
		if err != nil {
			return nil, fmt.Errorf("create client: %w", err)
		}
		if taken {
			return nil, types.ErrDuplicateCuiCnp
		}
	}

	client, err := s.repo.Insert(ctx, req, creatDe)
	if err != nil {
		if errors.Is(err, types.ErrDuplicateCuiCnp) {
			return nil, err
		}
		return nil, fmt.Errorf("create client: %w", err)
	}

	l.InfoContext(ctx, "Client created", slog.Int64("client_id", client.ID), slog.Int64("creat_de", creatDe))
	return client, nil
}

func (s *ClientiServiceImpl) Update(ctx context.Context, id int64, req ClientRequest) (*types.Client, error) {
	l := s.logger.With(slog.String("method", "Update"), slog.Int64("client_id", id))

	exists, err := s.repo.ExistsActive(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("update client: %w", err)
	}
	if !exists {
		return nil, types.ErrNotFound
	}

	if cui, ok := req.cuiCnp(); ok {
		taken, err := s.repo.ExistsActiveCuiCnp(ctx, cui, id)
		if err != nil {
			return nil, fmt.Errorf("update client: %w", err)
		}
		if taken {
			return nil, types.ErrDuplicateCuiCnp
		}
	}

	client, err := s.repo.Update(ctx, id, req)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) || errors.Is(err, types.ErrDuplicateCuiCnp) {
			return nil, err
		}
		return nil, fmt.Errorf("update client: %w", err)
	}

	l.InfoContext(ctx, "Client updated")
	return client, nil
}

func (s *ClientiServiceImpl) SoftDelete(ctx context.Context, id int64) error {
	l := s.logger.With(slog.String("method", "SoftDelete"), slog.Int64("client_id", id))

	if err := s.repo.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return types.ErrNotFound
		}
		return fmt.Errorf("soft delete client: %w", err)
	}

	l.InfoContext(ctx, "Client soft deleted")
	return nil
}
