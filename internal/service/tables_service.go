package service

import (
	"context"

	"sugurico/internal/repository"
)

type TablesService interface {
	GetCountTablesDB(ctx context.Context) (int, error)
	Ping(ctx context.Context) error
}

type tablesService struct {
	tablesRepo repository.TablesRepository
	ping       func(ctx context.Context) error
}

// NewTablesService takes the database health check used by /health; nil
// means the process has no database to report on.
func NewTablesService(tablesRepo repository.TablesRepository, ping func(ctx context.Context) error) TablesService {
	return &tablesService{tablesRepo: tablesRepo, ping: ping}
}

func (t *tablesService) GetCountTablesDB(ctx context.Context) (int, error) {
	return t.tablesRepo.CountTablesDB(ctx)
}

func (t *tablesService) Ping(ctx context.Context) error {
	if t.ping == nil {
		return nil
	}
	return t.ping(ctx)
}
