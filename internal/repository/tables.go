package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const countTablesQuery = `SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = 'public'`

type tablesRepository struct {
	db *sqlx.DB
}

func NewTablesRepository(db *sqlx.DB) TablesRepository {
	return &tablesRepository{db: db}
}

func (r *tablesRepository) CountTablesDB(ctx context.Context) (int, error) {
	var count int

	if err := r.db.GetContext(ctx, &count, countTablesQuery); err != nil {
		return 0, fmt.Errorf("テーブル数の取得に失敗しました: %w", err)
	}

	return count, nil
}
