package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const (
	selectExcludeTagsQuery = `SELECT exclude_tags FROM user_exclude_tags WHERE user_id = $1`
	upsertExcludeTagsQuery = `INSERT INTO user_exclude_tags (user_id, exclude_tags, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (user_id) DO UPDATE SET exclude_tags = EXCLUDED.exclude_tags, updated_at = EXCLUDED.updated_at`
)

type excludeTagsRepository struct {
	db *sqlx.DB
}

func NewExcludeTagsRepository(db *sqlx.DB) ExcludeTagsRepository {
	return &excludeTagsRepository{db: db}
}

// Get returns the saved exclusion list; a user who never saved one has an empty list.
func (r *excludeTagsRepository) Get(ctx context.Context, userID string) ([]string, error) {
	var tags pq.StringArray

	err := r.db.QueryRowxContext(ctx, selectExcludeTagsQuery, userID).Scan(&tags)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("除外タグの取得に失敗しました: %w", err)
	}

	if tags == nil {
		return []string{}, nil
	}
	return []string(tags), nil
}

func (r *excludeTagsRepository) Save(ctx context.Context, userID string, tags []string) error {
	if tags == nil {
		tags = []string{}
	}
	if _, err := r.db.ExecContext(ctx, upsertExcludeTagsQuery, userID, pq.Array(tags)); err != nil {
		return fmt.Errorf("除外タグの保存に失敗しました: %w", err)
	}
	return nil
}
