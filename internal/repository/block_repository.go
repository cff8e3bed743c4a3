package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"sugurico/internal/models"
)

const (
	insertBlockQuery = `INSERT INTO blocks (blocker_user_id, blocked_user_id, created_at) VALUES ($1, $2, now()) ON CONFLICT DO NOTHING`
	deleteBlockQuery = `DELETE FROM blocks WHERE blocker_user_id = $1 AND blocked_user_id = $2`
	listBlocksQuery  = `SELECT b.blocked_user_id, u.user_name, b.created_at FROM blocks b JOIN users u ON u.id = b.blocked_user_id WHERE b.blocker_user_id = $1 ORDER BY b.created_at DESC`
)

type blockRepository struct {
	db *sqlx.DB
}

func NewBlockRepository(db *sqlx.DB) BlockRepository {
	return &blockRepository{db: db}
}

func (r *blockRepository) Block(ctx context.Context, blockerID, blockedID string) error {
	if _, err := r.db.ExecContext(ctx, insertBlockQuery, blockerID, blockedID); err != nil {
		return fmt.Errorf("ブロックに失敗しました: %w", err)
	}
	return nil
}

func (r *blockRepository) Unblock(ctx context.Context, blockerID, blockedID string) error {
	result, err := r.db.ExecContext(ctx, deleteBlockQuery, blockerID, blockedID)
	if err != nil {
		return fmt.Errorf("ブロックの解除に失敗しました: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("削除件数の確認に失敗しました: %w", err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *blockRepository) List(ctx context.Context, blockerID string) ([]models.BlockedUser, error) {
	users := []models.BlockedUser{}
	if err := r.db.SelectContext(ctx, &users, listBlocksQuery, blockerID); err != nil {
		return nil, fmt.Errorf("ブロックリストの取得に失敗しました: %w", err)
	}
	return users, nil
}
