package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"sugurico/internal/models"
)

type premiumRepository struct {
	db *sqlx.DB
}

func NewPremiumRepository(db *sqlx.DB) PremiumRepository {
	return &premiumRepository{db: db}
}

func (r *premiumRepository) GetByUserID(ctx context.Context, userID string) (*models.Premium, error) {
	var premium models.Premium

	err := r.db.GetContext(ctx, &premium, `SELECT id, plan, status, limit_date, updated_at FROM premium WHERE id = $1`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("プレミアム情報の取得に失敗しました: %w", err)
	}

	return &premium, nil
}

func (r *premiumRepository) Upsert(ctx context.Context, premium *models.Premium) error {
	if premium.UpdatedAt.IsZero() {
		premium.UpdatedAt = time.Now()
	}

	query := `
		INSERT INTO premium (id, plan, status, limit_date, updated_at)
		VALUES (:id, :plan, :status, :limit_date, :updated_at)
		ON CONFLICT (id) DO UPDATE
		SET plan = EXCLUDED.plan, status = EXCLUDED.status, limit_date = EXCLUDED.limit_date, updated_at = EXCLUDED.updated_at
	`

	if _, err := r.db.NamedExecContext(ctx, query, premium); err != nil {
		return fmt.Errorf("プレミアム情報の保存に失敗しました: %w", err)
	}

	return nil
}

func (r *premiumRepository) UpdateLimitDate(ctx context.Context, userID string, limitDate time.Time) error {
	return r.update(ctx, `UPDATE premium SET limit_date = $1, updated_at = now() WHERE id = $2`, limitDate, userID)
}

func (r *premiumRepository) UpdateStatus(ctx context.Context, userID, status string) error {
	return r.update(ctx, `UPDATE premium SET status = $1, updated_at = now() WHERE id = $2`, status, userID)
}

func (r *premiumRepository) update(ctx context.Context, query string, args ...interface{}) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("プレミアム情報の更新に失敗しました: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("更新件数の確認に失敗しました: %w", err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
