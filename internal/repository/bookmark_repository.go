package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"sugurico/internal/models"
)

const (
	insertBookmarkQuery = `INSERT INTO bookmark (user_id, post_id, created_at) VALUES ($1, $2, now()) ON CONFLICT DO NOTHING`
	deleteBookmarkQuery = `DELETE FROM bookmark WHERE user_id = $1 AND post_id = $2`
	bookmarkFrom        = ` FROM bookmark b JOIN forums f ON f.forum_id = b.post_id JOIN users u ON u.id = f.user_id_auth
		WHERE b.user_id = $1 AND (f.delete_date IS NULL OR f.delete_date > $2 OR f.user_id_auth = $1)`
	countBookmarksQuery = `SELECT COUNT(*)` + bookmarkFrom
	listBookmarksQuery  = `SELECT ` + summaryColumns + bookmarkFrom + ` ORDER BY b.created_at DESC LIMIT $3 OFFSET $4`
)

type bookmarkRepository struct {
	db *sqlx.DB
}

func NewBookmarkRepository(db *sqlx.DB) BookmarkRepository {
	return &bookmarkRepository{db: db}
}

func (r *bookmarkRepository) Add(ctx context.Context, userID string, forumID int64) error {
	if _, err := r.db.ExecContext(ctx, insertBookmarkQuery, userID, forumID); err != nil {
		return fmt.Errorf("ブックマークの登録に失敗しました: %w", err)
	}
	return nil
}

func (r *bookmarkRepository) Remove(ctx context.Context, userID string, forumID int64) error {
	if _, err := r.db.ExecContext(ctx, deleteBookmarkQuery, userID, forumID); err != nil {
		return fmt.Errorf("ブックマークの解除に失敗しました: %w", err)
	}
	return nil
}

// List returns the user's bookmarked posts, newest bookmark first. Posts that
// have expired stay out unless the user wrote them.
func (r *bookmarkRepository) List(ctx context.Context, userID string, now time.Time, limit, offset int) ([]models.PostSummary, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, countBookmarksQuery, userID, now); err != nil {
		return nil, 0, fmt.Errorf("ブックマーク件数の取得に失敗しました: %w", err)
	}

	posts := []models.PostSummary{}
	if total == 0 {
		return posts, 0, nil
	}

	if err := r.db.SelectContext(ctx, &posts, listBookmarksQuery, userID, now, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("ブックマーク一覧の取得に失敗しました: %w", err)
	}

	return posts, total, nil
}
