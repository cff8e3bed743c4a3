package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"sugurico/internal/models"
)

const (
	insertForumQuery      = `INSERT INTO forums (user_id_auth, title, text, created_at, delete_date) VALUES ($1, $2, $3, $4, $5) RETURNING forum_id`
	updateForumQuery      = `UPDATE forums SET title = $1, text = $2, delete_date = $3 WHERE forum_id = $4 AND user_id_auth = $5`
	selectForumQuery      = `SELECT forum_id, user_id_auth, title, text, created_at, delete_date FROM forums WHERE forum_id = $1`
	selectTagsByNameQuery = `SELECT tag_id, tag_name FROM tag_dic WHERE tag_name = ANY($1)`
	insertTagDicQuery     = `INSERT INTO tag_dic (tag_name) VALUES ($1) ON CONFLICT (tag_name) DO UPDATE SET tag_name = EXCLUDED.tag_name RETURNING tag_id`
	insertTagLinkQuery    = `INSERT INTO tag (forum_id, tag_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	deleteTagLinksQuery   = `DELETE FROM tag WHERE forum_id = $1`
	selectPostTagsQuery   = `SELECT d.tag_id, d.tag_name FROM tag t JOIN tag_dic d ON d.tag_id = t.tag_id WHERE t.forum_id = $1 ORDER BY d.tag_id`
	insertImageQuery      = `INSERT INTO forum_images (post_id, image_url, object_name, display_order) VALUES ($1, $2, $3, $4) RETURNING image_id`
	selectImagesQuery     = `SELECT image_id, post_id, image_url, object_name, display_order FROM forum_images WHERE post_id = $1 ORDER BY display_order`
	selectObjectNameQuery = `SELECT object_name FROM forum_images WHERE post_id = $1`
	deleteImagesByIDQuery = `DELETE FROM forum_images WHERE post_id = $1 AND image_id = ANY($2) RETURNING object_name`
	deleteImagesQuery     = `DELETE FROM forum_images WHERE post_id = $1`
	maxDisplayOrderQuery  = `SELECT COALESCE(MAX(display_order), 0) FROM forum_images WHERE post_id = $1`
	deleteBookmarksQuery  = `DELETE FROM bookmark WHERE post_id = $1`
	deleteForumQuery      = `DELETE FROM forums WHERE forum_id = $1 AND user_id_auth = $2`
	userObjectNamesQuery  = `SELECT fi.object_name FROM forum_images fi JOIN forums f ON f.forum_id = fi.post_id WHERE f.user_id_auth = $1`
)

type forumRepository struct {
	db *sqlx.DB
}

func NewForumRepository(db *sqlx.DB) ForumRepository {
	return &forumRepository{db: db}
}

func (r *forumRepository) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("トランザクションの開始に失敗しました: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (ロールバック失敗: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("トランザクションのコミットに失敗しました: %w", err)
	}

	return nil
}

// Create inserts the post, its tag links and image rows in one transaction.
// Images get display order 1..n in the given order.
func (r *forumRepository) Create(ctx context.Context, post *models.Post, tagNames []string, images []models.Image) error {
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		err := tx.QueryRowxContext(ctx, insertForumQuery,
			post.UserID, post.Title, post.Text, post.CreatedAt, post.DeleteDate,
		).Scan(&post.ForumID)
		if err != nil {
			return fmt.Errorf("投稿の作成に失敗しました: %w", err)
		}

		tags, err := attachTags(ctx, tx, post.ForumID, tagNames)
		if err != nil {
			return err
		}
		post.Tags = tags

		inserted, err := insertImages(ctx, tx, post.ForumID, 0, images)
		if err != nil {
			return err
		}
		post.Images = inserted

		return nil
	})
}

// Update rewrites the post, replaces its tag links, drops the listed images and
// appends the new ones. It returns the object names of the dropped images.
func (r *forumRepository) Update(ctx context.Context, post *models.Post, tagNames []string, deleteImageIDs []int64, images []models.Image) ([]string, error) {
	var removed []string

	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx, updateForumQuery, post.Title, post.Text, post.DeleteDate, post.ForumID, post.UserID)
		if err != nil {
			return fmt.Errorf("投稿の更新に失敗しました: %w", err)
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("更新件数の確認に失敗しました: %w", err)
		}
		if rowsAffected == 0 {
			return ErrNotFound
		}

		if _, err := tx.ExecContext(ctx, deleteTagLinksQuery, post.ForumID); err != nil {
			return fmt.Errorf("タグの削除に失敗しました: %w", err)
		}
		tags, err := attachTags(ctx, tx, post.ForumID, tagNames)
		if err != nil {
			return err
		}
		post.Tags = tags

		if len(deleteImageIDs) > 0 {
			if err := tx.SelectContext(ctx, &removed, deleteImagesByIDQuery, post.ForumID, pq.Array(deleteImageIDs)); err != nil {
				return fmt.Errorf("画像の削除に失敗しました: %w", err)
			}
		}

		if len(images) > 0 {
			var maxOrder int
			if err := tx.GetContext(ctx, &maxOrder, maxDisplayOrderQuery, post.ForumID); err != nil {
				return fmt.Errorf("表示順の取得に失敗しました: %w", err)
			}
			inserted, err := insertImages(ctx, tx, post.ForumID, maxOrder, images)
			if err != nil {
				return err
			}
			post.Images = inserted
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return removed, nil
}

func (r *forumRepository) GetByID(ctx context.Context, forumID int64) (*models.Post, error) {
	var post models.Post

	err := r.db.GetContext(ctx, &post, selectForumQuery, forumID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("投稿の取得に失敗しました: %w", err)
	}

	post.Tags = []models.Tag{}
	if err := r.db.SelectContext(ctx, &post.Tags, selectPostTagsQuery, forumID); err != nil {
		return nil, fmt.Errorf("タグの取得に失敗しました: %w", err)
	}

	post.Images = []models.Image{}
	if err := r.db.SelectContext(ctx, &post.Images, selectImagesQuery, forumID); err != nil {
		return nil, fmt.Errorf("画像の取得に失敗しました: %w", err)
	}

	return &post, nil
}

// Delete removes the post with its tag links, images and bookmarks. Only the
// owner's post is deleted; anything else is ErrNotFound. The returned object
// names are for the caller to remove from storage after commit.
func (r *forumRepository) Delete(ctx context.Context, forumID int64, ownerID string) ([]string, error) {
	var objectNames []string

	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := tx.SelectContext(ctx, &objectNames, selectObjectNameQuery, forumID); err != nil {
			return fmt.Errorf("画像の取得に失敗しました: %w", err)
		}

		for _, q := range []string{deleteTagLinksQuery, deleteImagesQuery, deleteBookmarksQuery} {
			if _, err := tx.ExecContext(ctx, q, forumID); err != nil {
				return fmt.Errorf("関連データの削除に失敗しました: %w", err)
			}
		}

		result, err := tx.ExecContext(ctx, deleteForumQuery, forumID, ownerID)
		if err != nil {
			return fmt.Errorf("投稿の削除に失敗しました: %w", err)
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("削除件数の確認に失敗しました: %w", err)
		}
		if rowsAffected == 0 {
			return ErrNotFound
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return objectNames, nil
}

func (r *forumRepository) ObjectNamesByUser(ctx context.Context, userID string) ([]string, error) {
	var names []string
	if err := r.db.SelectContext(ctx, &names, userObjectNamesQuery, userID); err != nil {
		return nil, fmt.Errorf("画像の取得に失敗しました: %w", err)
	}
	return names, nil
}

// attachTags links the post to the named tags, creating missing dictionary rows.
func attachTags(ctx context.Context, tx *sqlx.Tx, forumID int64, tagNames []string) ([]models.Tag, error) {
	names := uniqueNames(tagNames)
	if len(names) == 0 {
		return []models.Tag{}, nil
	}

	var existing []models.Tag
	if err := tx.SelectContext(ctx, &existing, selectTagsByNameQuery, pq.Array(names)); err != nil {
		return nil, fmt.Errorf("タグの取得に失敗しました: %w", err)
	}

	ids := make(map[string]int64, len(names))
	for _, tag := range existing {
		ids[tag.TagName] = tag.TagID
	}

	tags := make([]models.Tag, 0, len(names))
	for _, name := range names {
		id, ok := ids[name]
		if !ok {
			if err := tx.QueryRowxContext(ctx, insertTagDicQuery, name).Scan(&id); err != nil {
				return nil, fmt.Errorf("タグの登録に失敗しました: %w", err)
			}
		}

		if _, err := tx.ExecContext(ctx, insertTagLinkQuery, forumID, id); err != nil {
			return nil, fmt.Errorf("タグの紐付けに失敗しました: %w", err)
		}
		tags = append(tags, models.Tag{TagID: id, TagName: name})
	}

	return tags, nil
}

func insertImages(ctx context.Context, tx *sqlx.Tx, forumID int64, startOrder int, images []models.Image) ([]models.Image, error) {
	inserted := make([]models.Image, 0, len(images))
	for i, img := range images {
		img.PostID = forumID
		img.DisplayOrder = startOrder + i + 1

		err := tx.QueryRowxContext(ctx, insertImageQuery,
			img.PostID, img.ImageURL, img.ObjectName, img.DisplayOrder,
		).Scan(&img.ImageID)
		if err != nil {
			return nil, fmt.Errorf("画像の登録に失敗しました: %w", err)
		}
		inserted = append(inserted, img)
	}
	return inserted, nil
}

func uniqueNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}
