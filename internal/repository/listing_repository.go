package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"sugurico/internal/models"
)

const (
	summaryColumns = `f.forum_id, f.user_id_auth, f.title, f.text, f.created_at, f.delete_date, u.user_name AS author_name,
		(SELECT fi.image_url FROM forum_images fi WHERE fi.post_id = f.forum_id ORDER BY fi.display_order LIMIT 1) AS thumbnail_url`
	summaryFrom = ` FROM forums f JOIN users u ON u.id = f.user_id_auth`

	visibleCond  = `(f.delete_date IS NULL OR f.delete_date > ?)`
	hiddenCond   = `(f.delete_date IS NOT NULL AND f.delete_date <= ?)`
	notBlockCond = `f.user_id_auth NOT IN (SELECT blocked_user_id FROM blocks WHERE blocker_user_id = ?)`
	keywordCond  = `(f.title ILIKE ? OR f.text ILIKE ?)`
	authorCond   = `(u.user_name ILIKE ? OR u.name ILIKE ?)`
	tagNameCond  = `EXISTS (SELECT 1 FROM tag t JOIN tag_dic d ON d.tag_id = t.tag_id WHERE t.forum_id = f.forum_id AND d.tag_name = ?)`
	tagIDCond    = `EXISTS (SELECT 1 FROM tag t WHERE t.forum_id = f.forum_id AND t.tag_id = ?)`
	excludeCond  = `NOT EXISTS (SELECT 1 FROM tag t JOIN tag_dic d ON d.tag_id = t.tag_id WHERE t.forum_id = f.forum_id AND d.tag_name = ANY(?))`

	userTagsQuery = `SELECT DISTINCT d.tag_id, d.tag_name FROM tag t JOIN tag_dic d ON d.tag_id = t.tag_id JOIN forums f ON f.forum_id = t.forum_id WHERE f.user_id_auth = $1 ORDER BY d.tag_name`
)

const (
	ShowedAll     = "all"
	ShowedPublic  = "public"
	ShowedPrivate = "private"
)

// PostFilter drives the public search. Zero values mean "no condition".
type PostFilter struct {
	ViewerID    string
	Keyword     string
	Tag         string
	Author      string
	ExcludeTags []string
	Since       *time.Time
	SortAsc     bool
	Now         time.Time
	Limit       int
	Offset      int
}

// UserPostFilter drives listings of one author's posts.
type UserPostFilter struct {
	UserID  string
	Keyword string
	TagID   int64
	Since   *time.Time
	SortAsc bool
	Showed  string
	Now     time.Time
	Limit   int
	Offset  int
}

// LatestFilter drives the home feed.
type LatestFilter struct {
	UserID        string
	ExcludeUserID string
	ViewerID      string
	Now           time.Time
	Limit         int
}

type listingRepository struct {
	db *sqlx.DB
}

func NewListingRepository(db *sqlx.DB) ListingRepository {
	return &listingRepository{db: db}
}

// whereBuilder collects AND-ed conditions written with '?' placeholders.
// Queries built from it go through the DB's Rebind before execution.
type whereBuilder struct {
	conds []string
	args  []interface{}
}

func (b *whereBuilder) add(cond string, args ...interface{}) {
	b.conds = append(b.conds, cond)
	b.args = append(b.args, args...)
}

func (b *whereBuilder) where() string {
	if len(b.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.conds, " AND ")
}

func (b *whereBuilder) page(limit, offset int) (string, []interface{}) {
	args := append(append([]interface{}{}, b.args...), limit, offset)
	return " LIMIT ? OFFSET ?", args
}

func orderBy(asc bool) string {
	if asc {
		return " ORDER BY f.created_at ASC, f.forum_id ASC"
	}
	return " ORDER BY f.created_at DESC, f.forum_id DESC"
}

// likePattern wraps a user term for ILIKE, escaping its wildcards.
func likePattern(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(term) + "%"
}

func (r *listingRepository) Search(ctx context.Context, filter PostFilter) ([]models.PostSummary, int, error) {
	var b whereBuilder
	b.add(visibleCond, filter.Now)
	if filter.ViewerID != "" {
		b.add(notBlockCond, filter.ViewerID)
	}
	if filter.Keyword != "" {
		p := likePattern(filter.Keyword)
		b.add(keywordCond, p, p)
	}
	if filter.Tag != "" {
		b.add(tagNameCond, filter.Tag)
	}
	if filter.Author != "" {
		p := likePattern(filter.Author)
		b.add(authorCond, p, p)
	}
	if len(filter.ExcludeTags) > 0 {
		b.add(excludeCond, pq.Array(filter.ExcludeTags))
	}
	if filter.Since != nil {
		b.add(`f.created_at >= ?`, *filter.Since)
	}

	return r.page(ctx, &b, filter.SortAsc, filter.Limit, filter.Offset)
}

func (r *listingRepository) UserPosts(ctx context.Context, filter UserPostFilter) ([]models.PostSummary, int, error) {
	var b whereBuilder
	b.add(`f.user_id_auth = ?`, filter.UserID)
	switch filter.Showed {
	case ShowedPublic:
		b.add(visibleCond, filter.Now)
	case ShowedPrivate:
		b.add(hiddenCond, filter.Now)
	}
	if filter.Keyword != "" {
		p := likePattern(filter.Keyword)
		b.add(keywordCond, p, p)
	}
	if filter.TagID > 0 {
		b.add(tagIDCond, filter.TagID)
	}
	if filter.Since != nil {
		b.add(`f.created_at >= ?`, *filter.Since)
	}

	return r.page(ctx, &b, filter.SortAsc, filter.Limit, filter.Offset)
}

func (r *listingRepository) page(ctx context.Context, b *whereBuilder, asc bool, limit, offset int) ([]models.PostSummary, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, r.db.Rebind(`SELECT COUNT(*)`+summaryFrom+b.where()), b.args...); err != nil {
		return nil, 0, fmt.Errorf("投稿件数の取得に失敗しました: %w", err)
	}

	posts := []models.PostSummary{}
	if total == 0 {
		return posts, 0, nil
	}

	limitClause, args := b.page(limit, offset)
	query := r.db.Rebind(`SELECT ` + summaryColumns + summaryFrom + b.where() + orderBy(asc) + limitClause)
	if err := r.db.SelectContext(ctx, &posts, query, args...); err != nil {
		return nil, 0, fmt.Errorf("投稿一覧の取得に失敗しました: %w", err)
	}

	return posts, total, nil
}

func (r *listingRepository) Latest(ctx context.Context, filter LatestFilter) ([]models.PostSummary, error) {
	var b whereBuilder
	b.add(visibleCond, filter.Now)
	if filter.UserID != "" {
		b.add(`f.user_id_auth = ?`, filter.UserID)
	}
	if filter.ExcludeUserID != "" {
		b.add(`f.user_id_auth <> ?`, filter.ExcludeUserID)
	}
	if filter.ViewerID != "" {
		b.add(notBlockCond, filter.ViewerID)
	}

	limitClause, args := b.page(filter.Limit, 0)
	query := r.db.Rebind(`SELECT ` + summaryColumns + summaryFrom + b.where() + orderBy(false) + limitClause)

	posts := []models.PostSummary{}
	if err := r.db.SelectContext(ctx, &posts, query, args...); err != nil {
		return nil, fmt.Errorf("最新投稿の取得に失敗しました: %w", err)
	}

	return posts, nil
}

func (r *listingRepository) UserTags(ctx context.Context, userID string) ([]models.Tag, error) {
	tags := []models.Tag{}
	if err := r.db.SelectContext(ctx, &tags, userTagsQuery, userID); err != nil {
		return nil, fmt.Errorf("タグ一覧の取得に失敗しました: %w", err)
	}
	return tags, nil
}
