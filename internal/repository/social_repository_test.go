package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookmarkRepository(t *testing.T) {
	sqlxDB, mock := newMockDB(t)
	repo := NewBookmarkRepository(sqlxDB)
	ctx := context.Background()
	now := time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC)

	t.Run("登録と解除", func(t *testing.T) {
		mock.ExpectExec(insertBookmarkQuery).WithArgs("u-1", int64(5)).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(deleteBookmarkQuery).WithArgs("u-1", int64(5)).WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Add(ctx, "u-1", 5))
		require.NoError(t, repo.Remove(ctx, "u-1", 5))
	})

	t.Run("一覧", func(t *testing.T) {
		mock.ExpectQuery(countBookmarksQuery).WithArgs("u-1", now).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectQuery(listBookmarksQuery).WithArgs("u-1", now, 10, 0).
			WillReturnRows(sqlmock.NewRows(summaryRowColumns).
				AddRow(int64(5), "u-2", "タイトル", "本文", now, nil, "hanako", nil))

		posts, total, err := repo.List(ctx, "u-1", now, 10, 0)

		require.NoError(t, err)
		assert.Equal(t, 1, total)
		assert.Equal(t, int64(5), posts[0].ForumID)
	})

	t.Run("空の一覧", func(t *testing.T) {
		mock.ExpectQuery(countBookmarksQuery).WithArgs("u-1", now).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		posts, total, err := repo.List(ctx, "u-1", now, 10, 0)

		require.NoError(t, err)
		assert.Zero(t, total)
		assert.Empty(t, posts)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBlockRepository(t *testing.T) {
	sqlxDB, mock := newMockDB(t)
	repo := NewBlockRepository(sqlxDB)
	ctx := context.Background()
	now := time.Now()

	mock.ExpectExec(insertBlockQuery).WithArgs("me", "troll").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(listBlocksQuery).WithArgs("me").
		WillReturnRows(sqlmock.NewRows([]string{"blocked_user_id", "user_name", "created_at"}).AddRow("troll", "荒らし", now))
	mock.ExpectExec(deleteBlockQuery).WithArgs("me", "troll").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(deleteBlockQuery).WithArgs("me", "troll").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Block(ctx, "me", "troll"))

	users, err := repo.List(ctx, "me")
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "荒らし", users[0].UserName)

	require.NoError(t, repo.Unblock(ctx, "me", "troll"))
	assert.ErrorIs(t, repo.Unblock(ctx, "me", "troll"), ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExcludeTagsRepository(t *testing.T) {
	sqlxDB, mock := newMockDB(t)
	repo := NewExcludeTagsRepository(sqlxDB)
	ctx := context.Background()

	mock.ExpectQuery(selectExcludeTagsQuery).WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows([]string{"exclude_tags"}).AddRow(`{ネタバレ,ホラー}`))
	mock.ExpectQuery(selectExcludeTagsQuery).WithArgs("u-2").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(upsertExcludeTagsQuery).WithArgs("u-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	tags, err := repo.Get(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"ネタバレ", "ホラー"}, tags)

	tags, err = repo.Get(ctx, "u-2")
	require.NoError(t, err)
	assert.Equal(t, []string{}, tags)

	require.NoError(t, repo.Save(ctx, "u-1", nil))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTablesRepository_CountTablesDB(t *testing.T) {
	sqlxDB, mock := newMockDB(t)
	repo := NewTablesRepository(sqlxDB)

	mock.ExpectQuery(countTablesQuery).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(9))

	count, err := repo.CountTablesDB(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 9, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
