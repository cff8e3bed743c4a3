package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"sugurico/internal/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User, password string) error
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
	GetUserByLoginID(ctx context.Context, loginID string) (*models.User, error)
	GetUserByMail(ctx context.Context, mail string) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, userID, password string) error
	DeleteUser(ctx context.Context, userID string) error
	UpdateRefreshToken(ctx context.Context, userID, refreshToken string, expiryTime time.Time) error
	GetUserByRefreshToken(ctx context.Context, refreshToken string) (*models.User, error)
}

type PremiumRepository interface {
	GetByUserID(ctx context.Context, userID string) (*models.Premium, error)
	Upsert(ctx context.Context, premium *models.Premium) error
	UpdateLimitDate(ctx context.Context, userID string, limitDate time.Time) error
	UpdateStatus(ctx context.Context, userID, status string) error
}

type ForumRepository interface {
	Create(ctx context.Context, post *models.Post, tagNames []string, images []models.Image) error
	Update(ctx context.Context, post *models.Post, tagNames []string, deleteImageIDs []int64, images []models.Image) ([]string, error)
	GetByID(ctx context.Context, forumID int64) (*models.Post, error)
	Delete(ctx context.Context, forumID int64, ownerID string) ([]string, error)
	ObjectNamesByUser(ctx context.Context, userID string) ([]string, error)
}

type ListingRepository interface {
	Search(ctx context.Context, filter PostFilter) ([]models.PostSummary, int, error)
	UserPosts(ctx context.Context, filter UserPostFilter) ([]models.PostSummary, int, error)
	Latest(ctx context.Context, filter LatestFilter) ([]models.PostSummary, error)
	UserTags(ctx context.Context, userID string) ([]models.Tag, error)
}

type BookmarkRepository interface {
	Add(ctx context.Context, userID string, forumID int64) error
	Remove(ctx context.Context, userID string, forumID int64) error
	List(ctx context.Context, userID string, now time.Time, limit, offset int) ([]models.PostSummary, int, error)
}

type BlockRepository interface {
	Block(ctx context.Context, blockerID, blockedID string) error
	Unblock(ctx context.Context, blockerID, blockedID string) error
	List(ctx context.Context, blockerID string) ([]models.BlockedUser, error)
}

type ExcludeTagsRepository interface {
	Get(ctx context.Context, userID string) ([]string, error)
	Save(ctx context.Context, userID string, tags []string) error
}

type TablesRepository interface {
	CountTablesDB(ctx context.Context) (int, error)
}

type Repository struct {
	User        UserRepository
	Premium     PremiumRepository
	Forum       ForumRepository
	Listing     ListingRepository
	Bookmark    BookmarkRepository
	Block       BlockRepository
	ExcludeTags ExcludeTagsRepository
	Tables      TablesRepository
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{
		User:        NewUserRepository(db),
		Premium:     NewPremiumRepository(db),
		Forum:       NewForumRepository(db),
		Listing:     NewListingRepository(db),
		Bookmark:    NewBookmarkRepository(db),
		Block:       NewBlockRepository(db),
		ExcludeTags: NewExcludeTagsRepository(db),
		Tables:      NewTablesRepository(db),
	}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
