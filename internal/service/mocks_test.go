package service

import (
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"

	"sugurico/internal/models"
	"sugurico/internal/repository"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) CreateUser(ctx context.Context, user *models.User, password string) error {
	args := m.Called(ctx, user, password)
	return args.Error(0)
}

func (m *mockUserRepo) user(args mock.Arguments) (*models.User, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserRepo) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	return m.user(m.Called(ctx, userID))
}

func (m *mockUserRepo) GetUserByLoginID(ctx context.Context, loginID string) (*models.User, error) {
	return m.user(m.Called(ctx, loginID))
}

func (m *mockUserRepo) GetUserByMail(ctx context.Context, mail string) (*models.User, error) {
	return m.user(m.Called(ctx, mail))
}

func (m *mockUserRepo) UpdateUser(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserRepo) UpdatePassword(ctx context.Context, userID, password string) error {
	return m.Called(ctx, userID, password).Error(0)
}

func (m *mockUserRepo) DeleteUser(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *mockUserRepo) UpdateRefreshToken(ctx context.Context, userID, refreshToken string, expiryTime time.Time) error {
	return m.Called(ctx, userID, refreshToken, expiryTime).Error(0)
}

func (m *mockUserRepo) GetUserByRefreshToken(ctx context.Context, refreshToken string) (*models.User, error) {
	return m.user(m.Called(ctx, refreshToken))
}

type mockPremiumRepo struct {
	mock.Mock
}

func (m *mockPremiumRepo) GetByUserID(ctx context.Context, userID string) (*models.Premium, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Premium), args.Error(1)
}

func (m *mockPremiumRepo) Upsert(ctx context.Context, premium *models.Premium) error {
	return m.Called(ctx, premium).Error(0)
}

func (m *mockPremiumRepo) UpdateLimitDate(ctx context.Context, userID string, limitDate time.Time) error {
	return m.Called(ctx, userID, limitDate).Error(0)
}

func (m *mockPremiumRepo) UpdateStatus(ctx context.Context, userID, status string) error {
	return m.Called(ctx, userID, status).Error(0)
}

type mockForumRepo struct {
	mock.Mock
}

func (m *mockForumRepo) Create(ctx context.Context, post *models.Post, tagNames []string, images []models.Image) error {
	return m.Called(ctx, post, tagNames, images).Error(0)
}

func (m *mockForumRepo) Update(ctx context.Context, post *models.Post, tagNames []string, deleteImageIDs []int64, images []models.Image) ([]string, error) {
	args := m.Called(ctx, post, tagNames, deleteImageIDs, images)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockForumRepo) GetByID(ctx context.Context, forumID int64) (*models.Post, error) {
	args := m.Called(ctx, forumID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *mockForumRepo) Delete(ctx context.Context, forumID int64, ownerID string) ([]string, error) {
	args := m.Called(ctx, forumID, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockForumRepo) ObjectNamesByUser(ctx context.Context, userID string) ([]string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type mockListingRepo struct {
	mock.Mock
}

func (m *mockListingRepo) Search(ctx context.Context, filter repository.PostFilter) ([]models.PostSummary, int, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]models.PostSummary), args.Int(1), args.Error(2)
}

func (m *mockListingRepo) UserPosts(ctx context.Context, filter repository.UserPostFilter) ([]models.PostSummary, int, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]models.PostSummary), args.Int(1), args.Error(2)
}

func (m *mockListingRepo) Latest(ctx context.Context, filter repository.LatestFilter) ([]models.PostSummary, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]models.PostSummary), args.Error(1)
}

func (m *mockListingRepo) UserTags(ctx context.Context, userID string) ([]models.Tag, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.Tag), args.Error(1)
}

type mockBookmarkRepo struct {
	mock.Mock
}

func (m *mockBookmarkRepo) Add(ctx context.Context, userID string, forumID int64) error {
	return m.Called(ctx, userID, forumID).Error(0)
}

func (m *mockBookmarkRepo) Remove(ctx context.Context, userID string, forumID int64) error {
	return m.Called(ctx, userID, forumID).Error(0)
}

func (m *mockBookmarkRepo) List(ctx context.Context, userID string, now time.Time, limit, offset int) ([]models.PostSummary, int, error) {
	args := m.Called(ctx, userID, now, limit, offset)
	return args.Get(0).([]models.PostSummary), args.Int(1), args.Error(2)
}

type mockBlockRepo struct {
	mock.Mock
}

func (m *mockBlockRepo) Block(ctx context.Context, blockerID, blockedID string) error {
	return m.Called(ctx, blockerID, blockedID).Error(0)
}

func (m *mockBlockRepo) Unblock(ctx context.Context, blockerID, blockedID string) error {
	return m.Called(ctx, blockerID, blockedID).Error(0)
}

func (m *mockBlockRepo) List(ctx context.Context, blockerID string) ([]models.BlockedUser, error) {
	args := m.Called(ctx, blockerID)
	return args.Get(0).([]models.BlockedUser), args.Error(1)
}

type mockExcludeRepo struct {
	mock.Mock
}

func (m *mockExcludeRepo) Get(ctx context.Context, userID string) ([]string, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockExcludeRepo) Save(ctx context.Context, userID string, tags []string) error {
	return m.Called(ctx, userID, tags).Error(0)
}

type mockStorage struct {
	mock.Mock
}

func (m *mockStorage) Upload(ctx context.Context, ownerID, fileName string, file io.Reader, size int64, contentType string) (string, string, error) {
	args := m.Called(ctx, ownerID, fileName, file, size, contentType)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *mockStorage) PublicURL(objectName string) string {
	return m.Called(objectName).String(0)
}

func (m *mockStorage) Remove(ctx context.Context, objectNames ...string) error {
	args := m.Called(ctx, objectNames)
	return args.Error(0)
}
