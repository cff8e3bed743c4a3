package test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"sugurico/internal/models"
	"sugurico/internal/search"
	"sugurico/internal/service"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, req service.RegisterRequest) (*models.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, identifier, password string) (*models.User, string, string, error) {
	args := m.Called(ctx, identifier, password)
	if args.Get(0) == nil {
		return nil, args.String(1), args.String(2), args.Error(3)
	}
	return args.Get(0).(*models.User), args.String(1), args.String(2), args.Error(3)
}

func (m *MockAuthService) RefreshTokens(ctx context.Context, refreshToken string) (*models.User, string, string, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.String(1), args.String(2), args.Error(3)
	}
	return args.Get(0).(*models.User), args.String(1), args.String(2), args.Error(3)
}

func (m *MockAuthService) Logout(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *MockAuthService) ValidateToken(tokenString string) (*service.Claims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Claims), args.Error(1)
}

func (m *MockAuthService) VerifyReset(ctx context.Context, loginID, mail string) (string, error) {
	args := m.Called(ctx, loginID, mail)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) ResetPassword(ctx context.Context, resetToken, password, confirmPassword string) error {
	return m.Called(ctx, resetToken, password, confirmPassword).Error(0)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) UpdateUser(ctx context.Context, req service.UpdateUserRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *MockUserService) DeleteUser(ctx context.Context, userID, confirmLoginID string) error {
	return m.Called(ctx, userID, confirmLoginID).Error(0)
}

func (m *MockUserService) GetExcludeTags(ctx context.Context, userID string) ([]string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockUserService) SaveExcludeTags(ctx context.Context, userID string, tags []string) ([]string, error) {
	args := m.Called(ctx, userID, tags)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type MockSessionService struct {
	mock.Mock
}

func (m *MockSessionService) Resolve(ctx context.Context, userID string) (*service.Session, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Session), args.Error(1)
}

type MockPremiumService struct {
	mock.Mock
}

func (m *MockPremiumService) Status(ctx context.Context, userID string) (*service.PremiumStatus, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PremiumStatus), args.Error(1)
}

func (m *MockPremiumService) IsPremium(ctx context.Context, userID string) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPremiumService) Notice(ctx context.Context, userID string) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *MockPremiumService) DismissNotice(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *MockPremiumService) VerifyPassword(ctx context.Context, userID, password string) (string, error) {
	args := m.Called(ctx, userID, password)
	return args.String(0), args.Error(1)
}

func (m *MockPremiumService) Subscribe(ctx context.Context, userID string, req service.SubscribeRequest) (*models.Premium, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Premium), args.Error(1)
}

func (m *MockPremiumService) Cancel(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

type MockPostService struct {
	mock.Mock
}

func (m *MockPostService) CreatePost(ctx context.Context, userID string, form service.PostForm) (*models.Post, error) {
	args := m.Called(ctx, userID, form)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostService) UpdatePost(ctx context.Context, userID string, forumID int64, form service.PostForm) (*models.Post, error) {
	args := m.Called(ctx, userID, forumID, form)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostService) GetPost(ctx context.Context, viewerID string, forumID int64) (*service.PostView, error) {
	args := m.Called(ctx, viewerID, forumID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PostView), args.Error(1)
}

func (m *MockPostService) DeletePost(ctx context.Context, userID string, forumID int64) error {
	return m.Called(ctx, userID, forumID).Error(0)
}

type MockListingService struct {
	mock.Mock
}

func (m *MockListingService) Search(ctx context.Context, viewerID string, params search.Params) (*service.SearchResult, error) {
	args := m.Called(ctx, viewerID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SearchResult), args.Error(1)
}

func (m *MockListingService) MyPosts(ctx context.Context, userID string, params search.UserPostParams) (*service.PostList, error) {
	args := m.Called(ctx, userID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PostList), args.Error(1)
}

func (m *MockListingService) UserPosts(ctx context.Context, viewerID, authorID string, params search.UserPostParams) (*service.PostList, error) {
	args := m.Called(ctx, viewerID, authorID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PostList), args.Error(1)
}

func (m *MockListingService) UserTags(ctx context.Context, userID string) ([]models.Tag, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Tag), args.Error(1)
}

func (m *MockListingService) Bookmarks(ctx context.Context, userID string, page int) (*service.PostList, error) {
	args := m.Called(ctx, userID, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PostList), args.Error(1)
}

func (m *MockListingService) Feed(ctx context.Context, viewerID string) (*service.Feed, error) {
	args := m.Called(ctx, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Feed), args.Error(1)
}

type MockSocialService struct {
	mock.Mock
}

func (m *MockSocialService) Block(ctx context.Context, blockerID, blockedID string) error {
	return m.Called(ctx, blockerID, blockedID).Error(0)
}

func (m *MockSocialService) Unblock(ctx context.Context, blockerID, blockedID string) error {
	return m.Called(ctx, blockerID, blockedID).Error(0)
}

func (m *MockSocialService) Blocks(ctx context.Context, blockerID string) ([]models.BlockedUser, error) {
	args := m.Called(ctx, blockerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.BlockedUser), args.Error(1)
}

func (m *MockSocialService) AddBookmark(ctx context.Context, userID string, forumID int64) error {
	return m.Called(ctx, userID, forumID).Error(0)
}

func (m *MockSocialService) RemoveBookmark(ctx context.Context, userID string, forumID int64) error {
	return m.Called(ctx, userID, forumID).Error(0)
}

type MockTablesService struct {
	mock.Mock
}

func (m *MockTablesService) GetCountTablesDB(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockTablesService) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
