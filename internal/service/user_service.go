package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"sugurico/internal/config"
	"sugurico/internal/editor"
	"sugurico/internal/models"
	"sugurico/internal/repository"
	"sugurico/internal/storage"
)

type UpdateUserRequest struct {
	UserID   string
	Name     string
	UserName string
	LoginID  string
	Password string
}

type UserService interface {
	GetUser(ctx context.Context, userID string) (*models.User, error)
	UpdateUser(ctx context.Context, req UpdateUserRequest) error
	DeleteUser(ctx context.Context, userID, confirmLoginID string) error
	GetExcludeTags(ctx context.Context, userID string) ([]string, error)
	SaveExcludeTags(ctx context.Context, userID string, tags []string) ([]string, error)
}

type userService struct {
	userRepo    repository.UserRepository
	forumRepo   repository.ForumRepository
	premiumRepo repository.PremiumRepository
	excludeRepo repository.ExcludeTagsRepository
	storage     storage.Storage
	cfg         *config.Config
	log         *logrus.Logger
	now         func() time.Time
}

func NewUserService(rep *repository.Repository, store storage.Storage, cfg *config.Config, log *logrus.Logger) UserService {
	return &userService{
		userRepo:    rep.User,
		forumRepo:   rep.Forum,
		premiumRepo: rep.Premium,
		excludeRepo: rep.ExcludeTags,
		storage:     store,
		cfg:         cfg,
		log:         log,
		now:         time.Now,
	}
}

func (s *userService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(ErrNotFound, msgUserMissing)
		}
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	return user, nil
}

func (s *userService) UpdateUser(ctx context.Context, req UpdateUserRequest) error {
	user, err := s.GetUser(ctx, req.UserID)
	if err != nil {
		return err
	}

	user.Name = req.Name
	user.UserName = req.UserName
	user.LoginID = req.LoginID

	if err := s.userRepo.UpdateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return newError(ErrDuplicate, "このログインIDは既に使用されています")
		}
		return fmt.Errorf("ユーザー情報の更新に失敗しました: %w", err)
	}

	if req.Password != "" {
		if err := s.userRepo.UpdatePassword(ctx, user.ID, req.Password); err != nil {
			return fmt.Errorf("パスワードの更新に失敗しました: %w", err)
		}
	}

	return nil
}

// DeleteUser removes the account after the caller retyped their login id.
// Owned rows go with the user row; stored images are removed afterwards.
func (s *userService) DeleteUser(ctx context.Context, userID, confirmLoginID string) error {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if user.LoginID != confirmLoginID {
		return newError(ErrValidation, "入力されたログインIDが一致しません。")
	}

	objectNames, err := s.forumRepo.ObjectNamesByUser(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.userRepo.DeleteUser(ctx, userID); err != nil {
		return fmt.Errorf("アカウントの削除に失敗しました: %w", err)
	}

	removeObjects(ctx, s.storage, s.log, objectNames)
	s.log.WithField("user_id", userID).Info("account deleted")

	return nil
}

func (s *userService) requirePremium(ctx context.Context, userID string) error {
	if !s.cfg.Features.ExcludeTags {
		return newError(ErrNotFound, "この機能は利用できません。")
	}
	premium, err := loadPremium(ctx, s.premiumRepo, userID)
	if err != nil {
		return err
	}
	if !premium.IsPremium(s.now()) {
		return newError(ErrPremiumRequired, msgPremiumOnly)
	}
	return nil
}

func (s *userService) GetExcludeTags(ctx context.Context, userID string) ([]string, error) {
	if err := s.requirePremium(ctx, userID); err != nil {
		return nil, err
	}
	return s.excludeRepo.Get(ctx, userID)
}

// SaveExcludeTags stores the list under the same rules as post tags and
// returns what was stored.
func (s *userService) SaveExcludeTags(ctx context.Context, userID string, tags []string) ([]string, error) {
	if err := s.requirePremium(ctx, userID); err != nil {
		return nil, err
	}

	set := editor.NewTagSet(nil)
	if err := set.AddAll(tags...); err != nil {
		return nil, newError(ErrValidation, "%s", err.Error())
	}

	if err := s.excludeRepo.Save(ctx, userID, set.Tags()); err != nil {
		return nil, err
	}
	return set.Tags(), nil
}

// removeObjects deletes stored objects after their rows are gone. Failures
// only leave orphans behind, so they are logged.
func removeObjects(ctx context.Context, store storage.Storage, log *logrus.Logger, names []string) {
	if len(names) == 0 || store == nil {
		return
	}
	if err := store.Remove(ctx, names...); err != nil {
		log.WithError(err).WithField("objects", names).Warn("stored objects not removed")
	}
}
