package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sugurico/internal/config"
	"sugurico/internal/models"
	"sugurico/internal/repository"
)

type SocialService interface {
	Block(ctx context.Context, blockerID, blockedID string) error
	Unblock(ctx context.Context, blockerID, blockedID string) error
	Blocks(ctx context.Context, blockerID string) ([]models.BlockedUser, error)
	AddBookmark(ctx context.Context, userID string, forumID int64) error
	RemoveBookmark(ctx context.Context, userID string, forumID int64) error
}

type socialService struct {
	blockRepo    repository.BlockRepository
	bookmarkRepo repository.BookmarkRepository
	userRepo     repository.UserRepository
	forumRepo    repository.ForumRepository
	premiumRepo  repository.PremiumRepository
	cfg          *config.Config
	now          func() time.Time
}

func NewSocialService(rep *repository.Repository, cfg *config.Config) SocialService {
	return &socialService{
		blockRepo:    rep.Block,
		bookmarkRepo: rep.Bookmark,
		userRepo:     rep.User,
		forumRepo:    rep.Forum,
		premiumRepo:  rep.Premium,
		cfg:          cfg,
		now:          time.Now,
	}
}

func (s *socialService) Block(ctx context.Context, blockerID, blockedID string) error {
	if blockerID == blockedID {
		return newError(ErrValidation, "自分自身をブロックすることはできません。")
	}
	if _, err := s.userRepo.GetUserByID(ctx, blockedID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return newError(ErrNotFound, msgUserMissing)
		}
		return fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	return s.blockRepo.Block(ctx, blockerID, blockedID)
}

func (s *socialService) Unblock(ctx context.Context, blockerID, blockedID string) error {
	if err := s.blockRepo.Unblock(ctx, blockerID, blockedID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return newError(ErrNotFound, "ブロックしていないユーザーです。")
		}
		return err
	}
	return nil
}

func (s *socialService) Blocks(ctx context.Context, blockerID string) ([]models.BlockedUser, error) {
	return s.blockRepo.List(ctx, blockerID)
}

func (s *socialService) checkBookmarks(ctx context.Context, userID string) error {
	if !s.cfg.Features.Bookmarks {
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

// AddBookmark only accepts posts the caller can currently see.
func (s *socialService) AddBookmark(ctx context.Context, userID string, forumID int64) error {
	if err := s.checkBookmarks(ctx, userID); err != nil {
		return err
	}

	post, err := s.forumRepo.GetByID(ctx, forumID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return newError(ErrNotFound, msgPostMissing)
		}
		return err
	}
	if post.UserID != userID && !post.Visible(s.now()) {
		return newError(ErrNotFound, msgPostMissing)
	}

	return s.bookmarkRepo.Add(ctx, userID, forumID)
}

func (s *socialService) RemoveBookmark(ctx context.Context, userID string, forumID int64) error {
	if err := s.checkBookmarks(ctx, userID); err != nil {
		return err
	}
	return s.bookmarkRepo.Remove(ctx, userID, forumID)
}
