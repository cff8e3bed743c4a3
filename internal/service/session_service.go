package service

import (
	"context"
	"errors"
	"fmt"

	"sugurico/internal/models"
	"sugurico/internal/repository"
)

// Session is what every page needs to know about the caller.
type Session struct {
	LoggedIn    bool   `json:"loggedIn"`
	UserID      string `json:"userId,omitempty"`
	DisplayName string `json:"displayName"`
	IsPremium   bool   `json:"isPremium"`
	Notice      string `json:"notice,omitempty"`
}

type SessionService interface {
	Resolve(ctx context.Context, userID string) (*Session, error)
}

type sessionService struct {
	userRepo repository.UserRepository
	premium  PremiumService
}

func NewSessionService(userRepo repository.UserRepository, premium PremiumService) SessionService {
	return &sessionService{userRepo: userRepo, premium: premium}
}

// Resolve treats an empty id, or one whose user no longer exists, as a guest.
func (s *sessionService) Resolve(ctx context.Context, userID string) (*Session, error) {
	guest := &Session{DisplayName: (*models.User)(nil).DisplayName()}
	if userID == "" {
		return guest, nil
	}

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return guest, nil
		}
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}

	isPremium, err := s.premium.IsPremium(ctx, userID)
	if err != nil {
		return nil, err
	}

	notice, err := s.premium.Notice(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &Session{
		LoggedIn:    true,
		UserID:      user.ID,
		DisplayName: user.DisplayName(),
		IsPremium:   isPremium,
		Notice:      notice,
	}, nil
}
