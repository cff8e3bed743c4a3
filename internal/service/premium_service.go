package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"sugurico/internal/cache"
	"sugurico/internal/config"
	"sugurico/internal/lockout"
	"sugurico/internal/metrics"
	"sugurico/internal/models"
	"sugurico/internal/payment"
	"sugurico/internal/repository"
)

const (
	noticeWindow  = 7 * 24 * time.Hour
	noticeFlagTTL = 48 * time.Hour
	lockTimeFmt   = "2006/1/2 15:04:05"
)

type SubscribeRequest struct {
	StepUpToken string
	Plan        string
	CardNumber  string
	Expiry      string
}

type PremiumStatus struct {
	Premium   *models.Premium `json:"premium"`
	IsPremium bool            `json:"isPremium"`
}

type PremiumService interface {
	Status(ctx context.Context, userID string) (*PremiumStatus, error)
	IsPremium(ctx context.Context, userID string) (bool, error)
	Notice(ctx context.Context, userID string) (string, error)
	DismissNotice(ctx context.Context, userID string) error
	VerifyPassword(ctx context.Context, userID, password string) (string, error)
	Subscribe(ctx context.Context, userID string, req SubscribeRequest) (*models.Premium, error)
	Cancel(ctx context.Context, userID string) error
}

type premiumService struct {
	premiumRepo repository.PremiumRepository
	userRepo    repository.UserRepository
	store       cache.Store
	guard       *lockout.Guard
	cfg         *config.Config
	metrics     *metrics.Metrics
	log         *logrus.Logger
	now         func() time.Time
}

func NewPremiumService(premiumRepo repository.PremiumRepository, userRepo repository.UserRepository, store cache.Store, guard *lockout.Guard, cfg *config.Config, m *metrics.Metrics, log *logrus.Logger) PremiumService {
	return &premiumService{
		premiumRepo: premiumRepo,
		userRepo:    userRepo,
		store:       store,
		guard:       guard,
		cfg:         cfg,
		metrics:     m,
		log:         log,
		now:         time.Now,
	}
}

// loadPremium returns nil without error for users who never subscribed.
func loadPremium(ctx context.Context, repo repository.PremiumRepository, userID string) (*models.Premium, error) {
	if userID == "" {
		return nil, nil
	}
	premium, err := repo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("プレミアム情報の取得に失敗しました: %w", err)
	}
	return premium, nil
}

func (s *premiumService) location() *time.Location {
	if s.cfg.TimeZone != nil {
		return s.cfg.TimeZone
	}
	return time.Local
}

func (s *premiumService) Status(ctx context.Context, userID string) (*PremiumStatus, error) {
	premium, err := loadPremium(ctx, s.premiumRepo, userID)
	if err != nil {
		return nil, err
	}
	return &PremiumStatus{Premium: premium, IsPremium: premium.IsPremium(s.now())}, nil
}

func (s *premiumService) IsPremium(ctx context.Context, userID string) (bool, error) {
	premium, err := loadPremium(ctx, s.premiumRepo, userID)
	if err != nil {
		return false, err
	}
	return premium.IsPremium(s.now()), nil
}

func noticeKey(userID string) string { return "premium_notify:" + userID }

// Notice is the renewal reminder shown at most once a day while an active
// subscription is within a week of its limit date. Empty means no notice.
func (s *premiumService) Notice(ctx context.Context, userID string) (string, error) {
	premium, err := loadPremium(ctx, s.premiumRepo, userID)
	if err != nil || premium == nil || premium.Status != models.StatusActive {
		return "", err
	}

	now := s.now()
	left := premium.LimitDate.Sub(now)
	if left <= 0 || left >= noticeWindow {
		return "", nil
	}

	today := now.In(s.location()).Format("2006-01-02")
	shown, ok, err := s.store.Get(ctx, noticeKey(userID))
	if err != nil {
		// a broken flag store must not hide the reminder
		s.log.WithError(err).WithField("user_id", userID).Warn("premium notice flag unavailable")
	} else if ok && shown == today {
		return "", nil
	}

	days := int(math.Ceil(left.Hours() / 24))
	return fmt.Sprintf("プレミアム会員の有効期限が近づいています。あと%d日で自動更新されます。", days), nil
}

func (s *premiumService) DismissNotice(ctx context.Context, userID string) error {
	today := s.now().In(s.location()).Format("2006-01-02")
	if err := s.store.Set(ctx, noticeKey(userID), today, noticeFlagTTL); err != nil {
		return fmt.Errorf("お知らせの既読登録に失敗しました: %w", err)
	}
	return nil
}

func (s *premiumService) lockedError(until time.Time) *Error {
	return newError(ErrLocked, "試行回数の上限に達しました。アカウントはロックされました。再試行可能: %s",
		until.In(s.location()).Format(lockTimeFmt))
}

// VerifyPassword re-authenticates the user before payment and returns a
// step-up token scoped to premium_payment.
func (s *premiumService) VerifyPassword(ctx context.Context, userID, password string) (string, error) {
	until, locked, err := s.guard.LockedUntil(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("ロック状態の確認に失敗しました: %w", err)
	}
	if locked {
		return "", s.lockedError(until)
	}

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", newError(ErrNotFound, msgUserMissing)
		}
		return "", fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		remaining, lockedUntil, ferr := s.guard.Fail(ctx, userID)
		if ferr != nil {
			return "", fmt.Errorf("試行回数の記録に失敗しました: %w", ferr)
		}
		s.metrics.StepUpFailed(!lockedUntil.IsZero())
		if !lockedUntil.IsZero() {
			s.log.WithField("user_id", userID).Warn("step-up authentication locked")
			return "", s.lockedError(lockedUntil)
		}
		return "", newError(ErrUnauthorized, "パスワードが違います。残り試行回数: %d回", remaining)
	}

	if err := s.guard.Reset(ctx, userID); err != nil {
		s.log.WithError(err).WithField("user_id", userID).Warn("failed attempt counter not reset")
	}

	tokens := tokenIssuer{secret: []byte(s.cfg.JWTSecretKey), now: s.now}
	return tokens.issue(userID, ScopePremiumPayment, s.cfg.StepUpTokenDuration)
}

func (s *premiumService) Subscribe(ctx context.Context, userID string, req SubscribeRequest) (*models.Premium, error) {
	tokens := tokenIssuer{secret: []byte(s.cfg.JWTSecretKey), now: s.now}
	claims, err := tokens.parse(req.StepUpToken, ScopePremiumPayment)
	if err != nil || claims.UserID != userID {
		return nil, newError(ErrUnauthorized, "本人確認の有効期限が切れました。もう一度パスワードを入力してください。")
	}

	now := s.now()
	if err := payment.ValidateCard(req.CardNumber, req.Expiry, now); err != nil {
		return nil, newError(ErrValidation, "%s", err.Error())
	}

	limit, err := payment.PlanExpiry(req.Plan, now)
	if err != nil {
		return nil, newError(ErrValidation, "%s", err.Error())
	}

	premium := &models.Premium{
		UserID:    userID,
		Plan:      req.Plan,
		Status:    models.StatusActive,
		LimitDate: limit,
		UpdatedAt: now,
	}
	if err := s.premiumRepo.Upsert(ctx, premium); err != nil {
		return nil, fmt.Errorf("プレミアム登録に失敗しました: %w", err)
	}

	s.metrics.Subscribed(req.Plan)
	s.log.WithFields(logrus.Fields{"user_id": userID, "plan": req.Plan}).Info("premium subscribed")

	return premium, nil
}

func (s *premiumService) Cancel(ctx context.Context, userID string) error {
	if err := s.premiumRepo.UpdateStatus(ctx, userID, models.StatusCanceled); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return newError(ErrNotFound, "プレミアム会員情報が見つかりません。")
		}
		return fmt.Errorf("プレミアムの解約に失敗しました: %w", err)
	}
	return nil
}
