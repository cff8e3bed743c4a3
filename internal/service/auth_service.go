package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"sugurico/internal/config"
	"sugurico/internal/models"
	"sugurico/internal/payment"
	"sugurico/internal/repository"
)

type RegisterRequest struct {
	Name     string
	UserName string
	LoginID  string
	Mail     string
	Password string
}

type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*models.User, error)
	Login(ctx context.Context, identifier, password string) (*models.User, string, string, error)
	RefreshTokens(ctx context.Context, refreshToken string) (*models.User, string, string, error)
	Logout(ctx context.Context, userID string) error
	ValidateToken(tokenString string) (*Claims, error)
	VerifyReset(ctx context.Context, loginID, mail string) (string, error)
	ResetPassword(ctx context.Context, resetToken, password, confirmPassword string) error
}

type authService struct {
	userRepo    repository.UserRepository
	premiumRepo repository.PremiumRepository
	cfg         *config.Config
	log         *logrus.Logger
	now         func() time.Time
}

func NewAuthService(userRepo repository.UserRepository, premiumRepo repository.PremiumRepository, cfg *config.Config, log *logrus.Logger) AuthService {
	return &authService{
		userRepo:    userRepo,
		premiumRepo: premiumRepo,
		cfg:         cfg,
		log:         log,
		now:         time.Now,
	}
}

func (s *authService) tokens() tokenIssuer {
	return tokenIssuer{secret: []byte(s.cfg.JWTSecretKey), now: s.now}
}

func (s *authService) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	user := &models.User{
		Name:      req.Name,
		UserName:  req.UserName,
		LoginID:   req.LoginID,
		Mail:      req.Mail,
		CreatedAt: s.now(),
	}

	if err := s.userRepo.CreateUser(ctx, user, req.Password); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, newError(ErrDuplicate, "このメールアドレスまたはログインIDは既に使用されています。")
		}
		return nil, fmt.Errorf("ユーザー登録に失敗しました: %w", err)
	}

	return user, nil
}

// Login accepts either a mail address (anything containing '@') or a login id.
func (s *authService) Login(ctx context.Context, identifier, password string) (*models.User, string, string, error) {
	var (
		user *models.User
		err  error
	)
	if strings.Contains(identifier, "@") {
		user, err = s.userRepo.GetUserByMail(ctx, identifier)
	} else {
		user, err = s.userRepo.GetUserByLoginID(ctx, identifier)
	}
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", "", newError(ErrUnauthorized, "ログインIDまたはパスワードが違います。")
		}
		return nil, "", "", fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", "", newError(ErrUnauthorized, "ログインIDまたはパスワードが違います。")
	}

	s.renewSubscription(ctx, user.ID)

	accessToken, refreshToken, err := s.issuePair(ctx, user.ID)
	if err != nil {
		return nil, "", "", err
	}

	return user, accessToken, refreshToken, nil
}

// renewSubscription extends an active subscription whose limit date has
// passed by one plan period. Failures are logged; login still succeeds.
func (s *authService) renewSubscription(ctx context.Context, userID string) {
	premium, err := s.premiumRepo.GetByUserID(ctx, userID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.log.WithError(err).WithField("user_id", userID).Warn("premium lookup on login failed")
		}
		return
	}

	now := s.now()
	if premium.Status != models.StatusActive || premium.LimitDate.After(now) {
		return
	}

	next, err := payment.PlanExpiry(premium.Plan, premium.LimitDate)
	if err != nil {
		s.log.WithError(err).WithField("user_id", userID).Warn("premium renewal skipped")
		return
	}
	if err := s.premiumRepo.UpdateLimitDate(ctx, userID, next); err != nil {
		s.log.WithError(err).WithField("user_id", userID).Error("premium renewal failed")
		return
	}

	s.log.WithFields(logrus.Fields{"user_id": userID, "plan": premium.Plan, "limit_date": next}).Info("premium renewed")
}

func (s *authService) RefreshTokens(ctx context.Context, refreshToken string) (*models.User, string, string, error) {
	user, err := s.userRepo.GetUserByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", "", newError(ErrUnauthorized, "リフレッシュトークンが無効か期限切れです。")
		}
		return nil, "", "", fmt.Errorf("リフレッシュトークンの確認に失敗しました: %w", err)
	}

	accessToken, newRefreshToken, err := s.issuePair(ctx, user.ID)
	if err != nil {
		return nil, "", "", err
	}

	return user, accessToken, newRefreshToken, nil
}

func (s *authService) issuePair(ctx context.Context, userID string) (string, string, error) {
	accessToken, err := s.tokens().issue(userID, ScopeAccess, s.cfg.AccessTokenDuration)
	if err != nil {
		return "", "", err
	}

	refreshToken := uuid.New().String()
	expiry := s.now().Add(s.cfg.RefreshTokenDuration)

	if err := s.userRepo.UpdateRefreshToken(ctx, userID, refreshToken, expiry); err != nil {
		return "", "", fmt.Errorf("リフレッシュトークンの保存に失敗しました: %w", err)
	}

	return accessToken, refreshToken, nil
}

func (s *authService) Logout(ctx context.Context, userID string) error {
	if err := s.userRepo.UpdateRefreshToken(ctx, userID, "", time.Time{}); err != nil {
		return fmt.Errorf("ログアウトに失敗しました: %w", err)
	}
	return nil
}

func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	return s.tokens().parse(tokenString, ScopeAccess)
}

// VerifyReset is the first stage of a password reset: login id and mail must
// belong to the same account. It returns a short-lived reset token.
func (s *authService) VerifyReset(ctx context.Context, loginID, mail string) (string, error) {
	user, err := s.userRepo.GetUserByLoginID(ctx, loginID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return "", fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil || !strings.EqualFold(user.Mail, mail) {
		return "", newError(ErrValidation, "ログインIDとメールアドレスの組み合わせが正しくありません。")
	}

	return s.tokens().issue(user.ID, ScopePasswordReset, s.cfg.StepUpTokenDuration)
}

func (s *authService) ResetPassword(ctx context.Context, resetToken, password, confirmPassword string) error {
	if password != confirmPassword {
		return newError(ErrValidation, "パスワードが一致しません。")
	}

	claims, err := s.tokens().parse(resetToken, ScopePasswordReset)
	if err != nil {
		return newError(ErrUnauthorized, "再設定の有効期限が切れました。もう一度やり直してください。")
	}

	if err := s.userRepo.UpdatePassword(ctx, claims.UserID, password); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return newError(ErrNotFound, msgUserMissing)
		}
		return fmt.Errorf("パスワードの更新に失敗しました: %w", err)
	}

	// existing sessions end with the old password
	if err := s.userRepo.UpdateRefreshToken(ctx, claims.UserID, "", time.Time{}); err != nil {
		s.log.WithError(err).WithField("user_id", claims.UserID).Warn("refresh token not cleared after reset")
	}

	return nil
}
