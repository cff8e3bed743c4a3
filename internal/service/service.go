package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"sugurico/internal/cache"
	"sugurico/internal/config"
	"sugurico/internal/lockout"
	"sugurico/internal/metrics"
	"sugurico/internal/repository"
	"sugurico/internal/storage"
)

type Service struct {
	Auth    AuthService
	User    UserService
	Session SessionService
	Premium PremiumService
	Post    PostService
	Listing ListingService
	Social  SocialService
	Tables  TablesService
}

// Deps are the process-wide collaborators shared by every service.
type Deps struct {
	Storage storage.Storage
	Cache   cache.Store
	Metrics *metrics.Metrics
	Log     *logrus.Logger
	Ping    func(ctx context.Context) error
}

func NewService(rep *repository.Repository, cfg *config.Config, deps Deps) *Service {
	premium := NewPremiumService(rep.Premium, rep.User, deps.Cache, lockout.New(deps.Cache), cfg, deps.Metrics, deps.Log)

	return &Service{
		Auth:    NewAuthService(rep.User, rep.Premium, cfg, deps.Log),
		User:    NewUserService(rep, deps.Storage, cfg, deps.Log),
		Session: NewSessionService(rep.User, premium),
		Premium: premium,
		Post:    NewPostService(rep, deps.Storage, cfg, deps.Metrics, deps.Log),
		Listing: NewListingService(rep, cfg, deps.Metrics),
		Social:  NewSocialService(rep, cfg),
		Tables:  NewTablesService(rep.Tables, deps.Ping),
	}
}
