package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"sugurico/internal/config"
	"sugurico/internal/service"
)

type Handlers struct {
	AuthService    service.AuthService
	UserService    service.UserService
	SessionService service.SessionService
	PremiumService service.PremiumService
	PostService    service.PostService
	ListingService service.ListingService
	SocialService  service.SocialService
	TablesService  service.TablesService
	Cfg            *config.Config
	Validate       *validator.Validate
	Log            *logrus.Logger
}

func NewHandlers(services *service.Service, cfg *config.Config, log *logrus.Logger) *Handlers {
	return &Handlers{
		AuthService:    services.Auth,
		UserService:    services.User,
		SessionService: services.Session,
		PremiumService: services.Premium,
		PostService:    services.Post,
		ListingService: services.Listing,
		SocialService:  services.Social,
		TablesService:  services.Tables,
		Cfg:            cfg,
		Validate:       validator.New(),
		Log:            log,
	}
}

// decodeJSON reads and validates a JSON body, writing 400 on failure.
func (h *Handlers) decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		WriteError(w, "リクエストの形式が不正です。", http.StatusBadRequest)
		return false
	}

	if h.Validate == nil {
		return true
	}
	if err := h.Validate.Struct(dst); err != nil {
		WriteError(w, "入力内容に誤りがあります。", http.StatusBadRequest)
		return false
	}

	return true
}
