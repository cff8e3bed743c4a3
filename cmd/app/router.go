package app

import (
	"net/http"

	"github.com/gorilla/mux"

	handlers "sugurico/internal/handler"
	"sugurico/internal/metrics"
	"sugurico/internal/middleware"
)

// Router maps every endpoint. Auth runs on all routes and only identifies
// the caller; handlers reject guests where a login is required.
func Router(h *handlers.Handlers, m *metrics.Metrics) *mux.Router {
	r := mux.NewRouter()
	r.Use(
		mux.MiddlewareFunc(middleware.Metrics(m)),
		mux.MiddlewareFunc(middleware.Authenticate(h.AuthService)),
	)

	r.HandleFunc("/", h.Home).Methods(http.MethodGet)
	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	r.HandleFunc("/tables", h.TablesHandler).Methods(http.MethodGet)
	r.Handle("/metrics", m.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register", h.Register).Methods(http.MethodPost)
	auth.HandleFunc("/login", h.Login).Methods(http.MethodPost)
	auth.HandleFunc("/refresh-token", h.RefreshToken).Methods(http.MethodPost)
	auth.HandleFunc("/logout", h.Logout).Methods(http.MethodPost)
	auth.HandleFunc("/password-reset/verify", h.VerifyPasswordReset).Methods(http.MethodPost)
	auth.HandleFunc("/password-reset", h.ResetPassword).Methods(http.MethodPost)

	api.HandleFunc("/me", h.Session).Methods(http.MethodGet)
	api.HandleFunc("/me", h.UpdateUser).Methods(http.MethodPut)
	api.HandleFunc("/me", h.DeleteUser).Methods(http.MethodDelete)
	api.HandleFunc("/me/profile", h.GetProfile).Methods(http.MethodGet)
	api.HandleFunc("/me/posts", h.MyPosts).Methods(http.MethodGet)
	api.HandleFunc("/me/tags", h.MyTags).Methods(http.MethodGet)
	api.HandleFunc("/me/exclude-tags", h.GetExcludeTags).Methods(http.MethodGet)
	api.HandleFunc("/me/exclude-tags", h.SaveExcludeTags).Methods(http.MethodPut)
	api.HandleFunc("/me/premium-notice/dismiss", h.DismissPremiumNotice).Methods(http.MethodPost)

	api.HandleFunc("/premium", h.PremiumStatus).Methods(http.MethodGet)
	api.HandleFunc("/premium/verify", h.VerifyPremiumPassword).Methods(http.MethodPost)
	api.HandleFunc("/premium/subscribe", h.Subscribe).Methods(http.MethodPost)
	api.HandleFunc("/premium/cancel", h.CancelPremium).Methods(http.MethodPost)

	api.HandleFunc("/search", h.Search).Methods(http.MethodGet)
	api.HandleFunc("/feed", h.Feed).Methods(http.MethodGet)
	api.HandleFunc("/bookmarks", h.Bookmarks).Methods(http.MethodGet)
	api.HandleFunc("/blocks", h.Blocks).Methods(http.MethodGet)

	api.HandleFunc("/users/{id}/posts", h.UserPosts).Methods(http.MethodGet)
	api.HandleFunc("/users/{id}/tags", h.UserTags).Methods(http.MethodGet)
	api.HandleFunc("/users/{id}/block", h.Block).Methods(http.MethodPost)
	api.HandleFunc("/users/{id}/block", h.Unblock).Methods(http.MethodDelete)

	api.HandleFunc("/posts", h.CreatePost).Methods(http.MethodPost)
	api.HandleFunc("/posts/{id:[0-9]+}", h.GetPost).Methods(http.MethodGet)
	api.HandleFunc("/posts/{id:[0-9]+}", h.UpdatePost).Methods(http.MethodPut)
	api.HandleFunc("/posts/{id:[0-9]+}", h.DeletePost).Methods(http.MethodDelete)
	api.HandleFunc("/posts/{id:[0-9]+}/bookmark", h.AddBookmark).Methods(http.MethodPost)
	api.HandleFunc("/posts/{id:[0-9]+}/bookmark", h.RemoveBookmark).Methods(http.MethodDelete)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlers.WriteError(w, "ページが見つかりません。", http.StatusNotFound)
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlers.WriteError(w, "Method not allowed", http.StatusMethodNotAllowed)
	})

	return r
}
