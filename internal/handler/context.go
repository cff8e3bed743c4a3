package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// UserIDKey is the context key set by the auth middleware.
const UserIDKey = "userID"

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

// UserID is the authenticated caller, or "" for guests.
func UserID(r *http.Request) string {
	userID, _ := r.Context().Value(UserIDKey).(string)
	return userID
}

// requireUser writes 401 and reports false when nobody is signed in.
func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := UserID(r)
	if userID == "" {
		WriteError(w, "ログインが必要です。", http.StatusUnauthorized)
		return "", false
	}
	return userID, true
}

func forumIDVar(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		WriteError(w, "投稿IDが不正です。", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// userIDVar answers 404 for path ids that cannot name a user.
func userIDVar(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := mux.Vars(r)["id"]
	if _, err := uuid.Parse(id); err != nil {
		WriteError(w, "ユーザーが見つかりません。", http.StatusNotFound)
		return "", false
	}
	return id, true
}
