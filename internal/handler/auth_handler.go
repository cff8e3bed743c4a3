package handlers

import (
	"net/http"

	"sugurico/internal/models"
	"sugurico/internal/service"
)

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=50"`
	UserName string `json:"userName" validate:"required,max=30"`
	LoginID  string `json:"loginId" validate:"required,max=30"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type AuthResponse struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	User         UserResponse `json:"user"`
}

type UserResponse struct {
	UserID   string `json:"userId"`
	Name     string `json:"name"`
	UserName string `json:"userName"`
	LoginID  string `json:"loginId"`
	Mail     string `json:"mail"`
}

func newUserResponse(user *models.User) UserResponse {
	return UserResponse{
		UserID:   user.ID,
		Name:     user.Name,
		UserName: user.UserName,
		LoginID:  user.LoginID,
		Mail:     user.Mail,
	}
}

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	_, err := h.AuthService.Register(r.Context(), service.RegisterRequest{
		Name:     req.Name,
		UserName: req.UserName,
		LoginID:  req.LoginID,
		Mail:     req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	// sign the new user straight in
	user, accessToken, refreshToken, err := h.AuthService.Login(r.Context(), req.LoginID, req.Password)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         newUserResponse(user),
	}, http.StatusCreated)
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Identifier string `json:"identifier" validate:"required"`
		Password   string `json:"password" validate:"required"`
	}
	if !h.decodeJSON(w, r, &req) {
		return
	}

	user, accessToken, refreshToken, err := h.AuthService.Login(r.Context(), req.Identifier, req.Password)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         newUserResponse(user),
	}, http.StatusOK)
}

func (h *Handlers) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	if !h.decodeJSON(w, r, &req) {
		return
	}

	if req.RefreshToken == "" {
		WriteError(w, "refreshToken がありません。", http.StatusBadRequest)
		return
	}

	user, accessToken, refreshToken, err := h.AuthService.RefreshTokens(r.Context(), req.RefreshToken)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         newUserResponse(user),
	}, http.StatusOK)
}

func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	if err := h.AuthService.Logout(r.Context(), userID); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, MessageResponse{Message: "ログアウトしました。"}, http.StatusOK)
}

func (h *Handlers) VerifyPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		LoginID string `json:"loginId" validate:"required"`
		Email   string `json:"email" validate:"required,email"`
	}
	if !h.decodeJSON(w, r, &req) {
		return
	}

	resetToken, err := h.AuthService.VerifyReset(r.Context(), req.LoginID, req.Email)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, map[string]string{"resetToken": resetToken}, http.StatusOK)
}

func (h *Handlers) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ResetToken      string `json:"resetToken" validate:"required"`
		Password        string `json:"password" validate:"required,min=6"`
		ConfirmPassword string `json:"confirmPassword" validate:"required"`
	}
	if !h.decodeJSON(w, r, &req) {
		return
	}

	if err := h.AuthService.ResetPassword(r.Context(), req.ResetToken, req.Password, req.ConfirmPassword); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, MessageResponse{Message: "パスワードを再設定しました。"}, http.StatusOK)
}
