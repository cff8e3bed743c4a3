package handlers

import (
	"net/http"

	"sugurico/internal/search"
	"sugurico/internal/service"
)

type UpdateUserRequest struct {
	Name     string `json:"name" validate:"required,max=50"`
	UserName string `json:"userName" validate:"required,max=30"`
	LoginID  string `json:"loginId" validate:"required,max=30"`
	Password string `json:"password" validate:"omitempty,min=6"`
}

// Session answers for guests too.
func (h *Handlers) Session(w http.ResponseWriter, r *http.Request) {
	session, err := h.SessionService.Resolve(r.Context(), UserID(r))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, session, http.StatusOK)
}

func (h *Handlers) DismissPremiumNotice(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	if err := h.PremiumService.DismissNotice(r.Context(), userID); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	user, err := h.UserService.GetUser(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, newUserResponse(user), http.StatusOK)
}

func (h *Handlers) UpdateUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	err := h.UserService.UpdateUser(r.Context(), service.UpdateUserRequest{
		UserID:   userID,
		Name:     req.Name,
		UserName: req.UserName,
		LoginID:  req.LoginID,
		Password: req.Password,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, MessageResponse{Message: "ユーザー情報を更新しました。"}, http.StatusOK)
}

func (h *Handlers) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req struct {
		ConfirmLoginID string `json:"confirmLoginId" validate:"required"`
	}
	if !h.decodeJSON(w, r, &req) {
		return
	}

	if err := h.UserService.DeleteUser(r.Context(), userID, req.ConfirmLoginID); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) MyPosts(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	params, err := search.ParseUserPosts(r.URL.Query())
	if err != nil {
		WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}

	list, err := h.ListingService.MyPosts(r.Context(), userID, params)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, list, http.StatusOK)
}

func (h *Handlers) MyTags(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	h.writeTags(w, r, userID)
}

func (h *Handlers) UserTags(w http.ResponseWriter, r *http.Request) {
	targetID, ok := userIDVar(w, r)
	if !ok {
		return
	}

	h.writeTags(w, r, targetID)
}

func (h *Handlers) writeTags(w http.ResponseWriter, r *http.Request, userID string) {
	tags, err := h.ListingService.UserTags(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, map[string]interface{}{"tags": tags}, http.StatusOK)
}

func (h *Handlers) UserPosts(w http.ResponseWriter, r *http.Request) {
	targetID, ok := userIDVar(w, r)
	if !ok {
		return
	}

	params, err := search.ParseUserPosts(r.URL.Query())
	if err != nil {
		WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}

	list, err := h.ListingService.UserPosts(r.Context(), UserID(r), targetID, params)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, list, http.StatusOK)
}

func (h *Handlers) GetExcludeTags(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	tags, err := h.UserService.GetExcludeTags(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, map[string][]string{"tags": tags}, http.StatusOK)
}

func (h *Handlers) SaveExcludeTags(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req struct {
		Tags []string `json:"tags"`
	}
	if !h.decodeJSON(w, r, &req) {
		return
	}

	tags, err := h.UserService.SaveExcludeTags(r.Context(), userID, req.Tags)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, map[string][]string{"tags": tags}, http.StatusOK)
}

func (h *Handlers) Blocks(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	blocks, err := h.SocialService.Blocks(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, map[string]interface{}{"blocks": blocks}, http.StatusOK)
}

func (h *Handlers) Block(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	targetID, ok := userIDVar(w, r)
	if !ok {
		return
	}

	if err := h.SocialService.Block(r.Context(), userID, targetID); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) Unblock(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	targetID, ok := userIDVar(w, r)
	if !ok {
		return
	}

	if err := h.SocialService.Unblock(r.Context(), userID, targetID); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
