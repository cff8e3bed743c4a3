package handlers

import (
	"net/http"

	"sugurico/internal/service"
)

type SubscribeRequest struct {
	StepUpToken string `json:"stepUpToken" validate:"required"`
	Plan        string `json:"plan" validate:"required,oneof=monthly yearly"`
	CardNumber  string `json:"cardNumber" validate:"required"`
	Expiry      string `json:"expiry" validate:"required"`
}

func (h *Handlers) PremiumStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	status, err := h.PremiumService.Status(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, status, http.StatusOK)
}

// VerifyPremiumPassword is the step-up check in front of the payment form.
func (h *Handlers) VerifyPremiumPassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req struct {
		Password string `json:"password" validate:"required"`
	}
	if !h.decodeJSON(w, r, &req) {
		return
	}

	token, err := h.PremiumService.VerifyPassword(r.Context(), userID, req.Password)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, map[string]string{"stepUpToken": token}, http.StatusOK)
}

func (h *Handlers) Subscribe(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req SubscribeRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	premium, err := h.PremiumService.Subscribe(r.Context(), userID, service.SubscribeRequest{
		StepUpToken: req.StepUpToken,
		Plan:        req.Plan,
		CardNumber:  req.CardNumber,
		Expiry:      req.Expiry,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, map[string]interface{}{
		"message": "プレミアム会員登録が完了しました！",
		"premium": premium,
	}, http.StatusOK)
}

func (h *Handlers) CancelPremium(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	if err := h.PremiumService.Cancel(r.Context(), userID); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, MessageResponse{Message: "プレミアム会員を解約しました。"}, http.StatusOK)
}
