package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/dustin/go-humanize"

	"sugurico/internal/editor"
	"sugurico/internal/search"
	"sugurico/internal/service"
)

// room for the form fields on top of the largest allowed image set
const multipartOverhead = 1 << 20

func (h *Handlers) CreatePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	form, ok := h.parsePostForm(w, r)
	if !ok {
		return
	}

	post, err := h.PostService.CreatePost(r.Context(), userID, form)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, post, http.StatusCreated)
}

func (h *Handlers) UpdatePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	forumID, ok := forumIDVar(w, r)
	if !ok {
		return
	}

	form, ok := h.parsePostForm(w, r)
	if !ok {
		return
	}

	post, err := h.PostService.UpdatePost(r.Context(), userID, forumID, form)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, post, http.StatusOK)
}

func (h *Handlers) GetPost(w http.ResponseWriter, r *http.Request) {
	forumID, ok := forumIDVar(w, r)
	if !ok {
		return
	}

	post, err := h.PostService.GetPost(r.Context(), UserID(r), forumID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, post, http.StatusOK)
}

func (h *Handlers) DeletePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	forumID, ok := forumIDVar(w, r)
	if !ok {
		return
	}

	if err := h.PostService.DeletePost(r.Context(), userID, forumID); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) AddBookmark(w http.ResponseWriter, r *http.Request) {
	h.bookmark(w, r, h.SocialService.AddBookmark)
}

func (h *Handlers) RemoveBookmark(w http.ResponseWriter, r *http.Request) {
	h.bookmark(w, r, h.SocialService.RemoveBookmark)
}

func (h *Handlers) bookmark(w http.ResponseWriter, r *http.Request, apply func(ctx context.Context, userID string, forumID int64) error) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	forumID, ok := forumIDVar(w, r)
	if !ok {
		return
	}

	if err := apply(r.Context(), userID, forumID); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// parsePostForm reads the multipart editor submit. Tags and delete_image_ids
// may be repeated or comma separated.
func (h *Handlers) parsePostForm(w http.ResponseWriter, r *http.Request) (service.PostForm, bool) {
	maxBody := h.Cfg.MaxUploadSize*int64(editor.PremiumImageLimit) + multipartOverhead
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)

	if err := r.ParseMultipartForm(h.Cfg.MaxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteError(w, fmt.Sprintf("送信サイズが大きすぎます (最大 %s)", humanize.Bytes(uint64(maxBody))), http.StatusRequestEntityTooLarge)
		} else {
			WriteError(w, "フォームの読み込みに失敗しました。", http.StatusBadRequest)
		}
		return service.PostForm{}, false
	}

	form := service.PostForm{
		Title: r.FormValue("title"),
		Text:  r.FormValue("text"),
		Expiry: editor.ExpiryChoice{
			Expire:   r.FormValue("expire"),
			ExpireAt: r.FormValue("expire_at"),
			Private:  isChecked(r.FormValue("private")),
		},
		Tags: search.SplitList(r.MultipartForm.Value["tags"]...),
	}

	for _, raw := range search.SplitList(r.MultipartForm.Value["delete_image_ids"]...) {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			WriteError(w, "削除する画像の指定が不正です。", http.StatusBadRequest)
			return service.PostForm{}, false
		}
		form.DeleteImageIDs = append(form.DeleteImageIDs, id)
	}

	for _, fh := range r.MultipartForm.File["images"] {
		form.Files = append(form.Files, uploadFromHeader(fh))
	}

	return form, true
}

func uploadFromHeader(fh *multipart.FileHeader) editor.Upload {
	return editor.Upload{
		FileName:    fh.Filename,
		Size:        fh.Size,
		ContentType: fh.Header.Get("Content-Type"),
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}

func isChecked(value string) bool {
	switch value {
	case "1", "true", "on":
		return true
	}
	return false
}
