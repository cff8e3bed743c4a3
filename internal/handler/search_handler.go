package handlers

import (
	"net/http"

	"sugurico/internal/search"
)

// Search runs the public search. Advanced filters are honoured only for
// premium callers; everyone else gets them reset to defaults.
func (h *Handlers) Search(w http.ResponseWriter, r *http.Request) {
	viewerID := UserID(r)

	premium := false
	if viewerID != "" {
		var err error
		if premium, err = h.PremiumService.IsPremium(r.Context(), viewerID); err != nil {
			h.writeServiceError(w, r, err)
			return
		}
	}

	params, err := search.ParseSearch(r.URL.Query(), premium)
	if err != nil {
		WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.ListingService.Search(r.Context(), viewerID, params)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, result, http.StatusOK)
}

func (h *Handlers) Feed(w http.ResponseWriter, r *http.Request) {
	feed, err := h.ListingService.Feed(r.Context(), UserID(r))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, feed, http.StatusOK)
}

func (h *Handlers) Bookmarks(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	list, err := h.ListingService.Bookmarks(r.Context(), userID, search.ParsePage(r.URL.Query()))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, list, http.StatusOK)
}
