package handler

import (
	"net/http"
	"strconv"

	"github.com/contractpro/contractpro/internal/storage"
)

const defaultFeedLimit = 50

type NotificationHandler struct {
	ledger storage.NotificationStorage
}

func NewNotificationHandler(ledger storage.NotificationStorage) *NotificationHandler {
	return &NotificationHandler{ledger: ledger}
}

// Feed returns the most recent dispatch records.
func (h *NotificationHandler) Feed(w http.ResponseWriter, r *http.Request) {
	limit := defaultFeedLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}

	records, err := h.ledger.Recent(r.Context(), limit)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, records)
}
