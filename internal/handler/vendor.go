package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/contractpro/contractpro/internal/middleware"
	"github.com/contractpro/contractpro/internal/service"
	"github.com/contractpro/contractpro/internal/workflow"
)

type VendorHandler struct {
	svc    service.VendorService
	flow   *workflow.Service
	logger *slog.Logger
}

func NewVendorHandler(svc service.VendorService, flow *workflow.Service, logger *slog.Logger) *VendorHandler {
	return &VendorHandler{svc: svc, flow: flow, logger: logger}
}

// Create provisions a vendor portal account. Admin only.
func (h *VendorHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.CreateVendorInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	u, err := h.svc.Create(r.Context(), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, u)
}

// MyContracts lists the contracts waiting on the calling vendor.
func (h *VendorHandler) MyContracts(w http.ResponseWriter, r *http.Request) {
	u, _ := middleware.CurrentUser(r.Context())
	contracts, err := h.svc.PendingContracts(r.Context(), u.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, contracts)
}

// SubmitFeedback resubmits a contract the vendor was asked to revise. The
// contract returns to review with its uploader as handler.
func (h *VendorHandler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	u, _ := middleware.CurrentUser(r.Context())

	var req struct {
		Comments string `json:"comments"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	contractID := chi.URLParam(r, "id")
	if err := h.flow.VendorResubmit(r.Context(), contractID, u.ID, req.Comments); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "feedback submitted"})
}

func (h *VendorHandler) Profile(w http.ResponseWriter, r *http.Request) {
	u, _ := middleware.CurrentUser(r.Context())
	profile, err := h.svc.Profile(r.Context(), u.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

func (h *VendorHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	u, _ := middleware.CurrentUser(r.Context())

	var req service.UpdateProfileInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	profile, err := h.svc.UpdateProfile(r.Context(), u.ID, req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

func (h *VendorHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	u, _ := middleware.CurrentUser(r.Context())

	var req struct {
		OldPassword string `json:"old_password"`
		NewPassword string `json:"new_password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	if err := h.svc.ChangePassword(r.Context(), u.ID, req.OldPassword, req.NewPassword); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}
