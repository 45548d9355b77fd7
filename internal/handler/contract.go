package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/contractpro/contractpro/internal/middleware"
	"github.com/contractpro/contractpro/internal/model"
	"github.com/contractpro/contractpro/internal/service"
	"github.com/contractpro/contractpro/internal/workflow"
)

const maxUploadSize = 50 << 20 // 50 MiB

type ContractHandler struct {
	svc    service.ContractService
	flow   *workflow.Service
	logger *slog.Logger
}

func NewContractHandler(svc service.ContractService, flow *workflow.Service, logger *slog.Logger) *ContractHandler {
	return &ContractHandler{svc: svc, flow: flow, logger: logger}
}

func (h *ContractHandler) List(w http.ResponseWriter, r *http.Request) {
	contracts, err := h.svc.List(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, contracts)
}

func (h *ContractHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

// Upload accepts a multipart form with the contract file and metadata, and
// routes the contract to its first reviewer.
func (h *ContractHandler) Upload(w http.ResponseWriter, r *http.Request) {
	u, _ := middleware.CurrentUser(r.Context())

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "contract file is required")
		return
	}
	defer file.Close()

	in := service.UploadInput{
		Title:       r.FormValue("title"),
		Category:    r.FormValue("category"),
		VendorName:  r.FormValue("vendor_name"),
		ReviewerID:  r.FormValue("reviewer_id"),
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		FileSize:    header.Size,
		File:        file,
	}
	if v := r.FormValue("contract_value"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			in.ContractValue = &f
		}
	}
	if v := r.FormValue("sla_days"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			in.SLADays = n
		}
	}

	c, err := h.svc.Upload(r.Context(), in, u.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, c)
}

// SubmitReview records the current handler's decision on a contract.
func (h *ContractHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	u, _ := middleware.CurrentUser(r.Context())

	var req struct {
		Action         string `json:"action"`
		NextReviewerID string `json:"next_reviewer_id,omitempty"`
		Comments       string `json:"comments,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	action, err := model.ParseReviewAction(req.Action)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	contractID := chi.URLParam(r, "id")
	if err := h.flow.SubmitReview(r.Context(), contractID, u.ID, action, req.NextReviewerID, req.Comments); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "review recorded"})
}

func (h *ContractHandler) Activities(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.Activities(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

func (h *ContractHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	u, _ := middleware.CurrentUser(r.Context())

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	status, err := model.ParseContractStatus(req.Status)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.svc.SetStatus(r.Context(), chi.URLParam(r, "id"), u.ID, status); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// Download redirects to a short-lived presigned URL for the latest version.
func (h *ContractHandler) Download(w http.ResponseWriter, r *http.Request) {
	url, err := h.svc.DownloadURL(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

func (h *ContractHandler) DashboardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}
