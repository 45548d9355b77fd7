package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/contractpro/contractpro/internal/middleware"
	"github.com/contractpro/contractpro/internal/service"
)

type ArchiveHandler struct {
	svc    service.ArchiveService
	logger *slog.Logger
}

func NewArchiveHandler(svc service.ArchiveService, logger *slog.Logger) *ArchiveHandler {
	return &ArchiveHandler{svc: svc, logger: logger}
}

// Upload archives a signed copy with its metadata.
func (h *ArchiveHandler) Upload(w http.ResponseWriter, r *http.Request) {
	u, _ := middleware.CurrentUser(r.Context())

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "signed copy file is required")
		return
	}
	defer file.Close()

	in := service.ArchiveUploadInput{
		ContractTitle: r.FormValue("contract_title"),
		VendorName:    r.FormValue("vendor_name"),
		SigningStatus: r.FormValue("signing_status"),
		FileName:      header.Filename,
		ContentType:   header.Header.Get("Content-Type"),
		FileSize:      header.Size,
		File:          file,
	}
	if v := r.FormValue("contract_value"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			in.ContractValue = &f
		}
	}
	if t, err := time.Parse("2006-01-02", r.FormValue("start_date")); err == nil {
		in.StartDate = &t
	}
	if t, err := time.Parse("2006-01-02", r.FormValue("end_date")); err == nil {
		in.EndDate = &t
	}

	d, err := h.svc.Upload(r.Context(), in, u.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, d)
}

// Search lists archived copies matching the query, or all when empty.
func (h *ArchiveHandler) Search(w http.ResponseWriter, r *http.Request) {
	docs, err := h.svc.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, docs)
}

// Download redirects to a presigned URL for the archived file.
func (h *ArchiveHandler) Download(w http.ResponseWriter, r *http.Request) {
	url, err := h.svc.DownloadURL(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}
