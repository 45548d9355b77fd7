package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/contractpro/contractpro/internal/model"
	"github.com/contractpro/contractpro/internal/reports"
)

type ReportHandler struct {
	svc    *reports.Service
	logger *slog.Logger
}

func NewReportHandler(svc *reports.Service, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{svc: svc, logger: logger}
}

// Register streams the contract register as an xlsx download.
func (h *ReportHandler) Register(w http.ResponseWriter, r *http.Request) {
	var filter reports.Filter
	if v := r.URL.Query().Get("status"); v != "" {
		st, err := model.ParseContractStatus(v)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		filter.Status = &st
	}
	if t, err := time.Parse("2006-01-02", r.URL.Query().Get("from")); err == nil {
		filter.From = &t
	}
	if t, err := time.Parse("2006-01-02", r.URL.Query().Get("to")); err == nil {
		filter.To = &t
	}

	f, err := h.svc.Register(r.Context(), filter)
	if err != nil {
		h.logger.Error("Register export failed", slog.Any("error", err))
		respondServiceError(w, err)
		return
	}
	h.stream(w, "contract_register", f)
}

// Summary streams the status-breakdown workbook.
func (h *ReportHandler) Summary(w http.ResponseWriter, r *http.Request) {
	f, err := h.svc.Summary(r.Context())
	if err != nil {
		h.logger.Error("Summary export failed", slog.Any("error", err))
		respondServiceError(w, err)
		return
	}
	h.stream(w, "contract_summary", f)
}

func (h *ReportHandler) stream(w http.ResponseWriter, name string, f *excelize.File) {
	defer f.Close()

	filename := fmt.Sprintf("%s_%s.xlsx", name, time.Now().Format("20060102"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, filename))
	if err := f.Write(w); err != nil {
		h.logger.Error("Failed to stream report", slog.Any("error", err))
	}
}
