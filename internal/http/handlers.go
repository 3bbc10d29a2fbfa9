package http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/zhangshanggaoqing-glitch/stone-record/internal/backup"
	"github.com/zhangshanggaoqing-glitch/stone-record/internal/core"
	applog "github.com/zhangshanggaoqing-glitch/stone-record/internal/log"
	"github.com/zhangshanggaoqing-glitch/stone-record/internal/report"
)

// maxImportBytes bounds backup uploads; a year of dense logging stays far
// below this.
const maxImportBytes = 8 << 20

func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	if ts, ok, err := parseMillis(r, "date"); err != nil {
		writeError(w, http.StatusBadRequest, "invalid date parameter")
		return
	} else if ok {
		s.store.SetDate(ts)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"date":    s.store.SelectedDate(),
		"records": s.store.CurrentDateRecords(),
		"report":  s.store.CurrentDateReport(),
	})
}

func (s *Server) handleAddRecord(w http.ResponseWriter, r *http.Request) {
	var in core.FluidRecord
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	in.ID = "" // ids are assigned at creation, never accepted from clients

	added, err := s.store.AddRecord(r.Context(), in)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.logger.InfoContext(r.Context(), "Record added",
		applog.FieldOperation, applog.OpCreate,
		applog.FieldRecordID, added.ID,
		applog.FieldFlowType, string(added.Type),
		applog.FieldAmount, added.Amount)
	writeJSON(w, http.StatusCreated, added)
}

func (s *Server) handleRemoveRecord(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	removed, err := s.store.RemoveRecord(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !removed {
		writeError(w, http.StatusNotFound, "record not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"balance":     s.store.TodayBalance(),
		"limitStatus": s.store.LimitStatus(),
	})
}

func (s *Server) handleTrend(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.WeeklyTrend())
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	days, ok := parseDays(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "days must be an integer between 1 and 365")
		return
	}
	writeJSON(w, http.StatusOK, s.store.RangeReport(days))
}

func (s *Server) handleReportPDF(w http.ResponseWriter, r *http.Request) {
	if s.renderer == nil {
		writeError(w, http.StatusServiceUnavailable, "pdf export is not configured")
		return
	}
	days, ok := parseDays(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "days must be an integer between 1 and 365")
		return
	}

	doc := report.BuildDocument(s.store.RangeReport(days), s.store.CategoryByID)
	data, err := s.renderer.Render(r.Context(), doc)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "PDF render failed",
			applog.FieldOperation, applog.OpRender,
			applog.FieldDays, days,
			applog.FieldError, err.Error())
		writeError(w, http.StatusBadGateway, "pdf export failed")
		return
	}

	filename := fmt.Sprintf("stone-report-%s.pdf", time.Now().Format("20060102"))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Categories())
}

func (s *Server) handleAddCategory(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Label string        `json:"label"`
		Type  core.FlowType `json:"type"`
		Icon  string        `json:"icon"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := s.store.AddCategory(r.Context(), in.Label, in.Type, in.Icon)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) handleRemoveCategory(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	removed, err := s.store.RemoveCategory(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !removed {
		writeError(w, http.StatusConflict, "category is missing or not removable")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleIcons(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, core.MedicalIcons)
}

func (s *Server) handleGetLimit(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"dailyLimit": s.store.DailyLimit(),
		"status":     s.store.LimitStatus(),
	})
}

func (s *Server) handleSetLimit(w http.ResponseWriter, r *http.Request) {
	var in struct {
		DailyLimit float64 `json:"dailyLimit"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.store.SetDailyLimit(r.Context(), in.DailyLimit); err != nil {
		writeError(w, http.StatusBadRequest, "daily limit must be a positive number")
		return
	}
	s.logger.InfoContext(r.Context(), "Daily limit updated", applog.FieldLimit, in.DailyLimit)
	writeJSON(w, http.StatusOK, map[string]float64{"dailyLimit": in.DailyLimit})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	data, err := backup.Export(s.store)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}
	filename := fmt.Sprintf("stone-backup-%s.json", time.Now().Format("20060102-150405"))
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxImportBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}
	if err := backup.Import(r.Context(), s.store, data); err != nil {
		s.logger.ErrorContext(r.Context(), "Import failed",
			applog.FieldOperation, applog.OpImport,
			applog.FieldError, err.Error())
		writeError(w, http.StatusBadRequest, "invalid backup data")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"imported": true})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "reset failed")
		return
	}
	s.logger.InfoContext(r.Context(), "All data cleared", applog.FieldOperation, applog.OpReset)
	w.WriteHeader(http.StatusNoContent)
}
