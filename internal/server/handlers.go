package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/agrisurvey/soilreport/internal/ingest"
	"github.com/agrisurvey/soilreport/internal/report"
	"github.com/agrisurvey/soilreport/internal/store"
	"github.com/agrisurvey/soilreport/internal/table"
)

// generateTimeout bounds background report generation.
const generateTimeout = 10 * time.Minute

func (s *Server) handleListStandards(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"standards": s.registry.List(),
		"active":    s.registry.ActiveID(),
	})
}

func (s *Server) handleGetStandard(w http.ResponseWriter, r *http.Request) {
	std, err := s.registry.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "unknown standard")
		return
	}
	writeJSON(w, http.StatusOK, std)
}

func (s *Server) handleSetActiveStandard(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}
	if !s.registry.SetActive(req.ID) {
		writeError(w, http.StatusNotFound, "unknown standard")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"active": req.ID})
}

func (s *Server) handleCreateReport(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string   `json:"name"`
		StandardID  string   `json:"standard_id"`
		MappedFiles []string `json:"mapped_files"`
		SampleFiles []string `json:"sample_files"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.MappedFiles) == 0 && len(req.SampleFiles) == 0 {
		writeError(w, http.StatusBadRequest, "at least one input file is required")
		return
	}

	stdID := req.StandardID
	if stdID == "" {
		stdID = s.registry.ActiveID()
	}
	std, err := s.registry.Get(stdID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unknown standard")
		return
	}

	rec, err := s.store.CreateReport(r.Context(), req.Name, std.ID)
	if err != nil {
		zap.L().Error("server: create report", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not create report")
		return
	}

	// Generation runs detached from the request.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), generateTimeout)
		defer cancel()
		s.generate(ctx, rec.ID, std.ID, req.MappedFiles, req.SampleFiles)
	}()

	writeJSON(w, http.StatusAccepted, rec)
}

func (s *Server) generate(ctx context.Context, id, stdID string, mappedFiles, sampleFiles []string) {
	// Status writes survive the generation deadline: a report that timed out
	// must still reach a terminal state for polling clients.
	statusCtx := func() (context.Context, context.CancelFunc) {
		return context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
	}

	fail := func(err error) {
		zap.L().Error("server: report generation failed",
			zap.String("report", id),
			zap.Error(err),
		)
		sctx, cancel := statusCtx()
		defer cancel()
		if ferr := s.store.FailReport(sctx, id, err.Error()); ferr != nil {
			zap.L().Error("server: record failure", zap.String("report", id), zap.Error(ferr))
		}
	}

	std, err := s.registry.Get(stdID)
	if err != nil {
		fail(err)
		return
	}

	var mapped, sample *table.Table
	if len(mappedFiles) > 0 {
		if mapped, err = ingest.LoadAll(mappedFiles); err != nil {
			fail(err)
			return
		}
	}
	if len(sampleFiles) > 0 {
		if sample, err = ingest.LoadAll(sampleFiles); err != nil {
			fail(err)
			return
		}
	}

	rpt, err := report.NewGenerator(std).
		WithConcurrency(s.concurrency).
		Generate(ctx, mapped, sample)
	if err != nil {
		fail(err)
		return
	}
	sctx, cancel := statusCtx()
	defer cancel()
	if err := s.store.CompleteReport(sctx, id, rpt); err != nil {
		zap.L().Error("server: save report", zap.String("report", id), zap.Error(err))
		return
	}
	zap.L().Info("server: report complete",
		zap.String("report", id),
		zap.Int("attributes", len(rpt.Attributes)),
	)
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	filter := store.ReportFilter{
		Status: store.ReportStatus(r.URL.Query().Get("status")),
	}
	records, err := s.store.ListReports(r.Context(), filter)
	if err != nil {
		zap.L().Error("server: list reports", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not list reports")
		return
	}
	// Listings stay light; results are fetched per report.
	for i := range records {
		records[i].Result = nil
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.GetReport(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if eris.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "report not found")
			return
		}
		zap.L().Error("server: get report", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not load report")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleListRegions(w http.ResponseWriter, r *http.Request) {
	regions, err := s.store.ListRegions(r.Context())
	if err != nil {
		zap.L().Error("server: list regions", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not list regions")
		return
	}
	writeJSON(w, http.StatusOK, regions)
}

func (s *Server) handleUpsertRegion(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name   string `json:"name"`
		Parent string `json:"parent"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	region, err := s.store.UpsertRegion(r.Context(), req.Name, req.Parent)
	if err != nil {
		zap.L().Error("server: upsert region", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not save region")
		return
	}
	writeJSON(w, http.StatusOK, region)
}

func (s *Server) handleDeleteRegion(w http.ResponseWriter, r *http.Request) {
	err := s.store.DeleteRegion(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if eris.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "region not found")
			return
		}
		zap.L().Error("server: delete region", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not delete region")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("server: encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
