package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/roshan-abady/churnscope/pkg/domain/model"
	"github.com/roshan-abady/churnscope/pkg/domain/types"
	"github.com/roshan-abady/churnscope/pkg/service/chartimg"
	"github.com/roshan-abady/churnscope/pkg/usecase"
	"github.com/roshan-abady/churnscope/pkg/utils/apperr"
)

type handlers struct {
	catalogUC  usecase.CatalogUseCase
	analysisUC usecase.AnalysisUseCase
	presets    *model.PresetsConfig
}

// filtersResponse bundles the selectable options and the configured presets
type filtersResponse struct {
	*model.FilterOptions
	Presets []model.ViewPreset `json:"presets"`
	Date    string             `json:"default_date"`
}

// handleFilters returns the filter catalog for the dashboard controls
func (h *handlers) handleFilters(w http.ResponseWriter, r *http.Request) {
	options, err := h.catalogUC.Options(r.Context())
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	presets := h.presets.Presets
	if presets == nil {
		presets = []model.ViewPreset{}
	}

	writeJSON(r.Context(), w, http.StatusOK, filtersResponse{
		FilterOptions: options,
		Presets:       presets,
		Date:          model.DefaultAnalysisDate.Format(time.DateOnly),
	})
}

// handleRows returns the filtered raw rows for tabular display
func (h *handlers) handleRows(w http.ResponseWriter, r *http.Request) {
	date, filters, err := parseAnalysisQuery(r)
	if err != nil {
		writeJSON(r.Context(), w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	rows, err := h.analysisUC.Rows(r.Context(), date, filters)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	if rows == nil {
		rows = []model.ChurnRow{}
	}

	writeJSON(r.Context(), w, http.StatusOK, map[string]any{
		"date":  date.Format(time.DateOnly),
		"count": len(rows),
		"rows":  rows,
	})
}

// streamFrame is the SSE payload for one animation step. The full series are
// resent each frame so the client redraws the whole chart, mirroring the
// dashboard's progressive redraw.
type streamFrame struct {
	Month           int               `json:"month"`
	Progress        int               `json:"progress"`
	Done            bool              `json:"done"`
	SeriesEnd       model.ChurnSeries `json:"series_end"`
	SeriesReporting model.ChurnSeries `json:"series_reporting"`
}

// streamComplete is the terminal SSE payload of an analysis stream
type streamComplete struct {
	RunID    string `json:"run_id"`
	RowCount int    `json:"row_count"`
	Message  string `json:"message"`
}

// handleAnalysisStream runs one analysis and streams a point event per month
// offset, ending with a complete event
func (h *handlers) handleAnalysisStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSON(r.Context(), w, http.StatusInternalServerError,
			map[string]string{"error": "streaming is not supported"})
		return
	}

	date, filters, err := parseAnalysisQuery(r)
	if err != nil {
		writeJSON(r.Context(), w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ctx := r.Context()
	run, err := h.analysisUC.Run(ctx, date, filters, func(frame usecase.Frame) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		return writeEvent(w, flusher, "point", streamFrame{
			Month:           frame.State.Month,
			Progress:        frame.Progress,
			Done:            frame.Done,
			SeriesEnd:       frame.State.SeriesEnd,
			SeriesReporting: frame.State.SeriesReporting,
		})
	})
	if err != nil {
		// Headers are gone; the best we can do is log and drop the stream
		apperr.Handle(ctx, err)
		return
	}

	completion := streamComplete{
		RunID:    run.ID.String(),
		RowCount: run.RowCount,
		Message: fmt.Sprintf("Churn Rate for agreements with billing starting on %s.",
			date.Format(time.DateOnly)),
	}
	if err := writeEvent(w, flusher, "complete", completion); err != nil {
		apperr.Handle(ctx, err)
	}
}

// handleListRuns lists recorded analysis runs
func (h *handlers) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeJSON(r.Context(), w, http.StatusBadRequest,
				map[string]string{"error": "invalid limit"})
			return
		}
		limit = n
	}

	runs, err := h.analysisUC.ListRuns(r.Context(), limit)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	if runs == nil {
		runs = []*model.AnalysisRun{}
	}

	writeJSON(r.Context(), w, http.StatusOK, map[string]any{"runs": runs})
}

// handleGetRun returns one recorded run
func (h *handlers) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, err := h.analysisUC.GetRun(r.Context(), types.RunID(chi.URLParam(r, "runID")))
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, run)
}

// handleRunChart renders a recorded run as a PNG chart
func (h *handlers) handleRunChart(w http.ResponseWriter, r *http.Request) {
	run, err := h.analysisUC.GetRun(r.Context(), types.RunID(chi.URLParam(r, "runID")))
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	png, err := chartimg.Render(run)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(png); err != nil {
		apperr.Handle(r.Context(), err)
	}
}

// parseAnalysisQuery extracts the billing start date and filters from query
// parameters. A missing date falls back to the dashboard default.
func parseAnalysisQuery(r *http.Request) (time.Time, model.FilterSet, error) {
	q := r.URL.Query()

	date := model.DefaultAnalysisDate
	if v := q.Get("date"); v != "" {
		parsed, err := time.Parse(time.DateOnly, v)
		if err != nil {
			return time.Time{}, model.FilterSet{}, goerr.Wrap(err, "invalid date parameter",
				goerr.V("date", v))
		}
		date = parsed
	}

	filters := model.NewFilterSet(
		q.Get("product_group"),
		q.Get("channel"),
		q.Get("team"),
	)

	return date, filters, nil
}

// writeEvent writes one SSE event and flushes it to the client
func writeEvent(w http.ResponseWriter, flusher http.Flusher, event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return goerr.Wrap(err, "failed to marshal SSE payload", goerr.V("event", event))
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return goerr.Wrap(err, "failed to write SSE event", goerr.V("event", event))
	}
	flusher.Flush()
	return nil
}
