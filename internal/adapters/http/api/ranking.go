package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/okian/hiscore/internal/adapters/input"
	"github.com/okian/hiscore/pkg/logger"
	"github.com/okian/hiscore/pkg/metrics"
)

// RankingHandler serves the upload endpoints.
type RankingHandler struct {
	deps Dependencies
	opts options
}

// NewRankingHandler creates a new ranking handler.
func NewRankingHandler(deps Dependencies, opts options) *RankingHandler {
	return &RankingHandler{deps: deps, opts: opts}
}

// HandleCalculate handles POST /ranking/calculate and renders the result
// view. Errors are rendered in the view as well, with status 200.
func (h *RankingHandler) HandleCalculate(w http.ResponseWriter, r *http.Request) {
	const op = "api.ranking_calculate"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	rows, err := h.compute(w, r, op)
	if err != nil {
		// The form always gets a page back; the mapped status is only
		// exposed by the JSON endpoint.
		renderResult(w, http.StatusOK, resultView{Error: classify(err).message})
		return
	}
	renderResult(w, http.StatusOK, resultView{Rankings: rows})
}

// HandleRankings handles POST /api/rankings and answers with JSON.
func (h *RankingHandler) HandleRankings(w http.ResponseWriter, r *http.Request) {
	const op = "api.rankings"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	rows, err := h.compute(w, r, op)
	if err != nil {
		f := classify(err)
		writeError(w, f.status, f.code, f.message)
		return
	}
	writeJSON(w, http.StatusOK, rankingsResponse{Rankings: rows})
}

func (h *RankingHandler) compute(w http.ResponseWriter, r *http.Request, op string) ([]Entry, error) {
	ctx := r.Context()
	reqID := uuid.NewString()
	w.Header().Set("X-Request-Id", reqID)

	files, err := stageUploads(ctx, w, r, h.opts.maxUploadBytes, h.opts.tempDir)
	defer files.remove()
	if err != nil {
		h.logFailure(ctx, op, reqID, err)
		return nil, err
	}

	rows, err := h.deps.RankFiles(ctx, files.entry, files.score)
	if err != nil {
		h.logFailure(ctx, op, reqID, err)
		return nil, err
	}
	h.opts.logger.Info(ctx, "ranking served",
		logger.String("op", op),
		logger.String("requestID", reqID),
		logger.Int("rows", len(rows)),
	)
	if rows == nil {
		rows = []Entry{}
	}
	return rows, nil
}

func (h *RankingHandler) logFailure(ctx context.Context, op, reqID string, err error) {
	f := classify(err)
	fields := []logger.Field{
		logger.String("requestID", reqID),
		logger.Int("status", f.status),
		logger.Error(Wrap(op, err)),
	}
	metrics.RecordErrorByComponent("api", f.code)
	if f.status >= http.StatusInternalServerError {
		h.opts.logger.Error(ctx, "ranking request failed", fields...)
		return
	}
	h.opts.logger.Warn(ctx, "ranking request rejected", fields...)
}

// failure is the client-facing form of an error.
type failure struct {
	status  int
	code    string
	message string
}

// classify maps an error to a status, a stable code, and a message that is
// safe to show to the user.
func classify(err error) failure {
	switch {
	case errors.Is(err, ErrMissingFile):
		return failure{http.StatusBadRequest, "missing_file", "No file was uploaded. " + ErrMissingFile.Error() + "."}
	case errors.Is(err, ErrUploadTooLarge):
		return failure{http.StatusBadRequest, "upload_too_large", "The upload is too large."}
	case errors.Is(err, ErrBadRequest):
		return failure{http.StatusBadRequest, "bad_request", "The upload could not be read."}
	case errors.Is(err, input.ErrInvalidFormat):
		return failure{http.StatusUnprocessableEntity, "invalid_format", causeOf(err).Error()}
	default:
		return failure{http.StatusInternalServerError, "internal_error", fmt.Sprintf("an error occurred: %v", causeOf(err))}
	}
}

// causeOf strips the operation prefix added by this package.
func causeOf(err error) error {
	var oe *opError
	if errors.As(err, &oe) && oe.err != nil {
		return oe.err
	}
	return err
}
