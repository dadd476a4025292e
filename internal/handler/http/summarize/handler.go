// Package summarize exposes the summarization pipeline over HTTP.
package summarize

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"tweet-takeaways/internal/domain/entity"
	"tweet-takeaways/internal/handler/http/respond"
	"tweet-takeaways/internal/observability/logging"
)

// Pipeline runs a summarization. Both methods always return a displayable
// result.
type Pipeline interface {
	Summarize(ctx context.Context, req entity.SummarizationRequest) entity.SummaryResult
	ForceRemote(ctx context.Context, req entity.SummarizationRequest) entity.SummaryResult
}

// Handler serves POST /summarize, or POST /summarize/hf when Forced is set.
type Handler struct {
	Svc    Pipeline
	Forced bool
}

func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var body Request
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.SafeError(w, http.StatusRequestEntityTooLarge, errors.New("request body too large"))
			return
		}
		respond.SafeError(w, http.StatusBadRequest, errors.New("invalid JSON request body"))
		return
	}

	req, err := entity.NewSummarizationRequest(body.URL)
	if err != nil {
		var ve *entity.ValidationError
		if errors.As(err, &ve) {
			respond.JSON(w, http.StatusBadRequest, map[string]string{"error": ve.Message})
			return
		}
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	logger := logging.FromContext(r.Context())
	logger.Info("summarize request",
		slog.String("url", req.URL()),
		slog.Bool("forced", h.Forced))

	var res entity.SummaryResult
	if h.Forced {
		res = h.Svc.ForceRemote(r.Context(), req)
	} else {
		res = h.Svc.Summarize(r.Context(), req)
	}
	respond.JSON(w, http.StatusOK, toResponse(res))
}
