package seeding

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/EmpoweredVote/demo-seeder/internal/fixtures"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Runner is satisfied by *Seeder.
type Runner interface {
	Run(ctx context.Context, set fixtures.Set) (Summary, error)
}

type Handler struct {
	Runner   Runner
	Fixtures fixtures.Set
	Logger   *zap.SugaredLogger
}

type seedResponse struct {
	Message string   `json:"message"`
	Summary *Summary `json:"summary,omitempty"`
}

type errorDetail struct {
	Kind   Kind   `json:"kind"`
	Step   string `json:"step"`
	Detail string `json:"detail"`
}

type errorResponse struct {
	Error errorDetail `json:"error"`
}

// SeedHandler runs the seed once per request. The run is detached from the
// request so a client hanging up cannot abort it halfway.
func (h *Handler) SeedHandler(w http.ResponseWriter, r *http.Request) {
	ctx := context.WithoutCancel(r.Context())

	summary, err := h.Runner.Run(ctx, h.Fixtures)
	if err != nil {
		detail := errorDetail{Kind: KindTransport, Detail: err.Error()}
		var se *SeedError
		if errors.As(err, &se) {
			detail = errorDetail{Kind: se.Kind, Step: se.Step, Detail: se.Err.Error()}
		}
		if h.Logger != nil {
			h.Logger.Errorw("seed request failed",
				"request_id", chimiddleware.GetReqID(r.Context()),
				"kind", detail.Kind, "step", detail.Step, "error", err)
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: detail})
		return
	}

	writeJSON(w, http.StatusOK, seedResponse{
		Message: "Database seeded successfully",
		Summary: &summary,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
