package handler

import (
	"context"
	"net/http"
	"time"
)

// Pinger is implemented by backend clients that can verify their
// connection is alive.
type Pinger interface {
	Ping(ctx context.Context) error
}

const readinessTimeout = 2 * time.Second

type HealthResponse struct {
	Status string `json:"status"`
}

type ReadinessResponse struct {
	Status   string            `json:"status"`
	Backends map[string]string `json:"backends"`
}

// Health is the liveness probe. It answers as long as the process runs.
func Health(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
	})
}

// Readiness returns a handler that pings each named backend and reports
// per-backend status. Any failing backend turns the response into a 503.
func Readiness(backends map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		resp := ReadinessResponse{
			Status:   "ok",
			Backends: make(map[string]string, len(backends)),
		}
		status := http.StatusOK

		for name, p := range backends {
			if err := p.Ping(ctx); err != nil {
				resp.Backends[name] = err.Error()
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Backends[name] = "ok"
		}

		JSON(w, status, resp)
	}
}
