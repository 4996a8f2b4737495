package health

import (
	"context"
	"encoding/json"
	"net/http"

	"mercator-hq/statsrender/pkg/config"
)

// LivenessHandler serves the liveness probe. It always answers 200 while the
// process can handle requests.
func (c *Checker) LivenessHandler() http.HandlerFunc {
	return c.probeHandler(c.Liveness)
}

// ReadinessHandler serves the readiness probe.
//
// Returns:
//   - 200 OK: every check passed
//   - 503 Service Unavailable: at least one check failed
//
// Example response (not ready):
//
//	{
//	    "status": "not_ready",
//	    "checks": [
//	        {"name": "flush", "status": "unhealthy", "message": "no histogram flush yet", "duration_ns": 1200}
//	    ],
//	    "timestamp": "2026-10-16T10:30:00Z"
//	}
func (c *Checker) ReadinessHandler() http.HandlerFunc {
	return c.probeHandler(c.Readiness)
}

func (c *Checker) probeHandler(probe func(context.Context) Report) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		report := probe(r.Context())

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		if report.Ready() {
			w.WriteHeader(http.StatusOK)
		} else {
			w.WriteHeader(http.StatusServiceUnavailable)
		}

		if r.Method != http.MethodHead {
			_ = json.NewEncoder(w).Encode(report)
		}
	}
}

// Mount registers the liveness and readiness handlers on mux at the paths
// named in cfg.
func (c *Checker) Mount(mux *http.ServeMux, cfg config.HealthConfig) {
	mux.Handle(cfg.LivenessPath, c.LivenessHandler())
	mux.Handle(cfg.ReadinessPath, c.ReadinessHandler())
}
