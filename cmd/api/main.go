// Command api serves a minimal read-only JSON status API over the persisted
// calibration state, for scripts and CI gates that only need verdicts.
package main

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"judgefit/adapters/file"
	"judgefit/app"
	"judgefit/internal"
	"judgefit/internal/config"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	logger := internal.NewDefaultLogger()
	learner := app.NewLearnerService(
		file.NewPatternStore(cfg.Paths.PatternFile),
		file.NewProposalStore(cfg.Paths.ProposalFile),
		cfg.Calibration,
		logger,
	)
	monitor := app.NewMonitorService(
		file.NewHistoryStore(cfg.Paths.HistoryFile),
		cfg.Calibration,
		logger,
	)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/api/status", func(w http.ResponseWriter, req *http.Request) {
		ctx := req.Context()
		div, err := monitor.CheckDivergence(ctx)
		if err != nil {
			httpError(w, err)
			return
		}
		conv, err := monitor.CheckConvergence(ctx)
		if err != nil {
			httpError(w, err)
			return
		}
		trend, err := monitor.Trend(ctx)
		if err != nil {
			httpError(w, err)
			return
		}
		writeJSON(w, map[string]interface{}{
			"divergence":  div,
			"convergence": conv,
			"trend":       trend,
		})
	})

	r.Get("/api/patterns", func(w http.ResponseWriter, req *http.Request) {
		store, err := learner.Store(req.Context())
		if err != nil {
			httpError(w, err)
			return
		}
		writeJSON(w, map[string]interface{}{"active": store.Active()})
	})

	r.Get("/api/history", func(w http.ResponseWriter, req *http.Request) {
		metrics, err := monitor.Metrics(req.Context())
		if err != nil {
			httpError(w, err)
			return
		}
		writeJSON(w, map[string]interface{}{"iterations": metrics})
	})

	addr := ":" + cfg.Server.Port
	logger.Info("status API listening on %s", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		internal.DefaultLogger.Error("failed to encode response: %v", err)
	}
}

func httpError(w http.ResponseWriter, err error) {
	http.Error(w, err.Error(), http.StatusInternalServerError)
}
