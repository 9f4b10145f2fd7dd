package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	rferrors "github.com/rowfit/rowfit/pkg/errors"
	"github.com/rowfit/rowfit/pkg/pipeline"
)

// legalizeRequest is the JSON body of POST /api/v1/legalize: the five
// Bookshelf payloads plus the tunables.
type legalizeRequest struct {
	Design        string  `json:"design"`
	Nodes         string  `json:"nodes"`
	Nets          string  `json:"nets"`
	Wts           string  `json:"wts"`
	Pl            string  `json:"pl"`
	Scl           string  `json:"scl"`
	Slack         float64 `json:"slack,omitempty"`
	MaxIterations int     `json:"max_iterations,omitempty"`
	SkipRefine    bool    `json:"skip_refine,omitempty"`
}

// legalizeResponse is the success body: the run metrics plus the
// legalized .pl payload.
type legalizeResponse struct {
	pipeline.Result
	Pl string `json:"pl"`
}

// errorResponse is the JSON error body.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// newServeCmd creates the serve command: the same pipeline the CLI runs,
// behind a small HTTP API.
func newServeCmd() *cobra.Command {
	var (
		addr     string
		backends backendFlags
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the legalization pipeline over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), addr, &backends)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	backends.register(cmd)
	return cmd
}

func runServe(ctx context.Context, addr string, backends *backendFlags) error {
	logger := loggerFromContext(ctx)

	cfg, err := backends.load()
	if err != nil {
		return err
	}
	resultCache, err := backends.openCache(ctx, logger)
	if err != nil {
		return err
	}
	defer resultCache.Close()

	historyStore, err := backends.openHistory(ctx, logger)
	if err != nil {
		return err
	}
	if historyStore != nil {
		defer historyStore.Close(context.WithoutCancel(ctx))
	}

	runner := pipeline.NewRunner(resultCache, historyStore, logger)
	srv := &server{
		runner:   runner,
		logger:   logger,
		cacheTTL: cfg.CacheTTL.Std(),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Get("/healthz", srv.handleHealth)
	r.Post("/api/v1/legalize", srv.handleLegalize)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	logger.Info("serving", "addr", addr)
	if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// server holds the handlers' shared state.
type server struct {
	runner   *pipeline.Runner
	logger   *log.Logger
	cacheTTL time.Duration
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleLegalize materializes the posted bundle in a scratch directory,
// runs the pipeline on it, and returns the legalized .pl with the run
// metrics. The scratch directory is removed when the request finishes.
func (s *server) handleLegalize(w http.ResponseWriter, r *http.Request) {
	var req legalizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	if req.Design == "" {
		req.Design = "design"
	}
	if err := rferrors.ValidateDesignName(req.Design); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	dir, err := os.MkdirTemp("", "rowfit-serve-")
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	defer os.RemoveAll(dir)

	prefix := filepath.Join(dir, req.Design)
	aux := fmt.Sprintf("RowBasedPlacement : %s.nodes %s.nets %s.wts %s.pl %s.scl\n",
		req.Design, req.Design, req.Design, req.Design, req.Design)
	files := map[string]string{
		".aux":   aux,
		".nodes": req.Nodes,
		".nets":  req.Nets,
		".wts":   req.Wts,
		".pl":    req.Pl,
		".scl":   req.Scl,
	}
	for ext, content := range files {
		if err := os.WriteFile(prefix+ext, []byte(content), 0644); err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
	}

	outPrefix := filepath.Join(dir, "out")
	result, err := s.runner.Execute(r.Context(), pipeline.Options{
		InputPrefix:   prefix,
		OutputPrefix:  outPrefix,
		Slack:         req.Slack,
		MaxIterations: req.MaxIterations,
		SkipRefine:    req.SkipRefine,
		CacheTTL:      s.cacheTTL,
	})
	if err != nil {
		status := http.StatusInternalServerError
		switch rferrors.GetCode(err) {
		case rferrors.ErrCodeParse, rferrors.ErrCodeAuxIncomplete, rferrors.ErrCodeInvalidInput, rferrors.ErrCodeInvalidPrefix:
			status = http.StatusUnprocessableEntity
		}
		writeError(w, status, err)
		return
	}

	pl, err := os.ReadFile(outPrefix + ".pl")
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, legalizeResponse{Result: *result, Pl: string(pl)})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{
		Error: rferrors.UserMessage(err),
		Code:  string(rferrors.GetCode(err)),
	})
}
