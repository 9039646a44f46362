package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/matt-g-everett/cmdcenter/stream"
)

const shutdownTimeout = 5 * time.Second

// FrameSource supplies the latest dashboard frame, nil before the first one.
type FrameSource interface {
	Frame() *stream.Frame
}

// Api serves the dashboard client and the latest frame over HTTP.
type Api struct {
	listen string
	static string
	frames FrameSource
	logger *zap.SugaredLogger
}

// NewApi creates an instance of an Api.
func NewApi(config stream.ApiConfig, frames FrameSource, logger *zap.SugaredLogger) *Api {
	a := new(Api)
	a.listen = config.Listen
	a.static = config.Static
	a.frames = frames
	a.logger = logger
	if a.logger == nil {
		a.logger = zap.NewNop().Sugar()
	}
	return a
}

// Handler returns the HTTP routes.
func (a *Api) Handler() http.Handler {
	mux := http.NewServeMux()
	if a.static != "" {
		mux.Handle("/", http.FileServer(http.Dir(a.static)))
	}
	mux.HandleFunc("/api/frame", a.handleFrame)
	mux.HandleFunc("/healthz", a.handleHealth)
	return mux
}

func (a *Api) handleFrame(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	f := a.frames.Frame()
	if f == nil {
		http.Error(w, "no frame yet", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	if err := json.NewEncoder(w).Encode(f); err != nil {
		a.logger.Warnw("write frame", "error", err)
	}
}

func (a *Api) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte("ok\n"))
}

// Serve listens until ctx is cancelled.
func (a *Api) Serve(ctx context.Context) error {
	server := &http.Server{
		Addr:              a.listen,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		a.logger.Infow("listening", "addr", a.listen, "static", a.static)
		errs <- server.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return errors.Wrapf(err, "serve %s", a.listen)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return errors.Wrap(server.Shutdown(shutdownCtx), "shutdown http server")
	}
}
