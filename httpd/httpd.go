// Package httpd bridges HTTP requests into the interpreter. GET and POST
// requests call the global procedures httpd-get and httpd-post with the
// request path and body, and the procedure's result becomes the response.
package httpd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/sergev/minilisp/lang"
	"github.com/sergev/minilisp/runtime"
)

const (
	maxBodySize     = 1 << 20
	shutdownTimeout = 5 * time.Second
)

var handlers = map[string]string{
	http.MethodGet:  "httpd-get",
	http.MethodPost: "httpd-post",
}

// Handler serves requests by calling into a shared host.
type Handler struct {
	host   *runtime.Host
	logger *log.Logger
}

// New returns a handler evaluating requests on host.
func New(host *runtime.Host, logger *log.Logger) *Handler {
	return &Handler{host: host, logger: logger}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name, ok := handlers[r.Method]
	if !ok {
		w.Header().Set("Allow", "GET, POST")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		h.logger.Printf("%s %s: reading body: %v", r.Method, r.URL.Path, err)
		http.Error(w, "cannot read request body", http.StatusBadRequest)
		return
	}
	body := lang.Nil()
	if len(data) > 0 {
		body = lang.StringValue(string(data))
	}

	result := h.host.Call(name, lang.StringValue(r.URL.Path), body)
	h.logger.Printf("%s %s -> %s", r.Method, r.URL.Path, result)

	status := http.StatusOK
	if result.IsError() {
		status = http.StatusInternalServerError
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	if result.Type == lang.TypeString || result.Type == lang.TypeBytes {
		w.Write(result.Buf)
		return
	}
	io.WriteString(w, result.String())
}

// Serve listens on addr until ctx is done, then shuts the server down.
func Serve(ctx context.Context, addr string, handler http.Handler, logger *log.Logger) error {
	srv := &http.Server{Addr: addr, Handler: handler}

	errCh := make(chan error, 1)
	go func() {
		logger.Printf("listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("httpd: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("httpd shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("httpd: %w", err)
	}
	return nil
}
