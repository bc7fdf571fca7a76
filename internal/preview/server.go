// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package preview serves a build's output directory over HTTP and tells
// open pages to reload after every rebuild.
//
// HTML pages get a small script injected that connects to the reload
// websocket; every other file is served as is.
package preview

import (
	"bytes"
	"context"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"grimm.is/supportmatrix/internal/errors"
	"grimm.is/supportmatrix/internal/logging"
)

// ReloadPath is the websocket endpoint pages connect to.
const ReloadPath = "/_preview/reload"

// Messages sent over the reload websocket.
const (
	MessageHello  = "hello"
	MessageReload = "reload"
)

const reloadScript = `<script>
(function () {
  var ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "` + ReloadPath + `");
  ws.onmessage = function (ev) { if (ev.data === "` + MessageReload + `") { location.reload(); } };
})();
</script>
`

// Server serves one output directory.
type Server struct {
	dir      string
	logger   *logging.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

// New returns a Server for dir. A nil logger uses the default logger.
func New(dir string, logger *logging.Logger) *Server {
	if logger == nil {
		logger = logging.Default()
	}
	return &Server{
		dir:     dir,
		logger:  logger.WithComponent("preview"),
		clients: make(map[*websocket.Conn]struct{}),
	}
}

// Router returns the HTTP routes of the server.
func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc(ReloadPath, s.handleReload).Methods("GET")
	router.PathPrefix("/").HandlerFunc(s.handleFile).Methods("GET", "HEAD")
	return router
}

// ListenAndServe serves on addr until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	s.logger.Info("preview server listening", "addr", addr, "dir", s.dir)

	select {
	case err := <-errCh:
		return errors.Attr(errors.Wrap(err, errors.KindIO, "preview server failed"), "addr", addr)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.closeClients()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, errors.KindInternal, "preview server shutdown failed")
	}
	return nil
}

// Notify asks every connected page to reload.
func (s *Server) Notify() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for conn := range s.clients {
		_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := conn.WriteMessage(websocket.TextMessage, []byte(MessageReload)); err != nil {
			s.logger.Debug("dropping preview client", "remote", conn.RemoteAddr().String(), "error", err)
			_ = conn.Close()
			delete(s.clients, conn)
		}
	}
	s.logger.Debug("notified preview clients", "clients", len(s.clients))
}

// Clients returns the number of connected pages.
func (s *Server) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	s.mu.Lock()
	s.clients[conn] = struct{}{}
	err = conn.WriteMessage(websocket.TextMessage, []byte(MessageHello))
	s.mu.Unlock()
	if err != nil {
		s.drop(conn)
		return
	}

	// Reads only detect the page going away.
	go func() {
		defer s.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (s *Server) drop(conn *websocket.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[conn]; ok {
		delete(s.clients, conn)
		_ = conn.Close()
	}
}

func (s *Server) closeClients() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.clients {
		_ = conn.Close()
		delete(s.clients, conn)
	}
}

func (s *Server) handleFile(w http.ResponseWriter, r *http.Request) {
	name := path.Clean("/" + r.URL.Path)
	full := filepath.Join(s.dir, filepath.FromSlash(name))

	info, err := os.Stat(full)
	if err == nil && info.IsDir() {
		full = filepath.Join(full, "index.html")
		name = path.Join(name, "index.html")
		info, err = os.Stat(full)
	}
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if !strings.EqualFold(path.Ext(name), ".html") {
		http.ServeFile(w, r, full)
		return
	}

	data, err := os.ReadFile(full)
	if err != nil {
		http.Error(w, "failed to read file", http.StatusInternalServerError)
		return
	}
	data = injectReload(data)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	http.ServeContent(w, r, name, info.ModTime(), bytes.NewReader(data))
}

// injectReload puts the reload script before </body>, or appends it.
func injectReload(page []byte) []byte {
	idx := bytes.LastIndex(bytes.ToLower(page), []byte("</body>"))
	if idx < 0 {
		return append(page, reloadScript...)
	}

	out := make([]byte, 0, len(page)+len(reloadScript))
	out = append(out, page[:idx]...)
	out = append(out, reloadScript...)
	out = append(out, page[idx:]...)
	return out
}
