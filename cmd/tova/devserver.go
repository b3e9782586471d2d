package main

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// devServer serves an emitted browser bundle plus a live-reload websocket,
// the host-side preview collaborator spec §4.5 wires `bun`/`caddy` around in
// production; in dev it is tova itself (SPEC_FULL.md §2: gorilla/websocket
// "the websocket block's host-side dev-server preview used by tova run").
type devServer struct {
	mu      sync.Mutex
	bundle  string
	clients map[*websocket.Conn]bool
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

func newDevServer(bundle string) *devServer {
	return &devServer{bundle: bundle, clients: map[*websocket.Conn]bool{}}
}

func (s *devServer) setBundle(bundle string) {
	s.mu.Lock()
	s.bundle = bundle
	s.mu.Unlock()
	s.broadcastReload()
}

func (s *devServer) broadcastReload() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		if err := c.WriteMessage(websocket.TextMessage, []byte("reload")); err != nil {
			c.Close()
			delete(s.clients, c)
		}
	}
}

func (s *devServer) handleBundle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	bundle := s.bundle
	s.mu.Unlock()
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	fmt.Fprint(w, bundle)
}

func (s *devServer) handleIndex(w http.ResponseWriter, r *http.Request) {
	fmt.Fprint(w, `<!doctype html><html><body>
<script src="/bundle.js" type="module"></script>
<script>
new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws")
  .onmessage = () => location.reload();
</script>
</body></html>`)
}

func (s *devServer) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		if logger != nil {
			logger.Warn("websocket upgrade failed", zap.Error(err))
		}
		return
	}
	s.mu.Lock()
	s.clients[conn] = true
	s.mu.Unlock()
}

func (s *devServer) serve(addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/bundle.js", s.handleBundle)
	mux.HandleFunc("/ws", s.handleWS)
	fmt.Println(styleMuted.Render("dev server listening on http://" + addr))
	return http.ListenAndServe(addr, mux)
}
