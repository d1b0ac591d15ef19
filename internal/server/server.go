// Package server exposes the sketch surface to a browser over HTTP and
// websockets.
package server

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	"github.com/example/cosketch/internal/assets"
	"github.com/example/cosketch/internal/notify"
	"github.com/example/cosketch/internal/palette"
	"github.com/example/cosketch/internal/session"
)

const outboundBuffer = 64

// Options configures a Server.
type Options struct {
	Listen      string
	Width       int
	Height      int
	Scale       float64
	Generator   session.Generator
	Instruction string
	SaveDir     string
	Palette     *palette.Palette
	Notifier    *notify.Notifier
	Advertise   bool
}

// Server serves the browser front-end and one sketch session per websocket
// connection.
type Server struct {
	opts     Options
	mux      *http.ServeMux
	upgrader websocket.Upgrader
}

// New creates a server. It does not start listening.
func New(opts Options) *Server {
	s := &Server{
		opts: opts,
		mux:  http.NewServeMux(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// Sessions are isolated per connection, so any origin may draw.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
	s.mux.Handle("/", assets.Handler())
	s.mux.HandleFunc("/ws", s.handleWS)
	return s
}

// Handler returns the HTTP handler, useful for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// ListenAndServe blocks serving requests until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.opts.Listen)
	if err != nil {
		return fmt.Errorf("listen on %q: %w", s.opts.Listen, err)
	}
	log.Printf("serving on http://%s", listener.Addr())

	if s.opts.Advertise {
		if port := listenerPort(listener); port > 0 {
			srv, err := advertise(port)
			if err != nil {
				log.Printf("mDNS advertisement unavailable: %v", err)
			} else {
				defer srv.Shutdown()
			}
		}
	}

	httpServer := &http.Server{Handler: s.mux}
	errCh := make(chan error, 1)
	go func() { errCh <- httpServer.Serve(listener) }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func listenerPort(l net.Listener) int {
	_, portStr, err := net.SplitHostPort(l.Addr().String())
	if err != nil {
		return 0
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return 0
	}
	return port
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	outbound := make(chan session.Outgoing, outboundBuffer)
	done := make(chan struct{})

	sess, err := session.New(session.Options{
		Width:       s.opts.Width,
		Height:      s.opts.Height,
		Scale:       s.opts.Scale,
		Generator:   s.opts.Generator,
		Instruction: s.opts.Instruction,
		SaveDir:     s.opts.SaveDir,
		Palette:     s.opts.Palette,
		Notifier:    s.opts.Notifier,
		Send: func(msg session.Outgoing) {
			select {
			case outbound <- msg:
			case <-done:
			}
		},
	})
	if err != nil {
		log.Printf("create session: %v", err)
		return
	}
	defer sess.Close()
	log.Printf("session %s connected from %s", sess.ID, r.RemoteAddr)

	go func() {
		for {
			select {
			case msg := <-outbound:
				if err := conn.WriteJSON(msg); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}()

	for {
		var msg session.Incoming
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("session %s: read: %v", sess.ID, err)
			}
			break
		}
		sess.Handle(msg)
	}
	sess.Leave()
	close(done)
	log.Printf("session %s disconnected", sess.ID)
}
