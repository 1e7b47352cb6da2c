package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/gridgames-backend/internal/usecase"
)

const (
	writeWait       = 10 * time.Second
	pongWait        = 60 * time.Second
	pingPeriod      = (pongWait * 9) / 10
	maxMessageSize  = 4096
	shutdownTimeout = 5 * time.Second
)

const (
	actionMinesweeperNew = "minesweeper:new"
	actionTictactoeNew   = "tictactoe:new"
	actionControl        = "control"
	actionError          = "error"
)

type gameUseCase interface {
	StartMinesweeper(ctx context.Context, player string, mines int) (*usecase.Outcome, error)
	StartTictactoe(ctx context.Context, player string, side int) (*usecase.Outcome, error)
	ApplyAction(ctx context.Context, controlID, player string) *usecase.Outcome
}

type handlerFunc func(ctx context.Context, message *Message, conn *connection) error

type Server struct {
	logger      *slog.Logger
	gameUseCase gameUseCase
	upgrader    websocket.Upgrader

	// connections holds the latest connection of every player that has sent a message.
	connections      map[string]*connection
	connectionsMutex sync.RWMutex

	handlers map[string]handlerFunc
}

func New(logger *slog.Logger, gameUseCase gameUseCase) *Server {
	server := &Server{
		logger:      logger,
		gameUseCase: gameUseCase,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(_ *http.Request) bool {
				return true
			},
		},

		connections: make(map[string]*connection),
		handlers:    make(map[string]handlerFunc),
	}

	server.handlers[actionMinesweeperNew] = server.handleNewMinesweeper
	server.handlers[actionTictactoeNew] = server.handleNewTictactoe
	server.handlers[actionControl] = server.handleControl

	return server
}

// Handler returns the HTTP handler serving the /ws endpoint.
func (that *Server) Handler(ctx context.Context) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.upgradeToWebSocket(ctx, w, r)
	})

	return mux
}

// Start - starts WebSocket server and blocks until ctx is done.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           that.Handler(ctx),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shutdown websocket server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// upgradeToWebSocket - upgrades the connection to WebSocket.
func (that *Server) upgradeToWebSocket(ctx context.Context, writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "upgradeToWebSocket")

	wsConn, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	conn := newConnection(wsConn)
	defer func() {
		that.handleDisconnect(conn)
		conn.close()
	}()

	log.Info("WebSocket connection established", "remote", req.RemoteAddr)

	go conn.keepAlive(ctx)

	if err = that.handleMessages(ctx, conn); err != nil {
		log.Info("websocket connection closed", "error", err)
	}
}

// handleMessages - processes messages from the client.
func (that *Server) handleMessages(ctx context.Context, conn *connection) error {
	log := that.logger.With("method", "handleMessages")

	for {
		_, reqBody, err := conn.ws.ReadMessage()
		if err != nil {
			return fmt.Errorf("failed to read message: %w", err)
		}

		var message Message
		if err = json.Unmarshal(reqBody, &message); err != nil {
			log.Error("failed to unmarshal message", "error", err)

			if err = that.sendErrorResponse(conn, actionError, "invalid message"); err != nil {
				return err
			}

			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Warn("unknown action", "action", message.Action)

			if err = that.sendErrorResponse(conn, message.Action, "unknown action"); err != nil {
				return err
			}

			continue
		}

		if err = handler(ctx, &message, conn); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
		}
	}
}

// connection serializes writes to one websocket, as gorilla allows a single concurrent writer.
type connection struct {
	ws   *websocket.Conn
	mu   sync.Mutex
	done chan struct{}
	once sync.Once
}

func newConnection(ws *websocket.Conn) *connection {
	ws.SetReadLimit(maxMessageSize)
	_ = ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	return &connection{
		ws:   ws,
		done: make(chan struct{}),
	}
}

func (that *connection) writeJSON(message Message) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if err := that.ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}

	if err := that.ws.WriteJSON(message); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

func (that *connection) keepAlive(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			that.close()
			return
		case <-that.done:
			return
		case <-ticker.C:
			that.mu.Lock()
			err := that.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
			that.mu.Unlock()

			if err != nil {
				return
			}
		}
	}
}

func (that *connection) close() {
	that.once.Do(func() {
		close(that.done)
		_ = that.ws.Close()
	})
}
