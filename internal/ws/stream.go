package ws

import (
	"context"
	"errors"
	"sync"

	"github.com/fasthttp/websocket"
	"github.com/gofiber/fiber/v3"
	"github.com/valyala/fasthttp"
)

var errClientClosed = errors.New("websocket closed by client")

// Writer sends stream items over one WebSocket connection.
type Writer struct {
	conn *websocket.Conn
}

// Write sends data tagged with kind.
func (w *Writer) Write(kind string, data any) error {
	if err := WriteData(w.conn, kind, data); err != nil {
		// Use a specific error to signal that the client has disconnected.
		return errClientClosed
	}
	return nil
}

func (w *Writer) WriteStatus(level, message string) {
	_ = WriteStatus(w.conn, level, message)
}

// StreamWebSocket upgrades to WebSocket and runs streamer until it returns or
// the client goes away.
func StreamWebSocket(c fiber.Ctx, streamer func(ctx context.Context, writer *Writer) error) error {
	type requestCtxProvider interface {
		RequestCtx() *fasthttp.RequestCtx
	}

	provider, ok := any(c).(requestCtxProvider)
	if !ok {
		return fiber.ErrInternalServerError
	}

	return Upgrader.Upgrade(provider.RequestCtx(), func(conn *websocket.Conn) {
		defer conn.Close()

		closed := make(chan struct{})
		var once sync.Once
		go func() {
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					once.Do(func() { close(closed) })
					return
				}
			}
		}()

		// Tie the stream's lifetime to the client connection.
		streamCtx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go func() {
			<-closed
			cancel()
		}()

		err := streamer(streamCtx, &Writer{conn: conn})
		if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, errClientClosed) {
			_ = WriteStatus(conn, "error", "stream failed")
		}

		_ = WriteStatus(conn, "info", "stream ended")
	})
}
