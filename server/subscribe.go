package server

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	promclient "github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/tickersim/tickersim/events"
)

// SocketConsumer tracks one connected realtime viewer for metrics and
// observability.
type SocketConsumer struct {
	RemoteAddr  string
	UserAgent   string
	ConnectedAt time.Time
	EventsSent  promclient.Counter
}

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  4 << 10,
	WriteBufferSize: 4 << 10,
	// the simulator serves browser clients from any origin, same as the
	// permissive CORS policy on the JSON routes
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wireEvent is the single realtime message type: a newly appended post.
type wireEvent struct {
	Event   string            `json:"event"`
	Payload *events.PostEvent `json:"payload"`
}

func (srv *Server) registerConsumer(c *SocketConsumer) uint64 {
	srv.consumersLk.Lock()
	defer srv.consumersLk.Unlock()

	id := srv.nextConsumerID
	srv.nextConsumerID++
	srv.consumers[id] = c
	return id
}

func (srv *Server) cleanupConsumer(id uint64) {
	srv.consumersLk.Lock()
	defer srv.consumersLk.Unlock()

	c := srv.consumers[id]

	var m = &dto.Metric{}
	if err := c.EventsSent.Write(m); err == nil {
		srv.log.Info("consumer disconnected",
			"consumer_id", id,
			"remote_addr", c.RemoteAddr,
			"events_sent", m.Counter.GetValue())
	}

	delete(srv.consumers, id)
}

// handleSubscribe upgrades the connection and streams every new post to the
// viewer until they disconnect. Delivery is best-effort: whatever the event
// manager drops for this subscriber is simply never seen here.
func (srv *Server) handleSubscribe(c echo.Context) error {
	ctx, cancel := context.WithCancel(c.Request().Context())
	defer cancel()

	conn, err := wsUpgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	// ping so half-dead connections get torn down instead of leaking
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if err := conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(5*time.Second)); err != nil {
					cancel()
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	conn.SetPingHandler(func(message string) error {
		err := conn.WriteControl(websocket.PongMessage, []byte(message), time.Now().Add(time.Minute))
		if err == websocket.ErrCloseSent {
			return nil
		} else if e, ok := err.(net.Error); ok && e.Timeout() {
			return nil
		}
		return err
	})

	// drain client messages; we only ever push
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	ident := c.RealIP() + "-" + c.Request().UserAgent()
	evts, cleanup, err := srv.events.Subscribe(ident, nil)
	if err != nil {
		return err
	}
	defer cleanup()

	consumer := &SocketConsumer{
		RemoteAddr:  c.RealIP(),
		UserAgent:   c.Request().UserAgent(),
		ConnectedAt: time.Now(),
		EventsSent:  eventsSentCounter.WithLabelValues(c.RealIP()),
	}
	consumerID := srv.registerConsumer(consumer)
	defer srv.cleanupConsumer(consumerID)

	srv.log.Info("new realtime consumer", "consumer_id", consumerID, "remote_addr", consumer.RemoteAddr)

	for {
		select {
		case evt, ok := <-evts:
			if !ok {
				return nil
			}

			if err := conn.SetWriteDeadline(time.Now().Add(10 * time.Second)); err != nil {
				return nil
			}
			if err := conn.WriteJSON(wireEvent{Event: "newTweet", Payload: evt}); err != nil {
				srv.log.Warn("failed to write event to consumer", "consumer_id", consumerID, "err", err)
				return nil
			}
			consumer.EventsSent.Inc()
		case <-ctx.Done():
			return nil
		}
	}
}

// ConsumerInfo describes a connected realtime viewer.
type ConsumerInfo struct {
	ID             uint64    `json:"id"`
	RemoteAddr     string    `json:"remote_addr"`
	UserAgent      string    `json:"user_agent"`
	EventsConsumed uint64    `json:"events_consumed"`
	ConnectedAt    time.Time `json:"connected_at"`
}

// ListConsumers snapshots the currently connected realtime viewers.
func (srv *Server) ListConsumers() []ConsumerInfo {
	srv.consumersLk.RLock()
	defer srv.consumersLk.RUnlock()

	out := make([]ConsumerInfo, 0, len(srv.consumers))
	for id, c := range srv.consumers {
		var m = &dto.Metric{}
		if err := c.EventsSent.Write(m); err != nil {
			continue
		}
		out = append(out, ConsumerInfo{
			ID:             id,
			RemoteAddr:     c.RemoteAddr,
			UserAgent:      c.UserAgent,
			EventsConsumed: uint64(m.Counter.GetValue()),
			ConnectedAt:    c.ConnectedAt,
		})
	}
	return out
}
