package http

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

type Responder interface {
	Reply(message string) string
}

type chatMessage struct {
	Message string `json:"message"`
}

type chatReply struct {
	Reply string `json:"reply"`
}

func ChatHandler(resp Responder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req chatMessage
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "bad json")
			return
		}
		writeJSON(w, http.StatusOK, chatReply{Reply: resp.Reply(req.Message)})
	}
}

// ChatSocketHandler answers each {message} frame with a {reply} frame until
// the client closes. origins are full origins as configured for CORS.
func ChatSocketHandler(resp Responder, origins []string) http.HandlerFunc {
	patterns := originHosts(origins)
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: patterns})
		if err != nil {
			// Accept has already written the response.
			slog.DebugContext(r.Context(), "websocket accept failed", "error", err)
			return
		}
		defer c.CloseNow()
		c.SetReadLimit(8 << 10)

		ctx := r.Context()
		for {
			var msg chatMessage
			if err := wsjson.Read(ctx, c, &msg); err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				default:
					if !errors.Is(err, ctx.Err()) {
						slog.DebugContext(ctx, "chat socket read", "error", err)
					}
				}
				return
			}
			if err := wsjson.Write(ctx, c, chatReply{Reply: resp.Reply(msg.Message)}); err != nil {
				return
			}
		}
	}
}

// originHosts turns "http://localhost:3000" into the host pattern the
// websocket library matches against.
func originHosts(origins []string) []string {
	out := make([]string, 0, len(origins))
	for _, o := range origins {
		if o == "*" {
			out = append(out, "*")
			continue
		}
		if u, err := url.Parse(o); err == nil && u.Host != "" {
			out = append(out, u.Host)
			continue
		}
		out = append(out, strings.TrimSuffix(o, "/"))
	}
	return out
}
