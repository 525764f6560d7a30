package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/relit-dev/relit/pkg/bind"
	"github.com/relit-dev/relit/pkg/dom"
	"github.com/relit-dev/relit/pkg/instrument"
	"github.com/relit-dev/relit/pkg/render"
	"github.com/relit-dev/relit/pkg/template"
)

const dashboardSource = `<div class="dashboard {}">` +
	`<h1>{}</h1>` +
	`<p>uptime <strong>{}</strong>, ticks <strong>{}</strong></p>` +
	`<ul class="log">{}</ul>` +
	`</div>`

const logWindow = 10

// dashboard owns one server-side binding and fans rendered snapshots
// out to every connected browser.
type dashboard struct {
	logger  *slog.Logger
	binding *bind.Binding
	updates []bind.Update
	doc     *dom.Document
	started time.Time

	mu      sync.Mutex
	entries []*dom.Node
	clients map[*websocket.Conn]chan string
	latest  string
}

func newDashboard(logger *slog.Logger) (*dashboard, error) {
	tpl, err := template.Parse(dashboardSource)
	if err != nil {
		return nil, err
	}

	b := bind.New(tpl)
	doc := b.Root().Document()

	updates := instrument.Wrap(
		b.Updates(),
		instrument.Prometheus(
			instrument.WithNamespace("relit_demo"),
			instrument.WithDocument(doc),
		),
		instrument.OpenTelemetry(
			instrument.WithTracerName("relit-demo"),
		),
	)

	return &dashboard{
		logger:  logger,
		binding: b,
		updates: updates,
		doc:     doc,
		started: time.Now(),
		clients: make(map[*websocket.Conn]chan string),
	}, nil
}

// run drives the binding on a timer until ctx is done.
func (d *dashboard) run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var ticks uint64
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			ticks++
			d.tick(now, ticks)
		}
	}
}

func (d *dashboard) tick(now time.Time, ticks uint64) {
	d.mu.Lock()

	li := d.doc.CreateElement("li")
	li.SetTextContent(fmt.Sprintf("tick %d at %s", ticks, now.Format(time.TimeOnly)))
	d.entries = append(d.entries, li)
	if len(d.entries) > logWindow {
		d.entries = d.entries[len(d.entries)-logWindow:]
	}

	status := "ok"
	if ticks%5 == 0 {
		status = "busy"
	}
	values := []any{
		status,
		"relit live dashboard",
		time.Since(d.started).Round(time.Second).String(),
		ticks,
		anySlice(d.entries),
	}
	d.mu.Unlock()

	for i, v := range values {
		d.updates[i](v)
	}

	snapshot := render.String(d.binding.Root())

	d.mu.Lock()
	d.latest = snapshot
	for conn, send := range d.clients {
		select {
		case send <- snapshot:
		default:
			// Slow consumer: drop it rather than stall the tick.
			close(send)
			delete(d.clients, conn)
		}
	}
	d.mu.Unlock()
}

func anySlice(nodes []*dom.Node) []any {
	out := make([]any, len(nodes))
	for i, n := range nodes {
		out[i] = n
	}
	return out
}

// serveClient registers the connection, replays the latest snapshot,
// and streams updates until the peer goes away.
func (d *dashboard) serveClient(conn *websocket.Conn) {
	send := make(chan string, 4)

	d.mu.Lock()
	d.clients[conn] = send
	if d.latest != "" {
		send <- d.latest
	}
	d.mu.Unlock()

	d.logger.Debug("client connected", "remote", conn.RemoteAddr())

	go func() {
		for snapshot := range send {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(snapshot)); err != nil {
				break
			}
		}
		conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	d.mu.Lock()
	if ch, ok := d.clients[conn]; ok {
		close(ch)
		delete(d.clients, conn)
	}
	d.mu.Unlock()
	d.logger.Debug("client disconnected", "remote", conn.RemoteAddr())
}

const indexPage = `<!doctype html>
<html>
<head><title>relit demo</title></head>
<body>
<div id="app">connecting…</div>
<script>
const app = document.getElementById("app");
const ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws");
ws.onmessage = (ev) => { app.innerHTML = ev.data; };
ws.onclose = () => { app.textContent = "disconnected"; };
</script>
</body>
</html>`

func (d *dashboard) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(indexPage))
}
