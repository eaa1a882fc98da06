package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/glmaps/mapmcp/pkg/geo"
	"github.com/gorilla/websocket"
)

// ErrNotConnected is returned by Bridge calls issued before a renderer page
// has attached.
var ErrNotConnected = errors.New("no renderer connected")

// defaultBridgeTimeout bounds how long a single engine call may wait for
// the renderer's reply.
const defaultBridgeTimeout = 10 * time.Second

// bridgeCommand is one engine call serialized to the renderer.
type bridgeCommand struct {
	ID     int64  `json:"id"`
	Op     string `json:"op"`
	Params any    `json:"params,omitempty"`
}

// bridgeReply is the renderer's answer, correlated by ID.
type bridgeReply struct {
	ID       int64         `json:"id"`
	Error    string        `json:"error,omitempty"`
	Features []geo.Feature `json:"features,omitempty"`
}

// Bridge is a Map implementation that relays every engine call as a JSON
// frame over a websocket to a renderer page and waits for the correlated
// reply. The source table is mirrored locally so GetSource and SourceIDs
// never cross the wire.
//
// One renderer at a time: attaching a new connection replaces the previous
// one and fails its in-flight calls.
type Bridge struct {
	logger  *slog.Logger
	timeout time.Duration

	// gorilla/websocket permits at most one concurrent writer per
	// connection.
	writeMu sync.Mutex

	mu      sync.Mutex
	conn    *websocket.Conn
	seq     int64
	pending map[int64]chan bridgeReply
	sources map[string]Source
}

// NewBridge returns a Bridge with no renderer attached.
func NewBridge(logger *slog.Logger) *Bridge {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bridge{
		logger:  logger,
		timeout: defaultBridgeTimeout,
		pending: make(map[int64]chan bridgeReply),
		sources: make(map[string]Source),
	}
}

// Attach hands a freshly upgraded connection to the bridge and starts its
// read loop. A previously attached connection is closed.
func (b *Bridge) Attach(conn *websocket.Conn) {
	b.mu.Lock()
	old := b.conn
	b.conn = conn
	b.failPendingLocked(ErrNotConnected)
	b.mu.Unlock()

	if old != nil {
		old.Close()
	}
	b.logger.Info("renderer attached", "remote", conn.RemoteAddr().String())
	go b.readLoop(conn)
}

// Attached reports whether a renderer connection is live.
func (b *Bridge) Attached() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.conn != nil
}

// ServeHTTP upgrades an incoming request and attaches the connection,
// allowing the bridge to be mounted directly on an HTTP mux.
func (b *Bridge) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{
		// The bridge is served on a local, caller-chosen address.
		CheckOrigin: func(*http.Request) bool { return true },
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		b.logger.Error("websocket upgrade failed", "error", err)
		return
	}
	b.Attach(conn)
}

// failPendingLocked answers every in-flight call with an error reply.
// Callers must hold b.mu.
func (b *Bridge) failPendingLocked(err error) {
	for id, ch := range b.pending {
		ch <- bridgeReply{ID: id, Error: err.Error()}
		delete(b.pending, id)
	}
}

func (b *Bridge) readLoop(conn *websocket.Conn) {
	for {
		var reply bridgeReply
		if err := conn.ReadJSON(&reply); err != nil {
			b.mu.Lock()
			if b.conn == conn {
				b.conn = nil
				b.failPendingLocked(ErrNotConnected)
			}
			b.mu.Unlock()
			conn.Close()
			b.logger.Info("renderer detached", "error", err)
			return
		}

		b.mu.Lock()
		ch, ok := b.pending[reply.ID]
		if ok {
			delete(b.pending, reply.ID)
		}
		b.mu.Unlock()

		if !ok {
			b.logger.Warn("reply for unknown command", "id", reply.ID)
			continue
		}
		ch <- reply
	}
}

// call sends one command and waits for its reply.
func (b *Bridge) call(ctx context.Context, op string, params any) (bridgeReply, error) {
	b.mu.Lock()
	conn := b.conn
	if conn == nil {
		b.mu.Unlock()
		return bridgeReply{}, ErrNotConnected
	}
	b.seq++
	id := b.seq
	ch := make(chan bridgeReply, 1)
	b.pending[id] = ch
	b.mu.Unlock()

	b.writeMu.Lock()
	err := conn.WriteJSON(bridgeCommand{ID: id, Op: op, Params: params})
	b.writeMu.Unlock()
	if err != nil {
		b.mu.Lock()
		delete(b.pending, id)
		b.mu.Unlock()
		return bridgeReply{}, fmt.Errorf("write to renderer: %w", err)
	}

	timer := time.NewTimer(b.timeout)
	defer timer.Stop()

	select {
	case reply := <-ch:
		if reply.Error != "" {
			return bridgeReply{}, errors.New(reply.Error)
		}
		return reply, nil
	case <-timer.C:
		b.mu.Lock()
		delete(b.pending, id)
		b.mu.Unlock()
		return bridgeReply{}, fmt.Errorf("renderer did not answer %s within %s", op, b.timeout)
	case <-ctx.Done():
		b.mu.Lock()
		delete(b.pending, id)
		b.mu.Unlock()
		return bridgeReply{}, ctx.Err()
	}
}

func (b *Bridge) AddSource(ctx context.Context, id string, src Source) error {
	if _, err := b.call(ctx, "addSource", map[string]any{"id": id, "source": src}); err != nil {
		return err
	}
	b.mu.Lock()
	b.sources[id] = src
	b.mu.Unlock()
	return nil
}

func (b *Bridge) AddLayer(ctx context.Context, layer Layer) error {
	_, err := b.call(ctx, "addLayer", layer)
	return err
}

func (b *Bridge) RemoveLayer(ctx context.Context, id string) error {
	_, err := b.call(ctx, "removeLayer", map[string]any{"id": id})
	return err
}

func (b *Bridge) RemoveSource(ctx context.Context, id string) error {
	if _, err := b.call(ctx, "removeSource", map[string]any{"id": id}); err != nil {
		return err
	}
	b.mu.Lock()
	delete(b.sources, id)
	b.mu.Unlock()
	return nil
}

func (b *Bridge) GetSource(ctx context.Context, id string) (Source, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	src, ok := b.sources[id]
	return src, ok
}

func (b *Bridge) SourceIDs(ctx context.Context) []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	ids := make([]string, 0, len(b.sources))
	for id := range b.sources {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (b *Bridge) SetCenter(ctx context.Context, center geo.Location, zoom float64) error {
	_, err := b.call(ctx, "setCenter", map[string]any{"center": center, "zoom": zoom})
	return err
}

func (b *Bridge) FlyTo(ctx context.Context, camera Camera) error {
	_, err := b.call(ctx, "flyTo", camera)
	return err
}

func (b *Bridge) FitBounds(ctx context.Context, bounds geo.BoundingBox, padding float64) error {
	_, err := b.call(ctx, "fitBounds", map[string]any{
		"bounds":  []float64{bounds.MinLon, bounds.MinLat, bounds.MaxLon, bounds.MaxLat},
		"padding": padding,
	})
	return err
}

func (b *Bridge) SetStyle(ctx context.Context, styleURL string) error {
	if _, err := b.call(ctx, "setStyle", map[string]any{"style": styleURL}); err != nil {
		return err
	}
	// The renderer discards its source table on a style swap; mirror that.
	b.mu.Lock()
	b.sources = make(map[string]Source)
	b.mu.Unlock()
	return nil
}

func (b *Bridge) QueryRenderedFeatures(ctx context.Context, q RenderedQuery) ([]geo.Feature, error) {
	reply, err := b.call(ctx, "queryRenderedFeatures", q)
	if err != nil {
		return nil, err
	}
	return reply.Features, nil
}

func (b *Bridge) QuerySourceFeatures(ctx context.Context, sourceID string, q SourceQuery) ([]geo.Feature, error) {
	reply, err := b.call(ctx, "querySourceFeatures", map[string]any{
		"id":           sourceID,
		"source_layer": q.SourceLayer,
		"filter":       q.Filter,
	})
	if err != nil {
		return nil, err
	}
	return reply.Features, nil
}

func (b *Bridge) EnablePopups(ctx context.Context, layerID string) error {
	_, err := b.call(ctx, "enablePopups", map[string]any{"layer": layerID})
	return err
}

func (b *Bridge) EnableHoverCursor(ctx context.Context, layerID string) error {
	_, err := b.call(ctx, "enableHoverCursor", map[string]any{"layer": layerID})
	return err
}
