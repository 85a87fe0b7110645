package main

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"bustrack-visualizer/config"
	"bustrack-visualizer/trajectory"
)

const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type wsClient struct {
	id   string
	conn *websocket.Conn

	writeMu sync.Mutex
}

func (c *wsClient) write(data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.writeLocked(data)
}

// writeLocked writes with writeMu already held by the caller.
func (c *wsClient) writeLocked(data []byte) error {
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

func (c *wsClient) writeJSON(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.write(data)
}

// wsHub tracks connected clients and the vehicle each one has selected.
type wsHub struct {
	mapCfg   config.MapConfig
	styles   trajectory.Styles
	snapshot func() *snapshot

	mu      sync.Mutex
	clients map[*wsClient]string
}

func newHub(mapCfg config.MapConfig, styles trajectory.Styles, current func() *snapshot) *wsHub {
	return &wsHub{
		mapCfg:   mapCfg,
		styles:   styles,
		snapshot: current,
		clients:  make(map[*wsClient]string),
	}
}

func (h *wsHub) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade error: %v", err)
		return
	}
	c := &wsClient{id: uuid.NewString(), conn: conn}

	// Broadcasts that see c block on writeMu until hello and the initial
	// update are out. A snapshot newer than the one read here is published
	// before its broadcast runs, so that broadcast reaches c afterwards.
	c.writeMu.Lock()
	h.add(c)
	snap := h.snapshot()
	err = h.greet(c, snap)
	c.writeMu.Unlock()
	if err != nil {
		h.drop(c)
		return
	}
	log.Printf("ws client connected: %s", c.id)
	go h.readPump(c)
}

// greet sends hello followed by the overview update. The caller holds
// c.writeMu.
func (h *wsHub) greet(c *wsClient, snap *snapshot) error {
	hello, err := json.Marshal(helloMessage{Type: msgHello, ClientID: c.id, View: newMapView(h.mapCfg, snap)})
	if err != nil {
		return err
	}
	if err := c.writeLocked(hello); err != nil {
		return err
	}
	update, err := json.Marshal(buildUpdate(snap, "", h.styles))
	if err != nil {
		return err
	}
	return c.writeLocked(update)
}

func (h *wsHub) add(c *wsClient) {
	h.mu.Lock()
	h.clients[c] = ""
	h.mu.Unlock()
}

func (h *wsHub) drop(c *wsClient) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	_ = c.conn.Close()
}

func (h *wsHub) setSelection(c *wsClient, vehicle string) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		h.clients[c] = vehicle
	}
	h.mu.Unlock()
}

type clientSelection struct {
	client   *wsClient
	selected string
}

// broadcast sends every client the update for its own selection. Each
// distinct selection is rendered once. Writes happen outside h.mu so a slow
// client does not hold up the others.
func (h *wsHub) broadcast(snap *snapshot) {
	h.mu.Lock()
	targets := make([]clientSelection, 0, len(h.clients))
	for c, selected := range h.clients {
		targets = append(targets, clientSelection{client: c, selected: selected})
	}
	h.mu.Unlock()

	rendered := map[string][]byte{}
	for _, t := range targets {
		data, ok := rendered[t.selected]
		if !ok {
			var err error
			data, err = json.Marshal(buildUpdate(snap, t.selected, h.styles))
			if err != nil {
				log.Printf("ws encode error: %v", err)
				continue
			}
			rendered[t.selected] = data
		}
		if err := t.client.write(data); err != nil {
			h.drop(t.client)
		}
	}
}

func (h *wsHub) clientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// readPump handles selection changes until the connection closes.
func (h *wsHub) readPump(c *wsClient) {
	defer func() {
		h.drop(c)
		log.Printf("ws client disconnected: %s", c.id)
	}()
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var msg selectMessage
		if err := json.Unmarshal(data, &msg); err != nil || msg.Type != msgSelect {
			log.Printf("ws client %s: ignoring message: %s", c.id, data)
			continue
		}
		h.setSelection(c, msg.Vehicle)
		if err := c.writeJSON(buildUpdate(h.snapshot(), msg.Vehicle, h.styles)); err != nil {
			return
		}
	}
}
