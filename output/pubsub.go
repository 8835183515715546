package output

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// PubSub is the publish-subscribe sink named in spec §4.10/§6: every
// record handed to Publish is fanned out to every currently-connected
// websocket client. Grounded on the broadcast-hub shape used for
// repeater-network fanout elsewhere in the pack (gorilla/websocket).
type PubSub struct {
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]chan []byte
}

// NewPubSub builds an empty hub. Origin checking is left permissive; the
// diagnostic/demo endpoint is not meant to face an untrusted network.
func NewPubSub() *PubSub {
	return &PubSub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*websocket.Conn]chan []byte),
	}
}

// ServeHTTP upgrades an HTTP connection to a websocket subscriber and
// streams every subsequent Publish call to it until it disconnects.
func (p *PubSub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := p.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	ch := make(chan []byte, 64)
	p.mu.Lock()
	p.clients[conn] = ch
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		delete(p.clients, conn)
		p.mu.Unlock()
		conn.Close()
	}()

	for msg := range ch {
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

// Publish fans data out to every connected subscriber, dropping it for any
// client whose send buffer is full rather than blocking the pipeline.
func (p *PubSub) Publish(data []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, ch := range p.clients {
		select {
		case ch <- data:
		default:
		}
	}
}

// ClientCount reports the number of currently-connected subscribers.
func (p *PubSub) ClientCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.clients)
}
