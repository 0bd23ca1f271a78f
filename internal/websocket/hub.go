package websocket

import (
	"sync"

	"MiniFlush/internal/utils"
)

type HubInterface interface {
	BroadcastAll(msg OutgoingMessage)
	SendToClient(id string, msg OutgoingMessage)
	Close()
}

type Hub struct {
	clients    map[string]*Client // client id -> client
	register   chan *Client
	unregister chan *Client
	broadcast  chan OutgoingMessage
	sendOne    chan sendReq
	incoming   chan IncomingMessage
	OnIncoming func(IncomingMessage)
	OnConnect  func(clientID string) // 新连接注册后回调（发送全量状态快照）
	quit       chan struct{}
	mu         sync.RWMutex
}

type sendReq struct {
	ClientID string
	Message  OutgoingMessage
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan OutgoingMessage),
		sendOne:    make(chan sendReq),
		incoming:   make(chan IncomingMessage),
		quit:       make(chan struct{}),
	}
}

func (h *Hub) Run() {

	utils.Info.Println("Hub started")

	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c.ID] = c
			utils.Info.Printf("Hub.register -> %s (当前连接数: %d)", c.ID, len(h.clients))
			h.mu.Unlock()

			// 新会话先收到一次全量状态
			if h.OnConnect != nil {
				go h.OnConnect(c.ID)
			}

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c.ID]; ok {
				delete(h.clients, c.ID)
				utils.Info.Printf("Hub.unregister -> %s (当前连接数: %d)", c.ID, len(h.clients))
				close(c.Send)
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			// best-effort 扇出：单个慢客户端不阻塞其他会话
			for id, client := range h.clients {
				select {
				case client.Send <- msg:
				default:
					utils.Error.Printf("dropping message for slow client %s", id)
				}
			}

		case req := <-h.sendOne:
			if client, ok := h.clients[req.ClientID]; ok {
				select {
				case client.Send <- req.Message:
				default:
				}
			}

		case req := <-h.incoming:
			// 把会话消息统一转发给游戏层（Engine）
			if h.OnIncoming != nil {
				h.OnIncoming(req)
			}

		case <-h.quit:
			for _, c := range h.clients {
				close(c.Send)
			}
			return
		}
	}
}

// BroadcastAll 推送给所有已连接会话
func (h *Hub) BroadcastAll(msg OutgoingMessage) {
	h.broadcast <- msg
}

// SendToClient 只发给单个会话（错误回执、初始快照）
func (h *Hub) SendToClient(id string, msg OutgoingMessage) {
	h.sendOne <- sendReq{
		ClientID: id,
		Message:  msg,
	}
}

// ClientByID lookup for tests
func (h *Hub) ClientByID(id string) (*Client, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	c, ok := h.clients[id]
	return c, ok
}

func (h *Hub) Close() {
	close(h.quit)
}
