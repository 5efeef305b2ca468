package chatws

import (
	"context"
	"encoding/json"
	"log"
	"strconv"
	"sync"
	"time"

	websocket "github.com/gofiber/contrib/websocket"
	"github.com/miwaszko990/ugc-travel-connect/internal/services"
)

type Hub struct {
	clients    map[string]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan *Message
}

type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	userID string

	mu     sync.Mutex
	closed bool
	send   chan []byte
}

// enqueue places a payload on the outbound buffer. Reports false when the
// client is closed or the buffer is full. The mutex serializes against
// closeSend so the hub closing the channel cannot race a ReadPump write.
func (c *Client) enqueue(payload []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- payload:
		return true
	default:
		return false
	}
}

func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

type chatSender interface {
	SendMessage(
		ctx context.Context,
		actorID int64,
		role string,
		conversationID int64,
		content string,
	) (*services.ChatDelivery, error)
	MarkConversationRead(
		ctx context.Context,
		actorID int64,
		role string,
		conversationID int64,
	) (int64, error)
	SetTyping(
		ctx context.Context,
		actorID int64,
		role string,
		conversationID int64,
		isTyping bool,
	) (int64, error)
}

type Message struct {
	Type           string `json:"type"`
	ConversationID string `json:"conversation_id"`
	MessageID      string `json:"message_id,omitempty"`
	SenderID       string `json:"sender_id"`
	RecipientID    string `json:"recipient_id,omitempty"`
	Kind           string `json:"kind,omitempty"`
	Content        string `json:"content,omitempty"`
	IsTyping       bool   `json:"is_typing,omitempty"`
	Timestamp      string `json:"timestamp"`
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *Message, 64),
	}
}

func NewClient(hub *Hub, conn *websocket.Conn, userID string) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		userID: userID,
		send:   make(chan []byte, 32),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			set, ok := h.clients[client.userID]
			if !ok {
				set = make(map[*Client]struct{})
				h.clients[client.userID] = set
			}
			set[client] = struct{}{}
		case client := <-h.unregister:
			set, ok := h.clients[client.userID]
			if !ok {
				continue
			}
			if _, exists := set[client]; exists {
				delete(set, client)
				client.closeSend()
			}
			if len(set) == 0 {
				delete(h.clients, client.userID)
			}
		case message := <-h.broadcast:
			h.deliver(message)
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// NotifyMessage lets services push a committed message into the hub without
// holding a websocket connection. The payment webhook uses it to surface
// the escrow system message to both participants.
func (h *Hub) NotifyMessage(delivery *services.ChatDelivery) {
	h.broadcast <- deliveryMessage(delivery)
}

func deliveryMessage(delivery *services.ChatDelivery) *Message {
	return &Message{
		Type:           "message",
		ConversationID: strconv.FormatInt(delivery.Message.ConversationID, 10),
		MessageID:      strconv.FormatInt(delivery.Message.ID, 10),
		SenderID:       strconv.FormatInt(delivery.Message.SenderID, 10),
		RecipientID:    strconv.FormatInt(delivery.RecipientID, 10),
		Kind:           delivery.Message.Kind,
		Content:        delivery.Message.Content,
		Timestamp:      services.FormatChatTimestamp(delivery.Message.CreatedAt),
	}
}

func (h *Hub) deliver(message *Message) {
	encoded, err := json.Marshal(message)
	if err != nil {
		log.Printf("chat hub encode message: %v", err)
		return
	}

	h.sendToUser(message.SenderID, encoded)
	if message.RecipientID != "" && message.RecipientID != message.SenderID {
		h.sendToUser(message.RecipientID, encoded)
	}
}

func (h *Hub) sendToUser(userID string, payload []byte) {
	set, ok := h.clients[userID]
	if !ok {
		return
	}

	for client := range set {
		if !client.enqueue(payload) {
			delete(set, client)
			client.closeSend()
		}
	}
	if len(set) == 0 {
		delete(h.clients, userID)
	}
}

func (c *Client) ReadPump(service chatSender, role string) {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	actorID, err := strconv.ParseInt(c.userID, 10, 64)
	if err != nil {
		writeError(c, "invalid user")
		return
	}

	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var incoming struct {
			Type           string `json:"type"`
			ConversationID string `json:"conversation_id"`
			Content        string `json:"content"`
			IsTyping       bool   `json:"is_typing"`
		}
		if err := json.Unmarshal(payload, &incoming); err != nil {
			writeError(c, "invalid message payload")
			continue
		}

		conversationID, err := strconv.ParseInt(incoming.ConversationID, 10, 64)
		if err != nil || conversationID <= 0 {
			writeError(c, "invalid conversation id")
			continue
		}

		switch incoming.Type {
		case "message":
			delivery, err := service.SendMessage(
				context.Background(),
				actorID,
				role,
				conversationID,
				incoming.Content,
			)
			if err != nil {
				writeError(c, "failed to send message")
				continue
			}
			c.hub.broadcast <- deliveryMessage(delivery)
		case "typing":
			recipientID, err := service.SetTyping(
				context.Background(),
				actorID,
				role,
				conversationID,
				incoming.IsTyping,
			)
			if err != nil {
				writeError(c, "failed to update typing status")
				continue
			}
			c.hub.broadcast <- &Message{
				Type:           "typing",
				ConversationID: incoming.ConversationID,
				SenderID:       c.userID,
				RecipientID:    strconv.FormatInt(recipientID, 10),
				IsTyping:       incoming.IsTyping,
				Timestamp:      services.FormatChatTimestamp(time.Now().UTC()),
			}
		case "read":
			recipientID, err := service.MarkConversationRead(
				context.Background(),
				actorID,
				role,
				conversationID,
			)
			if err != nil {
				writeError(c, "failed to mark conversation read")
				continue
			}
			c.hub.broadcast <- &Message{
				Type:           "read",
				ConversationID: incoming.ConversationID,
				SenderID:       c.userID,
				RecipientID:    strconv.FormatInt(recipientID, 10),
				Timestamp:      services.FormatChatTimestamp(time.Now().UTC()),
			}
		default:
			writeError(c, "unsupported message type")
		}
	}
}

func (c *Client) WritePump() {
	defer func() {
		_ = c.conn.Close()
	}()

	for payload := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
}

func writeError(client *Client, message string) {
	payload, err := json.Marshal(Message{
		Type:      "error",
		Content:   message,
		Timestamp: services.FormatChatTimestamp(time.Now().UTC()),
	})
	if err != nil {
		return
	}
	if !client.enqueue(payload) {
		client.hub.Unregister(client)
	}
}
