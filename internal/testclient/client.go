// Package testclient is a websocket client for driving a running chunk
// service from integration tests.
package testclient

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lawnchairsociety/overworld/internal/server"
)

// Message is one reply from the server, kept raw until a test decodes it.
type Message struct {
	Type string
	Raw  json.RawMessage
}

// Decode unmarshals the message into out, typically a server reply struct.
func (m Message) Decode(out any) error {
	return json.Unmarshal(m.Raw, out)
}

// TestClient represents a test client connection to the chunk service
type TestClient struct {
	Name      string
	conn      *websocket.Conn
	messages  []Message
	mu        sync.Mutex
	writeMu   sync.Mutex
	done      chan struct{}
	closeOnce sync.Once
}

// NewTestClient dials the service at address ("host:port" or a full ws://
// URL) and starts collecting replies in the background.
func NewTestClient(name string, address string) (*TestClient, error) {
	conn, _, err := websocket.DefaultDialer.Dial(wsURL(address), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	client := &TestClient{
		Name:     name,
		conn:     conn,
		messages: make([]Message, 0),
		done:     make(chan struct{}),
	}

	// Start reading messages in background
	go client.readMessages()

	return client, nil
}

func wsURL(address string) string {
	if strings.HasPrefix(address, "ws://") || strings.HasPrefix(address, "wss://") {
		return address
	}
	u := url.URL{Scheme: "ws", Host: address, Path: "/ws"}
	return u.String()
}

// readMessages continuously reads messages from the server
func (c *TestClient) readMessages() {
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var head struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(data, &head); err != nil {
			head.Type = "invalid"
		}

		c.mu.Lock()
		c.messages = append(c.messages, Message{Type: head.Type, Raw: data})
		c.mu.Unlock()
	}
}

// Send sends a request to the server
func (c *TestClient) Send(req server.Request) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(req)
}

// SendRaw sends text as-is, for exercising malformed input
func (c *TestClient) SendRaw(text string) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, []byte(text))
}

// Request clears the buffer, sends req and waits for the reply.
func (c *TestClient) Request(req server.Request, timeout time.Duration) (Message, error) {
	c.ClearMessages()
	if err := c.Send(req); err != nil {
		return Message{}, err
	}
	return c.next(timeout)
}

// RequestRaw is Request for a raw text message.
func (c *TestClient) RequestRaw(text string, timeout time.Duration) (Message, error) {
	c.ClearMessages()
	if err := c.SendRaw(text); err != nil {
		return Message{}, err
	}
	return c.next(timeout)
}

func (c *TestClient) next(timeout time.Duration) (Message, error) {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		c.mu.Lock()
		if len(c.messages) > 0 {
			msg := c.messages[0]
			c.mu.Unlock()
			return msg, nil
		}
		c.mu.Unlock()

		select {
		case <-c.done:
			return Message{}, fmt.Errorf("client closed")
		case <-time.After(10 * time.Millisecond):
		}
	}
	return Message{}, fmt.Errorf("no reply within %v", timeout)
}

// GetMessages returns all messages received so far
func (c *TestClient) GetMessages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Return a copy
	result := make([]Message, len(c.messages))
	copy(result, c.messages)
	return result
}

// ClearMessages clears the message buffer
func (c *TestClient) ClearMessages() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = make([]Message, 0)
}

// WaitForType waits for a message of the given type (with timeout)
func (c *TestClient) WaitForType(typ string, timeout time.Duration) (Message, bool) {
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		for _, msg := range c.GetMessages() {
			if msg.Type == typ {
				return msg, true
			}
		}
		time.Sleep(20 * time.Millisecond)
	}

	return Message{}, false
}

// Close closes the client connection. Safe to call more than once.
func (c *TestClient) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		err = c.conn.Close()
	})
	return err
}

// PrintMessages prints all messages (for debugging)
func (c *TestClient) PrintMessages() {
	messages := c.GetMessages()
	fmt.Printf("\n=== Messages for %s ===\n", c.Name)
	for i, msg := range messages {
		fmt.Printf("[%d] %s %s\n", i, msg.Type, msg.Raw)
	}
	fmt.Println("======================")
}
