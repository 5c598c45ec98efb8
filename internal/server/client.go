package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
)

// BadRequestError is returned by ReadRequest for a message that is not a
// valid request. The connection can keep being used.
type BadRequestError struct {
	Err error
}

func (e *BadRequestError) Error() string {
	return fmt.Sprintf("bad request: %v", e.Err)
}

func (e *BadRequestError) Unwrap() error {
	return e.Err
}

// Client wraps a WebSocket connection speaking the JSON chunk protocol.
type Client struct {
	conn *websocket.Conn
	mu   sync.Mutex // serializes writes
}

// NewClient wraps conn, limiting inbound messages to maxMessageSize bytes
// when it is positive.
func NewClient(conn *websocket.Conn, maxMessageSize int64) *Client {
	if maxMessageSize > 0 {
		conn.SetReadLimit(maxMessageSize)
	}
	return &Client{conn: conn}
}

// ReadRequest blocks until the next request arrives. Blank messages are
// skipped.
func (c *Client) ReadRequest() (Request, error) {
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			return Request{}, err
		}

		message = bytes.TrimSpace(message)
		if len(message) == 0 {
			continue
		}

		var req Request
		if err := json.Unmarshal(message, &req); err != nil {
			return Request{}, &BadRequestError{Err: err}
		}
		return req, nil
	}
}

// Send writes v as a JSON text message.
func (c *Client) Send(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

// Close closes the WebSocket connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// RemoteAddr returns the remote address as a string.
func (c *Client) RemoteAddr() string {
	return c.conn.RemoteAddr().String()
}
