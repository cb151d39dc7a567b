package ipc

import (
	"fmt"
	"net"
	"time"
)

// Client is a connection to the cwm control socket, used by cwmctl.
type Client struct {
	conn net.Conn
}

// Dial connects to the control socket.
func Dial() (*Client, error) {
	conn, err := net.DialTimeout("unix", SocketPath(), 2*time.Second)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", SocketPath(), err)
	}
	return &Client{conn: conn}, nil
}

// Close shuts the connection down.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Send writes one request.
func (c *Client) Send(req Request) error {
	return WriteMessage(c.conn, req)
}

// Recv reads one response. It blocks until the daemon answers or the
// stream closes.
func (c *Client) Recv() (Response, error) {
	var resp Response
	err := ReadMessage(c.conn, &resp)
	return resp, err
}

// RecvTimeout reads one response with a deadline; useful for queries where
// an invalid selector legitimately produces no reply.
func (c *Client) RecvTimeout(d time.Duration) (Response, bool, error) {
	if err := c.conn.SetReadDeadline(time.Now().Add(d)); err != nil {
		return Response{}, false, err
	}
	var resp Response
	err := ReadMessage(c.conn, &resp)
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return Response{}, false, nil
		}
		return Response{}, false, err
	}
	return resp, true, nil
}
