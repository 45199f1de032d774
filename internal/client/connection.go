package client

import (
	"context"
	"fmt"
	"net"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
	"github.com/pkg/errors"
)

// Connection represents an open outbound connection to the peer.
// The client only ever sends; the received stream is never read.
type Connection interface {
	// Write sends data to the peer
	Write(data []byte) (int, error)

	// Close closes the connection
	Close() error

	// RemoteAddr returns the peer address
	RemoteAddr() net.Addr
}

// TCPConnection wraps net.Conn for raw TCP connections. Every Write puts the
// payload on the wire byte-for-byte, with no delimiter or framing added.
type TCPConnection struct {
	conn net.Conn
}

// DialTCP opens a raw TCP connection to addr ("host:port").
func DialTCP(addr string) (*TCPConnection, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, errors.Wrap(err, "dial tcp")
	}
	return &TCPConnection{conn: conn}, nil
}

// NewTCPConnection wraps an already-established net.Conn.
func NewTCPConnection(conn net.Conn) *TCPConnection {
	return &TCPConnection{conn: conn}
}

func (tc *TCPConnection) Write(data []byte) (int, error) {
	return tc.conn.Write(data)
}

func (tc *TCPConnection) Close() error {
	return tc.conn.Close()
}

func (tc *TCPConnection) RemoteAddr() net.Addr {
	return tc.conn.RemoteAddr()
}

// WebSocketConnection wraps net.Conn for WebSocket connections using
// gobwas/ws. Each Write is sent as one binary frame.
type WebSocketConnection struct {
	conn net.Conn
}

// DialWebSocket opens a WebSocket connection to addr ("host:port") by
// performing the client handshake against ws://addr.
func DialWebSocket(addr string) (*WebSocketConnection, error) {
	conn, _, _, err := ws.Dial(context.Background(), fmt.Sprintf("ws://%s", addr))
	if err != nil {
		return nil, errors.Wrap(err, "dial websocket")
	}
	return &WebSocketConnection{conn: conn}, nil
}

// NewWebSocketConnection wraps a net.Conn on which the client-side WebSocket
// handshake has already completed.
func NewWebSocketConnection(conn net.Conn) *WebSocketConnection {
	return &WebSocketConnection{conn: conn}
}

func (wc *WebSocketConnection) Write(data []byte) (int, error) {
	if err := wsutil.WriteClientBinary(wc.conn, data); err != nil {
		return 0, err
	}
	return len(data), nil
}

func (wc *WebSocketConnection) Close() error {
	_ = wsutil.WriteClientMessage(wc.conn, ws.OpClose, nil)
	return wc.conn.Close()
}

func (wc *WebSocketConnection) RemoteAddr() net.Addr {
	return wc.conn.RemoteAddr()
}
