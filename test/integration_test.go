package test

import (
	"bytes"
	"net"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"

	"github.com/omochice/toy-socket-client/internal/client"
	"github.com/omochice/toy-socket-client/internal/reader"
)

func listenerConfig(t *testing.T, addr, transport string) client.Config {
	t.Helper()
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		t.Fatalf("Failed to split address: %v", err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		t.Fatalf("Failed to parse port: %v", err)
	}
	return client.Config{Host: host, Port: port, Transport: transport}
}

// TestIntegration_SendSession drives a full session: operator input arrives
// through the line reader, the client forwards it over a real TCP
// connection, and the exit keyword ends the session.
func TestIntegration_SendSession(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to start listener: %v", err)
	}
	defer listener.Close()

	payloads := make(chan []byte, 16)
	go func() {
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		buf := make([]byte, 4096)
		for {
			n, err := conn.Read(buf)
			if err != nil {
				return
			}
			payload := make([]byte, n)
			copy(payload, buf[:n])
			payloads <- payload
		}
	}()

	// scripted operator input delivered through the real line reader
	stdin, stdinWriter, err := os.Pipe()
	if err != nil {
		t.Fatalf("Failed to create stdin pipe: %v", err)
	}
	defer stdin.Close()

	lines := make(chan string, 16)
	shutdown := make(chan struct{})
	defer close(shutdown)
	go reader.Read(stdin, lines, shutdown)

	var out bytes.Buffer
	c := client.New(listenerConfig(t, listener.Addr().String(), client.TransportTCP), &out)
	if err := c.Connect(); err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}

	if _, err := stdinWriter.WriteString("hello\nexit\n"); err != nil {
		t.Fatalf("Failed to write input: %v", err)
	}
	stdinWriter.Close()

	outcome := c.Run(lines, make(chan os.Signal))
	if outcome != client.OutcomeExit {
		t.Errorf("Expected outcome %v, got %v", client.OutcomeExit, outcome)
	}
	if c.IsConnected() {
		t.Error("Connection should be closed after exit")
	}

	select {
	case got := <-payloads:
		if string(got) != "hello" {
			t.Errorf("Expected peer to observe %q, got %q", "hello", got)
		}
	case <-time.After(2 * time.Second):
		t.Error("Timeout waiting for payload")
	}

	if !bytes.Contains(out.Bytes(), []byte("Exiting...")) {
		t.Errorf("Expected exit notice in output, got %q", out.String())
	}
}

// TestIntegration_WebSocketTransport checks the WebSocket transport against
// a server that upgrades the connection and reads binary frames.
func TestIntegration_WebSocketTransport(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to start listener: %v", err)
	}
	defer listener.Close()

	payloads := make(chan []byte, 16)
	go func() {
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		if _, err := ws.Upgrade(conn); err != nil {
			return
		}
		for {
			data, err := wsutil.ReadClientBinary(conn)
			if err != nil {
				return
			}
			payloads <- data
		}
	}()

	var out bytes.Buffer
	c := client.New(listenerConfig(t, listener.Addr().String(), client.TransportWebSocket), &out)
	if err := c.Connect(); err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	defer c.Close()

	if err := c.Send("hello"); err != nil {
		t.Fatalf("Failed to send: %v", err)
	}

	select {
	case got := <-payloads:
		if string(got) != "hello" {
			t.Errorf("Expected peer to observe %q, got %q", "hello", got)
		}
	case <-time.After(2 * time.Second):
		t.Error("Timeout waiting for frame")
	}
}
