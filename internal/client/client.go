// Package client implements an interactive send-only socket client: it
// connects once to a configured peer, then forwards operator-entered lines
// until an exit keyword, a send failure, or an interrupt.
package client

import (
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Default peer location used when the operator supplies nothing.
const (
	DefaultHost = "localhost"
	DefaultPort = 8080
)

// Supported transports.
const (
	TransportTCP       = "tcp"
	TransportWebSocket = "ws"
)

const (
	prompt          = "Enter message to send (or 'exit' to quit): "
	exitKeyword     = "exit"
	exitNotice      = "Exiting..."
	interruptNotice = "Interrupted by user, closing connection."
)

// Config carries the peer location and transport choice into the client.
type Config struct {
	Host      string
	Port      int
	Transport string
}

// Addr returns the peer address in "host:port" form.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// DefaultConfig returns a Config pointing at the default peer over TCP.
func DefaultConfig() Config {
	return Config{
		Host:      DefaultHost,
		Port:      DefaultPort,
		Transport: TransportTCP,
	}
}

// Outcome is the terminal state of the interactive loop.
type Outcome int

const (
	// OutcomeExit means the operator ended the session with the exit
	// keyword (or end of input) and the connection was closed.
	OutcomeExit Outcome = iota
	// OutcomeSendError means a transmission failed and the loop stopped.
	OutcomeSendError
	// OutcomeInterrupted means an interrupt signal ended the loop.
	OutcomeInterrupted
)

// String returns the string representation of Outcome
func (o Outcome) String() string {
	switch o {
	case OutcomeExit:
		return "EXIT"
	case OutcomeSendError:
		return "SEND_ERROR"
	case OutcomeInterrupted:
		return "INTERRUPTED"
	default:
		return "UNKNOWN"
	}
}

// Client holds one connection and drives the interactive loop over it.
// It is owned by a single control flow; none of its methods are safe for
// concurrent use.
type Client struct {
	cfg  Config
	out  io.Writer
	conn Connection
}

// New creates a new Client instance. Notices and prompts are written to out;
// pass nil to use os.Stdout.
func New(cfg Config, out io.Writer) *Client {
	if out == nil {
		out = os.Stdout
	}
	return &Client{cfg: cfg, out: out}
}

// Connect establishes the connection to the peer and prints a confirmation.
// On failure no connection is retained and the error describes the cause;
// the caller decides whether to continue.
func (c *Client) Connect() error {
	var (
		conn Connection
		err  error
	)

	switch c.cfg.Transport {
	case TransportWebSocket:
		conn, err = DialWebSocket(c.cfg.Addr())
	case TransportTCP, "":
		conn, err = DialTCP(c.cfg.Addr())
	default:
		return errors.Errorf("unknown transport %q", c.cfg.Transport)
	}
	if err != nil {
		return err
	}

	c.conn = conn
	fmt.Fprintf(c.out, "Connected to %s:%d\n", c.cfg.Host, c.cfg.Port)
	return nil
}

// IsConnected returns whether the client holds an open connection.
func (c *Client) IsConnected() bool {
	return c.conn != nil
}

// Send transmits exactly the UTF-8 bytes of text to the peer. Either the
// whole payload is handed to the transport or an error is returned.
func (c *Client) Send(text string) error {
	if c.conn == nil {
		return errors.New("not connected")
	}
	if _, err := c.conn.Write([]byte(text)); err != nil {
		return errors.Wrap(err, "send")
	}
	return nil
}

// Close closes the connection. Safe to call when not connected.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

// Run drives the interactive loop until a terminal state is reached: the
// exit keyword (connection closed, OutcomeExit), a failed send (loop stops
// without a second close, OutcomeSendError), or a signal on interrupt
// (loop stops without an explicit close, OutcomeInterrupted). A closed
// lines channel is treated like the exit keyword.
func (c *Client) Run(lines <-chan string, interrupt <-chan os.Signal) Outcome {
	for {
		fmt.Fprint(c.out, prompt)

		select {
		case line, ok := <-lines:
			if !ok || isExit(line) {
				fmt.Fprintln(c.out, exitNotice)
				c.Close()
				return OutcomeExit
			}
			if err := c.Send(line); err != nil {
				fmt.Fprintf(c.out, "Error sending data: %v\n", err)
				return OutcomeSendError
			}
		case <-interrupt:
			fmt.Fprintln(c.out, interruptNotice)
			return OutcomeInterrupted
		}
	}
}

// isExit reports whether the operator input requests session end. The
// keyword match ignores surrounding whitespace and letter case.
func isExit(line string) bool {
	return strings.EqualFold(strings.TrimSpace(line), exitKeyword)
}
