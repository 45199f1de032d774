package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/omochice/toy-socket-client/internal/client"
	"github.com/omochice/toy-socket-client/internal/reader"
)

func main() {
	// Parse command-line flags
	host := flag.String("host", client.DefaultHost, "Peer host")
	port := flag.Int("port", client.DefaultPort, "Peer port")
	transport := flag.String("transport", client.TransportTCP, "Transport: tcp or ws")
	flag.Parse()

	cfg := client.Config{
		Host:      *host,
		Port:      *port,
		Transport: *transport,
	}

	// Connect to the peer; on failure print the cause and skip the loop
	c := client.New(cfg, os.Stdout)
	if err := c.Connect(); err != nil {
		fmt.Printf("Error connecting to server: %v\n", err)
		return
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	// Deliver operator lines as events so the loop can wait on input and
	// interrupt in one place
	lines := make(chan string)
	shutdown := make(chan struct{})
	go reader.Read(os.Stdin, lines, shutdown)

	c.Run(lines, interrupt)
	close(shutdown)
}
