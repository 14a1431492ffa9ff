package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"time"

	"github.com/gorilla/websocket"

	"fixhub/internal/sync"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:7070", "TCP feed address")
	wsURL := flag.String("ws", "", "WebSocket feed URL (overrides -addr)")
	pretty := flag.Bool("pretty", true, "pretty print JSON events")
	flag.Parse()

	for {
		var err error
		if *wsURL != "" {
			err = runWS(*wsURL, *pretty)
		} else {
			err = runTCP(*addr, *pretty)
		}
		if err != nil {
			log.Printf("[feed-client] disconnected: %v", err)
		}
		time.Sleep(1 * time.Second) // auto reconnect
	}
}

func runTCP(addr string, pretty bool) error {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Close()

	log.Printf("[feed-client] connected to %s", addr)

	sc := bufio.NewScanner(conn)
	for sc.Scan() {
		printEvent(sc.Bytes(), pretty)
	}
	if err := sc.Err(); err != nil {
		return err
	}
	return os.ErrClosed
}

func runWS(wsURL string, pretty bool) error {
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", wsURL, err)
	}
	defer conn.Close()

	log.Printf("[feed-client] connected to %s", wsURL)
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		printEvent(msg, pretty)
	}
}

func printEvent(line []byte, pretty bool) {
	if !pretty {
		fmt.Println(string(line))
		return
	}
	var ev sync.CatalogEvent
	if err := json.Unmarshal(line, &ev); err != nil || ev.Type == "" {
		// welcome frames and anything non-catalog print raw
		fmt.Println(string(line))
		return
	}
	switch ev.Type {
	case sync.EventAdd:
		fmt.Printf("%s  add     %-4s %q (total %d)\n",
			ev.At.Local().Format("15:04:05"), ev.Module, ev.Title, ev.Total)
	case sync.EventImport:
		fmt.Printf("%s  import  +%d records, %d duplicates skipped (total %d)\n",
			ev.At.Local().Format("15:04:05"), ev.Added, ev.Skipped, ev.Total)
	default:
		b, _ := json.MarshalIndent(ev, "", "  ")
		fmt.Println(string(b))
	}
}
