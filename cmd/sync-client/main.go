// sync-client tails the cart/favorite event stream from the TCP sync
// server, reconnecting when the server goes away. Useful for watching a
// user's sessions stay in step during demos.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"strings"
	"time"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:7070", "TCP sync server address")
	pretty := flag.Bool("pretty", true, "pretty print JSON events")
	types := flag.String("types", "", "comma-separated event types to show (e.g. cart.update,favorite.add); empty = all")
	flag.Parse()

	filter := parseFilter(*types)

	for {
		if err := run(*addr, *pretty, filter); err != nil {
			log.Printf("[sync-client] disconnected: %v", err)
		}
		time.Sleep(1 * time.Second) // auto reconnect
	}
}

func parseFilter(raw string) map[string]bool {
	filter := make(map[string]bool)
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			filter[t] = true
		}
	}
	return filter
}

func run(addr string, pretty bool, filter map[string]bool) error {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Close()

	log.Printf("[sync-client] connected to %s", addr)

	sc := bufio.NewScanner(conn)
	for sc.Scan() {
		line := sc.Bytes()

		var obj map[string]any
		if err := json.Unmarshal(line, &obj); err != nil {
			// not JSON? print raw
			fmt.Println(string(line))
			continue
		}

		if len(filter) > 0 {
			t, _ := obj["type"].(string)
			if !filter[t] {
				continue
			}
		}

		if !pretty {
			fmt.Println(string(line))
			continue
		}
		b, _ := json.MarshalIndent(obj, "", "  ")
		fmt.Println(string(b))
	}
	if err := sc.Err(); err != nil {
		return err
	}
	return os.ErrClosed
}
