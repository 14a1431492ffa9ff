package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"fixhub/internal/catalog"
	"fixhub/pkg/models"
)

const defaultBaseURL = "http://localhost:8080"

type addResponse struct {
	Status   string          `json:"status"`
	Token    string          `json:"token"`
	Solution models.Solution `json:"solution"`
	Conflict models.Solution `json:"conflict"`
}

func main() {
	global := flag.NewFlagSet("fixhub", flag.ExitOnError)
	baseURL := global.String("api", defaultBaseURL, "API base URL")
	if err := global.Parse(os.Args[1:]); err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	args := global.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	ctx := context.Background()
	cmd := args[0]
	sub := ""
	if len(args) > 1 {
		sub = args[1]
	}

	client := &http.Client{Timeout: 15 * time.Second}

	switch cmd {
	case "solutions":
		handleSolutions(ctx, client, *baseURL, sub, args[2:])
	case "import":
		handleImport(ctx, client, *baseURL, args[1:])
	case "export":
		handleExport(ctx, client, *baseURL, args[1:])
	case "feed":
		handleFeed(*baseURL, sub, args[2:])
	default:
		printUsage()
		os.Exit(1)
	}
}

func handleSolutions(ctx context.Context, client *http.Client, baseURL, sub string, args []string) {
	switch sub {
	case "search":
		fs := flag.NewFlagSet("solutions search", flag.ExitOnError)
		query := fs.String("q", "", "search query (supports % and _ wildcards)")
		module := fs.String("module", "", "module filter (empty or All for every module)")
		counts := fs.Bool("counts", false, "print per-module counts instead of records")
		_ = fs.Parse(args)

		u, err := url.Parse(baseURL + "/solutions")
		if err != nil {
			log.Fatalf("invalid base url: %v", err)
		}
		qv := u.Query()
		if *query != "" {
			qv.Set("q", *query)
		}
		if *module != "" {
			qv.Set("module", *module)
		}
		u.RawQuery = qv.Encode()

		var resp catalog.View
		if err := doJSON(ctx, client, http.MethodGet, u.String(), nil, &resp); err != nil {
			log.Fatalf("search failed: %v", err)
		}
		if *counts {
			printJSON(resp.Counts)
			return
		}
		printJSON(resp)
	case "show":
		fs := flag.NewFlagSet("solutions show", flag.ExitOnError)
		id := fs.String("id", "", "solution id")
		_ = fs.Parse(args)
		if *id == "" {
			log.Fatal("solution id is required")
		}

		var resp models.Solution
		if err := doJSON(ctx, client, http.MethodGet, baseURL+"/solutions/"+url.PathEscape(*id), nil, &resp); err != nil {
			log.Fatalf("show failed: %v", err)
		}
		printJSON(resp)
	case "modules":
		var resp map[string][]string
		if err := doJSON(ctx, client, http.MethodGet, baseURL+"/solutions/modules", nil, &resp); err != nil {
			log.Fatalf("modules failed: %v", err)
		}
		printJSON(resp)
	case "add":
		fs := flag.NewFlagSet("solutions add", flag.ExitOnError)
		title := fs.String("title", "", "issue title (required)")
		module := fs.String("module", "", "module label (required)")
		severity := fs.String("severity", "", "severity label")
		tags := fs.String("tags", "", "comma-separated tags")
		rootCause := fs.String("root-cause", "", "root cause text")
		preChecks := fs.String("pre-checks", "", "newline-separated pre-checks")
		steps := fs.String("steps", "", "newline-separated fix steps")
		validation := fs.String("validation", "", "newline-separated post validation")
		yes := fs.Bool("yes", false, "insert even when a duplicate exists")
		_ = fs.Parse(args)

		payload := catalog.AddForm{
			Title:          *title,
			Module:         *module,
			Severity:       *severity,
			Tags:           *tags,
			RootCause:      *rootCause,
			PreChecks:      *preChecks,
			Steps:          *steps,
			PostValidation: *validation,
		}

		status, body, err := doRaw(ctx, client, http.MethodPost, baseURL+"/solutions", payload)
		if err != nil {
			log.Fatalf("add failed: %v", err)
		}

		var resp addResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			log.Fatalf("decode response: %v", err)
		}

		switch status {
		case http.StatusCreated:
			fmt.Printf("✅ added %s (%s)\n", resp.Solution.Title, resp.Solution.ID)
		case http.StatusConflict:
			if !*yes {
				fmt.Printf("⚠️  duplicate of %q in %s\n", resp.Conflict.Title, resp.Conflict.Module)
				fmt.Printf("rerun with -yes, or: fixhub solutions confirm -token %s -accept\n", resp.Token)
				os.Exit(1)
			}
			confirm := map[string]any{"token": resp.Token, "accept": true}
			var confirmed addResponse
			if err := doJSON(ctx, client, http.MethodPost, baseURL+"/solutions/confirm", confirm, &confirmed); err != nil {
				log.Fatalf("confirm failed: %v", err)
			}
			fmt.Printf("✅ added despite duplicate: %s (%s)\n", confirmed.Solution.Title, confirmed.Solution.ID)
		default:
			log.Fatalf("add failed: %s", strings.TrimSpace(string(body)))
		}
	case "confirm":
		fs := flag.NewFlagSet("solutions confirm", flag.ExitOnError)
		token := fs.String("token", "", "pending duplicate token")
		accept := fs.Bool("accept", false, "insert the duplicate (omit to abort)")
		_ = fs.Parse(args)
		if *token == "" {
			log.Fatal("token is required")
		}

		payload := map[string]any{"token": *token, "accept": *accept}
		var resp addResponse
		if err := doJSON(ctx, client, http.MethodPost, baseURL+"/solutions/confirm", payload, &resp); err != nil {
			log.Fatalf("confirm failed: %v", err)
		}
		if resp.Status == string(catalog.AddCommitted) {
			fmt.Printf("✅ added %s (%s)\n", resp.Solution.Title, resp.Solution.ID)
		} else {
			fmt.Println("aborted, collection unchanged")
		}
	default:
		log.Fatal("usage: fixhub solutions <search|show|modules|add|confirm>")
	}
}

func handleImport(ctx context.Context, client *http.Client, baseURL string, args []string) {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	file := fs.String("file", "", "JSON array file to import (required)")
	_ = fs.Parse(args)
	if *file == "" {
		log.Fatal("file is required")
	}

	data, err := os.ReadFile(*file)
	if err != nil {
		log.Fatalf("read %s: %v", *file, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/solutions/import", strings.NewReader(string(data)))
	if err != nil {
		log.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		log.Fatalf("import failed: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 300 {
		log.Fatalf("import failed: %s", strings.TrimSpace(string(body)))
	}

	var out map[string]any
	if err := json.Unmarshal(body, &out); err != nil {
		log.Fatalf("decode response: %v", err)
	}
	fmt.Printf("✅ imported: added %v, skipped %v duplicates\n", out["added"], out["skipped"])
}

func handleExport(ctx context.Context, client *http.Client, baseURL string, args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	out := fs.String("out", "", "output path (defaults to the server-chosen filename)")
	_ = fs.Parse(args)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/solutions/export", nil)
	if err != nil {
		log.Fatalf("build request: %v", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		log.Fatalf("export failed: %v", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Fatalf("read export: %v", err)
	}
	if resp.StatusCode >= 300 {
		log.Fatalf("export failed: %s", strings.TrimSpace(string(data)))
	}

	path := *out
	if path == "" {
		path = filenameFromDisposition(resp.Header.Get("Content-Disposition"))
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatalf("mkdir %s: %v", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.Fatalf("write %s: %v", path, err)
	}
	fmt.Printf("✅ exported to %s\n", path)
}

func handleFeed(baseURL, sub string, args []string) {
	switch sub {
	case "listen":
		fs := flag.NewFlagSet("feed listen", flag.ExitOnError)
		addr := fs.String("addr", "127.0.0.1:7070", "TCP feed address")
		pretty := fs.Bool("pretty", true, "pretty print JSON events")
		_ = fs.Parse(args)
		for {
			if err := runFeedTCP(*addr, *pretty); err != nil {
				log.Printf("[feed] disconnected: %v", err)
			}
			time.Sleep(1 * time.Second)
		}
	case "subscribe":
		fs := flag.NewFlagSet("feed subscribe", flag.ExitOnError)
		wsURL := fs.String("ws", "", "WebSocket URL (defaults to /ws on API host)")
		_ = fs.Parse(args)

		endpoint := *wsURL
		if endpoint == "" {
			var err error
			endpoint, err = websocketURL(baseURL, "/ws")
			if err != nil {
				log.Fatalf("ws url: %v", err)
			}
		}
		if err := runWebSocket(endpoint); err != nil {
			log.Fatalf("subscribe failed: %v", err)
		}
	default:
		log.Fatal("usage: fixhub feed <listen|subscribe>")
	}
}

func runFeedTCP(addr string, pretty bool) error {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Close()

	log.Printf("[feed] connected to %s", addr)
	reader := bufio.NewScanner(conn)
	for reader.Scan() {
		line := reader.Bytes()
		if !pretty {
			fmt.Println(string(line))
			continue
		}
		var obj map[string]any
		if err := json.Unmarshal(line, &obj); err != nil {
			fmt.Println(string(line))
			continue
		}
		b, _ := json.MarshalIndent(obj, "", "  ")
		fmt.Println(string(b))
	}
	if err := reader.Err(); err != nil {
		return err
	}
	return os.ErrClosed
}

func runWebSocket(wsURL string) error {
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		return err
	}
	defer conn.Close()
	log.Printf("[feed] connected to %s", wsURL)
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		fmt.Println(string(msg))
	}
}

func doJSON(ctx context.Context, client *http.Client, method, endpoint string, payload any, out any) error {
	status, data, err := doRaw(ctx, client, method, endpoint, payload)
	if err != nil {
		return err
	}
	if status >= 300 {
		return fmt.Errorf("%s %s failed: %s", method, endpoint, strings.TrimSpace(string(data)))
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(data, out)
}

func doRaw(ctx context.Context, client *http.Client, method, endpoint string, payload any) (int, []byte, error) {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, err
		}
		body = strings.NewReader(string(b))
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return 0, nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, data, nil
}

func printJSON(v any) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatalf("json: %v", err)
	}
	fmt.Println(string(b))
}

func filenameFromDisposition(header string) string {
	const marker = "filename="
	if i := strings.Index(header, marker); i >= 0 {
		name := strings.Trim(header[i+len(marker):], `"`)
		if name != "" {
			return name
		}
	}
	return "solutions-export.json"
}

func websocketURL(baseURL, path string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}
	scheme := "ws"
	if u.Scheme == "https" {
		scheme = "wss"
	}
	return (&url.URL{
		Scheme: scheme,
		Host:   u.Host,
		Path:   path,
	}).String(), nil
}

func printUsage() {
	fmt.Println("fixhub <command> [subcommand] [flags]")
	fmt.Println("commands:")
	fmt.Println("  solutions search|show|modules|add|confirm")
	fmt.Println("  import -file <json>")
	fmt.Println("  export [-out <path>]")
	fmt.Println("  feed listen|subscribe")
}
