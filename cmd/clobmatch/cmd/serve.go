package cmd

import (
	"bufio"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"cosmossdk.io/log"
	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"github.com/openalpha/clobmatch/internal/book"
	"github.com/openalpha/clobmatch/internal/metrics"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// snapshotHub broadcasts best-bid/ask snapshots of one OrderBook to
// every connected websocket client on a fixed interval.
type snapshotHub struct {
	book     *book.OrderBook
	interval time.Duration
	logger   log.Logger

	mu      sync.Mutex
	clients map[*websocket.Conn]chan []byte
}

func newSnapshotHub(b *book.OrderBook, interval time.Duration, logger log.Logger) *snapshotHub {
	return &snapshotHub{
		book:     b,
		interval: interval,
		logger:   logger,
		clients:  make(map[*websocket.Conn]chan []byte),
	}
}

type snapshot struct {
	Symbol    string `json:"symbol"`
	AskPrice  *uint64 `json:"ask_price,omitempty"`
	AskSize   *uint64 `json:"ask_size,omitempty"`
	BidPrice  *uint64 `json:"bid_price,omitempty"`
	BidSize   *uint64 `json:"bid_size,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

func (h *snapshotHub) buildSnapshot() snapshot {
	s := snapshot{Symbol: h.book.Symbol, Timestamp: time.Now().UnixNano()}
	if ask := h.book.BestAsk(); ask != nil {
		price, size := ask.Price, ask.Available()
		s.AskPrice, s.AskSize = &price, &size
	}
	if bid := h.book.BestBid(); bid != nil {
		price, size := bid.Price, bid.Available()
		s.BidPrice, s.BidSize = &price, &size
	}
	return s
}

// run broadcasts snapshots until stop is closed.
func (h *snapshotHub) run(stop <-chan struct{}) {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			data, err := json.Marshal(h.buildSnapshot())
			if err != nil {
				continue
			}
			h.broadcast(data)
		}
	}
}

func (h *snapshotHub) broadcast(data []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn, send := range h.clients {
		select {
		case send <- data:
		default:
			h.logger.Error("dropping slow websocket client", "remote", conn.RemoteAddr().String())
		}
	}
}

func (h *snapshotHub) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	send := make(chan []byte, 16)
	h.mu.Lock()
	h.clients[conn] = send
	h.mu.Unlock()

	go func() {
		defer func() {
			h.mu.Lock()
			delete(h.clients, conn)
			h.mu.Unlock()
			conn.Close()
		}()
		for data := range send {
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		}
	}()
}

// ingest reads replayLine-encoded commands from r as they arrive,
// validating and applying each to b in turn. Unlike replay's
// orderedLines, it makes no attempt to reorder by timestamp: serve
// consumes a live or already-ordered stream, not a multi-producer
// capture merged after the fact.
func ingest(b *book.OrderBook, r io.Reader, symbol string, logger log.Logger) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var line replayLine
		if err := json.Unmarshal(raw, &line); err != nil {
			logger.Error("dropping unparseable command", "error", err)
			continue
		}
		c, err := line.toCommand(symbol)
		if err != nil {
			logger.Error("dropping unparseable command", "error", err)
			continue
		}
		if err := book.ValidateCommand(symbol, c); err != nil {
			logger.Error("dropping invalid command", "order_id", c.OrderID, "error", err)
			continue
		}
		b.NewOrder(c)
	}
	if err := scanner.Err(); err != nil {
		logger.Error("command stream ended with error", "error", err)
	}
}

func newServeCmd(logger log.Logger) *cobra.Command {
	var (
		symbol   string
		addr     string
		interval time.Duration
		input    string
	)

	cmd := &cobra.Command{
		Use:   "serve [file]",
		Short: "Run a command stream through the book and serve a live best-bid/ask feed plus Prometheus metrics",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				input = args[0]
			}

			b := book.New(symbol)
			metrics.GetCollector()

			var src io.Reader = os.Stdin
			if input != "" && input != "-" {
				f, err := os.Open(input)
				if err != nil {
					return err
				}
				defer f.Close()
				src = f
			}
			go ingest(b, src, symbol, logger)

			hub := newSnapshotHub(b, interval, logger)
			stop := make(chan struct{})
			go hub.run(stop)
			defer close(stop)

			mux := http.NewServeMux()
			mux.HandleFunc("/stream", hub.serveWS)
			mux.Handle("/metrics", metrics.Handler())

			logger.Info("serving", "addr", addr, "symbol", symbol, "input", input)
			return http.ListenAndServe(addr, mux)
		},
	}
	cmd.Flags().StringVar(&symbol, "symbol", "BTC-PERP", "symbol this feed serves")
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().DurationVar(&interval, "interval", 100*time.Millisecond, "snapshot broadcast interval")
	cmd.Flags().StringVar(&input, "input", "-", "command stream file to ingest (\"-\" for stdin)")
	return cmd
}
