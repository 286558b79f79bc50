package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"cosmossdk.io/log"
	"github.com/google/uuid"
	"github.com/huandu/skiplist"
	"github.com/spf13/cobra"

	"github.com/openalpha/clobmatch/internal/book"
)

// replayLine is one line of the replay file's JSON-lines format.
// Input is not guaranteed to arrive in timestamp order (e.g. a
// multi-producer capture merged after the fact), so replay sorts by
// Timestamp before feeding the book.
type replayLine struct {
	OrderID   uint64 `json:"order_id"`
	Price     uint64 `json:"price"`
	Size      uint64 `json:"size"`
	Side      string `json:"side"`
	UID       uint64 `json:"uid"`
	Timestamp int64  `json:"timestamp"`
}

func (l replayLine) toCommand(symbol string) (book.Command, error) {
	var side book.Side
	switch l.Side {
	case "ASK":
		side = book.SideAsk
	case "BID":
		side = book.SideBid
	default:
		return book.Command{}, fmt.Errorf("unknown side %q for order %d", l.Side, l.OrderID)
	}
	return book.Command{
		OrderID:   l.OrderID,
		Price:     l.Price,
		Size:      l.Size,
		Side:      side,
		UID:       l.UID,
		Timestamp: l.Timestamp,
		Symbol:    symbol,
	}, nil
}

func newReplayCmd(logger log.Logger) *cobra.Command {
	var symbol string

	cmd := &cobra.Command{
		Use:   "replay [file]",
		Short: "Replay a recorded newOrder command stream through the matching core",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(cmd, args[0], symbol, logger)
		},
	}
	cmd.Flags().StringVar(&symbol, "symbol", "BTC-PERP", "symbol tag attached to commands and log lines")
	return cmd
}

// orderedLines returns lines from path sorted ascending by Timestamp,
// using a skiplist so the (already near-sorted, in practice) input can
// be ordered in O(n log n) without pulling the whole decoded file into
// a slice-then-sort pass.
func orderedLines(path string) ([]replayLine, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	type lineKey struct{ ts, seq int64 }
	list := skiplist.New(skiplist.GreaterThanFunc(func(lhs, rhs interface{}) int {
		a, b := lhs.(lineKey), rhs.(lineKey)
		switch {
		case a.ts < b.ts:
			return -1
		case a.ts > b.ts:
			return 1
		case a.seq < b.seq:
			return -1
		case a.seq > b.seq:
			return 1
		default:
			return 0
		}
	}))

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	seq := int64(0)
	for scanner.Scan() {
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var line replayLine
		if err := json.Unmarshal(raw, &line); err != nil {
			return nil, fmt.Errorf("parse line: %w", err)
		}
		// Break timestamp ties by arrival sequence to keep a stable
		// ordering when the capture contains simultaneous commands.
		key := lineKey{ts: line.Timestamp, seq: seq}
		seq++
		list.Set(key, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	out := make([]replayLine, 0, list.Len())
	for el := list.Front(); el != nil; el = el.Next() {
		out = append(out, el.Value.(replayLine))
	}
	return out, nil
}

func runReplay(cmd *cobra.Command, path, symbol string, logger log.Logger) error {
	lines, err := orderedLines(path)
	if err != nil {
		return fmt.Errorf("read replay file: %w", err)
	}

	b := book.New(symbol)
	runID := uuid.NewString()
	logger.Info("starting replay", "run_id", runID, "symbol", symbol, "commands", len(lines))

	var applied, dropped int
	for _, line := range lines {
		c, err := line.toCommand(symbol)
		if err != nil {
			logger.Error("dropping unparseable command", "run_id", runID, "error", err)
			dropped++
			continue
		}
		if err := book.ValidateCommand(symbol, c); err != nil {
			logger.Error("dropping invalid command", "run_id", runID, "order_id", c.OrderID, "error", err)
			dropped++
			continue
		}
		b.NewOrder(c)
		applied++
	}

	askDepth, bidDepth := b.Size(book.SideAsk), b.Size(book.SideBid)
	logger.Info("replay complete",
		"run_id", runID,
		"applied", applied,
		"dropped", dropped,
		"ask_depth", askDepth,
		"bid_depth", bidDepth,
	)
	if best := b.BestAsk(); best != nil {
		logger.Info("best ask", "run_id", runID, "price", best.Price, "available", best.Available())
	}
	if best := b.BestBid(); best != nil {
		logger.Info("best bid", "run_id", runID, "price", best.Price, "available", best.Available())
	}
	return nil
}
