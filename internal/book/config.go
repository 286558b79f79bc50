package book

import "github.com/openalpha/clobmatch/internal/art"

// Config tunes the two price-indexed ART trees and the id index that
// back an OrderBook.
type Config struct {
	artConfig art.Config
}

// Option configures an OrderBook at construction time.
type Option func(*Config)

// WithPoolCapacity bounds how many recycled ART nodes of each variant
// an OrderBook's trees retain.
func WithPoolCapacity(capacity int) Option {
	return func(c *Config) { c.artConfig.PoolCapacity = capacity }
}

// WithNode256ShrinkThreshold overrides the Node256→Node48 shrink
// threshold (default 37; spec documents an alternate `<= 48` source
// variant — see DESIGN.md).
func WithNode256ShrinkThreshold(threshold int) Option {
	return func(c *Config) { c.artConfig.NodeShrinkThreshold256 = threshold }
}

func defaultConfig() Config {
	return Config{artConfig: art.DefaultConfig()}
}
