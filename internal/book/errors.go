package book

import (
	"cosmossdk.io/errors"
)

// Validation error codes for the ingestion boundary in front of the
// matching core (ValidateCommand). The core itself never returns an
// error from NewOrder — anomalies there are handled by silent drop.
var (
	ErrZeroSize       = errors.Register("clobmatch", 1, "order size must be positive")
	ErrInvalidSide    = errors.Register("clobmatch", 2, "order side must be ASK or BID")
	ErrZeroOrderID    = errors.Register("clobmatch", 3, "order id must be non-zero")
	ErrSymbolMismatch = errors.Register("clobmatch", 4, "command symbol does not match book symbol")
)

// ValidateCommand rejects commands the matching core has no defined
// behavior for (spec §9: "cmd.size == 0 and negative prices... reject
// at a higher layer"). Price itself is never rejected: the core
// treats it as an unsigned 64-bit key, so there is no negative case
// once decoded into Command.Price.
func ValidateCommand(symbol string, cmd Command) error {
	if cmd.OrderID == 0 {
		return ErrZeroOrderID
	}
	if cmd.Size == 0 {
		return ErrZeroSize
	}
	if cmd.Side != SideAsk && cmd.Side != SideBid {
		return ErrInvalidSide
	}
	if symbol != "" && cmd.Symbol != "" && cmd.Symbol != symbol {
		return ErrSymbolMismatch
	}
	return nil
}
