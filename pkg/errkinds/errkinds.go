// Package errkinds defines the tagged error values produced by the math and
// accounting kernels in this module. Every kind carries the data a caller
// needs to react programmatically (via errors.As) rather than by matching
// message strings, and every kind is built from exported fields of builtin
// types so it survives encoding/gob or encoding/json without a custom codec.
package errkinds

import "fmt"

// Overflow is returned when a fixed-width arithmetic operation would exceed
// its type's representable range.
type Overflow struct {
	Op       string
	Bits     int
	Operands []string
}

func (e *Overflow) Error() string {
	return fmt.Sprintf("errkinds: %s overflow (uint%d): operands %v", e.Op, e.Bits, e.Operands)
}

// ZeroDivision is returned by any division primitive given a zero divisor.
type ZeroDivision struct {
	Op string
}

func (e *ZeroDivision) Error() string {
	return fmt.Sprintf("errkinds: division by zero in %s", e.Op)
}

// InvalidTick is returned when a tick value falls outside [MinTick, MaxTick]
// or is not a multiple of the pool's tick spacing.
type InvalidTick struct {
	Tick        int32
	TickSpacing int32
}

func (e *InvalidTick) Error() string {
	return fmt.Sprintf("errkinds: invalid tick %d (spacing %d)", e.Tick, e.TickSpacing)
}

// InvalidSqrtPrice is returned when a Q64.96 sqrt price falls outside
// [MinSqrtPrice, MaxSqrtPrice].
type InvalidSqrtPrice struct {
	SqrtPriceX96 string
}

func (e *InvalidSqrtPrice) Error() string {
	return fmt.Sprintf("errkinds: sqrt price %s out of bounds", e.SqrtPriceX96)
}

// LiquidityMapWordMissing is returned by a sparse tick bitmap when a word
// covering the requested tick has never been observed.
type LiquidityMapWordMissing struct {
	WordPosition int16
}

func (e *LiquidityMapWordMissing) Error() string {
	return fmt.Sprintf("errkinds: liquidity map word %d not present (sparse mode)", e.WordPosition)
}

// IncompleteSwap is returned when a swap engine exhausts the available tick
// range before satisfying the requested amount.
type IncompleteSwap struct {
	AmountRemaining string
	AmountFilled    string
}

func (e *IncompleteSwap) Error() string {
	return fmt.Sprintf("errkinds: incomplete swap, remaining=%s filled=%s", e.AmountRemaining, e.AmountFilled)
}

// EffectivelyFrozenToken is returned by the Aave scaling kernel when the
// supply cap or a discount-mechanism edge case leaves a balance unusable.
type EffectivelyFrozenToken struct {
	Token string
}

func (e *EffectivelyFrozenToken) Error() string {
	return fmt.Sprintf("errkinds: token %s is effectively frozen", e.Token)
}

// NoArbitrageSolution is returned by the solver when no profitable input
// amount exists on the bracketed interval.
type NoArbitrageSolution struct {
	Reason string
}

func (e *NoArbitrageSolution) Error() string {
	return fmt.Sprintf("errkinds: no arbitrage solution: %s", e.Reason)
}

// UnsupportedRevision is returned by the Aave TokenMath factory for a pool
// or token revision the kernel does not implement.
type UnsupportedRevision struct {
	Revision int
}

func (e *UnsupportedRevision) Error() string {
	return fmt.Sprintf("errkinds: unsupported Aave revision %d", e.Revision)
}

// UnmatchedEvent is returned by the Aave event matcher when a token
// mint/burn cannot be paired with a corresponding pool event.
type UnmatchedEvent struct {
	EventKind string
	TxHash    string
	LogIndex  int
}

func (e *UnmatchedEvent) Error() string {
	return fmt.Sprintf("errkinds: unmatched %s event (tx %s, log %d)", e.EventKind, e.TxHash, e.LogIndex)
}

// AlreadyRegistered is returned by the pool/token registry when Add is
// called for a (chainID, address) pair that already holds an entry.
type AlreadyRegistered struct {
	ChainID uint64
	Address string
}

func (e *AlreadyRegistered) Error() string {
	return fmt.Sprintf("errkinds: chain %d address %s already registered", e.ChainID, e.Address)
}
