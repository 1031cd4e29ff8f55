// Package events implements Aave pool-event consumption and cross-event
// matching rules (spec §4.J): which log an operation is allowed to claim,
// and when two adjacent logs describe one logical transfer rather than two.
// Grounded on original_source/tests/cli/test_aave_liquidation_event_matching.py,
// test_aave_balance_transfer_immediate_burn.py, and
// original_source/tests/aave/test_balance_transfer_matching.py — no
// degenbot source file implementing this logic was retrieved in the pack,
// only its regression tests, so the rules below are reconstructed directly
// from those tests' documented scenarios.
package events

import "math/big"

// Kind identifies the on-chain event a PoolEvent was decoded from.
type Kind int

const (
	KindLiquidationCall Kind = iota
	KindRepay
	KindWithdraw
	KindSupply
	KindBorrow
	KindBalanceTransfer
	KindMint
	KindBurn
	KindOther
)

// Operation identifies which side of a token-processor call is attempting
// to claim a PoolEvent.
type Operation int

const (
	OperationMint Operation = iota
	OperationBurn
)

// PoolEvent is the minimal identity a pool-level log needs for consumption
// bookkeeping: which kind of event it is, and its log index within the
// transaction receipt.
type PoolEvent struct {
	Kind     Kind
	LogIndex uint64
}

// ShouldConsume reports whether claiming poolEvent via the given operation
// should mark it consumed, per
// test_aave_liquidation_event_matching.py's TestLiquidationCallConsumptionPattern:
//   - LIQUIDATION_CALL is never consumed — it must stay available to match
//     every leg of a liquidation (debt burn, collateral burn, debt mint,
//     collateral mint) in the same transaction.
//   - REPAY is not consumed by a mint operation (the interest-accrual leg
//     a REPAY also emits) so it remains available for the burn operation
//     that actually discharges the debt — the "repay with aTokens" case
//     needs both legs to see the same REPAY log.
//   - Every other event kind is consumed on first match.
func ShouldConsume(kind Kind, op Operation) bool {
	if kind == KindLiquidationCall {
		return false
	}
	if kind == KindRepay && op == OperationMint {
		return false
	}
	return true
}

// ConsumptionTracker records which log indices within one transaction have
// already been claimed, so a second operation searching for a pool event to
// match does not re-claim one a prior operation already used.
type ConsumptionTracker struct {
	consumed map[uint64]struct{}
}

// NewConsumptionTracker returns an empty tracker.
func NewConsumptionTracker() *ConsumptionTracker {
	return &ConsumptionTracker{consumed: make(map[uint64]struct{})}
}

// TryConsume marks event consumed if ShouldConsume allows it for op, and
// reports whether the event was available (not already consumed) at all.
// A LIQUIDATION_CALL or mint-side REPAY is reported available on every
// call since it is never actually recorded as consumed.
func (t *ConsumptionTracker) TryConsume(event PoolEvent, op Operation) bool {
	if _, already := t.consumed[event.LogIndex]; already {
		return false
	}
	if ShouldConsume(event.Kind, op) {
		t.consumed[event.LogIndex] = struct{}{}
	}
	return true
}

// PriorMint is a pending interest-accrual Mint event awaiting a possible
// BalanceTransfer that supersedes it, grounded on
// test_balance_transfer_matching.py's TestBalanceTransferMintMatching.
type PriorMint struct {
	Value           *big.Int
	BalanceIncrease *big.Int
	Index           *big.Int
	OnBehalfOf      string
}

// MatchesTransfer reports whether this prior Mint event is the same
// logical event as a subsequent BalanceTransfer, per the four conditions
// test_mint_with_different_recipient_should_not_match and
// test_mint_with_same_recipient_should_match check: the Mint must be pure
// interest accrual (value == balance_increase), its value must equal the
// transfer amount, the index must match, and — critically, the bug this
// test guards against — the Mint's recipient must be the transfer's
// recipient, not merely any recent Mint at the right value and index.
func (m PriorMint) MatchesTransfer(transferAmount, transferIndex *big.Int, toAddress string) bool {
	return m.Value.Cmp(m.BalanceIncrease) == 0 &&
		m.Value.Cmp(transferAmount) == 0 &&
		m.Index.Cmp(transferIndex) == 0 &&
		m.OnBehalfOf == toAddress
}

// BalanceTransfer is a scaled-token BalanceTransfer log awaiting a possible
// immediate Burn from its recipient.
type BalanceTransfer struct {
	From   string
	To     string
	Amount *big.Int
}

// SkipsRecipientBalanceUpdate reports whether a Burn event immediately
// following this BalanceTransfer, from the transfer's recipient and for
// the exact transferred amount, means the recipient's balance update
// should be skipped entirely (it never really held the tokens — e.g. a
// ParaSwap adapter that transfers-in then immediately burns). Grounded on
// test_aave_balance_transfer_immediate_burn.py. The sender's (FROM) balance
// update is never skipped: those tokens genuinely left the sender's
// position regardless of what the recipient does with them next.
func (bt BalanceTransfer) SkipsRecipientBalanceUpdate(burnFrom string, burnValue *big.Int) bool {
	return burnFrom == bt.To && burnValue.Cmp(bt.Amount) == 0
}
