package replay

import (
	"fmt"
	"sync"

	"github.com/johnayoung/go-defi-engine/pkg/primitives"
)

// BankedOpportunity is one profitable cycle whose proceeds were credited to
// a Ledger's cash balance.
type BankedOpportunity struct {
	Opportunity
	Profit primitives.Decimal
}

// Ledger tracks a hypothetical arbitrage bankroll: a cash balance plus the
// history of cycles that were banked into it. This replaces a generic
// position-bookkeeping framework with the one thing a cycle replay actually
// produces — realized profit and the cycle that produced it.
type Ledger struct {
	mu     sync.RWMutex
	cash   primitives.Decimal
	banked []BankedOpportunity
}

// NewLedger returns a Ledger seeded with initialCash.
func NewLedger(initialCash primitives.Amount) *Ledger {
	return &Ledger{cash: initialCash.Decimal()}
}

// Cash returns the current cash balance (never negative; a replay never
// spends more than it banks, so this only clamps pathological input).
func (l *Ledger) Cash() primitives.Amount {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.cash.IsNegative() {
		return primitives.ZeroAmount()
	}
	return primitives.MustAmount(l.cash)
}

// CashDecimal returns the current cash balance as a signed Decimal.
func (l *Ledger) CashDecimal() primitives.Decimal {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.cash
}

// Bank credits opp's profit to the cash balance and records the opportunity.
func (l *Ledger) Bank(opp BankedOpportunity) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cash = l.cash.Add(opp.Profit)
	l.banked = append(l.banked, opp)
}

// Banked returns every opportunity banked so far, in the order credited.
func (l *Ledger) Banked() []BankedOpportunity {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]BankedOpportunity, len(l.banked))
	copy(out, l.banked)
	return out
}

// Summary returns a one-line human-readable report of the ledger's state.
func (l *Ledger) Summary() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return fmt.Sprintf("Ledger: %d opportunities banked, cash: %s", len(l.banked), l.cash.String())
}
