package replay

import (
	"math/big"
	"testing"

	"github.com/johnayoung/go-defi-engine/pkg/arb/pathfinder"
	"github.com/johnayoung/go-defi-engine/pkg/arb/solver"
	"github.com/johnayoung/go-defi-engine/pkg/primitives"
)

func TestLedgerBankCreditsCashAndRecordsHistory(t *testing.T) {
	l := NewLedger(primitives.MustAmount(primitives.NewDecimal(100)))

	opp := Opportunity{
		Block:  42,
		Cycle:  pathfinder.Cycle{},
		Result: solver.Result{OptimalAmountIn: big.NewInt(10), ProfitAmount: big.NewInt(5)},
	}
	l.Bank(BankedOpportunity{Opportunity: opp, Profit: primitives.NewDecimal(5)})

	if got := l.CashDecimal(); !got.Equal(primitives.NewDecimal(105)) {
		t.Fatalf("CashDecimal = %s, want 105", got)
	}
	banked := l.Banked()
	if len(banked) != 1 || banked[0].Opportunity.Block != 42 {
		t.Fatalf("Banked() = %+v, want one entry for block 42", banked)
	}
}

func TestLedgerCashNeverReportsNegative(t *testing.T) {
	l := NewLedger(primitives.ZeroAmount())
	l.Bank(BankedOpportunity{Profit: primitives.NewDecimal(-10)})

	if !l.Cash().IsZero() {
		t.Fatalf("Cash() = %s, want zero when the decimal balance is negative", l.Cash())
	}
	if !l.CashDecimal().IsNegative() {
		t.Fatal("CashDecimal() should still expose the signed, negative balance")
	}
}

func TestLedgerBankedReturnsACopyNotTheInternalSlice(t *testing.T) {
	l := NewLedger(primitives.ZeroAmount())
	l.Bank(BankedOpportunity{Profit: primitives.NewDecimal(1)})

	banked := l.Banked()
	banked[0].Profit = primitives.NewDecimal(999)

	if got := l.Banked()[0].Profit; !got.Equal(primitives.NewDecimal(1)) {
		t.Fatalf("mutating the returned slice leaked into the ledger: got %s", got)
	}
}
