package pathfinder

import (
	"context"
	"errors"
	"testing"

	"github.com/johnayoung/go-defi-engine/pkg/evmtypes"
)

func addr(b byte) evmtypes.Address {
	var a evmtypes.Address
	a[19] = b
	return a
}

func TestFindCyclesRequiresAtLeastTwoPools(t *testing.T) {
	weth, usdc := addr(1), addr(2)
	g := NewGraph()
	g.AddPool(PoolRef{Address: addr(10), TokenA: weth, TokenB: usdc})

	if cycles := g.FindCycles(weth); len(cycles) != 0 {
		t.Fatalf("a single WETH-USDC pool must not produce a cycle, got %d", len(cycles))
	}
}

func TestFindCyclesTwoPoolsYieldsBothOrderings(t *testing.T) {
	weth, usdc := addr(1), addr(2)
	poolA := PoolRef{Address: addr(10), TokenA: weth, TokenB: usdc}
	poolB := PoolRef{Address: addr(11), TokenA: usdc, TokenB: weth}

	g := NewGraph()
	g.AddPool(poolA)
	g.AddPool(poolB)

	cycles := g.FindCycles(weth)
	if len(cycles) != 2 {
		t.Fatalf("two WETH-USDC pools must yield 2 ordered cycles, got %d", len(cycles))
	}
	seen := map[[2]evmtypes.Address]bool{}
	for _, c := range cycles {
		seen[[2]evmtypes.Address{c.Entry.Pool.Address, c.Exit.Pool.Address}] = true
		if c.Entry.ForwardToken != usdc {
			t.Fatalf("entry leg must forward into USDC, got %x", c.Entry.ForwardToken)
		}
		if c.Exit.ForwardToken != weth {
			t.Fatalf("exit leg must forward back into WETH, got %x", c.Exit.ForwardToken)
		}
	}
	if !seen[[2]evmtypes.Address{addr(10), addr(11)}] || !seen[[2]evmtypes.Address{addr(11), addr(10)}] {
		t.Fatal("expected both (A,B) and (B,A) orderings")
	}
}

func TestFindEquivalentCyclesExcludesBothCycleTokens(t *testing.T) {
	weth, ether, usdc := addr(1), addr(2), addr(3)
	g := NewGraph()
	g.AddPool(PoolRef{Address: addr(10), TokenA: weth, TokenB: usdc})
	g.AddPool(PoolRef{Address: addr(11), TokenA: ether, TokenB: usdc})

	cycles := g.FindEquivalentCycles(weth, ether)
	if len(cycles) != 2 {
		t.Fatalf("WETH-USDC + ETHER-USDC must yield 2 ordered cycles via USDC, got %d", len(cycles))
	}
	for _, c := range cycles {
		if c.Entry.ForwardToken == weth || c.Entry.ForwardToken == ether {
			t.Fatal("forward token must never be one of the two cycle tokens")
		}
	}
}

func TestScanCyclesPreservesOrderAndAbortsOnError(t *testing.T) {
	cycles := []Cycle{
		{Entry: Leg{Pool: PoolRef{Address: addr(1)}}},
		{Entry: Leg{Pool: PoolRef{Address: addr(2)}}},
		{Entry: Leg{Pool: PoolRef{Address: addr(3)}}},
	}

	results, err := ScanCycles(context.Background(), cycles, 2, func(_ context.Context, c Cycle) (any, error) {
		return c.Entry.Pool.Address[19], nil
	})
	if err != nil {
		t.Fatalf("ScanCycles: %v", err)
	}
	for i, r := range results {
		if r.Value.(byte) != byte(i+1) {
			t.Fatalf("result %d out of order: got %v", i, r.Value)
		}
	}

	boom := errors.New("boom")
	_, err = ScanCycles(context.Background(), cycles, 2, func(_ context.Context, c Cycle) (any, error) {
		if c.Entry.Pool.Address[19] == 2 {
			return nil, boom
		}
		return nil, nil
	})
	if !errors.Is(err, boom) {
		t.Fatalf("ScanCycles error = %v, want %v", err, boom)
	}
}
