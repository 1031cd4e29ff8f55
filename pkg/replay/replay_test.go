package replay

import (
	"context"
	"math/big"
	"testing"

	"github.com/johnayoung/go-defi-engine/pkg/arb/pathfinder"
	"github.com/johnayoung/go-defi-engine/pkg/evmtypes"
	"github.com/johnayoung/go-defi-engine/pkg/pool"
	"github.com/johnayoung/go-defi-engine/pkg/primitives"
	"github.com/johnayoung/go-defi-engine/pkg/registry"
)

func replayAddr(b byte) evmtypes.Address {
	var a evmtypes.Address
	a[19] = b
	return a
}

func v2State(reserve0, reserve1 int64) pool.State {
	return pool.State{
		Kind: pool.KindV2,
		ConstantProduct: &pool.ConstantProductState{
			Reserve0: big.NewInt(reserve0),
			Reserve1: big.NewInt(reserve1),
			FeeNum:   big.NewInt(3),
			FeeDen:   big.NewInt(1000),
		},
	}
}

func TestEngineRunBanksProfitAndTracksValueHistory(t *testing.T) {
	weth, usdc := replayAddr(1), replayAddr(2)
	poolAAddr, poolBAddr := replayAddr(10), replayAddr(11)

	poolA := pool.New("uniswap-v2", pool.State{
		Address: poolAAddr, Tokens: []evmtypes.Address{weth, usdc},
		Kind: pool.KindV2, ConstantProduct: v2State(1_000_000, 2_000_000).ConstantProduct,
	})
	poolB := pool.New("uniswap-v2", pool.State{
		Address: poolBAddr, Tokens: []evmtypes.Address{usdc, weth},
		Kind: pool.KindV2, ConstantProduct: v2State(2_100_000, 1_100_000).ConstantProduct,
	})

	pools := registry.NewPoolRegistry()
	if err := pools.Add(1, poolAAddr, poolA); err != nil {
		t.Fatalf("Add poolA: %v", err)
	}
	if err := pools.Add(1, poolBAddr, poolB); err != nil {
		t.Fatalf("Add poolB: %v", err)
	}

	graph := pathfinder.NewGraph()
	graph.AddPool(pathfinder.PoolRef{Address: poolAAddr, TokenA: weth, TokenB: usdc})
	graph.AddPool(pathfinder.PoolRef{Address: poolBAddr, TokenA: usdc, TokenB: weth})

	engine := NewEngine(Config{
		ChainID:        1,
		CycleTokens:    []evmtypes.Address{weth},
		MaxAmountIn:    big.NewInt(500_000),
		MaxConcurrency: 4,
		InitialCash:    primitives.ZeroAmount(),
		ProfitScale:    big.NewInt(1),
	}, graph, pools)

	updates := []pool.PoolStateMessage{
		{Address: poolAAddr, Block: 1, NewSnapshot: poolA.State()},
		{Address: poolBAddr, Block: 2, NewSnapshot: poolB.State()},
	}

	result, err := engine.Run(context.Background(), updates)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.ValueHistory) != 2 {
		t.Fatalf("ValueHistory length = %d, want 2", len(result.ValueHistory))
	}
	if len(result.Opportunities) == 0 {
		t.Fatal("expected at least one profitable opportunity from the asymmetric pools")
	}
	if result.Ledger.CashDecimal().IsNegative() || result.Ledger.CashDecimal().IsZero() {
		t.Fatalf("expected positive banked cash after a profitable cycle, got %s", result.Ledger.CashDecimal())
	}
	if len(result.Ledger.Banked()) != len(result.Opportunities) {
		t.Fatalf("Banked() length = %d, want %d", len(result.Ledger.Banked()), len(result.Opportunities))
	}
}

func TestEngineRunSkipsUpdatesForUnregisteredPools(t *testing.T) {
	unregistered := replayAddr(99)
	pools := registry.NewPoolRegistry()
	graph := pathfinder.NewGraph()

	engine := NewEngine(Config{
		ChainID:        1,
		CycleTokens:    nil,
		MaxAmountIn:    big.NewInt(1000),
		MaxConcurrency: 1,
		InitialCash:    primitives.ZeroAmount(),
		ProfitScale:    big.NewInt(1),
	}, graph, pools)

	updates := []pool.PoolStateMessage{{Address: unregistered, Block: 1}}
	result, err := engine.Run(context.Background(), updates)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.Opportunities) != 0 {
		t.Fatal("no pools registered, expected zero opportunities")
	}
	if len(result.ValueHistory) != 1 {
		t.Fatalf("ValueHistory length = %d, want 1", len(result.ValueHistory))
	}
}
