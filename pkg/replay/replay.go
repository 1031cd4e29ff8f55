// Package replay drives the pathfinder and solver over a chronological
// sequence of pool state updates, recording discovered arbitrage
// opportunities and a hypothetical bankroll's P&L. Its event loop is
// adapted from a generic "rebalance a strategy over market snapshots"
// engine: where that shape replays market snapshots through a strategy and
// records portfolio value via a generic position ledger, this one replays
// pool.PoolStateMessages through a fixed pipeline — re-scan cycles,
// re-solve each one, bank the best profitable result as cash — but keeps
// the same "apply update, compute value, record point" event loop shape,
// with a Ledger (pkg/replay/ledger.go) standing in for the generic
// portfolio since a cycle replay only ever produces one kind of position:
// realized profit.
package replay

import (
	"context"
	"fmt"
	"math/big"

	"github.com/johnayoung/go-defi-engine/pkg/arb/pathfinder"
	"github.com/johnayoung/go-defi-engine/pkg/arb/solver"
	"github.com/johnayoung/go-defi-engine/pkg/evmtypes"
	"github.com/johnayoung/go-defi-engine/pkg/pool"
	"github.com/johnayoung/go-defi-engine/pkg/primitives"
	"github.com/johnayoung/go-defi-engine/pkg/registry"
)

// Config controls one replay run.
type Config struct {
	// ChainID identifies which chain's pools to look up in the registry.
	ChainID uint64

	// CycleTokens are the tokens to scan for depth-2 cycles at every step
	// (spec §4.L, one FindCycles call per entry).
	CycleTokens []evmtypes.Address

	// MaxAmountIn bounds the solver's search interval for every cycle.
	MaxAmountIn *big.Int

	// MaxConcurrency bounds how many cycles ScanCycles evaluates at once.
	MaxConcurrency int

	// InitialCash seeds the hypothetical ledger's cash balance.
	InitialCash primitives.Amount

	// ProfitScale converts a cycle's raw integer profit (in the cycle
	// token's smallest unit) into a primitives.Decimal, e.g. 1e18 for an
	// 18-decimal token. Every cycle token is assumed to share this scale;
	// a replay spanning tokens with different decimals needs one Engine
	// per token or a per-token scale map, which this harness does not
	// attempt to generalize.
	ProfitScale *big.Int
}

// Opportunity is one profitable cycle discovered during replay.
type Opportunity struct {
	Block  uint64
	Cycle  pathfinder.Cycle
	Result solver.Result
}

// ValuePoint is the hypothetical ledger's cash balance after processing one
// update.
type ValuePoint struct {
	Block uint64
	Value primitives.Amount
}

// Result is the outcome of a replay run.
type Result struct {
	Opportunities []Opportunity
	Ledger        *Ledger
	ValueHistory  []ValuePoint
}

// Engine replays pool.PoolStateMessages against a fixed cycle graph and
// pool registry, re-evaluating arbitrage opportunities after every update.
type Engine struct {
	config Config
	graph  *pathfinder.Graph
	pools  *registry.PoolRegistry
}

// NewEngine builds a replay engine over graph (the static pool topology)
// and pools (the registry holding live *pool.Pool handles for that
// topology's addresses).
func NewEngine(config Config, graph *pathfinder.Graph, pools *registry.PoolRegistry) *Engine {
	return &Engine{config: config, graph: graph, pools: pools}
}

// Run processes updates in order: applies each to its pool, rescans every
// configured cycle token for cycles, solves each one, and banks the single
// most profitable result per update into the ledger's cash (spec §4.K/§4.L,
// "replays a chronological sequence of pool.PoolStateMessages").
func (e *Engine) Run(ctx context.Context, updates []pool.PoolStateMessage) (*Result, error) {
	if len(updates) == 0 {
		return nil, fmt.Errorf("replay: updates cannot be empty")
	}

	ledger := NewLedger(e.config.InitialCash)
	var opportunities []Opportunity
	valueHistory := make([]ValuePoint, 0, len(updates))

	for _, msg := range updates {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("replay cancelled: %w", ctx.Err())
		default:
		}

		p := e.pools.Get(e.config.ChainID, msg.Address)
		if p == nil {
			valueHistory = append(valueHistory, ValuePoint{Block: msg.Block, Value: ledger.Cash()})
			continue
		}
		p.ApplyExternalUpdate(msg.NewSnapshot)

		best, err := e.scanForBestOpportunity(ctx, msg.Block)
		if err != nil {
			return nil, fmt.Errorf("replay: scanning at block %d: %w", msg.Block, err)
		}
		if best != nil {
			opportunities = append(opportunities, *best)
			ledger.Bank(BankedOpportunity{Opportunity: *best, Profit: e.profitDecimal(best.Result.ProfitAmount)})
		}

		valueHistory = append(valueHistory, ValuePoint{Block: msg.Block, Value: ledger.Cash()})
	}

	return &Result{Opportunities: opportunities, Ledger: ledger, ValueHistory: valueHistory}, nil
}

func (e *Engine) scanForBestOpportunity(ctx context.Context, block uint64) (*Opportunity, error) {
	var cycles []pathfinder.Cycle
	for _, token := range e.config.CycleTokens {
		cycles = append(cycles, e.graph.FindCycles(token)...)
	}
	if len(cycles) == 0 {
		return nil, nil
	}

	evaluations, err := pathfinder.ScanCycles(ctx, cycles, e.config.MaxConcurrency, e.solveCycle)
	if err != nil {
		return nil, err
	}

	var best *Opportunity
	for _, eval := range evaluations {
		result, ok := eval.Value.(solver.Result)
		if !ok {
			continue
		}
		if best == nil || result.ProfitAmount.Cmp(best.Result.ProfitAmount) > 0 {
			best = &Opportunity{Block: block, Cycle: eval.Cycle, Result: result}
		}
	}
	if best != nil && best.Result.ProfitAmount.Sign() <= 0 {
		return nil, nil
	}
	return best, nil
}

// solveCycle quotes both legs of a cycle from the live registry and hands
// them to solver.Solve. A leg whose pool isn't registered, or that returns
// an error (e.g. insufficient liquidity for the bound), is treated as "not
// evaluable" rather than aborting the whole scan.
func (e *Engine) solveCycle(_ context.Context, cycle pathfinder.Cycle) (any, error) {
	entryPool := e.pools.Get(e.config.ChainID, cycle.Entry.Pool.Address)
	exitPool := e.pools.Get(e.config.ChainID, cycle.Exit.Pool.Address)
	if entryPool == nil || exitPool == nil {
		return nil, nil
	}

	entryLeg, err := entryPool.Quote(tokenInFor(cycle.Entry.Pool, cycle.Entry.ForwardToken))
	if err != nil {
		return nil, nil
	}
	exitLeg, err := exitPool.Quote(tokenInFor(cycle.Exit.Pool, cycle.Exit.ForwardToken))
	if err != nil {
		return nil, nil
	}

	result, err := solver.Solve(entryLeg, exitLeg, e.config.MaxAmountIn)
	if err != nil {
		return nil, nil
	}
	return result, nil
}

// tokenInFor returns the token a leg's pool swaps IN, given the token it
// swaps out (ForwardToken): whichever of the pool's two tokens isn't the
// forward one.
func tokenInFor(ref pathfinder.PoolRef, forward evmtypes.Address) evmtypes.Address {
	if ref.TokenA == forward {
		return ref.TokenB
	}
	return ref.TokenA
}

// profitDecimal converts a cycle's raw integer profit (in the cycle
// token's smallest unit) into a reportable Decimal, dividing by
// Config.ProfitScale.
func (e *Engine) profitDecimal(profitAmount *big.Int) primitives.Decimal {
	profitFloat := new(big.Float).SetInt(profitAmount)
	scaleFloat := new(big.Float).SetInt(e.config.ProfitScale)
	profitFloat.Quo(profitFloat, scaleFloat)
	f, _ := profitFloat.Float64()
	return primitives.NewDecimalFromFloat(f)
}
