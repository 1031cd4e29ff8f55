// Package pathfinder enumerates arbitrage cycles over an in-memory pool
// graph. It reimplements the *shape* of
// original_source/src/degenbot/pathfinding.py's find_paths: depth-2 cycles
// through a token paired with a "forward" token in at least two pools, plus
// the equivalent-tokens variant for cycling one profit token out through a
// different (but fungible) one. The SQL-backed pool/token lookup that
// function layers on top of this shape is dropped — spec §1 excludes a
// persistent relational database, so callers populate the Graph directly
// from whatever in-memory pool registry they already hold.
package pathfinder

import "github.com/johnayoung/go-defi-engine/pkg/evmtypes"

// PoolRef identifies one pool edge in the graph: its address and the two
// tokens it holds. TokenA/TokenB order is whatever the caller registered it
// with; Graph indexes both directions.
type PoolRef struct {
	Address evmtypes.Address
	TokenA  evmtypes.Address
	TokenB  evmtypes.Address
}

func (p PoolRef) other(token evmtypes.Address) (evmtypes.Address, bool) {
	switch token {
	case p.TokenA:
		return p.TokenB, true
	case p.TokenB:
		return p.TokenA, true
	default:
		return evmtypes.Address{}, false
	}
}

// Leg is one swap in a cycle: which pool to use, and the token it is
// expected to hand back.
type Leg struct {
	Pool         PoolRef
	ForwardToken evmtypes.Address
}

// Cycle is an ordered pair of legs: swap the profit token out through
// Entry, then back in through Exit. Order matters — a profitable cycle in
// one direction may be unprofitable reversed.
type Cycle struct {
	Entry Leg
	Exit  Leg
}

// Graph is an in-memory, undirected multigraph of pools keyed by token
// pair. It is not safe for concurrent writes; reads (FindCycles,
// FindEquivalentCycles) are safe once population is complete.
type Graph struct {
	byToken map[evmtypes.Address][]PoolRef
}

// NewGraph returns an empty pool graph.
func NewGraph() *Graph {
	return &Graph{byToken: make(map[evmtypes.Address][]PoolRef)}
}

// AddPool registers a pool's two sides in the graph.
func (g *Graph) AddPool(ref PoolRef) {
	g.byToken[ref.TokenA] = append(g.byToken[ref.TokenA], ref)
	g.byToken[ref.TokenB] = append(g.byToken[ref.TokenB], ref)
}

// groupByForwardToken buckets every pool touching token by the token on the
// other side, mirroring find_paths's token_id_selects + GROUP BY.
func (g *Graph) groupByForwardToken(token evmtypes.Address) map[evmtypes.Address][]PoolRef {
	groups := make(map[evmtypes.Address][]PoolRef)
	for _, ref := range g.byToken[token] {
		forward, ok := ref.other(token)
		if !ok {
			continue
		}
		groups[forward] = append(groups[forward], ref)
	}
	return groups
}

// permutePairs returns one Cycle per ordered pair of distinct pools in
// pools, mirroring itertools.permutations(pools, 2) — both (a, b) and
// (b, a) are emitted since entry and exit pool order is never
// interchangeable for an arbitrage cycle.
func permutePairs(pools []PoolRef, forwardToken, exitToken evmtypes.Address) []Cycle {
	var cycles []Cycle
	for i, entry := range pools {
		for j, exit := range pools {
			if i == j {
				continue
			}
			cycles = append(cycles, Cycle{
				Entry: Leg{Pool: entry, ForwardToken: forwardToken},
				Exit:  Leg{Pool: exit, ForwardToken: exitToken},
			})
		}
	}
	return cycles
}

// FindCycles enumerates depth-2 arbitrage cycles for a single profit token,
// grounded on find_paths's `case 2, True` branch: every forward token
// paired with cycleToken across at least two pools yields one cycle per
// ordered pair of those pools.
func (g *Graph) FindCycles(cycleToken evmtypes.Address) []Cycle {
	var cycles []Cycle
	for forward, pools := range g.groupByForwardToken(cycleToken) {
		if forward == cycleToken || len(pools) < 2 {
			continue
		}
		cycles = append(cycles, permutePairs(pools, forward, cycleToken)...)
	}
	return cycles
}

// FindEquivalentCycles enumerates depth-2 cycles between two tokens the
// caller has declared fungible outside the swap path (e.g. native ETH and
// WETH), grounded on find_paths's `case 2, False` branch. A forward token
// must be paired with start or end across at least two pools combined (and
// is never start or end itself); the cycle swaps the profit token out
// through either side's pool and back in — as end, not start, since the
// two are only equivalent outside the path — through the other.
func (g *Graph) FindEquivalentCycles(start, end evmtypes.Address) []Cycle {
	startGroups := g.groupByForwardToken(start)
	endGroups := g.groupByForwardToken(end)

	forwardTokens := make(map[evmtypes.Address]struct{})
	for forward := range startGroups {
		forwardTokens[forward] = struct{}{}
	}
	for forward := range endGroups {
		forwardTokens[forward] = struct{}{}
	}

	var cycles []Cycle
	for forward := range forwardTokens {
		if forward == start || forward == end {
			continue
		}
		combined := append(append([]PoolRef{}, startGroups[forward]...), endGroups[forward]...)
		if len(combined) < 2 {
			continue
		}
		cycles = append(cycles, permutePairs(combined, forward, end)...)
	}
	return cycles
}
