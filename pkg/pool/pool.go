// Package pool provides the canonical pool-state values and observer
// fan-out that every AMM variant in this module shares (spec §3 "Pool
// state", §4.H), generalized from a MarketMechanism/LiquidityPool pairing:
// MarketMechanism's Mechanism()/Venue() identification pair becomes Kind()/
// Venue() on Pool, and the ad-hoc PoolParams/PoolState metadata maps become
// a tagged variant with one concrete snapshot struct per AMM family.
package pool

import (
	"errors"
	"math/big"
	"sync"

	"github.com/johnayoung/go-defi-engine/pkg/ammath/concentrated"
	"github.com/johnayoung/go-defi-engine/pkg/evmtypes"
	"github.com/johnayoung/go-defi-engine/pkg/tickmap"
)

// ErrNotConcentrated is returned by RequireTickMap when the pool's Kind
// carries no tick map (V2, Aerodrome-volatile, Balancer, or stable pools).
var ErrNotConcentrated = errors.New("pool: not a concentrated-liquidity pool")

// Kind identifies which swap-math family a Pool's State belongs to (spec §3
// "Pool state" variants).
type Kind string

const (
	KindV2        Kind = "v2"
	KindV3        Kind = "v3"
	KindV4        Kind = "v4"
	KindAerodrome Kind = "aerodrome"
	KindBalancer  Kind = "balancer"
	KindStable    Kind = "stable"
)

// ConstantProductState is the snapshot for V2 and Aerodrome-volatile pools.
type ConstantProductState struct {
	Reserve0, Reserve1 *big.Int
	FeeNum, FeeDen     *big.Int
}

// ConcentratedState is the snapshot for V3/V4 pools; it embeds the swap
// engine's own State so Swap can operate on it directly.
type ConcentratedState struct {
	concentrated.State
}

// WeightedState is the snapshot for Balancer weighted pools.
type WeightedState struct {
	Balances []*big.Int
	Weights  []*big.Int
	SwapFee  *big.Int
}

// StableState is the snapshot for Aerodrome stable pools.
type StableState struct {
	Reserve0, Reserve1   *big.Int
	Decimals0, Decimals1 *big.Int
	FeeNum, FeeDen       *big.Int
}

// State is the common envelope around every pool variant (spec §3 "Pool
// state. Common attributes"): address, the block at which it was observed,
// the token set, and exactly one populated variant snapshot selected by
// Kind.
type State struct {
	Address          evmtypes.Address
	BlockNumberState uint64
	Tokens           []evmtypes.Address
	Kind             Kind

	ConstantProduct *ConstantProductState
	Concentrated    *ConcentratedState
	Weighted        *WeightedState
	Stable          *StableState
}

// Pool is a mutable handle around the current State of one on-chain pool.
// Mutation happens only via ApplyExternalUpdate (spec §3 "Lifecycle"); swap
// simulation (pkg/ammath/*) always returns a candidate state and never
// calls back into Pool.
type Pool struct {
	mu    sync.RWMutex
	venue string
	state State
	subs  []Subscriber
}

// New constructs a Pool at its initial observed state.
func New(venue string, initial State) *Pool {
	return &Pool{venue: venue, state: initial}
}

// Kind returns the swap-math family this pool implements.
func (p *Pool) Kind() Kind {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state.Kind
}

// Venue returns the identifier of where this pool exists (e.g.
// "uniswap-v3", "aerodrome"), mirroring MarketMechanism.Venue.
func (p *Pool) Venue() string {
	return p.venue
}

// State returns a copy of the pool's current snapshot.
func (p *Pool) State() State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// PoolStateMessage is the fan-out payload a Publisher dispatches on every
// accepted state change (spec §4.H "dispatches a PoolStateMessage
// containing (address, block, new_state_snapshot)").
type PoolStateMessage struct {
	Address     evmtypes.Address
	Block       uint64
	NewSnapshot State
}

// Subscriber receives PoolStateMessages. Implementations must not block for
// long, since delivery happens synchronously outside the publisher's
// mutation lock (spec §4.H "Subscribers must not be invoked under mutation
// locks").
type Subscriber interface {
	OnPoolState(msg PoolStateMessage)
}

// Subscribe registers sub to receive future state-change notifications.
// Subscribers are held in a plain slice pruned only by Unsubscribe — the
// weak-set cycle-avoidance Python relies on (spec §9) has no portable
// equivalent in this Go toolchain version, so callers that create and
// discard many short-lived subscribers must call Unsubscribe explicitly to
// avoid unbounded growth (Open Question decision, see DESIGN.md).
func (p *Pool) Subscribe(sub Subscriber) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subs = append(p.subs, sub)
}

// Unsubscribe removes sub from the publisher's subscriber list.
func (p *Pool) Unsubscribe(sub Subscriber) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, s := range p.subs {
		if s == sub {
			p.subs = append(p.subs[:i], p.subs[i+1:]...)
			return
		}
	}
}

// ApplyExternalUpdate installs a new observed state, enforcing the
// monotonic-block idempotency rule (spec §4.H "Idempotent external update:
// applying an update whose block <= current block is a no-op") and
// dispatching a PoolStateMessage to subscribers outside the mutation lock.
// It returns whether the update was applied.
func (p *Pool) ApplyExternalUpdate(newState State) bool {
	p.mu.Lock()
	if newState.BlockNumberState <= p.state.BlockNumberState {
		p.mu.Unlock()
		return false
	}
	p.state = newState
	subsCopy := make([]Subscriber, len(p.subs))
	copy(subsCopy, p.subs)
	p.mu.Unlock()

	msg := PoolStateMessage{
		Address:     newState.Address,
		Block:       newState.BlockNumberState,
		NewSnapshot: newState,
	}
	for _, sub := range subsCopy {
		sub.OnPoolState(msg)
	}
	return true
}

// RequireTickMap returns the ConcentratedState's tick map, failing if the
// pool is not a V3/V4 variant.
func (p *Pool) RequireTickMap() (*tickmap.Map, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.state.Concentrated == nil {
		return nil, ErrNotConcentrated
	}
	return p.state.Concentrated.Ticks, nil
}
