// Package registry provides process-global, mutex-guarded lookup of pools
// and tokens by (chain ID, address), grounded on
// original_source/tests/test_registry.py's PoolRegistry/TokenRegistry
// singletons (degenbot.registry.pool_registry/token_registry). Unlike the
// Python original this holds plain handles rather than enforcing a
// singleton construction guard — Go has no equivalent of raising on a
// second `PoolRegistry()` call, so "singleton" here just means "use the
// package-level Pools value unless a test needs an isolated one." There is
// no package-level token registry; TokenRegistry is generic and callers
// create their own with NewTokenRegistry.
package registry

import (
	"sync"

	"github.com/johnayoung/go-defi-engine/pkg/errkinds"
	"github.com/johnayoung/go-defi-engine/pkg/evmtypes"
	"github.com/johnayoung/go-defi-engine/pkg/pool"
)

type key struct {
	chainID uint64
	address evmtypes.Address
}

// PoolRegistry interns *pool.Pool handles by (chain ID, address), avoiding
// the Pool↔Token↔Manager reference cycles a registry of owning pointers
// would create (spec §9 "Pool-registry cycles").
type PoolRegistry struct {
	mu    sync.RWMutex
	pools map[key]*pool.Pool
}

// NewPoolRegistry returns an empty pool registry. Most callers should use
// the package-level Pools value instead; this constructor exists for tests
// that need an isolated instance.
func NewPoolRegistry() *PoolRegistry {
	return &PoolRegistry{pools: make(map[key]*pool.Pool)}
}

// Add interns p under (chainID, address), failing if an entry already
// exists there (degenbot's add() raises DegenbotValueError on collision).
func (r *PoolRegistry) Add(chainID uint64, address evmtypes.Address, p *pool.Pool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := key{chainID, address}
	if _, exists := r.pools[k]; exists {
		return &errkinds.AlreadyRegistered{ChainID: chainID, Address: address.Hex()}
	}
	r.pools[k] = p
	return nil
}

// Get returns the pool registered under (chainID, address), or nil if
// none has been added (degenbot's get() returns None rather than raising).
func (r *PoolRegistry) Get(chainID uint64, address evmtypes.Address) *pool.Pool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.pools[key{chainID, address}]
}

// Remove deletes any entry registered under (chainID, address). Removing a
// key that was never added is a no-op, matching degenbot's remove().
func (r *PoolRegistry) Remove(chainID uint64, address evmtypes.Address) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.pools, key{chainID, address})
}

// TokenRegistry interns token handles by (chain ID, address). Token is
// generic so callers can register whatever token metadata type they use
// (an ERC-20 decimals/symbol struct, or just evmtypes.Address itself)
// without this package depending on it.
type TokenRegistry[T any] struct {
	mu     sync.RWMutex
	tokens map[key]T
}

// NewTokenRegistry returns an empty token registry.
func NewTokenRegistry[T any]() *TokenRegistry[T] {
	return &TokenRegistry[T]{tokens: make(map[key]T)}
}

// Add interns token under (chainID, address), failing if an entry already
// exists there.
func (r *TokenRegistry[T]) Add(chainID uint64, address evmtypes.Address, token T) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := key{chainID, address}
	if _, exists := r.tokens[k]; exists {
		return &errkinds.AlreadyRegistered{ChainID: chainID, Address: address.Hex()}
	}
	r.tokens[k] = token
	return nil
}

// Get returns the token registered under (chainID, address) and whether
// one was found, mirroring degenbot's None-on-miss get() without requiring
// T to have a usable zero-value sentinel.
func (r *TokenRegistry[T]) Get(chainID uint64, address evmtypes.Address) (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	token, ok := r.tokens[key{chainID, address}]
	return token, ok
}

// Remove deletes any entry registered under (chainID, address).
func (r *TokenRegistry[T]) Remove(chainID uint64, address evmtypes.Address) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tokens, key{chainID, address})
}

// Pools is the process-global pool registry every package in this module
// shares, mirroring degenbot.registry.pool_registry.
var Pools = NewPoolRegistry()
