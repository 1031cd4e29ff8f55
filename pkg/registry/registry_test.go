package registry

import (
	"errors"
	"testing"

	"github.com/johnayoung/go-defi-engine/pkg/errkinds"
	"github.com/johnayoung/go-defi-engine/pkg/evmtypes"
	"github.com/johnayoung/go-defi-engine/pkg/pool"
)

func testAddr(b byte) evmtypes.Address {
	var a evmtypes.Address
	a[19] = b
	return a
}

func TestPoolRegistryAddGetRemove(t *testing.T) {
	r := NewPoolRegistry()
	addr := testAddr(1)
	p := pool.New("uniswap-v2", pool.State{Address: addr})

	if got := r.Get(1, addr); got != nil {
		t.Fatal("expected a miss before Add")
	}

	if err := r.Add(1, addr, p); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if got := r.Get(1, addr); got != p {
		t.Fatal("Get after Add must return the same pool handle")
	}

	if err := r.Add(1, addr, p); err == nil {
		t.Fatal("expected AlreadyRegistered on duplicate Add")
	} else {
		var already *errkinds.AlreadyRegistered
		if !errors.As(err, &already) {
			t.Fatalf("expected *errkinds.AlreadyRegistered, got %T", err)
		}
	}

	// Same address, different chain ID, must not collide.
	if err := r.Add(2, addr, p); err != nil {
		t.Fatalf("Add on a different chain ID must succeed: %v", err)
	}

	r.Remove(1, addr)
	if got := r.Get(1, addr); got != nil {
		t.Fatal("expected a miss after Remove")
	}
	if got := r.Get(2, addr); got != p {
		t.Fatal("Remove on one chain ID must not affect another")
	}
}

func TestPoolRegistryRemoveUnknownIsNoOp(t *testing.T) {
	r := NewPoolRegistry()
	r.Remove(1, testAddr(9)) // must not panic
}

func TestTokenRegistryAddGetRemove(t *testing.T) {
	r := NewTokenRegistry[string]()
	addr := testAddr(5)

	if _, ok := r.Get(1, addr); ok {
		t.Fatal("expected a miss before Add")
	}

	if err := r.Add(1, addr, "USDC"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	token, ok := r.Get(1, addr)
	if !ok || token != "USDC" {
		t.Fatalf("Get after Add = (%q, %v), want (USDC, true)", token, ok)
	}

	if err := r.Add(1, addr, "USDC"); err == nil {
		t.Fatal("expected AlreadyRegistered on duplicate Add")
	}

	r.Remove(1, addr)
	if _, ok := r.Get(1, addr); ok {
		t.Fatal("expected a miss after Remove")
	}
}
