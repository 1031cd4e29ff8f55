package pool

import (
	"math/big"
	"testing"

	"github.com/johnayoung/go-defi-engine/pkg/evmtypes"
)

type recordingSubscriber struct {
	received []PoolStateMessage
}

func (r *recordingSubscriber) OnPoolState(msg PoolStateMessage) {
	r.received = append(r.received, msg)
}

func newConstantProductState(block uint64, reserve0, reserve1 int64) State {
	return State{
		Address:          evmtypes.Address{},
		BlockNumberState: block,
		Kind:             KindV2,
		ConstantProduct: &ConstantProductState{
			Reserve0: big.NewInt(reserve0),
			Reserve1: big.NewInt(reserve1),
			FeeNum:   big.NewInt(3),
			FeeDen:   big.NewInt(1000),
		},
	}
}

func TestApplyExternalUpdateIdempotent(t *testing.T) {
	p := New("uniswap-v2", newConstantProductState(100, 1000, 1000))

	applied := p.ApplyExternalUpdate(newConstantProductState(99, 2000, 2000))
	if applied {
		t.Fatalf("stale update must be rejected")
	}
	if p.State().BlockNumberState != 100 {
		t.Fatalf("state must be unchanged after stale update")
	}

	applied = p.ApplyExternalUpdate(newConstantProductState(100, 2000, 2000))
	if applied {
		t.Fatalf("same-block update must be a no-op")
	}

	applied = p.ApplyExternalUpdate(newConstantProductState(101, 1500, 1500))
	if !applied {
		t.Fatalf("newer-block update must be applied")
	}
	if p.State().ConstantProduct.Reserve0.Int64() != 1500 {
		t.Fatalf("state did not update to new reserves")
	}
}

func TestSubscriberFanOut(t *testing.T) {
	p := New("uniswap-v2", newConstantProductState(1, 1000, 1000))
	sub := &recordingSubscriber{}
	p.Subscribe(sub)

	p.ApplyExternalUpdate(newConstantProductState(2, 1100, 900))
	if len(sub.received) != 1 {
		t.Fatalf("expected one notification, got %d", len(sub.received))
	}
	if sub.received[0].Block != 2 {
		t.Fatalf("notification carries wrong block: %d", sub.received[0].Block)
	}

	p.Unsubscribe(sub)
	p.ApplyExternalUpdate(newConstantProductState(3, 1200, 800))
	if len(sub.received) != 1 {
		t.Fatalf("unsubscribed subscriber must not receive further notifications")
	}
}

func TestRequireTickMapOnNonConcentratedPool(t *testing.T) {
	p := New("uniswap-v2", newConstantProductState(1, 1000, 1000))
	if _, err := p.RequireTickMap(); err == nil {
		t.Fatalf("expected error for non-concentrated pool")
	}
}
