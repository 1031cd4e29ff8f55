package pool

import (
	"math/big"
	"testing"

	"github.com/johnayoung/go-defi-engine/pkg/evmtypes"
)

func tokenAddr(b byte) evmtypes.Address {
	var a evmtypes.Address
	a[19] = b
	return a
}

func TestQuoteV2ForwardAndReverseDirections(t *testing.T) {
	weth, usdc := tokenAddr(1), tokenAddr(2)
	p := New("uniswap-v2", State{
		Tokens: []evmtypes.Address{weth, usdc},
		Kind:   KindV2,
		ConstantProduct: &ConstantProductState{
			Reserve0: big.NewInt(1_000_000),
			Reserve1: big.NewInt(2_000_000),
			FeeNum:   big.NewInt(3),
			FeeDen:   big.NewInt(1000),
		},
	})

	forward, err := p.Quote(weth)
	if err != nil {
		t.Fatalf("Quote(weth): %v", err)
	}
	out, err := forward.OutGivenIn(big.NewInt(1_000))
	if err != nil {
		t.Fatalf("OutGivenIn: %v", err)
	}
	if out.Sign() <= 0 {
		t.Fatalf("expected a positive output swapping weth->usdc, got %s", out)
	}
	if _, ok := forward.(interface {
		Derivative(*big.Int) float64
	}); !ok {
		t.Fatal("a V2 leg must expose Derivative for the arb solver's analytical path")
	}

	reverse, err := p.Quote(usdc)
	if err != nil {
		t.Fatalf("Quote(usdc): %v", err)
	}
	reverseOut, err := reverse.OutGivenIn(big.NewInt(1_000))
	if err != nil {
		t.Fatalf("OutGivenIn: %v", err)
	}
	if reverseOut.Cmp(out) >= 0 {
		t.Fatalf("usdc->weth output (%s) should be smaller than weth->usdc (%s) given reserve1 > reserve0", reverseOut, out)
	}
}

func TestQuoteRejectsUnknownToken(t *testing.T) {
	weth, usdc, dai := tokenAddr(1), tokenAddr(2), tokenAddr(3)
	p := New("uniswap-v2", State{
		Tokens: []evmtypes.Address{weth, usdc},
		Kind:   KindV2,
		ConstantProduct: &ConstantProductState{
			Reserve0: big.NewInt(1_000_000),
			Reserve1: big.NewInt(2_000_000),
			FeeNum:   big.NewInt(3),
			FeeDen:   big.NewInt(1000),
		},
	})

	if _, err := p.Quote(dai); err == nil {
		t.Fatal("expected an error quoting a token the pool does not hold")
	}
}

func TestQuoteBalancerWeightedPool(t *testing.T) {
	dai, usdc := tokenAddr(1), tokenAddr(2)
	p := New("balancer", State{
		Tokens: []evmtypes.Address{dai, usdc},
		Kind:   KindBalancer,
		Weighted: &WeightedState{
			Balances: []*big.Int{big.NewInt(1_000_000), big.NewInt(1_000_000)},
			Weights:  []*big.Int{big.NewInt(500_000_000_000_000_000), big.NewInt(500_000_000_000_000_000)},
			SwapFee:  big.NewInt(0),
		},
	})

	leg, err := p.Quote(dai)
	if err != nil {
		t.Fatalf("Quote(dai): %v", err)
	}
	out, err := leg.OutGivenIn(big.NewInt(1_000))
	if err != nil {
		t.Fatalf("OutGivenIn: %v", err)
	}
	if out.Sign() <= 0 {
		t.Fatalf("expected a positive output, got %s", out)
	}
}
