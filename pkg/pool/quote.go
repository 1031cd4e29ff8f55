package pool

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/johnayoung/go-defi-engine/pkg/ammath/concentrated"
	"github.com/johnayoung/go-defi-engine/pkg/ammath/constantproduct"
	"github.com/johnayoung/go-defi-engine/pkg/ammath/stable"
	"github.com/johnayoung/go-defi-engine/pkg/ammath/weighted"
	"github.com/johnayoung/go-defi-engine/pkg/evmtypes"
)

// ErrUnsupportedQuoteKind is returned by Quote for a Kind with no swap
// simulation wired up (none currently; kept for forward compatibility).
var ErrUnsupportedQuoteKind = errors.New("pool: no quote function for this kind")

// Quote returns a directional swap leg over p's current snapshot: given
// tokenIn, it reports how much of the other token a swap would return.
// V2 pools return a constantproduct.Leg, which additionally satisfies the
// arbitrage solver's AnalyticalLeg interface (closed-form
// Derivative/Hessian); every other family, Aerodrome-volatile included,
// returns a leg with only OutGivenIn, driving the solver's
// finite-difference path.
func (p *Pool) Quote(tokenIn evmtypes.Address) (interface {
	OutGivenIn(amountIn *big.Int) (*big.Int, error)
}, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	zeroForOne, err := p.directionOf(tokenIn)
	if err != nil {
		return nil, err
	}

	switch p.state.Kind {
	case KindV2:
		cp := p.state.ConstantProduct
		if zeroForOne {
			return constantproduct.Leg{ReserveIn: cp.Reserve0, ReserveOut: cp.Reserve1, FeeNum: cp.FeeNum, FeeDen: cp.FeeDen}, nil
		}
		return constantproduct.Leg{ReserveIn: cp.Reserve1, ReserveOut: cp.Reserve0, FeeNum: cp.FeeNum, FeeDen: cp.FeeDen}, nil

	case KindAerodrome:
		cp := p.state.ConstantProduct
		return volatileLeg{reserveIn: pick(zeroForOne, cp.Reserve0, cp.Reserve1), reserveOut: pick(zeroForOne, cp.Reserve1, cp.Reserve0), feeNum: cp.FeeNum, feeDen: cp.FeeDen}, nil

	case KindStable:
		st := p.state.Stable
		return stableLeg{pool: stable.Pool{Reserve0: st.Reserve0, Reserve1: st.Reserve1, Decimals0: st.Decimals0, Decimals1: st.Decimals1, FeeNum: st.FeeNum, FeeDen: st.FeeDen}, zeroForOne: zeroForOne}, nil

	case KindBalancer:
		w := p.state.Weighted
		idx, ok := p.tokenIndex(tokenIn)
		if !ok {
			return nil, fmt.Errorf("pool: token %x not in pool %x", tokenIn, p.state.Address)
		}
		outIdx := (idx + 1) % len(w.Balances)
		return weightedLeg{balanceIn: w.Balances[idx], weightIn: w.Weights[idx], balanceOut: w.Balances[outIdx], weightOut: w.Weights[outIdx]}, nil

	case KindV3, KindV4:
		return concentratedLeg{state: p.state.Concentrated.State, zeroForOne: zeroForOne}, nil

	default:
		return nil, ErrUnsupportedQuoteKind
	}
}

func (p *Pool) directionOf(tokenIn evmtypes.Address) (bool, error) {
	if len(p.state.Tokens) < 2 {
		return false, fmt.Errorf("pool: pool %x has fewer than two tokens", p.state.Address)
	}
	switch tokenIn {
	case p.state.Tokens[0]:
		return true, nil
	case p.state.Tokens[1]:
		return false, nil
	default:
		return false, fmt.Errorf("pool: token %x not in pool %x", tokenIn, p.state.Address)
	}
}

func (p *Pool) tokenIndex(token evmtypes.Address) (int, bool) {
	for i, t := range p.state.Tokens {
		if t == token {
			return i, true
		}
	}
	return 0, false
}

func pick(cond bool, a, b *big.Int) *big.Int {
	if cond {
		return a
	}
	return b
}

// volatileLeg wraps Aerodrome's volatile (constant-product) branch, which
// reuses constant-product math under a different fee convention than
// stable.VolatileOutGivenIn's callers always have handy as two big.Ints.
type volatileLeg struct {
	reserveIn, reserveOut *big.Int
	feeNum, feeDen        *big.Int
}

func (l volatileLeg) OutGivenIn(amountIn *big.Int) (*big.Int, error) {
	return stable.VolatileOutGivenIn(l.reserveIn, l.reserveOut, amountIn, l.feeNum, l.feeDen)
}

type stableLeg struct {
	pool       stable.Pool
	zeroForOne bool
}

func (l stableLeg) OutGivenIn(amountIn *big.Int) (*big.Int, error) {
	return l.pool.OutGivenIn(l.zeroForOne, amountIn)
}

type weightedLeg struct {
	balanceIn, weightIn, balanceOut, weightOut *big.Int
}

func (l weightedLeg) OutGivenIn(amountIn *big.Int) (*big.Int, error) {
	return weighted.OutGivenIn(l.balanceIn, l.weightIn, l.balanceOut, l.weightOut, amountIn)
}

type concentratedLeg struct {
	state      concentrated.State
	zeroForOne bool
}

func (l concentratedLeg) OutGivenIn(amountIn *big.Int) (*big.Int, error) {
	result, err := concentrated.Swap(l.state, l.zeroForOne, amountIn, nil)
	if err != nil {
		return nil, err
	}
	return result.AmountOut, nil
}
