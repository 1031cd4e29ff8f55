package events

import (
	"math/big"
	"testing"
)

func TestLiquidationCallNeverConsumed(t *testing.T) {
	tracker := NewConsumptionTracker()
	event := PoolEvent{Kind: KindLiquidationCall, LogIndex: 100}

	for _, op := range []Operation{OperationBurn, OperationMint, OperationBurn, OperationMint} {
		if !tracker.TryConsume(event, op) {
			t.Fatal("LIQUIDATION_CALL must remain available to every leg of a liquidation")
		}
	}
}

func TestRepayNotConsumedByMintButConsumedByBurn(t *testing.T) {
	tracker := NewConsumptionTracker()
	event := PoolEvent{Kind: KindRepay, LogIndex: 100}

	if !tracker.TryConsume(event, OperationMint) {
		t.Fatal("REPAY must be available to the mint (interest-accrual) leg")
	}
	if ShouldConsume(event.Kind, OperationMint) {
		t.Fatal("a mint must not consume REPAY, so a later burn can still claim it")
	}
	if !tracker.TryConsume(event, OperationBurn) {
		t.Fatal("REPAY must still be available to the burn leg after an earlier mint observed it")
	}
	if tracker.TryConsume(event, OperationBurn) {
		t.Fatal("REPAY must be consumed once a burn has claimed it")
	}
}

func TestWithdrawConsumedOnFirstMatch(t *testing.T) {
	tracker := NewConsumptionTracker()
	event := PoolEvent{Kind: KindWithdraw, LogIndex: 100}

	if !tracker.TryConsume(event, OperationBurn) {
		t.Fatal("WITHDRAW must be available on first match")
	}
	if tracker.TryConsume(event, OperationBurn) {
		t.Fatal("WITHDRAW must be consumed after first match")
	}
}

func TestPriorMintMatchesOnlyItsOwnRecipient(t *testing.T) {
	userA := "0x5B5A0580bcfd3673820Bb249514234aFAD33e209"
	userB := "0x0F4A1D7FdF4890bE35e71f3E0Bbc4a0EC377eca3"
	index := big.NewInt(0x113245629)

	prior := PriorMint{
		Value:           big.NewInt(2),
		BalanceIncrease: big.NewInt(2),
		Index:           index,
		OnBehalfOf:      userA,
	}

	if prior.MatchesTransfer(big.NewInt(2), index, userB) {
		t.Fatal("a Mint to user A must not match a BalanceTransfer to user B")
	}
	if !prior.MatchesTransfer(big.NewInt(2), index, userA) {
		t.Fatal("a Mint to user A must match a BalanceTransfer to user A at the same value and index")
	}
}

func TestPriorMintRequiresPureInterestAccrual(t *testing.T) {
	userA := "0x5B5A0580bcfd3673820Bb249514234aFAD33e209"
	index := big.NewInt(0x113245629)

	prior := PriorMint{
		Value:           big.NewInt(100),
		BalanceIncrease: big.NewInt(5),
		Index:           index,
		OnBehalfOf:      userA,
	}

	if prior.MatchesTransfer(big.NewInt(100), index, userA) {
		t.Fatal("a supply Mint (value > balance_increase) must never match a BalanceTransfer")
	}
}

func TestBalanceTransferImmediateBurnSkipsRecipientOnly(t *testing.T) {
	toAddress := "0x872fBcb1B582e8Cd0D0DD4327fBFa0B4C2730995"
	amount := big.NewInt(1_000_000_000_000_000)

	bt := BalanceTransfer{From: "0xE4217040c894e8873EE19d675b6d0EeC992c2c0D", To: toAddress, Amount: amount}

	if !bt.SkipsRecipientBalanceUpdate(toAddress, amount) {
		t.Fatal("an immediate burn by the recipient for the full transferred amount must skip the recipient's balance update")
	}
}

func TestBalanceTransferDifferentBurnAmountDoesNotSkip(t *testing.T) {
	toAddress := "0x872fBcb1B582e8Cd0D0DD4327fBFa0B4C2730995"
	bt := BalanceTransfer{From: "0xfrom", To: toAddress, Amount: big.NewInt(1_000_000_000_000_000)}

	if bt.SkipsRecipientBalanceUpdate(toAddress, big.NewInt(500_000_000_000_000)) {
		t.Fatal("a burn for a different amount is not the same logical event and must not skip the recipient update")
	}
}
