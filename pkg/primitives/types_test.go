package primitives

import "testing"

func TestDecimal(t *testing.T) {
	t.Run("creation", func(t *testing.T) {
		d1 := NewDecimal(100)
		if d1.String() != "100" {
			t.Errorf("expected 100, got %s", d1.String())
		}

		d2 := NewDecimalFromFloat(123.45)
		if d2.String() != "123.45" {
			t.Errorf("expected 123.45, got %s", d2.String())
		}

		d3, err := NewDecimalFromString("999.99")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if d3.String() != "999.99" {
			t.Errorf("expected 999.99, got %s", d3.String())
		}

		if _, err := NewDecimalFromString("not-a-number"); err == nil {
			t.Error("expected error for invalid string")
		}
	})

	t.Run("must panics on invalid input", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("expected MustDecimalFromString to panic on invalid input")
			}
		}()
		MustDecimalFromString("not-a-number")
	})

	t.Run("arithmetic", func(t *testing.T) {
		a := NewDecimal(10)
		b := NewDecimal(3)

		if sum := a.Add(b); sum.String() != "13" {
			t.Errorf("10 + 3 = %s, want 13", sum.String())
		}
		if diff := a.Sub(b); diff.String() != "7" {
			t.Errorf("10 - 3 = %s, want 7", diff.String())
		}
	})

	t.Run("comparisons", func(t *testing.T) {
		ten, three := NewDecimal(10), NewDecimal(3)

		if !ten.GreaterThan(three) || three.GreaterThan(ten) {
			t.Error("GreaterThan disagreement on 10 vs 3")
		}
		if !three.LessThan(ten) || ten.LessThan(three) {
			t.Error("LessThan disagreement on 3 vs 10")
		}
		if !ten.Equal(NewDecimal(10)) {
			t.Error("Equal should hold for two Decimals built from the same int64")
		}
		if !Zero().IsZero() {
			t.Error("Zero() should report IsZero true")
		}
		if !NewDecimal(-1).IsNegative() || NewDecimal(1).IsNegative() {
			t.Error("IsNegative disagreement")
		}
		if !NewDecimal(1).IsPositive() || NewDecimal(-1).IsPositive() {
			t.Error("IsPositive disagreement")
		}
	})
}

func TestAmount(t *testing.T) {
	t.Run("rejects negative decimals", func(t *testing.T) {
		if _, err := NewAmount(NewDecimal(-1)); err != ErrNegativeAmount {
			t.Errorf("expected ErrNegativeAmount, got %v", err)
		}
	})

	t.Run("must panics on negative input", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("expected MustAmount to panic on a negative Decimal")
			}
		}()
		MustAmount(NewDecimal(-1))
	})

	t.Run("zero amount", func(t *testing.T) {
		if !ZeroAmount().IsZero() {
			t.Error("ZeroAmount() should report IsZero true")
		}
	})

	t.Run("arithmetic and comparison", func(t *testing.T) {
		five := MustAmount(NewDecimal(5))
		three := MustAmount(NewDecimal(3))

		if sum := five.Add(three); sum.String() != "8" {
			t.Errorf("5 + 3 = %s, want 8", sum.String())
		}
		if !five.GreaterThan(three) || three.GreaterThan(five) {
			t.Error("GreaterThan disagreement on 5 vs 3")
		}
		if !five.Equal(MustAmount(NewDecimal(5))) {
			t.Error("Equal should hold for two Amounts built from the same Decimal")
		}
		if five.Decimal().String() != "5" {
			t.Errorf("Decimal() = %s, want 5", five.Decimal().String())
		}
	})
}
