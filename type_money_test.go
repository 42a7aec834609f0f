package taxetrade

import "testing"

func TestMoneyRoundHalfUp(t *testing.T) {
	cases := []struct {
		in   Money
		want string
	}{
		// shopspring Round is half away from zero, which matches the
		// statutory half-up rounding for both signs.
		{EUR("32.22665").Round4(), "32.2267"},
		{EUR("32.22664").Round4(), "32.2266"},
		{EUR("-38.29255").Round4(), "-38.2926"},
		{EUR("135.28185").Round2(), "135.28"},
		{EUR("135.285").Round2(), "135.29"},
		{EUR("-0.005").Round2(), "-0.01"},
	}
	for _, tc := range cases {
		if got := tc.in.Decimal().String(); got != tc.want {
			t.Errorf("rounded %s, want %s", got, tc.want)
		}
	}
}

func TestMoneyArithmetic(t *testing.T) {
	a, b := EUR("10.50"), EUR("0.25")

	if got := a.Add(b); !got.Equal(EUR("10.75")) {
		t.Errorf("Add = %s", got.StringFixed4())
	}
	if got := a.Sub(b); !got.Equal(EUR("10.25")) {
		t.Errorf("Sub = %s", got.StringFixed4())
	}
	if got := a.Mul(Q(3)); !got.Equal(EUR("31.50")) {
		t.Errorf("Mul = %s", got.StringFixed4())
	}
	if got := a.Div(Q(4)); !got.Equal(EUR("2.625")) {
		t.Errorf("Div = %s", got.StringFixed4())
	}
	if got := a.Neg(); !got.Equal(EUR("-10.50")) {
		t.Errorf("Neg = %s", got.StringFixed4())
	}
}

func TestMoneyCurrencyMismatchPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("adding EUR to USD did not panic")
		}
	}()
	EUR(1).Add(USD(1))
}

func TestMoneyWeakCurrency(t *testing.T) {
	// The zero Money has no currency and adopts the other operand's.
	var zero Money
	got := zero.Add(EUR("5"))
	if got.Currency() != "EUR" || !got.Equal(EUR("5")) {
		t.Errorf("zero + EUR 5 = %s %s", got.Currency(), got.StringFixed4())
	}
}

func TestMoneyConvert(t *testing.T) {
	got := USD("38.42").Convert(fx("0.8388"), "EUR")
	if got.Currency() != "EUR" {
		t.Errorf("currency = %s, want EUR", got.Currency())
	}
	if !got.Equal(EUR("32.226696")) {
		t.Errorf("converted = %s, want the unrounded 32.226696", got.Decimal())
	}
}

func TestMoneySignedString(t *testing.T) {
	if got := EUR(0).SignedString(); got != "-" {
		t.Errorf("zero = %q, want -", got)
	}
	if got := EUR("1.5").SignedString(); got[0] != '+' {
		t.Errorf("positive = %q, want leading +", got)
	}
	if got := EUR("-1.5").SignedString(); got[0] == '+' {
		t.Errorf("negative = %q must not carry +", got)
	}
}
