package pricing

import "testing"

func TestRoundUpToMultiple(t *testing.T) {
	tests := []struct {
		x    float64
		base int
		want int
	}{
		{995, 995, 995},
		{1990, 995, 1990},
		{996, 995, 1990},
		{1, 995, 995},
		{11500, 995, 11940},
		{0, 995, 0},
		{-50, 995, 0},
	}
	for _, tt := range tests {
		if got := RoundUpToMultiple(tt.x, tt.base); got != tt.want {
			t.Fatalf("RoundUpToMultiple(%v, %d) = %d, want %d", tt.x, tt.base, got, tt.want)
		}
	}
}

func TestRoundUpEnding995(t *testing.T) {
	tests := []struct {
		x    float64
		want int
	}{
		{1600, 1995},
		{1995, 1995},
		{1996, 2995},
		{1, 995},
		{995, 995},
		{10000, 10995},
	}
	for _, tt := range tests {
		got := RoundUpEnding995(tt.x)
		if got != tt.want {
			t.Fatalf("RoundUpEnding995(%v) = %d, want %d", tt.x, got, tt.want)
		}
		if got%1000 != 995 {
			t.Fatalf("RoundUpEnding995(%v) = %d, does not end in 995", tt.x, got)
		}
		if float64(got) < tt.x || float64(got-1000) >= tt.x {
			t.Fatalf("RoundUpEnding995(%v) = %d, not the unique value in (x-1000, x]", tt.x, got)
		}
	}
}

func TestUpliftTiers(t *testing.T) {
	p := DefaultPolicy()
	tests := []struct {
		soldFraction float64
		want         float64
	}{
		{0.0, 0.0},
		{0.50, 0.0},
		{0.8999, 0.0},
		{0.90, 0.15},
		{0.95, 0.15},
		{0.9699, 0.15},
		{0.97, 0.20},
		{1.0, 0.20},
	}
	for _, tt := range tests {
		if got := p.Uplift(tt.soldFraction); got != tt.want {
			t.Fatalf("Uplift(%v) = %v, want %v", tt.soldFraction, got, tt.want)
		}
	}
}

func TestFinalPrice(t *testing.T) {
	p := DefaultPolicy()

	tests := []struct {
		name         string
		base         int
		soldFraction float64
		want         int
	}{
		{"below first tier returns base untouched", 10000, 0.50, 10000},
		{"non-multiple base survives zero uplift", 10001, 0.0, 10001},
		{"tier one applies 15 pct then rounds to 995 multiple", 10000, 0.95, 11940},
		{"tier two applies 20 pct", 10000, 0.97, 12935},
		{"tier two on larger base", 20000, 0.99, 24875},
	}
	for _, tt := range tests {
		got, err := p.FinalPrice(tt.base, tt.soldFraction)
		if err != nil {
			t.Fatalf("%s: FinalPrice(%d, %v) error: %v", tt.name, tt.base, tt.soldFraction, err)
		}
		if got != tt.want {
			t.Fatalf("%s: FinalPrice(%d, %v) = %d, want %d", tt.name, tt.base, tt.soldFraction, got, tt.want)
		}
	}
}

func TestFinalPriceRejectsNonPositiveBase(t *testing.T) {
	p := DefaultPolicy()
	for _, base := range []int{0, -1, -995} {
		if _, err := p.FinalPrice(base, 0.95); err == nil {
			t.Fatalf("FinalPrice(%d, 0.95) expected error, got nil", base)
		}
	}
}

func TestFinalPriceDoesNotCompound(t *testing.T) {
	p := DefaultPolicy()
	first, err := p.FinalPrice(10000, 0.95)
	if err != nil {
		t.Fatalf("FinalPrice error: %v", err)
	}
	// A second publish at the same tier prices from the locked base again,
	// not from the previous result.
	second, err := p.FinalPrice(10000, 0.95)
	if err != nil {
		t.Fatalf("FinalPrice error: %v", err)
	}
	if first != second {
		t.Fatalf("repeated publish changed price: %d then %d", first, second)
	}
}

func TestCompanionPrice(t *testing.T) {
	p := DefaultPolicy()

	got, err := p.CompanionPrice(1000)
	if err != nil {
		t.Fatalf("CompanionPrice(1000) error: %v", err)
	}
	// 2 * 1000 * 0.80 = 1600, rounded up to the next ...995 ending.
	if got != 1995 {
		t.Fatalf("CompanionPrice(1000) = %d, want 1995", got)
	}

	got, err = p.CompanionPrice(5995)
	if err != nil {
		t.Fatalf("CompanionPrice(5995) error: %v", err)
	}
	// 2 * 5995 * 0.80 = 9592 -> 9995.
	if got != 9995 {
		t.Fatalf("CompanionPrice(5995) = %d, want 9995", got)
	}

	if _, err := p.CompanionPrice(0); err == nil {
		t.Fatal("CompanionPrice(0) expected error, got nil")
	}
}

func TestLockBasePrice(t *testing.T) {
	p := DefaultPolicy()
	// 10000 * 1.05 = 10500 -> next multiple of 995 is 10945.
	if got := p.LockBasePrice(10000); got != 10945 {
		t.Fatalf("LockBasePrice(10000) = %d, want 10945", got)
	}
	// 5000 * 1.05 = 5250 -> 5970.
	if got := p.LockBasePrice(5000); got != 5970 {
		t.Fatalf("LockBasePrice(5000) = %d, want 5970", got)
	}
}
