package puzzle

import "testing"

func TestOppSelfInverse(t *testing.T) {
	for code := -10; code <= 10; code++ {
		if got := Opp(Opp(code)); got != code {
			t.Errorf("Opp(Opp(%d)) = %d, want %d", code, got, code)
		}
	}
}

func TestOppPairs(t *testing.T) {
	tests := []struct {
		code, want int
	}{
		{0, -1},
		{1, -2},
		{2, -3},
		{-1, 0},
		{-3, 2},
	}
	for _, tt := range tests {
		if got := Opp(tt.code); got != tt.want {
			t.Errorf("Opp(%d) = %d, want %d", tt.code, got, tt.want)
		}
	}
}

func TestAx(t *testing.T) {
	for axis := 0; axis < 10; axis++ {
		if got := Ax(axis); got != axis {
			t.Errorf("Ax(%d) = %d, want %d", axis, got, axis)
		}
		if got := Ax(Opp(axis)); got != axis {
			t.Errorf("Ax(Opp(%d)) = %d, want %d", axis, got, axis)
		}
	}
}
