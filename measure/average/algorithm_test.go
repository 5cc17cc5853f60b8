package average

import (
	"math"
	"testing"
)

func TestAlgorithmEncodingIsStable(t *testing.T) {
	if AlgorithmRmsBandLimited.Int() != 0 {
		t.Fatal("RMS encoding changed")
	}

	if AlgorithmItuBs1770.Int() != 1 {
		t.Fatal("BS.1770 encoding changed")
	}
}

func TestAlgorithmFromIntNormalizesUnknown(t *testing.T) {
	cases := map[int]Algorithm{
		0:   AlgorithmRmsBandLimited,
		1:   AlgorithmItuBs1770,
		-1:  AlgorithmItuBs1770,
		2:   AlgorithmItuBs1770,
		999: AlgorithmItuBs1770,
	}

	for v, want := range cases {
		if got := AlgorithmFromInt(v); got != want {
			t.Errorf("AlgorithmFromInt(%d) = %v, want %v", v, got, want)
		}
	}
}

func TestAlgorithmString(t *testing.T) {
	if AlgorithmRmsBandLimited.String() == AlgorithmItuBs1770.String() {
		t.Fatal("algorithm names must differ")
	}

	if Algorithm(42).String() != "Unknown" {
		t.Fatal("unknown algorithm must stringify as Unknown")
	}
}

func TestChannelWeights(t *testing.T) {
	want := []float64{1, 1, 1, 0, 1.41, 1.41}
	for c, w := range want {
		if got := ChannelWeight(c); math.Abs(got-w) > 1e-12 {
			t.Errorf("ChannelWeight(%d) = %v, want %v", c, got, w)
		}
	}

	if ChannelWeight(-1) != 0 || ChannelWeight(6) != 0 {
		t.Error("out-of-layout channels must weigh zero")
	}
}
