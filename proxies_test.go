package nogo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLZ76(t *testing.T) {
	tests := []struct {
		bits string
		want int
	}{
		{"00000000", 2},
		{"01101101", 4},
		{"01111001", 4},
		{"11111001", 3},
		{"01010101", 3},
		{"11110000", 3},
		{"0", 1},
		{"", 0},
	}

	for _, tt := range tests {
		s := make([]uint8, len(tt.bits))
		for i, c := range tt.bits {
			s[i] = uint8(c - '0')
		}
		assert.Equal(t, tt.want, LZ76(s), "LZ76(%q)", tt.bits)
	}
}

func TestBitMixing(t *testing.T) {
	tests := []struct {
		bits Bits
		want float64
	}{
		{Bits{}, 0},
		{Bits{0, 1, 1, 0, 1, 1, 0, 1}, 0.5892857142857143},
		{Bits{0, 1, 1, 1, 1, 0, 0, 1}, 0.5035714285714286},
		{Bits{1, 0, 0, 1, 0, 1, 0, 0}, 0.5892857142857143},
		{Bits{1, 1, 1, 1, 1, 0, 0, 1}, 0.4107142857142857},
		{Bits{0, 0, 1, 1, 0, 1, 0, 0}, 0.5464285714285714},
		{Bits{0, 1, 0, 1, 0, 1, 0, 1}, 0.3},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.want, BitMixing(tt.bits), 1e-12, "mixing(%s)", tt.bits)
	}
}

func TestProxies_CanonicalStates(t *testing.T) {
	cfg := testConfig()
	_, states, trace := forward(t, cfg)
	k := trace.Measurement.Outcome

	profiles := make([]Profile, len(states))
	for i, s := range states {
		p, err := ComputeProfile(s, cfg)
		require.NoError(t, err)
		profiles[i] = p
		t.Logf("X%d: %s", i, describeProfile(p))
	}

	assert.InDelta(t, 0.1, profiles[0].Get(Alg), 1e-12)
	assert.InDelta(t, 0.8, profiles[1].Get(Alg), 1e-12)

	assert.InDelta(t, 0.1, profiles[1].Get(Info), 1e-12)
	wantInfo := map[int]float64{0: 0.4677052654091123, 1: 0.5677052654091123}[k]
	assert.InDelta(t, wantInfo, profiles[2].Get(Info), 1e-9)

	wantDyn := map[int][2]float64{0: {0.6525, 0.7125}, 1: {0.5875, 0.6825}}[k]
	assert.InDelta(t, wantDyn[0], profiles[2].Get(Dyn), 1e-9)
	assert.InDelta(t, wantDyn[1], profiles[3].Get(Dyn), 1e-9)

	assert.Less(t, profiles[3].Get(Geom), 0.05)
	assert.Greater(t, profiles[4].Get(Geom), 0.9)
}

func TestProxies_MetadataIndependence(t *testing.T) {
	cfg := testConfig()
	_, states, _ := forward(t, cfg)

	for i, s := range states {
		t.Run(StateLabels[i], func(t *testing.T) {
			AssertMetadataIndependent(t, s, cfg)
		})
	}
}

func TestCDyn_IgnoresHistory(t *testing.T) {
	// The same content reached without the mixing step scores the same.
	cfg := testConfig()
	_, states, _ := forward(t, cfg)

	synthetic := states[3].Clone()
	synthetic.Tags = nil

	a, err := CDyn(states[3])
	require.NoError(t, err)
	b, err := CDyn(synthetic)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestCDyn_SpreadTerm(t *testing.T) {
	// Maximally mixed ρ has a flat spectrum: no spread contribution.
	s := InitialState(16)
	s.Quantum = maximallyMixed()

	v, err := CDyn(s)
	require.NoError(t, err)
	assert.InDelta(t, 0, v, 1e-12)
}

func TestPillar_String(t *testing.T) {
	assert.Equal(t, "C_alg", Alg.String())
	assert.Equal(t, "C_geom", Geom.String())
	assert.Equal(t, "Pillar(9)", Pillar(9).String())
}

func TestProfile_Sub(t *testing.T) {
	a := Profile{1, 2, 3, 4}
	b := Profile{0.5, 0.5, 0.5, 0.5}
	assert.Equal(t, Profile{0.5, 1.5, 2.5, 3.5}, a.Sub(b))
}
