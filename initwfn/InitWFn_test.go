package initwfn

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorgonia.org/tensor"
)

func TestSameSeedSameWeights(t *testing.T) {
	a := NewGlorotU(1, 42).InitWFn()(tensor.Float64, 3, 4).([]float64)
	b := NewGlorotU(1, 42).InitWFn()(tensor.Float64, 3, 4).([]float64)
	c := NewGlorotU(1, 43).InitWFn()(tensor.Float64, 3, 4).([]float64)

	require.Len(t, a, 12)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestGlorotUniformBounds(t *testing.T) {
	limit := math.Sqrt(6.0 / (10 + 5))
	w := NewGlorotU(1, 7).InitWFn()(tensor.Float64, 10, 5).([]float64)
	for _, v := range w {
		assert.True(t, v >= -limit && v < limit, "%v outside ±%v", v, limit)
	}
}

func TestHeUniformBounds(t *testing.T) {
	limit := math.Sqrt(6.0 / 8)
	w := NewHeU(1, 7).InitWFn()(tensor.Float32, 8, 2).([]float32)
	require.Len(t, w, 16)
	for _, v := range w {
		assert.True(t, float64(v) >= -limit && float64(v) <= limit)
	}
}

func TestZeroesAndConstant(t *testing.T) {
	assert.Equal(t, []float64{0, 0, 0},
		NewZeroes().InitWFn()(tensor.Float64, 1, 3))
	assert.Equal(t, []float64{2.5, 2.5},
		NewConstant(2.5).InitWFn()(tensor.Float64, 2, 1))
}

func TestUnmarshalJSON(t *testing.T) {
	var i InitWFn
	err := json.Unmarshal([]byte(
		`{"Type": "HeN", "Config": {"Gain": 2}, "Seed": 9}`), &i)
	require.NoError(t, err)
	assert.Equal(t, HeN, i.Type)
	assert.Equal(t, HeNConfig{Gain: 2}, i.Config)
	assert.Equal(t, uint64(9), i.Seed)

	assert.Error(t, json.Unmarshal([]byte(`{"Type": "orthogonal"}`), &i))
}

func TestNewDefault(t *testing.T) {
	for ty := range registeredTypes {
		i, err := NewDefault(ty, 1)
		require.NoError(t, err)
		assert.Equal(t, ty, i.Type)
		assert.NotNil(t, i.InitWFn())
	}
}
