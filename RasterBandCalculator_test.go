package GeoIndex

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateBands(t *testing.T) {
	assert.NoError(t, ValidateBands(5, 1, 2))
	assert.NoError(t, ValidateBands(5, 5, 1))
	assert.NoError(t, ValidateBands(1, 1, 1), "same band for red and nir is allowed")

	for _, tc := range [][3]int{{5, 6, 2}, {5, 1, 6}, {5, 0, 2}, {5, 1, -1}, {0, 1, 1}} {
		err := ValidateBands(tc[0], tc[1], tc[2])
		require.Error(t, err, "%v", tc)
		assert.ErrorIs(t, err, ErrInvalidBand)
	}
}

func TestValidateBands_MessageNamesBandsAndCount(t *testing.T) {
	err := ValidateBands(5, 6, 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "6")
	assert.Contains(t, err.Error(), "5 bands")

	var re *RasterError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "5", re.Details["available"])
	assert.Equal(t, "6", re.Details["red"])
}

func TestNormalizedDifference_Scenarios(t *testing.T) {
	assert.Equal(t, 0.5, NormalizedDifference(3000, 1000))
	assert.Equal(t, -0.5, NormalizedDifference(1000, 3000))
	assert.Equal(t, 0.0, NormalizedDifference(0, 0))
	assert.Equal(t, 0.0, NormalizedDifference(1234, 1234))
	assert.Equal(t, 1.0, NormalizedDifference(10, 0))
	assert.Equal(t, -1.0, NormalizedDifference(0, 10))
}

func TestNormalizedDifference_NonFiniteAndClamp(t *testing.T) {
	assert.Equal(t, 0.0, NormalizedDifference(math.NaN(), 1))
	assert.Equal(t, 0.0, NormalizedDifference(math.Inf(1), 1))
	assert.Equal(t, 0.0, NormalizedDifference(math.Inf(1), math.Inf(-1)))

	// 负反射率可使结果超出 [-1, 1]
	assert.Equal(t, 1.0, NormalizedDifference(3, -1))
	assert.Equal(t, -1.0, NormalizedDifference(-1, 3))
}

func TestNormalizedDifference_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 2000; i++ {
		a := float64(rng.Intn(65536))
		b := float64(rng.Intn(65536))
		v := NormalizedDifference(a, b)

		assert.False(t, math.IsNaN(v))
		assert.GreaterOrEqual(t, v, -1.0)
		assert.LessOrEqual(t, v, 1.0)
		assert.Equal(t, -v, NormalizedDifference(b, a), "antisymmetry for %v, %v", a, b)
		if a == b {
			assert.Equal(t, 0.0, v)
		}
	}
}

func TestComputeIndex_Constant(t *testing.T) {
	red := NewFilledBand(4, 3, PixelUInt16, 1000)
	nir := NewFilledBand(4, 3, PixelUInt16, 3000)

	out, err := ComputeIndex(red, nir)
	require.NoError(t, err)
	assert.Equal(t, PixelFloat32, out.PixelType)
	assert.Equal(t, 4, out.Width)
	assert.Equal(t, 3, out.Height)
	for _, v := range out.Data {
		assert.Equal(t, 0.5, v)
	}
}

func TestComputeIndex_PerPixel(t *testing.T) {
	red := &Band{Width: 2, Height: 2, PixelType: PixelUInt16, Data: []float64{0, 1000, 500, 200}}
	nir := &Band{Width: 2, Height: 2, PixelType: PixelUInt16, Data: []float64{0, 1000, 1500, 0}}

	out, err := ComputeIndex(red, nir)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 0.5, -1}, out.Data)
}

func TestComputeIndex_ShapeMismatch(t *testing.T) {
	red := NewBand(256, 256, PixelUInt16)
	nir := NewBand(128, 128, PixelUInt16)

	out, err := ComputeIndex(red, nir)
	require.Error(t, err)
	assert.Nil(t, out)
	assert.ErrorIs(t, err, ErrShapeMismatch)
	assert.Contains(t, err.Error(), "256x256")
	assert.Contains(t, err.Error(), "128x128")

	_, err = ComputeIndex(nil, nir)
	assert.ErrorIs(t, err, ErrShapeMismatch)

	short := &Band{Width: 2, Height: 2, Data: []float64{1}}
	_, err = ComputeIndex(short, NewBand(2, 2, PixelUInt16))
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestDeriveOutputMetadata(t *testing.T) {
	src := RasterMetadata{
		Width:     256,
		Height:    128,
		BandCount: 5,
		PixelType: PixelUInt16,
		CRS:       "EPSG:32633",
		Transform: GeoTransform{500000, 10, 0, 4200000, 0, -10},
		NoData:    Float64Ptr(0),
	}

	out := DeriveOutputMetadata(src)
	assert.Equal(t, 256, out.Width)
	assert.Equal(t, 128, out.Height)
	assert.Equal(t, 1, out.BandCount)
	assert.Equal(t, PixelFloat32, out.PixelType)
	assert.Equal(t, src.CRS, out.CRS)
	assert.Equal(t, src.Transform, out.Transform)
	nd, ok := out.NoDataValue()
	require.True(t, ok)
	assert.Equal(t, IndexNoData, nd)
	require.NoError(t, out.Validate())

	again := DeriveOutputMetadata(out)
	assert.Equal(t, out, again)
}

func TestComputeStatistics(t *testing.T) {
	b := &Band{Width: 4, Height: 1, PixelType: PixelFloat32, Data: []float64{-0.5, 0, 0.5, 1}}
	s := ComputeStatistics(b)
	assert.Equal(t, -0.5, s.Min)
	assert.Equal(t, 1.0, s.Max)
	assert.InDelta(t, 0.25, s.Mean, 1e-12)
	assert.Equal(t, 1, s.ZeroCount)
	assert.Equal(t, 4, s.PixelCount)

	assert.Equal(t, IndexStatistics{}, ComputeStatistics(nil))
}
