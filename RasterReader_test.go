package GeoIndex

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRasterDataset_RoundTripMetadata(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.tif")
	meta := RasterMetadata{
		Width:     8,
		Height:    6,
		BandCount: 2,
		PixelType: PixelFloat32,
		CRS:       "EPSG:4326",
		Transform: FromOrigin(140, -35, 0.01, 0.01),
		NoData:    Float64Ptr(-9999),
	}
	b1 := NewFilledBand(8, 6, PixelFloat32, 0.25)
	b2 := NewFilledBand(8, 6, PixelFloat32, -0.75)
	writeTestRaster(t, path, meta, b1, b2)

	ds, err := OpenRasterDataset(path)
	require.NoError(t, err)
	defer ds.Close()

	got := ds.Metadata()
	assert.Equal(t, 8, got.Width)
	assert.Equal(t, 6, got.Height)
	assert.Equal(t, 2, got.BandCount)
	assert.Equal(t, 2, ds.GetBandCount())
	assert.Equal(t, PixelFloat32, got.PixelType)
	assert.Equal(t, "EPSG:4326", got.CRS)
	assert.InDeltaSlice(t, meta.Transform[:], got.Transform[:], 1e-12)
	nd, ok := got.NoDataValue()
	require.True(t, ok)
	assert.Equal(t, -9999.0, nd)
	assert.Equal(t, path, ds.Path())

	band, err := ds.ReadBand(2)
	require.NoError(t, err)
	assert.Equal(t, PixelFloat32, band.PixelType)
	assert.Equal(t, b2.Data, band.Data)
}

func TestRasterDataset_UInt16Values(t *testing.T) {
	path := filepath.Join(t.TempDir(), "uint16.tif")
	meta := RasterMetadata{
		Width:     3,
		Height:    2,
		BandCount: 1,
		PixelType: PixelUInt16,
		CRS:       "EPSG:32633",
		Transform: GeoTransform{500000, 10, 0, 4200000, 0, -10},
	}
	src := &Band{Width: 3, Height: 2, PixelType: PixelUInt16, Data: []float64{0, 1, 100, 4000, 6500, 65535}}
	writeTestRaster(t, path, meta, src)

	ds, err := OpenRasterDataset(path)
	require.NoError(t, err)
	defer ds.Close()

	assert.Equal(t, "EPSG:32633", ds.Metadata().CRS)
	assert.False(t, ds.Metadata().HasNoData())

	band, err := ds.ReadBand(1)
	require.NoError(t, err)
	assert.Equal(t, PixelUInt16, band.PixelType)
	assert.Equal(t, src.Data, band.Data)
}

func TestRasterDataset_WithoutCRS(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nocrs.tif")
	meta := RasterMetadata{Width: 2, Height: 2, BandCount: 1, PixelType: PixelUInt8, Transform: FromOrigin(0, 2, 1, 1)}
	writeTestRaster(t, path, meta, NewBand(2, 2, PixelUInt8))

	ds, err := OpenRasterDataset(path)
	require.NoError(t, err)
	defer ds.Close()
	assert.Empty(t, ds.Metadata().CRS)
}

func TestOpenRasterDataset_NotFound(t *testing.T) {
	dir := t.TempDir()

	_, err := OpenRasterDataset(filepath.Join(dir, "missing.tif"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = OpenRasterDataset(dir)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOpenRasterDataset_NotARaster(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.tif")
	require.NoError(t, os.WriteFile(path, []byte("this is not a tiff"), 0o644))

	_, err := OpenRasterDataset(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFormat)
	assert.Contains(t, err.Error(), path)
}

func TestOpenRasterDataset_RejectsNonGeoTiff(t *testing.T) {
	// GDAL可读的ASCII Grid，但不是GeoTIFF
	path := filepath.Join(t.TempDir(), "grid.asc")
	grid := "ncols 2\nnrows 2\nxllcorner 0\nyllcorner 0\ncellsize 1\n1 2\n3 4\n"
	require.NoError(t, os.WriteFile(path, []byte(grid), 0o644))

	ds, err := OpenRasterDataset(path)
	require.Error(t, err)
	assert.Nil(t, ds)
	assert.ErrorIs(t, err, ErrFormat)
}

func TestRunIndexCalculation_RejectsNonGeoTiff(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "grid.asc")
	output := filepath.Join(dir, "ndvi.tif")
	require.NoError(t, os.WriteFile(input, []byte("ncols 1\nnrows 1\nxllcorner 0\nyllcorner 0\ncellsize 1\n7\n"), 0o644))

	_, err := RunIndexCalculation(input, output, 1, 1)
	assert.ErrorIs(t, err, ErrFormat)
	assert.False(t, fileExists(output))
}

func TestRasterDataset_ReadBandOutOfRange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "two.tif")
	meta := RasterMetadata{Width: 2, Height: 2, BandCount: 2, PixelType: PixelUInt16, CRS: "EPSG:4326", Transform: FromOrigin(0, 0, 1, 1)}
	writeTestRaster(t, path, meta, NewBand(2, 2, PixelUInt16), NewBand(2, 2, PixelUInt16))

	ds, err := OpenRasterDataset(path)
	require.NoError(t, err)
	defer ds.Close()

	for _, idx := range []int{0, 3, -1} {
		_, err := ds.ReadBand(idx)
		assert.ErrorIs(t, err, ErrInvalidBand, "band %d", idx)
	}

	_, err = ds.ReadBand(3)
	var re *RasterError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "3", re.Details["requested"])
	assert.Equal(t, "2", re.Details["available"])
}

func TestRasterDataset_CloseIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.tif")
	meta := RasterMetadata{Width: 1, Height: 1, BandCount: 1, PixelType: PixelUInt8, Transform: IdentityTransform}
	writeTestRaster(t, path, meta, NewBand(1, 1, PixelUInt8))

	ds, err := OpenRasterDataset(path)
	require.NoError(t, err)
	require.NoError(t, ds.Close())
	require.NoError(t, ds.Close())

	_, err = ds.ReadBand(1)
	assert.Error(t, err)
}
