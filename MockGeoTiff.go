package GeoIndex

import (
	"fmt"
	"math/rand"
	"time"
)

// 模拟影像的地理参考：WGS84，左上角(140, -35)，像素0.01度
const (
	MockCRS       = "EPSG:4326"
	mockWest      = 140.0
	mockNorth     = -35.0
	mockPixelSize = 0.01
)

// MockOptions 模拟多波段影像参数
type MockOptions struct {
	Bands  int   `yaml:"bands"`
	Width  int   `yaml:"width"`
	Height int   `yaml:"height"`
	Seed   int64 `yaml:"seed"` // 0 表示按时间取随机种子
}

// DefaultMockOptions 默认5波段 256x256
func DefaultMockOptions() MockOptions {
	return MockOptions{Bands: 5, Width: 256, Height: 256}
}

func (o MockOptions) withDefaults() MockOptions {
	d := DefaultMockOptions()
	if o.Bands <= 0 {
		o.Bands = d.Bands
	}
	if o.Width <= 0 {
		o.Width = d.Width
	}
	if o.Height <= 0 {
		o.Height = d.Height
	}
	if o.Seed == 0 {
		o.Seed = time.Now().UnixNano()
	}
	return o
}

// MockMetadata 模拟影像的元数据
func MockMetadata(opts MockOptions) RasterMetadata {
	opts = opts.withDefaults()
	return RasterMetadata{
		Width:     opts.Width,
		Height:    opts.Height,
		BandCount: opts.Bands,
		PixelType: PixelUInt16,
		CRS:       MockCRS,
		Transform: FromOrigin(mockWest, mockNorth, mockPixelSize, mockPixelSize),
	}
}

// InVegetatedArea 像素是否位于模拟植被圆内
// 圆心 (width/2, height/2)，半径 min(width,height)/3
func InVegetatedArea(width, height, row, col int) bool {
	cx, cy := width/2, height/2
	radius := width
	if height < radius {
		radius = height
	}
	radius /= 3
	dx, dy := col-cx, row-cy
	return dx*dx+dy*dy <= radius*radius
}

// GenerateMockBands 生成模拟波段数据：[100, 4000) 均匀随机，
// 植被圆内波段2增加2500，波段1减半
func GenerateMockBands(opts MockOptions) []*Band {
	opts = opts.withDefaults()
	rng := rand.New(rand.NewSource(opts.Seed))

	bands := make([]*Band, opts.Bands)
	for b := range bands {
		band := NewBand(opts.Width, opts.Height, PixelUInt16)
		for i := range band.Data {
			band.Data[i] = float64(100 + rng.Intn(3900))
		}
		bands[b] = band
	}

	for row := 0; row < opts.Height; row++ {
		for col := 0; col < opts.Width; col++ {
			if !InVegetatedArea(opts.Width, opts.Height, row, col) {
				continue
			}
			if opts.Bands >= 2 {
				bands[1].Set(row, col, bands[1].At(row, col)+2500)
			}
			bands[0].Set(row, col, float64(uint16(bands[0].At(row, col))/2))
		}
	}
	return bands
}

// GenerateMockGeoTiff 生成用于测试的多波段GeoTIFF
// 对该文件使用 红光=波段1，近红外=波段2
func GenerateMockGeoTiff(path string, opts MockOptions) error {
	opts = opts.withDefaults()
	meta := MockMetadata(opts)

	w, err := CreateGeoTiff(path, meta)
	if err != nil {
		return fmt.Errorf("create mock raster: %w", err)
	}
	defer w.Close()

	for i, band := range GenerateMockBands(opts) {
		if err := w.WriteBand(i+1, band); err != nil {
			return fmt.Errorf("write mock band %d: %w", i+1, err)
		}
	}
	return w.Commit()
}
