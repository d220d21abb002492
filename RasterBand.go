// RasterBand.go
package GeoIndex

import (
	"fmt"
	"math"

	"github.com/airbusgeo/godal"
)

// PixelType 波段像素类型
type PixelType int

const (
	PixelUnknown PixelType = iota
	PixelUInt8
	PixelUInt16
	PixelInt16
	PixelUInt32
	PixelInt32
	PixelFloat32
	PixelFloat64
)

var pixelTypeNames = map[PixelType]string{
	PixelUInt8:   "Byte",
	PixelUInt16:  "UInt16",
	PixelInt16:   "Int16",
	PixelUInt32:  "UInt32",
	PixelInt32:   "Int32",
	PixelFloat32: "Float32",
	PixelFloat64: "Float64",
}

// String 返回GDAL类型名
func (pt PixelType) String() string {
	if name, ok := pixelTypeNames[pt]; ok {
		return name
	}
	return "Unknown"
}

// ParsePixelType 由GDAL类型名解析像素类型
func ParsePixelType(name string) (PixelType, error) {
	for pt, n := range pixelTypeNames {
		if n == name {
			return pt, nil
		}
	}
	return PixelUnknown, fmt.Errorf("unsupported pixel type: %q", name)
}

// Valid 是否为支持的像素类型
func (pt PixelType) Valid() bool {
	_, ok := pixelTypeNames[pt]
	return ok
}

func (pt PixelType) gdalType() godal.DataType {
	switch pt {
	case PixelUInt8:
		return godal.Byte
	case PixelUInt16:
		return godal.UInt16
	case PixelInt16:
		return godal.Int16
	case PixelUInt32:
		return godal.UInt32
	case PixelInt32:
		return godal.Int32
	case PixelFloat32:
		return godal.Float32
	case PixelFloat64:
		return godal.Float64
	default:
		return godal.Unknown
	}
}

func pixelTypeFromGDAL(dt godal.DataType) PixelType {
	switch dt {
	case godal.Byte:
		return PixelUInt8
	case godal.UInt16:
		return PixelUInt16
	case godal.Int16:
		return PixelInt16
	case godal.UInt32:
		return PixelUInt32
	case godal.Int32:
		return PixelInt32
	case godal.Float32:
		return PixelFloat32
	case godal.Float64:
		return PixelFloat64
	default:
		return PixelUnknown
	}
}

// ==================== 仿射变换 ====================

// GeoTransform 仿射变换参数，GDAL顺序:
// [0] 左上角X  [1] X方向像素大小  [2] 行旋转
// [3] 左上角Y  [4] 列旋转        [5] Y方向像素大小（北向上为负）
type GeoTransform [6]float64

// IdentityTransform 像素坐标系
var IdentityTransform = GeoTransform{0, 1, 0, 0, 0, 1}

// FromOrigin 以左上角和像素大小构造北向上的仿射变换
func FromOrigin(west, north, xSize, ySize float64) GeoTransform {
	return GeoTransform{west, xSize, 0, north, 0, -ySize}
}

// Apply 像素(col,row) -> 地理坐标(x,y)
func (gt GeoTransform) Apply(col, row float64) (x, y float64) {
	x = gt[0] + col*gt[1] + row*gt[2]
	y = gt[3] + col*gt[4] + row*gt[5]
	return
}

// Determinant 线性部分的行列式
func (gt GeoTransform) Determinant() float64 {
	return gt[1]*gt[5] - gt[2]*gt[4]
}

// IsInvertible 像素大小非退化
func (gt GeoTransform) IsInvertible() bool {
	for _, v := range gt {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	det := gt.Determinant()
	return det != 0 && !math.IsInf(det, 0)
}

// Invert 地理坐标(x,y) -> 像素(col,row)
func (gt GeoTransform) Invert(x, y float64) (col, row float64, err error) {
	if !gt.IsInvertible() {
		return 0, 0, fmt.Errorf("geotransform %v is not invertible", [6]float64(gt))
	}
	det := gt.Determinant()
	dx := x - gt[0]
	dy := y - gt[3]
	col = (gt[5]*dx - gt[2]*dy) / det
	row = (gt[1]*dy - gt[4]*dx) / det
	return col, row, nil
}

// ==================== 元数据 ====================

// RasterMetadata 栅格元数据
type RasterMetadata struct {
	Width     int
	Height    int
	BandCount int
	PixelType PixelType
	CRS       string // "EPSG:4326" 或 WKT，空表示无坐标系
	Transform GeoTransform
	NoData    *float64
}

// Validate 检查元数据自洽
func (m RasterMetadata) Validate() error {
	if m.Width <= 0 || m.Height <= 0 {
		return newRasterError(KindFormat, "validate", "", nil,
			"invalid raster size %dx%d", m.Width, m.Height)
	}
	if m.BandCount <= 0 {
		return newRasterError(KindFormat, "validate", "", nil,
			"invalid band count %d", m.BandCount)
	}
	if !m.PixelType.Valid() {
		return newRasterError(KindFormat, "validate", "", nil,
			"unsupported pixel type %d", int(m.PixelType))
	}
	if !m.Transform.IsInvertible() {
		return newRasterError(KindFormat, "validate", "", nil,
			"degenerate geotransform %v", [6]float64(m.Transform))
	}
	if m.NoData != nil && math.IsNaN(*m.NoData) {
		return newRasterError(KindFormat, "validate", "", nil, "nodata must not be NaN")
	}
	return nil
}

// Clone 深拷贝
func (m RasterMetadata) Clone() RasterMetadata {
	c := m
	if m.NoData != nil {
		v := *m.NoData
		c.NoData = &v
	}
	return c
}

// HasNoData 是否声明了NoData
func (m RasterMetadata) HasNoData() bool {
	return m.NoData != nil
}

// NoDataValue 返回NoData值
func (m RasterMetadata) NoDataValue() (float64, bool) {
	if m.NoData == nil {
		return 0, false
	}
	return *m.NoData, true
}

// Float64Ptr 辅助构造NoData
func Float64Ptr(v float64) *float64 {
	return &v
}

// ==================== 波段数据 ====================

// Band 单个波段的像素数据，按行存储，形状 (Height, Width)
type Band struct {
	Width     int
	Height    int
	PixelType PixelType
	Data      []float64
}

// NewBand 创建全零波段
func NewBand(width, height int, pt PixelType) *Band {
	return &Band{
		Width:     width,
		Height:    height,
		PixelType: pt,
		Data:      make([]float64, width*height),
	}
}

// NewFilledBand 创建常量波段
func NewFilledBand(width, height int, pt PixelType, value float64) *Band {
	b := NewBand(width, height, pt)
	for i := range b.Data {
		b.Data[i] = value
	}
	return b
}

// At 读取 (row, col) 像素
func (b *Band) At(row, col int) float64 {
	return b.Data[row*b.Width+col]
}

// Set 写入 (row, col) 像素
func (b *Band) Set(row, col int, v float64) {
	b.Data[row*b.Width+col] = v
}

// Shape 返回 (height, width)
func (b *Band) Shape() (int, int) {
	return b.Height, b.Width
}

// SameShape 形状是否一致
func (b *Band) SameShape(other *Band) bool {
	return b.Width == other.Width && b.Height == other.Height
}

func (b *Band) shapeString() string {
	return fmt.Sprintf("%dx%d", b.Height, b.Width)
}

// valid 数据长度与声明尺寸一致
func (b *Band) valid() bool {
	return b != nil && b.Width > 0 && b.Height > 0 && len(b.Data) == b.Width*b.Height
}
