// RasterBandCalculator.go
package GeoIndex

import (
	"fmt"
	"math"
)

// IndexNoData 输出指数栅格声明的NoData值，仅作为元数据，不写入像素
const IndexNoData = -9999.0

// ValidateBands 检查红光和近红外波段号
// 两个波段号相同不视为错误
func ValidateBands(bandCount, redIndex, nirIndex int) error {
	if redIndex >= 1 && redIndex <= bandCount && nirIndex >= 1 && nirIndex <= bandCount {
		return nil
	}
	return newRasterError(KindInvalidBand, "validate_bands", "", nil,
		"invalid band numbers: raster has %d bands, but red band %d and NIR band %d were requested",
		bandCount, redIndex, nirIndex).
		WithDetail("available", fmt.Sprint(bandCount)).
		WithDetail("red", fmt.Sprint(redIndex)).
		WithDetail("nir", fmt.Sprint(nirIndex))
}

// NormalizedDifference 单像素归一化差值 (a - b) / (a + b)
// 分母为0或结果非有限值时返回0，结果截断到 [-1, 1]
func NormalizedDifference(a, b float64) float64 {
	sum := a + b
	if sum == 0 {
		return 0
	}
	v := (a - b) / sum
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}

// ComputeIndex 计算归一化植被指数
// NDVI = (NIR - Red) / (NIR + Red)
func ComputeIndex(red, nir *Band) (*Band, error) {
	if red == nil || nir == nil {
		return nil, newRasterError(KindShapeMismatch, "compute_index", "", nil, "missing input band")
	}
	if !red.SameShape(nir) {
		return nil, newRasterError(KindShapeMismatch, "compute_index", "", nil,
			"red band is %s but NIR band is %s", red.shapeString(), nir.shapeString())
	}
	if len(red.Data) != len(nir.Data) || !red.valid() {
		return nil, newRasterError(KindShapeMismatch, "compute_index", "", nil,
			"red band holds %d samples, NIR band holds %d, expected %d",
			len(red.Data), len(nir.Data), red.Width*red.Height)
	}

	result := NewBand(red.Width, red.Height, PixelFloat32)
	for i := 0; i < len(result.Data); i++ {
		result.Data[i] = NormalizedDifference(nir.Data[i], red.Data[i])
	}
	return result, nil
}

// DeriveOutputMetadata 由源元数据派生输出元数据
// 复制尺寸、坐标系和仿射变换；单波段、Float32、NoData=-9999
func DeriveOutputMetadata(src RasterMetadata) RasterMetadata {
	return RasterMetadata{
		Width:     src.Width,
		Height:    src.Height,
		BandCount: 1,
		PixelType: PixelFloat32,
		CRS:       src.CRS,
		Transform: src.Transform,
		NoData:    Float64Ptr(IndexNoData),
	}
}

// IndexStatistics 指数统计
type IndexStatistics struct {
	Min        float64
	Max        float64
	Mean       float64
	ZeroCount  int
	PixelCount int
}

// ComputeStatistics 统计指数范围
func ComputeStatistics(band *Band) IndexStatistics {
	stats := IndexStatistics{}
	if band == nil || len(band.Data) == 0 {
		return stats
	}
	stats.Min = math.Inf(1)
	stats.Max = math.Inf(-1)
	sum := 0.0
	for _, v := range band.Data {
		if v < stats.Min {
			stats.Min = v
		}
		if v > stats.Max {
			stats.Max = v
		}
		if v == 0 {
			stats.ZeroCount++
		}
		sum += v
	}
	stats.PixelCount = len(band.Data)
	stats.Mean = sum / float64(stats.PixelCount)
	return stats
}
