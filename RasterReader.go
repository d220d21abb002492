// RasterReader.go
package GeoIndex

import (
	"fmt"
	"os"
	"strings"

	"github.com/airbusgeo/godal"
)

func init() {
	godal.RegisterAll()
}

// BandSource 可读取波段的数据源
type BandSource interface {
	GetBandCount() int
	Metadata() RasterMetadata
	ReadBand(index int) (*Band, error)
	Close() error
}

// RasterDataset 栅格数据集（只读）
type RasterDataset struct {
	dataset  *godal.Dataset
	filePath string
	meta     RasterMetadata
}

// OpenRasterDataset 打开栅格数据集
// imagePath: 影像文件路径
func OpenRasterDataset(imagePath string) (*RasterDataset, error) {
	info, err := os.Stat(imagePath)
	if err != nil {
		return nil, newRasterError(KindNotFound, "open", imagePath, err, "input raster not found")
	}
	if info.IsDir() {
		return nil, newRasterError(KindNotFound, "open", imagePath, nil, "input path is a directory")
	}
	f, err := os.Open(imagePath)
	if err != nil {
		return nil, newRasterError(KindNotFound, "open", imagePath, err, "input raster is not readable")
	}
	f.Close()

	// 仅接受GeoTIFF
	dataset, err := godal.Open(imagePath, godal.RasterOnly(), godal.Drivers(string(godal.GTiff)))
	if err != nil {
		return nil, newRasterError(KindFormat, "open", imagePath, err, "not a GeoTIFF raster")
	}

	meta, err := readMetadata(dataset)
	if err != nil {
		dataset.Close()
		if re, ok := err.(*RasterError); ok {
			re.Path = imagePath
			return nil, re
		}
		return nil, err
	}

	return &RasterDataset{
		dataset:  dataset,
		filePath: imagePath,
		meta:     meta,
	}, nil
}

// readMetadata 读取尺寸、类型、坐标系、仿射变换和NoData
func readMetadata(ds *godal.Dataset) (RasterMetadata, error) {
	structure := ds.Structure()
	if structure.NBands <= 0 {
		return RasterMetadata{}, newRasterError(KindFormat, "open", "", nil, "raster has no bands")
	}
	if structure.SizeX <= 0 || structure.SizeY <= 0 {
		return RasterMetadata{}, newRasterError(KindFormat, "open", "", nil,
			"invalid raster size %dx%d", structure.SizeX, structure.SizeY)
	}

	bands := ds.Bands()
	if len(bands) != structure.NBands {
		return RasterMetadata{}, newRasterError(KindFormat, "open", "", nil,
			"band count mismatch: structure reports %d, found %d", structure.NBands, len(bands))
	}

	pt := pixelTypeFromGDAL(bands[0].Structure().DataType)
	if pt == PixelUnknown {
		return RasterMetadata{}, newRasterError(KindFormat, "open", "", nil,
			"unsupported pixel type %s", bands[0].Structure().DataType.String())
	}

	// 没有地理变换时使用像素坐标系
	transform := IdentityTransform
	if gt, err := ds.GeoTransform(); err == nil {
		transform = GeoTransform(gt)
	}

	crs, err := crsFromDataset(ds)
	if err != nil {
		return RasterMetadata{}, newRasterError(KindFormat, "open", "", err, "cannot read coordinate reference")
	}

	meta := RasterMetadata{
		Width:     structure.SizeX,
		Height:    structure.SizeY,
		BandCount: structure.NBands,
		PixelType: pt,
		CRS:       crs,
		Transform: transform,
	}
	if nd, ok := bands[0].NoData(); ok {
		meta.NoData = Float64Ptr(nd)
	}
	return meta, nil
}

// crsFromDataset 有EPSG编码时返回 "EPSG:xxxx"，否则返回WKT
func crsFromDataset(ds *godal.Dataset) (string, error) {
	if ds.Projection() == "" {
		return "", nil
	}
	sr := ds.SpatialRef()
	defer sr.Close()

	name := sr.AuthorityName("")
	code := sr.AuthorityCode("")
	if strings.EqualFold(name, "EPSG") && code != "" {
		return "EPSG:" + code, nil
	}
	return sr.WKT()
}

// spatialRefFromCRS 由 "EPSG:xxxx" 或 WKT 构造空间参考
func spatialRefFromCRS(crs string) (*godal.SpatialRef, error) {
	upper := strings.ToUpper(strings.TrimSpace(crs))
	if strings.HasPrefix(upper, "EPSG:") {
		var code int
		if _, err := fmt.Sscanf(upper, "EPSG:%d", &code); err != nil {
			return nil, fmt.Errorf("invalid EPSG code %q: %w", crs, err)
		}
		return godal.NewSpatialRefFromEPSG(code)
	}
	return godal.NewSpatialRefFromWKT(crs)
}

// Close 关闭数据集
func (rd *RasterDataset) Close() error {
	if rd.dataset == nil {
		return nil
	}
	err := rd.dataset.Close()
	rd.dataset = nil
	return err
}

// GetBandCount 获取波段数量
func (rd *RasterDataset) GetBandCount() int {
	return rd.meta.BandCount
}

// Metadata 获取元数据副本
func (rd *RasterDataset) Metadata() RasterMetadata {
	return rd.meta.Clone()
}

// Path 文件路径
func (rd *RasterDataset) Path() string {
	return rd.filePath
}

// ReadBand 读取整个波段（波段号从1开始）
func (rd *RasterDataset) ReadBand(bandIndex int) (*Band, error) {
	if bandIndex < 1 || bandIndex > rd.meta.BandCount {
		return nil, newRasterError(KindInvalidBand, "read_band", rd.filePath, nil,
			"band %d requested, raster has %d bands", bandIndex, rd.meta.BandCount).
			WithDetail("requested", fmt.Sprint(bandIndex)).
			WithDetail("available", fmt.Sprint(rd.meta.BandCount))
	}
	if rd.dataset == nil {
		return nil, fmt.Errorf("read band %d of %s: dataset is closed", bandIndex, rd.filePath)
	}

	band := rd.dataset.Bands()[bandIndex-1]
	bs := band.Structure()
	if bs.SizeX != rd.meta.Width || bs.SizeY != rd.meta.Height {
		return nil, newRasterError(KindShapeMismatch, "read_band", rd.filePath, nil,
			"band %d is %dx%d, raster is %dx%d", bandIndex, bs.SizeY, bs.SizeX, rd.meta.Height, rd.meta.Width)
	}

	out := NewBand(rd.meta.Width, rd.meta.Height, pixelTypeFromGDAL(bs.DataType))
	if err := band.Read(0, 0, out.Data, rd.meta.Width, rd.meta.Height); err != nil {
		return nil, newRasterError(KindFormat, "read_band", rd.filePath, err, "failed to read band %d", bandIndex)
	}
	return out, nil
}
