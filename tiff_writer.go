// GeoIndex/tiff_writer.go
package GeoIndex

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/airbusgeo/godal"
	"github.com/google/uuid"
)

// GeoTiffWriter GeoTIFF写入器
// 数据先写入同目录下的临时文件，Commit 成功后才重命名为目标文件
type GeoTiffWriter struct {
	dataset   *godal.Dataset
	path      string
	tmpPath   string
	meta      RasterMetadata
	written   []bool
	failed    error
	committed bool
	closed    bool
}

// CreateGeoTiff 创建GeoTIFF写入器
func CreateGeoTiff(path string, meta RasterMetadata) (*GeoTiffWriter, error) {
	if err := meta.Validate(); err != nil {
		if re, ok := err.(*RasterError); ok {
			re.Op = "create"
			re.Path = path
		}
		return nil, err
	}

	dir := filepath.Dir(path)
	info, err := os.Stat(dir)
	if err != nil {
		return nil, newRasterError(KindNotFound, "create", path, err, "output directory %s does not exist", dir)
	}
	if !info.IsDir() {
		return nil, newRasterError(KindNotFound, "create", path, nil, "output directory %s is not a directory", dir)
	}
	if existing, err := os.Stat(path); err == nil && existing.IsDir() {
		return nil, fmt.Errorf("create %s: output path is a directory", path)
	}
	tmpPath := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", filepath.Base(path), uuid.New().String()))

	dataset, err := godal.Create(godal.GTiff, tmpPath, meta.BandCount, meta.PixelType.gdalType(),
		meta.Width, meta.Height, godal.CreationOption("COMPRESS=LZW", "TILED=YES"))
	if err != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("create %s: %w", path, err)
	}

	w := &GeoTiffWriter{
		dataset: dataset,
		path:    path,
		tmpPath: tmpPath,
		meta:    meta.Clone(),
		written: make([]bool, meta.BandCount),
	}

	if err := w.writeGeoreference(); err != nil {
		w.Close()
		return nil, fmt.Errorf("create %s: %w", path, err)
	}

	// 创建即截断：Commit 之前目标路径上没有文件
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		w.Close()
		return nil, fmt.Errorf("create %s: remove existing file: %w", path, err)
	}
	return w, nil
}

// writeGeoreference 设置地理变换、投影和NoData
func (w *GeoTiffWriter) writeGeoreference() error {
	if err := w.dataset.SetGeoTransform([6]float64(w.meta.Transform)); err != nil {
		return fmt.Errorf("set geotransform: %w", err)
	}

	if w.meta.CRS != "" {
		sr, err := spatialRefFromCRS(w.meta.CRS)
		if err != nil {
			return newRasterError(KindFormat, "create", w.path, err, "invalid coordinate reference %q", w.meta.CRS)
		}
		defer sr.Close()
		if err := w.dataset.SetSpatialRef(sr); err != nil {
			return fmt.Errorf("set spatial reference: %w", err)
		}
	}

	if nd, ok := w.meta.NoDataValue(); ok {
		for i, band := range w.dataset.Bands() {
			if err := band.SetNoData(nd); err != nil {
				return fmt.Errorf("set nodata on band %d: %w", i+1, err)
			}
		}
	}
	return nil
}

// Metadata 写入器声明的元数据
func (w *GeoTiffWriter) Metadata() RasterMetadata {
	return w.meta.Clone()
}

// WriteBand 写入整个波段（波段号从1开始）
func (w *GeoTiffWriter) WriteBand(bandIndex int, band *Band) error {
	if w.closed || w.committed {
		return fmt.Errorf("write band %d to %s: writer is closed", bandIndex, w.path)
	}
	if w.failed != nil {
		return fmt.Errorf("write band %d to %s: writer failed earlier: %w", bandIndex, w.path, w.failed)
	}

	err := w.writeBand(bandIndex, band)
	if err != nil {
		w.failed = err
	}
	return err
}

func (w *GeoTiffWriter) writeBand(bandIndex int, band *Band) error {
	if bandIndex < 1 || bandIndex > w.meta.BandCount {
		return newRasterError(KindInvalidBand, "write_band", w.path, nil,
			"band %d requested, destination has %d bands", bandIndex, w.meta.BandCount)
	}
	if band == nil {
		return newRasterError(KindShapeMismatch, "write_band", w.path, nil, "nil band")
	}
	if band.Width != w.meta.Width || band.Height != w.meta.Height {
		return newRasterError(KindShapeMismatch, "write_band", w.path, nil,
			"band is %s, destination is %dx%d", band.shapeString(), w.meta.Height, w.meta.Width)
	}
	if len(band.Data) != band.Width*band.Height {
		return newRasterError(KindShapeMismatch, "write_band", w.path, nil,
			"band holds %d samples, expected %d", len(band.Data), band.Width*band.Height)
	}

	dst := w.dataset.Bands()[bandIndex-1]
	var err error
	if w.meta.PixelType == PixelFloat32 {
		buf := make([]float32, len(band.Data))
		for i, v := range band.Data {
			buf[i] = float32(v)
		}
		err = dst.Write(0, 0, buf, band.Width, band.Height)
	} else {
		err = dst.Write(0, 0, band.Data, band.Width, band.Height)
	}
	if err != nil {
		return fmt.Errorf("write band %d to %s: %w", bandIndex, w.path, err)
	}
	w.written[bandIndex-1] = true
	return nil
}

// Commit 刷新并关闭数据集，将临时文件替换为目标文件
func (w *GeoTiffWriter) Commit() error {
	if w.committed {
		return nil
	}
	if w.closed {
		return fmt.Errorf("commit %s: writer is closed", w.path)
	}
	if w.failed != nil {
		return fmt.Errorf("commit %s: %w", w.path, w.failed)
	}
	for i, ok := range w.written {
		if !ok {
			return fmt.Errorf("commit %s: band %d was never written", w.path, i+1)
		}
	}

	err := w.dataset.Close()
	w.dataset = nil
	if err != nil {
		w.discard()
		return fmt.Errorf("commit %s: flush: %w", w.path, err)
	}
	if err := os.Rename(w.tmpPath, w.path); err != nil {
		w.discard()
		return fmt.Errorf("commit %s: %w", w.path, err)
	}
	w.committed = true
	w.closed = true
	return nil
}

// Close 释放资源，未提交时删除临时文件
func (w *GeoTiffWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	var err error
	if w.dataset != nil {
		err = w.dataset.Close()
		w.dataset = nil
	}
	if rmErr := w.discard(); rmErr != nil {
		err = errors.Join(err, rmErr)
	}
	return err
}

func (w *GeoTiffWriter) discard() error {
	w.closed = true
	if err := os.Remove(w.tmpPath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
