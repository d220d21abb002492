/*
Copyright (C) 2025 [GrainArc]

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU Affero General Public License as published
by the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU Affero General Public License for more details.

You should have received a copy of the GNU Affero General Public License
along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/
package GeoIndex

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
)

// IndexRequest 指数计算请求，波段号从1开始
type IndexRequest struct {
	InputPath  string
	OutputPath string
	RedBand    int
	NIRBand    int
}

// IndexReport 指数计算结果
type IndexReport struct {
	TaskID     string
	InputPath  string
	OutputPath string
	RedBand    int
	NIRBand    int
	Metadata   RasterMetadata // 输出栅格元数据
	Stats      IndexStatistics
	Footprint  orb.Bound
	Duration   time.Duration
}

// IndexRunner NDVI计算流程
type IndexRunner struct {
	logger  *slog.Logger
	catalog *Catalog
	open    func(path string) (BandSource, error)
}

// RunnerOption 流程选项
type RunnerOption func(*IndexRunner)

// WithLogger 设置日志
func WithLogger(logger *slog.Logger) RunnerOption {
	return func(r *IndexRunner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithCatalog 记录每次运行到任务库
func WithCatalog(catalog *Catalog) RunnerOption {
	return func(r *IndexRunner) {
		r.catalog = catalog
	}
}

// NewIndexRunner 创建流程
func NewIndexRunner(opts ...RunnerOption) *IndexRunner {
	r := &IndexRunner{
		logger: discardLogger(),
		open:   openBandSource,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func openBandSource(path string) (BandSource, error) {
	ds, err := OpenRasterDataset(path)
	if err != nil {
		return nil, err
	}
	return ds, nil
}

// RunIndexCalculation 读取输入影像的红光和近红外波段，计算NDVI并写出单波段GeoTIFF
func RunIndexCalculation(inputPath, outputPath string, redBand, nirBand int) (*IndexReport, error) {
	return NewIndexRunner().Run(IndexRequest{
		InputPath:  inputPath,
		OutputPath: outputPath,
		RedBand:    redBand,
		NIRBand:    nirBand,
	})
}

// Run 执行一次指数计算
func (r *IndexRunner) Run(req IndexRequest) (*IndexReport, error) {
	taskID := uuid.New().String()
	start := time.Now()
	log := r.logger.With("task_id", taskID)

	if r.catalog != nil {
		if _, err := r.catalog.Begin(taskID, req); err != nil {
			log.Warn("catalog begin failed", "error", err)
		}
	}

	report, err := r.run(log, req)
	if report != nil {
		report.TaskID = taskID
		report.Duration = time.Since(start)
	}

	if r.catalog != nil {
		if cerr := r.catalog.Finish(taskID, report, err); cerr != nil {
			log.Warn("catalog finish failed", "error", cerr)
		}
	}

	if err != nil {
		log.Debug("index calculation failed",
			"input", req.InputPath,
			"output", req.OutputPath,
			"kind", KindOf(err).String(),
			"error", err)
		return nil, err
	}

	log.Info("index calculation completed",
		"input", req.InputPath,
		"output", req.OutputPath,
		"red", req.RedBand,
		"nir", req.NIRBand,
		"min", report.Stats.Min,
		"max", report.Stats.Max,
		"mean", report.Stats.Mean,
		"duration", report.Duration)
	return report, nil
}

func (r *IndexRunner) run(log *slog.Logger, req IndexRequest) (*IndexReport, error) {
	src, err := r.open(req.InputPath)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	meta := src.Metadata()
	log.Debug("opened input", "path", req.InputPath,
		"width", meta.Width, "height", meta.Height, "bands", meta.BandCount, "crs", meta.CRS)

	if err := ValidateBands(src.GetBandCount(), req.RedBand, req.NIRBand); err != nil {
		if re, ok := err.(*RasterError); ok {
			re.Path = req.InputPath
		}
		return nil, err
	}

	red, err := src.ReadBand(req.RedBand)
	if err != nil {
		return nil, fmt.Errorf("read red band: %w", err)
	}
	nir, err := src.ReadBand(req.NIRBand)
	if err != nil {
		return nil, fmt.Errorf("read nir band: %w", err)
	}
	log.Debug("read bands", "red", req.RedBand, "nir", req.NIRBand)

	index, err := ComputeIndex(red, nir)
	if err != nil {
		return nil, err
	}
	stats := ComputeStatistics(index)
	log.Debug("computed index", "min", stats.Min, "max", stats.Max, "mean", stats.Mean)

	outMeta := DeriveOutputMetadata(meta)
	w, err := CreateGeoTiff(req.OutputPath, outMeta)
	if err != nil {
		return nil, err
	}
	defer w.Close()

	if err := w.WriteBand(1, index); err != nil {
		return nil, err
	}
	if err := w.Commit(); err != nil {
		return nil, err
	}
	log.Debug("wrote output", "path", req.OutputPath)

	return &IndexReport{
		InputPath:  req.InputPath,
		OutputPath: req.OutputPath,
		RedBand:    req.RedBand,
		NIRBand:    req.NIRBand,
		Metadata:   outMeta,
		Stats:      stats,
		Footprint:  FootprintBound(outMeta),
	}, nil
}
