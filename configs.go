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
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config 运行配置
type Config struct {
	RedBand int           `yaml:"red_band"`
	NIRBand int           `yaml:"nir_band"`
	Catalog CatalogConfig `yaml:"catalog"`
	Log     LogConfig     `yaml:"log"`
	Mock    MockOptions   `yaml:"mock"`
}

// CatalogConfig 任务记录库配置，Path为空时不记录
type CatalogConfig struct {
	Path string `yaml:"path"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// DefaultConfig 默认配置：红光=波段1，近红外=波段2
func DefaultConfig() Config {
	return Config{
		RedBand: 1,
		NIRBand: 2,
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Mock: DefaultMockOptions(),
	}
}

// LoadConfig 读取YAML配置，文件不存在时返回默认配置
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate 检查配置取值
func (c Config) Validate() error {
	if c.RedBand < 1 {
		return fmt.Errorf("red_band must be >= 1, got %d", c.RedBand)
	}
	if c.NIRBand < 1 {
		return fmt.Errorf("nir_band must be >= 1, got %d", c.NIRBand)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	if c.Mock.Bands < 0 || c.Mock.Width < 0 || c.Mock.Height < 0 {
		return fmt.Errorf("mock dimensions must not be negative")
	}
	return nil
}
