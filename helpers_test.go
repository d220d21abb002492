package GeoIndex

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeTestRaster 写出测试用GeoTIFF
func writeTestRaster(t *testing.T, path string, meta RasterMetadata, bands ...*Band) {
	t.Helper()
	w, err := CreateGeoTiff(path, meta)
	require.NoError(t, err)
	defer w.Close()
	for i, b := range bands {
		require.NoError(t, w.WriteBand(i+1, b))
	}
	require.NoError(t, w.Commit())
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// dirEntries 目录下的文件名，用于检查临时文件是否残留
func dirEntries(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}
