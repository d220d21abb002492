package GeoIndex

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Footprint 栅格四角经仿射变换后的外轮廓（闭合环，左上→右上→右下→左下）
func Footprint(meta RasterMetadata) orb.Polygon {
	w := float64(meta.Width)
	h := float64(meta.Height)
	corners := [][2]float64{{0, 0}, {w, 0}, {w, h}, {0, h}, {0, 0}}

	ring := make(orb.Ring, 0, len(corners))
	for _, c := range corners {
		x, y := meta.Transform.Apply(c[0], c[1])
		ring = append(ring, orb.Point{x, y})
	}
	return orb.Polygon{ring}
}

// FootprintBound 外接矩形
func FootprintBound(meta RasterMetadata) orb.Bound {
	return Footprint(meta).Bound()
}

// FootprintGeoJSON 以GeoJSON Feature输出外轮廓
func FootprintGeoJSON(meta RasterMetadata) ([]byte, error) {
	feature := geojson.NewFeature(Footprint(meta))
	feature.Properties["crs"] = meta.CRS
	feature.Properties["width"] = meta.Width
	feature.Properties["height"] = meta.Height
	return feature.MarshalJSON()
}
