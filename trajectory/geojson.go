package trajectory

import (
	"fmt"

	"github.com/paulmach/orb/geojson"
)

// Encode converts rendered features into a GeoJSON feature collection.
// Every feature carries its kind, its style and the kind-specific
// properties: label and latest for points, rotation for arrows.
func (s Styles) Encode(features []Feature) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	counts := map[Kind]int{}
	for _, f := range features {
		gf := geojson.NewFeature(f.Geometry())
		gf.ID = fmt.Sprintf("%s-%d", f.Kind(), counts[f.Kind()])
		counts[f.Kind()]++

		gf.Properties["kind"] = f.Kind().String()
		gf.Properties["style"] = s.For(f)
		gf.Properties["zIndex"] = s.ZIndex
		switch f := f.(type) {
		case PointFeature:
			gf.Properties["label"] = f.Label
			gf.Properties["latest"] = f.Latest
		case ArrowFeature:
			gf.Properties["rotation"] = f.Rotation
		}
		fc.Append(gf)
	}
	return fc
}

// FeatureCollection encodes the whole path with s.
func (p Path) FeatureCollection(s Styles) *geojson.FeatureCollection {
	return s.Encode(p.Features())
}

// EncodePoints encodes the point features of every trajectory in m, in
// vehicle id order, tagging each feature with its vehicle id. Each
// vehicle's newest point is flagged latest.
func (s Styles) EncodePoints(m Map) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, id := range m.VehicleIDs() {
		var features []Feature
		for _, p := range RenderPoints(m[id]) {
			features = append(features, p)
		}
		for _, gf := range s.Encode(features).Features {
			gf.ID = fmt.Sprintf("%s/%v", id, gf.ID)
			gf.Properties["vehicle"] = id
			fc.Append(gf)
		}
	}
	return fc
}
