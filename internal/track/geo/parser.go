package geo

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/tkrajina/gpxgo/gpx"
)

// Parse converts a raw GPX document into a GeoJSON FeatureCollection.
//
// Every track segment becomes one LineString feature whose coordinates are
// the ordered [longitude, latitude] pairs of the segment's points. Elevation
// and timestamps are dropped at this layer. Waypoint and route elements are
// not mapped; only tracks carry the recorded path.
func Parse(raw []byte) (*geojson.FeatureCollection, error) {
	data, err := gpx.ParseBytes(raw)
	if err != nil {
		return nil, err
	}

	fc := geojson.NewFeatureCollection()
	for _, trk := range data.Tracks {
		for _, seg := range trk.Segments {
			line := make(orb.LineString, 0, len(seg.Points))
			for _, pt := range seg.Points {
				line = append(line, orb.Point{pt.Longitude, pt.Latitude})
			}

			feature := geojson.NewFeature(line)
			if trk.Name != "" {
				feature.Properties["name"] = trk.Name
			}
			fc.Append(feature)
		}
	}

	return fc, nil
}
