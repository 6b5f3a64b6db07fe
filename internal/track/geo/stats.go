package geo

import (
	"math"
	"strconv"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/D-Elbel/gpxshare/internal/track/entity"
)

// earthRadiusKm is the mean radius of the Earth in kilometers.
const earthRadiusKm = 6371.0

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// haversineKm returns the great-circle distance between two [lon, lat]
// points in kilometers.
func haversineKm(p1, p2 orb.Point) float64 {
	lat1 := toRadians(p1.Lat())
	lon1 := toRadians(p1.Lon())
	lat2 := toRadians(p2.Lat())
	lon2 := toRadians(p2.Lon())

	dLat := lat2 - lat1
	dLon := lon2 - lon1

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// ComputeStats totals the great-circle path length of every LineString
// feature in the collection. Features with other geometry types do not
// contribute. A collection with no LineString features yields "0.00".
func ComputeStats(fc *geojson.FeatureCollection) entity.TrackStats {
	total := 0.0

	for _, feature := range fc.Features {
		if feature == nil {
			continue
		}

		line, ok := feature.Geometry.(orb.LineString)
		if !ok {
			continue
		}

		for i := 1; i < len(line); i++ {
			total += haversineKm(line[i-1], line[i])
		}
	}

	return entity.TrackStats{
		TotalDistanceKm: strconv.FormatFloat(total, 'f', 2, 64),
	}
}
