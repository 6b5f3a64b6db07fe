package geo

import (
	"testing"

	"github.com/paulmach/orb"
)

const twoSegmentGPX = `<?xml version="1.0" encoding="UTF-8"?>
<gpx version="1.1" creator="gpxshare-test">
  <trk>
    <name>hill loop</name>
    <trkseg>
      <trkpt lat="47.0" lon="9.0"><ele>600</ele></trkpt>
      <trkpt lat="47.1" lon="9.1"><ele>620</ele></trkpt>
      <trkpt lat="47.2" lon="9.2"><ele>640</ele></trkpt>
    </trkseg>
    <trkseg>
      <trkpt lat="47.3" lon="9.3"><ele>660</ele></trkpt>
      <trkpt lat="47.4" lon="9.4"><ele>680</ele></trkpt>
      <trkpt lat="47.5" lon="9.5"><ele>700</ele></trkpt>
    </trkseg>
  </trk>
</gpx>`

func TestParseTwoSegments(t *testing.T) {
	t.Parallel()

	fc, err := Parse([]byte(twoSegmentGPX))
	if err != nil {
		t.Fatalf("Parse() err = %v", err)
	}

	if len(fc.Features) != 2 {
		t.Fatalf("expected 2 features, got %d", len(fc.Features))
	}

	for i, feature := range fc.Features {
		line, ok := feature.Geometry.(orb.LineString)
		if !ok {
			t.Fatalf("feature %d geometry = %T, want LineString", i, feature.Geometry)
		}
		if len(line) != 3 {
			t.Fatalf("feature %d has %d points, want 3", i, len(line))
		}
		if got := feature.Properties["name"]; got != "hill loop" {
			t.Fatalf("feature %d name = %v", i, got)
		}
	}

	first := fc.Features[0].Geometry.(orb.LineString)[0]
	if first.Lon() != 9.0 || first.Lat() != 47.0 {
		t.Fatalf("expected [lon, lat] order, got [%v, %v]", first.Lon(), first.Lat())
	}
}

func TestParseInvalidXML(t *testing.T) {
	t.Parallel()

	if _, err := Parse([]byte("definitely not a gpx document")); err == nil {
		t.Fatal("expected error for invalid xml")
	}
}

func TestParseNoTracks(t *testing.T) {
	t.Parallel()

	doc := `<?xml version="1.0" encoding="UTF-8"?>
<gpx version="1.1" creator="gpxshare-test">
  <wpt lat="47.0" lon="9.0"><name>summit</name></wpt>
</gpx>`

	fc, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse() err = %v", err)
	}
	if len(fc.Features) != 0 {
		t.Fatalf("expected no features, got %d", len(fc.Features))
	}
}
