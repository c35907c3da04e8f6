package kml

import (
	"strconv"
	"strings"

	"github.com/paulmach/orb"
)

// ParseCoordinates converts a KML coordinate string into an ordered sequence
// of lon/lat points. The input is whitespace-separated "lon,lat[,alt]" tuples;
// altitude is ignored. Tuples that are too short or fail to parse are skipped
// rather than aborting the whole sequence — the upstream export is not
// schema-validated and a single bad tuple should not cost the whole ring.
func ParseCoordinates(s string) []orb.Point {
	var points []orb.Point
	for _, tuple := range strings.Fields(s) {
		parts := strings.Split(tuple, ",")
		if len(parts) < 2 {
			continue
		}
		lon, errLon := strconv.ParseFloat(parts[0], 64)
		lat, errLat := strconv.ParseFloat(parts[1], 64)
		if errLon != nil || errLat != nil {
			continue
		}
		points = append(points, orb.Point{lon, lat})
	}
	return points
}
