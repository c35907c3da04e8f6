package parcels

import "github.com/paulmach/orb"

// Center computes the representative point used for map navigation: a point
// is its own center; polygons average the outer ring's coordinates; a
// multipolygon averages across all of its outer rings. The mean is not
// area-weighted — panning a map does not need a true centroid. Returns false
// for other geometry kinds and for degenerate (empty-ring) geometries.
func Center(g orb.Geometry) (orb.Point, bool) {
	switch geom := g.(type) {
	case orb.Point:
		return geom, true
	case orb.Polygon:
		if len(geom) == 0 {
			return orb.Point{}, false
		}
		return mean(geom[0])
	case orb.MultiPolygon:
		var points []orb.Point
		for _, poly := range geom {
			if len(poly) > 0 {
				points = append(points, poly[0]...)
			}
		}
		return mean(points)
	default:
		return orb.Point{}, false
	}
}

func mean(points []orb.Point) (orb.Point, bool) {
	if len(points) == 0 {
		return orb.Point{}, false
	}
	var lon, lat float64
	for _, p := range points {
		lon += p.Lon()
		lat += p.Lat()
	}
	n := float64(len(points))
	return orb.Point{lon / n, lat / n}, true
}
