package parcels

import (
	"strings"

	"github.com/paulmach/orb/geojson"
)

// idKeys are the property names the various upstream exports have used to
// carry a parcel identifier.
var idKeys = []string{"MAP_LOT", "PARCEL_ID", "name", "Map_Lot"}

// searchKeys are the properties scanned by substring search.
var searchKeys = []string{"Owner", "MapLot", "name", "Street", "Account"}

const (
	maxSearchResults = 20
	minQueryLength   = 2
)

// SearchResult is one row returned by parcel search. Center is [lon, lat],
// or null when the geometry has no navigable center.
type SearchResult struct {
	ID      string    `json:"id"`
	Owner   string    `json:"owner"`
	Address string    `json:"address"`
	Acreage string    `json:"acreage"`
	Center  []float64 `json:"center"`
}

// FindByID returns the first feature whose id-like properties match id, or
// nil when no parcel matches.
func FindByID(fc *geojson.FeatureCollection, id string) *geojson.Feature {
	for _, f := range fc.Features {
		for _, key := range idKeys {
			if value, ok := propString(f, key); ok && value == id {
				return f
			}
		}
	}
	return nil
}

// Search scans the collection for parcels whose owner, map/lot, name, street,
// or account contains the query, case-insensitively. Queries shorter than two
// characters return no results; at most 20 matches are returned, in document
// order.
func Search(fc *geojson.FeatureCollection, query string) []SearchResult {
	results := []SearchResult{}
	query = strings.ToLower(query)
	if len(query) < minQueryLength {
		return results
	}

	for _, f := range fc.Features {
		var fields []string
		for _, key := range searchKeys {
			value, _ := propString(f, key)
			fields = append(fields, value)
		}
		searchable := strings.ToLower(strings.Join(fields, " "))
		if !strings.Contains(searchable, query) {
			continue
		}

		results = append(results, buildResult(f))
		if len(results) >= maxSearchResults {
			break
		}
	}
	return results
}

func buildResult(f *geojson.Feature) SearchResult {
	id, _ := propString(f, "MapLot")
	if id == "" {
		id, _ = propString(f, "name")
	}
	if id == "" {
		id = "Unknown"
	}

	owner, ok := propString(f, "Owner")
	if !ok {
		owner = "Unknown"
	}

	stNumber, _ := propString(f, "StNumber")
	street, _ := propString(f, "Street")
	address := street
	if stNumber != "0" {
		address = strings.TrimSpace(stNumber + " " + street)
	}

	acreage, _ := propString(f, "Acres")

	var center []float64
	if p, ok := Center(f.Geometry); ok {
		center = []float64{p.Lon(), p.Lat()}
	}

	return SearchResult{
		ID:      id,
		Owner:   owner,
		Address: address,
		Acreage: acreage,
		Center:  center,
	}
}

// propString returns a string-valued property and whether the key was present.
func propString(f *geojson.Feature, key string) (string, bool) {
	if value, ok := f.Properties[key]; ok {
		if s, ok := value.(string); ok {
			return s, true
		}
	}
	return "", false
}
