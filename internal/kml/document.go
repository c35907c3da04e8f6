package kml

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Namespace is the KML 2.2 XML namespace used by the export.
const Namespace = "http://www.opengis.net/kml/2.2"

// XML shapes for a single placemark. Geometry containers are matched both as
// direct children and nested inside MultiGeometry, mirroring the descendant
// lookups the export's structure requires.
type placemark struct {
	Name          string         `xml:"name"`
	Description   string         `xml:"description"`
	ExtendedData  *extendedData  `xml:"ExtendedData"`
	Polygon       *polygonElem   `xml:"Polygon"`
	Point         *pointElem     `xml:"Point"`
	LineString    *lineElem      `xml:"LineString"`
	MultiGeometry *multiGeometry `xml:"MultiGeometry"`
}

type polygonElem struct {
	OuterCoordinates string `xml:"outerBoundaryIs>LinearRing>coordinates"`
}

type pointElem struct {
	Coordinates string `xml:"coordinates"`
}

type lineElem struct {
	Coordinates string `xml:"coordinates"`
}

type multiGeometry struct {
	Polygons []polygonElem `xml:"Polygon"`
	Points   []pointElem   `xml:"Point"`
	Lines    []lineElem    `xml:"LineString"`
}

type extendedData struct {
	Data       []dataElem       `xml:"Data"`
	SimpleData []simpleDataElem `xml:"SchemaData>SimpleData"`
}

type dataElem struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value"`
}

type simpleDataElem struct {
	Name  string `xml:"name,attr"`
	Value string `xml:",chardata"`
}

// ParseDocument parses one KML document and returns the features built from
// its placemarks, in document order. Folder and Document wrappers are
// transparent: placemarks are collected at any nesting depth. A
// well-formedness error means the document contributes nothing.
func ParseDocument(data []byte) ([]*geojson.Feature, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))

	var features []*geojson.Feature
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return features, nil
		}
		if err != nil {
			return nil, fmt.Errorf("parse kml document: %w", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "Placemark" || start.Name.Space != Namespace {
			continue
		}
		var pm placemark
		if err := dec.DecodeElement(&pm, &start); err != nil {
			return nil, fmt.Errorf("parse placemark: %w", err)
		}
		if f := buildFeature(&pm); f != nil {
			features = append(features, f)
		}
	}
}

// buildFeature assembles one placemark into a canonical feature, or returns
// nil when the placemark is cartographic noise rather than a parcel.
func buildFeature(pm *placemark) *geojson.Feature {
	props := geojson.Properties{}

	// The placemark name is the map/lot number in this export.
	if pm.Name != "" {
		props["name"] = pm.Name
		props["MapLot"] = pm.Name
	}

	if pm.Description != "" {
		attrs, ownerHeader := ParseDescription(pm.Description)
		for key, value := range NormalizeKeys(attrs, ownerHeader) {
			props[key] = value
		}
	}

	// ExtendedData keys are already close to canonical in the source
	// documents, so they are copied verbatim, no alias mapping.
	if pm.ExtendedData != nil {
		for _, d := range pm.ExtendedData.Data {
			if d.Name != "" {
				props[d.Name] = d.Value
			}
		}
		for _, d := range pm.ExtendedData.SimpleData {
			if d.Name != "" && d.Value != "" {
				props[d.Name] = d.Value
			}
		}
	}

	if propString(props, "name") == "" {
		if mapLot := propString(props, "MapLot"); mapLot != "" {
			props["name"] = mapLot
		}
	}

	geometry := extractGeometry(pm)
	if geometry == nil {
		return nil
	}

	// Unlabeled features are right-of-way strips and unmapped areas, not
	// parcels; they pollute the raw export and are dropped here.
	name := strings.TrimSpace(propString(props, "name"))
	owner := strings.TrimSpace(propString(props, "Owner"))
	if name == "" && owner == "" {
		return nil
	}
	switch name {
	case "", " ", "UNK", "ROW":
		return nil
	}

	f := geojson.NewFeature(geometry)
	f.Properties = props
	return f
}

// extractGeometry runs the four geometry checks unconditionally, in the order
// Polygon, Point, LineString, MultiGeometry. A later match overwrites an
// earlier one; an empty MultiGeometry does not. This matches the observed
// precedence in the upstream dataset.
func extractGeometry(pm *placemark) orb.Geometry {
	var geometry orb.Geometry

	if poly := firstPolygon(pm); poly != nil && poly.OuterCoordinates != "" {
		geometry = orb.Polygon{orb.Ring(ParseCoordinates(poly.OuterCoordinates))}
	}

	if pt := firstPoint(pm); pt != nil && pt.Coordinates != "" {
		if p, ok := parsePointCoordinates(pt.Coordinates); ok {
			geometry = p
		}
	}

	if line := firstLine(pm); line != nil && line.Coordinates != "" {
		geometry = orb.LineString(ParseCoordinates(line.Coordinates))
	}

	if pm.MultiGeometry != nil {
		var polygons orb.MultiPolygon
		for _, poly := range pm.MultiGeometry.Polygons {
			if poly.OuterCoordinates != "" {
				polygons = append(polygons, orb.Polygon{orb.Ring(ParseCoordinates(poly.OuterCoordinates))})
			}
		}
		switch len(polygons) {
		case 0:
			// Leave whatever an earlier check produced.
		case 1:
			geometry = polygons[0]
		default:
			geometry = polygons
		}
	}

	return geometry
}

// parsePointCoordinates parses a single "lon,lat[,alt]" tuple. A malformed
// tuple yields no geometry rather than an error; the feature is then dropped
// by the geometry-presence filter.
func parsePointCoordinates(s string) (orb.Point, bool) {
	parts := strings.Split(strings.TrimSpace(s), ",")
	if len(parts) < 2 {
		return orb.Point{}, false
	}
	lon, errLon := strconv.ParseFloat(parts[0], 64)
	lat, errLat := strconv.ParseFloat(parts[1], 64)
	if errLon != nil || errLat != nil {
		return orb.Point{}, false
	}
	return orb.Point{lon, lat}, true
}

func firstPolygon(pm *placemark) *polygonElem {
	if pm.Polygon != nil {
		return pm.Polygon
	}
	if pm.MultiGeometry != nil && len(pm.MultiGeometry.Polygons) > 0 {
		return &pm.MultiGeometry.Polygons[0]
	}
	return nil
}

func firstPoint(pm *placemark) *pointElem {
	if pm.Point != nil {
		return pm.Point
	}
	if pm.MultiGeometry != nil && len(pm.MultiGeometry.Points) > 0 {
		return &pm.MultiGeometry.Points[0]
	}
	return nil
}

func firstLine(pm *placemark) *lineElem {
	if pm.LineString != nil {
		return pm.LineString
	}
	if pm.MultiGeometry != nil && len(pm.MultiGeometry.Lines) > 0 {
		return &pm.MultiGeometry.Lines[0]
	}
	return nil
}

// propString returns a string-valued property, or "" when absent or not a string.
func propString(props geojson.Properties, key string) string {
	if value, ok := props[key]; ok {
		if s, ok := value.(string); ok {
			return s
		}
	}
	return ""
}
