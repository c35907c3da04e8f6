// Package kml ingests the tax-parcel KMZ archive published by the town's
// assessing company and produces GeoJSON features.
//
// # Archive layout
//
// A KMZ is a zip archive containing one or more ".kml" documents in the KML
// 2.2 namespace. Parcels appear as Placemark elements, nested arbitrarily
// deep inside Folder and Document wrappers. Geometry is a Polygon (outer
// boundary only; holes are not drawn on tax maps), a Point, a LineString, or
// a MultiGeometry of Polygons.
//
// # Attribute encoding
//
// Parcel attributes are embedded as an HTML table in the placemark
// description, two columns per attribute row. Some export variants add a
// single-cell header row, styled bold or centered, carrying the owner name.
// Attribute key spellings vary between export schemas ("GISAcres",
// "TRIOAcres", "ACRES"...); NormalizeKeys folds them onto one canonical set.
// Older exports carry attributes as ExtendedData instead; those keys are
// already canonical and are copied verbatim.
//
// # Fault tolerance
//
// The export is hand-generated and inconsistent, so parsing is tolerant by
// policy: malformed coordinate tuples, broken HTML, and malformed KML entries
// degrade to missing data rather than errors. Only an unreadable archive
// (ErrNotArchive) is reported to the caller.
//
// # Noise filtering
//
// The raw export includes unlabeled right-of-way strips and unmapped areas.
// Features without geometry, features with neither a name nor an owner, and
// features named "UNK" or "ROW" are dropped during parsing.
package kml
