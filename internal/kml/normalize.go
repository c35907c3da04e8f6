package kml

// keyAliases maps the attribute spellings observed across the assessing
// company's export schemas (TRIO, GIS, and older all-caps variants) onto one
// canonical property set. Keys not listed here pass through unchanged; the
// schema is open-ended, not closed.
var keyAliases = map[string]string{
	"Owner":       "Owner",
	"owner":       "Owner",
	"OWNER":       "Owner",
	"MapBkLot":    "MapLot",
	"TRMapBkLot":  "MapLot",
	"Map_Lot":     "MapLot",
	"MAP_LOT":     "MapLot",
	"GISAcres":    "Acres",
	"TRIOAcres":   "Acres",
	"Acres":       "Acres",
	"ACRES":       "Acres",
	"LandValue":   "LandValue",
	"Land_Value":  "LandValue",
	"LAND_VALUE":  "LandValue",
	"BldgValue":   "BldgValue",
	"Bldg_Value":  "BldgValue",
	"BLDG_VALUE":  "BldgValue",
	"TotalValue":  "TotalValue",
	"Total_Value": "TotalValue",
	"TOTAL_VALUE": "TotalValue",
	"Street":      "Street",
	"STREET":      "Street",
	"StNumber":    "StNumber",
	"Account":     "Account",
	"Town":        "Town",
	"County":      "County",
	"Year_Built":  "YearBuilt",
	"BldgStyle":   "BldgStyle",
	"NetAssess":   "NetAssess",
	"Exemption":   "Exemption",
}

// NormalizeKeys rewrites extracted attribute keys onto the canonical property
// set. The owner fallback captured from a header row is applied only after
// direct key mapping, so an explicitly keyed Owner value always wins.
func NormalizeKeys(attrs map[string]string, ownerFallback string) map[string]string {
	props := make(map[string]string, len(attrs))
	for key, value := range attrs {
		if canonical, ok := keyAliases[key]; ok {
			props[canonical] = value
		} else {
			props[key] = value
		}
	}
	if _, ok := props["Owner"]; !ok && ownerFallback != "" {
		props["Owner"] = ownerFallback
	}
	return props
}
