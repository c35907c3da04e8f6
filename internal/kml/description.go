package kml

import (
	"strings"

	"golang.org/x/net/html"
)

// ParseDescription extracts parcel attributes from the HTML fragment embedded
// in a placemark description. The export renders attributes as a two-column
// table; some variants put the owner name in a single-cell header row styled
// bold or centered. Returns the attribute map and the owner string captured
// from the last such header row, if any.
//
// The markup is hand-generated by the assessing company's export and is not
// guaranteed well-formed, so parsing is best-effort: the tokenizer runs until
// it stops and whatever was collected stands.
func ParseDescription(fragment string) (map[string]string, string) {
	attrs := make(map[string]string)
	ownerHeader := ""

	z := html.NewTokenizer(strings.NewReader(fragment))
	var (
		inCell    bool
		headerRow bool
		row       []string
	)
	for {
		switch z.Next() {
		case html.ErrorToken:
			// EOF or malformed markup; either way the scan is over.
			return attrs, ownerHeader
		case html.StartTagToken:
			tok := z.Token()
			switch tok.Data {
			case "tr":
				row = nil
				headerRow = isHeaderRow(tok)
			case "td":
				inCell = true
			}
		case html.EndTagToken:
			switch z.Token().Data {
			case "td":
				inCell = false
			case "tr":
				if len(row) == 2 {
					attrs[row[0]] = row[1]
				} else if len(row) == 1 && headerRow {
					// Last header row wins when more than one appears.
					ownerHeader = row[0]
				}
				row = nil
			}
		case html.TextToken:
			if inCell {
				if text := strings.TrimSpace(z.Token().Data); text != "" {
					row = append(row, text)
				}
			}
		}
	}
}

// isHeaderRow reports whether a <tr> carries the bold/centered styling the
// export uses for its owner-name header rows.
func isHeaderRow(tok html.Token) bool {
	for _, attr := range tok.Attr {
		if attr.Key != "style" {
			continue
		}
		if strings.Contains(attr.Val, "font-weight:bold") ||
			strings.Contains(attr.Val, "text-align:center") {
			return true
		}
	}
	return false
}
