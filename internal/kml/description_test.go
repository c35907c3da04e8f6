package kml

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDescription(t *testing.T) {
	t.Run("two column rows become attributes", func(t *testing.T) {
		fragment := `<table>
			<tr><td>Owner</td><td>Jane Doe</td></tr>
			<tr><td>GISAcres</td><td>12.5</td></tr>
		</table>`

		attrs, owner := ParseDescription(fragment)

		assert.Equal(t, map[string]string{"Owner": "Jane Doe", "GISAcres": "12.5"}, attrs)
		assert.Empty(t, owner)
	})

	t.Run("bold header row captures owner fallback", func(t *testing.T) {
		fragment := `<table>
			<tr style="font-weight:bold"><td>SMITH JOHN</td></tr>
			<tr><td>MapBkLot</td><td>12-34</td></tr>
		</table>`

		attrs, owner := ParseDescription(fragment)

		assert.Equal(t, "SMITH JOHN", owner)
		assert.Equal(t, "12-34", attrs["MapBkLot"])
	})

	t.Run("centered header row also counts", func(t *testing.T) {
		_, owner := ParseDescription(`<tr style="text-align:center"><td>DOE JANE</td></tr>`)
		assert.Equal(t, "DOE JANE", owner)
	})

	t.Run("last header row wins", func(t *testing.T) {
		fragment := `<table>
			<tr style="font-weight:bold"><td>FIRST OWNER</td></tr>
			<tr style="font-weight:bold"><td>SECOND OWNER</td></tr>
		</table>`

		_, owner := ParseDescription(fragment)
		assert.Equal(t, "SECOND OWNER", owner)
	})

	t.Run("single cell in unstyled row is ignored", func(t *testing.T) {
		attrs, owner := ParseDescription(`<tr><td>orphan</td></tr>`)
		assert.Empty(t, attrs)
		assert.Empty(t, owner)
	})

	t.Run("rows with more than two cells are ignored", func(t *testing.T) {
		attrs, _ := ParseDescription(`<tr><td>a</td><td>b</td><td>c</td></tr>`)
		assert.Empty(t, attrs)
	})

	t.Run("cell text is trimmed and empty cells dropped", func(t *testing.T) {
		attrs, _ := ParseDescription(`<tr><td>  Street </td><td>
			MAIN RD </td></tr>`)
		assert.Equal(t, map[string]string{"Street": "MAIN RD"}, attrs)
	})

	t.Run("malformed markup degrades to what was collected", func(t *testing.T) {
		attrs, _ := ParseDescription(`<table><tr><td>Owner</td><td>Jane`)
		assert.NotNil(t, attrs)
	})

	t.Run("empty fragment", func(t *testing.T) {
		attrs, owner := ParseDescription("")
		assert.Empty(t, attrs)
		assert.Empty(t, owner)
	})
}
