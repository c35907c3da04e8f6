package kml

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
)

func TestParseCoordinates(t *testing.T) {
	t.Run("lon lat alt tuples", func(t *testing.T) {
		points := ParseCoordinates("-69.1,44.9,0 -69.2,44.8,0")
		assert.Equal(t, []orb.Point{{-69.1, 44.9}, {-69.2, 44.8}}, points)
	})

	t.Run("altitude is optional", func(t *testing.T) {
		points := ParseCoordinates("-69.1,44.9")
		assert.Equal(t, []orb.Point{{-69.1, 44.9}}, points)
	})

	t.Run("malformed tuple is skipped not fatal", func(t *testing.T) {
		points := ParseCoordinates("-69.1,44.9,0 bad -69.2,44.8")
		assert.Equal(t, []orb.Point{{-69.1, 44.9}, {-69.2, 44.8}}, points)
	})

	t.Run("non-numeric parts are skipped", func(t *testing.T) {
		points := ParseCoordinates("x,44.9 -69.1,y -69.3,44.7")
		assert.Equal(t, []orb.Point{{-69.3, 44.7}}, points)
	})

	t.Run("surrounding whitespace and newlines", func(t *testing.T) {
		points := ParseCoordinates("\n  -69.1,44.9,0\n  -69.2,44.8,0\n ")
		assert.Len(t, points, 2)
	})

	t.Run("fully malformed input degrades to empty", func(t *testing.T) {
		assert.Empty(t, ParseCoordinates("not coordinates at all"))
		assert.Empty(t, ParseCoordinates(""))
	})
}
