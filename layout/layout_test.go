package layout

import (
	"image"
	"testing"

	"github.com/Noofbiz/seqvis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlan(t *testing.T) {
	cases := []struct {
		channels   int
		rows, cols int
	}{
		{1, 1, 1},
		{2, 1, 2},
		{3, 1, 3},
		{4, 2, 3},
		{6, 2, 3},
		{7, 3, 3},
		{10, 4, 3},
	}
	for _, tc := range cases {
		g, err := Plan(tc.channels)
		require.NoError(t, err)
		assert.Equal(t, Grid{Rows: tc.rows, Cols: tc.cols}, g, "channels=%d", tc.channels)
	}
}

func TestPlan_ZeroChannels(t *testing.T) {
	_, err := Plan(0)
	assert.ErrorIs(t, err, seqvis.ErrInvalidInput)
	_, err = Plan(-1)
	assert.ErrorIs(t, err, seqvis.ErrInvalidInput)
}

// TestTiles_Properties checks, for every channel count up to 40, the grid
// formula, row-major order, disjointness and coverage of the rendered cells.
func TestTiles_Properties(t *testing.T) {
	bounds := image.Rect(0, 0, 1921, 1079)
	for c := 1; c <= 40; c++ {
		g, err := Plan(c)
		require.NoError(t, err)
		require.Equal(t, min(3, c), g.Cols)
		require.Equal(t, (c+g.Cols-1)/g.Cols, g.Rows)
		require.GreaterOrEqual(t, g.Cells(), c)
		require.Less(t, g.Cells()-c, g.Cols, "no fully empty trailing row")

		tiles, err := g.Tiles(c, bounds)
		require.NoError(t, err)
		require.Len(t, tiles, c)

		area := 0
		for i, tile := range tiles {
			assert.Equal(t, i, tile.Index)
			assert.Equal(t, i/g.Cols, tile.Row)
			assert.Equal(t, i%g.Cols, tile.Col)
			assert.True(t, tile.Rect.In(bounds), "tile %d outside canvas", i)
			assert.False(t, tile.Rect.Empty(), "tile %d empty", i)
			area += tile.Rect.Dx() * tile.Rect.Dy()
			for j := 0; j < i; j++ {
				assert.False(t, tile.Rect.Overlaps(tiles[j].Rect), "c=%d tiles %d and %d overlap", c, i, j)
			}
		}
		if c == g.Cells() {
			assert.Equal(t, bounds.Dx()*bounds.Dy(), area, "c=%d full grid must cover the canvas", c)
		}
	}
}

func TestTiles_FourChannelsLeavesTwoBlankCells(t *testing.T) {
	g, err := Plan(4)
	require.NoError(t, err)

	tiles, err := g.Tiles(4, image.Rect(0, 0, 3840, 2160))
	require.NoError(t, err)
	require.Len(t, tiles, 4)

	assert.Equal(t, image.Rect(0, 0, 1280, 1080), tiles[0].Rect)
	assert.Equal(t, image.Rect(2560, 0, 3840, 1080), tiles[2].Rect)
	assert.Equal(t, image.Rect(0, 1080, 1280, 2160), tiles[3].Rect)
	assert.Equal(t, 2, g.Cells()-len(tiles))
}

func TestTiles_OffsetBounds(t *testing.T) {
	g := Grid{Rows: 1, Cols: 2}
	tiles, err := g.Tiles(2, image.Rect(10, 20, 110, 70))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(10, 20, 60, 70), tiles[0].Rect)
	assert.Equal(t, image.Rect(60, 20, 110, 70), tiles[1].Rect)
}

func TestTiles_BadInput(t *testing.T) {
	g := Grid{Rows: 2, Cols: 3}
	_, err := g.Tiles(7, image.Rect(0, 0, 300, 200))
	assert.ErrorIs(t, err, seqvis.ErrInvalidInput)
	_, err = g.Tiles(0, image.Rect(0, 0, 300, 200))
	assert.ErrorIs(t, err, seqvis.ErrInvalidInput)
	_, err = g.Tiles(4, image.Rect(0, 0, 2, 1))
	assert.ErrorIs(t, err, seqvis.ErrInvalidInput)
	_, err = Grid{}.Tiles(1, image.Rect(0, 0, 10, 10))
	assert.ErrorIs(t, err, seqvis.ErrInvalidInput)
}
