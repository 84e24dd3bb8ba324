package manifest

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	v, err := Parse([]byte(`{"views":[{"width":4,"height":2,"coords":["i:0,0+2,2>0,0","i:2,0+2,2>2,0"]}]}`))
	require.NoError(t, err)

	assert.Equal(t, 4, v.Width)
	assert.Equal(t, 2, v.Height)
	assert.Equal(t, []Placement{
		{SrcX: 0, SrcY: 0, Width: 2, Height: 2, DstX: 0, DstY: 0},
		{SrcX: 2, SrcY: 0, Width: 2, Height: 2, DstX: 2, DstY: 0},
	}, v.Placements)
}

func TestParseOrder(t *testing.T) {
	v, err := Parse([]byte(`{"views":[{"width":8,"height":8,"coords":["i:4,0+4,4>0,0","i:0,0+4,4>0,0","i:0,4+4,4>4,4"]}]}`))
	require.NoError(t, err)

	require.Len(t, v.Placements, 3)
	assert.Equal(t, 4, v.Placements[0].SrcX)
	assert.Equal(t, 0, v.Placements[1].SrcX)
	assert.Equal(t, 4, v.Placements[2].DstY)
}

func TestParseErrors(t *testing.T) {
	tables := []struct {
		name string
		json string
		err  error
	}{
		{"no views", `{}`, ErrNoViews},
		{"empty views", `{"views":[]}`, ErrNoViews},
		{"no width", `{"views":[{"height":2,"coords":[]}]}`, ErrNoWidth},
		{"no height", `{"views":[{"width":4,"coords":[]}]}`, ErrNoHeight},
		{"no coords", `{"views":[{"width":4,"height":2}]}`, ErrNoCoords},
		{"no prefix", `{"views":[{"width":4,"height":2,"coords":["0,0+2,2>0,0"]}]}`, ErrNoPrefix},
		{"no arrow", `{"views":[{"width":4,"height":2,"coords":["i:0,0+2,2-0,0"]}]}`, ErrNoArrow},
		{"no plus", `{"views":[{"width":4,"height":2,"coords":["i:0,0-2,2>0,0"]}]}`, ErrNoPlus},
		{"no comma", `{"views":[{"width":4,"height":2,"coords":["i:0+2,2>0,0"]}]}`, ErrNoComma},
		{"zero width", `{"views":[{"width":4,"height":2,"coords":["i:0,0+0,2>0,0"]}]}`, ErrZeroTile},
		{"zero height", `{"views":[{"width":4,"height":2,"coords":["i:0,0+2,0>0,0"]}]}`, ErrZeroTile},
	}
	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			_, err := Parse([]byte(table.json))
			assert.True(t, errors.Is(err, table.err), "got %v, want %v", err, table.err)
		})
	}
}

func TestParseBadJSON(t *testing.T) {
	_, err := Parse([]byte(`{"views":`))
	assert.Error(t, err)

	_, err = Parse([]byte(`{"views":[{"width":"wide","height":2,"coords":[]}]}`))
	assert.Error(t, err)

	_, err = Parse([]byte(`{"views":[{"width":-4,"height":2,"coords":[]}]}`))
	assert.Error(t, err)
}

func TestParseFieldError(t *testing.T) {
	tables := []struct {
		name  string
		json  string
		index int
		field string
	}{
		{"non-numeric", `{"views":[{"width":4,"height":2,"coords":["i:0,0+2,2>0,0","i:0,z+2,2>0,0"]}]}`, 1, "src_y"},
		{"negative", `{"views":[{"width":4,"height":2,"coords":["i:-1,0+2,2>0,0"]}]}`, 0, "src_x"},
		{"missing component", `{"views":[{"width":4,"height":2,"coords":["i:0,0+2,2>0"]}]}`, 0, "dst_x,dst_y"},
		{"bad size", `{"views":[{"width":4,"height":2,"coords":["i:0,0+2,>0,0"]}]}`, 0, "h"},
	}
	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			_, err := Parse([]byte(table.json))
			var fieldErr *FieldError
			require.True(t, errors.As(err, &fieldErr), "got %v", err)
			assert.Equal(t, table.index, fieldErr.Index)
			assert.Equal(t, table.field, fieldErr.Field)
		})
	}
}
