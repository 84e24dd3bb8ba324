/*
Package manifest implements a decoder for the ptimg descriptor that
accompanies each scrambled page image.

The descriptor is a small JSON document with a top-level "views" array
whose first element carries the output canvas size and an array of
coords strings of the form

	i:<src_x>,<src_y>+<w>,<h>><dst_x>,<dst_y>

Each coords entry describes one tile; a w by h rectangle read from
(src_x, src_y) in the scrambled image and written at (dst_x, dst_y) in
the reconstructed one.
*/
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const prefix = "i:"

var (
	// ErrNoViews is returned when the views array is missing or empty
	ErrNoViews = errors.New("manifest: missing or empty views")
	// ErrNoWidth is returned when the first view has no width
	ErrNoWidth = errors.New("manifest: missing width")
	// ErrNoHeight is returned when the first view has no height
	ErrNoHeight = errors.New("manifest: missing height")
	// ErrNoCoords is returned when the first view has no coords array
	ErrNoCoords = errors.New("manifest: missing coords")

	// ErrNoPrefix is returned for a coords entry without the "i:" prefix
	ErrNoPrefix = errors.New(`missing "` + prefix + `" prefix`)
	// ErrNoArrow is returned for a coords entry without a ">" separator
	ErrNoArrow = errors.New(`missing ">" separator`)
	// ErrNoPlus is returned for a coords entry without a "+" separator
	ErrNoPlus = errors.New(`missing "+" separator`)
	// ErrNoComma is returned for a coordinate pair without a "," separator
	ErrNoComma = errors.New(`missing "," separator`)
	// ErrZeroTile is returned for a tile with a zero width or height
	ErrZeroTile = errors.New("tile width and height must be greater than zero")

	errNegative = errors.New("must be non-negative")
)

// Placement describes a single tile move; a Width by Height rectangle
// is read from (SrcX, SrcY) in the scrambled image and written at
// (DstX, DstY) in the reconstructed one.
type Placement struct {
	SrcX, SrcY    int
	Width, Height int
	DstX, DstY    int
}

// View is the decoded form of one descriptor; the size of the
// reconstructed page and the tile placements that fill it, in document
// order. It is not modified once returned by Parse.
type View struct {
	Width      int
	Height     int
	Placements []Placement
}

// FieldError records which coords entry was malformed and, where it
// applies, which token within it.
type FieldError struct {
	Index int    // position within the coords array
	Field string // the token that failed, e.g. "src_x", or empty
	Err   error
}

func (e *FieldError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("manifest: coords[%d]: %s: %v", e.Index, e.Field, e.Err)
	}
	return fmt.Sprintf("manifest: coords[%d]: %v", e.Index, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

type view struct {
	Width  *int     `json:"width"`
	Height *int     `json:"height"`
	Coords []string `json:"coords"`
}

type document struct {
	Views []view `json:"views"`
}

func split2(s, sep string) (string, string, bool) {
	if i := strings.Index(s, sep); i >= 0 {
		return s[:i], s[i+len(sep):], true
	}
	return s, "", false
}

func parseCoord(i int, s, name string) (int, error) {
	n, err := strconv.ParseUint(s, 10, 31)
	if err != nil {
		return 0, &FieldError{Index: i, Field: name, Err: err}
	}
	return int(n), nil
}

func parsePair(i int, s, xname, yname string) (x, y int, err error) {
	xs, ys, ok := split2(s, ",")
	if !ok {
		return 0, 0, &FieldError{Index: i, Field: xname + "," + yname, Err: ErrNoComma}
	}
	if x, err = parseCoord(i, xs, xname); err != nil {
		return
	}
	y, err = parseCoord(i, ys, yname)
	return
}

func parsePlacement(i int, s string) (p Placement, err error) {
	if !strings.HasPrefix(s, prefix) {
		return p, &FieldError{Index: i, Err: ErrNoPrefix}
	}

	srcPart, dstPart, ok := split2(s[len(prefix):], ">")
	if !ok {
		return p, &FieldError{Index: i, Err: ErrNoArrow}
	}

	pos, size, ok := split2(srcPart, "+")
	if !ok {
		return p, &FieldError{Index: i, Err: ErrNoPlus}
	}

	if p.SrcX, p.SrcY, err = parsePair(i, pos, "src_x", "src_y"); err != nil {
		return
	}
	if p.Width, p.Height, err = parsePair(i, size, "w", "h"); err != nil {
		return
	}
	if p.DstX, p.DstY, err = parsePair(i, dstPart, "dst_x", "dst_y"); err != nil {
		return
	}

	if p.Width == 0 || p.Height == 0 {
		return p, &FieldError{Index: i, Field: "size", Err: ErrZeroTile}
	}

	return
}

// Parse decodes a raw descriptor document. It performs no bounds
// checking against any image; that happens when the placements are
// applied.
func Parse(data []byte) (*View, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("manifest: %w", err)
	}

	if len(doc.Views) == 0 {
		return nil, ErrNoViews
	}

	first := doc.Views[0]
	switch {
	case first.Width == nil:
		return nil, ErrNoWidth
	case first.Height == nil:
		return nil, ErrNoHeight
	case first.Coords == nil:
		return nil, ErrNoCoords
	}

	if *first.Width < 0 {
		return nil, fmt.Errorf("manifest: width: %w", errNegative)
	}
	if *first.Height < 0 {
		return nil, fmt.Errorf("manifest: height: %w", errNegative)
	}

	v := &View{
		Width:      *first.Width,
		Height:     *first.Height,
		Placements: make([]Placement, 0, len(first.Coords)),
	}

	for i, s := range first.Coords {
		p, err := parsePlacement(i, s)
		if err != nil {
			return nil, err
		}
		v.Placements = append(v.Placements, p)
	}

	return v, nil
}
