/*
Package tile reassembles a scrambled page image.

A scrambled page is an ordinary raster image whose content has been cut
into rectangular tiles and shuffled; the accompanying descriptor records
where each tile belongs. Composite applies the placements in descriptor
order onto a fresh canvas, so where destinations overlap the last
placement wins.
*/
package tile

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/bodgit/ptimg/manifest"
)

// BoundsError reports a placement whose source or destination rectangle
// falls outside the image it refers to. Nothing is ever clipped or
// wrapped; a single bad placement fails the whole composite.
type BoundsError struct {
	Index  int             // position within the descriptor
	Rect   image.Rectangle // the offending rectangle
	Bounds image.Rectangle // the bounds it must lie within
	Dest   bool            // whether Rect is the destination rectangle
}

func (e *BoundsError) Error() string {
	side := "source"
	if e.Dest {
		side = "destination"
	}
	return fmt.Sprintf("tile: placement %d: %s rectangle %v outside bounds %v", e.Index, side, e.Rect, e.Bounds)
}

// Composite reconstructs the page described by v from the scrambled
// image src. The returned canvas is exactly v.Width by v.Height pixels;
// any region not covered by a placement is left fully transparent.
func Composite(src image.Image, v *manifest.View) (*image.RGBA, error) {
	b := src.Bounds()
	canvas := image.Rect(0, 0, v.Width, v.Height)
	dst := image.NewRGBA(canvas)

	for i, p := range v.Placements {
		sr := image.Rect(p.SrcX, p.SrcY, p.SrcX+p.Width, p.SrcY+p.Height).Add(b.Min)
		if !sr.In(b) {
			return nil, &BoundsError{Index: i, Rect: sr, Bounds: b}
		}

		dr := image.Rect(p.DstX, p.DstY, p.DstX+p.Width, p.DstY+p.Height)
		if !dr.In(canvas) {
			return nil, &BoundsError{Index: i, Rect: dr, Bounds: canvas, Dest: true}
		}

		draw.Draw(dst, dr, src, sr.Min, draw.Src)
	}

	return dst, nil
}
