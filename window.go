package bamview

import "fmt"

// MaxZoom is the widest zoom factor: one screen cell covers MaxZoom bases.
const MaxZoom = 32

// Area is a rectangle of terminal cells available to the alignment view.
type Area struct {
	Width  int
	Height int
}

// ScreenX locates a genomic position relative to the visible columns.
// When Clip is 0 the position is visible at column Col (0-based). When
// Clip is -1 or +1 the position is off-screen left or right and Col holds
// the distance in columns (always >= 1).
type ScreenX struct {
	Col  int
	Clip int8
}

// Visible reports whether the position falls on a drawable column.
func (s ScreenX) Visible() bool { return s.Clip == 0 }

// ScreenY is the vertical analogue of ScreenX for lanes.
type ScreenY struct {
	Row  int
	Clip int8
}

// Visible reports whether the lane falls on a drawable row.
func (s ScreenY) Visible() bool { return s.Clip == 0 }

// Window describes the visible slice of the genome: which contig, the
// left-most genomic coordinate (1-based), the top lane (0-based) and the
// zoom factor (bases per cell, 1..MaxZoom). It is a plain value; every
// coordinate translation in the viewer routes through it so the screen,
// the mouse and the model cannot disagree about where a base lands.
type Window struct {
	Chrom string
	Left  int
	Top   int
	Zoom  int
}

// NewWindow returns a Window at the left edge of chrom, basewise zoom.
func NewWindow(chrom string) Window {
	return Window{Chrom: chrom, Left: 1, Zoom: 1}
}

// WidthBases is the number of genomic bases the area spans at the current zoom.
func (w Window) WidthBases(area Area) int { return area.Width * w.Zoom }

// Right is the last visible genomic coordinate (1-based inclusive).
func (w Window) Right(area Area) int { return w.Left + w.WidthBases(area) - 1 }

// IsBasewise reports whether one cell is one base.
func (w Window) IsBasewise() bool { return w.Zoom == 1 }

// SetLeft moves the left edge, clamping at the start of the contig.
func (w *Window) SetLeft(x int) {
	if x < 1 {
		x = 1
	}
	w.Left = x
}

// SetTop moves the top lane, clamping at 0.
func (w *Window) SetTop(lane int) {
	if lane < 0 {
		lane = 0
	}
	w.Top = lane
}

// SetMiddle centers the window on genomic coordinate m.
func (w *Window) SetMiddle(area Area, m int) {
	w.SetLeft(m - w.WidthBases(area)/2)
}

// Middle is the genomic coordinate at the center of the window.
func (w Window) Middle(area Area) int { return w.Left + w.WidthBases(area)/2 }

// OnscreenX translates a genomic coordinate to a screen column.
func (w Window) OnscreenX(pos int, area Area) ScreenX {
	if pos < w.Left {
		return ScreenX{Col: max(1, (w.Left-pos)/w.Zoom), Clip: -1}
	}
	if r := w.Right(area); pos > r {
		return ScreenX{Col: max(1, (pos-r)/w.Zoom), Clip: 1}
	}
	return ScreenX{Col: (pos - w.Left) / w.Zoom}
}

// GenomicAt is the inverse of OnscreenX for visible columns: the first
// genomic coordinate drawn in column col.
func (w Window) GenomicAt(col int) int { return w.Left + col*w.Zoom }

// OnscreenY translates a lane index to a screen row.
func (w Window) OnscreenY(lane int, area Area) ScreenY {
	if lane < w.Top {
		return ScreenY{Row: max(1, w.Top-lane), Clip: -1}
	}
	if lane >= w.Top+area.Height {
		return ScreenY{Row: max(1, lane-(w.Top+area.Height-1)), Clip: 1}
	}
	return ScreenY{Row: lane - w.Top}
}

// Span clips the screen coordinates of a genomic span to the visible
// columns. It returns the first column and the length in columns, or
// ok=false when the span is entirely off-screen to one side.
func (w Window) Span(start, end ScreenX, area Area) (col, length int, ok bool) {
	if start.Clip == 1 || end.Clip == -1 {
		return 0, 0, false
	}
	col = 0
	if start.Visible() {
		col = start.Col
	}
	last := area.Width - 1
	if end.Visible() {
		last = end.Col
	}
	if last < col {
		return 0, 0, false
	}
	return col, last - col + 1, true
}

// ZoomIn narrows the view by a factor of r, preserving the middle
// coordinate. r must be positive.
func (w *Window) ZoomIn(r int, area Area) error {
	return w.rezoom(r, area, func(z int) int { return z / r })
}

// ZoomOut widens the view by a factor of r, preserving the middle
// coordinate. r must be positive.
func (w *Window) ZoomOut(r int, area Area) error {
	return w.rezoom(r, area, func(z int) int { return z * r })
}

func (w *Window) rezoom(r int, area Area, f func(int) int) error {
	if r == 0 {
		return fmt.Errorf("%w: zoom step of 0", ErrInvalidArgument)
	}
	m := w.Middle(area)
	z := f(w.Zoom)
	if z < 1 {
		z = 1
	}
	if z > MaxZoom {
		z = MaxZoom
	}
	w.Zoom = z
	w.SetMiddle(area, m)
	return nil
}

func min(a, b int) int {
	if a > b {
		return b
	}
	return a
}

func max(a, b int) int {
	if a < b {
		return b
	}
	return a
}
