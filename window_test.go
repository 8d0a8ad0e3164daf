package bamview_test

import (
	"github.com/brentp/bamview"
	. "gopkg.in/check.v1"
)

type WindowTest struct{}

var _ = Suite(&WindowTest{})

func (t *WindowTest) TestRightAndWidth(c *C) {
	w := bamview.Window{Chrom: "1", Left: 100, Zoom: 2}
	area := bamview.Area{Width: 10, Height: 5}
	c.Assert(w.WidthBases(area), Equals, 20)
	c.Assert(w.Right(area), Equals, 119)
	c.Assert(w.IsBasewise(), Equals, false)
}

func (t *WindowTest) TestOnscreenX(c *C) {
	w := bamview.Window{Chrom: "1", Left: 100, Zoom: 2}
	area := bamview.Area{Width: 10, Height: 5}
	sx := w.OnscreenX(105, area)
	c.Assert(sx.Visible(), Equals, true)
	c.Assert(sx.Col, Equals, 2)

	left := w.OnscreenX(90, area)
	c.Assert(left.Clip, Equals, int8(-1))
	c.Assert(left.Col, Equals, 5)

	right := w.OnscreenX(130, area)
	c.Assert(right.Clip, Equals, int8(1))
	c.Assert(right.Col >= 1, Equals, true)
}

func (t *WindowTest) TestGenomicAtRoundTrip(c *C) {
	area := bamview.Area{Width: 80, Height: 20}
	for _, zoom := range []int{1, 2, 4, 7, 32} {
		w := bamview.Window{Chrom: "1", Left: 1000, Zoom: zoom}
		for col := 0; col < area.Width; col++ {
			sx := w.OnscreenX(w.GenomicAt(col), area)
			c.Assert(sx.Visible(), Equals, true)
			c.Assert(sx.Col, Equals, col, Commentf("zoom %d col %d", zoom, col))
		}
	}
}

func (t *WindowTest) TestZoomInPreservesMiddle(c *C) {
	w := bamview.Window{Chrom: "1", Left: 100, Zoom: 2}
	area := bamview.Area{Width: 10, Height: 5}
	c.Assert(w.ZoomIn(2, area), IsNil)
	c.Assert(w.Zoom, Equals, 1)
	c.Assert(w.Left, Equals, 105)
}

func (t *WindowTest) TestZoomClamps(c *C) {
	area := bamview.Area{Width: 10, Height: 5}
	w := bamview.NewWindow("1")
	c.Assert(w.ZoomIn(4, area), IsNil)
	c.Assert(w.Zoom, Equals, 1)
	c.Assert(w.ZoomOut(1000, area), IsNil)
	c.Assert(w.Zoom, Equals, bamview.MaxZoom)
}

func (t *WindowTest) TestZoomZeroStep(c *C) {
	area := bamview.Area{Width: 10, Height: 5}
	w := bamview.NewWindow("1")
	c.Assert(w.ZoomIn(0, area), ErrorMatches, ".*zoom step.*")
}

func (t *WindowTest) TestSetLeftClampsAtOne(c *C) {
	w := bamview.NewWindow("1")
	w.SetLeft(-50)
	c.Assert(w.Left, Equals, 1)
	w.SetTop(-3)
	c.Assert(w.Top, Equals, 0)
}

func (t *WindowTest) TestOnscreenY(c *C) {
	w := bamview.Window{Chrom: "1", Left: 1, Top: 4, Zoom: 1}
	area := bamview.Area{Width: 10, Height: 3}
	c.Assert(w.OnscreenY(4, area).Row, Equals, 0)
	c.Assert(w.OnscreenY(6, area).Visible(), Equals, true)
	c.Assert(w.OnscreenY(3, area).Clip, Equals, int8(-1))
	c.Assert(w.OnscreenY(7, area).Clip, Equals, int8(1))
}

func (t *WindowTest) TestSpanClipping(c *C) {
	w := bamview.Window{Chrom: "1", Left: 100, Zoom: 1}
	area := bamview.Area{Width: 10, Height: 5}

	col, n, ok := w.Span(w.OnscreenX(95, area), w.OnscreenX(103, area), area)
	c.Assert(ok, Equals, true)
	c.Assert(col, Equals, 0)
	c.Assert(n, Equals, 4)

	col, n, ok = w.Span(w.OnscreenX(108, area), w.OnscreenX(200, area), area)
	c.Assert(ok, Equals, true)
	c.Assert(col, Equals, 8)
	c.Assert(n, Equals, 2)

	_, _, ok = w.Span(w.OnscreenX(10, area), w.OnscreenX(20, area), area)
	c.Assert(ok, Equals, false)
}
