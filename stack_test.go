package bamview_test

import (
	"strings"

	"github.com/biogo/hts/sam"
	"github.com/brentp/bamview"
	. "gopkg.in/check.v1"
)

type StackTest struct{}

var _ = Suite(&StackTest{})

func readAt(idx, pos int, cigar, seq string) *bamview.AlignedRead {
	return bamview.NewAlignedRead(idx, rec("r", pos, cigar, seq, 0), nil, nil)
}

func (t *StackTest) TestGreedyPacking(c *C) {
	reads := []*bamview.AlignedRead{
		readAt(0, 0, "10M", strings.Repeat("A", 10)),  // 1..10
		readAt(1, 11, "9M", strings.Repeat("A", 9)),   // 12..20
		readAt(2, 13, "12M", strings.Repeat("A", 12)), // 14..25
	}
	lanes, ys := bamview.Stack(reads, 3)
	// 12 is not past 10+3, so the second read opens a new lane; 14 is.
	c.Assert(ys, DeepEquals, []int{0, 1, 0})
	c.Assert(lanes, DeepEquals, [][]int{{0, 2}, {1}})
}

func (t *StackTest) TestLaneGapInvariant(c *C) {
	reads := []*bamview.AlignedRead{
		readAt(0, 0, "20M", strings.Repeat("A", 20)),
		readAt(1, 5, "20M", strings.Repeat("A", 20)),
		readAt(2, 30, "10M", strings.Repeat("A", 10)),
		readAt(3, 31, "50M", strings.Repeat("A", 50)),
		readAt(4, 100, "5M", strings.Repeat("A", 5)),
	}
	lanes, ys := bamview.Stack(reads, len(reads))
	for k, lane := range lanes {
		right := -1 << 30
		for _, idx := range lane {
			start, end := reads[idx].Footprint()
			c.Assert(start > right+bamview.MinGap, Equals, true,
				Commentf("lane %d: read %d starts at %d with right %d", k, idx, start, right))
			if end > right {
				right = end
			}
			c.Assert(ys[idx], Equals, k)
		}
	}
}

func (t *StackTest) TestFilteredReadsGetNoLane(c *C) {
	reads := []*bamview.AlignedRead{
		readAt(1, 0, "10M", strings.Repeat("A", 10)),
	}
	_, ys := bamview.Stack(reads, 3)
	c.Assert(ys, DeepEquals, []int{-1, 0, -1})
}

func pairedRecs() (*sam.Record, *sam.Record) {
	seqA := repeat('C', 51)
	seqA[40] = 'A'
	seqB := repeat('C', 61)
	seqB[0] = 'G'
	a := rec("p1", 99, "51M", string(seqA), sam.Paired|sam.Read1)
	b := rec("p1", 139, "61M", string(seqB), sam.Paired|sam.Read2|sam.Reverse)
	return a, b
}

func (t *StackTest) TestPairOverlapConflict(c *C) {
	ra, rb := pairedRecs()
	reads := []*bamview.AlignedRead{
		bamview.NewAlignedRead(0, ra, nil, nil),
		bamview.NewAlignedRead(1, rb, nil, nil),
	}
	pairs := bamview.BuildPairs(reads)
	c.Assert(pairs, HasLen, 1)
	p := pairs[0]
	c.Assert(p.Show, Equals, true)
	c.Assert(p.R1, Equals, 0)
	c.Assert(p.R2, Equals, 1)
	c.Assert(p.Start, Equals, 100)
	c.Assert(p.End, Equals, 200)

	ov := p.Contexts[len(p.Contexts)-1]
	c.Assert(ov.Kind, Equals, bamview.ContextPairOverlap)
	c.Assert(ov.Start, Equals, 140)
	c.Assert(ov.End, Equals, 150)
	// the mates disagree only at the first shared position.
	c.Assert(ov.Modifiers, HasLen, 1)
	c.Assert(ov.Modifiers[0].Kind, Equals, bamview.ModPairConflict)
	c.Assert(ov.Modifiers[0].Pos, Equals, 140)
}

func (t *StackTest) TestPairGap(c *C) {
	a := rec("p2", 0, "10M", strings.Repeat("A", 10), sam.Paired|sam.Read1)
	b := rec("p2", 29, "10M", strings.Repeat("A", 10), sam.Paired|sam.Read2|sam.Reverse)
	reads := []*bamview.AlignedRead{
		bamview.NewAlignedRead(0, a, nil, nil),
		bamview.NewAlignedRead(1, b, nil, nil),
	}
	pairs := bamview.BuildPairs(reads)
	c.Assert(pairs, HasLen, 1)
	var gap *bamview.Context
	for i := range pairs[0].Contexts {
		if pairs[0].Contexts[i].Kind == bamview.ContextPairGap {
			gap = &pairs[0].Contexts[i]
		}
	}
	c.Assert(gap, NotNil)
	c.Assert(gap.Start, Equals, 11)
	c.Assert(gap.End, Equals, 29)
}

func (t *StackTest) TestAdjacentMatesGetNoGap(c *C) {
	a := rec("p3", 0, "10M", strings.Repeat("A", 10), sam.Paired|sam.Read1)
	b := rec("p3", 10, "10M", strings.Repeat("A", 10), sam.Paired|sam.Read2|sam.Reverse)
	reads := []*bamview.AlignedRead{
		bamview.NewAlignedRead(0, a, nil, nil),
		bamview.NewAlignedRead(1, b, nil, nil),
	}
	pairs := bamview.BuildPairs(reads)
	c.Assert(pairs, HasLen, 1)
	for _, ctx := range pairs[0].Contexts {
		c.Assert(ctx.Kind == bamview.ContextPairGap, Equals, false)
		c.Assert(ctx.Kind == bamview.ContextPairOverlap, Equals, false)
	}
}

func (t *StackTest) TestDuplicateNameSameOrdinalStaysUnpaired(c *C) {
	a := rec("d", 0, "10M", strings.Repeat("A", 10), sam.Paired|sam.Read1)
	b := rec("d", 20, "10M", strings.Repeat("A", 10), sam.Paired|sam.Read1)
	reads := []*bamview.AlignedRead{
		bamview.NewAlignedRead(0, a, nil, nil),
		bamview.NewAlignedRead(1, b, nil, nil),
	}
	pairs := bamview.BuildPairs(reads)
	c.Assert(pairs, HasLen, 2)
	c.Assert(pairs[0].Show, Equals, false)
	c.Assert(pairs[1].Show, Equals, false)
}

func (t *StackTest) TestSecondaryNeverPairs(c *C) {
	a := rec("s", 0, "10M", strings.Repeat("A", 10), sam.Paired|sam.Read1)
	b := rec("s", 20, "10M", strings.Repeat("A", 10), sam.Paired|sam.Read2|sam.Secondary)
	reads := []*bamview.AlignedRead{
		bamview.NewAlignedRead(0, a, nil, nil),
		bamview.NewAlignedRead(1, b, nil, nil),
	}
	pairs := bamview.BuildPairs(reads)
	c.Assert(pairs, HasLen, 2)
}

func (t *StackTest) TestStackPairsMapsBothMates(c *C) {
	ra, rb := pairedRecs()
	reads := []*bamview.AlignedRead{
		bamview.NewAlignedRead(0, ra, nil, nil),
		bamview.NewAlignedRead(1, rb, nil, nil),
		readAt(2, 104, "10M", strings.Repeat("A", 10)), // 105..114, under the pair
	}
	pairs := bamview.BuildPairs(reads)
	c.Assert(pairs, HasLen, 2)
	lanes, ys := bamview.StackPairs(pairs, 3)
	c.Assert(len(lanes), Equals, 2)
	c.Assert(ys[0], Equals, ys[1])
	c.Assert(ys[2] == ys[0], Equals, false)
}
