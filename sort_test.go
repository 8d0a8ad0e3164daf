package bamview_test

import (
	"strings"

	"github.com/biogo/hts/sam"
	"github.com/brentp/bamview"
	. "gopkg.in/check.v1"
)

type SortTest struct {
	reads []*bamview.AlignedRead
}

var _ = Suite(&SortTest{})

func (t *SortTest) SetUpTest(c *C) {
	a := rec("carol", 49, "10M", "AAAAAAAAAA", 0)
	a.MapQ = 60
	a.TempLen = -300
	b := rec("alice", 39, "10M", "CCCCCCCCCC", sam.Reverse)
	b.MapQ = 20
	b.TempLen = 150
	d := rec("bob", 44, "6M", "GGGGGG", 0)
	d.MapQ = 20
	d.TempLen = 200
	t.reads = []*bamview.AlignedRead{
		bamview.NewAlignedRead(0, a, nil, nil), // start 50, mapq 60, + strand
		bamview.NewAlignedRead(1, b, nil, nil), // start 40, mapq 20, - strand
		bamview.NewAlignedRead(2, d, nil, nil), // start 45, mapq 20, + strand
	}
}

func names(reads []*bamview.AlignedRead) []string {
	out := make([]string, len(reads))
	for i, r := range reads {
		out[i] = r.Name
	}
	return out
}

func (t *SortTest) TestDefaultLeavesFetchOrder(c *C) {
	s := bamview.DefaultSort()
	s.Apply(t.reads, 0)
	c.Assert(names(t.reads), DeepEquals, []string{"carol", "alice", "bob"})
	c.Assert(s.String(), Equals, "")
}

func (t *SortTest) TestSortByStart(c *C) {
	s, err := bamview.ParseSort("start")
	c.Assert(err, IsNil)
	s.Apply(t.reads, 0)
	c.Assert(names(t.reads), DeepEquals, []string{"alice", "bob", "carol"})
}

func (t *SortTest) TestReverseInvertsOrder(c *C) {
	s, err := bamview.ParseSort("reverse(start)")
	c.Assert(err, IsNil)
	s.Apply(t.reads, 0)
	c.Assert(names(t.reads), DeepEquals, []string{"carol", "bob", "alice"})
}

func (t *SortTest) TestThenBreaksTies(c *C) {
	s, err := bamview.ParseSort("then(mapq,name)")
	c.Assert(err, IsNil)
	s.Apply(t.reads, 0)
	c.Assert(names(t.reads), DeepEquals, []string{"alice", "bob", "carol"})
}

func (t *SortTest) TestStabilityOnTies(c *C) {
	// mapq alone ties alice and bob; fetch order decides.
	s, err := bamview.ParseSort("mapq")
	c.Assert(err, IsNil)
	s.Apply(t.reads, 0)
	c.Assert(names(t.reads), DeepEquals, []string{"alice", "bob", "carol"})
}

func (t *SortTest) TestStrandGroupsReverseFirst(c *C) {
	s, err := bamview.ParseSort("strand")
	c.Assert(err, IsNil)
	s.Apply(t.reads, 0)
	c.Assert(names(t.reads), DeepEquals, []string{"alice", "carol", "bob"})
}

func (t *SortTest) TestStrandAtPosition(c *C) {
	s, err := bamview.ParseSort("strand(45)")
	c.Assert(err, IsNil)
	s.Apply(t.reads, 0)
	// alice and bob cover 45 and group by strand; carol does not and
	// sorts last.
	c.Assert(names(t.reads), DeepEquals, []string{"alice", "bob", "carol"})
}

func (t *SortTest) TestStrandAtUncoveredPosition(c *C) {
	s, err := bamview.ParseSort("strand(55)")
	c.Assert(err, IsNil)
	s.Apply(t.reads, 0)
	// only carol covers 55; the others keep fetch order behind it.
	c.Assert(names(t.reads), DeepEquals, []string{"carol", "alice", "bob"})
}

func (t *SortTest) TestBaseAtPosition(c *C) {
	s, err := bamview.ParseSort("base(45)")
	c.Assert(err, IsNil)
	s.Apply(t.reads, 0)
	// bases at 45: carol none, alice C, bob G; missing sorts last.
	c.Assert(names(t.reads), DeepEquals, []string{"alice", "bob", "carol"})
}

func (t *SortTest) TestInsertSizeUsesMagnitude(c *C) {
	s, err := bamview.ParseSort("insert")
	c.Assert(err, IsNil)
	s.Apply(t.reads, 0)
	c.Assert(names(t.reads), DeepEquals, []string{"alice", "bob", "carol"})
}

func (t *SortTest) TestRewrites(c *C) {
	x, _ := bamview.ParseSort("mapq")
	c.Assert(bamview.Then(bamview.DefaultSort(), x), Equals, x)
	c.Assert(bamview.Then(x, bamview.DefaultSort()), Equals, x)
	c.Assert(bamview.Then(x, x), Equals, x)
	c.Assert(bamview.Reversed(bamview.Reversed(x)), Equals, x)
	c.Assert(bamview.Reversed(bamview.DefaultSort()).Op, Equals, bamview.SortDefault)
}

func (t *SortTest) TestThenAssociativity(c *C) {
	// the two groupings disagree structurally but order identically.
	left, err := bamview.ParseSort("then(then(strand,mapq),name)")
	c.Assert(err, IsNil)
	right, err := bamview.ParseSort("then(strand,then(mapq,name))")
	c.Assert(err, IsNil)
	a := append([]*bamview.AlignedRead(nil), t.reads...)
	b := append([]*bamview.AlignedRead(nil), t.reads...)
	left.Apply(a, 0)
	right.Apply(b, 0)
	c.Assert(names(a), DeepEquals, names(b))
}

func (t *SortTest) TestStringRoundTrip(c *C) {
	for _, q := range []string{
		"",
		"start",
		"mapq",
		"name",
		"length",
		"insert",
		"strand",
		"strand(1234)",
		"base",
		"base(45)",
		"then(strand,start)",
		"reverse(then(mapq,name))",
	} {
		s, err := bamview.ParseSort(q)
		c.Assert(err, IsNil, Commentf("%s", q))
		c.Assert(s.String(), Equals, q)
	}
}

func (t *SortTest) TestParseErrors(c *C) {
	for _, q := range []string{
		"bogus",
		"then(start)",
		"reverse",
		"strand()",
		"start extra",
	} {
		_, err := bamview.ParseSort(q)
		c.Assert(err, NotNil, Commentf("%s", q))
		c.Assert(strings.Contains(err.Error(), "parse"), Equals, true)
	}
}
