package bamview_test

import (
	"os"
	"path/filepath"

	"github.com/brentp/bamview"
	. "gopkg.in/check.v1"
)

type GeneTest struct{}

var _ = Suite(&GeneTest{})

func writeGenes(c *C, lines string) string {
	path := filepath.Join(c.MkDir(), "genes.txt")
	c.Assert(os.WriteFile(path, []byte(lines), 0644), IsNil)
	return path
}

func (t *GeneTest) TestGenePredLayout(c *C) {
	path := writeGenes(c,
		"tx1\tchr1\t+\t999\t2000\t999\t2000\t2\t999,1500,\t1200,2000,\n")
	gs, err := bamview.ReadGenes(path)
	c.Assert(err, IsNil)
	c.Assert(gs.Len(), Equals, 1)
	g := gs.Overlapping("chr1", 1, 1e9)[0]
	c.Assert(g.Name, Equals, "tx1")
	c.Assert(g.Strand, Equals, bamview.Forward)
	// half-open table coordinates become 1-based inclusive.
	c.Assert(g.Start, Equals, 1000)
	c.Assert(g.End, Equals, 2000)
	c.Assert(g.ExonStarts, DeepEquals, []int{1000, 1501})
	c.Assert(g.ExonEnds, DeepEquals, []int{1200, 2000})
}

func (t *GeneTest) TestBinColumnAndName2(c *C) {
	path := writeGenes(c,
		"585\ttx2\tchr1\t-\t2999\t4000\t2999\t4000\t2\t2999,3500,\t3200,4000,\t0\tGENE2\n")
	gs, err := bamview.ReadGenes(path)
	c.Assert(err, IsNil)
	g := gs.Overlapping("chr1", 1, 1e9)[0]
	c.Assert(g.Name, Equals, "GENE2")
	c.Assert(g.Strand, Equals, bamview.Reverse)
	c.Assert(g.Start, Equals, 3000)
}

func (t *GeneTest) TestRefFlatLayout(c *C) {
	path := writeGenes(c,
		"G3\tNM_3\tchr2\t+\t99\t500\t99\t500\t1\t99,\t500,\n")
	gs, err := bamview.ReadGenes(path)
	c.Assert(err, IsNil)
	g := gs.Overlapping("chr2", 1, 1e9)[0]
	c.Assert(g.Name, Equals, "G3")
	c.Assert(g.Chrom, Equals, "chr2")
	c.Assert(g.Start, Equals, 100)
	c.Assert(g.End, Equals, 500)
	c.Assert(g.ExonStarts, DeepEquals, []int{100})
}

func (t *GeneTest) TestCommentsAndBlanksSkipped(c *C) {
	path := writeGenes(c,
		"# header\n\ntx1\tchr1\t+\t0\t10\t0\t10\t1\t0,\t10,\n")
	gs, err := bamview.ReadGenes(path)
	c.Assert(err, IsNil)
	c.Assert(gs.Len(), Equals, 1)
}

func (t *GeneTest) TestBadLineNamesFile(c *C) {
	path := writeGenes(c, "not\tenough\tfields\n")
	_, err := bamview.ReadGenes(path)
	c.Assert(err, ErrorMatches, ".*genes.txt:1.*")
}

func navSet() *bamview.GeneSet {
	return bamview.NewGeneSet([]bamview.Gene{
		{Name: "g1", Chrom: "1", Strand: bamview.Forward, Start: 100, End: 300,
			ExonStarts: []int{100, 250}, ExonEnds: []int{150, 300}},
		{Name: "g2", Chrom: "1", Strand: bamview.Reverse, Start: 500, End: 700,
			ExonStarts: []int{500}, ExonEnds: []int{700}},
	})
}

func (t *GeneTest) TestExonMotions(c *C) {
	gs := navSet()
	n, ok := gs.NextExonStart("1", 100)
	c.Assert(ok, Equals, true)
	c.Assert(n, Equals, 250)

	p, ok := gs.PrevExonStart("1", 250)
	c.Assert(ok, Equals, true)
	c.Assert(p, Equals, 100)

	n, ok = gs.NextExonEnd("1", 150)
	c.Assert(ok, Equals, true)
	c.Assert(n, Equals, 300)

	p, ok = gs.PrevExonEnd("1", 700)
	c.Assert(ok, Equals, true)
	c.Assert(p, Equals, 300)

	_, ok = gs.NextExonStart("1", 500)
	c.Assert(ok, Equals, false)
	_, ok = gs.PrevExonStart("1", 100)
	c.Assert(ok, Equals, false)
}

func (t *GeneTest) TestGeneMotions(c *C) {
	gs := navSet()
	n, ok := gs.NextGeneStart("1", 100)
	c.Assert(ok, Equals, true)
	c.Assert(n, Equals, 500)

	p, ok := gs.PrevGeneEnd("1", 700)
	c.Assert(ok, Equals, true)
	c.Assert(p, Equals, 300)

	_, ok = gs.NextGeneEnd("1", 700)
	c.Assert(ok, Equals, false)
}

func (t *GeneTest) TestHasExons(c *C) {
	gs := navSet()
	c.Assert(gs.HasExons("1"), Equals, true)
	c.Assert(gs.HasExons("2"), Equals, false)

	bare := bamview.NewGeneSet([]bamview.Gene{{Name: "g", Chrom: "1", Start: 1, End: 10}})
	c.Assert(bare.HasExons("1"), Equals, false)

	var nilSet *bamview.GeneSet
	c.Assert(nilSet.HasExons("1"), Equals, false)
	c.Assert(nilSet.Len(), Equals, 0)
}
