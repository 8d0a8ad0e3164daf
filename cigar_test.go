package bamview_test

import (
	"github.com/brentp/bamview"
	. "gopkg.in/check.v1"
)

type CigarTest struct{}

var _ = Suite(&CigarTest{})

// leading soft clip at the contig edge: coordinates below 1 are dropped.
func (t *CigarTest) TestLeadingSoftclipAtEdge(c *C) {
	cov := bamview.NewCoverage(nil)
	ctxs := bamview.DecodeCigar(3, mustCigar("5S4M"), []byte("AAAAACGTA"), nil, cov)

	// clip bases land at coords -2..2; only 1 and 2 survive.
	c.Assert(len(ctxs), Equals, 3)
	c.Assert(ctxs[0].Kind, Equals, bamview.ContextSoftClip)
	c.Assert(ctxs[0].Start, Equals, 1)
	c.Assert(ctxs[0].Base, Equals, byte('A'))
	c.Assert(ctxs[1].Kind, Equals, bamview.ContextSoftClip)
	c.Assert(ctxs[1].Start, Equals, 2)
	c.Assert(ctxs[2].Kind, Equals, bamview.ContextMatch)
	c.Assert(ctxs[2].Start, Equals, 3)
	c.Assert(ctxs[2].End, Equals, 6)

	c.Assert(cov.At(1).SoftClip, Equals, uint32(1))
	c.Assert(cov.At(2).SoftClip, Equals, uint32(1))
	c.Assert(cov.At(1).Total, Equals, uint32(0))
	c.Assert(cov.At(3).Total, Equals, uint32(1))
	c.Assert(cov.At(3).C, Equals, uint32(1))
	c.Assert(cov.At(6).A, Equals, uint32(1))
	c.Assert(cov.At(7).Total, Equals, uint32(0))
}

func (t *CigarTest) TestMismatchDetection(c *C) {
	ref := &bamview.RefSeq{Chrom: "ref", Start: 10, Seq: []byte("ACGT")}
	cov := bamview.NewCoverage(ref)
	ctxs := bamview.DecodeCigar(10, mustCigar("4M"), []byte("ACGA"), ref, cov)

	c.Assert(len(ctxs), Equals, 1)
	c.Assert(ctxs[0].Kind, Equals, bamview.ContextMatch)
	c.Assert(ctxs[0].Start, Equals, 10)
	c.Assert(ctxs[0].End, Equals, 13)
	c.Assert(len(ctxs[0].Modifiers), Equals, 1)
	c.Assert(ctxs[0].Modifiers[0], Equals, bamview.Modifier{Kind: bamview.ModMismatch, Pos: 13, Base: 'A'})

	at := cov.At(13)
	c.Assert(at.A, Equals, uint32(1))
	c.Assert(at.Total, Equals, uint32(1))
	c.Assert(at.RefBase, Equals, byte('T'))
}

// with no reference loaded, nothing is called a mismatch.
func (t *CigarTest) TestNoReferenceNoMismatch(c *C) {
	ctxs := bamview.DecodeCigar(10, mustCigar("4M"), []byte("ACGA"), nil, nil)
	c.Assert(len(ctxs), Equals, 1)
	c.Assert(len(ctxs[0].Modifiers), Equals, 0)
}

// the X op marks every base a mismatch without consulting the reference.
func (t *CigarTest) TestSequenceMismatchOp(c *C) {
	ctxs := bamview.DecodeCigar(5, mustCigar("2X"), []byte("GT"), nil, nil)
	c.Assert(len(ctxs), Equals, 1)
	c.Assert(len(ctxs[0].Modifiers), Equals, 2)
	c.Assert(ctxs[0].Modifiers[0], Equals, bamview.Modifier{Kind: bamview.ModMismatch, Pos: 5, Base: 'G'})
	c.Assert(ctxs[0].Modifiers[1], Equals, bamview.Modifier{Kind: bamview.ModMismatch, Pos: 6, Base: 'T'})
}

func (t *CigarTest) TestInsertionModifier(c *C) {
	ctxs := bamview.DecodeCigar(7, mustCigar("8M2I4M1D3M"), []byte("TTAGATAAAGGATACTG"), nil, nil)
	// match, match, deletion, match
	c.Assert(len(ctxs), Equals, 4)
	c.Assert(ctxs[0].Kind, Equals, bamview.ContextMatch)
	c.Assert(ctxs[0].End, Equals, 14)
	// insertion anchors at the base after the 8M span.
	c.Assert(ctxs[0].Modifiers, DeepEquals, []bamview.Modifier{{Kind: bamview.ModInsertion, Pos: 15, Len: 2}})
	c.Assert(ctxs[1].Start, Equals, 15)
	c.Assert(ctxs[1].End, Equals, 18)
	c.Assert(ctxs[2].Kind, Equals, bamview.ContextDeletion)
	c.Assert(ctxs[2].Start, Equals, 19)
	c.Assert(ctxs[2].End, Equals, 19)
	c.Assert(ctxs[3].Start, Equals, 20)
	c.Assert(ctxs[3].End, Equals, 22)
}

func (t *CigarTest) TestSkipDrawsAsDeletion(c *C) {
	ctxs := bamview.DecodeCigar(16, mustCigar("6M14N5M"), []byte("ATAGCTTCAGC"), nil, nil)
	c.Assert(len(ctxs), Equals, 3)
	c.Assert(ctxs[1].Kind, Equals, bamview.ContextDeletion)
	c.Assert(ctxs[1].Start, Equals, 22)
	c.Assert(ctxs[1].End, Equals, 35)
	c.Assert(ctxs[2].End, Equals, 40)
}

func (t *CigarTest) TestTrailingSoftclip(c *C) {
	ctxs := bamview.DecodeCigar(10, mustCigar("4M3S"), []byte("ACGTTTT"), nil, nil)
	c.Assert(len(ctxs), Equals, 4)
	c.Assert(ctxs[1].Kind, Equals, bamview.ContextSoftClip)
	c.Assert(ctxs[1].Start, Equals, 14)
	c.Assert(ctxs[3].Start, Equals, 16)
}

func (t *CigarTest) TestEmptyCigar(c *C) {
	ctxs := bamview.DecodeCigar(10, nil, nil, nil, nil)
	c.Assert(len(ctxs), Equals, 0)
}

// union of context spans covers the footprint exactly: disjoint, sorted,
// contiguous from the first drawn coordinate to the last.
func (t *CigarTest) TestContextsCoverFootprint(c *C) {
	for _, tc := range []struct {
		pos   int
		cigar string
		seq   string
	}{
		{7, "8M2I4M1D3M", "TTAGATAAAGGATACTG"},
		{9, "3S6M1P1I4M", "AAAAGATAAGGATA"},
		{9, "5S6M", "GCCTAAGCTAA"},
		{16, "6M14N5M", "ATAGCTTCAGC"},
		{29, "6H5M", "TAGGC"},
		{37, "9M", "CAGCGGCAT"},
	} {
		ctxs := bamview.DecodeCigar(tc.pos, mustCigar(tc.cigar), []byte(tc.seq), nil, nil)
		c.Assert(len(ctxs) > 0, Equals, true)
		for i := 1; i < len(ctxs); i++ {
			c.Assert(ctxs[i].Start, Equals, ctxs[i-1].End+1,
				Commentf("%s: context %d not contiguous", tc.cigar, i))
		}
		refLen := bamview.RefConsumed(mustCigar(tc.cigar))
		last := ctxs[len(ctxs)-1]
		c.Assert(last.End >= tc.pos+refLen-1, Equals, true, Commentf("%s", tc.cigar))
	}
}

func (t *CigarTest) TestRefPieces(c *C) {
	c.Assert(bamview.RefPieces(7, mustCigar("8M2I4M1D3M")), DeepEquals, []int{7, 18, 20, 22})
	c.Assert(bamview.RefPieces(5, mustCigar("22M")), DeepEquals, []int{5, 26})
	c.Assert(bamview.RefPieces(16, mustCigar("6M14N5M")), DeepEquals, []int{16, 21, 36, 40})
}

func (t *CigarTest) TestRefConsumed(c *C) {
	c.Assert(bamview.RefConsumed(mustCigar("8M2I4M1D3M")), Equals, 16)
	c.Assert(bamview.RefConsumed(mustCigar("5S6M")), Equals, 6)
	c.Assert(bamview.RefConsumed(mustCigar("6M14N5M")), Equals, 25)
}
