package bamview

import (
	"strings"

	"github.com/brentp/faidx"
)

// RefSeq is a snapshot of reference sequence for one contig span.
// Start is 1-based; Seq[0] is the base at Start. A nil RefSeq or a
// position outside the snapshot reads as "not loaded".
type RefSeq struct {
	Chrom string
	Start int
	Seq   []byte
}

// BaseAt returns the uppercased reference base at pos (1-based), or
// ok=false when pos lies outside the snapshot.
func (r *RefSeq) BaseAt(pos int) (byte, bool) {
	if r == nil {
		return 0, false
	}
	i := pos - r.Start
	if i < 0 || i >= len(r.Seq) {
		return 0, false
	}
	b := r.Seq[i]
	if b >= 'a' && b <= 'z' {
		b -= 'a' - 'A'
	}
	return b, true
}

// End is the last position in the snapshot (1-based inclusive).
func (r *RefSeq) End() int {
	if r == nil {
		return 0
	}
	return r.Start + len(r.Seq) - 1
}

// FetchRef pulls [start, end] (1-based inclusive) for chrom from an
// indexed fasta. A nil faidx yields a nil snapshot, which the decoder
// treats as reference-not-loaded.
func FetchRef(fai *faidx.Faidx, chrom string, start, end int) (*RefSeq, error) {
	if fai == nil {
		return nil, nil
	}
	if start < 1 {
		start = 1
	}
	// faidx takes 0-based half-open coordinates.
	s, err := fai.Get(chrom, start-1, end)
	if err != nil {
		return nil, err
	}
	return &RefSeq{Chrom: chrom, Start: start, Seq: []byte(strings.ToUpper(s))}, nil
}
