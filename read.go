package bamview

import (
	"fmt"

	"github.com/biogo/hts/sam"
)

// Strand of an alignment, following the sam.Record.Strand convention.
type Strand int8

const (
	Forward Strand = 1
	Reverse Strand = -1
)

// Flip returns the opposite strand.
func (s Strand) Flip() Strand { return -s }

func (s Strand) String() string {
	if s == Reverse {
		return "-"
	}
	return "+"
}

// AlignedRead owns everything the viewer needs from one BAM record:
// coordinates, flags, the decoded rendering contexts, and the query
// bases kept for filtering and hover. It is built once at ingest and
// the underlying sam.Record is not touched afterwards. Reads live for
// one region fetch and are referenced by index from lanes and pairs.
type AlignedRead struct {
	// Idx is the read's position in the fetch order, stable for the
	// lifetime of one Alignments value.
	Idx   int
	Name  string
	Chrom string
	// Start and End are the 1-based inclusive reference span consumed
	// by the alignment (soft clips excluded; see Footprint).
	Start  int
	End    int
	Strand Strand
	MapQ   byte
	Flags  sam.Flags
	// MatePos is the mate's 1-based start, 0 when unmapped or absent.
	MatePos    int
	MateChrom  string
	InsertSize int
	Cigar      sam.Cigar
	// Seq is the expanded query sequence, 0-based.
	Seq      []byte
	Tags     map[string]string
	Contexts []Context
}

// NewAlignedRead decodes one record into an AlignedRead, feeding its
// per-base counts into cov (which may be nil).
func NewAlignedRead(idx int, rec *sam.Record, ref *RefSeq, cov *Coverage) *AlignedRead {
	start := rec.Start() + 1
	r := &AlignedRead{
		Idx:        idx,
		Name:       rec.Name,
		Chrom:      rec.Ref.Name(),
		Start:      start,
		End:        start + RefConsumed(rec.Cigar) - 1,
		Strand:     Strand(rec.Strand()),
		MapQ:       rec.MapQ,
		Flags:      rec.Flags,
		InsertSize: rec.TempLen,
		Cigar:      rec.Cigar,
		Seq:        rec.Seq.Expand(),
	}
	if rec.MateRef != nil && rec.MatePos >= 0 {
		r.MatePos = rec.MatePos + 1
		r.MateChrom = rec.MateRef.Name()
	}
	if len(rec.AuxFields) > 0 {
		r.Tags = make(map[string]string, len(rec.AuxFields))
		for _, aux := range rec.AuxFields {
			r.Tags[aux.Tag().String()] = fmt.Sprint(aux.Value())
		}
	}
	r.Contexts = DecodeCigar(start, rec.Cigar, r.Seq, ref, cov)
	r.addStrandModifier()
	return r
}

// addStrandModifier hangs the direction arrow on the read: at the far
// end for forward reads, the near end for reverse.
func (r *AlignedRead) addStrandModifier() {
	if len(r.Contexts) == 0 {
		return
	}
	if r.Strand == Reverse {
		c := &r.Contexts[0]
		c.Modifiers = append([]Modifier{{Kind: ModReverse, Pos: c.Start}}, c.Modifiers...)
		return
	}
	c := &r.Contexts[len(r.Contexts)-1]
	c.Modifiers = append(c.Modifiers, Modifier{Kind: ModForward, Pos: c.End})
}

// Footprint is the full drawn span of the read, soft clips included.
func (r *AlignedRead) Footprint() (start, end int) {
	if len(r.Contexts) == 0 {
		return r.Start, r.End
	}
	return r.Contexts[0].Start, r.Contexts[len(r.Contexts)-1].End
}

// Overlaps reports whether the drawn read intersects [start, end].
func (r *AlignedRead) Overlaps(start, end int) bool {
	s, e := r.Footprint()
	return s <= end && e >= start
}

// AlignedLength is the number of reference bases the alignment consumes.
func (r *AlignedRead) AlignedLength() int { return r.End - r.Start + 1 }

// BaseAt returns the read's base call aligned to reference position pos,
// or ok=false over deletions, skips and outside the alignment. Walks the
// cigar the same way the decoder does.
func (r *AlignedRead) BaseAt(pos int) (byte, bool) {
	refPivot := r.Start
	queryPivot := 0
	for _, co := range r.Cigar {
		con := co.Type().Consumes()
		l := co.Len()
		if con.Reference > 0 && con.Query > 0 && pos >= refPivot && pos < refPivot+l {
			return upper(r.Seq[queryPivot+(pos-refPivot)]), true
		}
		refPivot += l * con.Reference
		queryPivot += l * con.Query
	}
	return 0, false
}

// SoftClipAt reports whether the read has a soft-clipped base drawn at pos.
func (r *AlignedRead) SoftClipAt(pos int) bool {
	for _, c := range r.Contexts {
		if c.Kind == ContextSoftClip && c.Start == pos {
			return true
		}
	}
	return false
}

// Tag returns the printed value of an aux tag, ok=false when absent.
func (r *AlignedRead) Tag(name string) (string, bool) {
	v, ok := r.Tags[name]
	return v, ok
}
