package bamview

// ContextKind labels one visual segment of a read.
type ContextKind uint8

const (
	ContextMatch ContextKind = iota
	ContextDeletion
	ContextSoftClip
	ContextPairGap
	ContextPairOverlap
)

func (k ContextKind) String() string {
	switch k {
	case ContextMatch:
		return "match"
	case ContextDeletion:
		return "deletion"
	case ContextSoftClip:
		return "softclip"
	case ContextPairGap:
		return "pairgap"
	case ContextPairOverlap:
		return "pairoverlap"
	}
	return "unknown"
}

// ModKind labels a point decoration on a rendering context.
type ModKind uint8

const (
	ModForward ModKind = iota
	ModReverse
	ModInsertion
	ModMismatch
	ModPairConflict
)

// Modifier decorates a single coordinate of a rendering context: a strand
// arrow at the far end of the read, an insertion anchor, a mismatching
// base, or a position where two mates disagree.
type Modifier struct {
	Kind ModKind
	// Pos is the anchoring genomic coordinate (1-based).
	Pos int
	// Len is set for insertions.
	Len int
	// Base is set for mismatches.
	Base byte
}

// Context is one colored span of a read on screen: a stretch of aligned
// bases, a deletion, a soft-clipped base, or the gap/overlap joining two
// mates. Start and End are 1-based inclusive genomic coordinates. The
// contexts of one read are disjoint, sorted, and together cover exactly
// its reference footprint; insertions ride along as modifiers.
type Context struct {
	Kind  ContextKind
	Start int
	End   int
	// Base holds the clipped base for ContextSoftClip spans.
	Base      byte
	Modifiers []Modifier
}

// Width is the number of reference bases the context covers.
func (c Context) Width() int { return c.End - c.Start + 1 }

// Overlaps reports whether the context intersects [start, end].
func (c Context) Overlaps(start, end int) bool {
	return c.Start <= end && c.End >= start
}
