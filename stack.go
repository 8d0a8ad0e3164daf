package bamview

import "github.com/biogo/hts/sam"

// MinGap is the smallest number of empty columns kept between two reads
// sharing a lane.
const MinGap = 3

// Stack packs reads into non-overlapping horizontal lanes, greedily and
// in the given order: each read lands in the first lane whose rightmost
// occupant ends more than MinGap bases before the read starts. nreads
// sizes the ys mapping (reads may be a filtered subset); reads absent
// from the input get y = -1.
//
// Returned lanes hold read indices; ys is the dual mapping from read
// index to lane.
func Stack(reads []*AlignedRead, nreads int) (lanes [][]int, ys []int) {
	ys = make([]int, nreads)
	for i := range ys {
		ys[i] = -1
	}
	var rights []int
	for _, r := range reads {
		start, end := r.Footprint()
		lane := -1
		for k, right := range rights {
			if start > right+MinGap {
				lane = k
				break
			}
		}
		if lane == -1 {
			lane = len(lanes)
			lanes = append(lanes, nil)
			rights = append(rights, end)
		} else if end > rights[lane] {
			rights[lane] = end
		}
		lanes[lane] = append(lanes[lane], r.Idx)
		ys[r.Idx] = lane
	}
	return lanes, ys
}

// ReadPair joins two mates into one visual unit. R1 and R2 index into
// the owning Alignments' reads; R2 is -1 while the mate is outside the
// fetched region. Contexts holds both mates' contexts plus a single
// PairGap or PairOverlap joining them.
type ReadPair struct {
	Idx   int
	R1    int
	R2    int
	Start int
	End   int
	// Show is set only when both mates landed in the region; a lone
	// mate keeps its lane so hit tests stay stable, but is not drawn
	// as a pair.
	Show     bool
	Contexts []Context
}

// Overlaps reports whether the pair's drawn span intersects [start, end].
func (p *ReadPair) Overlaps(start, end int) bool {
	return p.Start <= end && p.End >= start
}

func pairable(a, b *AlignedRead) bool {
	const exclude = sam.Secondary | sam.Supplementary
	if a.Flags&sam.Paired == 0 || b.Flags&sam.Paired == 0 {
		return false
	}
	if a.Flags&exclude != 0 || b.Flags&exclude != 0 {
		return false
	}
	if a.Flags&sam.Read1 != b.Flags&sam.Read1 {
		return true
	}
	// same read-ordinal flags: accept only opposite strands, so two
	// records that are really duplicates stay unpaired.
	return a.Strand != b.Strand
}

// BuildPairs groups reads by name into visual pairs, in read order.
// A read whose mate never shows up (or never pairs) becomes a
// single-mate pair with Show unset.
func BuildPairs(reads []*AlignedRead) []*ReadPair {
	pairs := make([]*ReadPair, 0, len(reads)/2+1)
	mates := make([][2]*AlignedRead, 0, cap(pairs))
	open := make(map[string]int, len(reads))
	for _, r := range reads {
		start, end := r.Footprint()
		if pi, ok := open[r.Name]; ok && pairable(mates[pi][0], r) {
			p := pairs[pi]
			p.R2 = r.Idx
			p.Show = true
			mates[pi][1] = r
			if start < p.Start {
				p.Start = start
			}
			if end > p.End {
				p.End = end
			}
			delete(open, r.Name)
			continue
		}
		p := &ReadPair{Idx: len(pairs), R1: r.Idx, R2: -1, Start: start, End: end}
		pairs = append(pairs, p)
		mates = append(mates, [2]*AlignedRead{r, nil})
		open[r.Name] = p.Idx
	}
	for i, p := range pairs {
		p.Contexts = pairContexts(mates[i][0], mates[i][1])
	}
	return pairs
}

// pairContexts builds the pair's drawn contexts: both mates' own
// contexts plus one joining PairGap or PairOverlap. Where the mates
// overlap, positions at which both report a base and the calls differ
// get a PairConflict modifier.
func pairContexts(a, b *AlignedRead) []Context {
	if b == nil {
		return a.Contexts
	}
	if b.Start < a.Start || (b.Start == a.Start && b.End < a.End) {
		a, b = b, a
	}
	ctxs := make([]Context, 0, len(a.Contexts)+len(b.Contexts)+1)
	if b.Start > a.End {
		ctxs = append(ctxs, a.Contexts...)
		if gapEnd := b.Start - 1; gapEnd >= a.End+1 {
			ctxs = append(ctxs, Context{Kind: ContextPairGap, Start: a.End + 1, End: gapEnd})
		}
		return append(ctxs, b.Contexts...)
	}
	ctxs = append(ctxs, a.Contexts...)
	ctxs = append(ctxs, b.Contexts...)
	ov := Context{Kind: ContextPairOverlap, Start: b.Start, End: min(a.End, b.End)}
	for pos := ov.Start; pos <= ov.End; pos++ {
		ab, aok := a.BaseAt(pos)
		bb, bok := b.BaseAt(pos)
		if aok && bok && ab != bb {
			ov.Modifiers = append(ov.Modifiers, Modifier{Kind: ModPairConflict, Pos: pos})
		}
	}
	return append(ctxs, ov)
}

// StackPairs packs pairs into lanes over their joint footprints, using
// the same greedy rule as Stack. Returned lanes hold pair indices; ys
// maps read index to the lane of its pair.
func StackPairs(pairs []*ReadPair, nreads int) (lanes [][]int, ys []int) {
	ys = make([]int, nreads)
	for i := range ys {
		ys[i] = -1
	}
	var rights []int
	for _, p := range pairs {
		lane := -1
		for k, right := range rights {
			if p.Start > right+MinGap {
				lane = k
				break
			}
		}
		if lane == -1 {
			lane = len(lanes)
			lanes = append(lanes, nil)
			rights = append(rights, p.End)
		} else if p.End > rights[lane] {
			rights[lane] = p.End
		}
		lanes[lane] = append(lanes[lane], p.Idx)
		ys[p.R1] = lane
		if p.R2 >= 0 {
			ys[p.R2] = lane
		}
	}
	return lanes, ys
}
