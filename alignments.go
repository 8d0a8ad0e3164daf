package bamview

import (
	"fmt"

	"github.com/biogo/hts/sam"
)

// Alignments is the published model for one fetched region: the reads in
// fetch order, their decoded contexts, the folded coverage, and the lane
// layout. Lanes and pairs reference reads by index; nothing points back.
// The value is immutable once published except through Restack, which
// only rewrites the layout.
type Alignments struct {
	Region Region
	Reads  []*AlignedRead
	// Coverage maps reference position to per-base counts over every
	// ingested read, unaffected by filtering.
	Coverage *Coverage
	// Lanes holds read indices (pair indices when Pairs is set); lane k
	// draws at y = k.
	Lanes [][]int
	// Ys is the dual of Lanes: read index to lane, -1 when filtered out.
	Ys []int
	// Pairs is set when viewing as pairs.
	Pairs []*ReadPair
}

// NewAlignments ingests raw records for region: decode each cigar once,
// fold coverage, then pack lanes (pairing mates when asPairs is set).
// Records that fail opts's flag or mapping-quality gates are dropped
// before ingest. The returned model has passed its invariant check.
func NewAlignments(records []*sam.Record, ref *RefSeq, region Region, opts Options, asPairs bool) (*Alignments, error) {
	a := &Alignments{Region: region, Coverage: NewCoverage(ref)}
	for _, rec := range records {
		if !opts.passes(rec) {
			continue
		}
		a.Reads = append(a.Reads, NewAlignedRead(len(a.Reads), rec, ref, a.Coverage))
	}
	a.restack(a.Reads, asPairs)
	if err := a.check(); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *Alignments) restack(reads []*AlignedRead, asPairs bool) {
	if asPairs {
		a.Pairs = BuildPairs(reads)
		a.Lanes, a.Ys = StackPairs(a.Pairs, len(a.Reads))
		return
	}
	a.Pairs = nil
	a.Lanes, a.Ys = Stack(reads, len(a.Reads))
}

// Restack relays the reads without refetching: filter, stable sort,
// then lane assignment over the survivors. A nil filter and sort mean
// fetch order, everything shown.
func (a *Alignments) Restack(f *Filter, s *Sort, focus int, asPairs bool) {
	kept := make([]*AlignedRead, 0, len(a.Reads))
	for _, r := range a.Reads {
		if f.Eval(r, focus) {
			kept = append(kept, r)
		}
	}
	s.Apply(kept, focus)
	a.restack(kept, asPairs)
}

// Depth is the number of occupied lanes.
func (a *Alignments) Depth() int { return len(a.Lanes) }

// CoverageAt returns the pileup at pos, zero-valued outside the region.
func (a *Alignments) CoverageAt(pos int) BaseCoverage {
	if !a.Region.Contains(pos) {
		return BaseCoverage{RefBase: 'N'}
	}
	return a.Coverage.At(pos)
}

// ReadOverlapping hit-tests lane for a read drawn anywhere in the
// genomic span [start, end]; mouse hover routes here after the Window
// translates the cell back to coordinates. Returns nil when the lane is
// out of range or nothing is hit.
func (a *Alignments) ReadOverlapping(start, end, lane int) *AlignedRead {
	if lane < 0 || lane >= len(a.Lanes) {
		return nil
	}
	if a.Pairs != nil {
		for _, pi := range a.Lanes[lane] {
			p := a.Pairs[pi]
			if !p.Overlaps(start, end) {
				continue
			}
			if r := a.Reads[p.R1]; r.Overlaps(start, end) {
				return r
			}
			if p.R2 >= 0 {
				if r := a.Reads[p.R2]; r.Overlaps(start, end) {
					return r
				}
			}
		}
		return nil
	}
	for _, ri := range a.Lanes[lane] {
		if r := a.Reads[ri]; r.Overlaps(start, end) {
			return r
		}
	}
	return nil
}

// PairOverlapping hit-tests lane for a pair footprint, used for hover in
// pair view when the cursor is on the gap between mates.
func (a *Alignments) PairOverlapping(start, end, lane int) *ReadPair {
	if a.Pairs == nil || lane < 0 || lane >= len(a.Lanes) {
		return nil
	}
	for _, pi := range a.Lanes[lane] {
		if p := a.Pairs[pi]; p.Overlaps(start, end) {
			return p
		}
	}
	return nil
}

// check verifies the publish-time invariants: lanes strictly sorted and
// gapped, Ys and Lanes mutual inverses, pair indices in range. A
// failure here is a bug; the caller keeps the previous model.
func (a *Alignments) check() error {
	seen := make(map[int]int, len(a.Reads))
	for k, lane := range a.Lanes {
		prevEnd := -1 << 62
		for i, idx := range lane {
			var start, end int
			if a.Pairs != nil {
				if idx < 0 || idx >= len(a.Pairs) {
					return fmt.Errorf("%w: lane %d holds pair %d of %d", ErrState, k, idx, len(a.Pairs))
				}
				p := a.Pairs[idx]
				start, end = p.Start, p.End
				if p.R1 < 0 || p.R1 >= len(a.Reads) || p.R2 >= len(a.Reads) {
					return fmt.Errorf("%w: pair %d references read out of range", ErrState, idx)
				}
			} else {
				if idx < 0 || idx >= len(a.Reads) {
					return fmt.Errorf("%w: lane %d holds read %d of %d", ErrState, k, idx, len(a.Reads))
				}
				start, end = a.Reads[idx].Footprint()
			}
			if i > 0 && start <= prevEnd+MinGap {
				return fmt.Errorf("%w: lane %d breaks the gap rule at %d", ErrState, k, start)
			}
			prevEnd = end
			if prev, dup := seen[idx]; dup {
				return fmt.Errorf("%w: item %d in lanes %d and %d", ErrState, idx, prev, k)
			}
			seen[idx] = k
		}
	}
	if len(a.Ys) != len(a.Reads) {
		return fmt.Errorf("%w: ys covers %d of %d reads", ErrState, len(a.Ys), len(a.Reads))
	}
	// map each read to its lane through its pair, then verify Ys agrees.
	laneOf := seen
	if a.Pairs != nil {
		laneOf = make(map[int]int, len(a.Reads))
		for pi, k := range seen {
			p := a.Pairs[pi]
			laneOf[p.R1] = k
			if p.R2 >= 0 {
				laneOf[p.R2] = k
			}
		}
	}
	for idx, y := range a.Ys {
		lane, inLane := laneOf[idx]
		if y == -1 {
			if inLane {
				return fmt.Errorf("%w: filtered read %d still in lane %d", ErrState, idx, lane)
			}
			continue
		}
		if !inLane || lane != y {
			return fmt.Errorf("%w: ys[%d]=%d disagrees with lanes", ErrState, idx, y)
		}
	}
	return nil
}
