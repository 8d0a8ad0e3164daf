package bamview

import "sort"

// Interval is one annotated span from a BED, VCF or track file,
// 1-based inclusive.
type Interval struct {
	Chrom string
	Start int
	End   int
	// Name carries the display label: a BED name, a variant's
	// REF>ALT, a cytoband stain.
	Name string
}

// Overlaps reports whether the interval intersects [start, end].
func (iv Interval) Overlaps(start, end int) bool {
	return iv.Start <= end && iv.End >= start
}

// IntervalSet is a sorted interval collection with a per-contig index.
// Overlap queries scan the contig's slice linearly; track inputs are
// small enough that anything cleverer is not worth the bookkeeping.
type IntervalSet struct {
	ivs    []Interval
	byChr  map[string][]int
	sorted bool
}

// NewIntervalSet builds a set from the given intervals, sorting them by
// (contig, start, end).
func NewIntervalSet(ivs []Interval) *IntervalSet {
	s := &IntervalSet{ivs: ivs}
	s.index()
	return s
}

func (s *IntervalSet) index() {
	sort.SliceStable(s.ivs, func(i, j int) bool {
		a, b := s.ivs[i], s.ivs[j]
		if a.Chrom != b.Chrom {
			return a.Chrom < b.Chrom
		}
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		return a.End < b.End
	})
	s.byChr = make(map[string][]int)
	for i, iv := range s.ivs {
		s.byChr[iv.Chrom] = append(s.byChr[iv.Chrom], i)
	}
	s.sorted = true
}

// Len is the total interval count.
func (s *IntervalSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.ivs)
}

// Overlapping returns every interval on chrom intersecting [start, end],
// in stored (sorted) order.
func (s *IntervalSet) Overlapping(chrom string, start, end int) []Interval {
	if s == nil {
		return nil
	}
	var out []Interval
	for _, i := range s.byChr[chrom] {
		if iv := s.ivs[i]; iv.Overlaps(start, end) {
			out = append(out, iv)
		}
	}
	return out
}

// NextStart returns the first interval start on chrom strictly after
// pos, ok=false when there is none.
func (s *IntervalSet) NextStart(chrom string, pos int) (int, bool) {
	if s == nil {
		return 0, false
	}
	for _, i := range s.byChr[chrom] {
		if s.ivs[i].Start > pos {
			return s.ivs[i].Start, true
		}
	}
	return 0, false
}

// PrevStart returns the last interval start on chrom strictly before
// pos, ok=false when there is none.
func (s *IntervalSet) PrevStart(chrom string, pos int) (int, bool) {
	if s == nil {
		return 0, false
	}
	best, ok := 0, false
	for _, i := range s.byChr[chrom] {
		if s.ivs[i].Start >= pos {
			break
		}
		best, ok = s.ivs[i].Start, true
	}
	return best, ok
}
