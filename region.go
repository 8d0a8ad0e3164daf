package bamview

import (
	"fmt"
	"strconv"
	"strings"
)

// Region is a genomic span, 1-based inclusive.
type Region struct {
	Chrom string
	Start int
	End   int
}

func (r Region) String() string {
	return fmt.Sprintf("%s:%d-%d", r.Chrom, r.Start, r.End)
}

// Width is the number of bases the region spans.
func (r Region) Width() int { return r.End - r.Start + 1 }

// Contains reports whether pos falls inside the region.
func (r Region) Contains(pos int) bool { return pos >= r.Start && pos <= r.End }

// Overlaps reports whether [start, end] intersects the region.
func (r Region) Overlaps(start, end int) bool { return r.Start <= end && r.End >= start }

// ParseRegion parses "{chrom}:{start}-{end}", "{chrom}:{pos}" or a bare
// "{chrom}". Coordinates are 1-based inclusive; a bare position yields a
// single-base region and a bare chrom leaves Start=1, End=0 for the
// caller to bound by the contig length.
func ParseRegion(s string) (Region, error) {
	chromse := strings.Split(s, ":")
	r := Region{Chrom: chromse[0], Start: 1}
	if r.Chrom == "" {
		return r, fmt.Errorf("%w: empty region %q", ErrParse, s)
	}
	if len(chromse) == 1 {
		return r, nil
	}
	if len(chromse) != 2 {
		return r, fmt.Errorf("%w: expected {chrom}:{start}-{end}, got %q", ErrParse, s)
	}
	se := strings.SplitN(strings.ReplaceAll(chromse[1], ",", ""), "-", 2)
	start, err := strconv.Atoi(se[0])
	if err != nil {
		return r, fmt.Errorf("%w: bad start in region %q", ErrParse, s)
	}
	r.Start = start
	r.End = start
	if len(se) == 2 {
		end, err := strconv.Atoi(se[1])
		if err != nil {
			return r, fmt.Errorf("%w: bad end in region %q", ErrParse, s)
		}
		r.End = end
	}
	if r.Start < 1 || r.End < r.Start {
		return r, fmt.Errorf("%w: reversed or zero region %q", ErrParse, s)
	}
	return r, nil
}
