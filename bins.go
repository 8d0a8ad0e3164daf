package bamview

import "fmt"

// altFractionDenom is the reciprocal of the alt-allele fraction needed
// before the alt stack shows at basewise zoom: 100 means 1%.
// TODO: decide whether this should come from settings.
const altFractionDenom = 100

// Bins is the two-stack coverage histogram behind the coverage bar:
// Alt on top of Ref, one entry per screen column. At basewise zoom Alt
// carries the deepest non-reference base where its fraction clears the
// threshold; zoomed out, Alt is empty and Ref carries binned totals.
type Bins struct {
	Alt []int
	Ref []int
}

// Max is the tallest stacked column, for scaling the sparkline.
func (b Bins) Max() int {
	var m int
	for i := range b.Ref {
		if t := b.Ref[i] + b.Alt[i]; t > m {
			m = t
		}
	}
	return m
}

// BinCoverage splits [left, right] (1-based inclusive) into n columns
// and stacks coverage into them. Bin edges are computed in float64:
// float32 loses integer precision past 2^24, well inside chromosome
// coordinate range.
func BinCoverage(cov *Coverage, left, right, n int) (Bins, error) {
	width := right - left + 1
	switch {
	case n == 0:
		return Bins{}, fmt.Errorf("%w: zero bins", ErrInvalidArgument)
	case right < left:
		return Bins{}, fmt.Errorf("%w: reversed span %d-%d", ErrInvalidArgument, left, right)
	case n > width:
		return Bins{}, fmt.Errorf("%w: %d bins for %d bases", ErrInvalidArgument, n, width)
	}
	b := Bins{Alt: make([]int, n), Ref: make([]int, n)}
	if n == width {
		// basewise: split each column into alt depth vs the rest.
		for x := 0; x < n; x++ {
			c := cov.At(left + x)
			t := int(c.Total)
			if m, ok := c.MaxAltDepth(); ok && int(m)*altFractionDenom > t {
				b.Alt[x] = int(m)
				b.Ref[x] = t - int(m)
			} else {
				b.Ref[x] = t
			}
		}
		return b, nil
	}
	for x := 0; x < n; x++ {
		lo := left + int(float64(x)*float64(width)/float64(n))
		hi := left + int(float64(x+1)*float64(width)/float64(n)) - 1
		for pos := lo; pos <= hi; pos++ {
			b.Ref[x] += int(cov.At(pos).Total)
		}
	}
	return b, nil
}
