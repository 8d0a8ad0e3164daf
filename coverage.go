package bamview

// BaseCoverage holds the per-base pileup at a single reference position.
// Soft-clipped bases are counted separately and do not enter Total.
type BaseCoverage struct {
	A        uint32
	C        uint32
	G        uint32
	T        uint32
	N        uint32
	Total    uint32
	SoftClip uint32
	// RefBase is the reference base at this position, 'N' when the
	// reference is not loaded.
	RefBase byte
}

// Update counts one aligned base call. Anything that is not ACGT counts as N.
func (b *BaseCoverage) Update(base byte) {
	switch base {
	case 'A', 'a':
		b.A++
	case 'C', 'c':
		b.C++
	case 'G', 'g':
		b.G++
	case 'T', 't':
		b.T++
	default:
		b.N++
	}
	b.Total++
}

// UpdateSoftclip counts one soft-clipped base. It does not touch Total.
func (b *BaseCoverage) UpdateSoftclip(base byte) {
	b.SoftClip++
}

// Add sums another position's counts into b for span summaries in the
// status bar. The reference base of b is left alone.
func (b *BaseCoverage) Add(o BaseCoverage) {
	b.A += o.A
	b.C += o.C
	b.G += o.G
	b.T += o.T
	b.N += o.N
	b.Total += o.Total
	b.SoftClip += o.SoftClip
}

// Depth returns the count for one base.
func (b BaseCoverage) Depth(base byte) uint32 {
	switch base {
	case 'A':
		return b.A
	case 'C':
		return b.C
	case 'G':
		return b.G
	case 'T':
		return b.T
	case 'N':
		return b.N
	}
	return 0
}

// MaxAltDepth is the deepest count among the three non-reference bases.
// ok is false when the reference base is not one of ACGT.
func (b BaseCoverage) MaxAltDepth() (depth uint32, ok bool) {
	switch b.RefBase {
	case 'A', 'C', 'G', 'T':
	default:
		return 0, false
	}
	for _, base := range [4]byte{'A', 'C', 'G', 'T'} {
		if base == b.RefBase {
			continue
		}
		if d := b.Depth(base); d > depth {
			depth = d
		}
	}
	return depth, true
}

// Coverage is a sparse pileup over one region: reference position
// (1-based) to per-base counts. Entries pick up their reference base at
// first touch so mismatch coloring and alt depth stay consistent even
// when the reference arrives after the reads.
type Coverage struct {
	m   map[int]*BaseCoverage
	ref *RefSeq
}

// NewCoverage returns an empty Coverage. ref may be nil when no
// reference sequence is loaded.
func NewCoverage(ref *RefSeq) *Coverage {
	return &Coverage{m: make(map[int]*BaseCoverage), ref: ref}
}

func (c *Coverage) entry(pos int) *BaseCoverage {
	b, ok := c.m[pos]
	if !ok {
		b = &BaseCoverage{RefBase: 'N'}
		if c.ref != nil {
			if rb, ok := c.ref.BaseAt(pos); ok {
				b.RefBase = rb
			}
		}
		c.m[pos] = b
	}
	return b
}

// Update counts base at pos.
func (c *Coverage) Update(pos int, base byte) {
	c.entry(pos).Update(base)
}

// UpdateSoftclip counts a soft-clipped base at pos.
func (c *Coverage) UpdateSoftclip(pos int, base byte) {
	c.entry(pos).UpdateSoftclip(base)
}

// At returns the coverage at pos, a zero-valued entry when nothing
// covers it.
func (c *Coverage) At(pos int) BaseCoverage {
	if b, ok := c.m[pos]; ok {
		return *b
	}
	return BaseCoverage{RefBase: 'N'}
}

// Len is the number of covered positions.
func (c *Coverage) Len() int { return len(c.m) }

// Covered reports whether pos has any counts.
func (c *Coverage) Covered(pos int) bool {
	_, ok := c.m[pos]
	return ok
}

// Summarize adds up every position in [start, end] for the status bar.
func (c *Coverage) Summarize(start, end int) BaseCoverage {
	var sum BaseCoverage
	sum.RefBase = 'N'
	for pos := start; pos <= end; pos++ {
		if b, ok := c.m[pos]; ok {
			sum.Add(*b)
		}
	}
	return sum
}
