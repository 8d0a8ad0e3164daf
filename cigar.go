package bamview

import (
	"github.com/biogo/hts/sam"
)

// upper uppercases an ASCII base.
func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - ('a' - 'A')
	}
	return b
}

// DecodeCigar walks a cigar left to right once, emitting the rendering
// contexts for the read and feeding per-base counts into cov as it goes.
// Producing both from the same walk keeps the drawn read and the
// coverage bar from ever disagreeing.
//
// start is the 1-based alignment start. query holds the record's
// expanded sequence. ref may be nil (reference not loaded); mismatches
// are then not recomputed.
// FIXME: mismatches are recomputed against the reference here; MM/ML
// tags that encode them directly are ignored.
func DecodeCigar(start int, cigar sam.Cigar, query []byte, ref *RefSeq, cov *Coverage) []Context {
	ctxs := make([]Context, 0, len(cigar))
	var pending []Modifier

	refPivot := start
	queryPivot := 0

	push := func(c Context) {
		if len(pending) > 0 {
			c.Modifiers = append(pending, c.Modifiers...)
			pending = nil
		}
		ctxs = append(ctxs, c)
	}
	addMod := func(m Modifier) {
		if n := len(ctxs); n > 0 {
			ctxs[n-1].Modifiers = append(ctxs[n-1].Modifiers, m)
		} else {
			pending = append(pending, m)
		}
	}

	for opi, co := range cigar {
		t := co.Type()
		l := co.Len()
		switch t {
		case sam.CigarMatch, sam.CigarEqual, sam.CigarMismatch:
			ctx := Context{Kind: ContextMatch, Start: refPivot, End: refPivot + l - 1}
			for i := 0; i < l; i++ {
				base := upper(query[queryPivot+i])
				if cov != nil {
					cov.Update(refPivot+i, base)
				}
				if t == sam.CigarMismatch {
					ctx.Modifiers = append(ctx.Modifiers, Modifier{Kind: ModMismatch, Pos: refPivot + i, Base: base})
					continue
				}
				if rb, ok := ref.BaseAt(refPivot + i); ok && rb != base {
					ctx.Modifiers = append(ctx.Modifiers, Modifier{Kind: ModMismatch, Pos: refPivot + i, Base: base})
				}
			}
			push(ctx)
			refPivot += l
			queryPivot += l
		case sam.CigarInsertion:
			addMod(Modifier{Kind: ModInsertion, Pos: refPivot, Len: l})
			queryPivot += l
		case sam.CigarDeletion, sam.CigarSkipped:
			push(Context{Kind: ContextDeletion, Start: refPivot, End: refPivot + l - 1})
			refPivot += l
		case sam.CigarSoftClipped:
			// a leading clip hangs off the left of the alignment start;
			// a trailing one continues past the last consumed base.
			first := refPivot
			if opi == 0 {
				first = start - l
			}
			for i := 0; i < l; i++ {
				coord := first + i
				base := upper(query[queryPivot+i])
				if coord < 1 {
					// clipped off the contig edge.
					continue
				}
				push(Context{Kind: ContextSoftClip, Start: coord, End: coord, Base: base})
				if cov != nil {
					cov.UpdateSoftclip(coord, base)
				}
			}
			queryPivot += l
		case sam.CigarHardClipped, sam.CigarPadded:
			// consumes neither reference nor query.
		}
	}
	// an insertion (or clip) with no following span lands on nothing;
	// hang it on the last context so it still draws.
	if len(pending) > 0 && len(ctxs) > 0 {
		n := len(ctxs) - 1
		ctxs[n].Modifiers = append(ctxs[n].Modifiers, pending...)
	}
	return ctxs
}

// RefConsumed is the number of reference bases the cigar spans.
func RefConsumed(cigar sam.Cigar) int {
	var n int
	for _, co := range cigar {
		if t := co.Type(); t != sam.CigarBack {
			n += co.Len() * t.Consumes().Reference
		}
	}
	return n
}

// RefPieces returns start, end pairs (1-based inclusive) of the places
// where the cigar has query bases aligned to the reference. E.g. pos 6
// with 8M2I4M1D3M gives {6,17, 19,21}.
func RefPieces(pos int, c sam.Cigar) []int {
	if len(c) == 1 && c[0].Type() == sam.CigarMatch {
		return []int{pos, pos + c[0].Len() - 1}
	}
	p := make([]int, 0, 4)
	for _, co := range c {
		con := co.Type().Consumes()
		if con.Reference > 0 {
			if con.Query != 0 {
				if len(p) == 0 || pos != p[len(p)-1]+1 {
					p = append(p, pos, pos+co.Len()-1)
				} else {
					p[len(p)-1] = pos + co.Len() - 1
				}
			}
			pos += co.Len()
		}
	}
	return p
}
