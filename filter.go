package bamview

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// FilterOp tags a node of the read-filter tree.
type FilterOp uint8

const (
	// FilterDefault is the empty filter: it keeps everything and is the
	// identity for And and Or, so the textual form stays stable while
	// the user composes a filter interactively.
	FilterDefault FilterOp = iota
	FilterTrue
	FilterFalse
	FilterStartsIn
	FilterEndsIn
	FilterOverlaps
	FilterStrand
	FilterBase
	FilterBaseAtFocus
	FilterSoftclip
	FilterMapQGE
	FilterMapQLE
	FilterFlagsAll
	FilterFlagsAny
	FilterFlagsEq
	FilterTag
	FilterAnd
	FilterOr
	FilterNot
)

// Filter is one node of a composable read predicate. Build trees with
// the And/Or/Not constructors rather than by hand: they apply the
// rewrite rules that keep the displayed textual form canonical.
type Filter struct {
	Op FilterOp
	X  *Filter
	Y  *Filter
	// Lo, Hi bound StartsIn/EndsIn/Overlaps spans.
	Lo int
	Hi int
	// N holds a flags mask or a mapping-quality bound.
	N uint16
	// Pos anchors Base and Softclip atoms.
	Pos    int
	Base   byte
	Strand Strand
	Tag    string
	Value  string
}

// DefaultFilter is the empty, keep-everything filter.
func DefaultFilter() *Filter { return &Filter{Op: FilterDefault} }

// And conjoins two filters, applying the canonical rewrites:
// identity under Default, FlagsAll mask merging, and And(x,x)=x.
func And(a, b *Filter) *Filter {
	if a == nil || a.Op == FilterDefault {
		return b
	}
	if b == nil || b.Op == FilterDefault {
		return a
	}
	if a.Op == FilterFlagsAll && b.Op == FilterFlagsAll {
		return &Filter{Op: FilterFlagsAll, N: a.N & b.N}
	}
	if reflect.DeepEqual(a, b) {
		return a
	}
	return &Filter{Op: FilterAnd, X: a, Y: b}
}

// Or disjoins two filters, applying the canonical rewrites:
// identity under Default, FlagsAny mask merging, and Or(x,x)=x.
func Or(a, b *Filter) *Filter {
	if a == nil || a.Op == FilterDefault {
		return b
	}
	if b == nil || b.Op == FilterDefault {
		return a
	}
	if a.Op == FilterFlagsAny && b.Op == FilterFlagsAny {
		return &Filter{Op: FilterFlagsAny, N: a.N | b.N}
	}
	if reflect.DeepEqual(a, b) {
		return a
	}
	return &Filter{Op: FilterOr, X: a, Y: b}
}

// Not negates a filter. Strand atoms flip in place and double negation
// cancels, so "not" never piles up in the displayed form.
func Not(a *Filter) *Filter {
	if a == nil {
		return &Filter{Op: FilterNot, X: DefaultFilter()}
	}
	switch a.Op {
	case FilterStrand:
		return &Filter{Op: FilterStrand, Strand: a.Strand.Flip()}
	case FilterNot:
		return a.X
	}
	return &Filter{Op: FilterNot, X: a}
}

// Eval applies the predicate to one read. focus is the genomic
// coordinate base-at-focus atoms refer to.
func (f *Filter) Eval(r *AlignedRead, focus int) bool {
	if f == nil {
		return true
	}
	switch f.Op {
	case FilterDefault, FilterTrue:
		return true
	case FilterFalse:
		return false
	case FilterStartsIn:
		return r.Start >= f.Lo && r.Start <= f.Hi
	case FilterEndsIn:
		return r.End >= f.Lo && r.End <= f.Hi
	case FilterOverlaps:
		// the aligned span, like starts_in/ends_in; clips are the
		// softclip atom's business.
		return r.Start <= f.Hi && r.End >= f.Lo
	case FilterStrand:
		return r.Strand == f.Strand
	case FilterBase:
		b, ok := r.BaseAt(f.Pos)
		return ok && b == f.Base
	case FilterBaseAtFocus:
		b, ok := r.BaseAt(focus)
		return ok && b == f.Base
	case FilterSoftclip:
		return r.SoftClipAt(f.Pos)
	case FilterMapQGE:
		return uint16(r.MapQ) >= f.N
	case FilterMapQLE:
		return uint16(r.MapQ) <= f.N
	case FilterFlagsAll:
		return uint16(r.Flags)&f.N == f.N
	case FilterFlagsAny:
		return uint16(r.Flags)&f.N != 0
	case FilterFlagsEq:
		return uint16(r.Flags) == f.N
	case FilterTag:
		v, ok := r.Tag(f.Tag)
		return ok && v == f.Value
	case FilterAnd:
		return f.X.Eval(r, focus) && f.Y.Eval(r, focus)
	case FilterOr:
		return f.X.Eval(r, focus) || f.Y.Eval(r, focus)
	case FilterNot:
		return !f.X.Eval(r, focus)
	}
	return false
}

// String renders the filter in the textual form ParseFilter accepts.
// The default filter renders as the empty string.
func (f *Filter) String() string {
	if f == nil {
		return ""
	}
	switch f.Op {
	case FilterDefault:
		return ""
	case FilterTrue:
		return "true"
	case FilterFalse:
		return "false"
	case FilterStartsIn:
		return fmt.Sprintf("starts_in(%d,%d)", f.Lo, f.Hi)
	case FilterEndsIn:
		return fmt.Sprintf("ends_in(%d,%d)", f.Lo, f.Hi)
	case FilterOverlaps:
		return fmt.Sprintf("overlaps(%d,%d)", f.Lo, f.Hi)
	case FilterStrand:
		return fmt.Sprintf("strand(%s)", f.Strand)
	case FilterBase:
		return fmt.Sprintf("base(%d,%c)", f.Pos, f.Base)
	case FilterBaseAtFocus:
		return fmt.Sprintf("base(%c)", f.Base)
	case FilterSoftclip:
		return fmt.Sprintf("softclip(%d)", f.Pos)
	case FilterMapQGE:
		return fmt.Sprintf("mapq>=%d", f.N)
	case FilterMapQLE:
		return fmt.Sprintf("mapq<=%d", f.N)
	case FilterFlagsAll:
		return fmt.Sprintf("flags_all(%d)", f.N)
	case FilterFlagsAny:
		return fmt.Sprintf("flags_any(%d)", f.N)
	case FilterFlagsEq:
		return fmt.Sprintf("flags==%d", f.N)
	case FilterTag:
		return fmt.Sprintf("tag(%s,%s)", f.Tag, f.Value)
	case FilterAnd:
		return fmt.Sprintf("and(%s,%s)", f.X, f.Y)
	case FilterOr:
		return fmt.Sprintf("or(%s,%s)", f.X, f.Y)
	case FilterNot:
		return fmt.Sprintf("not(%s)", f.X)
	}
	return ""
}

// ParseFilter parses the textual filter form back into a tree, running
// the same rewrites the constructors apply so parse(f.String()) yields
// a tree equal to f.
func ParseFilter(s string) (*Filter, error) {
	p := &filterParser{s: s}
	p.skipSpace()
	if p.eof() {
		return DefaultFilter(), nil
	}
	f, err := p.parse()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if !p.eof() {
		return nil, fmt.Errorf("%w: trailing input in filter %q", ErrParse, s)
	}
	return f, nil
}

type filterParser struct {
	s string
	i int
}

func (p *filterParser) eof() bool { return p.i >= len(p.s) }

func (p *filterParser) skipSpace() {
	for !p.eof() && (p.s[p.i] == ' ' || p.s[p.i] == '\t') {
		p.i++
	}
}

func (p *filterParser) expect(c byte) error {
	p.skipSpace()
	if p.eof() || p.s[p.i] != c {
		return fmt.Errorf("%w: expected %q at offset %d in filter %q", ErrParse, string(c), p.i, p.s)
	}
	p.i++
	return nil
}

func (p *filterParser) word() string {
	p.skipSpace()
	start := p.i
	for !p.eof() {
		c := p.s[p.i]
		if c >= 'a' && c <= 'z' || c == '_' {
			p.i++
			continue
		}
		break
	}
	return p.s[start:p.i]
}

func (p *filterParser) int() (int, error) {
	p.skipSpace()
	start := p.i
	for !p.eof() && (p.s[p.i] >= '0' && p.s[p.i] <= '9' || p.i == start && p.s[p.i] == '-') {
		p.i++
	}
	n, err := strconv.Atoi(p.s[start:p.i])
	if err != nil {
		return 0, fmt.Errorf("%w: expected number at offset %d in filter %q", ErrParse, start, p.s)
	}
	return n, nil
}

// arg reads a raw argument up to ',' or ')' (for tag values and bases).
func (p *filterParser) arg() string {
	p.skipSpace()
	start := p.i
	for !p.eof() && p.s[p.i] != ',' && p.s[p.i] != ')' {
		p.i++
	}
	return strings.TrimSpace(p.s[start:p.i])
}

func (p *filterParser) parse() (*Filter, error) {
	w := p.word()
	switch w {
	case "true":
		return &Filter{Op: FilterTrue}, nil
	case "false":
		return &Filter{Op: FilterFalse}, nil
	case "and", "or":
		if err := p.expect('('); err != nil {
			return nil, err
		}
		a, err := p.parse()
		if err != nil {
			return nil, err
		}
		if err := p.expect(','); err != nil {
			return nil, err
		}
		b, err := p.parse()
		if err != nil {
			return nil, err
		}
		if err := p.expect(')'); err != nil {
			return nil, err
		}
		if w == "and" {
			return And(a, b), nil
		}
		return Or(a, b), nil
	case "not":
		if err := p.expect('('); err != nil {
			return nil, err
		}
		a, err := p.parse()
		if err != nil {
			return nil, err
		}
		if err := p.expect(')'); err != nil {
			return nil, err
		}
		return Not(a), nil
	case "starts_in", "ends_in", "overlaps":
		lo, hi, err := p.pairArgs()
		if err != nil {
			return nil, err
		}
		op := map[string]FilterOp{"starts_in": FilterStartsIn, "ends_in": FilterEndsIn, "overlaps": FilterOverlaps}[w]
		return &Filter{Op: op, Lo: lo, Hi: hi}, nil
	case "strand":
		if err := p.expect('('); err != nil {
			return nil, err
		}
		a := p.arg()
		if err := p.expect(')'); err != nil {
			return nil, err
		}
		switch a {
		case "+":
			return &Filter{Op: FilterStrand, Strand: Forward}, nil
		case "-":
			return &Filter{Op: FilterStrand, Strand: Reverse}, nil
		}
		return nil, fmt.Errorf("%w: strand wants + or -, got %q", ErrParse, a)
	case "base":
		if err := p.expect('('); err != nil {
			return nil, err
		}
		a := p.arg()
		if p.eof() {
			return nil, fmt.Errorf("%w: unterminated base() in filter %q", ErrParse, p.s)
		}
		if p.s[p.i] == ')' {
			p.i++
			if len(a) != 1 {
				return nil, fmt.Errorf("%w: base wants a single base, got %q", ErrParse, a)
			}
			return &Filter{Op: FilterBaseAtFocus, Base: upper(a[0])}, nil
		}
		p.i++ // ','
		b := p.arg()
		if err := p.expect(')'); err != nil {
			return nil, err
		}
		pos, err := strconv.Atoi(a)
		if err != nil || len(b) != 1 {
			return nil, fmt.Errorf("%w: base wants (pos,base), got (%q,%q)", ErrParse, a, b)
		}
		return &Filter{Op: FilterBase, Pos: pos, Base: upper(b[0])}, nil
	case "softclip":
		if err := p.expect('('); err != nil {
			return nil, err
		}
		pos, err := p.int()
		if err != nil {
			return nil, err
		}
		if err := p.expect(')'); err != nil {
			return nil, err
		}
		return &Filter{Op: FilterSoftclip, Pos: pos}, nil
	case "flags_all", "flags_any":
		if err := p.expect('('); err != nil {
			return nil, err
		}
		n, err := p.int()
		if err != nil {
			return nil, err
		}
		if err := p.expect(')'); err != nil {
			return nil, err
		}
		op := FilterFlagsAll
		if w == "flags_any" {
			op = FilterFlagsAny
		}
		return &Filter{Op: op, N: uint16(n)}, nil
	case "flags":
		if !strings.HasPrefix(p.s[p.i:], "==") {
			return nil, fmt.Errorf("%w: flags wants ==, in filter %q", ErrParse, p.s)
		}
		p.i += 2
		n, err := p.int()
		if err != nil {
			return nil, err
		}
		return &Filter{Op: FilterFlagsEq, N: uint16(n)}, nil
	case "mapq":
		p.skipSpace()
		if p.i+1 >= len(p.s) || p.s[p.i+1] != '=' || (p.s[p.i] != '>' && p.s[p.i] != '<') {
			return nil, fmt.Errorf("%w: mapq wants >= or <=, in filter %q", ErrParse, p.s)
		}
		op := FilterMapQGE
		if p.s[p.i] == '<' {
			op = FilterMapQLE
		}
		p.i += 2
		n, err := p.int()
		if err != nil {
			return nil, err
		}
		return &Filter{Op: op, N: uint16(n)}, nil
	case "tag":
		if err := p.expect('('); err != nil {
			return nil, err
		}
		name := p.arg()
		if err := p.expect(','); err != nil {
			return nil, err
		}
		val := p.arg()
		if err := p.expect(')'); err != nil {
			return nil, err
		}
		if name == "" {
			return nil, fmt.Errorf("%w: tag wants a name", ErrParse)
		}
		return &Filter{Op: FilterTag, Tag: name, Value: val}, nil
	}
	return nil, fmt.Errorf("%w: unknown filter atom %q", ErrParse, w)
}

func (p *filterParser) pairArgs() (int, int, error) {
	if err := p.expect('('); err != nil {
		return 0, 0, err
	}
	lo, err := p.int()
	if err != nil {
		return 0, 0, err
	}
	if err := p.expect(','); err != nil {
		return 0, 0, err
	}
	hi, err := p.int()
	if err != nil {
		return 0, 0, err
	}
	if err := p.expect(')'); err != nil {
		return 0, 0, err
	}
	return lo, hi, nil
}
