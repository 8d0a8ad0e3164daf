package bamview

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// SortOp tags a node of the lane-ordering tree.
type SortOp uint8

const (
	// SortDefault is the empty sort: fetch order, identity for Then.
	SortDefault SortOp = iota
	SortStart
	SortStrandAtFocus
	SortStrandAt
	SortBaseAtFocus
	SortBaseAt
	SortMapQ
	SortName
	SortAlignedLength
	SortInsertSize
	SortThen
	SortReverse
)

// Sort is one node of a composable lane ordering. Build trees with
// Then and Reversed so the canonical rewrites keep the textual form
// stable: Then(Default,x)=x, Reverse(Default)=Default,
// Reverse(Reverse(x))=x, Then(x,x)=x.
type Sort struct {
	Op  SortOp
	X   *Sort
	Y   *Sort
	Pos int
}

// DefaultSort is the empty, fetch-order sort.
func DefaultSort() *Sort { return &Sort{Op: SortDefault} }

// Then orders by a first, breaking ties by b.
func Then(a, b *Sort) *Sort {
	if a == nil || a.Op == SortDefault {
		return b
	}
	if b == nil || b.Op == SortDefault {
		return a
	}
	if reflect.DeepEqual(a, b) {
		return a
	}
	return &Sort{Op: SortThen, X: a, Y: b}
}

// Reversed inverts an ordering.
func Reversed(a *Sort) *Sort {
	if a == nil || a.Op == SortDefault {
		return DefaultSort()
	}
	if a.Op == SortReverse {
		return a.X
	}
	return &Sort{Op: SortReverse, X: a}
}

// compare returns <0, 0 or >0 ordering a before, with, or after b.
func (s *Sort) compare(a, b *AlignedRead, focus int) int {
	if s == nil {
		return 0
	}
	switch s.Op {
	case SortDefault:
		return 0
	case SortStart:
		return a.Start - b.Start
	case SortStrandAtFocus:
		// reverse strand sorts above forward, the way the original
		// grouping reads at a variant wants it.
		return int(a.Strand) - int(b.Strand)
	case SortStrandAt:
		// only reads whose alignment covers Pos take part; the rest
		// sort after, like base(pos).
		aok := a.Start <= s.Pos && s.Pos <= a.End
		bok := b.Start <= s.Pos && s.Pos <= b.End
		if !aok || !bok {
			if aok == bok {
				return 0
			}
			if aok {
				return -1
			}
			return 1
		}
		return int(a.Strand) - int(b.Strand)
	case SortBaseAtFocus, SortBaseAt:
		pos := s.Pos
		if s.Op == SortBaseAtFocus {
			pos = focus
		}
		ab, aok := a.BaseAt(pos)
		bb, bok := b.BaseAt(pos)
		if !aok || !bok {
			if aok == bok {
				return 0
			}
			if aok {
				return -1
			}
			return 1
		}
		return int(ab) - int(bb)
	case SortMapQ:
		return int(a.MapQ) - int(b.MapQ)
	case SortName:
		return strings.Compare(a.Name, b.Name)
	case SortAlignedLength:
		return a.AlignedLength() - b.AlignedLength()
	case SortInsertSize:
		return abs(a.InsertSize) - abs(b.InsertSize)
	case SortThen:
		if c := s.X.compare(a, b, focus); c != 0 {
			return c
		}
		return s.Y.compare(a, b, focus)
	case SortReverse:
		return -s.X.compare(a, b, focus)
	}
	return 0
}

// Apply orders reads stably: equal reads keep their earlier relative
// order, so sorting by one key after another behaves like Then.
func (s *Sort) Apply(reads []*AlignedRead, focus int) {
	if s == nil || s.Op == SortDefault {
		return
	}
	sort.SliceStable(reads, func(i, j int) bool {
		return s.compare(reads[i], reads[j], focus) < 0
	})
}

// String renders the sort in the textual form ParseSort accepts.
// The default sort renders as the empty string.
func (s *Sort) String() string {
	if s == nil {
		return ""
	}
	switch s.Op {
	case SortDefault:
		return ""
	case SortStart:
		return "start"
	case SortStrandAtFocus:
		return "strand"
	case SortStrandAt:
		return fmt.Sprintf("strand(%d)", s.Pos)
	case SortBaseAtFocus:
		return "base"
	case SortBaseAt:
		return fmt.Sprintf("base(%d)", s.Pos)
	case SortMapQ:
		return "mapq"
	case SortName:
		return "name"
	case SortAlignedLength:
		return "length"
	case SortInsertSize:
		return "insert"
	case SortThen:
		return fmt.Sprintf("then(%s,%s)", s.X, s.Y)
	case SortReverse:
		return fmt.Sprintf("reverse(%s)", s.X)
	}
	return ""
}

// ParseSort parses the textual sort form, applying the same rewrites
// the constructors do so parse(s.String()) equals s.
func ParseSort(in string) (*Sort, error) {
	p := &sortParser{s: in}
	p.skip()
	if p.eof() {
		return DefaultSort(), nil
	}
	s, err := p.parse()
	if err != nil {
		return nil, err
	}
	p.skip()
	if !p.eof() {
		return nil, fmt.Errorf("%w: trailing input in sort %q", ErrParse, in)
	}
	return s, nil
}

type sortParser struct {
	s string
	i int
}

func (p *sortParser) eof() bool { return p.i >= len(p.s) }

func (p *sortParser) skip() {
	for !p.eof() && (p.s[p.i] == ' ' || p.s[p.i] == '\t') {
		p.i++
	}
}

func (p *sortParser) expect(c byte) error {
	p.skip()
	if p.eof() || p.s[p.i] != c {
		return fmt.Errorf("%w: expected %q at offset %d in sort %q", ErrParse, string(c), p.i, p.s)
	}
	p.i++
	return nil
}

func (p *sortParser) word() string {
	p.skip()
	start := p.i
	for !p.eof() && p.s[p.i] >= 'a' && p.s[p.i] <= 'z' {
		p.i++
	}
	return p.s[start:p.i]
}

// optPos parses an optional "(pos)" suffix for strand/base atoms.
func (p *sortParser) optPos() (int, bool, error) {
	p.skip()
	if p.eof() || p.s[p.i] != '(' {
		return 0, false, nil
	}
	p.i++
	p.skip()
	start := p.i
	for !p.eof() && p.s[p.i] >= '0' && p.s[p.i] <= '9' {
		p.i++
	}
	n, err := strconv.Atoi(p.s[start:p.i])
	if err != nil {
		return 0, false, fmt.Errorf("%w: expected position at offset %d in sort %q", ErrParse, start, p.s)
	}
	if err := p.expect(')'); err != nil {
		return 0, false, err
	}
	return n, true, nil
}

func (p *sortParser) parse() (*Sort, error) {
	w := p.word()
	switch w {
	case "start":
		return &Sort{Op: SortStart}, nil
	case "mapq":
		return &Sort{Op: SortMapQ}, nil
	case "name":
		return &Sort{Op: SortName}, nil
	case "length":
		return &Sort{Op: SortAlignedLength}, nil
	case "insert":
		return &Sort{Op: SortInsertSize}, nil
	case "strand":
		pos, ok, err := p.optPos()
		if err != nil {
			return nil, err
		}
		if ok {
			return &Sort{Op: SortStrandAt, Pos: pos}, nil
		}
		return &Sort{Op: SortStrandAtFocus}, nil
	case "base":
		pos, ok, err := p.optPos()
		if err != nil {
			return nil, err
		}
		if ok {
			return &Sort{Op: SortBaseAt, Pos: pos}, nil
		}
		return &Sort{Op: SortBaseAtFocus}, nil
	case "then":
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
		return Then(a, b), nil
	case "reverse":
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
		return Reversed(a), nil
	}
	return nil, fmt.Errorf("%w: unknown sort atom %q", ErrParse, w)
}

func abs(a int) int {
	if a < 0 {
		return -a
	}
	return a
}
