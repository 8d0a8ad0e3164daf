package bamview

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/brentp/xopen"
)

// Gene is one genePred row: the transcript span plus exon spans when the
// schema carries them. Coordinates are 1-based inclusive.
type Gene struct {
	Name   string
	Chrom  string
	Strand Strand
	Start  int
	End    int
	// ExonStarts/ExonEnds are parallel, in coordinate order; empty when
	// the table schema has no exon arrays. Gene-level navigation still
	// works then, exon-level does not.
	ExonStarts []int
	ExonEnds   []int
}

// Overlaps reports whether the gene intersects [start, end].
func (g Gene) Overlaps(start, end int) bool { return g.Start <= end && g.End >= start }

// GeneSet indexes genes per contig for track drawing and for the
// w/b/e/W/B/E navigation motions.
type GeneSet struct {
	byChr map[string][]Gene
	// flattened, sorted navigation targets per contig.
	geneStarts map[string][]int
	geneEnds   map[string][]int
	exonStarts map[string][]int
	exonEnds   map[string][]int
}

// NewGeneSet builds the per-contig indexes.
func NewGeneSet(genes []Gene) *GeneSet {
	s := &GeneSet{
		byChr:      make(map[string][]Gene),
		geneStarts: make(map[string][]int),
		geneEnds:   make(map[string][]int),
		exonStarts: make(map[string][]int),
		exonEnds:   make(map[string][]int),
	}
	for _, g := range genes {
		s.byChr[g.Chrom] = append(s.byChr[g.Chrom], g)
		s.geneStarts[g.Chrom] = append(s.geneStarts[g.Chrom], g.Start)
		s.geneEnds[g.Chrom] = append(s.geneEnds[g.Chrom], g.End)
		s.exonStarts[g.Chrom] = append(s.exonStarts[g.Chrom], g.ExonStarts...)
		s.exonEnds[g.Chrom] = append(s.exonEnds[g.Chrom], g.ExonEnds...)
	}
	for chrom := range s.byChr {
		sort.Slice(s.byChr[chrom], func(i, j int) bool { return s.byChr[chrom][i].Start < s.byChr[chrom][j].Start })
		sort.Ints(s.geneStarts[chrom])
		sort.Ints(s.geneEnds[chrom])
		sort.Ints(s.exonStarts[chrom])
		sort.Ints(s.exonEnds[chrom])
	}
	return s
}

// Len is the total gene count.
func (s *GeneSet) Len() int {
	if s == nil {
		return 0
	}
	n := 0
	for _, g := range s.byChr {
		n += len(g)
	}
	return n
}

// Overlapping returns the genes on chrom intersecting [start, end].
func (s *GeneSet) Overlapping(chrom string, start, end int) []Gene {
	if s == nil {
		return nil
	}
	var out []Gene
	for _, g := range s.byChr[chrom] {
		if g.Overlaps(start, end) {
			out = append(out, g)
		}
	}
	return out
}

// HasExons reports whether any gene on chrom carries exon spans; table
// schemas other than the ncbiRefSeq style do not populate them.
func (s *GeneSet) HasExons(chrom string) bool {
	return s != nil && len(s.exonStarts[chrom]) > 0
}

func nextAfter(sorted []int, pos int) (int, bool) {
	i := sort.SearchInts(sorted, pos+1)
	if i == len(sorted) {
		return 0, false
	}
	return sorted[i], true
}

func prevBefore(sorted []int, pos int) (int, bool) {
	i := sort.SearchInts(sorted, pos)
	if i == 0 {
		return 0, false
	}
	return sorted[i-1], true
}

// NextExonStart is the first exon start strictly after pos (the `w` motion).
func (s *GeneSet) NextExonStart(chrom string, pos int) (int, bool) {
	if s == nil {
		return 0, false
	}
	return nextAfter(s.exonStarts[chrom], pos)
}

// PrevExonStart is the last exon start strictly before pos (`b`).
func (s *GeneSet) PrevExonStart(chrom string, pos int) (int, bool) {
	if s == nil {
		return 0, false
	}
	return prevBefore(s.exonStarts[chrom], pos)
}

// NextExonEnd is the first exon end strictly after pos (`e`).
func (s *GeneSet) NextExonEnd(chrom string, pos int) (int, bool) {
	if s == nil {
		return 0, false
	}
	return nextAfter(s.exonEnds[chrom], pos)
}

// PrevExonEnd is the last exon end strictly before pos (`ge`).
func (s *GeneSet) PrevExonEnd(chrom string, pos int) (int, bool) {
	if s == nil {
		return 0, false
	}
	return prevBefore(s.exonEnds[chrom], pos)
}

// NextGeneStart is the first gene start strictly after pos (`W`).
func (s *GeneSet) NextGeneStart(chrom string, pos int) (int, bool) {
	if s == nil {
		return 0, false
	}
	return nextAfter(s.geneStarts[chrom], pos)
}

// PrevGeneStart is the last gene start strictly before pos (`B`).
func (s *GeneSet) PrevGeneStart(chrom string, pos int) (int, bool) {
	if s == nil {
		return 0, false
	}
	return prevBefore(s.geneStarts[chrom], pos)
}

// NextGeneEnd is the first gene end strictly after pos (`E`).
func (s *GeneSet) NextGeneEnd(chrom string, pos int) (int, bool) {
	if s == nil {
		return 0, false
	}
	return nextAfter(s.geneEnds[chrom], pos)
}

// PrevGeneEnd is the last gene end strictly before pos (`gE`).
func (s *GeneSet) PrevGeneEnd(chrom string, pos int) (int, bool) {
	if s == nil {
		return 0, false
	}
	return prevBefore(s.geneEnds[chrom], pos)
}

// ReadGenes loads a genePred table: refFlat style (geneName first) or
// the UCSC dump style with a leading bin column and name2. Exon arrays
// come through when present.
func ReadGenes(path string) (*GeneSet, error) {
	fh, err := xopen.Ropen(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	var genes []Gene
	ln := 0
	for {
		line, err := fh.ReadString('\n')
		if len(line) > 0 {
			ln++
			line = strings.TrimRight(line, "\r\n")
			if line != "" && !strings.HasPrefix(line, "#") {
				g, perr := parseGenePred(line)
				if perr != nil {
					return nil, fmt.Errorf("%w: %s:%d: %s", ErrParse, path, ln, perr)
				}
				genes = append(genes, g)
			}
		}
		if err != nil {
			break
		}
	}
	return NewGeneSet(genes), nil
}

func isStrand(s string) bool { return s == "+" || s == "-" }

func parseGenePred(line string) (Gene, error) {
	f := strings.Split(line, "\t")
	// the UCSC table dump carries a numeric bin column first.
	if len(f) >= 10 && isStrand(f[3]) {
		if _, err := strconv.Atoi(f[0]); err == nil {
			f = f[1:]
		}
	}
	// layouts:
	//   genePred: name chrom strand txStart txEnd cds... exonStarts exonEnds [score name2]
	//   refFlat:  geneName name chrom strand txStart txEnd cds... exonStarts exonEnds
	var name, chrom, strand, txs, txe, exs, exe, name2 string
	switch {
	case len(f) >= 10 && isStrand(f[2]):
		name, chrom, strand, txs, txe, exs, exe = f[0], f[1], f[2], f[3], f[4], f[8], f[9]
		if len(f) >= 12 {
			name2 = f[11]
		}
	case len(f) >= 11 && isStrand(f[3]):
		name, chrom, strand, txs, txe, exs, exe = f[0], f[2], f[3], f[4], f[5], f[9], f[10]
	default:
		return Gene{}, fmt.Errorf("unrecognized genepred line with %d fields", len(f))
	}
	txStart, serr := strconv.Atoi(txs)
	txEnd, eerr := strconv.Atoi(txe)
	if serr != nil || eerr != nil {
		return Gene{}, fmt.Errorf("bad tx coordinates %q %q", txs, txe)
	}
	g := Gene{Name: name, Chrom: chrom, Start: txStart + 1, End: txEnd, Strand: Forward}
	if strand == "-" {
		g.Strand = Reverse
	}
	if name2 != "" {
		g.Name = name2
	}
	starts, err := commaInts(exs)
	if err != nil {
		return Gene{}, err
	}
	ends, err := commaInts(exe)
	if err != nil {
		return Gene{}, err
	}
	if len(starts) == len(ends) {
		for i := range starts {
			g.ExonStarts = append(g.ExonStarts, starts[i]+1)
			g.ExonEnds = append(g.ExonEnds, ends[i])
		}
	}
	return g, nil
}

func commaInts(s string) ([]int, error) {
	s = strings.TrimSuffix(s, ",")
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("bad exon coordinate %q", p)
		}
		out[i] = n
	}
	return out, nil
}
