// Package bamat wraps an indexed BAM with random-access region queries.
package bamat

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/biogo/hts/bam"
	"github.com/biogo/hts/sam"
)

// BamAt holds the bam index and the Bam Reader. Because BamAt holds the
// underlying os.File open, it is not safe to query from multiple go
// routines; the viewer only ever queries it from the event-loop task.
type BamAt struct {
	*bam.Reader
	idx   *bam.Index
	fh    *os.File
	Refs  map[string]*sam.Reference
	names []string
}

// New returns a BamAt from the given path to an indexed bam. The index
// is looked for at path.bai and with the .bam suffix replaced.
func New(path string) (*BamAt, error) {
	bamat := &BamAt{}
	f, err := os.Open(path + ".bai")
	if err != nil && len(path) > 4 {
		f, err = os.Open(path[:len(path)-4] + ".bai")
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	idx, err := bam.ReadIndex(bufio.NewReader(f))
	if err != nil {
		return nil, err
	}
	bamat.idx = idx
	bamat.fh, err = os.Open(path)
	if err != nil {
		return nil, err
	}
	br, err := bam.NewReader(bamat.fh, 2)
	if err != nil {
		bamat.fh.Close()
		return nil, err
	}
	bamat.Reader = br
	hdr := br.Header()
	bamat.Refs = make(map[string]*sam.Reference, len(hdr.Refs()))
	for _, r := range hdr.Refs() {
		bamat.Refs[r.Name()] = r
		bamat.names = append(bamat.names, r.Name())
	}
	return bamat, nil
}

// ref resolves a contig name, tolerating a missing or extra "chr"
// prefix between what the user typed and what the header carries.
func (b *BamAt) ref(chrom string) (*sam.Reference, error) {
	if r, ok := b.Refs[chrom]; ok {
		return r, nil
	}
	if alias := strings.TrimPrefix(chrom, "chr"); alias != chrom {
		if r, ok := b.Refs[alias]; ok {
			return r, nil
		}
	} else if r, ok := b.Refs["chr"+chrom]; ok {
		return r, nil
	}
	return nil, fmt.Errorf("bamat: contig %q not in bam header", chrom)
}

// Names lists the contigs in header order.
func (b *BamAt) Names() []string { return b.names }

// RefLen returns the header length of chrom, 0 when unknown.
func (b *BamAt) RefLen(chrom string) int {
	r, err := b.ref(chrom)
	if err != nil {
		return 0
	}
	return r.Len()
}

// Query returns an iterator over chrom with a 0-based half-open interval.
func (b *BamAt) Query(chrom string, start, end int) (*bam.Iterator, error) {
	ref, err := b.ref(chrom)
	if err != nil {
		return nil, err
	}
	if end <= 0 || end > ref.Len() {
		end = ref.Len()
	}
	if start < 0 {
		start = 0
	}
	chunks, err := b.idx.Chunks(ref, start, end)
	if err != nil {
		return nil, err
	}
	return bam.NewIterator(b.Reader, chunks)
}

// Fetch collects every record overlapping the 0-based half-open
// interval, in file order.
func (b *BamAt) Fetch(chrom string, start, end int) ([]*sam.Record, error) {
	it, err := b.Query(chrom, start, end)
	if err != nil {
		return nil, err
	}
	var recs []*sam.Record
	for it.Next() {
		rec := it.Record()
		// Chunks can hand back records from the containing bin that
		// fall outside the request; drop them here.
		if rec.Start() >= end || rec.End() <= start {
			continue
		}
		recs = append(recs, rec)
	}
	return recs, it.Error()
}

// Close closes the underlying file and the Bam.Reader.
func (b *BamAt) Close() error {
	if b == nil {
		return nil
	}
	if b.Reader != nil {
		b.Reader.Close()
	}
	if b.fh != nil {
		return b.fh.Close()
	}
	return nil
}
