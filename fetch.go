package bamview

import (
	"fmt"

	"github.com/biogo/hts/sam"
	"github.com/brentp/bamview/bamat"
	"github.com/brentp/faidx"
)

// Options gates records at ingest, before they reach the model.
type Options struct {
	MinMappingQuality uint8  `arg:"-Q,help:exclude reads with mapping quality below this"`
	ExcludeFlag       uint16 `arg:"-F,help:exclude reads with any of these flag bits"`
	IncludeFlag       uint16 `arg:"-f,help:require all of these flag bits"`
}

func (o Options) passes(r *sam.Record) bool {
	if uint16(r.Flags)&o.IncludeFlag != o.IncludeFlag {
		return false
	}
	if uint16(r.Flags)&o.ExcludeFlag != 0 {
		return false
	}
	return r.MapQ >= o.MinMappingQuality
}

// refPad extends the reference snapshot past the region edges so reads
// that start before or run past the view still get mismatch coloring.
const refPad = 1000

// FetchResult carries one region's completed model back to the event
// loop. Gen identifies the fetch; the loop drops results whose
// generation is no longer current, so navigating away mid-fetch never
// publishes a stale model.
type FetchResult struct {
	Gen    int
	Region Region
	Ref    *RefSeq
	Model  *Alignments
	Err    error
	// Warning carries a non-fatal problem (a failed reference read);
	// the model is still published, the message goes to the status
	// line.
	Warning string
}

// Fetcher owns the BAM and fasta handles and the fetch generation
// counter. It is used from the single event-loop task; fetches run to
// completion and deliver a value, there is no shared mutable state.
type Fetcher struct {
	bam  *bamat.BamAt
	fai  *faidx.Faidx
	opts Options
	gen  int
}

// NewFetcher opens the indexed BAM at path. faPath may be empty; the
// viewer then runs without a reference (no mismatch recomputation).
func NewFetcher(path, faPath string, opts Options) (*Fetcher, error) {
	b, err := bamat.New(path)
	if err != nil {
		return nil, err
	}
	var fai *faidx.Faidx
	if faPath != "" {
		if fai, err = faidx.New(faPath); err != nil {
			b.Close()
			return nil, err
		}
	}
	return &Fetcher{bam: b, fai: fai, opts: opts}, nil
}

// Next starts a new fetch generation, implicitly marking any in-flight
// fetch stale, and returns its token.
func (f *Fetcher) Next() int {
	f.gen++
	return f.gen
}

// Stale reports whether a result from generation gen should be dropped.
func (f *Fetcher) Stale(gen int) bool { return gen != f.gen }

// ContigLength returns the BAM header length for chrom, 0 if unknown.
func (f *Fetcher) ContigLength(chrom string) int {
	return f.bam.RefLen(chrom)
}

// Contigs lists the contig names in header order.
func (f *Fetcher) Contigs() []string { return f.bam.Names() }

// Fetch pulls records and reference for region and assembles the model.
// It is synchronous; run it from a background command and deliver the
// FetchResult as a message.
func (f *Fetcher) Fetch(gen int, region Region, asPairs bool) FetchResult {
	res := FetchResult{Gen: gen, Region: region}
	records, err := f.bam.Fetch(region.Chrom, region.Start-1, region.End)
	if err != nil {
		res.Err = fmt.Errorf("fetching %s: %w", region, err)
		return res
	}
	ref, err := FetchRef(f.fai, region.Chrom, region.Start-refPad, region.End+refPad)
	if err != nil {
		// carry on without mismatch coloring, but tell the user.
		res.Warning = fmt.Sprintf("reference: %s", err)
		ref = nil
	}
	res.Ref = ref
	res.Model, res.Err = NewAlignments(records, ref, region, f.opts, asPairs)
	return res
}

// Close releases the BAM handle.
func (f *Fetcher) Close() error { return f.bam.Close() }
