package bamview

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/brentp/xopen"
)

// Cytoband is one Giemsa-stained chromosome segment, drawn in the
// overview bar. Coordinates are 1-based inclusive.
type Cytoband struct {
	Chrom string
	Start int
	End   int
	Band  string
	// Stain is the UCSC gieStain value (gneg, gpos50, acen, ...).
	Stain string
}

// Cytobands holds per-chromosome band lists in coordinate order.
type Cytobands map[string][]Cytoband

// ChromLength is the end of the last band, a serviceable contig length
// when the BAM header has none.
func (c Cytobands) ChromLength(chrom string) int {
	bands := c[chrom]
	if len(bands) == 0 {
		return 0
	}
	return bands[len(bands)-1].End
}

// ReadCytobands loads a UCSC cytoBand.txt(.gz) file.
func ReadCytobands(path string) (Cytobands, error) {
	fh, err := xopen.Ropen(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	bands := make(Cytobands)
	ln := 0
	for {
		line, err := fh.ReadString('\n')
		if len(line) > 0 {
			ln++
			line = strings.TrimRight(line, "\r\n")
			if line != "" {
				fields := strings.Split(line, "\t")
				if len(fields) < 5 {
					return nil, fmt.Errorf("%w: %s:%d: cytoband line with %d fields", ErrParse, path, ln, len(fields))
				}
				start, serr := strconv.Atoi(fields[1])
				end, eerr := strconv.Atoi(fields[2])
				if serr != nil || eerr != nil {
					return nil, fmt.Errorf("%w: %s:%d: bad cytoband coordinates", ErrParse, path, ln)
				}
				chrom := fields[0]
				bands[chrom] = append(bands[chrom], Cytoband{
					Chrom: chrom,
					Start: start + 1,
					End:   end,
					Band:  fields[3],
					Stain: fields[4],
				})
			}
		}
		if err != nil {
			break
		}
	}
	for chrom := range bands {
		sort.Slice(bands[chrom], func(i, j int) bool { return bands[chrom][i].Start < bands[chrom][j].Start })
	}
	return bands, nil
}
