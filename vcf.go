package bamview

import (
	"fmt"
	"strings"

	"github.com/brentp/vcfgo"
	"github.com/brentp/xopen"
)

// ReadVCF loads variants into an IntervalSet; each interval spans the
// REF allele and carries "REF>ALT[,ALT]" as its label.
func ReadVCF(path string) (*IntervalSet, error) {
	fh, err := xopen.Ropen(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	rdr, err := vcfgo.NewReader(fh, true)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrParse, path, err)
	}
	var ivs []Interval
	for {
		v := rdr.Read()
		if v == nil {
			break
		}
		start := int(v.Pos)
		end := start + len(v.Ref()) - 1
		ivs = append(ivs, Interval{
			Chrom: v.Chromosome,
			Start: start,
			End:   end,
			Name:  v.Ref() + ">" + strings.Join(v.Alt(), ","),
		})
	}
	rdr.Clear()
	return NewIntervalSet(ivs), nil
}
