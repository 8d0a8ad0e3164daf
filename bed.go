package bamview

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/brentp/xopen"
)

// ReadBED loads a (possibly gzipped) BED file into an IntervalSet.
// BED's 0-based half-open coordinates become 1-based inclusive here.
func ReadBED(path string) (*IntervalSet, error) {
	fh, err := xopen.Ropen(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	var ivs []Interval
	ln := 0
	for {
		line, err := fh.ReadString('\n')
		if len(line) > 0 {
			ln++
			line = strings.TrimRight(line, "\r\n")
			if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "track") || strings.HasPrefix(line, "browser") {
				if err != nil {
					break
				}
				continue
			}
			fields := strings.Split(line, "\t")
			if len(fields) < 3 {
				return nil, fmt.Errorf("%w: %s:%d: bed line with %d fields", ErrParse, path, ln, len(fields))
			}
			start, serr := strconv.Atoi(fields[1])
			end, eerr := strconv.Atoi(fields[2])
			if serr != nil || eerr != nil {
				return nil, fmt.Errorf("%w: %s:%d: bad bed coordinates", ErrParse, path, ln)
			}
			iv := Interval{Chrom: fields[0], Start: start + 1, End: end}
			if len(fields) > 3 {
				iv.Name = fields[3]
			}
			ivs = append(ivs, iv)
		}
		if err != nil {
			break
		}
	}
	return NewIntervalSet(ivs), nil
}
