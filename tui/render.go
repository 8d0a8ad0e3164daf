package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/brentp/bamview"
)

// eighths are the partial-fill glyphs for the coverage sparkline.
var eighths = []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// cell is one terminal cell with its style; rows are built as cells and
// flattened into styled runs at the end.
type cell struct {
	r  rune
	st *lipgloss.Style
}

func blankRow(width int) []cell {
	row := make([]cell, width)
	for i := range row {
		row[i].r = ' '
	}
	return row
}

// flatten joins a row into a string, batching adjacent cells that share
// a style into one Render call.
func flatten(row []cell) string {
	var sb strings.Builder
	for i := 0; i < len(row); {
		st := row[i].st
		j := i
		var run strings.Builder
		for j < len(row) && row[j].st == st {
			run.WriteRune(row[j].r)
			j++
		}
		if st == nil {
			sb.WriteString(run.String())
		} else {
			sb.WriteString(st.Render(run.String()))
		}
		i = j
	}
	return sb.String()
}

// setSpan fills columns [col, col+length) with glyph and style.
func setSpan(row []cell, col, length int, r rune, st *lipgloss.Style) {
	for i := col; i < col+length && i < len(row); i++ {
		if i < 0 {
			continue
		}
		row[i] = cell{r: r, st: st}
	}
}

func label(row []cell, col int, s string, st *lipgloss.Style) {
	for i, r := range s {
		if col+i < 0 || col+i >= len(row) {
			return
		}
		row[col+i] = cell{r: r, st: st}
	}
}

// RenderRuler draws the coordinate line: a tick with the genomic
// coordinate every ten columns.
func RenderRuler(p Palette, win bamview.Window, area bamview.Area) string {
	row := blankRow(area.Width)
	setSpan(row, 0, area.Width, '─', &p.Ruler)
	for col := 0; col < area.Width; col += 10 {
		pos := win.GenomicAt(col)
		label(row, col, "┆"+formatCoord(pos), &p.Ruler)
	}
	return flatten(row)
}

func formatCoord(pos int) string {
	switch {
	case pos >= 1e6:
		return fmt.Sprintf("%.2fM", float64(pos)/1e6)
	case pos >= 1e4:
		return fmt.Sprintf("%.1fk", float64(pos)/1e3)
	}
	return fmt.Sprintf("%d", pos)
}

// RenderCytoband draws the whole-chromosome overview bar with the
// current window marked.
func RenderCytoband(p Palette, bands []bamview.Cytoband, win bamview.Window, chromLen, width int) string {
	row := blankRow(width)
	if chromLen <= 0 || width <= 0 {
		return flatten(row)
	}
	for _, b := range bands {
		col := b.Start * width / chromLen
		end := b.End * width / chromLen
		st := &p.BandNeg
		r := '░'
		switch {
		case strings.HasPrefix(b.Stain, "gpos"), b.Stain == "gvar":
			st, r = &p.BandPos, '▓'
		case b.Stain == "acen":
			st, r = &p.BandAcen, '◆'
		}
		setSpan(row, col, max(1, end-col), r, st)
	}
	area := bamview.Area{Width: width, Height: 1}
	lo := win.Left * width / chromLen
	hi := win.Right(area) * width / chromLen
	setSpan(row, lo, max(1, hi-lo), '█', &p.BandCur)
	return flatten(row)
}

// RenderCoverage draws the stacked alt/ref sparkline over height rows.
// Alt depth sits on top of the reference-supporting depth; partial top
// cells use eighth blocks.
func RenderCoverage(p Palette, bins bamview.Bins, height int) []string {
	rows := make([][]cell, height)
	for i := range rows {
		rows[i] = blankRow(len(bins.Ref))
	}
	maxd := bins.Max()
	if maxd == 0 {
		out := make([]string, height)
		for i := range rows {
			out[i] = flatten(rows[i])
		}
		return out
	}
	for x := range bins.Ref {
		total := bins.Ref[x] + bins.Alt[x]
		// total and alt heights in eighths of a cell.
		totalE := total * height * 8 / maxd
		altE := bins.Alt[x] * height * 8 / maxd
		for rowFromBottom := 0; rowFromBottom < height; rowFromBottom++ {
			fill := totalE - rowFromBottom*8
			if fill <= 0 {
				break
			}
			if fill > 8 {
				fill = 8
			}
			st := &p.CoverageRef
			// the alt stack occupies the top of the column.
			if rowFromBottom*8 >= totalE-altE {
				st = &p.CoverageAlt
			}
			rows[height-1-rowFromBottom][x] = cell{r: eighths[fill], st: st}
		}
	}
	out := make([]string, height)
	for i := range rows {
		out[i] = flatten(rows[i])
	}
	return out
}

// RenderTrack draws one interval row (BED features or variants).
func RenderTrack(p Palette, ivs []bamview.Interval, win bamview.Window, area bamview.Area, st *lipgloss.Style) string {
	row := blankRow(area.Width)
	for _, iv := range ivs {
		col, length, ok := win.Span(win.OnscreenX(iv.Start, area), win.OnscreenX(iv.End, area), area)
		if !ok {
			continue
		}
		setSpan(row, col, length, '█', st)
		if iv.Name != "" && length > len(iv.Name)+1 {
			label(row, col+1, iv.Name, st)
		}
	}
	return flatten(row)
}

// RenderGenes draws the gene track: introns as a line with strand
// arrows, exons as solid blocks, the symbol where it fits.
func RenderGenes(p Palette, genes []bamview.Gene, win bamview.Window, area bamview.Area) string {
	row := blankRow(area.Width)
	for _, g := range genes {
		col, length, ok := win.Span(win.OnscreenX(g.Start, area), win.OnscreenX(g.End, area), area)
		if !ok {
			continue
		}
		arrow := '>'
		if g.Strand == bamview.Reverse {
			arrow = '<'
		}
		for i := col; i < col+length && i < area.Width; i++ {
			r := '─'
			if (i-col)%5 == 2 {
				r = arrow
			}
			row[i] = cell{r: r, st: &p.Gene}
		}
		for i := range g.ExonStarts {
			ecol, elen, ok := win.Span(win.OnscreenX(g.ExonStarts[i], area), win.OnscreenX(g.ExonEnds[i], area), area)
			if !ok {
				continue
			}
			setSpan(row, ecol, elen, '█', &p.Exon)
		}
		if length > len(g.Name)+2 {
			label(row, col+(length-len(g.Name))/2, g.Name, &p.Exon)
		}
	}
	return flatten(row)
}

// RenderLanes draws the alignment rows for the lanes visible in the
// window: one row per lane, contexts as colored spans, modifiers as
// point glyphs over them.
func RenderLanes(p Palette, aln *bamview.Alignments, win bamview.Window, area bamview.Area) []string {
	out := make([]string, 0, area.Height)
	for lane := win.Top; lane < win.Top+area.Height; lane++ {
		row := blankRow(area.Width)
		if lane < aln.Depth() {
			for _, idx := range laneItems(aln, lane) {
				drawContexts(p, row, idx.contexts, idx.reverse, win, area)
			}
		}
		out = append(out, flatten(row))
	}
	return out
}

type laneItem struct {
	contexts []bamview.Context
	reverse  bool
}

func laneItems(aln *bamview.Alignments, lane int) []laneItem {
	items := make([]laneItem, 0, len(aln.Lanes[lane]))
	for _, idx := range aln.Lanes[lane] {
		if aln.Pairs != nil {
			pa := aln.Pairs[idx]
			items = append(items, laneItem{contexts: pa.Contexts, reverse: aln.Reads[pa.R1].Strand == bamview.Reverse})
			continue
		}
		r := aln.Reads[idx]
		items = append(items, laneItem{contexts: r.Contexts, reverse: r.Strand == bamview.Reverse})
	}
	return items
}

func drawContexts(p Palette, row []cell, ctxs []bamview.Context, reverse bool, win bamview.Window, area bamview.Area) {
	matchStyle := &p.Match
	if reverse {
		matchStyle = &p.MatchRev
	}
	for _, c := range ctxs {
		col, length, ok := win.Span(win.OnscreenX(c.Start, area), win.OnscreenX(c.End, area), area)
		if ok {
			switch c.Kind {
			case bamview.ContextMatch:
				setSpan(row, col, length, '▒', matchStyle)
			case bamview.ContextDeletion:
				setSpan(row, col, length, '─', &p.Deletion)
			case bamview.ContextSoftClip:
				setSpan(row, col, length, rune(lower(c.Base)), &p.SoftClip)
			case bamview.ContextPairGap:
				setSpan(row, col, length, '╌', &p.PairGap)
			case bamview.ContextPairOverlap:
				setSpan(row, col, length, '▓', &p.PairOverlap)
			}
		}
		for _, m := range c.Modifiers {
			x := win.OnscreenX(m.Pos, area)
			if !x.Visible() {
				continue
			}
			switch m.Kind {
			case bamview.ModMismatch:
				row[x.Col] = cell{r: rune(m.Base), st: &p.Mismatch}
			case bamview.ModInsertion:
				row[x.Col] = cell{r: '┃', st: &p.Insertion}
			case bamview.ModForward:
				row[x.Col] = cell{r: '▶', st: matchStyle}
			case bamview.ModReverse:
				row[x.Col] = cell{r: '◀', st: matchStyle}
			case bamview.ModPairConflict:
				row[x.Col] = cell{r: '!', st: &p.Conflict}
			}
		}
	}
}

func lower(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + ('a' - 'A')
	}
	return b
}

func max(a, b int) int {
	if a < b {
		return b
	}
	return a
}
