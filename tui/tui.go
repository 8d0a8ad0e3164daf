package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/brentp/bamview"
)

type mode uint8

const (
	modeNormal mode = iota
	modeCommand
	modeFilter
	modeSort
)

// coverageRows is the height of the coverage sparkline.
const coverageRows = 4

// Tracks bundles the optional annotation layers drawn above the reads.
type Tracks struct {
	BED      *bamview.IntervalSet
	Variants *bamview.IntervalSet
	Genes    *bamview.GeneSet
	Bands    bamview.Cytobands
}

// fetchMsg delivers one completed region fetch into the event loop.
type fetchMsg bamview.FetchResult

// initMsg triggers the first fetch once the program is running.
type initMsg struct{}

// Model is the bubbletea application state. All mutation happens in
// Update on the single event-loop task; fetches run as commands and
// come back as fetchMsg values carrying a generation token, so a result
// that arrives after the user has navigated away is simply dropped.
type Model struct {
	fetcher *bamview.Fetcher
	pal     Palette
	tracks  Tracks

	win bamview.Window
	aln *bamview.Alignments

	keymap Keymap
	mode   mode
	input  textinput.Model

	filter *bamview.Filter
	sorter *bamview.Sort
	pairs  bool
	// focus is the coordinate base/strand-at-focus filter and sort
	// atoms refer to; a mouse click moves it.
	focus int

	gen     int
	loading bool
	pending bool

	width  int
	height int
	status string
	errMsg string
}

// NewModel starts a viewer over fetcher at region.
func NewModel(fetcher *bamview.Fetcher, region bamview.Region, tracks Tracks, pal Palette) Model {
	in := textinput.New()
	in.Prompt = ":"
	win := bamview.NewWindow(region.Chrom)
	win.SetLeft(region.Start)
	return Model{
		fetcher: fetcher,
		pal:     pal,
		tracks:  tracks,
		win:     win,
		filter:  bamview.DefaultFilter(),
		sorter:  bamview.DefaultSort(),
		focus:   region.Start,
		width:   80,
		height:  24,
	}
}

// Init kicks off the first fetch.
func (m Model) Init() tea.Cmd {
	return func() tea.Msg { return initMsg{} }
}

// area is the rectangle left for alignment lanes after the fixed rows.
func (m Model) area() bamview.Area {
	h := m.height - m.headerRows() - 2 // status + input line
	if h < 1 {
		h = 1
	}
	return bamview.Area{Width: max(m.width, 1), Height: h}
}

func (m Model) headerRows() int {
	n := 1 + coverageRows // ruler + coverage
	if len(m.tracks.Bands) > 0 {
		n++
	}
	if m.tracks.Genes.Len() > 0 {
		n++
	}
	if m.tracks.BED.Len() > 0 {
		n++
	}
	if m.tracks.Variants.Len() > 0 {
		n++
	}
	return n
}

// viewRegion is the genomic span the window currently needs.
func (m Model) viewRegion() bamview.Region {
	area := m.area()
	return bamview.Region{Chrom: m.win.Chrom, Start: m.win.Left, End: m.win.Right(area)}
}

// refetch starts a fetch for the view span padded a screen each side.
// Only one fetch runs at a time; a navigation during a fetch parks the
// wanted region in m.pending and the stale result is dropped on arrival.
func (m Model) refetch() (Model, tea.Cmd) {
	want := m.viewRegion()
	pad := m.win.WidthBases(m.area())
	want.Start = max(1, want.Start-pad)
	want.End += pad
	if m.loading {
		m.pending = true
		m.gen = m.fetcher.Next()
		return m, nil
	}
	m.loading = true
	m.pending = false
	m.gen = m.fetcher.Next()
	gen, pairs := m.gen, m.pairs
	f := m.fetcher
	return m, func() tea.Msg {
		return fetchMsg(f.Fetch(gen, want, pairs))
	}
}

// ensureFetched refetches only when the view has left the fetched span.
func (m Model) ensureFetched() (Model, tea.Cmd) {
	if m.aln != nil && m.aln.Region.Chrom == m.win.Chrom {
		v := m.viewRegion()
		if v.Start >= m.aln.Region.Start && v.End <= m.aln.Region.End {
			return m, nil
		}
	}
	return m.refetch()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case initMsg:
		return m.refetch()
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m.ensureFetched()
	case fetchMsg:
		m.loading = false
		if m.fetcher.Stale(msg.Gen) {
			// superseded by a later navigation; drop it unpublished.
			if m.pending {
				return m.refetch()
			}
			return m, nil
		}
		if msg.Err != nil {
			m.errMsg = msg.Err.Error()
			return m, nil
		}
		m.errMsg = msg.Warning
		m.aln = msg.Model
		m.aln.Restack(m.filter, m.sorter, m.focus, m.pairs)
		return m, nil
	case tea.MouseMsg:
		return m.updateMouse(msg), nil
	case tea.KeyMsg:
		if m.mode != modeNormal {
			return m.updateInput(msg)
		}
		return m.apply(m.keymap.Press(msg.String()))
	}
	return m, nil
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeNormal
		m.input.Blur()
		return m, nil
	case "enter":
		return m.commitInput()
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) commitInput() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	mode := m.mode
	m.mode = modeNormal
	m.input.Blur()
	switch mode {
	case modeCommand:
		reg, err := bamview.ParseRegion(text)
		if err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		m.errMsg = ""
		m.win.Chrom = reg.Chrom
		m.win.SetLeft(reg.Start)
		if reg.End > reg.Start {
			m.win.SetMiddle(m.area(), (reg.Start+reg.End)/2)
		}
		m.focus = reg.Start
		m.aln = nil
		return m.refetch()
	case modeFilter:
		f, err := bamview.ParseFilter(text)
		if err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		m.errMsg = ""
		m.filter = f
	case modeSort:
		s, err := bamview.ParseSort(text)
		if err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		m.errMsg = ""
		m.sorter = s
	}
	if m.aln != nil {
		m.aln.Restack(m.filter, m.sorter, m.focus, m.pairs)
	}
	return m, nil
}

func (m Model) apply(act Action) (tea.Model, tea.Cmd) {
	area := m.area()
	switch act.Kind {
	case ActQuit:
		return m, tea.Quit
	case ActMoveX:
		m.win.SetLeft(m.win.Left + act.Amount)
		return m.ensureFetched()
	case ActMoveY:
		top := m.win.Top + act.Amount
		if m.aln != nil && top > m.aln.Depth()-1 {
			top = m.aln.Depth() - 1
		}
		m.win.SetTop(top)
	case ActZoomIn:
		if err := m.win.ZoomIn(act.Amount, area); err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		return m.ensureFetched()
	case ActZoomOut:
		if err := m.win.ZoomOut(act.Amount, area); err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		return m.ensureFetched()
	case ActTop:
		m.win.SetTop(0)
	case ActBottom:
		if m.aln != nil {
			m.win.SetTop(m.aln.Depth() - area.Height)
		}
	case ActTogglePairs:
		m.pairs = !m.pairs
		if m.aln != nil {
			m.aln.Restack(m.filter, m.sorter, m.focus, m.pairs)
		}
	case ActCommand:
		return m.openInput(modeCommand, ":"), nil
	case ActFilter:
		m.input.SetValue(m.filter.String())
		return m.openInput(modeFilter, "filter:"), nil
	case ActSort:
		m.input.SetValue(m.sorter.String())
		return m.openInput(modeSort, "sort:"), nil
	case ActRefresh:
		m.aln = nil
		return m.refetch()
	case ActNextExonStart, ActPrevExonStart, ActNextExonEnd, ActPrevExonEnd,
		ActNextGeneStart, ActPrevGeneStart, ActNextGeneEnd, ActPrevGeneEnd:
		return m.navigate(act)
	}
	return m, nil
}

func (m Model) openInput(md mode, prompt string) Model {
	m.mode = md
	m.input.Prompt = prompt
	if md == modeCommand {
		m.input.SetValue("")
	}
	m.input.Focus()
	return m
}

// navigate moves the window middle to the next/previous exon or gene
// boundary, repeated Amount times.
func (m Model) navigate(act Action) (tea.Model, tea.Cmd) {
	g := m.tracks.Genes
	if g.Len() == 0 {
		m.errMsg = "no gene track loaded"
		return m, nil
	}
	exonic := false
	var step func(string, int) (int, bool)
	switch act.Kind {
	case ActNextExonStart:
		exonic, step = true, g.NextExonStart
	case ActPrevExonStart:
		exonic, step = true, g.PrevExonStart
	case ActNextExonEnd:
		exonic, step = true, g.NextExonEnd
	case ActPrevExonEnd:
		exonic, step = true, g.PrevExonEnd
	case ActNextGeneStart:
		step = g.NextGeneStart
	case ActPrevGeneStart:
		step = g.PrevGeneStart
	case ActNextGeneEnd:
		step = g.NextGeneEnd
	case ActPrevGeneEnd:
		step = g.PrevGeneEnd
	}
	if exonic && !g.HasExons(m.win.Chrom) {
		// gene table schema without exon arrays.
		m.errMsg = "gene track has no exon data; use W/B/E"
		return m, nil
	}
	area := m.area()
	pos := m.win.Middle(area)
	for i := 0; i < max(act.Amount, 1); i++ {
		next, ok := step(m.win.Chrom, pos)
		if !ok {
			break
		}
		pos = next
	}
	m.win.SetMiddle(area, pos)
	m.focus = pos
	return m.ensureFetched()
}

// updateMouse handles hover and click: both are pure Window coordinate
// translations plus model hit-tests.
func (m Model) updateMouse(msg tea.MouseMsg) Model {
	area := m.area()
	lane := m.win.Top + msg.Y - m.headerRows()
	if msg.X < 0 || msg.X >= area.Width {
		return m
	}
	gs := m.win.GenomicAt(msg.X)
	ge := gs + m.win.Zoom - 1
	if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
		m.focus = gs
	}
	if m.aln == nil {
		return m
	}
	if lane < 0 {
		// over the coverage / track rows: summarize the pileup.
		c := m.aln.CoverageAt(gs)
		m.status = fmt.Sprintf("%s:%d depth %d A:%d C:%d G:%d T:%d softclip:%d ref:%c",
			m.win.Chrom, gs, c.Total, c.A, c.C, c.G, c.T, c.SoftClip, c.RefBase)
		return m
	}
	if r := m.aln.ReadOverlapping(gs, ge, lane); r != nil {
		m.status = fmt.Sprintf("%s %s:%d-%d %s mapq:%d flags:%d %s",
			r.Name, r.Chrom, r.Start, r.End, r.Strand, r.MapQ, r.Flags, r.Cigar)
	} else {
		m.status = ""
	}
	return m
}

func (m Model) View() string {
	area := m.area()
	var sb strings.Builder
	if len(m.tracks.Bands) > 0 {
		sb.WriteString(RenderCytoband(m.pal, m.tracks.Bands[m.win.Chrom], m.win,
			chromLength(m.fetcher, m.tracks.Bands, m.win.Chrom), area.Width))
		sb.WriteByte('\n')
	}
	sb.WriteString(RenderRuler(m.pal, m.win, area))
	sb.WriteByte('\n')
	view := m.viewRegion()
	if m.tracks.Genes.Len() > 0 {
		sb.WriteString(RenderGenes(m.pal, m.tracks.Genes.Overlapping(view.Chrom, view.Start, view.End), m.win, area))
		sb.WriteByte('\n')
	}
	if m.tracks.BED.Len() > 0 {
		sb.WriteString(RenderTrack(m.pal, m.tracks.BED.Overlapping(view.Chrom, view.Start, view.End), m.win, area, &m.pal.Track))
		sb.WriteByte('\n')
	}
	if m.tracks.Variants.Len() > 0 {
		sb.WriteString(RenderTrack(m.pal, m.tracks.Variants.Overlapping(view.Chrom, view.Start, view.End), m.win, area, &m.pal.Variant))
		sb.WriteByte('\n')
	}
	for _, line := range m.coverageLines(area) {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	if m.aln != nil {
		for _, line := range RenderLanes(m.pal, m.aln, m.win, area) {
			sb.WriteString(line)
			sb.WriteByte('\n')
		}
	} else {
		for i := 0; i < area.Height; i++ {
			sb.WriteByte('\n')
		}
	}
	sb.WriteString(m.statusLine(area))
	sb.WriteByte('\n')
	if m.mode != modeNormal {
		sb.WriteString(m.input.View())
	}
	return sb.String()
}

func (m Model) coverageLines(area bamview.Area) []string {
	if m.aln == nil {
		return make([]string, coverageRows)
	}
	bins, err := bamview.BinCoverage(m.aln.Coverage, m.win.Left, m.win.Right(area), area.Width)
	if err != nil {
		return make([]string, coverageRows)
	}
	return RenderCoverage(m.pal, bins, coverageRows)
}

func (m Model) statusLine(area bamview.Area) string {
	var parts []string
	parts = append(parts, m.viewRegion().String(), fmt.Sprintf("zoom %dx", m.win.Zoom))
	if m.aln != nil {
		parts = append(parts, fmt.Sprintf("%d reads / %d lanes", len(m.aln.Reads), m.aln.Depth()))
	}
	if m.loading {
		parts = append(parts, "fetching…")
	}
	if f := m.filter.String(); f != "" {
		parts = append(parts, "filter="+f)
	}
	if s := m.sorter.String(); s != "" {
		parts = append(parts, "sort="+s)
	}
	if m.pairs {
		parts = append(parts, "pairs")
	}
	if m.status != "" {
		parts = append(parts, m.status)
	}
	line := m.pal.Status.Render(strings.Join(parts, "  "))
	if m.errMsg != "" {
		line += " " + m.pal.ErrText.Render(m.errMsg)
	}
	return line
}

func chromLength(f *bamview.Fetcher, bands bamview.Cytobands, chrom string) int {
	if n := f.ContigLength(chrom); n > 0 {
		return n
	}
	return bands.ChromLength(chrom)
}
