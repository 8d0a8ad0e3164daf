package tui

import "github.com/charmbracelet/lipgloss"

// Palette carries every style the renderer uses. It is passed down
// explicitly; nothing reads process-wide style state.
type Palette struct {
	Match       lipgloss.Style
	MatchRev    lipgloss.Style
	Deletion    lipgloss.Style
	SoftClip    lipgloss.Style
	Mismatch    lipgloss.Style
	Insertion   lipgloss.Style
	PairGap     lipgloss.Style
	PairOverlap lipgloss.Style
	Conflict    lipgloss.Style

	CoverageRef lipgloss.Style
	CoverageAlt lipgloss.Style

	Ruler    lipgloss.Style
	Track    lipgloss.Style
	Gene     lipgloss.Style
	Exon     lipgloss.Style
	Variant  lipgloss.Style
	Status   lipgloss.Style
	ErrText  lipgloss.Style
	BandNeg  lipgloss.Style
	BandPos  lipgloss.Style
	BandAcen lipgloss.Style
	BandCur  lipgloss.Style
}

// NewPalette returns the default 256-color palette.
func NewPalette() Palette {
	return Palette{
		Match:       lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		MatchRev:    lipgloss.NewStyle().Foreground(lipgloss.Color("109")),
		Deletion:    lipgloss.NewStyle().Foreground(lipgloss.Color("160")),
		SoftClip:    lipgloss.NewStyle().Foreground(lipgloss.Color("178")),
		Mismatch:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		Insertion:   lipgloss.NewStyle().Foreground(lipgloss.Color("135")).Bold(true),
		PairGap:     lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		PairOverlap: lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		Conflict:    lipgloss.NewStyle().Foreground(lipgloss.Color("202")).Bold(true),

		CoverageRef: lipgloss.NewStyle().Foreground(lipgloss.Color("66")),
		CoverageAlt: lipgloss.NewStyle().Foreground(lipgloss.Color("167")),

		Ruler:    lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		Track:    lipgloss.NewStyle().Foreground(lipgloss.Color("72")),
		Gene:     lipgloss.NewStyle().Foreground(lipgloss.Color("110")),
		Exon:     lipgloss.NewStyle().Foreground(lipgloss.Color("75")).Bold(true),
		Variant:  lipgloss.NewStyle().Foreground(lipgloss.Color("213")),
		Status:   lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("237")),
		ErrText:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		BandNeg:  lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
		BandPos:  lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		BandAcen: lipgloss.NewStyle().Foreground(lipgloss.Color("124")),
		BandCur:  lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true),
	}
}
