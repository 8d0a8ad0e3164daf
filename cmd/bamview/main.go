package main

import (
	"log"

	arg "github.com/alexflint/go-arg"
	"github.com/biogo/hts/sam"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/brentp/bamview"
	"github.com/brentp/bamview/tui"
)

type cliarg struct {
	bamview.Options
	Reference string `arg:"-r,help:optional path to reference fasta (enables mismatch coloring)."`
	BED       string `arg:"-b,help:optional bed file drawn as a track."`
	VCF       string `arg:"-v,help:optional vcf with variants drawn as a track."`
	Genes     string `arg:"-g,help:optional refFlat/genePred gene table for the gene track and w/b/e motions."`
	Cytoband  string `arg:"-c,help:optional UCSC cytoBand.txt for the chromosome overview bar."`
	BamPath   string `arg:"positional,required"`
	Region    string `arg:"positional,required"`
}

func (c cliarg) Version() string {
	return "bamview 0.1.0"
}

func main() {
	cli := &cliarg{}
	arg.MustParse(cli)
	if cli.ExcludeFlag == 0 {
		cli.ExcludeFlag = uint16(sam.Unmapped | sam.QCFail | sam.Duplicate)
	}

	region, err := bamview.ParseRegion(cli.Region)
	if err != nil {
		log.Fatal(err)
	}

	fetcher, err := bamview.NewFetcher(cli.BamPath, cli.Reference, cli.Options)
	if err != nil {
		log.Fatal(err)
	}
	defer fetcher.Close()
	if region.End == 0 {
		if n := fetcher.ContigLength(region.Chrom); n > 0 {
			region.End = n
		} else {
			region.End = region.Start
		}
	}

	var tracks tui.Tracks
	if cli.BED != "" {
		if tracks.BED, err = bamview.ReadBED(cli.BED); err != nil {
			log.Fatal(err)
		}
	}
	if cli.VCF != "" {
		if tracks.Variants, err = bamview.ReadVCF(cli.VCF); err != nil {
			log.Fatal(err)
		}
	}
	if cli.Genes != "" {
		if tracks.Genes, err = bamview.ReadGenes(cli.Genes); err != nil {
			log.Fatal(err)
		}
	}
	if cli.Cytoband != "" {
		if tracks.Bands, err = bamview.ReadCytobands(cli.Cytoband); err != nil {
			log.Fatal(err)
		}
	}

	m := tui.NewModel(fetcher, region, tracks, tui.NewPalette())
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		log.Fatal(err)
	}
}
