// Command recognise reads the play result out of a rhythm game screenshot:
// score, note counters, difficulty, and the song, identified by its jacket
// art with a title-text fallback.
//
// Usage: recognise -image <screenshot> -songs <library.json> -font <ttf> [-index jackets.gob]
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	log "github.com/sirupsen/logrus"

	_ "golang.org/x/image/webp"

	"github.com/prescientmoon/shimmeringmoon-sub000/internal/analysis"
	"github.com/prescientmoon/shimmeringmoon-sub000/internal/jacket"
	"github.com/prescientmoon/shimmeringmoon-sub000/internal/ocr"
	"github.com/prescientmoon/shimmeringmoon-sub000/internal/songs"
	"github.com/prescientmoon/shimmeringmoon-sub000/internal/version"
)

func main() {
	imagePath := flag.String("image", "", "Path to the result screenshot")
	songsPath := flag.String("songs", "", "Path to the song library JSON")
	fontPath := flag.String("font", "", "Path to the game font TTF")
	indexPath := flag.String("index", "jackets.gob", "Path to the jacket index")
	layoutPath := flag.String("layouts", "", "Layout calibration JSON (optional, built-in by default)")
	jacketCutoff := flag.Float64("jacket-distance", jacket.DefaultMaxDistance, "Jacket acceptance distance")
	verbose := flag.Bool("v", false, "Verbose logging")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("recognise %s (built %s, commit %s)\n",
			version.Version, version.BuildTime, version.GitCommit)
		return
	}
	if *verbose {
		log.SetLevel(log.DebugLevel)
	}
	if *imagePath == "" || *songsPath == "" || *fontPath == "" {
		fmt.Fprintf(os.Stderr, "Usage: %s -image <screenshot> -songs <library.json> -font <ttf> [-index jackets.gob]\n", os.Args[0])
		os.Exit(1)
	}

	library, err := songs.LoadLibrary(*songsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading library: %v\n", err)
		os.Exit(1)
	}

	data, err := os.ReadFile(*indexPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading index: %v\n", err)
		os.Exit(1)
	}
	idx := &jacket.Index{}
	if err := idx.GobDecode(data); err != nil {
		fmt.Fprintf(os.Stderr, "Error decoding index: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Loaded %d songs, %d jackets\n", library.Len(), idx.Len())

	fc := ocr.NewFontContext()
	if err := fc.LoadFont(ocr.WeightRegular, *fontPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading font: %v\n", err)
		os.Exit(1)
	}
	alphabet, err := ocr.NewAlphabet(fc, ocr.WeightRegular, analysis.AlphabetChars)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building alphabet: %v\n", err)
		os.Exit(1)
	}
	engine, err := ocr.NewEngine(alphabet, ocr.DefaultRecognizeParams())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building engine: %v\n", err)
		os.Exit(1)
	}

	var layouts *analysis.Layouts
	if *layoutPath != "" {
		if layouts, err = analysis.LoadLayouts(*layoutPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error loading layouts: %v\n", err)
			os.Exit(1)
		}
	}

	analyzer, err := analysis.NewAnalyzer(engine, idx, library, layouts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error assembling analyzer: %v\n", err)
		os.Exit(1)
	}
	analyzer.MaxJacketDistance = *jacketCutoff

	img, err := imaging.Open(*imagePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading screenshot: %v\n", err)
		os.Exit(1)
	}
	b := img.Bounds()
	fmt.Printf("Loaded screenshot: %dx%d pixels\n", b.Dx(), b.Dy())

	res, err := analyzer.Analyze(img)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Analysis failed: %v\n", err)
		os.Exit(1)
	}

	count := func(kind analysis.RegionKind, v int) string {
		if !res.ReadOK(kind) {
			return "?"
		}
		return strconv.Itoa(v)
	}

	fmt.Println()
	if res.Song != nil {
		fmt.Printf("%-15s%s (%s)\n", "Song:", res.Song.Title, res.Song.Artist)
	} else {
		fmt.Printf("%-15s%s\n", "Song:", "unidentified")
	}
	if res.Chart != nil {
		fmt.Printf("%-15s%s %s\n", "Chart:", res.Chart.Difficulty, res.Chart.Level)
	} else if res.ReadOK(analysis.RegionDifficulty) {
		fmt.Printf("%-15s%s\n", "Difficulty:", res.Difficulty)
	}
	fmt.Printf("%-15s%s\n", "Score:", count(analysis.RegionScore, res.Score))
	fmt.Printf("%-15s%s / %s / %s\n", "Pure/Far/Lost:",
		count(analysis.RegionPure, res.Pure),
		count(analysis.RegionFar, res.Far),
		count(analysis.RegionLost, res.Lost))
	fmt.Printf("%-15s%s\n", "Max recall:", count(analysis.RegionMaxRecall, res.MaxRecall))
	if res.Title != "" {
		fmt.Printf("%-15s%s\n", "Title text:", res.Title)
	}
	if res.ReadOK(analysis.RegionJacket) || res.JacketDistance > 0 {
		fmt.Printf("%-15s%.1f\n", "Jacket dist:", res.JacketDistance)
	}
	if len(res.Missing) > 0 {
		fmt.Printf("%-15s%s\n", "Unreadable:", strings.Join(res.Missing, ", "))
	}
}
