// Command jacketgen builds the jacket art index used to identify songs on
// result screenshots. It walks the song library's jacket corpus,
// fingerprints every image, and writes the index as a gob file.
//
// Usage: jacketgen -songs <library.json> -assets <dir> [-out jackets.gob] [-rank 24]
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	pb "github.com/cheggaaa/pb/v3"
	"github.com/disintegration/imaging"
	log "github.com/sirupsen/logrus"

	"github.com/prescientmoon/shimmeringmoon-sub000/internal/jacket"
	"github.com/prescientmoon/shimmeringmoon-sub000/internal/songs"
	"github.com/prescientmoon/shimmeringmoon-sub000/internal/version"
)

func main() {
	songsPath := flag.String("songs", "", "Path to the song library JSON")
	assetsDir := flag.String("assets", "", "Directory holding the jacket art")
	outPath := flag.String("out", "jackets.gob", "Output index path")
	rank := flag.Int("rank", jacket.DefaultRank, "Projection rank, 0 keeps raw descriptors")
	verbose := flag.Bool("v", false, "Verbose logging")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("jacketgen %s (built %s, commit %s)\n",
			version.Version, version.BuildTime, version.GitCommit)
		return
	}
	if *verbose {
		log.SetLevel(log.DebugLevel)
	}
	if *songsPath == "" || *assetsDir == "" {
		fmt.Fprintf(os.Stderr, "Usage: %s -songs <library.json> -assets <dir> [-out jackets.gob] [-rank %d]\n",
			os.Args[0], jacket.DefaultRank)
		os.Exit(1)
	}

	library, err := songs.LoadLibrary(*songsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading library: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Loaded %d songs from %s\n", library.Len(), *songsPath)

	corpus, err := library.JacketCorpus(*assetsDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error collecting jacket corpus: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Fingerprinting %d jackets\n", len(corpus))

	entries := make([]jacket.Entry, 0, len(corpus))
	skipped := 0
	bar := pb.StartNew(len(corpus))
	for _, c := range corpus {
		img, err := imaging.Open(c.Path)
		if err != nil {
			log.Warnf("jacketgen: skipping chart %d: %v", c.ChartID, err)
			skipped++
			bar.Increment()
			continue
		}
		vec, err := jacket.Describe(img)
		if err != nil {
			log.Warnf("jacketgen: skipping chart %d: %v", c.ChartID, err)
			skipped++
			bar.Increment()
			continue
		}
		entries = append(entries, jacket.Entry{ID: c.ChartID, Descriptor: vec})
		bar.Increment()
	}
	bar.Finish()

	if len(entries) == 0 {
		fmt.Fprintf(os.Stderr, "Error: no jacket could be fingerprinted\n")
		os.Exit(1)
	}
	if skipped > 0 {
		fmt.Printf("Skipped %d unreadable jackets\n", skipped)
	}

	idx, err := jacket.Build(entries, *rank)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building index: %v\n", err)
		os.Exit(1)
	}

	out, err := idx.GobEncode()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error serializing index: %v\n", err)
		os.Exit(1)
	}
	if dir := filepath.Dir(*outPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
			os.Exit(1)
		}
	}
	if err := os.WriteFile(*outPath, out, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing index: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nWrote %d jackets (rank %d) to %s\n", idx.Len(), idx.Rank(), *outPath)
}
