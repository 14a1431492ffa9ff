package main

import (
	"errors"
	"flag"
	"io/fs"
	"log"
	"os"
	"time"

	"fixhub/internal/catalog"
	"fixhub/pkg/models"
)

// Offline merge: fold an incoming JSON array into the data file with the
// same canonical-key dedupe the server applies.
func main() {
	var (
		dataPath = flag.String("data", "data/solutions.json", "catalog data file")
		inPath   = flag.String("in", "", "incoming JSON array to merge (required)")
		dryRun   = flag.Bool("dry-run", false, "report what would change without writing")
	)
	flag.Parse()

	if *inPath == "" {
		log.Fatal("-in is required")
	}

	existing, err := readExisting(*dataPath)
	if err != nil {
		log.Fatalf("read %s: %v", *dataPath, err)
	}

	incoming, err := os.ReadFile(*inPath)
	if err != nil {
		log.Fatalf("read %s: %v", *inPath, err)
	}

	result, err := catalog.Merge(existing, incoming, time.Now())
	if err != nil {
		log.Fatalf("merge failed: %v", err)
	}

	if *dryRun {
		log.Printf("dry run: would add %d, skip %d duplicates, %d malformed elements",
			result.Added, result.Skipped, result.Malformed)
		return
	}

	if err := writeCatalog(*dataPath, result.Merged); err != nil {
		log.Fatalf("write %s: %v", *dataPath, err)
	}

	log.Printf("✅ merged %s into %s: added %d, skipped %d duplicates",
		*inPath, *dataPath, result.Added, result.Skipped)
}

func readExisting(path string) ([]models.Solution, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// first import creates the file
			return nil, nil
		}
		return nil, err
	}
	records, skipped, err := models.DecodeList(data)
	if err != nil {
		return nil, err
	}
	if skipped > 0 {
		log.Printf("warning: %d malformed elements in %s ignored", skipped, path)
	}
	return records, nil
}

func writeCatalog(path string, records []models.Solution) error {
	data, err := models.MarshalPretty(records)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
