package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"time"

	"fixhub/internal/catalog"
	"fixhub/pkg/models"
)

// Offline export: write a timestamped snapshot of the data file, the same
// shape the server's /solutions/export endpoint serves.
func main() {
	var (
		dataPath = flag.String("data", "data/solutions.json", "catalog data file")
		outDir   = flag.String("out", "data", "output directory for the snapshot")
	)
	flag.Parse()

	data, err := os.ReadFile(*dataPath)
	if err != nil {
		log.Fatalf("read %s: %v", *dataPath, err)
	}

	records, skipped, err := models.DecodeList(data)
	if err != nil {
		log.Fatalf("decode %s: %v", *dataPath, err)
	}
	if skipped > 0 {
		log.Printf("warning: %d malformed elements ignored", skipped)
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatalf("mkdir %s: %v", *outDir, err)
	}

	out, err := models.MarshalPretty(records)
	if err != nil {
		log.Fatalf("marshal snapshot: %v", err)
	}

	path := filepath.Join(*outDir, catalog.ExportFilename(time.Now()))
	if err := os.WriteFile(path, out, 0o644); err != nil {
		log.Fatalf("write %s: %v", path, err)
	}

	log.Printf("✅ exported %d records to %s", len(records), path)
}
