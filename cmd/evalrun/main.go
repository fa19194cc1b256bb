// Command evalrun measures classification accuracy over a labeled image
// set. The input directory holds one subdirectory per true label; every
// image inside is classified and compared against the directory name.
// The confusion matrix is printed and optionally saved as CSV.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"objrec/internal/classify"
	"objrec/internal/eval"
	"objrec/internal/objdb"
	"objrec/internal/pipeline"
	"objrec/internal/segment"
	"objrec/pkg/imgutil"
)

var imageExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".tif": true, ".tiff": true,
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	dir := flag.String("dir", "", "Directory with one subdirectory per true label")
	dbPath := flag.String("db", "data/objects.csv", "Object database CSV path")
	outPath := flag.String("out", "", "Write confusion matrix CSV to this path")
	segMode := flag.String("seg", "fixed", "Segmentation mode: fixed|adaptive|isodata|sat")
	threshold := flag.Int("threshold", 127, "Global threshold value [0..255]")
	k := flag.Int("k", 1, "K nearest neighbors (1-9)")
	confThresh := flag.Float64("conf-thresh", 0.60, "Unknown rejection distance threshold")
	metric := flag.String("metric", "euclidean", "Distance metric: euclidean|cosine")
	flag.Parse()

	if *dir == "" {
		fmt.Println("Usage: evalrun -dir <labeled-images> [-db objects.csv] [-out matrix.csv]")
		os.Exit(1)
	}

	db, err := objdb.Open(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		os.Exit(1)
	}
	if db.Len() == 0 {
		fmt.Fprintf(os.Stderr, "Database %s is empty; train samples first\n", *dbPath)
		os.Exit(1)
	}

	params := pipeline.DefaultParams()
	params.Segment.Mode = parseSegMode(*segMode)
	params.Segment.Threshold = *threshold
	params.Classify.K = *k
	params.Classify.ConfidenceThresh = *confThresh
	if *metric == "cosine" {
		params.Classify.Metric = classify.MetricCosine
	}

	p := pipeline.New(params, classify.New(db))
	evaluator := eval.New()

	labelDirs, err := os.ReadDir(*dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read %s: %v\n", *dir, err)
		os.Exit(1)
	}

	processed := 0
	for _, labelDir := range labelDirs {
		if !labelDir.IsDir() {
			continue
		}
		trueLabel := labelDir.Name()

		files, err := os.ReadDir(filepath.Join(*dir, trueLabel))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Skipping %s: %v\n", trueLabel, err)
			continue
		}
		for _, file := range files {
			if file.IsDir() || !imageExts[strings.ToLower(filepath.Ext(file.Name()))] {
				continue
			}
			path := filepath.Join(*dir, trueLabel, file.Name())
			predicted, confidence, err := classifyImage(p, path)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Skipping %s: %v\n", path, err)
				continue
			}
			evaluator.Record(trueLabel, predicted, confidence)
			processed++
		}
	}

	fmt.Printf("Evaluated %d images\n\n", processed)
	fmt.Print(evaluator.String())

	if *outPath != "" {
		if err := evaluator.SaveMatrix(*outPath); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to save matrix: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Confusion matrix written to %s\n", *outPath)
	}
}

// classifyImage runs one image through the pipeline and returns the
// predicted label of its largest region.
func classifyImage(p *pipeline.Pipeline, path string) (string, float64, error) {
	frame, err := imgutil.LoadMat(path)
	if err != nil {
		return "", 0, err
	}
	defer frame.Close()

	result := p.Process(frame)
	defer result.Close()

	if len(result.Regions) == 0 {
		return "unknown", 0, nil
	}
	reg := result.Regions[0]
	return reg.Label, reg.Confidence, nil
}

func parseSegMode(s string) segment.Mode {
	switch s {
	case "adaptive":
		return segment.ModeAdaptive
	case "isodata":
		return segment.ModeISODATA
	case "sat", "sat-intensity":
		return segment.ModeSatIntensity
	default:
		return segment.ModeFixed
	}
}
