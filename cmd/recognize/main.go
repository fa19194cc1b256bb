// Command recognize runs the object recognition pipeline on a single
// image: segment, clean, label, extract features, classify against the
// object database. With -train it instead captures the largest region as
// a training sample.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"

	"gocv.io/x/gocv"

	"objrec/internal/classify"
	"objrec/internal/morph"
	"objrec/internal/objdb"
	"objrec/internal/pipeline"
	"objrec/internal/region"
	"objrec/internal/segment"
	"objrec/pkg/imgutil"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	imagePath := flag.String("image", "", "Path to input image (TIFF, PNG, or JPEG)")
	dbPath := flag.String("db", "data/objects.csv", "Object database CSV path")
	segMode := flag.String("seg", "fixed", "Segmentation mode: fixed|adaptive|isodata|sat")
	threshold := flag.Int("threshold", 127, "Global threshold value [0..255]")
	blur := flag.Int("blur", 21, "Gaussian blur kernel size (odd, 1-21)")
	morphOp := flag.String("morph", "open", "Morphology op: open|close|erode|dilate")
	kernel := flag.Int("kernel", 5, "Morphology kernel size (odd, 1-21)")
	iterations := flag.Int("iterations", 3, "Morphology iterations (1-10)")
	minArea := flag.Int("min-area", 500, "Minimum region area in pixels")
	maxRegions := flag.Int("max-regions", 5, "Maximum regions to keep")
	k := flag.Int("k", 1, "K nearest neighbors (1-9)")
	confThresh := flag.Float64("conf-thresh", 0.60, "Unknown rejection distance threshold")
	metric := flag.String("metric", "euclidean", "Distance metric: euclidean|cosine")
	trainLabel := flag.String("train", "", "Capture the largest region as a sample of this label")
	outPath := flag.String("out", "", "Write annotated frame to this path")
	regionsPath := flag.String("regions-out", "", "Write color-coded region map to this path")
	flag.Parse()

	if *imagePath == "" {
		fmt.Println("Usage: recognize -image <path> [-db objects.csv] [-train label] [-out annotated.png]")
		os.Exit(1)
	}

	params := buildParams(*segMode, *threshold, *blur, *morphOp, *kernel,
		*iterations, *minArea, *maxRegions, *k, *confThresh, *metric)

	db, err := objdb.Open(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		os.Exit(1)
	}
	classifier := classify.New(db)

	frame, err := imgutil.LoadMat(*imagePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load image: %v\n", err)
		os.Exit(1)
	}
	defer frame.Close()
	fmt.Printf("Loaded %s: %dx%d, DB: %d entries (%d labels)\n",
		*imagePath, frame.Cols(), frame.Rows(), db.Len(), len(db.Labels()))

	p := pipeline.New(params, classifier)
	result := p.Process(frame)
	defer result.Close()

	if *trainLabel != "" {
		train(db, classifier, result.Regions, *trainLabel)
		return
	}

	printRegions(result.Regions)

	if *outPath != "" {
		annotated := frame.Clone()
		defer annotated.Close()
		p.Annotate(&annotated, result.Regions)
		if ok := gocv.IMWrite(*outPath, annotated); !ok {
			fmt.Fprintf(os.Stderr, "Failed to write %s\n", *outPath)
			os.Exit(1)
		}
		fmt.Printf("Annotated frame written to %s\n", *outPath)
	}

	if *regionsPath != "" {
		display := region.BuildDisplay(result.LabelMap, result.Regions)
		defer display.Close()
		if ok := gocv.IMWrite(*regionsPath, display); !ok {
			fmt.Fprintf(os.Stderr, "Failed to write %s\n", *regionsPath)
			os.Exit(1)
		}
		fmt.Printf("Region map written to %s\n", *regionsPath)
	}
}

func train(db *objdb.DB, classifier *classify.Classifier, regions []region.Region, label string) {
	if len(regions) == 0 {
		fmt.Fprintln(os.Stderr, "No region found to capture")
		os.Exit(1)
	}
	reg := regions[0] // largest region
	if len(reg.HuMoments) == 0 {
		fmt.Fprintln(os.Stderr, "Largest region has no features (degenerate)")
		os.Exit(1)
	}

	entry := objdb.EntryFromRegion(reg, label)
	if err := db.Append(entry); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to append sample: %v\n", err)
		os.Exit(1)
	}
	classifier.Refit()

	fmt.Printf("Captured sample %q (fill=%.3f bbox=%.3f), now %d samples for this label\n",
		label, reg.FillRatio, reg.BBoxRatio, len(db.EntriesForLabel(label)))
}

func printRegions(regions []region.Region) {
	if len(regions) == 0 {
		fmt.Println("No regions detected")
		return
	}

	fmt.Printf("\nDetected %d regions:\n", len(regions))
	fmt.Printf("%-4s %-12s %10s %8s %8s %8s %10s\n",
		"ID", "Label", "Conf", "Area", "Fill", "BBox", "Angle")
	for _, reg := range regions {
		fmt.Printf("%-4d %-12s %10.2f %8.4f %8.3f %8.3f %9.1f°\n",
			reg.ID, reg.Label, reg.Confidence, reg.Area,
			reg.FillRatio, reg.BBoxRatio, reg.Angle*180/math.Pi)
	}
}

func buildParams(segMode string, threshold, blur int, morphOp string,
	kernel, iterations, minArea, maxRegions, k int,
	confThresh float64, metric string,
) pipeline.Params {
	params := pipeline.DefaultParams()
	params.Segment.Mode = parseSegMode(segMode)
	params.Segment.Threshold = threshold
	params.Segment.BlurKernel = blur
	params.Morph.Op = parseMorphOp(morphOp)
	params.Morph.Kernel = kernel
	params.Morph.Iterations = iterations
	params.Find.MinArea = minArea
	params.Find.MaxRegions = maxRegions
	params.Classify.K = k
	params.Classify.ConfidenceThresh = confThresh
	params.Classify.Metric = parseMetric(metric)
	return params
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

func parseMorphOp(s string) morph.Op {
	switch s {
	case "close":
		return morph.OpClose
	case "erode":
		return morph.OpErode
	case "dilate":
		return morph.OpDilate
	default:
		return morph.OpOpen
	}
}

func parseMetric(s string) classify.Metric {
	if s == "cosine" {
		return classify.MetricCosine
	}
	return classify.MetricScaledEuclidean
}
