package main

// Example command that loads a result directory with the datasets package,
// prints what it found and converts the arrays into gomlx tensors.
//
// Usage:
//   go run ./datasets/example -path /abs/result/dir -type test
//
// The directory must hold true.npy/pred.npy (or the _train variants) and may
// hold a name_list.txt.

import (
	"flag"
	"fmt"
	"log"

	"github.com/Noofbiz/seqvis/datasets"
)

func main() {
	dir := flag.String("path", ".", "result directory")
	typ := flag.String("type", "test", "which arrays to load: train or test")
	flag.Parse()

	v, err := datasets.ParseVariant(*typ)
	if err != nil {
		log.Fatal(err)
	}

	res, err := datasets.Load(*dir, v)
	if err != nil {
		log.Fatalf("failed to load %s arrays from %s: %v", v, *dir, err)
	}
	if err := res.Validate(); err != nil {
		log.Fatalf("arrays cannot be compared: %v", err)
	}
	fmt.Printf("Loaded %s and %s from %s\n", v.TrueFile(), v.PredFile(), res.Dir)
	fmt.Printf("  Samples: %d, steps: %d, channels: %d\n", res.Samples(), res.True.Steps(), res.Channels())

	if res.Names == nil {
		fmt.Printf("No %s, channels will be numbered\n", datasets.NameListFile)
	} else {
		fmt.Printf("Channel names (%d):\n", len(res.Names))
		for i, name := range res.Names {
			fmt.Printf("  %d: %s\n", i, name)
		}
	}

	// Show the first channel of the first sample next to its prediction.
	if res.Samples() > 0 && res.Channels() > 0 {
		truth, err := res.True.Series(0, 0)
		if err != nil {
			log.Fatal(err)
		}
		pred, err := res.Pred.Series(0, 0)
		if err != nil {
			log.Fatal(err)
		}
		n := min(8, len(truth))
		fmt.Printf("  Sample 0, channel 0, first %d steps:\n", n)
		fmt.Printf("    true: %v\n", truth[:n])
		fmt.Printf("    pred: %v\n", pred[:n])
	}

	if res.Samples() == 0 {
		return
	}
	trueT := res.True.Tensor()
	predT := res.Pred.Tensor()
	fmt.Printf("Created tensors: true=%v pred=%v\n", trueT.Shape().Dimensions, predT.Shape().Dimensions)
}
