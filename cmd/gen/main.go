// Package main provides a CLI generator for synthetic trace files.
//
// Grounded on the teacher's cmd/client/main.go (flag-based CLI, printed
// usage on bad invocation), repurposed from HTTP order submission to CSV
// trace generation since there is no live server to submit orders to in
// this domain.
package main

import (
	"flag"
	"fmt"
	"math"
	"math/rand"
	"os"
)

func main() {
	out := flag.String("out", "trace.csv", "output CSV path")
	rows := flag.Int("rows", 100, "number of data rows to generate")
	periodS := flag.Float64("period", 0.04, "seconds between rows (time column)")
	seed := flag.Int64("seed", 1, "PRNG seed for reproducible traces")
	pattern := flag.String("pattern", "sine", "value pattern: sine, ramp, or noisy-sine")

	flag.Parse()

	if *rows <= 0 {
		fmt.Fprintln(os.Stderr, "gen: -rows must be >= 1")
		os.Exit(1)
	}

	file, err := os.Create(*out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "gen: %v\n", err)
		os.Exit(1)
	}
	defer file.Close()

	rng := rand.New(rand.NewSource(*seed))

	fmt.Fprintln(file, "t,v")
	for i := 0; i < *rows; i++ {
		t := float64(i) * *periodS
		v := valueAt(*pattern, t, rng)
		fmt.Fprintf(file, "%.6f,%.6f\n", t, v)
	}

	fmt.Printf("gen: wrote %d rows to %s\n", *rows, *out)
}

func valueAt(pattern string, t float64, rng *rand.Rand) float64 {
	switch pattern {
	case "ramp":
		return t
	case "noisy-sine":
		return math.Sin(t) + (rng.Float64()-0.5)*0.2
	default:
		return math.Sin(t)
	}
}
