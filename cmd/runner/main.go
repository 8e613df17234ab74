// Package main provides the CLI entry point for the digital-twin trace
// runtime: load a trace and an automaton, run them through the ring
// buffer / sequencer / membership pipeline, and print the final report.
//
// Grounded on the teacher's cmd/server/main.go: flag-based configuration,
// a single wiring call, and signal-driven graceful shutdown.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/fenwicklabs/dtwin/internal/config"
	"github.com/fenwicklabs/dtwin/internal/pipeline"
	"github.com/fenwicklabs/dtwin/internal/tracesource"
)

func main() {
	runMode := flag.String("mode", "realtime", "defaults profile: realtime or batch")

	tracePath := flag.String("trace", "", "delimited trace file (required)")
	automatonPath := flag.String("automaton", "", "automaton definition file (required)")
	capacity := flag.Int("capacity", 0, "ring buffer capacity (0 = use -mode default)")
	periodMs := flag.Int("period-ms", -1, "producer pacing in milliseconds (-1 = use -mode default, 0 = unpaced)")
	realDeltaT := flag.Bool("real-delta-t", false, "pace the consumer by each row's Δt (capped at 5s) instead of pacing the producer by -period-ms")
	strict := flag.Bool("strict", false, "use strict membership mode (default relaxed)")
	eventLogPath := flag.String("eventlog", "", "append every verdict to this durable log")
	batchOutputPath := flag.String("batch-output", "", "write batched tracking output to this file")
	quiet := flag.Bool("quiet", false, "suppress per-step console output")

	flag.Parse()

	if *tracePath == "" || *automatonPath == "" {
		fmt.Fprintln(os.Stderr, "runner: -trace and -automaton are required")
		os.Exit(1)
	}

	var cfg config.Config
	switch *runMode {
	case "batch":
		cfg = config.DefaultBatchConfig()
	case "realtime":
		cfg = config.DefaultRealtimeConfig()
	default:
		fmt.Fprintf(os.Stderr, "runner: unknown -mode %q (want realtime or batch)\n", *runMode)
		os.Exit(1)
	}

	cfg.TracePath = *tracePath
	cfg.AutomatonPath = *automatonPath
	cfg.Strict = *strict
	cfg.EventLogPath = *eventLogPath
	cfg.BatchOutputPath = *batchOutputPath
	if *capacity > 0 {
		cfg.Capacity = *capacity
	}
	if *periodMs >= 0 {
		cfg.PeriodMs = *periodMs
	}
	if *realDeltaT {
		cfg.Mode = tracesource.RealDeltaT
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("runner: received shutdown signal, closing buffer")
		cancel()
	}()

	rpt, runErr := pipeline.Run(pipeline.FromConfig(cfg, ctx, *quiet))
	if runErr != nil {
		log.Printf("runner: sequencer halted with error: %v", runErr)
	}
	if rpt == nil {
		log.Fatalf("runner: %v", runErr)
	}

	fmt.Println("--- final report ---")
	fmt.Print(rpt.String())
	if !rpt.Conforms() {
		os.Exit(2)
	}
}
