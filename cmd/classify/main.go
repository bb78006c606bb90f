// Command classify runs one raw sensor reading through the level and rain
// transforms and the risk classifier, printing the result. With -table it
// prints the level transform over the whole 12-bit range, which is useful
// when checking a calibration.
//
// Usage:
//
//	go run ./cmd/classify -rain-raw 3000 -level-raw 3500
//	go run ./cmd/classify -table -step 128 -baseline 4.2
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/couchcryptid/river-monitor/internal/domain"
)

type options struct {
	rainRaw  uint
	levelRaw uint
	baseline float64
	maxRain  float64
	table    bool
	step     uint
}

func main() {
	var opts options
	flag.UintVar(&opts.rainRaw, "rain-raw", 0, "raw rain channel reading (0-4095)")
	flag.UintVar(&opts.levelRaw, "level-raw", 2048, "raw level channel reading (0-4095)")
	flag.Float64Var(&opts.baseline, "baseline", domain.DefaultBaselineLevel, "baseline river level")
	flag.Float64Var(&opts.maxRain, "max-rain", domain.DefaultMaxRain, "rain intensity at full scale")
	flag.BoolVar(&opts.table, "table", false, "print the level transform over the raw range")
	flag.UintVar(&opts.step, "step", 256, "raw step between table rows")
	flag.Parse()

	os.Exit(run(os.Stdout, os.Stderr, opts))
}

func run(stdout, stderr io.Writer, opts options) int {
	if opts.rainRaw > domain.ADCMax || opts.levelRaw > domain.ADCMax {
		fmt.Fprintln(stderr, "raw readings must be in [0, 4095]")
		return 2
	}
	if opts.baseline <= 0 || opts.maxRain <= 0 {
		fmt.Fprintln(stderr, "baseline and max-rain must be positive")
		return 2
	}
	cal := domain.Calibration{BaselineLevel: opts.baseline, MaxRain: opts.maxRain}

	if opts.table {
		if opts.step == 0 {
			fmt.Fprintln(stderr, "step must be positive")
			return 2
		}
		printTable(stdout, cal, uint16(opts.rainRaw), opts.step)
		return 0
	}

	raw := domain.RawSample{RainRaw: uint16(opts.rainRaw), LevelRaw: uint16(opts.levelRaw)}
	m := domain.Convert(raw, cal)
	status, label := domain.Classify(m.RiverLevel, m.RainIntensity, cal.BaselineLevel)

	fmt.Fprintf(stdout, "level: %.2f\n", m.RiverLevel)
	fmt.Fprintf(stdout, "rain: %.2f\n", m.RainIntensity)
	fmt.Fprintf(stdout, "status: %s (%s)\n", label, status)
	if m.OutOfRange {
		fmt.Fprintf(stdout, "warning: level outside [0, %.2f]\n", 2*cal.BaselineLevel)
	}
	return 0
}

func printTable(w io.Writer, cal domain.Calibration, rainRaw uint16, step uint) {
	rain := domain.RainIntensity(rainRaw, cal.MaxRain)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "LEVEL_RAW\tLEVEL\tSTATUS")
	for y := uint(0); y <= domain.ADCMax; y += step {
		level := domain.RiverLevel(uint16(y), cal.BaselineLevel)
		_, label := domain.Classify(level, rain, cal.BaselineLevel)
		fmt.Fprintf(tw, "%d\t%.2f\t%s\n", y, level, label)
	}
	tw.Flush()
}
