package tracesource

import (
	"bufio"
	"fmt"
	"os"
	"time"

	"github.com/agilira/go-timecache"

	"github.com/fenwicklabs/dtwin/internal/measurement"
	"github.com/fenwicklabs/dtwin/internal/ringbuffer"
)

// EmulatorMode selects how the producer paces emission.
type EmulatorMode uint8

const (
	// FixedPeriod sleeps a constant PeriodMs between measurements, at the
	// producer.
	FixedPeriod EmulatorMode = iota
	// RealDeltaT overrides PeriodMs: the producer writes unpaced and the
	// consumer sleeps min(Δt, 5s) computed from the time column between
	// consecutive measurements instead (see PaceFunc).
	RealDeltaT
)

const maxRealDeltaT = 5 * time.Second

// Source is a loaded, parsed trace file: a fixed slice of measurements
// plus the delimiter and time column the loader detected.
type Source struct {
	Delimiter    Delimiter
	TimeColumn   string
	Measurements []*measurement.Measurement
}

// Load reads and parses a delimited trace file. An empty file is a fatal
// source error, propagated before any producer or consumer thread starts
// (spec.md §7).
func Load(path string) (*Source, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("tracesource: open %s: %w", path, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	if !scanner.Scan() {
		return nil, fmt.Errorf("tracesource: %s is empty", path)
	}
	headerLine := scanner.Text()
	delim := DetectDelimiter(headerLine)
	headers := splitFields(headerLine, delim)
	for i, h := range headers {
		headers[i] = trimCell(h)
	}

	timeIdx := timeColumnIndex(headers)
	timeColumn := ""
	if timeIdx >= 0 {
		timeColumn = headers[timeIdx]
	}

	src := &Source{Delimiter: delim, TimeColumn: timeColumn}

	index := 0
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		fields := splitFields(line, delim)
		m := measurement.New(index)
		for col, h := range headers {
			raw := ""
			if col < len(fields) {
				raw = trimCell(fields[col])
			}
			m.Set(h, toValue(raw))
		}
		src.Measurements = append(src.Measurements, m)
		index++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("tracesource: reading %s: %w", path, err)
	}
	if len(src.Measurements) == 0 {
		return nil, fmt.Errorf("tracesource: %s has no data rows", path)
	}
	return src, nil
}

func trimCell(s string) string {
	start, end := 0, len(s)
	for start < end && (s[start] == ' ' || s[start] == '\r' || s[start] == '\t') {
		start++
	}
	for end > start && (s[end-1] == ' ' || s[end-1] == '\r' || s[end-1] == '\t') {
		end--
	}
	return s[start:end]
}

func toValue(raw string) measurement.Value {
	kind, i, f, s := parseScalar(raw)
	switch kind {
	case "int":
		return measurement.IntValue(i)
	case "float":
		return measurement.FloatValue(f)
	case "string":
		return measurement.StringValue(s)
	default:
		return measurement.Absent
	}
}

// TimeSeconds returns m's time-column value in seconds: the "D days
// HH:MM:SS.fff" parser for string-kind columns, plain numeric conversion
// otherwise. Returns false if timeColumn is empty or the value is absent.
func TimeSeconds(timeColumn string, m *measurement.Measurement) (float64, bool) {
	if timeColumn == "" {
		return 0, false
	}
	v := m.Get(timeColumn)
	if v.Kind == measurement.KindString {
		return parseDaysDuration(v.Str)
	}
	return v.Float64()
}

// DeltaSeconds returns the non-negative elapsed time between prev and cur
// along timeColumn, or false if either is missing it.
func DeltaSeconds(timeColumn string, prev, cur *measurement.Measurement) (float64, bool) {
	prevSecs, ok1 := TimeSeconds(timeColumn, prev)
	curSecs, ok2 := TimeSeconds(timeColumn, cur)
	if !ok1 || !ok2 {
		return 0, false
	}
	delta := curSecs - prevSecs
	if delta < 0 {
		delta = 0
	}
	return delta, true
}

// PaceFunc builds the consumer-side pacing function for REAL_DELTA_T mode,
// for use with sli.Sequencer.SetPacing: sleep min(Δt, 5s) between
// consecutive measurements along timeColumn (spec.md §6). Returns zero
// when the time column can't be resolved for either measurement.
func PaceFunc(timeColumn string) func(prev, cur *measurement.Measurement) time.Duration {
	return func(prev, cur *measurement.Measurement) time.Duration {
		delta, ok := DeltaSeconds(timeColumn, prev, cur)
		if !ok {
			return 0
		}
		d := time.Duration(delta * float64(time.Second))
		if d > maxRealDeltaT {
			d = maxRealDeltaT
		}
		return d
	}
}

// Config configures the producer's pacing.
type Config struct {
	Mode     EmulatorMode
	PeriodMs int
}

// Run writes the loaded measurements onto buf and closes it on exit,
// normal or abnormal, per spec.md §5's termination protocol. The
// producer never blocks on the buffer: writes are always non-blocking
// overwrite-on-full.
//
// Pacing is producer-side only in FixedPeriod mode. In RealDeltaT mode
// the producer writes unpaced; pacing instead happens at the consumer
// (see PaceFunc and sli.Sequencer.SetPacing), so a slow consumer
// exercises drop/back-pressure the way REAL_DELTA_T is meant to.
func (s *Source) Run(buf *ringbuffer.Buffer[*measurement.Measurement], cfg Config) {
	clock := timecache.NewWithResolution(time.Millisecond)
	defer clock.Stop()
	defer buf.Close()

	for i, m := range s.Measurements {
		buf.Write(m)
		if i == len(s.Measurements)-1 {
			break
		}
		if cfg.Mode == FixedPeriod && cfg.PeriodMs > 0 {
			time.Sleep(time.Duration(cfg.PeriodMs) * time.Millisecond)
		}
		_ = clock.CachedTime() // cached clock read; its value does not affect pacing
	}
}
