// Package parser reads Go benchmark outputs, used as a data source for line charts.
package parser

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"golang.org/x/tools/benchmark/parse"
)

const stdinFile = "-"

// Set wraps [parse.Set] to include file and benchmark environment information.
//
// Each input file yields one [Set], which becomes one category of the chart.
type Set struct {
	parse.Set

	File        string
	Environment string
}

// Names returns the sorted benchmark names found in this set.
func (s Set) Names() []string {
	names := make([]string, 0, len(s.Set))
	for name := range s.Set {
		names = append(names, name)
	}
	slices.Sort(names)

	return names
}

// BenchmarkParser reads Go benchmark outputs, either plain text or the JSON events of `go test -json`.
type BenchmarkParser struct {
	options

	sets []Set
	l    *slog.Logger
}

// New [BenchmarkParser] ready to parse benchmark files.
func New(opts ...Option) *BenchmarkParser {
	return &BenchmarkParser{
		options: optionsWithDefaults(opts),
		l:       slog.Default().With(slog.String("module", "parser")),
	}
}

// ParseFiles parses benchmark files, in order. The file name "-" stands for the standard input.
//
// Sets are accumulated over successive calls.
func (p *BenchmarkParser) ParseFiles(files ...string) error {
	for _, file := range files {
		set, err := p.parseFile(file)
		if err != nil {
			return err
		}

		p.sets = append(p.sets, set)
		p.l.Debug("benchmark file parsed",
			slog.String("file", file),
			slog.Int("benchmarks", len(set.Set)),
		)
	}

	p.l.Info("benchmark input parsed", slog.Int("parsed_files", len(files)))

	return nil
}

// ParseInput parses a single benchmark output.
func (p *BenchmarkParser) ParseInput(r io.Reader) (Set, error) {
	var (
		text string
		err  error
	)

	if p.isJSON {
		text, err = collectJSONOutput(r)
	} else {
		text, err = readText(r)
	}
	if err != nil {
		return Set{}, err
	}

	set, err := parse.ParseSet(strings.NewReader(text))
	if err != nil {
		return Set{}, fmt.Errorf("parsing benchmark output: %w", err)
	}

	return Set{
		Set:         set,
		Environment: extractEnvironment(text),
	}, nil
}

// Sets returns all sets parsed so far.
func (p *BenchmarkParser) Sets() []Set {
	return p.sets
}

// Reset forgets all parsed sets.
func (p *BenchmarkParser) Reset() {
	p.sets = nil
}

func (p *BenchmarkParser) parseFile(file string) (Set, error) {
	if file == stdinFile {
		set, err := p.ParseInput(p.stdin)
		set.File = file

		return set, err
	}

	reader, err := os.Open(file)
	if err != nil {
		return Set{}, fmt.Errorf("input file %q: %w", file, err)
	}
	defer func() {
		_ = reader.Close()
	}()

	set, err := p.ParseInput(reader)
	if err != nil {
		return Set{}, fmt.Errorf("input file %q: %w", file, err)
	}
	set.File = file

	return set, nil
}

func readText(r io.Reader) (string, error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}

	return buf.String(), nil
}

// collectJSONOutput gathers the Output fields of "output" events from `go test -json`.
//
// Lines that are not valid JSON events are skipped.
func collectJSONOutput(r io.Reader) (string, error) {
	var text strings.Builder
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var event testEvent
		if err := json.Unmarshal(line, &event); err != nil { //nolint:musttag // test2json keys are the titleized field names
			continue
		}

		if event.Action == "output" && event.Output != "" {
			text.WriteString(event.Output)
		}
	}

	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("scanning input: %w", err)
	}

	return text.String(), nil
}

// extractEnvironment combines the goos, goarch and cpu header lines of a benchmark output.
func extractEnvironment(text string) string {
	var parts []string
	for line := range strings.SplitSeq(text, "\n") {
		line = strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(line, "goos: "):
			parts = append(parts, strings.TrimPrefix(line, "goos: "))
		case strings.HasPrefix(line, "goarch: "):
			parts = append(parts, strings.TrimPrefix(line, "goarch: "))
		case strings.HasPrefix(line, "cpu: "):
			parts = append(parts, "cpu: "+strings.TrimSpace(strings.TrimPrefix(line, "cpu: ")))
		}
	}

	if len(parts) == 0 {
		return "unknown environment"
	}

	return strings.Join(parts, " ")
}

// testEvent is a single JSON event from `go test -json` output.
//
// See: https://pkg.go.dev/cmd/test2json
type testEvent struct {
	Time    string
	Action  string
	Package string
	Test    string
	Output  string
	Elapsed float64
}
