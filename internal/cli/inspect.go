package cli

import (
	"bytes"
	"detailq/internal/global"
	"detailq/pkg/record"
	"flag"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

type recordSummary struct {
	Offset int64
	Length int
	Status string // done, pending, invalid or partial
	Header string
}

func InspectMode(commandname string, args []string) {
	var showAll bool
	commandFlags := flag.NewFlagSet(commandname, flag.ExitOnError)
	SetGlobalArguments(commandFlags)
	commandFlags.BoolVar(&showAll, "a", false, "Include records already marked done")
	commandFlags.BoolVar(&showAll, "all", false, "Include records already marked done")

	commandFlags.Usage = func() {
		PrintHelpMenu(commandFlags, commandname, global.CmdOpts)
	}
	path, rest := splitPath(args)
	commandFlags.Parse(rest)
	if path == "" && commandFlags.NArg() > 0 {
		path = commandFlags.Arg(0)
	}
	if path == "" {
		PrintHelpMenu(commandFlags, commandname, global.CmdOpts)
		os.Exit(1)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Truncate headers only when a person is looking
	width := 0
	if term.IsTerminal(int(os.Stdout.Fd())) {
		width, _, err = term.GetSize(int(os.Stdout.Fd()))
		if err != nil {
			width = 0
		}
	}

	writeSummary(os.Stdout, summarize(data), showAll, width)
}

// Splits data into records on blank lines. Trailing bytes without a
// terminator are reported as a partial record.
func summarize(data []byte) (summaries []recordSummary) {
	var offset int
	for offset < len(data) {
		end := bytes.Index(data[offset:], []byte("\n\n"))
		length := len(data) - offset
		if end >= 0 {
			length = end + 2
		}
		payload := data[offset : offset+length]

		summary := recordSummary{
			Offset: int64(offset),
			Length: length,
		}

		rec, err := record.Parse(payload)
		switch {
		case end < 0:
			summary.Status = "partial"
			summary.Header = firstLine(payload)
		case err != nil:
			summary.Status = "invalid"
			summary.Header = err.Error()
		case rec.Done:
			summary.Status = "done"
			summary.Header = rec.Header
		default:
			summary.Status = "pending"
			summary.Header = rec.Header
		}

		summaries = append(summaries, summary)
		offset += length
	}
	return
}

// Prints one line per record and a totals line. A width above zero
// truncates each line to fit.
func writeSummary(w io.Writer, summaries []recordSummary, showAll bool, width int) {
	counts := make(map[string]int)
	for _, summary := range summaries {
		counts[summary.Status]++
		if summary.Status == "done" && !showAll {
			continue
		}

		line := fmt.Sprintf("%10d %7d %-8s %s", summary.Offset, summary.Length, summary.Status, summary.Header)
		if width > 3 && len(line) > width {
			line = line[:width-3] + "..."
		}
		fmt.Fprintln(w, line)
	}
	fmt.Fprintf(w, "%d records: %d pending, %d done, %d invalid, %d partial\n",
		len(summaries), counts["pending"], counts["done"], counts["invalid"], counts["partial"])
}

func firstLine(payload []byte) string {
	line, _, _ := bytes.Cut(payload, []byte("\n"))
	return string(line)
}

// Takes a leading positional path so flags may follow it
func splitPath(args []string) (path string, rest []string) {
	if len(args) > 0 && len(args[0]) > 0 && args[0][0] != '-' {
		path = args[0]
		rest = args[1:]
		return
	}
	rest = args
	return
}
