package cli

import (
	"detailq/internal/detail"
	"detailq/internal/global"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"
)

func AppendMode(commandname string, args []string) {
	var header string
	var noTimestamp bool
	var fields []detail.Field

	commandFlags := flag.NewFlagSet(commandname, flag.ExitOnError)
	SetGlobalArguments(commandFlags)
	commandFlags.StringVar(&header, "H", "", "Record header line, its first character is the record class")
	commandFlags.StringVar(&header, "header", "", "Record header line, its first character is the record class")
	fieldFlag := func(value string) (err error) {
		field, err := parseFieldArg(value)
		if err != nil {
			return
		}
		fields = append(fields, field)
		return
	}
	commandFlags.Func("f", "Record field as name=value (repeatable)", fieldFlag)
	commandFlags.Func("field", "Record field as name=value (repeatable)", fieldFlag)
	commandFlags.BoolVar(&noTimestamp, "no-timestamp", false, "Do not add a Timestamp field")

	commandFlags.Usage = func() {
		PrintHelpMenu(commandFlags, commandname, global.CmdOpts)
	}
	path, rest := splitPath(args)
	commandFlags.Parse(rest)
	if path == "" && commandFlags.NArg() > 0 {
		path = commandFlags.Arg(0)
	}
	if path == "" || header == "" {
		PrintHelpMenu(commandFlags, commandname, global.CmdOpts)
		os.Exit(1)
	}

	entry := detail.Entry{
		Header: header,
		Fields: fields,
	}
	if !noTimestamp {
		entry.Timestamp = time.Now()
	}

	written, err := appendEntry(path, entry)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if global.Verbosity > global.VerbosityStandard {
		fmt.Printf("Appended %d bytes to %s\n", written, path)
	}
}

func parseFieldArg(value string) (field detail.Field, err error) {
	name, fieldValue, found := strings.Cut(value, "=")
	name = strings.TrimSpace(name)
	if !found || name == "" {
		err = fmt.Errorf("field %q must be name=value", value)
		return
	}
	field = detail.Field{Name: name, Value: strings.TrimSpace(fieldValue)}
	return
}

// Appends to a file that has not been claimed yet, claimed work files are
// rewritten in place by the daemon
func appendEntry(path string, entry detail.Entry) (written int, err error) {
	record, err := detail.FormatRecord(entry)
	if err != nil {
		return
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0640)
	if err != nil {
		err = fmt.Errorf("failed to open detail file: %w", err)
		return
	}

	written, err = file.Write(record)
	if err != nil {
		file.Close()
		err = fmt.Errorf("failed to append record: %w", err)
		return
	}
	err = file.Close()
	return
}
