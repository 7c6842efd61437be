package cli

import (
	"detailq/internal/global"
	"flag"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"text/tabwriter"
)

const (
	RootCLICommand  string = "root"
	helpMenuTrailer string = `
Send SIGHUP to a running daemon to rescan for detail files and flush outputs.
`
)

// Prints usage, description, subcommands and options of a command to stdout
func PrintHelpMenu(fs *flag.FlagSet, command string, rootCmd *global.CommandSet) {
	writeHelpMenu(os.Stdout, filepath.Base(os.Args[0]), fs, command, rootCmd)
}

func writeHelpMenu(w io.Writer, program string, fs *flag.FlagSet, command string, rootCmd *global.CommandSet) {
	path := findCommand(rootCmd, command)
	if path == nil {
		fmt.Fprintf(w, "Unknown command: %s\n", command)
		return
	}
	current := path[len(path)-1]

	usage := []string{program}
	for _, cmd := range path[1:] {
		usage = append(usage, cmd.CommandName)
	}
	if len(current.ChildCommands) > 0 {
		usage = append(usage, "[command]")
	}
	if current.UsageOption != "" {
		usage = append(usage, current.UsageOption)
	}
	usage = append(usage, "[options]")
	fmt.Fprintf(w, "Usage: %s\n\n", strings.Join(usage, " "))

	if current == rootCmd {
		fmt.Fprintf(w, "%s\n%s\n\n", current.Description, current.FullDescription)
	} else if current.FullDescription != "" {
		fmt.Fprintf(w, "  %s\n\n", current.FullDescription)
	}

	if len(current.ChildCommands) > 0 {
		fmt.Fprintln(w, "  Commands:")
		table := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, name := range slices.Sorted(maps.Keys(current.ChildCommands)) {
			fmt.Fprintf(table, "    %s\t%s\n", name, current.ChildCommands[name].Description)
		}
		table.Flush()
		fmt.Fprintln(w)
	}

	writeFlagOptions(w, fs)

	if current == rootCmd {
		fmt.Fprint(w, helpMenuTrailer)
	}
}

// Path from the root to the named command, nil when it does not exist
func findCommand(root *global.CommandSet, command string) (path []*global.CommandSet) {
	if command == "" || command == RootCLICommand {
		path = []*global.CommandSet{root}
		return
	}
	for _, name := range slices.Sorted(maps.Keys(root.ChildCommands)) {
		child := root.ChildCommands[name]
		if name == command {
			path = []*global.CommandSet{root, child}
			return
		}
		sub := findCommand(child, command)
		if sub != nil {
			path = append([]*global.CommandSet{root}, sub...)
			return
		}
	}
	return
}

// One printed option line, short and long spellings of the same flag share it
type option struct {
	short      []string
	long       []string
	usage      string
	defaultVal string
}

func (opt option) names() string {
	names := make([]string, 0, len(opt.short)+len(opt.long))
	for _, name := range opt.short {
		names = append(names, "-"+name)
	}
	for _, name := range opt.long {
		names = append(names, "--"+name)
	}
	joined := strings.Join(names, ", ")
	if len(opt.short) == 0 {
		// Align long-only flags with the long names of paired flags
		joined = "    " + joined
	}
	return joined
}

// Flags sharing identical usage text are aliases of one option
func collectOptions(fs *flag.FlagSet) (options []*option) {
	byUsage := make(map[string]*option)
	fs.VisitAll(func(arg *flag.Flag) {
		opt, ok := byUsage[arg.Usage]
		if !ok {
			opt = &option{usage: arg.Usage, defaultVal: arg.DefValue}
			byUsage[arg.Usage] = opt
			options = append(options, opt)
		}
		if len(arg.Name) == 1 {
			opt.short = append(opt.short, arg.Name)
		} else {
			opt.long = append(opt.long, arg.Name)
		}
	})

	slices.SortFunc(options, func(a, b *option) int {
		return strings.Compare(strings.ToLower(sortName(a)), strings.ToLower(sortName(b)))
	})
	return
}

func sortName(opt *option) string {
	if len(opt.short) > 0 {
		return opt.short[0]
	}
	return opt.long[0]
}

func writeFlagOptions(w io.Writer, fs *flag.FlagSet) {
	options := collectOptions(fs)
	if len(options) == 0 {
		return
	}

	fmt.Fprintln(w, "  Options:")
	table := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, opt := range options {
		desc := opt.usage
		switch opt.defaultVal {
		case "", "false", "0":
		default:
			desc += " [default: " + opt.defaultVal + "]"
		}
		fmt.Fprintf(table, "    %s\t%s\n", opt.names(), desc)
	}
	table.Flush()
}
