package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"xmlsort/internal/version"
)

// errReported means the failure was already printed per file.
var errReported = errors.New("some files could not be formatted")

var rootCmd = &cobra.Command{
	Use:   "xmlsort [flags] <file|dir|glob> [...]",
	Short: "Sort XML attributes and re-indent documents",
	Long: `xmlsort rewrites XML files in place with the attributes of every element
sorted by name and the markup re-indented. The original file is kept as
<file>.bak unless --no-backup is given.`,
	Args:              cobra.MinimumNArgs(1),
	PersistentPreRunE: applyColorFlag,
	RunE:              runFormat,
	SilenceErrors:     true,
}

func init() {
	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().String("trace", "", "write trace events to a file (- for stderr)")
	rootCmd.PersistentFlags().String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	rootCmd.PersistentFlags().String("trace-format", "auto", "trace format (auto|text|ndjson)")
	rootCmd.PersistentFlags().String("cpu-profile", "", "write a CPU profile to the file")
	rootCmd.PersistentFlags().String("mem-profile", "", "write a heap profile to the file on exit")

	rootCmd.AddCommand(versionCmd)
}

// main executes the root command and exits with status 1 on any error.
func main() {
	rootCmd.Version = version.Version

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "xmlsort: %v\n", err)
		}
		os.Exit(1)
	}
}

func applyColorFlag(cmd *cobra.Command, _ []string) error {
	value, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return err
	}
	switch value {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	case "auto":
		color.NoColor = !isTerminal(os.Stdout)
	default:
		return fmt.Errorf("invalid --color value %q (expected auto|on|off)", value)
	}
	return nil
}

// terminalWidth returns the width of stderr, or 0 when it is not a terminal.
func terminalWidth() int {
	fd := int(os.Stderr.Fd())
	if !term.IsTerminal(fd) {
		return 0
	}
	width, _, err := term.GetSize(fd)
	if err != nil {
		return 0
	}
	return width - 8
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
