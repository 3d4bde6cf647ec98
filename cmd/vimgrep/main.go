// Command vimgrep prints the lines that match a Vim regular expression.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/coregx/vimre"
	"github.com/coregx/vimre/internal/logger"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const (
	appName     = "vimgrep"
	defaultSize = 4096
)

var Version = "0.1.0"

var (
	appDir            = filepath.Join(xdg.StateHome, appName)
	defaultConfigPath = filepath.Join(xdg.ConfigHome, appName, "config.toml")
)

// errNoMatch makes the command exit with status 1 without a message.
var errNoMatch = errors.New("no match")

// AppConfig holds the command line flags.
type AppConfig struct {
	configPath   string
	ignoreCase   bool
	smartCase    bool
	dialect      string
	multiLine    bool
	colorMode    string
	stripANSI    bool
	normalize    bool
	lineNumbers  bool
	column       bool
	count        bool
	withFilename bool
	timeout      time.Duration
	logLevel     string
}

// readInput reads all lines from r with buffering.
func readInput(r io.Reader) ([]string, error) {
	bufferedReader := bufio.NewReaderSize(r, defaultSize)
	var lines []string

	for {
		line, err := bufferedReader.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("reading input: %w", err)
		}

		if line != "" {
			lines = append(lines, strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r"))
		}

		if err == io.EOF {
			break
		}
	}

	return lines, nil
}

func readFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening input file: %w", err)
	}
	defer file.Close() // nolint: errcheck
	return readInput(file)
}

// colorEnabled resolves a colour mode for the terminal state.
func colorEnabled(mode string, tty bool) (bool, error) {
	switch mode {
	case "always":
		return true, nil
	case "never":
		return false, nil
	case "auto", "":
		return tty, nil
	}
	return false, fmt.Errorf("unknown color mode %q", mode)
}

// applyFlags lets changed flags override the config file.
func applyFlags(cmd *cobra.Command, app *AppConfig, config *Config) {
	flags := cmd.Flags()
	if flags.Changed("ignore-case") && app.ignoreCase {
		config.Core.Case = "ignore"
	}
	if flags.Changed("smart-case") && app.smartCase {
		config.Core.Case = "smart"
	}
	if flags.Changed("dialect") {
		config.Core.Dialect = app.dialect
	}
	if flags.Changed("multiline") {
		config.Core.MultiLine = app.multiLine
	}
	if flags.Changed("color") {
		config.Colors.Mode = app.colorMode
	}
	if flags.Changed("strip-ansi") {
		config.Search.StripANSI = app.stripANSI
	}
	if flags.Changed("nfc") {
		config.Search.Normalize = app.normalize
	}
	if flags.Changed("timeout") {
		config.Search.Timeout = app.timeout.String()
	}
	if flags.Changed("log-level") {
		config.Log.Level = app.logLevel
	}
}

func runApp(cmd *cobra.Command, app *AppConfig, args []string) error {
	config, err := LoadConfigFromFile(app.configPath)
	if err != nil {
		return err
	}
	applyFlags(cmd, app, config)

	logFile, err := logger.InitLogger(filepath.Join(appDir, appName+".log"), config.Log.Level)
	if err != nil {
		return err
	}
	defer logFile.Close() // nolint: errcheck

	engineConfig, err := config.EngineConfig(slog.Default())
	if err != nil {
		return err
	}
	re, err := vimre.CompileWithConfig(args[0], engineConfig)
	if err != nil {
		return err
	}

	var timeout time.Duration
	if config.Search.Timeout != "" {
		if timeout, err = time.ParseDuration(config.Search.Timeout); err != nil {
			return fmt.Errorf("parsing timeout: %w", err)
		}
	}

	enabled, err := colorEnabled(config.Colors.Mode, term.IsTerminal(int(os.Stdout.Fd())))
	if err != nil {
		return err
	}
	hl, err := newHighlighter(config.Colors, enabled)
	if err != nil {
		return err
	}

	out := bufio.NewWriterSize(cmd.OutOrStdout(), defaultSize)
	defer out.Flush() // nolint: errcheck

	files := args[1:]
	g := &grepper{
		re: re,
		hl: hl,
		w:  out,
		opts: grepOptions{
			lineNumbers:  app.lineNumbers,
			column:       app.column,
			count:        app.count,
			withFilename: app.withFilename || len(files) > 1,
			stripANSI:    config.Search.StripANSI,
			normalize:    config.Search.Normalize,
			timeout:      timeout,
		},
	}

	total := 0
	if len(files) == 0 {
		lines, err := readInput(cmd.InOrStdin())
		if err != nil {
			return err
		}
		if total, err = g.grep("(standard input)", lines); err != nil {
			return err
		}
	}
	for _, name := range files {
		lines, err := readFile(name)
		if err != nil {
			return err
		}
		n, err := g.grep(name, lines)
		if err != nil {
			return err
		}
		total += n
	}

	st := re.Stats()
	slog.Debug("search finished",
		"pattern", re.String(),
		"strategy", re.Strategy().String(),
		"searches", st.Searches,
		"lines", st.LinesScanned,
		"prefilter_rejects", st.PrefilterRejects,
		"matches", st.Matches)

	if total == 0 {
		return errNoMatch
	}
	return nil
}

func newRootCmd() *cobra.Command {
	app := &AppConfig{}

	rootCmd := &cobra.Command{
		Use:   appName + " [flags] PATTERN [FILE...]",
		Short: "Print lines matching a Vim regular expression",
		Long: color.New(color.FgHiMagenta).Sprintf(
			"Print lines matching a Vim regular expression. %s",
			color.New(color.FgBlue).Sprintf("(%s)", Version),
		),
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApp(cmd, app, args)
		},
	}

	rootCmd.Flags().StringVar(&app.configPath, "config", defaultConfigPath, "Path of the TOML config file")
	rootCmd.Flags().BoolVarP(&app.ignoreCase, "ignore-case", "i", false, "Ignore case")
	rootCmd.Flags().BoolVarP(&app.smartCase, "smart-case", "s", false, "Ignore case unless the pattern has an upper-case letter")
	rootCmd.Flags().StringVarP(&app.dialect, "dialect", "d", "magic", "Starting magic level: magic, very-magic, nomagic or very-nomagic")
	rootCmd.Flags().BoolVarP(&app.multiLine, "multiline", "M", false, "Match across line breaks")
	rootCmd.Flags().StringVar(&app.colorMode, "color", "auto", "When to highlight matches: auto, always or never")
	rootCmd.Flags().BoolVar(&app.stripANSI, "strip-ansi", false, "Remove ANSI escape sequences from the input")
	rootCmd.Flags().BoolVar(&app.normalize, "nfc", false, "Compose the input to Unicode NFC before matching")
	rootCmd.Flags().BoolVarP(&app.lineNumbers, "line-number", "n", false, "Prefix each line with its line number")
	rootCmd.Flags().BoolVar(&app.column, "column", false, "Prefix each line with the screen column of its first match")
	rootCmd.Flags().BoolVarP(&app.count, "count", "c", false, "Print the number of matching lines only")
	rootCmd.Flags().BoolVarP(&app.withFilename, "with-filename", "H", false, "Prefix each line with the file name")
	rootCmd.Flags().DurationVar(&app.timeout, "timeout", 0, "Give up on a file after this long")
	rootCmd.Flags().StringVar(&app.logLevel, "log-level", "info", "Log level: debug, info, warn or error")

	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if errors.Is(err, errNoMatch) {
			os.Exit(1)
		}
		slog.Error("Error executing command", "error", err)
		fmt.Fprintln(os.Stderr, color.RedString("%s: %v", appName, err))
		os.Exit(2)
	}
}
