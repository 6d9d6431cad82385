package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/mcncl/jsontree/internal/analyzer"
	"github.com/mcncl/jsontree/internal/builder"
	"github.com/mcncl/jsontree/internal/config"
	"github.com/mcncl/jsontree/internal/errors"
	"github.com/mcncl/jsontree/internal/formatter"
	"github.com/mcncl/jsontree/internal/models"
	"github.com/mcncl/jsontree/internal/parser"
)

// CLI defines the command-line interface
var CLI struct {
	Input       string `help:"Path to input JSON or YAML file. If not specified, reads from stdin." short:"i" type:"path"`
	Output      string `help:"Path to output file. If not specified, writes to stdout." short:"o" type:"path"`
	Label       string `help:"Label for the root node of the tree (default: root)." short:"l"`
	InputFormat string `help:"Input format: auto, json or yaml." name:"input-format"`
	To          string `help:"Output format: text, json or yaml." short:"t"`
	MaxDepth    int    `help:"Maximum nesting depth of the input (default: 1000)." name:"max-depth"`
	ShowKinds   bool   `help:"Annotate each node with its kind and value type." name:"show-kinds"`
	LabelCase   string `help:"Case for branch labels: none, camel, lower_camel, snake or kebab." name:"label-case"`
	Stats       bool   `help:"Print a summary of the document to stderr."`
	Config      string `help:"Path to config file. If not specified, searches for .jsontree.yml." short:"c" type:"path"`
	Debug       bool   `help:"Enable debug logging." short:"d"`
	Version     bool   `help:"Show version information." short:"v"`
	Interactive bool   `help:"Run in interactive mode, allowing direct JSON or YAML input with Ctrl+D to process." short:"I"`
}

// Context holds the runtime context
type Context struct {
	Config *config.Config
	Logger *slog.Logger
	Stdout io.Writer
	Stderr io.Writer
}

// Version information
const (
	Version = "0.1.0"
)

func main() {
	// Parse CLI arguments with Kong
	parser := kong.Must(&CLI,
		kong.Name("jsontree"),
		kong.Description("A tool to turn JSON and YAML documents into labelled trees"),
		kong.UsageOnError(),
	)

	// Check if no arguments provided and set interactive mode by default
	if len(os.Args) == 1 {
		CLI.Interactive = true
	}

	if _, err := parser.Parse(os.Args[1:]); err != nil {
		// kong.UsageOnError() has already printed the usage
		os.Exit(1)
	}

	if CLI.Version {
		fmt.Printf("jsontree version %s\n", Version)
		return
	}

	ctx, err := newContext()
	if err == nil {
		err = run(ctx)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		fmt.Fprintf(os.Stderr, "\nFor help, run: jsontree --help\n")
		os.Exit(1)
	}
}

// newContext loads the configuration and sets up logging
func newContext() (*Context, error) {
	configPath := CLI.Config
	if configPath == "" {
		configPath = config.FindConfigFile()
	}

	cfg, err := config.LoadConfigWithCLI(configPath, config.Overrides{
		RootLabel:    CLI.Label,
		MaxDepth:     CLI.MaxDepth,
		InputFormat:  CLI.InputFormat,
		OutputFormat: CLI.To,
		LabelCase:    CLI.LabelCase,
		ShowKinds:    CLI.ShowKinds,
		Debug:        CLI.Debug,
	})
	if err != nil {
		return nil, errors.NewConfigError("failed to load configuration", err)
	}

	logger := newLogger(os.Stderr, cfg.Dev.Debug)
	if configPath != "" {
		logger.Debug("loaded config file", "path", configPath)
	}

	return &Context{
		Config: cfg,
		Logger: logger,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}, nil
}

// newLogger returns a text logger that only shows warnings unless debug is set
func newLogger(w io.Writer, debug bool) *slog.Logger {
	level := new(slog.LevelVar)
	level.Set(slog.LevelWarn)
	if debug {
		level.Set(slog.LevelDebug)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// run executes the main program logic
func run(ctx *Context) error {
	cfg := ctx.Config
	log := ctx.Logger

	// 1. Parse the input document
	ir, err := parseInput(cfg)
	if err != nil {
		// Error is already wrapped by the parser
		return err
	}
	log.Debug("parsed input", "format", ir.Format, "root_is_array", ir.RootIsArray)

	// 2. Summarise the document if requested
	if CLI.Stats {
		summary, err := analyzer.NewAnalyzerWithConfig(cfg).Analyze(ir, cfg.RootLabel)
		if err != nil {
			return errors.NewBuildError("failed to analyze document", err)
		}
		log.Debug("analyzed document", "values", summary.Values, "max_depth", summary.MaxDepth)
		fmt.Fprint(ctx.Stderr, formatStats(summary))
	}

	// 3. Build the tree
	tree, err := builder.NewBuilderWithConfig(cfg).Build(cfg.RootLabel, ir.Root)
	if err != nil {
		return errors.NewBuildError("failed to build tree", err)
	}
	log.Debug("built tree", "nodes", tree.Count(), "depth", tree.Depth())

	// 4. Export the tree
	out, err := formatter.NewFormatter().Format(tree, formatter.OptionsFromConfig(cfg))
	if err != nil {
		return errors.NewFormatError("failed to export tree", err)
	}
	log.Debug("formatted tree", "format", cfg.Output.Format, "bytes", len(out))

	// 5. Output the result
	return writeOutput(ctx, out)
}

// inputFormat maps the configured input format onto the parser's formats
func inputFormat(cfg *config.Config) models.Format {
	switch cfg.Input.Format {
	case config.InputJSON:
		return models.FormatJSON
	case config.InputYAML:
		return models.FormatYAML
	default:
		return models.FormatAuto
	}
}

// parseInput reads the document from file or stdin
func parseInput(cfg *config.Config) (models.IntermediateRepresentation, error) {
	p := parser.NewParserWithConfig(cfg)
	format := inputFormat(cfg)

	if CLI.Input != "" {
		return p.ParseFile(CLI.Input, format)
	}

	// Check if stdin has data
	stdinInfo, err := os.Stdin.Stat()
	if err != nil {
		return models.IntermediateRepresentation{}, errors.NewInputError("failed to access stdin", err)
	}

	// Interactive mode or piped input
	if (stdinInfo.Mode() & os.ModeCharDevice) != 0 {
		if CLI.Interactive {
			return readInteractiveInput(p, format)
		}
		return models.IntermediateRepresentation{}, errors.NewInputError("no input provided", errors.ErrNoInput)
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return models.IntermediateRepresentation{}, errors.NewInputError("failed to read from stdin", err)
	}

	if len(data) == 0 {
		return models.IntermediateRepresentation{}, errors.NewInputError("empty input received from stdin", errors.ErrEmptyInput)
	}

	return p.ParseBytes(data, format)
}

// writeOutput writes the exported tree to file or stdout
func writeOutput(ctx *Context, out string) error {
	if CLI.Output != "" {
		err := os.WriteFile(CLI.Output, []byte(out), 0644)
		if err != nil {
			return errors.NewOutputError(fmt.Sprintf("failed to write to file '%s'", CLI.Output), err)
		}
		fmt.Fprintf(ctx.Stderr, "Tree written to %s\n", CLI.Output)
		return nil
	}

	_, err := fmt.Fprintln(ctx.Stdout, strings.TrimRight(out, "\n"))
	if err != nil {
		return errors.NewOutputError("failed to write to stdout", err)
	}
	return nil
}

// formatStats renders a document summary, one count per line
func formatStats(summary models.Summary) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "values: %d\n", summary.Values)
	fmt.Fprintf(&sb, "max depth: %d\n", summary.MaxDepth)

	for kind := models.SimpleValue; kind <= models.Complex; kind++ {
		if n := summary.Kinds[kind]; n > 0 {
			fmt.Fprintf(&sb, "%s: %d\n", kind, n)
		}
	}
	for valueType := models.Null; valueType <= models.Dict; valueType++ {
		if n := summary.Types[valueType]; n > 0 {
			fmt.Fprintf(&sb, "%s: %d\n", valueType, n)
		}
	}
	return sb.String()
}

// readInteractiveInput provides an interactive mode for users to paste a
// document and signal completion with Ctrl+D (EOF)
func readInteractiveInput(p *parser.Parser, format models.Format) (models.IntermediateRepresentation, error) {
	fmt.Fprintln(os.Stderr, "jsontree Interactive Mode")
	fmt.Fprintln(os.Stderr, "Paste your JSON or YAML below and press Ctrl+D (or Ctrl+Z on Windows) when done:")

	reader := bufio.NewReader(os.Stdin)
	var sb strings.Builder

	for {
		line, err := reader.ReadString('\n')
		sb.WriteString(line)
		if err == io.EOF {
			break
		}
		if err != nil {
			return models.IntermediateRepresentation{}, errors.NewInputError("error reading input", err)
		}
	}

	if strings.TrimSpace(sb.String()) == "" {
		return models.IntermediateRepresentation{}, errors.NewInputError("empty input received", errors.ErrEmptyInput)
	}

	fmt.Fprintln(os.Stderr, "\nProcessing input...")
	return p.ParseBytes([]byte(sb.String()), format)
}
