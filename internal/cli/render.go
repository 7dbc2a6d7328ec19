package cli

import (
	"cmp"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/boxarrow/pkg/config"
	"github.com/matzehuels/boxarrow/pkg/errors"
	bxio "github.com/matzehuels/boxarrow/pkg/io"
	"github.com/matzehuels/boxarrow/pkg/pipeline"
	"github.com/matzehuels/boxarrow/pkg/render/sink"
	"github.com/matzehuels/boxarrow/pkg/schematic"
)

// stdinName is the input argument that reads the tree from standard input.
const stdinName = "-"

// resolveFlags are the pipeline switches shared by render and check.
type resolveFlags struct {
	inputFormat string
	noOptimize  bool
	rounds      int
	wrapColumns float64
	wrapRows    float64
	noCache     bool
	refresh     bool
}

func (f *resolveFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.inputFormat, "input-format", "", "input codec when reading stdin: json (default), toml, yaml")
	cmd.Flags().BoolVar(&f.noOptimize, "no-optimize", false, "resolve the input configuration as written")
	cmd.Flags().IntVar(&f.rounds, "rounds", 0, "maximum optimizer rounds (default from config)")
	cmd.Flags().Float64Var(&f.wrapColumns, "wrap-columns", 0, "wrap threshold for columns without one (default from config)")
	cmd.Flags().Float64Var(&f.wrapRows, "wrap-rows", 0, "wrap threshold for rows without one (default from config)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the resolution cache")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "recompute even when cached")
}

// options derives pipeline options from the configuration and the flags
// the user set explicitly.
func (f *resolveFlags) options(cmd *cobra.Command, cfg *config.Config) (pipeline.Options, error) {
	opts := pipeline.FromConfig(cfg)
	if f.noOptimize {
		opts.Optimize = false
	}
	flags := cmd.Flags()
	if flags.Changed("rounds") {
		if f.rounds < 0 {
			return opts, errors.New(errors.ErrCodeInvalidInput, "--rounds must not be negative")
		}
		opts.Optimizer.MaxRounds = f.rounds
		if f.rounds == 0 {
			opts.Optimizer.MaxRounds = -1
		}
	}
	if flags.Changed("wrap-columns") {
		opts.Wrap.Columns = f.wrapColumns
	}
	if flags.Changed("wrap-rows") {
		opts.Wrap.Rows = f.wrapRows
	}
	opts.Refresh = f.refresh
	return opts, nil
}

// readInput loads the input tree from a file, or from r for "-".
func (f *resolveFlags) readInput(input string, r io.Reader) (*schematic.Spec, error) {
	if input != stdinName {
		return bxio.Import(input)
	}
	codec := strings.ToLower(f.inputFormat)
	if codec == "" {
		codec = bxio.CodecJSON
	}
	return bxio.Read(r, codec)
}

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	resolveFlags
	output   string   // output file (single format) or base path (multiple)
	formats  []string // output formats
	noLabels bool
	grid     float64
	scale    float64
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{scale: sink.DefaultOptions().Scale}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Resolve an input tree and render it",
		Long: `Resolve an input tree (JSON, TOML or YAML, or "-" for stdin) and write
the result in one or more formats.

With a single format, --output names the file ("-" writes to stdout). With
several formats it is a base path that each format's extension is appended to.`,
		Example: `  boxarrow render diagram.toml
  boxarrow render diagram.yaml -f svg,json -o out/diagram
  cat diagram.json | boxarrow render - -f dot -o -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			for _, f := range opts.formats {
				if err := sink.ValidateFormat(f); err != nil {
					return err
				}
			}
			return c.runRender(cmd, args[0], &opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): "+strings.Join(sink.Formats, ", ")+" (comma-separated, default svg)")
	cmd.Flags().BoolVar(&opts.noLabels, "no-labels", false, "omit item labels")
	cmd.Flags().Float64Var(&opts.grid, "grid", 0, "draw a background grid with this spacing")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG scale factor")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, input string, opts *renderOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	popts, err := opts.options(cmd, cfg)
	if err != nil {
		return err
	}
	popts.Formats = opts.formats
	popts.Render.Labels = !opts.noLabels
	popts.Render.Grid = opts.grid
	popts.Render.Scale = opts.scale

	spec, err := opts.readInput(input, cmd.InOrStdin())
	if err != nil {
		return err
	}
	logger.Debugf("Loaded %s", displayName(input))

	runner, err := c.newRunner(ctx, cfg, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	exec, err := runner.Execute(ctx, spec, popts)
	if err != nil {
		return err
	}
	prog.done("Resolved " + displayName(input))

	toStdout := opts.output == stdinName && len(opts.formats) == 1
	if !toStdout {
		printSuccess("Resolved %s", displayName(input))
		printStats(len(exec.Output.Items), len(exec.Output.Links), exec.CacheInfo.OutputHit)
		for _, w := range exec.Output.Warnings {
			printWarning("%s", w)
		}
	}

	for _, format := range opts.formats {
		data := exec.Artifacts[format]
		if toStdout {
			_, err := cmd.OutOrStdout().Write(data)
			return err
		}
		path := outputPath(opts.output, input, format, len(opts.formats))
		if err := writeFile(path, data); err != nil {
			return err
		}
		logger.Debugf("Wrote %s: %d bytes", path, len(data))
		printFile(path)
	}
	return nil
}

// outputPath returns the file a format is written to. A single format with
// an explicit output uses it as is; otherwise the output (or the input
// name) is a base path.
func outputPath(output, input, format string, formats int) string {
	if output != "" && formats == 1 {
		return output
	}
	return sink.FileName(basePath(output, input), format)
}

// basePath derives the base output path. Without an output it strips the
// extension from the input; the longest known format extension on output
// is stripped too.
func basePath(output, input string) string {
	if output == "" {
		if input == stdinName {
			return "schematic"
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	exts := slices.SortedFunc(maps.Values(sink.Extensions), func(a, b string) int {
		return cmp.Compare(len(b), len(a))
	})
	for _, ext := range exts {
		if strings.HasSuffix(output, ext) {
			return strings.TrimSuffix(output, ext)
		}
	}
	return output
}

func displayName(input string) string {
	if input == stdinName {
		return "stdin"
	}
	return input
}

// writeFile writes data to path, creating parent directories.
func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
