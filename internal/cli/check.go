package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/boxarrow/pkg/errors"
	bxio "github.com/matzehuels/boxarrow/pkg/io"
	"github.com/matzehuels/boxarrow/pkg/pipeline"
)

type checkOpts struct {
	resolveFlags
	json   bool
	strict bool
}

// checkCommand creates the check command.
func (c *CLI) checkCommand() *cobra.Command {
	var opts checkOpts

	cmd := &cobra.Command{
		Use:   "check [file]",
		Short: "Resolve an input tree and report its defects",
		Long: `Resolve an input tree without rendering it. Structural errors (duplicate or
unknown IDs, cycles, invalid anchor references) fail the command. Otherwise
the defect score, the optimizer's edits and any warnings are reported.

With --strict, remaining defects or warnings also fail the command.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCheck(cmd, args[0], &opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the resolved geometry as JSON")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "fail when defects or warnings remain")

	return cmd
}

func (c *CLI) runCheck(cmd *cobra.Command, input string, opts *checkOpts) error {
	ctx := cmd.Context()

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	popts, err := opts.options(cmd, cfg)
	if err != nil {
		return err
	}
	spec, err := opts.readInput(input, cmd.InOrStdin())
	if err != nil {
		return err
	}

	runner := pipeline.NewRunner(nil, nil, c.Logger)
	res, err := runner.Resolve(ctx, spec, popts)
	if err != nil {
		if id, kind := errors.Location(err); id != "" {
			printError("%s: %s %q", errors.GetCode(err), kind, id)
		}
		return err
	}

	if opts.json {
		if err := bxio.WriteOutput(res.Output(), cmd.OutOrStdout()); err != nil {
			return err
		}
	} else {
		printCheck(displayName(input), res)
	}

	if opts.strict && (!res.Score.Clean() || len(res.Warnings) > 0) {
		return fmt.Errorf("%s: %d warnings, score %s", displayName(input), len(res.Warnings), res.Score)
	}
	return nil
}

func printCheck(name string, res *pipeline.Result) {
	if res.Score.Clean() && len(res.Warnings) == 0 {
		printSuccess("%s is clean", name)
	} else {
		printWarning("%s has defects", name)
	}
	printStats(res.Stats.Items, res.Stats.Links, false)

	printKeyValue("score", fmt.Sprintf("%.2f", res.Score.Total))
	printKeyValue("overlap", fmt.Sprintf("%.2f", res.Score.Overlap))
	printKeyValue("crossings", fmt.Sprintf("%d", res.Score.Crossings))
	printKeyValue("bends", fmt.Sprintf("%d", res.Score.Bends))
	printKeyValue("slack", fmt.Sprintf("%.2f", res.Score.Slack))

	if r := res.Report; r != nil {
		printKeyValue("rounds", fmt.Sprintf("%d", len(r.Rounds)))
		if len(r.Accepted) > 0 {
			printInfo("Optimizer edits (score %.2f %s %.2f)", r.Initial.Total, iconArrow, r.Final.Total)
			for _, c := range r.Accepted {
				printDetail("%s", c.Edit)
			}
		}
	}
	for _, w := range res.Warnings {
		printWarning("%s", w)
	}
}
