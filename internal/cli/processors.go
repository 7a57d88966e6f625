package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// ProcessorInfo describes one registered processor.
type ProcessorInfo struct {
	Name    string   `json:"name"`
	Aliases []string `json:"aliases,omitempty"`
	Usage   string   `json:"usage"`
	Summary string   `json:"summary"`
}

// NewProcessorsCommand creates the processors command.
func NewProcessorsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "processors",
		Short:         "List the available processors",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProcessors(rootOpts, cmd)
		},
	}
}

func runProcessors(opts *RootOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format: opts.Format,
		Writer: cmd.OutOrStdout(),
	}

	specs := opts.registry().Specs()
	infos := make([]ProcessorInfo, 0, len(specs))
	for _, s := range specs {
		infos = append(infos, ProcessorInfo{
			Name:    s.Name,
			Aliases: s.Aliases,
			Usage:   s.Usage,
			Summary: s.Summary,
		})
	}

	if formatter.Format == "json" {
		return formatter.Success(infos)
	}

	tw := tabwriter.NewWriter(formatter.Writer, 0, 4, 2, ' ', 0)
	for _, info := range infos {
		name := "@" + info.Name
		if len(info.Aliases) > 0 {
			name += " (@" + strings.Join(info.Aliases, ", @") + ")"
		}
		fmt.Fprintf(tw, "%s\t%s\n", name, info.Summary)
		fmt.Fprintf(tw, "\t  %s\n", info.Usage)
	}
	return tw.Flush()
}
