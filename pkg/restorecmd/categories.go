package restorecmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/andrew-torda/cifrestore/restore"
)

type ruleInfo struct {
	Category  string `json:"category"`
	Kind      string `json:"kind"`
	DependsOn string `json:"depends_on,omitempty"`
}

func newCategoriesCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the categories that can be restored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listCategories(cmd.OutOrStdout(), opts.Format)
		},
	}
}

// listCategories writes the registry in processing order.
func listCategories(w io.Writer, format string) error {
	infos := make([]ruleInfo, len(restore.Rules))
	width := 0
	for i, r := range restore.Rules {
		infos[i] = ruleInfo{Category: r.Name, Kind: r.Kind.String(), DependsOn: r.DependsOn}
		width = max(width, len(r.Name))
	}
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	}
	for _, in := range infos {
		var err error
		if in.DependsOn == "" {
			_, err = fmt.Fprintf(w, "%-*s %s\n", width, in.Category, in.Kind)
		} else {
			_, err = fmt.Fprintf(w, "%-*s %-7s after %s\n", width, in.Category, in.Kind, in.DependsOn)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
