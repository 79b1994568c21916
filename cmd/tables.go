package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/AndreiFloresU/Empleabilidad-CR/internal/source"
)

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "Load every table and report its status",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initData(ctx, "page")
		if err != nil {
			return err
		}
		defer env.Close()

		env.Cache.Warm(ctx)
		formatTableStatus(cmd.OutOrStdout(), env.Cache.Status())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tablesCmd)
}

// formatTableStatus writes a tabular representation of the cache status to w.
func formatTableStatus(out io.Writer, status []source.TableStatus) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "TABLE\tLOADED\tROWS\tCOLUMNS\tERROR")
	_, _ = fmt.Fprintln(w, "-----\t------\t----\t-------\t-----")

	for _, s := range status {
		loaded := "no"
		if s.Loaded {
			loaded = "yes"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
			s.Name,
			loaded,
			s.Rows,
			truncate(strings.Join(s.Columns, ","), 60),
			truncate(s.Error, 80),
		)
	}
	_ = w.Flush()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
