package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Show source adapter health",
	Long:  "Reports each data source's credential status, cache size, and recent request volume.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		env, err := initPipeline(cmd.Context(), "run")
		if err != nil {
			return err
		}
		defer env.Close()

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "SOURCE\tAPI KEY\tCACHE\tRECENT REQUESTS")
		for _, h := range env.Healths() {
			key := "configured"
			if !h.HasAPIKey {
				key = "missing"
			}
			_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%d\n", h.Tool, key, h.CacheSize, h.RecentRequests)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
