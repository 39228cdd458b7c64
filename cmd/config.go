package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long:  "Prints the merged configuration from defaults, config.yaml, and environment. Credentials are masked.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

		fmt.Fprintf(w, "store.driver\t%s\n", cfg.Store.Driver)
		if cfg.Store.Driver == "sqlite" {
			fmt.Fprintf(w, "store.path\t%s\n", cfg.Store.Path)
		} else {
			fmt.Fprintf(w, "store.database_url\t%s\n", maskSecret(cfg.Store.DatabaseURL))
		}

		fmt.Fprintf(w, "serper.key\t%s\n", maskSecret(cfg.Serper.Key))
		fmt.Fprintf(w, "sam_gov.key\t%s\n", maskSecret(cfg.SAMGov.Key))
		fmt.Fprintf(w, "hunter.key\t%s\n", maskSecret(cfg.Hunter.Key))
		fmt.Fprintf(w, "clearbit.key\t%s\n", maskSecret(cfg.Clearbit.Key))
		fmt.Fprintf(w, "salesforce.client_id\t%s\n", maskSecret(cfg.Salesforce.ClientID))
		fmt.Fprintf(w, "notion.token\t%s\n", maskSecret(cfg.Notion.Token))

		fmt.Fprintf(w, "discovery.enable_banking\t%t\n", cfg.Discovery.EnableBanking)
		fmt.Fprintf(w, "discovery.enable_insurance\t%t\n", cfg.Discovery.EnableInsurance)
		fmt.Fprintf(w, "discovery.enable_energy\t%t\n", cfg.Discovery.EnableEnergy)
		fmt.Fprintf(w, "discovery.enable_government\t%t\n", cfg.Discovery.EnableGovernment)
		fmt.Fprintf(w, "discovery.max_results_per_producer\t%d\n", cfg.Discovery.MaxResultsPerProducer)
		fmt.Fprintf(w, "discovery.bank_asset_minimum\t%d\n", cfg.Discovery.BankAssetMinimum)

		fmt.Fprintf(w, "validation.min_employee_count\t%d\n", cfg.Validation.MinEmployeeCount)
		fmt.Fprintf(w, "validation.review_score\t%.0f\n", cfg.Validation.ReviewScore)
		fmt.Fprintf(w, "pipeline.concurrency\t%d\n", cfg.Pipeline.Concurrency)
		fmt.Fprintf(w, "server.port\t%d\n", cfg.Server.Port)
		fmt.Fprintf(w, "log.level\t%s\n", cfg.Log.Level)
		fmt.Fprintf(w, "log.format\t%s\n", cfg.Log.Format)

		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}

// maskSecret hides all but the last four characters of a credential.
func maskSecret(s string) string {
	if s == "" {
		return "(unset)"
	}
	if len(s) <= 4 {
		return "****"
	}
	return "****" + s[len(s)-4:]
}
