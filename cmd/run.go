package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/export"
	"github.com/sells-group/leadgen-cli/internal/model"
)

// timeRound is the display granularity for durations.
const timeRound = time.Millisecond

var (
	runExportFormat string
	runExportPath   string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full discovery and qualification pipeline",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initPipeline(ctx, "run")
		if err != nil {
			return err
		}
		defer env.Close()

		result := env.Pipeline.Execute(ctx)
		if !result.Success {
			zap.L().Error("pipeline finished with errors", zap.String("error", result.Error))
		}

		printRunSummary(os.Stdout, result)

		if runExportFormat != "" {
			format, err := export.ParseFormat(runExportFormat)
			if err != nil {
				return err
			}
			path := runExportPath
			if path == "" {
				path = "leads." + string(format)
			}
			if err := export.Write(result.Leads, format, path); err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "\nExported %d leads to %s\n", len(result.Leads), path)
		}

		if !result.Success {
			return eris.New("pipeline run failed")
		}
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&runExportFormat, "export", "", "export format (json, csv, xlsx)")
	runCmd.Flags().StringVar(&runExportPath, "output", "", "export file path (default leads.<format>)")
	rootCmd.AddCommand(runCmd)
}

// printRunSummary writes the execution summary and a top-10 table.
func printRunSummary(out io.Writer, result *model.ExecutionResult) {
	summary := model.Summarize(result.Leads)

	fmt.Fprintf(out, "Pipeline finished in %s\n", result.Elapsed.Round(timeRound))
	fmt.Fprintf(out, "Leads: %d  Top score: %.2f  Average: %.2f\n\n",
		summary.TotalLeads, summary.TopLeadScore, summary.AverageScore)

	fmt.Fprintln(out, "Stages:")
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, stage := range result.Stages {
		status := "ok"
		if !stage.Success {
			status = "FAILED: " + stage.Error
		}
		fmt.Fprintf(w, "  %s\t%d leads\t%s\t%s\n",
			stage.Stage, stage.Processed, stage.Duration.Round(timeRound), status)
	}
	_ = w.Flush()

	top := result.Leads
	if len(top) > 10 {
		top = top[:10]
	}
	if len(top) == 0 {
		return
	}

	fmt.Fprintln(out, "\nTop leads:")
	printLeadTable(out, top)
}

// printLeadTable writes a tabular lead list to out.
func printLeadTable(out io.Writer, leads []*model.Lead) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "RANK\tCOMPANY\tINDUSTRY\tSCORE\tSTATUS\tSIGNALS")
	for i, lead := range leads {
		score := ""
		if lead.Score != nil {
			score = fmt.Sprintf("%.2f", lead.Score.OverallScore)
		}
		name := lead.Company.Name
		if len(name) > 35 {
			name = name[:32] + "..."
		}
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%d\n",
			i+1, name, lead.Company.Industry, score, lead.Status, len(lead.BuyingSignals))
	}
	_ = w.Flush()
}
