package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/parafile/parafile/internal/cli"
	"github.com/parafile/parafile/internal/model"
	"github.com/parafile/parafile/internal/service"
)

func historyCmd() *cobra.Command {
	var (
		limit      int
		failedOnly bool
		category   string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently processed documents",
		Long: `Show the processing ledger: which documents were organized where,
and which ones failed and why.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			history, err := initHistory(ctx)
			if err != nil {
				return err
			}
			defer history.Close()

			filter := service.HistoryFilter{Limit: limit, Category: category}
			if failedOnly {
				filter.Status = model.StatusFailed
			}

			records, err := history.ListRecords(ctx, filter)
			if err != nil {
				return fmt.Errorf("failed to list records: %w", err)
			}

			if len(records) == 0 {
				fmt.Println(cli.InfoStyle.Render("No processed documents yet. Run 'parafile monitor' or 'parafile sweep'."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				cli.TableHeaderStyle.Render("When"),
				cli.TableHeaderStyle.Render("Status"),
				cli.TableHeaderStyle.Render("Category"),
				cli.TableHeaderStyle.Render("Document"),
				cli.TableHeaderStyle.Render("Details"))
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				strings.Repeat("-", 16),
				strings.Repeat("-", 12),
				strings.Repeat("-", 15),
				strings.Repeat("-", 30),
				strings.Repeat("-", 40))

			for _, r := range records {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					r.ProcessedAt.Format("2006-01-02 15:04"),
					statusCell(r.Status),
					r.Category,
					displayName(r),
					recordDetails(r))
			}
			w.Flush()

			counts, err := history.CountByStatus(ctx)
			if err == nil {
				fmt.Println()
				fmt.Println(cli.SubtleStyle.Render(summaryLine(counts)))
			}

			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of records to show")
	cmd.Flags().BoolVar(&failedOnly, "failed", false, "Show only failed documents")
	cmd.Flags().StringVar(&category, "category", "", "Show only documents filed under this category")

	return cmd
}

func statusCell(status model.RecordStatus) string {
	switch status {
	case model.StatusOrganized:
		return cli.SuccessStyle.Render(cli.SuccessIcon + " organized")
	case model.StatusFailed:
		return cli.ErrorStyle.Render(cli.ErrorIcon + " failed")
	default:
		return string(status)
	}
}

// displayName prefers the rendered name and falls back to the original
// file name for documents that never got one.
func displayName(r model.ProcessingRecord) string {
	if r.RenderedName != "" {
		return r.RenderedName
	}
	return filepath.Base(r.SourcePath)
}

// recordDetails shows where a document went, or why it did not go
// anywhere.
func recordDetails(r model.ProcessingRecord) string {
	if r.Status == model.StatusFailed {
		return cli.SubtleStyle.Render(r.Reason)
	}
	return filepath.Dir(r.DestinationPath)
}

func summaryLine(counts map[model.RecordStatus]int) string {
	return fmt.Sprintf("%d organized, %d failed all time",
		counts[model.StatusOrganized], counts[model.StatusFailed])
}
