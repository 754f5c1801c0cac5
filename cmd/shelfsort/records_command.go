package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"shelfsort/internal/ledger"
)

func newRecordsCommand(ctx *commandContext) *cobra.Command {
	var filename string

	cmd := &cobra.Command{
		Use:   "records [category]",
		Short: "Inspect classification records",
		Long:  "Records shows where files ended up. Pass a category to list every file assigned to it, or --file to look up a single filename.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if filename == "" && len(args) == 0 {
				return fmt.Errorf("pass a category argument or --file")
			}

			store, err := ledger.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			if filename != "" {
				record, err := store.RecordByFilename(cmd.Context(), filename)
				if err != nil {
					return err
				}
				if record == nil {
					fmt.Fprintf(out, "No record for %s\n", filename)
					return nil
				}
				printRecords(out, []*ledger.Record{record})
				return nil
			}

			records, err := store.RecordsByCategory(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Fprintf(out, "No records in category %s\n", args[0])
				return nil
			}
			printRecords(out, records)
			return nil
		},
	}

	cmd.Flags().StringVar(&filename, "file", "", "Look up a single filename")
	return cmd
}

func printRecords(out io.Writer, records []*ledger.Record) {
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			record.Filename,
			record.Category,
			strconv.FormatInt(record.Size, 10),
			record.Path,
		})
	}
	headers := []string{"FILE", "CATEGORY", "SIZE", "PATH"}
	aligns := []columnAlignment{alignLeft, alignLeft, alignRight, alignLeft}
	fmt.Fprintln(out, renderTable(headers, rows, aligns))
}
