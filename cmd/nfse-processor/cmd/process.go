package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rezonia/nfse-processor/internal/collector"
	"github.com/rezonia/nfse-processor/internal/extractor"
	"github.com/rezonia/nfse-processor/internal/model"
	"github.com/rezonia/nfse-processor/internal/processor"
	"github.com/rezonia/nfse-processor/internal/report"
)

var (
	outputFile  string
	concurrency int
)

var processCmd = &cobra.Command{
	Use:   "process [files or directories...]",
	Short: "Process NFS-e XML files",
	Long: `Process one or more NFS-e XML files and extract structured data.

Directory arguments are walked recursively; only .xml files are picked
up. Each file is processed independently, so one unreadable or
malformed file never aborts the batch. Results keep the input order.

Examples:
  nfse-processor process nota.xml
  nfse-processor process notas/ -f table
  nfse-processor process notas/ janeiro/ -o results.json
  nfse-processor process notas/ -f xlsx -o notas.xlsx --concurrency 8`,
	Args: cobra.MinimumNArgs(1),
	RunE: runProcess,
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	processCmd.Flags().IntVar(&concurrency, "concurrency", 0, "Max files processed in parallel (0 = number of CPUs)")
}

func runProcess(cmd *cobra.Command, args []string) error {
	paths, diags := collector.CollectPaths(args)
	for _, d := range diags {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", d)
	}

	if len(paths) == 0 {
		return fmt.Errorf("no XML files found to process")
	}

	opts := []processor.Option{processor.WithConcurrency(concurrency)}
	if schemaConfig != "" {
		cfg, err := extractor.LoadConfig(schemaConfig)
		if err != nil {
			return err
		}
		opts = append(opts, processor.WithExtractor(extractor.New(cfg)))
	}

	batch := processor.NewPipeline(opts...).ProcessBatch(context.Background(), paths)

	fmt.Fprintf(os.Stderr, "Processed %d files: %d succeeded, %d failed\n",
		len(batch.Results), batch.Successes, batch.Failures)

	return outputBatch(batch)
}

func outputBatch(batch *model.Batch) error {
	var writer io.Writer = os.Stdout
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		writer = f
	}

	switch outputFormat {
	case "json":
		return outputJSON(writer, batch)
	case "table":
		return outputTable(writer, batch)
	case "csv":
		return outputCSV(writer, batch)
	case "xlsx":
		if outputFile == "" {
			return fmt.Errorf("xlsx output requires -o")
		}
		return report.WriteXLSX(writer, batch)
	default:
		return fmt.Errorf("unsupported output format: %s", outputFormat)
	}
}

func outputJSON(w io.Writer, batch *model.Batch) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(batch)
}

func outputTable(w io.Writer, batch *model.Batch) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tNUMBER\tDATE\tPROVIDER\tRECIPIENT\tTOTAL")
	fmt.Fprintln(tw, "----\t------\t----\t--------\t---------\t-----")

	for _, r := range batch.Results {
		if !r.Success() {
			fmt.Fprintf(tw, "%s\tERROR: %s\t\t\t\t\n", r.SourcePath, r.Reason)
			continue
		}

		inv := r.Invoice
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.SourcePath,
			inv.Number,
			inv.IssueDate.Format("2006-01-02"),
			inv.Provider.LegalName,
			inv.Recipient.LegalName,
			inv.TotalServiceValue.String(),
		)
	}

	return tw.Flush()
}

func outputCSV(w io.Writer, batch *model.Batch) error {
	fmt.Fprintln(w, "file,number,issue_date,provider_name,provider_tax_id,recipient_name,recipient_tax_id,total_service_value,service_description,error")

	for _, r := range batch.Results {
		if !r.Success() {
			fmt.Fprintf(w, "%s,,,,,,,,,%s\n", escapeCSV(r.SourcePath), escapeCSV(r.Reason))
			continue
		}

		inv := r.Invoice
		fmt.Fprintf(w, "%s,%s,%s,%s,%s,%s,%s,%s,%s,\n",
			escapeCSV(r.SourcePath),
			inv.Number,
			inv.IssueDate.Format("2006-01-02"),
			escapeCSV(inv.Provider.LegalName),
			inv.Provider.TaxID.String(),
			escapeCSV(inv.Recipient.LegalName),
			inv.Recipient.TaxID.String(),
			inv.TotalServiceValue.String(),
			escapeCSV(inv.ServiceDescription),
		)
	}

	return nil
}

func escapeCSV(s string) string {
	if strings.Contains(s, ",") || strings.Contains(s, "\"") || strings.Contains(s, "\n") {
		return "\"" + strings.ReplaceAll(s, "\"", "\"\"") + "\""
	}
	return s
}
