package cmd

import (
	"github.com/spf13/cobra"

	"github.com/rezonia/nfse-processor/internal/logger"
)

var (
	version = "1.0.0"

	// Global flags
	verbose      bool
	outputFormat string
	schemaConfig string
)

var rootCmd = &cobra.Command{
	Use:   "nfse-processor",
	Short: "Extract data from Brazilian NFS-e XML files",
	Long: `NFS-e Processor is a CLI tool for extracting structured data from
Brazilian municipal service invoices (Nota Fiscal de Serviços Eletrônica).

Municipalities emit NFS-e XML in many dialects. The extractor resolves
fields through configurable element-name aliases, so ABRASF-style
documents work out of the box and other layouts can be described in a
schema config file.

Examples:
  # Process a single XML file
  nfse-processor process nota.xml

  # Process a directory tree, write a spreadsheet
  nfse-processor process notas/ -f xlsx -o notas.xlsx

  # Use a custom alias table for a non-standard municipality
  nfse-processor process notas/ --schema-config prefeitura.yaml

  # Inspect a file without extracting
  nfse-processor info nota.xml`,
	Version: version,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "json", "Output format (json, csv, table, xlsx)")
	rootCmd.PersistentFlags().StringVar(&schemaConfig, "schema-config", "", "YAML file with element-name aliases for non-standard layouts")

	cobra.OnInitialize(func() {
		logger.SetVerbose(verbose)
	})
}
