package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rezonia/nfse-processor/internal/collector"
	"github.com/rezonia/nfse-processor/internal/extractor"
	"github.com/rezonia/nfse-processor/internal/xmltree"
)

var infoCmd = &cobra.Command{
	Use:   "info [files or directories...]",
	Short: "Show information about NFS-e files",
	Long: `Display information about NFS-e XML files without full extraction.

Shows:
  - File metadata (size, modification time)
  - Whether the document parses as XML
  - The invoice root element found, and how many invoices it holds
  - A short content preview

Examples:
  nfse-processor info nota.xml
  nfse-processor info notas/`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	paths, diags := collector.CollectPaths(args)
	for _, d := range diags {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", d)
	}

	if len(paths) == 0 {
		return fmt.Errorf("no XML files found")
	}

	for _, path := range paths {
		printFileInfo(path)
		fmt.Println()
	}

	return nil
}

func printFileInfo(path string) {
	fmt.Printf("File: %s\n", path)

	info, err := os.Stat(path)
	if err != nil {
		fmt.Printf("  Error: %v\n", err)
		return
	}

	fmt.Printf("  Size: %d bytes\n", info.Size())
	fmt.Printf("  Modified: %s\n", info.ModTime().Format("2006-01-02 15:04:05"))

	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Printf("  Error reading file: %v\n", err)
		return
	}

	root, err := xmltree.Parse(data)
	if err != nil {
		fmt.Printf("  XML: invalid (%v)\n", err)
		return
	}
	fmt.Printf("  XML: well-formed, root <%s>\n", root.Name)

	name, count := detectInvoiceRoot(root)
	if count == 0 {
		fmt.Println("  Invoices: none recognized")
	} else {
		fmt.Printf("  Invoices: %d (<%s>)\n", count, name)
	}

	if preview := getPreview(string(data), 200); preview != "" {
		fmt.Printf("  Preview: %s\n", preview)
	}
}

// detectInvoiceRoot reports which known invoice root the document uses
// and how many occurrences it has.
func detectInvoiceRoot(root *xmltree.Node) (string, int) {
	for _, alias := range extractor.DefaultConfig().InvoiceRoots {
		if found := root.FindAll(alias); len(found) > 0 {
			return alias, len(found)
		}
	}
	return "", 0
}

func getPreview(content string, maxLen int) string {
	// Remove XML declaration
	if idx := strings.Index(content, "?>"); idx >= 0 {
		content = content[idx+2:]
	}

	content = strings.TrimSpace(content)
	content = strings.ReplaceAll(content, "\n", " ")
	content = strings.ReplaceAll(content, "\t", " ")

	for strings.Contains(content, "  ") {
		content = strings.ReplaceAll(content, "  ", " ")
	}

	if len(content) > maxLen {
		content = content[:maxLen] + "..."
	}

	return content
}
