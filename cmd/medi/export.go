package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cladam/medi"
)

var (
	exportFormat string
	exportTags   []string
)

var exportCmd = &cobra.Command{
	Use:   "export [path]",
	Short: "Export notes to a directory",
	Long: `Export writes notes to the given directory, one Markdown file per
note (with metadata as YAML frontmatter) or a single JSON file.
--tag limits the export to notes carrying at least one of the tags.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		format, err := medi.ParseExportFormat(exportFormat)
		if err != nil {
			fatal("Invalid export format", err)
		}

		svc, closeFn := openService()
		defer closeFn()

		count, err := medi.ExportNotes(svc, args[0], format, exportTags...)
		if err != nil {
			fatal("Export failed", err)
		}
		fmt.Printf("Exported %d notes to %s\n", count, args[0])
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", string(medi.ExportMarkdown), "Output format: markdown or json")
	exportCmd.Flags().StringArrayVarP(&exportTags, "tag", "t", nil, "Export only notes with a tag (repeatable)")
}
