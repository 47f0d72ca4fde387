package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cladam/medi"
)

var (
	importDir       string
	importFile      string
	importKey       string
	importOverwrite bool
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import notes from a directory or a single file",
	Long: `Import reads Markdown files into the store. With --dir every .md
file below the directory becomes a note keyed by its relative path;
existing keys are skipped. With --file a single note is imported under
--key (or the file stem); use --overwrite to replace an existing note.`,
	Run: func(cmd *cobra.Command, args []string) {
		if (importDir == "") == (importFile == "") {
			fatal("Invalid arguments", fmt.Errorf("provide exactly one of --dir or --file"))
		}

		svc, closeFn := openService()
		defer closeFn()

		if importDir != "" {
			res, err := medi.ImportDir(svc, importDir)
			if err != nil {
				fatal("Import failed", err)
			}
			fmt.Printf("Imported %d notes from %s\n", res.Imported, importDir)
			for _, key := range res.Skipped {
				fmt.Printf("Skipped existing note: '%s'\n", key)
			}
			return
		}

		key := importKey
		if key == "" {
			base := filepath.Base(importFile)
			key = strings.TrimSuffix(base, filepath.Ext(base))
		}
		note, err := medi.ImportFile(svc, importFile, key, importOverwrite)
		if err != nil {
			fatal("Import failed", err)
		}
		fmt.Printf("Imported note: '%s'\n", note.Key)
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().StringVar(&importDir, "dir", "", "Directory containing .md files")
	importCmd.Flags().StringVar(&importFile, "file", "", "A single .md file to import")
	importCmd.Flags().StringVar(&importKey, "key", "", "Key for the single file import")
	importCmd.Flags().BoolVar(&importOverwrite, "overwrite", false, "Overwrite an existing note with the same key")
}
