package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Rebuild the search index from the notes",
	Long: `Reindex derives the search index purely from the primary store.
Run it if you suspect the index is out of sync with the notes, for
example after an interrupted save.`,
	Run: func(cmd *cobra.Command, args []string) {
		svc, closeFn := openService()
		defer closeFn()

		count, err := svc.Reindex()
		if err != nil {
			fatal("Failed to rebuild the search index", err)
		}

		fmt.Printf("Reindexed %d notes.\n", count)
	},
}

func init() {
	rootCmd.AddCommand(reindexCmd)
}
