package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search notes by content, title or tags",
	Long: `Search runs a full-text query against the search index and prints
the keys of the best matching notes, most relevant first. Query syntax
supports field prefixes (title:alpha), phrases and boolean operators.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		svc, closeFn := openService()
		defer closeFn()

		keys, err := svc.SearchNotes(args[0])
		if err != nil {
			fatal("Search failed", err)
		}

		if len(keys) == 0 {
			fmt.Println("No matching notes found.")
			return
		}
		for _, key := range keys {
			fmt.Println(key)
		}
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
}
