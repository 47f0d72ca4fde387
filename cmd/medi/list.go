package main

import (
	"fmt"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/cladam/medi/pkg/core"
)

var (
	listSortBy string
	listGlob   string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all notes",
	Long: `List the keys of all notes. --sort-by orders by key, created or
modified date; --glob restricts the listing to keys matching a pattern
(e.g. 'projects/**').`,
	Run: func(cmd *cobra.Command, args []string) {
		svc, closeFn := openService()
		defer closeFn()

		notes, err := svc.ListNotes()
		if err != nil {
			fatal("Failed to list notes", err)
		}

		if listGlob != "" {
			var filtered []core.Note
			for _, n := range notes {
				ok, err := doublestar.Match(listGlob, n.Key)
				if err != nil {
					fatal("Invalid glob pattern", err)
				}
				if ok {
					filtered = append(filtered, n)
				}
			}
			notes = filtered
		}

		switch listSortBy {
		case "key":
			// ListNotes already returns key order.
		case "created":
			sort.SliceStable(notes, func(i, j int) bool {
				return notes[i].CreatedAt.Before(notes[j].CreatedAt)
			})
		case "modified":
			sort.SliceStable(notes, func(i, j int) bool {
				return notes[i].ModifiedAt.Before(notes[j].ModifiedAt)
			})
		default:
			fatal("Invalid sort field", fmt.Errorf("%q (want key, created or modified)", listSortBy))
		}

		for _, n := range notes {
			fmt.Println(n.Key)
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVarP(&listSortBy, "sort-by", "s", "key", "Sort by key, created or modified")
	listCmd.Flags().StringVarP(&listGlob, "glob", "g", "", "Only list keys matching a glob pattern")
}
