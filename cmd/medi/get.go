package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cladam/medi/pkg/core"
)

var (
	getTags []string
	getJSON bool
)

var getCmd = &cobra.Command{
	Use:   "get [keys...]",
	Short: "Get the content of one or more notes",
	Long: `Print note content to stdout, so it can be piped into pagers or
Markdown renderers. With --tag, retrieves all notes carrying the tag
instead of looking up keys. With --json the full note data is printed.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 && len(getTags) == 0 {
			fatal("Nothing to get", fmt.Errorf("provide at least one key or --tag"))
		}

		svc, closeFn := openService()
		defer closeFn()

		var notes []core.Note
		if len(getTags) > 0 {
			for _, tag := range getTags {
				tagged, err := svc.NotesByTag(tag)
				if err != nil {
					fatal("Failed to get notes by tag", err)
				}
				notes = append(notes, tagged...)
			}
		} else {
			for _, key := range args {
				n, err := svc.GetNote(key)
				if err != nil {
					fatal("Failed to get note", err)
				}
				notes = append(notes, n)
			}
		}

		if getJSON {
			data, err := json.MarshalIndent(notes, "", "  ")
			if err != nil {
				fatal("Failed to encode notes", err)
			}
			fmt.Println(string(data))
			return
		}

		for _, n := range notes {
			fmt.Print(n.Content)
			if len(n.Content) == 0 || n.Content[len(n.Content)-1] != '\n' {
				fmt.Println()
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(getCmd)
	getCmd.Flags().StringArrayVarP(&getTags, "tag", "t", nil, "Retrieve all notes with a tag (repeatable)")
	getCmd.Flags().BoolVar(&getJSON, "json", false, "Output the full note data as JSON")
}
