package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cladam/medi/pkg/core"
)

var (
	editMessage string
	editAddTags []string
	editRmTags  []string
)

var editCmd = &cobra.Command{
	Use:   "edit [key]",
	Short: "Edit an existing note",
	Long: `Edit an existing note: replace its content with --message and
add or remove tags. Tags are stored verbatim; adding a tag twice keeps
both occurrences.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		key := args[0]

		if editMessage == "" && len(editAddTags) == 0 && len(editRmTags) == 0 {
			fatal("Nothing to do", fmt.Errorf("provide --message, --add-tag or --rm-tag"))
		}

		svc, closeFn := openService()
		defer closeFn()

		note, err := svc.UpdateNote(key, func(n *core.Note) {
			if editMessage != "" {
				n.Content = editMessage
			}
			n.Tags = append(n.Tags, editAddTags...)
			for _, rm := range editRmTags {
				n.Tags = removeTag(n.Tags, rm)
			}
		})
		if err != nil {
			fatal("Failed to edit note", err)
		}

		fmt.Printf("Successfully updated note: '%s'\n", note.Key)
	},
}

// removeTag drops every occurrence of tag.
func removeTag(tags []string, tag string) []string {
	var out []string
	for _, t := range tags {
		if t != tag {
			out = append(out, t)
		}
	}
	return out
}

func init() {
	rootCmd.AddCommand(editCmd)
	editCmd.Flags().StringVarP(&editMessage, "message", "m", "", "Replace the note content")
	editCmd.Flags().StringArrayVarP(&editAddTags, "add-tag", "a", nil, "Add a tag (repeatable)")
	editCmd.Flags().StringArrayVarP(&editRmTags, "rm-tag", "r", nil, "Remove a tag (repeatable)")
}
