package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/cladam/medi/pkg/core"
)

var (
	newMessage string
	newTitle   string
	newTags    []string
)

var newCmd = &cobra.Command{
	Use:   "new [key]",
	Short: "Create a new note with the specified key",
	Long: `Create a new note. Content comes from --message when given,
otherwise from stdin (pipe it in). The key must not already exist;
use 'medi edit' to change an existing note.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		key := args[0]

		content := newMessage
		if content == "" {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				fatal("Failed to read note content from stdin", err)
			}
			content = string(data)
		}

		svc, closeFn := openService()
		defer closeFn()

		note, err := svc.CreateNote(core.Note{
			Key:     key,
			Title:   newTitle,
			Tags:    newTags,
			Content: content,
		})
		if err != nil {
			fatal("Failed to create note", err)
		}

		fmt.Printf("Successfully created note: '%s'\n", note.Key)
	},
}

func init() {
	rootCmd.AddCommand(newCmd)
	newCmd.Flags().StringVarP(&newMessage, "message", "m", "", "Provide the note content directly")
	newCmd.Flags().StringVarP(&newTitle, "title", "t", "", "Title for the note (defaults to the key)")
	newCmd.Flags().StringArrayVarP(&newTags, "tag", "T", nil, "Tag the note (repeatable)")
}
