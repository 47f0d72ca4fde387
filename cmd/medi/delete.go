package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var deleteForce bool

var deleteCmd = &cobra.Command{
	Use:   "delete [key]",
	Short: "Delete a note",
	Long: `Delete permanently removes a note from the store and the search
index. Deleting a key that does not exist is reported as an error,
never as success.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		key := args[0]

		if !deleteForce {
			fmt.Printf("Delete note '%s'? [y/N] ", key)
			reader := bufio.NewReader(os.Stdin)
			answer, _ := reader.ReadString('\n')
			if strings.ToLower(strings.TrimSpace(answer)) != "y" {
				fmt.Println("Aborted.")
				return
			}
		}

		svc, closeFn := openService()
		defer closeFn()

		if err := svc.DeleteNote(key); err != nil {
			fatal("Failed to delete note", err)
		}

		fmt.Printf("Successfully deleted note: '%s'\n", key)
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
	deleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "Skip the confirmation prompt")
}
