package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cladam/medi"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of medi",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("medi version %s\n", medi.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
