package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "deskhand",
		Short: "Tool-augmented reply service for the desk chat backend",
	}
	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the webhook server",
		Run: func(*cobra.Command, []string) {
			runServe()
		},
	})

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
