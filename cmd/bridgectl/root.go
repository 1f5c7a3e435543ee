package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "bridgectl",
		Short:         "Drive a smartapp bridge against an echo host",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(newSendCommand())

	return root
}
