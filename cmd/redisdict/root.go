package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

const (
	Version = "0.1.0"
)

// newRootCmd builds the command tree. Every invocation gets its own session
func newRootCmd() *cobra.Command {
	s := newSession()

	root := &cobra.Command{
		Use:   "redisdict",
		Short: "Inspect and edit a namespaced mapping stored in Redis",
		Long: `redisdict operates on the keys of one namespace.

Entries are stored as {namespace}_{key}. Values are JSON documents;
an argument that is not valid JSON is stored as a JSON string.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			s.initConfig()
			return s.open(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return s.close()
		},
	}

	setupFlags(root)

	root.AddCommand(versionCmd())
	root.AddCommand(
		setCmd(s),
		getCmd(s),
		delCmd(s),
		hasCmd(s),
		lenCmd(s),
		keysCmd(s),
		itemsCmd(s),
		clearCmd(s),
		ttlCmd(s),
	)

	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of redisdict",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "redisdict v%s\n", Version)
		},
	}
}
