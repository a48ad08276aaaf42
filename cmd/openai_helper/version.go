package main

import (
	"fmt"
	"strings"

	"openai_helper/pkg/ai"
	"openai_helper/pkg/version"

	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprint(out, version.Details("openai_helper"))
			fmt.Fprintf(out, "  providers: %s\n", providerTypes())
		},
	}
}

func providerTypes() string {
	infos := ai.ListProviders()
	types := make([]string, 0, len(infos))
	for _, info := range infos {
		types = append(types, string(info.Type))
	}
	return strings.Join(types, ", ")
}
