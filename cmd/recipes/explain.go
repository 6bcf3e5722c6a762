package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vango-go/recipes/internal/errors"
)

func explainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "explain [code]",
		Short: "Explain an error code",
		Long: `Print the explanation for an error code reported by serve.

Without an argument, list every known code.`,
		Example: `  recipes explain
  recipes explain E302`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				for _, code := range errors.GetAllCodes() {
					info(out, "%s", errors.New(code).FormatCompact())
				}
				return nil
			}

			code := strings.ToUpper(args[0])
			if _, ok := errors.GetTemplate(code); !ok {
				return errors.Newf(errors.CategoryCLI, "unknown error code %q", args[0]).
					WithSuggestion("Run recipes explain to list the known codes")
			}
			fmt.Fprint(out, errors.New(code).Format())
			return nil
		},
	}
	return cmd
}
