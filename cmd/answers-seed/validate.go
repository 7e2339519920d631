// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cpp41419/fns50322-answers/internal/seed"
)

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a seed file without touching the database",
		Long: `Validate parses a seed file, renders Markdown answers and runs the
same row validation an apply would. Category slugs that the file
references but does not define are listed; they must already exist in
the database for an apply to succeed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := seed.Load(args[0])
			if err != nil {
				return err
			}
			external, err := f.Check()
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %d categories, %d questions OK\n", args[0], len(f.Categories), len(f.Questions))
			if len(external) > 0 {
				fmt.Fprintf(out, "categories expected in the database: %s\n", strings.Join(external, ", "))
			}
			return nil
		},
	}
}
