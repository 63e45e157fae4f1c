package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mailsift/mailsift/internal/cli"
)

func settingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Inspect and update engine settings",
	}

	cmd.AddCommand(settingsPreselectCmd())

	return cmd
}

func settingsPreselectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "preselect [category-id...]",
		Short: "Show or replace the task-preselected category list",
		Long: `Without arguments, print the category ids currently flagged for
downstream task creation. With arguments, replace the list.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, closeStore := openRegistry(cmd.Context())
			defer closeStore()

			if len(args) == 0 {
				current := reg.Settings().TaskPreselectedCategories
				if len(current) == 0 {
					fmt.Println("no preselected categories")
					return nil
				}
				fmt.Println(strings.Join(current, "\n"))
				return nil
			}

			reg.UpdateTaskPreselectedCategories(cmd.Context(), args)
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("preselected categories set to: %s", strings.Join(args, ", "))))
			return nil
		},
	}
}
