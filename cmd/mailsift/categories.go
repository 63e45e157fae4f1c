package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mailsift/mailsift/internal/cli"
	"github.com/mailsift/mailsift/internal/common"
	"github.com/mailsift/mailsift/internal/model"
	"github.com/mailsift/mailsift/internal/registry"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Inspect and manage categories",
	}

	cmd.AddCommand(categoriesListCmd())
	cmd.AddCommand(categoriesShowCmd())
	cmd.AddCommand(categoriesAddCmd())
	cmd.AddCommand(categoriesUpdateCmd())
	cmd.AddCommand(categoriesDeleteCmd())

	return cmd
}

func categoriesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all categories (built-in and custom)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, closeStore := openRegistry(cmd.Context())
			defer closeStore()

			var sb strings.Builder
			sb.WriteString(fmt.Sprintf("%-28s %-20s %8s %8s %s\n", "ID", "NAME", "PRIORITY", "KEYWORDS", "KIND"))
			for _, cat := range reg.Categories() {
				kind := "built-in"
				if cat.IsCustom {
					kind = "custom"
				}
				keywords := len(cat.Keywords.Absolute) + len(cat.Keywords.Strong) + len(cat.Keywords.Weak)
				sb.WriteString(fmt.Sprintf("%-28s %-20s %8d %8d %s\n", cat.ID, cat.Name, cat.Priority, keywords, kind))
			}
			fmt.Print(sb.String())
			return nil
		},
	}
}

func categoriesShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print one category definition as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, closeStore := openRegistry(cmd.Context())
			defer closeStore()

			cat, ok := reg.Category(args[0])
			if !ok {
				return common.NewUserError(fmt.Sprintf("category %q not found", args[0]), common.ErrNotFound)
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(cat)
		},
	}
}

func categoriesAddCmd() *cobra.Command {
	var defFile string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a custom category from a JSON definition file",
		Long: `Add a custom category. The definition file carries name, display
metadata, priority, the three keyword tiers and optional exclusions; the id
is generated.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := os.ReadFile(defFile)
			if err != nil {
				return common.NewUserError("failed to read definition file", err)
			}

			var cat model.Category
			if err := json.Unmarshal(data, &cat); err != nil {
				return common.NewUserError("invalid category definition", err)
			}

			reg, closeStore := openRegistry(cmd.Context())
			defer closeStore()

			id := reg.AddCustomCategory(cmd.Context(), cat)
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("added custom category %s", id)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&defFile, "file", "f", "", "JSON category definition file")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func categoriesUpdateCmd() *cobra.Command {
	var patchFile string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a custom category from a JSON patch file",
		Long: `Update a custom category. The patch file carries only the fields to
change; omitted fields keep their current values.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(patchFile)
			if err != nil {
				return common.NewUserError("failed to read patch file", err)
			}

			var patch registry.CategoryPatch
			if err := json.Unmarshal(data, &patch); err != nil {
				return common.NewUserError("invalid category patch", err)
			}

			reg, closeStore := openRegistry(cmd.Context())
			defer closeStore()

			if !reg.UpdateCustomCategory(cmd.Context(), args[0], patch) {
				return common.NewUserError(fmt.Sprintf("custom category %q not found", args[0]), common.ErrNotFound)
			}
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("updated %s", args[0])))
			return nil
		},
	}

	cmd.Flags().StringVarP(&patchFile, "file", "f", "", "JSON category patch file")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func categoriesDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a custom category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, closeStore := openRegistry(cmd.Context())
			defer closeStore()

			if !reg.DeleteCustomCategory(cmd.Context(), args[0]) {
				return common.NewUserError(fmt.Sprintf("custom category %q not found", args[0]), common.ErrNotFound)
			}
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("deleted %s", args[0])))
			return nil
		},
	}
}
