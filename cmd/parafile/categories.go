package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/parafile/parafile/internal/cli"
	"github.com/parafile/parafile/internal/model"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage document categories",
		Long:  `List, add, update, and remove the categories documents are filed under.`,
	}

	cmd.AddCommand(listCategoriesCmd())
	cmd.AddCommand(addCategoryCmd())
	cmd.AddCommand(updateCategoryCmd())
	cmd.AddCommand(removeCategoryCmd())

	return cmd
}

func listCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all categories",
		Long:  `Display all categories with their descriptions and naming patterns.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			doc, _, err := loadRules()
			if err != nil {
				return err
			}

			// Create table writer
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			// Header
			fmt.Fprintf(w, "%s\t%s\t%s\n",
				cli.TableHeaderStyle.Render("Name"),
				cli.TableHeaderStyle.Render("Naming Pattern"),
				cli.TableHeaderStyle.Render("Description"))
			fmt.Fprintf(w, "%s\t%s\t%s\n",
				strings.Repeat("-", 20),
				strings.Repeat("-", 30),
				strings.Repeat("-", 50))

			for _, cat := range doc.Categories {
				desc := cat.Description
				if desc == "" {
					desc = cli.SubtleStyle.Render("(no description)")
				}
				pattern := cat.NamingPattern
				if pattern == "" {
					pattern = cli.SubtleStyle.Render("(keeps original name)")
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", cat.Name, pattern, desc)
			}

			return nil
		},
	}
}

func addCategoryCmd() *cobra.Command {
	var (
		description   string
		namingPattern string
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a new category",
		Long: `Create a new category. The description tells the model what belongs
here; the naming pattern shapes organized file names with {placeholder}
references to variables, for example "{date}_{company}_invoice".`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			doc, path, err := loadRules()
			if err != nil {
				return err
			}

			category := model.Category{
				Name:          args[0],
				Description:   description,
				NamingPattern: namingPattern,
			}
			if err := doc.AddCategory(category); err != nil {
				return err
			}
			if err := saveRules(path, doc); err != nil {
				return err
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("%s Created category %q", cli.SuccessIcon, category.Name)))
			if namingPattern != "" {
				fmt.Printf("  Files here will be named like: %s\n", namingPattern)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "What kinds of documents belong in this category")
	cmd.Flags().StringVar(&namingPattern, "pattern", "", "Naming pattern, e.g. \"{date}_{company}\" (empty keeps original names)")

	return cmd
}

func updateCategoryCmd() *cobra.Command {
	var (
		newName       string
		description   string
		namingPattern string
	)

	cmd := &cobra.Command{
		Use:   "update <name>",
		Short: "Update a category",
		Long:  `Update the name, description, or naming pattern of an existing category.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if newName == "" && !cmd.Flags().Changed("description") && !cmd.Flags().Changed("pattern") {
				return fmt.Errorf("must specify --name, --description, or --pattern to update")
			}

			doc, path, err := loadRules()
			if err != nil {
				return err
			}

			current, ok := model.FindCategory(doc.Categories, args[0])
			if !ok {
				return fmt.Errorf("category %q not found", args[0])
			}

			if newName != "" {
				current.Name = newName
			}
			if cmd.Flags().Changed("description") {
				current.Description = description
			}
			if cmd.Flags().Changed("pattern") {
				current.NamingPattern = namingPattern
			}

			if err := doc.UpdateCategory(args[0], current); err != nil {
				return err
			}
			if err := saveRules(path, doc); err != nil {
				return err
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("%s Updated category %q", cli.SuccessIcon, args[0])))
			return nil
		},
	}

	cmd.Flags().StringVar(&newName, "name", "", "New category name")
	cmd.Flags().StringVar(&description, "description", "", "New category description")
	cmd.Flags().StringVar(&namingPattern, "pattern", "", "New naming pattern")

	return cmd
}

func removeCategoryCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove a category",
		Long:  `Remove a category. Documents already organized under it stay where they are.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			doc, path, err := loadRules()
			if err != nil {
				return err
			}

			// Confirm removal
			if !force {
				fmt.Printf("Are you sure you want to remove category %q? (y/N): ", args[0])
				var response string
				fmt.Scanln(&response)
				if strings.ToLower(response) != "y" {
					fmt.Println("Removal cancelled.")
					return nil
				}
			}

			if err := doc.RemoveCategory(args[0]); err != nil {
				return err
			}
			if err := saveRules(path, doc); err != nil {
				return err
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("%s Removed category %q", cli.SuccessIcon, args[0])))
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Skip confirmation prompt")

	return cmd
}
