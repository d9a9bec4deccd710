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

func variablesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "variables",
		Short: "Manage naming pattern variables",
		Long: `List, add, update, and remove the variables available to naming
patterns. Each variable's description tells the model what value to
pull out of a document.`,
	}

	cmd.AddCommand(listVariablesCmd())
	cmd.AddCommand(addVariableCmd())
	cmd.AddCommand(updateVariableCmd())
	cmd.AddCommand(removeVariableCmd())

	return cmd
}

func listVariablesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all variables",
		Long:  `Display all variables with their descriptions.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			doc, _, err := loadRules()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			fmt.Fprintf(w, "%s\t%s\t%s\n",
				cli.TableHeaderStyle.Render("Name"),
				cli.TableHeaderStyle.Render("Type"),
				cli.TableHeaderStyle.Render("Description"))
			fmt.Fprintf(w, "%s\t%s\t%s\n",
				strings.Repeat("-", 20),
				strings.Repeat("-", 10),
				strings.Repeat("-", 50))

			for _, v := range doc.Variables {
				varType := v.Type
				if varType == "" {
					varType = cli.SubtleStyle.Render("text")
				}
				desc := v.Description
				if desc == "" {
					desc = cli.SubtleStyle.Render("(no description)")
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", v.Name, varType, desc)
			}

			return nil
		},
	}
}

func addVariableCmd() *cobra.Command {
	var (
		description string
		varType     string
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a new variable",
		Long: `Create a new variable for naming patterns. Reference it from a
category's naming pattern as {name}.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			doc, path, err := loadRules()
			if err != nil {
				return err
			}

			variable := model.Variable{
				Name:        args[0],
				Description: description,
				Type:        varType,
			}
			if err := doc.AddVariable(variable); err != nil {
				return err
			}
			if err := saveRules(path, doc); err != nil {
				return err
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("%s Created variable %q", cli.SuccessIcon, variable.Name)))
			fmt.Printf("  Use it in naming patterns as {%s}\n", variable.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "What value the model should extract for this variable")
	cmd.Flags().StringVar(&varType, "type", "", "Value hint for the model, e.g. \"date\" or \"number\"")

	return cmd
}

func updateVariableCmd() *cobra.Command {
	var (
		newName     string
		description string
		varType     string
	)

	cmd := &cobra.Command{
		Use:   "update <name>",
		Short: "Update a variable",
		Long:  `Update the name, description, or type of an existing variable.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if newName == "" && !cmd.Flags().Changed("description") && !cmd.Flags().Changed("type") {
				return fmt.Errorf("must specify --name, --description, or --type to update")
			}

			doc, path, err := loadRules()
			if err != nil {
				return err
			}

			current, ok := model.FindVariable(doc.Variables, args[0])
			if !ok {
				return fmt.Errorf("variable %q not found", args[0])
			}

			if newName != "" {
				current.Name = newName
			}
			if cmd.Flags().Changed("description") {
				current.Description = description
			}
			if cmd.Flags().Changed("type") {
				current.Type = varType
			}

			if err := doc.UpdateVariable(args[0], current); err != nil {
				return err
			}
			if err := saveRules(path, doc); err != nil {
				return err
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("%s Updated variable %q", cli.SuccessIcon, args[0])))
			return nil
		},
	}

	cmd.Flags().StringVar(&newName, "name", "", "New variable name")
	cmd.Flags().StringVar(&description, "description", "", "New variable description")
	cmd.Flags().StringVar(&varType, "type", "", "New value hint")

	return cmd
}

func removeVariableCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove a variable",
		Long:  `Remove a variable. Naming patterns that still reference it will ask the model for it anyway.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			doc, path, err := loadRules()
			if err != nil {
				return err
			}

			if !force {
				fmt.Printf("Are you sure you want to remove variable %q? (y/N): ", args[0])
				var response string
				fmt.Scanln(&response)
				if strings.ToLower(response) != "y" {
					fmt.Println("Removal cancelled.")
					return nil
				}
			}

			if err := doc.RemoveVariable(args[0]); err != nil {
				return err
			}
			if err := saveRules(path, doc); err != nil {
				return err
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("%s Removed variable %q", cli.SuccessIcon, args[0])))
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Skip confirmation prompt")

	return cmd
}
