package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"pgwarp/internal/vars"
)

// varsCmd manages stored variables from the command line.
var varsCmd = &cobra.Command{
	Use:   "vars",
	Short: "Manage saved query variables",
}

var varsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all variables in insertion order",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, err := openStore()
		if err != nil {
			return err
		}
		for _, v := range store.List() {
			fmt.Printf("%s=%s\n", v.Name, v.Value)
		}
		return nil
	},
}

var varsGetCmd = &cobra.Command{
	Use:   "get <name>",
	Short: "Print a variable's value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, err := openStore()
		if err != nil {
			return err
		}
		v, ok := store.Get(args[0])
		if !ok {
			return fmt.Errorf("variable %q not defined", args[0])
		}
		fmt.Println(v.Value)
		return nil
	},
}

var varsSetCmd = &cobra.Command{
	Use:   "set <name> <value>",
	Short: "Create or update a variable",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, err := openStore()
		if err != nil {
			return err
		}
		name := vars.NormalizeName(args[0])
		if err := store.Put(name, args[1]); err != nil {
			return err
		}
		logger.Info("variable set", zap.String("name", name))
		return nil
	},
}

var varsRmCmd = &cobra.Command{
	Use:   "rm <name>",
	Short: "Delete a variable",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, err := openStore()
		if err != nil {
			return err
		}
		removed, err := store.Remove(args[0])
		if err != nil {
			return err
		}
		if !removed {
			return fmt.Errorf("variable %q not defined", args[0])
		}
		logger.Info("variable removed", zap.String("name", args[0]))
		return nil
	},
}

var varsClearYes bool

var varsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all variables",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !varsClearYes {
			return fmt.Errorf("refusing to delete all variables without --yes")
		}
		store, _, err := openStore()
		if err != nil {
			return err
		}
		n := store.Len()
		if err := store.ReplaceAll(nil); err != nil {
			return err
		}
		logger.Info("variables cleared", zap.Int("count", n))
		fmt.Printf("Deleted %d variable(s).\n", n)
		return nil
	},
}

var varsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write all variables to stdout as a JSON object",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, err := openStore()
		if err != nil {
			return err
		}
		data, err := json.MarshalIndent(store.Export(), "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	},
}

var varsImportCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Merge variables from a JSON object (stdin with no file)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var data []byte
		var err error
		if len(args) == 1 {
			data, err = os.ReadFile(args[0])
		} else {
			data, err = io.ReadAll(os.Stdin)
		}
		if err != nil {
			return err
		}

		imported := make(map[string]string)
		if err := json.Unmarshal(data, &imported); err != nil {
			return fmt.Errorf("parse import: %w", err)
		}

		store, _, err := openStore()
		if err != nil {
			return err
		}
		names := make([]string, 0, len(imported))
		for name := range imported {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if err := store.Put(name, imported[name]); err != nil {
				return fmt.Errorf("import %q: %w", name, err)
			}
		}
		logger.Info("variables imported", zap.Int("count", len(names)))
		return nil
	},
}

func init() {
	varsClearCmd.Flags().BoolVar(&varsClearYes, "yes", false, "Skip the confirmation")
	varsCmd.AddCommand(varsListCmd)
	varsCmd.AddCommand(varsGetCmd)
	varsCmd.AddCommand(varsSetCmd)
	varsCmd.AddCommand(varsRmCmd)
	varsCmd.AddCommand(varsClearCmd)
	varsCmd.AddCommand(varsExportCmd)
	varsCmd.AddCommand(varsImportCmd)
}
