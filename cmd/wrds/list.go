package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	wrds "github.com/wrds-tools/wrds-go"
	"github.com/wrds-tools/wrds-go/internal/print"
)

var librariesRaw bool

var librariesCmd = &cobra.Command{
	Use:   "libraries",
	Short: "list the data libraries visible to your role",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := settings()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		if librariesRaw {
			libs, err := wrds.ListLibraries(ctx, s)
			if err != nil {
				return err
			}
			for _, lib := range libs {
				fmt.Println(lib)
			}
			return nil
		}

		mapping, err := wrds.MapLibraries(ctx, s)
		if err != nil {
			return err
		}
		print.RenderLibraries(os.Stdout, mapping)
		return nil
	},
}

var tablesNoVerify bool

var tablesCmd = &cobra.Command{
	Use:   "tables <library>",
	Short: "list the tables of a library",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := settings()
		if err != nil {
			return err
		}

		var opts []wrds.ListTablesOption
		if tablesNoVerify {
			opts = append(opts, wrds.NoVerify())
		}

		tables, err := wrds.ListTables(cmd.Context(), s, args[0], opts...)
		if err != nil {
			return err
		}
		print.RenderTables(os.Stdout, args[0], tables)
		return nil
	},
}

func init() {
	librariesCmd.Flags().BoolVar(&librariesRaw, "raw", false, "print raw schema names instead of the reconciled library mapping")
	tablesCmd.Flags().BoolVar(&tablesNoVerify, "no-verify", false, "skip data-dictionary link verification")
}
