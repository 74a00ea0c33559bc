package main

import (
	"os"

	"github.com/spf13/cobra"

	wrds "github.com/wrds-tools/wrds-go"
	"github.com/wrds-tools/wrds-go/internal/print"
)

var describeProperties []string

var describeCmd = &cobra.Command{
	Use:   "describe <library> <table>",
	Short: "describe the columns of a table",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := settings()
		if err != nil {
			return err
		}
		library, table := args[0], args[1]
		ctx := cmd.Context()

		// One connection for both round trips.
		conn, err := wrds.Connect(ctx, s)
		if err != nil {
			return err
		}
		defer conn.Close()

		var opts []wrds.DescribeOption
		if len(describeProperties) > 0 {
			opts = append(opts, wrds.Properties(describeProperties...))
		}

		desc, err := wrds.DescribeTable(ctx, conn, library, table, opts...)
		if err != nil {
			return err
		}
		approx, err := wrds.ApproxRowCount(ctx, conn, library, table)
		if err != nil {
			return err
		}

		print.RenderDescription(os.Stdout, library, table, approx, desc)
		return nil
	},
}

func init() {
	describeCmd.Flags().StringSliceVar(&describeProperties, "properties", nil,
		"information_schema.columns attributes to show (default is_nullable,data_type)")
}
