package main

import (
	"errors"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	wrds "github.com/wrds-tools/wrds-go"
	"github.com/wrds-tools/wrds-go/internal/print"
)

var queryCmd = &cobra.Command{
	Use:   "query [sql]",
	Short: "run SQL verbatim and print the result",
	Long:  "Runs the given SQL, or SQL read from stdin when no argument is given.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := settings()
		if err != nil {
			return err
		}

		var sql string
		if len(args) == 1 {
			sql = args[0]
		} else {
			in, err := io.ReadAll(os.Stdin)
			if err != nil {
				return err
			}
			sql = string(in)
		}
		if strings.TrimSpace(sql) == "" {
			return errors.New("empty query")
		}

		res, err := wrds.RawSQL(cmd.Context(), s, sql)
		if err != nil {
			return err
		}
		print.RenderResult(os.Stdout, res, print.Options{MaxWidth: 60})
		return nil
	},
}

var (
	getColumns []string
	getWhere   []string
	getLimit   int
	getNoLimit bool
	getOffset  int
)

var getCmd = &cobra.Command{
	Use:   "get <library> <table>",
	Short: "retrieve rows of a table",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := settings()
		if err != nil {
			return err
		}

		var opts []wrds.SelectOption
		if len(getColumns) > 0 {
			opts = append(opts, wrds.Columns(getColumns...))
		}
		if len(getWhere) > 0 {
			opts = append(opts, wrds.Where(getWhere...))
		}
		if getNoLimit {
			opts = append(opts, wrds.NoLimit())
		} else if getLimit != 10 {
			opts = append(opts, wrds.Limit(getLimit))
		}
		if getOffset > 0 {
			opts = append(opts, wrds.Offset(getOffset))
		}

		res, err := wrds.GetTable(cmd.Context(), s, args[0], args[1], opts...)
		if err != nil {
			return err
		}
		print.RenderResult(os.Stdout, res, print.Options{MaxWidth: 60})
		return nil
	},
}

func init() {
	getCmd.Flags().StringSliceVar(&getColumns, "columns", nil, "columns to select (default all)")
	getCmd.Flags().StringArrayVar(&getWhere, "where", nil, "filter condition, repeatable (joined with AND)")
	getCmd.Flags().IntVar(&getLimit, "limit", 10, "row cap")
	getCmd.Flags().BoolVar(&getNoLimit, "no-limit", false, "retrieve the full table")
	getCmd.Flags().IntVar(&getOffset, "offset", 0, "rows to skip")
}
