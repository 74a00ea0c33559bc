package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	wrds "github.com/wrds-tools/wrds-go"
	"github.com/wrds-tools/wrds-go/internal/ui"
)

var exploreCmd = &cobra.Command{
	Use:   "explore",
	Short: "browse libraries and tables interactively",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			return errors.New("explore needs a terminal; use the libraries/tables/query commands instead")
		}

		s, err := settings()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		conn, err := wrds.Connect(ctx, s)
		if err != nil {
			return err
		}
		defer conn.Close()

		label := fmt.Sprintf("%s@%s", s.Username, s.Host)
		return ui.Run(ctx, conn, label)
	},
}
