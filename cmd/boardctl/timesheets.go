package main

import (
	"fmt"
	"net/url"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	timesheetsCmd := &cobra.Command{
		Use:   "timesheets EMAIL",
		Short: "Summarise a worker's timesheets by approval state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u := fmt.Sprintf("%s/api/workers/%s/timesheets", apiFlag, url.PathEscape(args[0]))
			data, err := doGet(u)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	rootCmd.AddCommand(timesheetsCmd)
}
