package main

import (
	"fmt"
	"net/url"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	var scopeStatus string
	materialsCmd := &cobra.Command{
		Use:   "materials JOB_TEXT",
		Short: "Resolve materials for a job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			q.Set("job", args[0])
			if scopeStatus != "" {
				q.Set("scopeStatus", scopeStatus)
			}
			data, err := doGet(fmt.Sprintf("%s/api/jobs/materials?%s", apiFlag, q.Encode()))
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	materialsCmd.Flags().StringVarP(&scopeStatus, "scope", "s", "", "Scope status text controlling the materials mode")
	rootCmd.AddCommand(materialsCmd)
}
