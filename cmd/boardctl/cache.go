package main

import (
	"fmt"
	"net/url"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	cacheCmd := &cobra.Command{Use: "cache", Short: "Cache diagnostics"}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List live cache entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doGet(apiFlag + "/api/diag/cache")
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	cacheCmd.AddCommand(listCmd)

	evictCmd := &cobra.Command{
		Use:   "evict STORE KEY",
		Short: "Evict one cache entry",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			u := fmt.Sprintf("%s/api/diag/cache/%s?key=%s", apiFlag, url.PathEscape(args[0]), url.QueryEscape(args[1]))
			return doDelete(u)
		},
	}
	cacheCmd.AddCommand(evictCmd)

	rootCmd.AddCommand(cacheCmd)
}
