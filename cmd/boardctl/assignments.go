package main

import (
	"fmt"
	"net/url"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	assignmentsCmd := &cobra.Command{Use: "assignments", Short: "Assignment operations"}

	// list
	var onDate string
	var includeWeekends bool
	var page, limit int
	listCmd := &cobra.Command{
		Use:   "list EMAIL",
		Short: "List a worker's assignments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			if onDate != "" {
				q.Set("onDate", onDate)
			}
			if includeWeekends {
				q.Set("includeWeekends", "true")
			}
			if page > 0 {
				q.Set("page", fmt.Sprint(page))
			}
			if limit > 0 {
				q.Set("limit", fmt.Sprint(limit))
			}
			u := fmt.Sprintf("%s/api/workers/%s/assignments", apiFlag, url.PathEscape(args[0]))
			if enc := q.Encode(); enc != "" {
				u += "?" + enc
			}
			data, err := doGet(u)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	listCmd.Flags().StringVarP(&onDate, "on", "d", "", "Filter by date (YYYY-MM-DD)")
	listCmd.Flags().BoolVarP(&includeWeekends, "weekends", "w", false, "Keep weekend dates")
	listCmd.Flags().IntVarP(&page, "page", "p", 0, "Page number (1-based)")
	listCmd.Flags().IntVarP(&limit, "limit", "l", 0, "Page size")
	assignmentsCmd.AddCommand(listCmd)

	// get
	getCmd := &cobra.Command{
		Use:   "get EMAIL CHILD_ID",
		Short: "Get one assignment with resolved attachments",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			u := fmt.Sprintf("%s/api/workers/%s/assignments/%s", apiFlag, url.PathEscape(args[0]), url.PathEscape(args[1]))
			data, err := doGet(u)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	assignmentsCmd.AddCommand(getCmd)

	rootCmd.AddCommand(assignmentsCmd)
}
