package main

import (
	"strconv"

	"github.com/spf13/cobra"
)

func newTasksCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Inspect tasks",
	}

	var (
		owner, title, content string
		completed             bool
		userID                uint
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List tasks, optionally filtered",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := newAPIClient(opts).R().SetContext(cmd.Context())
			setIfNotEmpty(req.QueryParam, "name", owner)
			setIfNotEmpty(req.QueryParam, "task_title", title)
			setIfNotEmpty(req.QueryParam, "task_content", content)
			if cmd.Flags().Changed("completed") {
				req.SetQueryParam("is_completed", strconv.FormatBool(completed))
			}
			if userID > 0 {
				req.SetQueryParam("user_id", strconv.FormatUint(uint64(userID), 10))
			}

			resp, err := req.Get("/tasks")
			if err != nil {
				return err
			}
			if err := checkResponse(resp); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp.Body())
		},
	}
	list.Flags().StringVar(&owner, "owner", "", "Owner username substring")
	list.Flags().StringVar(&title, "title", "", "Title substring")
	list.Flags().StringVar(&content, "content", "", "Content substring")
	list.Flags().BoolVar(&completed, "completed", false, "Completion status")
	list.Flags().UintVar(&userID, "user-id", 0, "Owner user ID")

	cmd.AddCommand(list)
	return cmd
}
