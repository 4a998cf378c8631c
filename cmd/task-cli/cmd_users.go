package main

import (
	"github.com/spf13/cobra"
)

func newUsersCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Inspect users",
	}

	var name, email, phone string
	list := &cobra.Command{
		Use:   "list",
		Short: "List users, optionally filtered",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := newAPIClient(opts).R().SetContext(cmd.Context())
			setIfNotEmpty(req.QueryParam, "name", name)
			setIfNotEmpty(req.QueryParam, "email_add", email)
			setIfNotEmpty(req.QueryParam, "phone_num", phone)

			resp, err := req.Get("/users")
			if err != nil {
				return err
			}
			if err := checkResponse(resp); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp.Body())
		},
	}
	list.Flags().StringVar(&name, "name", "", "Username substring")
	list.Flags().StringVar(&email, "email", "", "Email substring")
	list.Flags().StringVar(&phone, "phone", "", "Phone number substring")

	cmd.AddCommand(list)
	return cmd
}

type queryParams interface {
	Set(key, value string)
}

func setIfNotEmpty(q queryParams, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}
