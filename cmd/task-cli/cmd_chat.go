package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

type chatReply struct {
	Response struct {
		Response *string `json:"response"`
		Error    *string `json:"error"`
	} `json:"response"`
}

func newChatCmd(opts *rootOptions) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "chat <message>",
		Short: "Send a natural language instruction to the chatbot",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var reply chatReply
			resp, err := newAPIClient(opts).R().
				SetContext(cmd.Context()).
				SetBody(map[string]string{"user_input": strings.Join(args, " ")}).
				SetResult(&reply).
				Post("/chatbot/")
			if err != nil {
				return err
			}
			if err := checkResponse(resp); err != nil {
				return err
			}
			if raw {
				return printJSON(cmd.OutOrStdout(), resp.Body())
			}
			if reply.Response.Error != nil {
				return errors.New(*reply.Response.Error)
			}
			if reply.Response.Response != nil {
				fmt.Fprintln(cmd.OutOrStdout(), *reply.Response.Response)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "Print the JSON envelope instead of the answer text")
	return cmd
}
