package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var version = "1.0.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type rootOptions struct {
	baseURL string
	timeout time.Duration
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "task-cli",
		Short: "Command-line client for the User & Task Management API",
		Long: `task-cli talks to a running task-api instance.

Examples:
  task-cli chat "create a task for user 1 to buy milk"
  task-cli tools
  task-cli users list --name ali
  task-cli tasks list --completed=false --user-id 1`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	defaultURL := os.Getenv("TASK_API_URL")
	if defaultURL == "" {
		defaultURL = "http://localhost:8000"
	}
	cmd.PersistentFlags().StringVar(&opts.baseURL, "base-url", defaultURL, "Base URL of the task API (env TASK_API_URL)")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 60*time.Second, "Request timeout")

	cmd.AddCommand(newChatCmd(opts))
	cmd.AddCommand(newToolsCmd(opts))
	cmd.AddCommand(newUsersCmd(opts))
	cmd.AddCommand(newTasksCmd(opts))
	return cmd
}
