package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	token   string
	timeout time.Duration
)

func main() {
	root := &cobra.Command{
		Use:           "splitclear",
		Short:         "Inspect and settle shared expenses",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "settlement service base URL")
	root.PersistentFlags().StringVar(&token, "token", os.Getenv("SPLITCLEAR_TOKEN"), "bearer token")
	root.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "request timeout")

	root.AddCommand(expensesCmd(), balancesCmd(), dashboardCmd(), membersCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func expensesCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "expenses", Short: "Work with expenses"}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all expenses with settlement state",
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(http.MethodGet, "/api/v1/expenses", nil)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "get <id>",
		Short: "Show one expense with its derived settlement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(http.MethodGet, "/api/v1/expenses/"+args[0], nil)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "payments <id>",
		Short: "Show the payment history of an expense",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(http.MethodGet, "/api/v1/expenses/"+args[0]+"/payments", nil)
		},
	})

	var memberID, amount string
	clear := &cobra.Command{
		Use:   "clear <id>",
		Short: "Record a payment against an expense",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(http.MethodPut, "/api/v1/expenses/clear/"+args[0], map[string]string{
				"memberId": memberID,
				"amount":   amount,
			})
		},
	}
	clear.Flags().StringVar(&memberID, "member", "", "paying member id")
	clear.Flags().StringVar(&amount, "amount", "", "payment amount")
	clear.MarkFlagRequired("member")
	clear.MarkFlagRequired("amount")
	cmd.AddCommand(clear)

	return cmd
}

func balancesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balances",
		Short: "Show per-member settlement balances",
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(http.MethodGet, "/api/v1/expenses/summary", nil)
		},
	}
}

func dashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show the settlement overview",
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(http.MethodGet, "/api/v1/dashboard", nil)
		},
	}
}

func membersCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "members", Short: "Work with members"}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List members",
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(http.MethodGet, "/api/v1/members", nil)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add <name>",
		Short: "Add a member",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(http.MethodPost, "/api/v1/members", map[string]string{"name": args[0]})
		},
	})

	return cmd
}

func call(method, path string, body any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, baseURL+path, reader)
	if err != nil {
		return err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 400 {
		return fmt.Errorf("%s: %s", resp.Status, bytes.TrimSpace(raw))
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, raw, "", "  "); err != nil {
		fmt.Println(string(raw))
		return nil
	}
	fmt.Println(pretty.String())
	return nil
}
