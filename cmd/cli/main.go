package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/iho/splitledger/internal/adapter/http/dto"
)

// errInconsistent makes the consistency command exit non-zero.
var errInconsistent = errors.New("ledger is inconsistent")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type apiClient struct {
	baseURL string
	http    *http.Client
}

func newRootCmd() *cobra.Command {
	var (
		baseURL string
		timeout time.Duration
	)

	rootCmd := &cobra.Command{
		Use:           "splitledger-cli",
		Short:         "SplitLedger CLI tool",
		Long:          `A command line interface for interacting with the SplitLedger API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the SplitLedger API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "Request timeout")

	client := func() *apiClient {
		return &apiClient{
			baseURL: strings.TrimRight(baseURL, "/"),
			http:    &http.Client{Timeout: timeout},
		}
	}

	rootCmd.AddCommand(
		balancesCmd(client),
		settleCmd(client),
		importCmd(client),
		consistencyCmd(client),
	)
	return rootCmd
}

func balancesCmd(client func() *apiClient) *cobra.Command {
	return &cobra.Command{
		Use:   "balances",
		Short: "Show what every participant owes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var balances []dto.BalanceResponse
			if err := client().do(cmd.Context(), http.MethodGet, "/api/v1/participants", nil, "", &balances); err != nil {
				return err
			}
			printBalances(cmd.OutOrStdout(), balances)
			return nil
		},
	}
}

func settleCmd(client func() *apiClient) *cobra.Command {
	var (
		date           string
		idempotencyKey string
	)

	cmd := &cobra.Command{
		Use:   "settle <participant> <amount>",
		Short: "Record a lump-sum payment from a participant",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := decimal.NewFromString(args[1])
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[1], err)
			}
			req := dto.SettleRequest{Amount: amount}
			if date != "" {
				d, err := civil.ParseDate(date)
				if err != nil {
					return fmt.Errorf("invalid date %q: %w", date, err)
				}
				req.Date = &d
			}
			body, err := json.Marshal(req)
			if err != nil {
				return err
			}

			var alloc dto.AllocationResponse
			path := "/api/v1/participants/" + url.PathEscape(strings.TrimSpace(args[0])) + "/settlements"
			c := client()
			if err := c.doWithKey(cmd.Context(), http.MethodPost, path, bytes.NewReader(body), "application/json", idempotencyKey, &alloc); err != nil {
				return err
			}
			printAllocation(cmd.OutOrStdout(), &alloc)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Payment date (YYYY-MM-DD), defaults to today")
	cmd.Flags().StringVar(&idempotencyKey, "idempotency-key", "", "Idempotency-Key header for safe retries")
	return cmd
}

func importCmd(client func() *apiClient) *cobra.Command {
	var (
		accountID string
		source    string
	)

	cmd := &cobra.Command{
		Use:   "import <file|gs://bucket/object>",
		Short: "Import a statement or receipt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				body        io.Reader
				contentType string
			)
			if strings.HasPrefix(args[0], "gs://") {
				req := dto.ImportDocumentRequest{URI: args[0], Source: source}
				if accountID != "" {
					req.AccountID = &accountID
				}
				data, err := json.Marshal(req)
				if err != nil {
					return err
				}
				body, contentType = bytes.NewReader(data), "application/json"
			} else {
				data, ct, err := multipartFile(args[0], accountID, source)
				if err != nil {
					return err
				}
				body, contentType = data, ct
			}

			var result dto.ImportResponse
			if err := client().do(cmd.Context(), http.MethodPost, "/api/v1/imports/document", body, contentType, &result); err != nil {
				return err
			}
			printImport(cmd.OutOrStdout(), &result)
			return nil
		},
	}

	cmd.Flags().StringVar(&accountID, "account", "", "Account ID to attach imported transactions to")
	cmd.Flags().StringVar(&source, "source", "", "Source label, defaults to the file name")
	return cmd
}

func consistencyCmd(client func() *apiClient) *cobra.Command {
	return &cobra.Command{
		Use:   "consistency",
		Short: "Check ledger consistency",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var report dto.ConsistencyResponse
			if err := client().do(cmd.Context(), http.MethodGet, "/api/v1/ledger/consistency", nil, "", &report); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if report.Consistent {
				fmt.Fprintf(out, "Consistency check PASSED (%d transactions)\n", report.Checked)
				return nil
			}
			fmt.Fprintf(out, "Consistency check FAILED (%d transactions, %d problems)\n", report.Checked, len(report.Problems))
			for _, p := range report.Problems {
				if p.ItemID != "" {
					fmt.Fprintf(out, "  %s item %s: %s\n", p.TransactionID, p.ItemID, p.Problem)
				} else {
					fmt.Fprintf(out, "  %s: %s\n", p.TransactionID, p.Problem)
				}
			}
			return errInconsistent
		},
	}
}

func (c *apiClient) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	return c.doWithKey(ctx, method, path, body, contentType, "", out)
}

func (c *apiClient) doWithKey(ctx context.Context, method, path string, body io.Reader, contentType, idempotencyKey string, out any) error {
	if ctx == nil {
		ctx = context.Background()
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var apiErr dto.ErrorResponse
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			if apiErr.Message != "" {
				return fmt.Errorf("%s (status %d): %s", apiErr.Error, resp.StatusCode, apiErr.Message)
			}
			return fmt.Errorf("%s (status %d)", apiErr.Error, resp.StatusCode)
		}
		return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, truncate(string(data), 200))
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func multipartFile(path, accountID, source string) (io.Reader, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, "", err
	}
	if accountID != "" {
		if err := w.WriteField("account_id", accountID); err != nil {
			return nil, "", err
		}
	}
	if source != "" {
		if err := w.WriteField("source", source); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

func printBalances(out io.Writer, balances []dto.BalanceResponse) {
	if len(balances) == 0 {
		fmt.Fprintln(out, "No participants")
		return
	}
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tLENT\tPAID\tOUTSTANDING\tCREDIT\tNET\tOPEN")
	for _, b := range balances {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%d\n",
			b.Name,
			b.TotalLent.StringFixed(2),
			b.TotalPaid.StringFixed(2),
			b.Outstanding.StringFixed(2),
			b.Credit.StringFixed(2),
			b.Net.StringFixed(2),
			b.OpenItems)
	}
	tw.Flush()
}

func printAllocation(out io.Writer, a *dto.AllocationResponse) {
	fmt.Fprintf(out, "Settled %s for %s: applied %s, credit %s\n",
		a.Amount.StringFixed(2), a.Name, a.Applied.StringFixed(2), a.Credit.StringFixed(2))
	for _, app := range a.Applications {
		suffix := ""
		if app.Overflow {
			suffix = " (overflow)"
		}
		fmt.Fprintf(out, "  %s  %s%s\n", app.TransactionID, app.Amount.StringFixed(2), suffix)
	}
}

func printImport(out io.Writer, r *dto.ImportResponse) {
	fmt.Fprintf(out, "Import %s: %d accepted, %d duplicates, %d dropped\n",
		r.ID, len(r.Accepted), len(r.Duplicates), len(r.Dropped))
	for _, d := range r.Dropped {
		fmt.Fprintf(out, "  dropped #%d: %s\n", d.Index, d.Reason)
	}
	if r.NeedsReview {
		fmt.Fprintln(out, "Some records need review")
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
