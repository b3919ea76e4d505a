package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/theirongolddev/khata/internal/config"
	"github.com/theirongolddev/khata/internal/daemon"
	"github.com/theirongolddev/khata/internal/store"

	"github.com/spf13/cobra"
)

var (
	flagServeAddr         string
	flagServeInterval     time.Duration
	flagServeEventsBuffer int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a read-only local API over the ledger",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

var serveStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check a running khata serve",
	Args:  cobra.NoArgs,
	RunE:  runServeStatus,
}

func init() {
	serveCmd.PersistentFlags().StringVar(&flagServeAddr, "addr", "127.0.0.1:8787", "HTTP listen address")
	serveCmd.Flags().DurationVar(&flagServeInterval, "interval", 15*time.Second, "How often to check the ledger for changes")
	serveCmd.Flags().IntVar(&flagServeEventsBuffer, "events-buffer", 200, "Max in-memory events retained")

	serveCmd.AddCommand(serveStatusCmd)
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	dir := dataDir()
	st, err := store.Open(store.Path(dir), logger)
	if err != nil {
		return fmt.Errorf("opening ledger: %w", err)
	}
	defer func() { _ = st.Close() }()

	svc := daemon.New(daemon.Config{
		Loader:       daemon.LoaderFunc(st.Load),
		DataDir:      dir,
		Rate:         config.GetExchangeRate(cfg),
		Interval:     flagServeInterval,
		Addr:         flagServeAddr,
		EventsBuffer: flagServeEventsBuffer,
		Logger:       logger,
	})

	fmt.Printf("  khata listening on http://%s\n", flagServeAddr)
	fmt.Printf("  Ledger: %s\n", store.Path(dir))
	fmt.Println("  Endpoints: /healthz /v1/status /v1/summary /v1/snapshot /v1/events /v1/stream")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := svc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func runServeStatus(_ *cobra.Command, _ []string) error {
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get("http://" + flagServeAddr + "/v1/status") //nolint:noctx // short status check
	if err != nil {
		fmt.Printf("  API status: unreachable (%v)\n", err)
		return nil
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("  API status: HTTP %d\n", resp.StatusCode)
		return nil
	}

	var st daemon.Status
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		fmt.Printf("  API status: malformed response (%v)\n", err)
		return nil
	}

	fmt.Printf("  Address: http://%s\n", flagServeAddr)
	fmt.Printf("  Started: %s\n", st.StartedAt.Local().Format(time.RFC3339))
	if st.LastPollAt.IsZero() {
		fmt.Printf("  Last poll: pending\n")
	} else {
		fmt.Printf("  Last poll: %s\n", st.LastPollAt.Local().Format(time.RFC3339))
	}
	fmt.Printf("  Poll count: %d\n", st.PollCount)
	fmt.Printf("  Transactions: %d\n", st.Totals.Transactions)
	fmt.Printf("  Balance: %s\n", money(st.Totals.Balance))
	fmt.Printf("  Subscribers: %d\n", st.SubscriberCount)
	return nil
}
