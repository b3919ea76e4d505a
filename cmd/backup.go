package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/theirongolddev/khata/internal/backup"
	"github.com/theirongolddev/khata/internal/config"
	"github.com/theirongolddev/khata/internal/export"

	"github.com/spf13/cobra"
)

var flagBackupURL string

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Save locally, then send a backup to the webhook and broker",
	Args:  cobra.NoArgs,
	RunE:  runBackup,
}

func init() {
	backupCmd.Flags().StringVar(&flagBackupURL, "url", "", "Webhook URL for this run (default: the stored one)")
	rootCmd.AddCommand(backupCmd)
}

func runBackup(_ *cobra.Command, _ []string) error {
	book, st, err := openBook()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	snap := book.Snapshot()
	webhook := snap.WebhookURL
	if flagBackupURL != "" {
		webhook = flagBackupURL
	}

	sink := backup.SinkFor(backup.Targets{
		WebhookURL:   webhook,
		AMQPURL:      config.GetAMQPURL(cfg),
		AMQPExchange: cfg.Backup.AMQPExchange,
		AMQPQueue:    cfg.Backup.AMQPQueue,
		DialTimeout:  config.BackupTimeout(cfg),
	})
	if sink == nil {
		return errors.New("no backup target: run `khata webhook URL` or set [backup] amqp_url")
	}

	payload, err := export.NewPayload(snap, time.Now()).Encode()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.BackupTimeout(cfg))
	defer cancel()

	syncer := backup.NewSyncer(0, logger)
	if err := syncer.Sync(ctx, book.Persist, sink, payload); err != nil {
		return fmt.Errorf("backup to %s failed (local data is saved): %w", sink.Name(), err)
	}

	fmt.Printf("  Backed up %s transactions, %d goals, %d liabilities to %s\n",
		formatNumber(int64(len(snap.Transactions))), len(snap.Goals), len(snap.Liabilities), sink.Name())
	return nil
}
