package cmd

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"
)

var flagWebhookClear bool

var webhookCmd = &cobra.Command{
	Use:   "webhook [URL]",
	Short: "Show or set the backup webhook URL",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runWebhook,
}

func init() {
	webhookCmd.Flags().BoolVar(&flagWebhookClear, "clear", false, "Remove the stored URL")
	rootCmd.AddCommand(webhookCmd)
}

func runWebhook(_ *cobra.Command, args []string) error {
	book, st, err := openBook()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	switch {
	case flagWebhookClear:
		book.SetWebhookURL("")
		fmt.Println("  Webhook URL cleared.")
	case len(args) == 1:
		raw := strings.TrimSpace(args[0])
		if u, err := url.Parse(raw); err != nil || u.Host == "" {
			return fmt.Errorf("not a URL: %q", raw)
		}
		book.SetWebhookURL(raw)
		fmt.Printf("  Webhook URL set to %s\n", raw)
	default:
		if u := book.Snapshot().WebhookURL; u != "" {
			fmt.Printf("  Webhook URL: %s\n", u)
		} else {
			fmt.Println("  Webhook URL: not set")
		}
	}
	return nil
}
