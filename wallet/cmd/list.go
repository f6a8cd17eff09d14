package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/digicred/walletgo/walletclient"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the credentials and verifications in the local wallet",
	Run: func(cmd *cobra.Command, args []string) {
		path, _ := cmd.Flags().GetString("storage")
		client, err := walletclient.New(path)
		if err != nil {
			die("failed to open wallet storage", err)
		}
		defer func() { _ = client.Close() }()

		if !client.Registered() {
			fmt.Println("No wallet registered at", path)
			return
		}
		wallet := client.Wallet()

		fmt.Printf("Credentials (%d):\n", len(wallet.Credentials))
		for _, record := range wallet.Credentials {
			fmt.Printf("  %s  %s  %s  %s\n",
				record.ID, record.Format, record.State, strings.Join(record.DocumentTypes, ","))
		}
		fmt.Printf("Verifications (%d):\n", len(wallet.Verifications))
		for _, record := range wallet.Verifications {
			fmt.Printf("  %s  %s  %s\n", record.ID, record.State, record.Name)
		}
	},
}

// logsCmd represents the logs command
var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show the newest wallet event log entries",
	Run: func(cmd *cobra.Command, args []string) {
		path, _ := cmd.Flags().GetString("storage")
		max, _ := cmd.Flags().GetInt("max")
		client, err := walletclient.New(path)
		if err != nil {
			die("failed to open wallet storage", err)
		}
		defer func() { _ = client.Close() }()

		logs, err := client.LoadNewestLogs(max)
		if err != nil {
			die("failed to load logs", err)
		}
		for _, entry := range logs {
			line := fmt.Sprintf("%s  %s", time.Time(entry.Time).Format(time.RFC3339), entry.Type)
			if entry.CredentialID != "" {
				line += "  credential=" + entry.CredentialID
			}
			if entry.VerificationID != "" {
				line += "  verification=" + entry.VerificationID
			}
			fmt.Println(line)
		}
	},
}

func defaultStoragePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".wallet"
	}
	return filepath.Join(home, ".wallet")
}

func init() {
	listCmd.Flags().String("storage", defaultStoragePath(), "path to the wallet storage folder")
	logsCmd.Flags().String("storage", defaultStoragePath(), "path to the wallet storage folder")
	logsCmd.Flags().Int("max", 20, "maximum number of log entries to show")
	RootCmd.AddCommand(listCmd)
	RootCmd.AddCommand(logsCmd)
}
