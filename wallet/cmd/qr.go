package cmd

import (
	"fmt"
	"os"

	"github.com/mdp/qrterminal"
	"github.com/spf13/cobra"
)

// qrCmd represents the qr command
var qrCmd = &cobra.Command{
	Use:   "qr <url>",
	Short: "Render an invitation URL as a terminal QR code",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		noqr, _ := cmd.Flags().GetBool("plain")
		if noqr {
			fmt.Println(args[0])
			return
		}
		qrterminal.GenerateWithConfig(args[0], qrterminal.Config{
			Level:     qrterminal.L,
			Writer:    os.Stdout,
			BlackChar: qrterminal.BLACK,
			WhiteChar: qrterminal.WHITE,
		})
	},
}

func init() {
	qrCmd.Flags().Bool("plain", false, "print the URL instead of a QR code")
	RootCmd.AddCommand(qrCmd)
}
