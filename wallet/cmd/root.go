package cmd

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Digital credential wallet toolkit",
	Long:  `Digital credential wallet toolkit`,
}

// Execute adds all child commands to the root command sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(-1)
	}
}

func init() {
	RootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print wallet version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("wallet")
			fmt.Println("Version: ", "0.1.0")
			fmt.Println("OS/Arch: ", runtime.GOOS+"/"+runtime.GOARCH)
		},
	})
}

func die(message string, err error) {
	var m string
	if message != "" {
		m = message + ": "
	}
	if err != nil {
		m = m + err.Error()
	}
	fmt.Println(m)
	os.Exit(1)
}
