package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// Global output flags only
	verbose bool
	quiet   bool
)

var rootCmd = &cobra.Command{
	Use:   "bee",
	Short: "BEE image encryption tool for RT10xx devices",
	Long: `bee builds Bus Encryption Engine (BEE) protected firmware images for
RT10xx devices. It encrypts the configured address regions of a plain
image with AES-CTR and produces the region headers and fuse values the
boot ROM needs to transparently decrypt on fetch.

Commands:
  encrypt     Encrypt an image according to a YAML configuration
  header      Parse and describe a 512-byte BEE region header
  fuses       Print the fuse programming words for a software key
  template    Print a configuration template
  families    List chip families with BEE support`,
	Version: "0.1.0-dev",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		switch {
		case verbose:
			logrus.SetLevel(logrus.DebugLevel)
		case quiet:
			logrus.SetLevel(logrus.ErrorLevel)
		default:
			logrus.SetLevel(logrus.InfoLevel)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress output except errors")

	rootCmd.AddCommand(
		encryptCmd,
		headerCmd,
		fusesCmd,
		templateCmd,
		familiesCmd,
	)
}
