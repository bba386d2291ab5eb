package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-bee/internal/parsers/bee"
)

var fusesKeyHex string

var fusesCmd = &cobra.Command{
	Use:   "fuses",
	Short: "Print the fuse programming words for a software key",
	Long: `Fuses splits a 16-byte software key into the four 32-bit words to be
burned into the SW_GP2 fuses, ordered for the target hardware: the
first word goes to the lowest fuse address.`,
	RunE: runFuses,
}

func init() {
	fusesCmd.Flags().StringVarP(&fusesKeyHex, "key", "k", "", "16-byte software key as hex (required)")
	_ = fusesCmd.MarkFlagRequired("key")
}

func runFuses(cmd *cobra.Command, args []string) error {
	key, err := parseKeyFlag(fusesKeyHex)
	if err != nil {
		return err
	}
	if len(key) != 16 {
		return fmt.Errorf("key length %d, expected 16 bytes", len(key))
	}
	header, err := bee.NewRegionHeader(nil, key, nil)
	if err != nil {
		return err
	}
	for _, value := range header.FuseValues() {
		fmt.Printf("0x%08X\n", value)
	}
	return nil
}
