package cmd

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-bee/internal/parsers/bee"
)

var headerKeyHex string

var headerCmd = &cobra.Command{
	Use:   "header <file>",
	Short: "Parse and describe a 512-byte BEE region header",
	Long: `Header decrypts a stored region header with the given software key and
prints the recovered key info block and protect region descriptor
block. A wrong key fails the inner format checks.`,
	Args: cobra.ExactArgs(1),
	RunE: runHeader,
}

func init() {
	headerCmd.Flags().StringVarP(&headerKeyHex, "key", "k", "", "16-byte software key as hex (required)")
	_ = headerCmd.MarkFlagRequired("key")
}

func parseKeyFlag(value string) ([]byte, error) {
	key, err := hex.DecodeString(strings.TrimPrefix(value, "0x"))
	if err != nil {
		return nil, fmt.Errorf("key is not a hex string: %w", err)
	}
	return key, nil
}

func runHeader(cmd *cobra.Command, args []string) error {
	key, err := parseKeyFlag(headerKeyHex)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read header file: %w", err)
	}
	header, err := bee.DecodeRegionHeader(data, key)
	if err != nil {
		return err
	}
	fmt.Println(header)
	fmt.Println("Fuse words (lowest fuse address first):")
	for _, value := range header.FuseValues() {
		fmt.Printf("  0x%08X\n", value)
	}
	return nil
}
