package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-bee/internal/device"
)

var familiesCmd = &cobra.Command{
	Use:   "families",
	Short: "List chip families with BEE support",
	Run: func(cmd *cobra.Command, args []string) {
		for _, family := range device.SupportedFamilies() {
			fmt.Println(family)
		}
	},
}
