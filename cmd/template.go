package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/deploymenttheory/go-bee/internal/services"
)

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Print a configuration template",
	Long: `Template prints a YAML build configuration skeleton with
representative values, ready to be edited and fed to the encrypt
command.`,
	RunE: runTemplate,
}

func runTemplate(cmd *cobra.Command, args []string) error {
	out, err := yaml.Marshal(services.TemplateConfig())
	if err != nil {
		return fmt.Errorf("failed to render template: %w", err)
	}
	fmt.Println("# BEE configuration template")
	fmt.Println("# user_key is the 16-byte software key as hex; burn its fuse")
	fmt.Println("# words with the fuses command before booting the image.")
	fmt.Print(string(out))
	return nil
}
