package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/deploymenttheory/go-bee/internal/device"
	"github.com/deploymenttheory/go-bee/internal/services"
)

var (
	encryptConfigPath string
	encryptOutputDir  string
	encryptFamily     string
)

var encryptCmd = &cobra.Command{
	Use:   "encrypt",
	Short: "Encrypt an image according to a YAML configuration",
	Long: `Encrypt reads a YAML build configuration, encrypts the protected
regions of the input image and writes the encrypted image together with
one 512-byte region header per active engine. The fuse words for each
engine's software key are printed for provisioning.`,
	RunE: runEncrypt,
}

func init() {
	encryptCmd.Flags().StringVarP(&encryptConfigPath, "config", "c", "", "path to the YAML build configuration (required)")
	encryptCmd.Flags().StringVarP(&encryptOutputDir, "output", "o", ".", "directory for the encrypted image and headers")
	encryptCmd.Flags().StringVar(&encryptFamily, "family", "", "target chip family, checked against the BEE capability table")
	_ = encryptCmd.MarkFlagRequired("config")
}

func loadConfig(path string) (*services.Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read configuration: %w", err)
	}
	var cfg services.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	return &cfg, nil
}

func runEncrypt(cmd *cobra.Command, args []string) error {
	if encryptFamily != "" && !device.SupportsBee(encryptFamily) {
		logrus.Warnf("family %q is not in the BEE capability table; supported: %v",
			encryptFamily, device.SupportedFamilies())
	}

	cfg, err := loadConfig(encryptConfigPath)
	if err != nil {
		return err
	}

	orchestrator, err := services.BuildFromConfig(cfg, os.ReadFile)
	if err != nil {
		return err
	}

	image, err := orchestrator.ExportImage()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(encryptOutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	imagePath := filepath.Join(encryptOutputDir, "encrypted.bin")
	if err := os.WriteFile(imagePath, image, 0o644); err != nil {
		return fmt.Errorf("failed to write encrypted image: %w", err)
	}
	logrus.Infof("wrote encrypted image %s (%d bytes)", imagePath, len(image))

	headers, err := orchestrator.ExportHeaders()
	if err != nil {
		return err
	}
	for i, header := range headers {
		headerPath := filepath.Join(encryptOutputDir, fmt.Sprintf("bee_ehdr%d.bin", i))
		if err := os.WriteFile(headerPath, header, 0o644); err != nil {
			return fmt.Errorf("failed to write region header: %w", err)
		}
		logrus.Infof("wrote region header %s", headerPath)
	}

	for i, header := range orchestrator.Headers() {
		fmt.Printf("Engine %d fuse words (lowest fuse address first):\n", i)
		for _, value := range header.FuseValues() {
			fmt.Printf("  0x%08X\n", value)
		}
	}
	return nil
}
