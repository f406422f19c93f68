package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

var configCmd = settingsOnly(&cobra.Command{
	Use:   "config",
	Short: "Show and change settings",
	Long: `Settings come from built-in defaults, then config.toml in the data
directory, then environment variables (a .env file is loaded first).`,
})

var configShowCmd = settingsOnly(&cobra.Command{
	Use:   "show",
	Short: "Show effective settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
})

var configSetCmd = settingsOnly(&cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a config file key",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
})

var configKeysCmd = settingsOnly(&cobra.Command{
	Use:   "keys",
	Short: "List config file keys",
	Args:  cobra.NoArgs,
	RunE:  runConfigKeys,
})

func init() {
	addOutputFlag(configShowCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configKeysCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	masked := maskSecrets(*settings)

	return render(cmd, masked, func() {
		cmd.Println("[LLM]")
		printProvider(cmd, masked.LLM)
		cmd.Println()

		cmd.Println("[Embedding]")
		printProvider(cmd, masked.Embedding)
		cmd.Println()

		cmd.Println("[Drive]")
		cmd.Printf("  Folder URL:      %s\n", orNotSet(masked.Drive.FolderURL))
		cmd.Printf("  Folder ID:       %s\n", orNotSet(masked.Drive.FolderID))
		cmd.Printf("  Service account: %s\n", orNotSet(masked.Drive.ServiceAccountJSON))
		cmd.Printf("  API Key:         %s\n", orNotSet(masked.Drive.APIKey))
		cmd.Println()

		cmd.Println("[Retrieval]")
		cmd.Printf("  Chunk size:         %d\n", masked.Retrieval.ChunkSize)
		cmd.Printf("  Chunk overlap:      %d\n", masked.Retrieval.ChunkOverlap)
		cmd.Printf("  Top K:              %d\n", masked.Retrieval.TopK)
		cmd.Printf("  Max history:        %d\n", masked.Retrieval.MaxHistory)
		cmd.Printf("  Max context tokens: %d\n", masked.Retrieval.MaxContextTokens)
		cmd.Println()

		cmd.Println("[Storage]")
		cmd.Printf("  Data dir:       %s\n", masked.Storage.DataDir)
		cmd.Printf("  Vector backend: %s\n", masked.Storage.VectorBackend)
		cmd.Printf("  Collection:     %s\n", masked.Storage.Collection)
		if masked.Storage.VectorBackend == domain.VectorBackendPGVector {
			cmd.Printf("  Database URL:   %s\n", orNotSet(masked.Storage.DatabaseURL))
		}
		cmd.Println()

		cmd.Printf("HTTP address: %s\n", masked.HTTPAddr)
	})
}

func printProvider(cmd *cobra.Command, p domain.ProviderSettings) {
	cmd.Printf("  Provider: %s\n", p.Provider.Description())
	cmd.Printf("  Model:    %s\n", p.Model)
	if p.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", p.BaseURL)
	}
	if p.Provider.RequiresAPIKey() {
		cmd.Printf("  API Key:  %s\n", orNotSet(p.APIKey))
	}
	status := "configured"
	if !p.IsConfigured() {
		status = "not configured"
	}
	cmd.Printf("  Status:   %s\n", status)
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	if err := settingsService.Set(args[0], args[1]); err != nil {
		return fmt.Errorf("failed to set %s: %w", args[0], err)
	}

	cmd.Printf("Set %s\n", args[0])
	return nil
}

func runConfigKeys(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	for _, key := range settingsService.Keys() {
		cmd.Println(key)
	}
	return nil
}

// maskSecrets returns a copy of settings with credentials shortened.
func maskSecrets(s domain.AppSettings) domain.AppSettings {
	s.LLM.APIKey = maskAPIKey(s.LLM.APIKey)
	s.Embedding.APIKey = maskAPIKey(s.Embedding.APIKey)
	s.Drive.APIKey = maskAPIKey(s.Drive.APIKey)
	s.Drive.ServiceAccountJSON = maskAPIKey(s.Drive.ServiceAccountJSON)
	s.Storage.DatabaseURL = maskAPIKey(s.Storage.DatabaseURL)
	return s
}

func maskAPIKey(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func orNotSet(v string) string {
	if v == "" {
		return "(not set)"
	}
	return v
}
