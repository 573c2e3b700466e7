package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/docintake/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the classifier, corpus storage and HTTP server.

Settings live in ~/.docintake/config.toml. The API key can also come from
DOCINTAKE_API_KEY (or OPENROUTER_API_KEY for the OpenRouter provider).`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsClassifierCmd = &cobra.Command{
	Use:   "classifier",
	Short: "Configure the classification provider",
	Long:  `Interactively select the LLM provider, model and API key used to classify documents.`,
	RunE:  runSettingsClassifier,
}

var settingsTestCmd = &cobra.Command{
	Use:   "test",
	Short: "Check the classification provider is reachable",
	RunE:  runSettingsTest,
}

// settingsInput is where interactive answers are read from.
var settingsInput = func() *bufio.Reader { return bufio.NewReader(os.Stdin) }

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsClassifierCmd)
	settingsCmd.AddCommand(settingsTestCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	// Show what the running process uses, environment overrides included.
	if appSettings != nil {
		settings = appSettings
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	c := settings.Classifier
	cmd.Println("[Classifier]")
	cmd.Printf("  Provider: %s\n", c.Provider.Description())
	cmd.Printf("  Model: %s\n", c.Model)
	if c.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", c.BaseURL)
	}
	if c.Provider.RequiresAPIKey() {
		if c.APIKey != "" {
			cmd.Printf("  API Key: %s\n", maskAPIKey(c.APIKey))
		} else {
			cmd.Printf("  API Key: (not set)\n")
		}
	}
	cmd.Printf("  Timeout: %s\n", c.Timeout)
	cmd.Printf("  Text limit: %d (%s)\n", c.TextLimit, c.Truncation)
	if c.RequestsPerMinute > 0 {
		cmd.Printf("  Rate limit: %d/min\n", c.RequestsPerMinute)
	}
	status := "configured"
	if !c.IsConfigured() {
		status = "not configured"
	}
	cmd.Printf("  Status: %s\n", status)
	cmd.Println()

	cmd.Println("[Store]")
	cmd.Printf("  Backend: %s\n", settings.Store.Backend)
	cmd.Printf("  Data dir: %s\n", settings.Store.DataDir)
	cmd.Println()

	cmd.Println("[Server]")
	cmd.Printf("  Address: %s\n", settings.Server.Addr)
	cmd.Printf("  Body limit: %s\n", settings.Server.BodyLimit)
	cmd.Printf("  Metrics: %t\n", settings.Server.Metrics)
	cmd.Println()

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'docintake settings classifier' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func runSettingsClassifier(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	return configureClassifier(cmd, settingsInput())
}

func runSettingsTest(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	cmd.Print("Pinging classification provider... ")
	if err := settingsService.ValidateClassifierConfig(); err != nil {
		cmd.Println("FAILED")
		return fmt.Errorf("classifier validation failed: %w", err)
	}
	cmd.Println("OK")
	return nil
}

func configureClassifier(cmd *cobra.Command, reader *bufio.Reader) error {
	cmd.Println("Select Classification Provider")
	providers := domain.AllLLMProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	input := readLine(reader)
	idx := parseChoice(input, len(providers), 1)
	selectedProvider := providers[idx-1]

	// Get model
	defaultModel := domain.DefaultLLMModels()[selectedProvider]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	// Get API key if needed
	var apiKey string
	if selectedProvider.RequiresAPIKey() {
		cmd.Print("Enter API key: ")
		apiKey = readPassword(reader)
		cmd.Println()
		if apiKey == "" {
			return errors.New("API key is required for this provider")
		}
	}

	if err := settingsService.SetClassifier(selectedProvider, model, apiKey); err != nil {
		return fmt.Errorf("failed to configure classifier: %w", err)
	}

	// Validate the configuration by pinging the service
	cmd.Print("Validating configuration... ")
	if err := settingsService.ValidateClassifierConfig(); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("classifier configuration validation failed: %w", err)
	}
	cmd.Println("OK")

	cmd.Printf("Classifier configured: %s (%s)\n", selectedProvider.Description(), model)
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

// readPassword reads without echo on a terminal and falls back to reader otherwise.
func readPassword(reader *bufio.Reader) string {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	return readLine(reader)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
