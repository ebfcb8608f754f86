// Package config provides configuration for the batch tools, loaded from
// command-line flags, environment variables, and .env files.
package config

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/listinglab/listinglab/internal/fetch"
	"github.com/listinglab/listinglab/internal/imaging"
)

// Config holds the application configuration.
type Config struct {
	App    AppConfig
	Logger LoggerConfig
	Input  InputConfig
	Images ImagesConfig
	Sheets SheetsConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string `validate:"oneof=development staging production"`
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string `validate:"oneof=debug info warn error"`
}

// InputConfig selects where product rows come from.
type InputConfig struct {
	// File is a UTF-8 text file of url1;url2<TAB>Title rows.
	File string
	// Worksheet is the source tab name for spreadsheet and workbook input.
	Worksheet string `validate:"required"`
}

// ImagesConfig holds the fetch-and-store pipeline configuration.
type ImagesConfig struct {
	OutputRoot   string        `validate:"required"`
	CanvasWidth  int           `validate:"gt=0"`
	CanvasHeight int           `validate:"gt=0"`
	Quality      int           `validate:"gte=1,lte=100"`
	FetchTimeout time.Duration `validate:"gt=0"`
	UserAgent    string        `validate:"required"`
}

// SheetsConfig holds spreadsheet and workbook configuration. Exactly one of
// SpreadsheetID and WorkbookFile selects the tabular store; both empty means
// text-file input only and no metadata export target.
type SheetsConfig struct {
	// CredentialsFile is the service-account credentials path. Required
	// whenever SpreadsheetID is set.
	CredentialsFile string
	SpreadsheetID   string
	// WorkbookFile is a local .xlsx file used instead of a spreadsheet.
	WorkbookFile string
	// OutputWorksheet is the tab fully replaced by the metadata export.
	OutputWorksheet string `validate:"required"`
}

// LoadConfig loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func LoadConfig() (*Config, error) {
	env := flag.String("env", "", "Environment (development, staging, production)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")

	inputFile := flag.String("input-file", "", "Product rows text file (default: urls_products.txt)")
	worksheet := flag.String("worksheet", "", "Source worksheet name (default: Sheet1)")

	outputRoot := flag.String("output-root", "", "Root folder for product images (default: images)")
	canvasWidth := flag.String("canvas-width", "", "Canvas width in pixels (default: 800)")
	canvasHeight := flag.String("canvas-height", "", "Canvas height in pixels (default: 800)")
	quality := flag.String("quality", "", "WebP quality 1-100 (default: 85)")
	fetchTimeout := flag.String("fetch-timeout", "", "Per-image download timeout (default: 20s)")
	userAgent := flag.String("user-agent", "", "User-Agent header for image downloads")

	credentialsFile := flag.String("credentials-file", "", "Service-account credentials file (default: google-service-account.json)")
	spreadsheetID := flag.String("spreadsheet-id", "", "Google Sheets spreadsheet ID")
	workbookFile := flag.String("workbook-file", "", "Local .xlsx workbook instead of a spreadsheet")
	outputWorksheet := flag.String("output-worksheet", "", "Destination worksheet for metadata export (default: Product Metadata)")

	envFile := flag.String("env-file", ".env", "Path to .env file")

	flag.Parse()

	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(*envFile)

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: strings.ToLower(getConfigValue(*logLevel, "LOG_LEVEL", "info")),
		},
		Input: InputConfig{
			File:      getConfigValue(*inputFile, "INPUT_FILE", "urls_products.txt"),
			Worksheet: getConfigValue(*worksheet, "WORKSHEET", "Sheet1"),
		},
		Images: ImagesConfig{
			OutputRoot:   getConfigValue(*outputRoot, "OUTPUT_ROOT", "images"),
			CanvasWidth:  getIntConfigValue(*canvasWidth, "CANVAS_WIDTH", imaging.DefaultCanvasWidth),
			CanvasHeight: getIntConfigValue(*canvasHeight, "CANVAS_HEIGHT", imaging.DefaultCanvasHeight),
			Quality:      getIntConfigValue(*quality, "WEBP_QUALITY", imaging.DefaultQuality),
			UserAgent:    getConfigValue(*userAgent, "USER_AGENT", fetch.DefaultUserAgent),
		},
		Sheets: SheetsConfig{
			CredentialsFile: getConfigValue(*credentialsFile, "CREDENTIALS_FILE", "google-service-account.json"),
			SpreadsheetID:   getConfigValue(*spreadsheetID, "SPREADSHEET_ID", ""),
			WorkbookFile:    getConfigValue(*workbookFile, "WORKBOOK_FILE", ""),
			OutputWorksheet: getConfigValue(*outputWorksheet, "OUTPUT_WORKSHEET", "Product Metadata"),
		},
	}

	timeoutStr := getConfigValue(*fetchTimeout, "FETCH_TIMEOUT", "20s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid fetch timeout %q: %w", timeoutStr, err)
	}
	cfg.Images.FetchTimeout = timeout

	if err := cfg.expandPaths(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all config values are present and consistent.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}

	if c.Sheets.SpreadsheetID != "" && c.Sheets.WorkbookFile != "" {
		return fmt.Errorf("spreadsheet ID and workbook file are mutually exclusive")
	}
	if c.Sheets.SpreadsheetID != "" && c.Sheets.CredentialsFile == "" {
		return fmt.Errorf("credentials file is required with a spreadsheet ID")
	}

	return nil
}

// expandPaths expands ~ and relative paths for all file settings.
func (c *Config) expandPaths() error {
	var err error
	if c.Images.OutputRoot, err = expandPath(c.Images.OutputRoot); err != nil {
		return fmt.Errorf("invalid output root: %w", err)
	}
	if c.Input.File, err = expandPath(c.Input.File); err != nil {
		return fmt.Errorf("invalid input file: %w", err)
	}
	if c.Sheets.CredentialsFile, err = expandPath(c.Sheets.CredentialsFile); err != nil {
		return fmt.Errorf("invalid credentials file: %w", err)
	}
	if c.Sheets.WorkbookFile != "" {
		if c.Sheets.WorkbookFile, err = expandPath(c.Sheets.WorkbookFile); err != nil {
			return fmt.Errorf("invalid workbook file: %w", err)
		}
	}
	return nil
}

// expandPath expands ~ and makes the path absolute.
func expandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}

	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}
	return defaultValue
}

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	var result int
	if _, err := fmt.Sscanf(strValue, "%d", &result); err != nil {
		return defaultValue
	}
	return result
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value (one per line, # for comments). Existing environment
// variables are not overwritten.
func loadEnvFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"'`)

		if key != "" && os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}

	return scanner.Err()
}
