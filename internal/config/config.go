package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"docverify/internal/logger"
)

// Config carries every setting the verification pipeline consumes. All
// values come from the environment (a .env file is loaded in main); the
// core packages receive them as plain values and never touch the
// environment themselves.
type Config struct {
	// Batch layout
	BatchFolder      string // folder of input PDFs
	BatchLabel       string // suffix appended to the batch folder name
	OutputPath       string // root output folder
	ExtractedFolder  string // subfolder for extraction artifacts
	VerificationFile string // verification report file name

	// Classification
	CountThreshold int    // first-page word count dividing normal from scanned
	TermsFile      string // .xlsx term catalogue ("Document List" sheet)
	TermsSheetURL  string // optional Google Sheet alternative to TermsFile
	TermsJSONPath  string // side-file the catalogue is serialized to

	// OCR
	OCREngine string // "documentai" (default) or "vision"
	RasterDPI int    // page rasterization resolution for the scanned path

	// Chat subsystem
	OpenAIAPIKey string
	ChatModel    string
	ChatFallback string

	// Logging
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

// Load reads the configuration from the environment and validates it.
// Validation failures abort the run before any file is processed.
func Load() (*Config, error) {
	threshold, err := getEnvInt("COUNT_THRESHOLD", 50)
	if err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	dpi, err := getEnvInt("RASTER_DPI", 150)
	if err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	config := &Config{
		BatchFolder:      getEnv("BATCH_FOLDER", ""),
		BatchLabel:       getEnv("BATCH_LABEL", ""),
		OutputPath:       getEnv("OUTPUT_PATH", "output"),
		ExtractedFolder:  getEnv("EXTRACTED_TEXT_OUTPUT_FOLDER_NAME", "extracted"),
		VerificationFile: getEnv("VERIFICATION_OUTPUT_FILE_NAME", "verification.json"),
		CountThreshold:   threshold,
		TermsFile:        getEnv("IDENTIFICATION_TERMS_LIST_FILE", ""),
		TermsSheetURL:    getEnv("IDENTIFICATION_TERMS_SHEET_URL", ""),
		TermsJSONPath:    getEnv("IDENTIFICATION_TERMS_OUTPUT_PATH", ""),
		OCREngine:        getEnv("OCR_ENGINE", "documentai"),
		RasterDPI:        dpi,
		OpenAIAPIKey:     getEnv("OPENAI_API_KEY", ""),
		ChatModel:        getEnv("CHAT_MODEL", "gpt-4o"),
		ChatFallback:     getEnv("CHAT_FALLBACK_MODEL", "gpt-4o-mini"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFormat:        getEnv("LOG_FORMAT", "console"),
		LogTimeFormat:    getEnv("LOG_TIME_FORMAT", "2006-01-02T15:04:05Z07:00"),
		LogOutput:        getEnv("LOG_OUTPUT", "stdout"),
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func (c *Config) validate() error {
	if c.BatchFolder == "" {
		return fmt.Errorf("BATCH_FOLDER is required")
	}
	if c.TermsFile == "" && c.TermsSheetURL == "" {
		return fmt.Errorf("IDENTIFICATION_TERMS_LIST_FILE or IDENTIFICATION_TERMS_SHEET_URL is required")
	}
	if c.CountThreshold <= 0 {
		return fmt.Errorf("COUNT_THRESHOLD must be positive")
	}
	return nil
}

// BatchDir returns the batch folder path with the optional label suffix.
func (c *Config) BatchDir() string {
	if c.BatchLabel == "" {
		return c.BatchFolder
	}
	return c.BatchFolder + "_" + c.BatchLabel
}

// ExtractedDir returns the folder extraction artifacts are written to.
func (c *Config) ExtractedDir() string {
	return filepath.Join(c.OutputPath, c.ExtractedFolder)
}

// VerificationPath returns the full path of the verification report.
func (c *Config) VerificationPath() string {
	return filepath.Join(c.OutputPath, c.VerificationFile)
}

// TermsSidecarPath returns where the catalogue JSON side-file is written.
func (c *Config) TermsSidecarPath() string {
	if c.TermsJSONPath != "" {
		return c.TermsJSONPath
	}
	return filepath.Join(c.OutputPath, "identification_terms.json")
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}
