package main

import (
	stdlog "log"

	"github.com/joho/godotenv"

	"docverify/cmd"
	"docverify/internal/config"
	"docverify/internal/logger"
)

func main() {
	if err := godotenv.Load(); err != nil {
		stdlog.Printf("Warning: Could not load .env file: %v", err)
	}

	// Logging is set up from the environment here; commands load the full
	// configuration themselves so validation errors surface per command.
	logConfig := logger.DefaultConfig()
	if cfg, err := config.Load(); err == nil {
		logConfig = cfg.GetLoggerConfig()
	}
	if err := logger.Setup(logConfig); err != nil {
		stdlog.Fatalf("Failed to initialize logger: %v", err)
	}

	cmd.Execute()
}
