package main

import (
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/demandlab/price-optimizer/internal/config"
	"github.com/demandlab/price-optimizer/internal/pricing"
	"github.com/demandlab/price-optimizer/internal/server"
	"github.com/demandlab/price-optimizer/internal/symbolic"
	"github.com/demandlab/price-optimizer/pkg/constants"
	"github.com/demandlab/price-optimizer/pkg/output"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// initializeLogger creates a zap logger based on configuration and CLI override
func initializeLogger(loggingConfig config.LoggingConfig, logLevelOverride string) (*zap.Logger, error) {
	// Determine log level (CLI override takes precedence)
	level := loggingConfig.Level
	if logLevelOverride != "" {
		level = logLevelOverride
	}
	if level == "" {
		level = "info"
	}

	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn", "warning":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	format := loggingConfig.Format
	if format == "" {
		format = "json"
	}

	var zapConfig zap.Config
	switch format {
	case "console":
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(zapLevel)
	case "json":
		zapConfig = zap.NewProductionConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(zapLevel)
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}

	// Configure output file if specified
	if loggingConfig.OutputFile != "" {
		if dir := filepath.Dir(loggingConfig.OutputFile); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create log directory %s: %v", dir, err)
			}
		}

		if file, err := os.OpenFile(loggingConfig.OutputFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %v", loggingConfig.OutputFile, err)
		} else {
			_ = file.Close()
		}

		zapConfig.OutputPaths = []string{loggingConfig.OutputFile}
		zapConfig.ErrorOutputPaths = []string{loggingConfig.OutputFile}
	}

	return zapConfig.Build()
}

func validateOutputFormat(format string) error {
	switch format {
	case constants.OutputFormatPretty, constants.OutputFormatCSV, constants.OutputFormatJSON:
		return nil
	default:
		return fmt.Errorf("invalid output format %q: must be one of %s, %s, %s",
			format, constants.OutputFormatPretty, constants.OutputFormatCSV, constants.OutputFormatJSON)
	}
}

func main() {
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	serve := flag.Bool("serve", false, "start the HTTP API instead of running a one-shot computation")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv, json")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	flag.Parse()

	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		return
	}

	logger, err := initializeLogger(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		return
	}
	defer func() {
		_ = logger.Sync()
	}()

	// Validate configuration and display any warnings
	warnings := conf.ValidateConfiguration()
	for _, warning := range warnings {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	if effective, err := yaml.Marshal(conf); err == nil {
		logger.Debug("effective configuration",
			zap.String("op", "main"),
			zap.String("configYaml", string(effective)),
		)
	}

	// Build the symbolic model eagerly so no request pays the
	// differentiation and solve cost, and concurrent first requests cannot
	// race on a partially-built model.
	model, err := symbolic.Shared()
	if err != nil {
		logger.Fatal("failed to build the symbolic profit model",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	if *serve {
		runServer(logger, conf, model)
		return
	}

	// Determine output format (CLI override takes precedence over config)
	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}

	if err := validateOutputFormat(outputFormat); err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	runOnce(logger, conf, model, outputFormat)
}

func runServer(logger *zap.Logger, conf *config.Configuration, model *symbolic.Model) {
	handler := server.NewHandler(logger, model, conf.Server.BodySizeBytes(), conf.Server.AllowedOrigins)

	srv := &http.Server{
		Addr:              conf.Server.Address,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("starting HTTP server",
		zap.String("op", "main"),
		zap.String("address", conf.Server.Address),
	)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("HTTP server failed",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
}

// runOnce computes the configured fit and/or optimization and prints the
// results. Feeding fitted parameters back into an optimization is left to
// the operator; the two computations are independent.
func runOnce(logger *zap.Logger, conf *config.Configuration, model *symbolic.Model, outputFormat string) {
	var fitResult *pricing.FitResult
	if len(conf.Observations) > 0 {
		var err error
		fitResult, err = pricing.Fit(logger, conf.Observations)
		if err != nil {
			logger.Fatal("failed to fit the demand model",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
	}

	var optResult *pricing.Result
	if conf.Model != nil {
		var err error
		optResult, err = pricing.Optimize(logger, model, *conf.Model)
		if err != nil {
			logger.Fatal("failed to optimize the price",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
	}

	if fitResult == nil && optResult == nil {
		logger.Fatal("nothing to compute: configure model parameters, observations, or run with -serve",
			zap.String("op", "main"),
		)
	}

	switch outputFormat {
	case constants.OutputFormatPretty:
		output.PrettyFormat(optResult, fitResult)
	case constants.OutputFormatCSV:
		output.CsvFormat(optResult, fitResult)
	case constants.OutputFormatJSON:
		rendered, err := output.JSONString(optResult, fitResult)
		if err != nil {
			logger.Fatal("failed to render JSON output",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
		fmt.Println(rendered)
	}
}
