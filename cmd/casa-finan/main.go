package main

import (
	"flag"
	"fmt"

	"github.com/haschdl/casa-finan/internal/config"
	"github.com/haschdl/casa-finan/internal/simulation"
	"github.com/haschdl/casa-finan/pkg/constants"
	"github.com/haschdl/casa-finan/pkg/output"
	"github.com/haschdl/casa-finan/pkg/validation"
	"go.uber.org/zap"
)

func main() {
	// Process command line flags first to get plan location
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to plan file")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	flag.Parse()

	// Load the plan file to get logging configuration
	plan, err := config.LoadPlan(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load plan at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		return
	}

	// Initialize logging based on plan settings and CLI override
	logger, err := plan.Logging.BuildLogger(*logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		return
	}
	defer func() {
		_ = logger.Sync()
	}()

	// Determine output format (CLI override takes precedence over plan)
	outputFormat := plan.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}

	err = validation.ValidateOutputFormat(outputFormat)
	if err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	plan.Normalize()

	if err := plan.Validate(); err != nil {
		logger.Fatal("invalid plan",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	// Surface the conditions the simulation tolerates but probably were not intended
	for _, warning := range plan.Warnings() {
		logger.Warn("Plan warning: "+warning,
			zap.String("op", "main"),
		)
	}

	if _, err := plan.StartTime(); err != nil {
		logger.Fatal("failed to parse plan start date",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	// Run the simulation to get the per-payer schedules.
	result, err := simulation.Run(logger, *plan)
	if err != nil {
		logger.Fatal("failed to compute schedules",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	// Handle output.
	switch outputFormat {
	case constants.OutputFormatPretty:
		output.PrettyFormat(result)
	case constants.OutputFormatCSV:
		output.CsvFormat(result)
	}
}
