package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rakhadi/utangku/internal/config"
	"github.com/rakhadi/utangku/internal/domain"
	"github.com/rakhadi/utangku/internal/projection"
	"github.com/rakhadi/utangku/internal/schedule"
	"github.com/rakhadi/utangku/internal/simulator"
	"github.com/rakhadi/utangku/pkg/constants"
	"github.com/rakhadi/utangku/pkg/output"
	"go.uber.org/zap"
)

func main() {
	// Process command line flags first to get config location
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	action := flag.String("action", "projection", "what to compute: projection, compare, schedule, simulate")

	debtName := flag.String("debt", "", "debt name for -action schedule (defaults to the first configured debt)")
	extraPayment := flag.Float64("extra", 0, "extra monthly payment for projection and compare")

	assetPrice := flag.Float64("asset-price", 0, "asset price for -action simulate")
	downPayment := flag.Float64("down-payment", 0, "down payment percent for -action simulate")
	interestRate := flag.Float64("interest-rate", 0, "annual interest rate percent for -action simulate")
	tenorYears := flag.Int("tenor-years", 0, "loan tenor in years for -action simulate")
	loanType := flag.String("loan-type", string(domain.CategoryMortgage), "loan category for -action simulate")
	monthlyIncome := flag.Float64("income", 0, "monthly income for the DSR check in -action simulate")
	flag.Parse()

	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}

	logger, err := config.BuildLogger(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// Determine output format (CLI override takes precedence over config)
	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}
	if outputFormat != constants.OutputFormatPretty && outputFormat != constants.OutputFormatCSV {
		logger.Fatal("invalid output format, expected pretty or csv",
			zap.String("op", "main"),
			zap.String("outputFormat", outputFormat),
		)
	}

	debts, err := conf.DebtItems()
	if err != nil {
		logger.Fatal("failed to parse configured debts",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	now := time.Now()
	switch *action {
	case "projection":
		projector := projection.NewProjector(logger)
		result := projector.Project(debts, projection.Input{
			ExtraMonthlyPayment:  *extraPayment,
			Strategy:             conf.Projection.Strategy,
			Mode:                 conf.Projection.Mode,
			InvestmentReturnRate: conf.Projection.InvestmentReturnRate,
		}, now)
		switch outputFormat {
		case constants.OutputFormatPretty:
			output.PrettyFormatProjection(os.Stdout, result)
		case constants.OutputFormatCSV:
			output.CsvFormatProjection(os.Stdout, result)
		}

	case "compare":
		projector := projection.NewProjector(logger)
		comparison := projector.Compare(debts, *extraPayment, now)
		fmt.Printf("snowball:  debt free in %d months\n", comparison.Snowball.AcceleratedMonths)
		fmt.Printf("avalanche: debt free in %d months\n", comparison.Avalanche.AcceleratedMonths)
		fmt.Printf("recommended: %s (%d months, %s ahead of the alternative)\n",
			comparison.Recommended, comparison.MonthsSaved, output.FormatRupiah(comparison.MoneySaved))

	case "schedule":
		debt := pickDebt(debts, *debtName)
		if debt == nil {
			logger.Fatal("no configured debt matches",
				zap.String("op", "main"),
				zap.String("debt", *debtName),
			)
		}
		generator := schedule.NewGenerator(logger)
		installments := generator.Generate(debt, nil, false, now)
		switch outputFormat {
		case constants.OutputFormatPretty:
			output.PrettyFormatSchedule(os.Stdout, debt.Name, installments, schedule.Summarize(installments))
		case constants.OutputFormatCSV:
			output.CsvFormatSchedule(os.Stdout, installments)
		}

	case "simulate":
		category := domain.LoanCategory(*loanType)
		sim := simulator.NewSimulator(logger)
		result := sim.Simulate(simulator.Input{
			AssetPrice:         *assetPrice,
			DownPaymentPercent: *downPayment,
			InterestRate:       *interestRate,
			TenorYears:         *tenorYears,
			LoanType:           category,
			MonthlyIncome:      *monthlyIncome,
		}, conf.FeesFor(category), conf.Simulator.DSRThreshold, 0)
		output.PrettyFormatSimulation(os.Stdout, result)

	default:
		logger.Fatal("unknown action, expected projection, compare, schedule, or simulate",
			zap.String("op", "main"),
			zap.String("action", *action),
		)
	}
}

func pickDebt(debts []domain.DebtItem, name string) *domain.DebtItem {
	if len(debts) == 0 {
		return nil
	}
	if name == "" {
		return &debts[0]
	}
	for i := range debts {
		if debts[i].Name == name {
			return &debts[i]
		}
	}
	return nil
}
