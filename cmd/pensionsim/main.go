// Command pensionsim is the thin CLI collaborator for the retirement
// simulator: it parses a salary amount and a country-code set, runs
// the requested calculators through the analysis runner, and prints
// the results. It implements the flag/exit-code contract of spec.md §6,
// with the country set taken from --countries, plus the --config,
// --display-currency and --log-level flags — no report styling beyond
// what golang.org/x/text/message already gives pkg/output's
// pretty-printer.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/finledger/pension-sim/internal/calculators/china"
	"github.com/finledger/pension-sim/internal/calculators/japan"
	"github.com/finledger/pension-sim/internal/calculators/singapore"
	"github.com/finledger/pension-sim/internal/calculators/taiwan"
	"github.com/finledger/pension-sim/internal/calculators/uk"
	"github.com/finledger/pension-sim/internal/calculators/usa"
	"github.com/finledger/pension-sim/internal/config"
	"github.com/finledger/pension-sim/internal/domain"
	"github.com/finledger/pension-sim/internal/registry"
	"github.com/finledger/pension-sim/internal/runner"
	"github.com/finledger/pension-sim/pkg/calcerr"
	"github.com/finledger/pension-sim/pkg/constants"
	"github.com/finledger/pension-sim/pkg/currency"
	"github.com/finledger/pension-sim/pkg/output"
	"github.com/finledger/pension-sim/pkg/validation"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	exitSuccess           = 0
	exitParseError        = 2
	exitUnknownCountry    = 3
	exitUnexpectedFailure = 4
)

// initializeLogger builds a zap logger from config with a CLI override,
// mirroring the teacher's cmd/finance-forecast/main.go.
func initializeLogger(loggingConfig config.LoggingConfig, levelOverride string) (*zap.Logger, error) {
	level := loggingConfig.Level
	if levelOverride != "" {
		level = levelOverride
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

	var cfg zap.Config
	switch format {
	case "console":
		cfg = zap.NewDevelopmentConfig()
	case "json":
		cfg = zap.NewProductionConfig()
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)

	if loggingConfig.OutputFile != "" {
		cfg.OutputPaths = []string{loggingConfig.OutputFile}
		cfg.ErrorOutputPaths = []string{loggingConfig.OutputFile}
	}

	return cfg.Build()
}

func buildRegistry(logger *zap.Logger) (*registry.Registry, error) {
	reg := registry.New(logger)
	calculators := []registry.Calculator{
		china.New(logger),
		usa.New(logger),
		singapore.New(logger),
		taiwan.New(logger),
		japan.New(logger),
		uk.New(logger),
	}
	for _, c := range calculators {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

func defaultRequest() config.SimulationRequest {
	return config.SimulationRequest{
		Person: domain.Person{
			BirthYear:     1994,
			Gender:        domain.Male,
			Employment:    domain.Employee,
			StartWorkYear: 2024,
		},
		Salary: domain.SalaryProfile{
			AnnualGrowthRate:      0,
			ContributionStartYear: 2024,
		},
		Economics: domain.EconomicFactors{
			InflationRate:            0.02,
			InvestmentReturnRate:     0.05,
			SocialSecurityReturnRate: 0.04,
			TerminalAge:              constants.DefaultTerminalAge,
		},
		CountryCodes: []string{"CN", "US", "SG", "TW", "JP", "UK"},
		Output:       config.OutputConfig{Format: constants.OutputFormatPretty},
	}
}

func supportedCurrencySet() map[string]bool {
	set := make(map[string]bool, len(constants.SupportedCurrencies))
	for _, code := range constants.SupportedCurrencies {
		set[code] = true
	}
	return set
}

func fail(logger *zap.Logger, code int, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(os.Stderr, msg)
	if logger != nil {
		logger.Error(msg, zap.String("op", "main"))
	}
	os.Exit(code)
}

func main() {
	configPath := flag.String("config", "", "path to simulation-request YAML file (optional)")
	countriesFlag := flag.String("countries", "", "comma-separated country codes, e.g. CN,US,SG (overrides config)")
	displayCurrencyFlag := flag.String("display-currency", "", "convert headline numbers into this currency for comparison")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	annual := flag.Bool("annual", false, "print the year-by-year ledger alongside the pretty summary")
	listPlugins := flag.Bool("list-plugins", false, "list registered country codes and exit")
	testPlugins := flag.Bool("test-plugins", false, "run every registered calculator against a canned profile and exit")
	supportedCurrencies := flag.Bool("supported-currencies", false, "list supported currency codes and exit")
	flag.Parse()

	request := defaultRequest()
	if *configPath != "" {
		loaded, err := config.LoadSimulationRequest(*configPath)
		if err != nil {
			fail(nil, exitUnexpectedFailure, "failed to load configuration at %s: %v", *configPath, err)
		}
		request = *loaded
	}

	logger, err := initializeLogger(request.Logging, *logLevel)
	if err != nil {
		fail(nil, exitUnexpectedFailure, "failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	reg, err := buildRegistry(logger)
	if err != nil {
		fail(logger, exitUnexpectedFailure, "failed to build calculator registry: %v", err)
	}

	if *listPlugins {
		for _, code := range reg.ListCodes() {
			fmt.Println(code)
		}
		os.Exit(exitSuccess)
	}

	if *supportedCurrencies {
		for _, code := range constants.SupportedCurrencies {
			fmt.Println(code)
		}
		os.Exit(exitSuccess)
	}

	if *testPlugins {
		results := reg.SelfTest(request.Person, request.Salary, request.Economics)
		allPassed := true
		for _, r := range results {
			status := "PASS"
			if !r.Passed {
				status = "FAIL"
				allPassed = false
			}
			if r.Err != nil {
				fmt.Printf("%s: %s (%v)\n", r.CountryCode, status, r.Err)
			} else {
				fmt.Printf("%s: %s\n", r.CountryCode, status)
			}
		}
		if !allPassed {
			os.Exit(exitUnexpectedFailure)
		}
		os.Exit(exitSuccess)
	}

	if *countriesFlag != "" {
		request.CountryCodes = strings.Split(*countriesFlag, ",")
	}
	if *displayCurrencyFlag != "" {
		request.DisplayCurrency = *displayCurrencyFlag
	}

	args := flag.Args()
	if len(args) > 0 {
		amount, code, err := currency.ParseAmount(args[0])
		if err != nil {
			fail(logger, exitParseError, "cannot parse salary amount %q: %v", args[0], err)
		}
		request.Salary.MonthlySalary = amount
		request.Economics.BaseCurrency = code
	}
	if request.Economics.BaseCurrency == "" {
		request.Economics.BaseCurrency = "CNY"
	}
	if request.Economics.DisplayCurrency == "" {
		request.Economics.DisplayCurrency = request.Economics.BaseCurrency
	}

	if err := request.Person.Validate(); err != nil {
		fail(logger, exitUnexpectedFailure, "invalid person profile: %v", err)
	}
	if err := request.Salary.Validate(); err != nil {
		fail(logger, exitUnexpectedFailure, "invalid salary profile: %v", err)
	}
	if err := request.Economics.Validate(supportedCurrencySet()); err != nil {
		fail(logger, exitUnexpectedFailure, "invalid economic factors: %v", err)
	}
	if request.Output.Format == "" {
		request.Output.Format = constants.OutputFormatPretty
	}
	if err := validation.ValidateOutputFormat(request.Output.Format); err != nil {
		fail(logger, exitUnexpectedFailure, "invalid output format: %v", err)
	}

	cache := currency.NewCache("", logger)
	fetchers := []currency.Fetcher{
		currency.NewExchangeRateAPIFetcher(logger),
		currency.NewExchangeRatesAPIFetcher(logger),
	}
	converter := currency.NewConverter(cache, fetchers, request.Economics.BaseCurrency, logger)
	run := runner.New(reg, converter, logger)

	ctx := context.Background()
	countries := make([]runner.CountryResult, 0, len(request.CountryCodes))
	for _, code := range request.CountryCodes {
		calc, err := reg.Get(code)
		if err != nil {
			var unknown *calcerr.UnknownCountryError
			if errors.As(err, &unknown) {
				fail(logger, exitUnknownCountry, "unknown country %q, available: %v", unknown.Code, unknown.Available)
			}
			fail(logger, exitUnexpectedFailure, "%v", err)
		}

		countrySalary := request.Salary
		nativeSalary, convErr := currency.Convert(converter.Resolve(ctx), request.Salary.MonthlySalary, request.Economics.BaseCurrency, calc.CurrencyCode())
		if convErr == nil {
			countrySalary.MonthlySalary = nativeSalary
		}
		countryEconomics := request.Economics
		countryEconomics.BaseCurrency = calc.CurrencyCode()

		compare, err := run.Run(ctx, []string{code}, request.Person, countrySalary, countryEconomics, request.DisplayCurrency)
		if err != nil {
			fail(logger, exitUnexpectedFailure, "%v", err)
		}
		countries = append(countries, compare.Countries...)
	}

	compare := runner.CompareResult{Countries: countries}

	for _, cr := range compare.Countries {
		if request.Output.Format == constants.OutputFormatJSON {
			if err := output.JSON(os.Stdout, cr.Result, cr.Converted); err != nil {
				fail(logger, exitUnexpectedFailure, "failed to render JSON output: %v", err)
			}
		} else {
			output.Pretty(os.Stdout, cr.Result, cr.Converted, *annual)
		}
	}
	if len(compare.Countries) > 1 {
		output.PrettyComparison(os.Stdout, compare)
	}

	os.Exit(exitSuccess)
}
