package uk

import (
	"github.com/finledger/pension-sim/internal/domain"
	"github.com/finledger/pension-sim/pkg/constants"
	"github.com/finledger/pension-sim/pkg/kernel"
	"github.com/finledger/pension-sim/pkg/mathutil"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Calculator implements the UK National Insurance + State Pension
// payroll and pension model (§4.6): a banded NI contribution, a
// marginal tax table applied after the personal allowance and NI
// deduction, and a flat years-of-service state pension paid for life
// from age 66.
type Calculator struct {
	logger *zap.Logger
}

// New builds a Calculator, defaulting logger to a no-op one.
func New(logger *zap.Logger) *Calculator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Calculator{logger: logger}
}

func (c *Calculator) CountryCode() string             { return "UK" }
func (c *Calculator) CurrencyCode() string            { return "GBP" }
func (c *Calculator) RetirementAge(domain.Person) int { return RetirementAge }

func (c *Calculator) Calculate(p domain.Person, s domain.SalaryProfile, e domain.EconomicFactors) (domain.PensionResult, error) {
	retireYear := p.BirthYear + RetirementAge
	ledger := make([]domain.YearLedgerEntry, 0, retireYear-s.ContributionStartYear)

	years := 0

	for year := s.ContributionStartYear; year < retireYear; year++ {
		yc, err := ConstantsAt(year, e.InflationRate)
		if err != nil {
			return domain.PensionResult{}, err
		}
		monthlySalary := decimal.NewFromFloat(s.MonthlySalaryAtYear(year))
		annualGross := monthlySalary.Mul(decimal.NewFromInt(constants.MonthsPerYear))

		niBand := niBandWidth(annualGross, yc.NIThreshold, yc.NIUpper)
		employeeContrib := mathutil.RoundCents(niBand.Mul(decimal.NewFromFloat(EmployeeNIRate)))
		employerContrib := mathutil.RoundCents(niBand.Mul(decimal.NewFromFloat(EmployerNIRate)))

		niDeduction := decimal.Min(annualGross.Mul(decimal.NewFromFloat(NIDeductionRate)), yc.NIDeductionCap)
		taxable := annualGross.Sub(yc.PersonalAllowance).Sub(niDeduction)
		if taxable.IsNegative() {
			taxable = decimal.Zero
		}
		tax := mathutil.RoundCents(ComputeTax(taxable, yc.TaxBrackets))
		net := annualGross.Sub(employeeContrib).Sub(tax)

		years++

		ledger = append(ledger, domain.YearLedgerEntry{
			CalendarYear:     year,
			Age:              p.AgeAt(year),
			GrossSalary:      mathutil.RoundCents(annualGross),
			ContributionBase: mathutil.RoundCents(niBand),
			EmployeeContrib:  domain.ContributionLines{Pension: employeeContrib},
			EmployerContrib:  domain.ContributionLines{Pension: employerContrib},
			TaxableIncome:    mathutil.RoundCents(taxable),
			Tax:              tax,
			Net:              mathutil.RoundCents(net),
		})
	}

	retireConstants, err := ConstantsAt(retireYear, e.InflationRate)
	if err != nil {
		return domain.PensionResult{}, err
	}
	adjustment := decimal.NewFromInt(1)
	if years < RequiredPensionYears {
		adjustment = decimal.NewFromInt(int64(years)).Div(decimal.NewFromInt(RequiredPensionYears))
	}
	fullMonthly := retireConstants.FullStatePensionWeekly.Mul(decimal.NewFromInt(52)).Div(decimal.NewFromInt(constants.MonthsPerYear))
	monthlyPension := mathutil.RoundCents(fullMonthly.Mul(adjustment))

	terminalAge := e.TerminalAgeOrDefault()
	schedule := buildLevelSchedule(monthlyPension, RetirementAge, terminalAge)

	totalEmployee, totalEmployer := decimal.Zero, decimal.Zero
	for _, entry := range ledger {
		totalEmployee = totalEmployee.Add(entry.EmployeeContrib.Total())
		totalEmployer = totalEmployer.Add(entry.EmployerContrib.Total())
	}

	cashFlows, ages, cumulativeContrib, cumulativeBenefit := buildCashFlows(ledger, monthlyPension, RetirementAge, terminalAge)
	totalBenefit := schedule.TotalBenefit()

	var roi *float64
	if totalEmployee.IsPositive() {
		r := totalBenefit.Sub(totalEmployee).Div(totalEmployee).InexactFloat64()
		roi = &r
	}
	irr, err := kernel.IRR(cashFlows)
	if err != nil {
		c.logger.Debug("irr did not resolve", zap.String("op", "uk.calculate"), zap.Error(err))
		irr = nil
	}
	paybackAge := kernel.PaybackAge(ages, cumulativeContrib, cumulativeBenefit)

	result := domain.PensionResult{
		CountryCode:            c.CountryCode(),
		Currency:               c.CurrencyCode(),
		MonthlyPensionAtRetire: monthlyPension,
		TotalEmployeeContrib:   mathutil.RoundCents(totalEmployee),
		TotalEmployerContrib:   mathutil.RoundCents(totalEmployer),
		TotalContribCombined:   mathutil.RoundCents(totalEmployee.Add(totalEmployer)),
		TotalBenefit:           mathutil.RoundCents(totalBenefit),
		ROI:                    roi,
		IRR:                    irr,
		PaybackAge:             paybackAge,
		Ledger:                 ledger,
		Schedule:               schedule,
	}

	c.logger.Debug("uk pension calculated", zap.String("op", "uk.calculate"), zap.String("monthly_pension", monthlyPension.String()))
	return result, nil
}

// niBandWidth is the portion of annualGross that falls within the NI
// primary threshold and upper earnings limit: zero below the
// threshold, the full band above the upper limit.
func niBandWidth(annualGross, threshold, upper decimal.Decimal) decimal.Decimal {
	if annualGross.LessThanOrEqual(threshold) {
		return decimal.Zero
	}
	if annualGross.LessThanOrEqual(upper) {
		return annualGross.Sub(threshold)
	}
	return upper.Sub(threshold)
}

func buildLevelSchedule(monthly decimal.Decimal, retireAge, terminalAge int) domain.RetirementSchedule {
	schedule := domain.RetirementSchedule{}
	for age := retireAge; age < terminalAge; age++ {
		for month := 1; month <= constants.MonthsPerYear; month++ {
			schedule.Payouts = append(schedule.Payouts, domain.MonthlyPayout{Age: age, Month: month, Amount: monthly})
		}
	}
	return schedule
}

func buildCashFlows(ledger []domain.YearLedgerEntry, monthlyPension decimal.Decimal, retireAge, terminalAge int) ([]float64, []int, []float64, []float64) {
	cashFlows := make([]float64, 0, len(ledger)+(terminalAge-retireAge))
	ages := make([]int, 0)
	cumulativeContrib := make([]float64, 0)
	cumulativeBenefit := make([]float64, 0)
	runningContrib, runningBenefit := 0.0, 0.0

	for _, entry := range ledger {
		out := entry.EmployeeContrib.Total().InexactFloat64()
		cashFlows = append(cashFlows, -out)
		runningContrib += out
		ages = append(ages, entry.Age)
		cumulativeContrib = append(cumulativeContrib, runningContrib)
		cumulativeBenefit = append(cumulativeBenefit, runningBenefit)
	}
	annual := monthlyPension.Mul(decimal.NewFromInt(constants.MonthsPerYear)).InexactFloat64()
	for age := retireAge; age < terminalAge; age++ {
		cashFlows = append(cashFlows, annual)
		runningBenefit += annual
		ages = append(ages, age)
		cumulativeContrib = append(cumulativeContrib, runningContrib)
		cumulativeBenefit = append(cumulativeBenefit, runningBenefit)
	}
	return cashFlows, ages, cumulativeContrib, cumulativeBenefit
}
