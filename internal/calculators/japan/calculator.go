package japan

import (
	"github.com/finledger/pension-sim/internal/domain"
	"github.com/finledger/pension-sim/pkg/constants"
	"github.com/finledger/pension-sim/pkg/kernel"
	"github.com/finledger/pension-sim/pkg/mathutil"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Calculator implements Japan's kōsei nenkin + kokumin nenkin payroll
// and pension model (§4.6): salary-capped contributions, a marginal
// tax table with a pension deduction, and a two-tier retirement
// benefit paid for life from age 65.
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

func (c *Calculator) CountryCode() string             { return "JP" }
func (c *Calculator) CurrencyCode() string            { return "JPY" }
func (c *Calculator) RetirementAge(domain.Person) int { return RetirementAge }

func (c *Calculator) Calculate(p domain.Person, s domain.SalaryProfile, e domain.EconomicFactors) (domain.PensionResult, error) {
	retireYear := p.BirthYear + RetirementAge
	ledger := make([]domain.YearLedgerEntry, 0, retireYear-s.ContributionStartYear)

	salarySum := decimal.Zero
	years := 0

	for year := s.ContributionStartYear; year < retireYear; year++ {
		yc, err := ConstantsAt(year, e.InflationRate)
		if err != nil {
			return domain.PensionResult{}, err
		}
		monthlySalary := decimal.NewFromFloat(s.MonthlySalaryAtYear(year))
		pensionableSalary := clamp(monthlySalary, yc.MonthlySalaryFloor, yc.MonthlySalaryCeiling)

		employeeContrib := mathutil.RoundCents(pensionableSalary.Mul(decimal.NewFromFloat(EmployeePensionRate)).Mul(decimal.NewFromInt(constants.MonthsPerYear)))
		employerContrib := mathutil.RoundCents(pensionableSalary.Mul(decimal.NewFromFloat(EmployerPensionRate)).Mul(decimal.NewFromInt(constants.MonthsPerYear)))

		annualGross := monthlySalary.Mul(decimal.NewFromInt(constants.MonthsPerYear))
		pensionDeduction := decimal.Min(annualGross.Mul(yc.PensionDeductionRate), yc.PensionDeductionCap)
		taxable := annualGross.Sub(yc.BasicDeduction).Sub(pensionDeduction)
		if taxable.IsNegative() {
			taxable = decimal.Zero
		}
		tax := mathutil.RoundCents(ComputeTax(taxable, yc.TaxBrackets))
		net := annualGross.Sub(employeeContrib).Sub(tax)

		salarySum = salarySum.Add(pensionableSalary)
		years++

		ledger = append(ledger, domain.YearLedgerEntry{
			CalendarYear:     year,
			Age:              p.AgeAt(year),
			GrossSalary:      mathutil.RoundCents(annualGross),
			ContributionBase: mathutil.RoundCents(pensionableSalary.Mul(decimal.NewFromInt(constants.MonthsPerYear))),
			EmployeeContrib:  domain.ContributionLines{Pension: employeeContrib},
			EmployerContrib:  domain.ContributionLines{Pension: employerContrib},
			TaxableIncome:    mathutil.RoundCents(taxable),
			Tax:              tax,
			Net:              mathutil.RoundCents(net),
		})
	}

	avgMonthlySalary := decimal.Zero
	if years > 0 {
		avgMonthlySalary = salarySum.Div(decimal.NewFromInt(int64(years)))
	}
	employeePension := mathutil.RoundCents(avgMonthlySalary.Mul(decimal.NewFromInt(int64(years))).Mul(decimal.NewFromFloat(EmployeePensionAccrual)))

	retireConstants, err := ConstantsAt(retireYear, e.InflationRate)
	if err != nil {
		return domain.PensionResult{}, err
	}
	adjustment := decimal.NewFromInt(1)
	if years < NationalPensionFullYears {
		adjustment = decimal.NewFromInt(int64(years)).Div(decimal.NewFromInt(NationalPensionFullYears))
	}
	nationalPension := mathutil.RoundCents(retireConstants.NationalPensionBase.Mul(adjustment))

	monthlyPension := employeePension.Add(nationalPension)

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
		c.logger.Debug("irr did not resolve", zap.String("op", "japan.calculate"), zap.Error(err))
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

	c.logger.Debug("japan pension calculated",
		zap.String("op", "japan.calculate"),
		zap.String("national_pension", nationalPension.String()),
		zap.String("employee_pension", employeePension.String()),
	)
	return result, nil
}

func clamp(v, lo, hi decimal.Decimal) decimal.Decimal {
	if v.LessThan(lo) {
		return lo
	}
	if v.GreaterThan(hi) {
		return hi
	}
	return v
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
