package taiwan

import (
	"github.com/finledger/pension-sim/internal/domain"
	"github.com/finledger/pension-sim/pkg/constants"
	"github.com/finledger/pension-sim/pkg/kernel"
	"github.com/finledger/pension-sim/pkg/mathutil"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Calculator implements Taiwan's labor-insurance payroll + pension
// model (§4.6): insured-salary-capped contributions, a marginal tax
// table with a labor-insurance deduction, and an earnings-related
// annuity paid for life from age 65.
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

func (c *Calculator) CountryCode() string             { return "TW" }
func (c *Calculator) CurrencyCode() string            { return "TWD" }
func (c *Calculator) RetirementAge(domain.Person) int { return RetirementAge }

func (c *Calculator) Calculate(p domain.Person, s domain.SalaryProfile, e domain.EconomicFactors) (domain.PensionResult, error) {
	retireYear := p.BirthYear + RetirementAge
	ledger := make([]domain.YearLedgerEntry, 0, retireYear-s.ContributionStartYear)

	insuredSalarySum := decimal.Zero
	years := 0

	for year := s.ContributionStartYear; year < retireYear; year++ {
		yc, err := ConstantsAt(year, e.InflationRate)
		if err != nil {
			return domain.PensionResult{}, err
		}
		monthlySalary := decimal.NewFromFloat(s.MonthlySalaryAtYear(year))
		insuredSalary := clamp(monthlySalary, yc.InsuredSalaryFloor, yc.InsuredSalaryCeiling)

		employeeContrib := mathutil.RoundCents(insuredSalary.Mul(decimal.NewFromFloat(EmployeeInsuranceRate)).Mul(decimal.NewFromInt(constants.MonthsPerYear)))
		employerContrib := mathutil.RoundCents(insuredSalary.Mul(decimal.NewFromFloat(EmployerInsuranceRate)).Mul(decimal.NewFromInt(constants.MonthsPerYear)))

		annualGross := monthlySalary.Mul(decimal.NewFromInt(constants.MonthsPerYear))
		laborInsuranceDeduction := decimal.Min(annualGross.Mul(yc.LaborInsuranceDeductionRate), yc.LaborInsuranceDeductionCap)
		taxable := annualGross.Sub(yc.BasicDeduction).Sub(laborInsuranceDeduction)
		if taxable.IsNegative() {
			taxable = decimal.Zero
		}
		tax := mathutil.RoundCents(ComputeTax(taxable, yc.TaxBrackets))
		net := annualGross.Sub(employeeContrib).Sub(tax)

		insuredSalarySum = insuredSalarySum.Add(insuredSalary)
		years++

		ledger = append(ledger, domain.YearLedgerEntry{
			CalendarYear:     year,
			Age:              p.AgeAt(year),
			GrossSalary:      mathutil.RoundCents(annualGross),
			ContributionBase: mathutil.RoundCents(insuredSalary.Mul(decimal.NewFromInt(constants.MonthsPerYear))),
			EmployeeContrib:  domain.ContributionLines{Pension: employeeContrib},
			EmployerContrib:  domain.ContributionLines{Pension: employerContrib},
			TaxableIncome:    mathutil.RoundCents(taxable),
			Tax:              tax,
			Net:              mathutil.RoundCents(net),
		})
	}

	avgInsuredSalary := decimal.Zero
	if years > 0 {
		avgInsuredSalary = insuredSalarySum.Div(decimal.NewFromInt(int64(years)))
	}
	monthlyPension := mathutil.RoundCents(
		avgInsuredSalary.Mul(decimal.NewFromInt(int64(years))).
			Mul(decimal.NewFromFloat(PensionAccrualRate)).
			Mul(decimal.NewFromFloat(PensionAdjustment)),
	)

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
		c.logger.Debug("irr did not resolve", zap.String("op", "taiwan.calculate"), zap.Error(err))
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

	c.logger.Debug("taiwan pension calculated", zap.String("op", "taiwan.calculate"), zap.String("monthly_pension", monthlyPension.String()))
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
