package china

import (
	"github.com/finledger/pension-sim/internal/domain"
	"github.com/finledger/pension-sim/pkg/constants"
	"github.com/finledger/pension-sim/pkg/kernel"
	"github.com/finledger/pension-sim/pkg/mathutil"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Calculator implements the China urban-employee payroll + pension
// model (§4.3): a seven-step per-year payroll pass followed by the
// basic-pension/individual-account retirement formula.
type Calculator struct {
	logger *zap.Logger
}

// New builds a Calculator, defaulting logger to a no-op one as the
// teacher's processor constructors do.
func New(logger *zap.Logger) *Calculator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Calculator{logger: logger}
}

func (c *Calculator) CountryCode() string  { return "CN" }
func (c *Calculator) CurrencyCode() string { return "CNY" }

// RetirementAge resolves the statutory retirement age for p (§4.3 step
// 7, §9 civil-servant nuance: female civil servants retire at 60).
func (c *Calculator) RetirementAge(p domain.Person) int {
	return RetirementAge(string(p.Gender), p.Employment == domain.CivilServant)
}

// Calculate runs the full career simulation: a per-year payroll ledger
// from ContributionStartYear through retirement, then the basic-
// pension + individual-account formula, then a post-retirement payout
// schedule and the shared ROI/IRR/payback-age metrics.
func (c *Calculator) Calculate(p domain.Person, s domain.SalaryProfile, e domain.EconomicFactors) (domain.PensionResult, error) {
	retireAge := c.RetirementAge(p)
	retireYear := p.BirthYear + retireAge
	hfRate := DefaultHousingFundRate

	ledger := make([]domain.YearLedgerEntry, 0, retireYear-s.ContributionStartYear)
	pensionAccountBalance := decimal.Zero
	housingFundBalance := decimal.Zero

	var indexSum decimal.Decimal
	contributingYears := 0

	for year := s.ContributionStartYear; year < retireYear; year++ {
		yc, err := ConstantsAt(year, e.InflationRate)
		if err != nil {
			return domain.PensionResult{}, err
		}
		monthlyGross := decimal.NewFromFloat(s.MonthlySalaryAtYear(year))
		annualGross := monthlyGross.Mul(decimal.NewFromInt(constants.MonthsPerYear))

		siBase := clamp(monthlyGross, yc.AvgMonthlyWage.Mul(SIBaseLowerMultiple), yc.AvgMonthlyWage.Mul(SIBaseUpperMultiple))
		hfBase := clamp(monthlyGross, yc.HousingFundFloor, yc.HousingFundCeiling)

		employeeSI := domain.ContributionLines{
			Pension:      mathutil.RoundCents(siBase.Mul(EmployeePensionRate).Mul(decimal.NewFromInt(constants.MonthsPerYear))),
			Medical:      mathutil.RoundCents(siBase.Mul(EmployeeMedicalRate).Mul(decimal.NewFromInt(constants.MonthsPerYear))),
			Unemployment: mathutil.RoundCents(siBase.Mul(EmployeeUnemploymentRate).Mul(decimal.NewFromInt(constants.MonthsPerYear))),
			HousingFund:  mathutil.RoundCents(hfBase.Mul(hfRate).Mul(decimal.NewFromInt(constants.MonthsPerYear))),
		}
		employerSI := domain.ContributionLines{
			Pension:      mathutil.RoundCents(siBase.Mul(EmployerPensionRate).Mul(decimal.NewFromInt(constants.MonthsPerYear))),
			Medical:      mathutil.RoundCents(siBase.Mul(EmployerMedicalRate).Mul(decimal.NewFromInt(constants.MonthsPerYear))),
			Unemployment: mathutil.RoundCents(siBase.Mul(EmployerUnemploymentRate).Mul(decimal.NewFromInt(constants.MonthsPerYear))),
			HousingFund:  mathutil.RoundCents(hfBase.Mul(hfRate).Mul(decimal.NewFromInt(constants.MonthsPerYear))),
		}

		taxable := annualGross.Sub(BasicDeduction).Sub(employeeSI.Total())
		if taxable.IsNegative() {
			taxable = decimal.Zero
		}
		tax := mathutil.RoundCents(ComputeTax(taxable))
		net := annualGross.Sub(employeeSI.Total()).Sub(tax)

		pensionAccountBalance = pensionAccountBalance.Mul(decimal.NewFromFloat(1 + e.SocialSecurityReturnRate)).
			Add(siBase.Mul(EmployeePensionRate).Mul(decimal.NewFromInt(constants.MonthsPerYear)))
		housingFundBalance = housingFundBalance.Mul(decimal.NewFromFloat(1 + e.InvestmentReturnRate)).
			Add(employeeSI.HousingFund).Add(employerSI.HousingFund)

		indexSum = indexSum.Add(siBase.Div(yc.AvgMonthlyWage))
		contributingYears++

		ledger = append(ledger, domain.YearLedgerEntry{
			CalendarYear:      year,
			Age:               p.AgeAt(year),
			GrossSalary:       mathutil.RoundCents(annualGross),
			ContributionBase:  mathutil.RoundCents(siBase.Mul(decimal.NewFromInt(constants.MonthsPerYear))),
			EmployeeContrib:   employeeSI,
			EmployerContrib:   employerSI,
			TaxableIncome:     mathutil.RoundCents(taxable),
			Tax:               tax,
			Net:               mathutil.RoundCents(net),
			AccountBalances: map[string]decimal.Decimal{
				"individual_account": mathutil.RoundCents(pensionAccountBalance),
				"housing_fund":       mathutil.RoundCents(housingFundBalance),
			},
		})
	}

	retireConstants, err := ConstantsAt(retireYear, e.InflationRate)
	if err != nil {
		return domain.PensionResult{}, err
	}
	avgIndex := decimal.NewFromInt(1)
	if contributingYears > 0 {
		avgIndex = indexSum.Div(decimal.NewFromInt(int64(contributingYears)))
	}
	avgIndexedSalary := avgIndex.Mul(retireConstants.AvgMonthlyWage)

	basicPension := retireConstants.AvgMonthlyWage.Add(avgIndexedSalary).
		Div(decimal.NewFromInt(2)).
		Mul(decimal.NewFromInt(int64(contributingYears))).
		Mul(decimal.NewFromFloat(0.01))

	divisor := MonthsDivisor(retireAge)
	accountPension := pensionAccountBalance.Div(decimal.NewFromInt(int64(divisor)))

	monthlyPension := mathutil.RoundCents(basicPension.Add(accountPension))

	terminalAge := e.TerminalAgeOrDefault()
	schedule := domain.RetirementSchedule{}
	if housingFundBalance.IsPositive() {
		schedule.Payouts = append(schedule.Payouts, domain.MonthlyPayout{Age: retireAge, Month: 0, Amount: mathutil.RoundCents(housingFundBalance)})
	}
	for age := retireAge; age < terminalAge; age++ {
		for month := 1; month <= constants.MonthsPerYear; month++ {
			schedule.Payouts = append(schedule.Payouts, domain.MonthlyPayout{Age: age, Month: month, Amount: monthlyPension})
		}
	}

	totalEmployee, totalEmployer := decimal.Zero, decimal.Zero
	cashFlows := make([]float64, 0, len(ledger)+(terminalAge-retireAge))
	cumulativeContrib := make([]float64, 0)
	cumulativeBenefit := make([]float64, 0)
	ages := make([]int, 0)
	runningContrib, runningBenefit := 0.0, 0.0

	for _, entry := range ledger {
		totalEmployee = totalEmployee.Add(entry.EmployeeContrib.Total())
		totalEmployer = totalEmployer.Add(entry.EmployerContrib.Total())
		contribOutflow := entry.EmployeeContrib.Total()
		cashFlows = append(cashFlows, -contribOutflow.InexactFloat64())
		runningContrib += contribOutflow.InexactFloat64()
		ages = append(ages, entry.Age)
		cumulativeContrib = append(cumulativeContrib, runningContrib)
		cumulativeBenefit = append(cumulativeBenefit, runningBenefit)
	}
	for age := retireAge; age < terminalAge; age++ {
		annualBenefit := monthlyPension.Mul(decimal.NewFromInt(constants.MonthsPerYear))
		if age == retireAge {
			annualBenefit = annualBenefit.Add(housingFundBalance)
		}
		cashFlows = append(cashFlows, annualBenefit.InexactFloat64())
		runningBenefit += annualBenefit.InexactFloat64()
		ages = append(ages, age)
		cumulativeContrib = append(cumulativeContrib, runningContrib)
		cumulativeBenefit = append(cumulativeBenefit, runningBenefit)
	}

	totalBenefit := schedule.TotalBenefit()
	var roi *float64
	if totalEmployee.IsPositive() {
		r := totalBenefit.Sub(totalEmployee).Div(totalEmployee).InexactFloat64()
		roi = &r
	}

	irr, err := kernel.IRR(cashFlows)
	if err != nil {
		c.logger.Debug("irr did not resolve", zap.String("op", "china.calculate"), zap.Error(err))
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

	c.logger.Debug("china pension calculated",
		zap.String("op", "china.calculate"),
		zap.Int("retirement_age", retireAge),
		zap.String("monthly_pension", monthlyPension.String()),
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
