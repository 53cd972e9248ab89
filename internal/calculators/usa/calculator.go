package usa

import (
	"github.com/finledger/pension-sim/internal/domain"
	"github.com/finledger/pension-sim/pkg/constants"
	"github.com/finledger/pension-sim/pkg/kernel"
	"github.com/finledger/pension-sim/pkg/mathutil"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Calculator implements the USA Social Security + 401(k) model (§4.4):
// FICA, a 401(k) employee/employer contribution pass with per-year IRS
// limits, federal income tax, and AIME/PIA Social Security benefits.
type Calculator struct {
	logger       *zap.Logger
	deferralRate float64
}

// Option configures a Calculator at construction time.
type Option func(*Calculator)

// WithDeferralRate overrides the default 401(k) employee deferral rate
// (§4.4 default 8%).
func WithDeferralRate(rate float64) Option {
	return func(c *Calculator) { c.deferralRate = rate }
}

// New builds a Calculator with the default 8% deferral rate unless
// overridden by an Option.
func New(logger *zap.Logger, opts ...Option) *Calculator {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Calculator{logger: logger, deferralRate: DefaultDeferralRate}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Calculator) CountryCode() string  { return "US" }
func (c *Calculator) CurrencyCode() string { return "USD" }

// RetirementAge is the default full retirement age (§4.4).
func (c *Calculator) RetirementAge(p domain.Person) int {
	return FullRetirementAge
}

// Calculate runs the full career simulation: a per-year FICA/401(k)/
// federal-tax payroll pass, then AIME/PIA Social Security and a
// 401(k) annuity distribution at retirement.
func (c *Calculator) Calculate(p domain.Person, s domain.SalaryProfile, e domain.EconomicFactors) (domain.PensionResult, error) {
	retireAge := c.RetirementAge(p)
	retireYear := p.BirthYear + retireAge

	ledger := make([]domain.YearLedgerEntry, 0, retireYear-s.ContributionStartYear)
	balance401k := decimal.Zero
	var indexedEarnings []decimal.Decimal

	for year := s.ContributionStartYear; year < retireYear; year++ {
		age := p.AgeAt(year)
		yc, err := ConstantsAt(year, e.InflationRate)
		if err != nil {
			return domain.PensionResult{}, err
		}
		annualGross := decimal.NewFromFloat(s.AnnualSalaryAtYear(year))

		ssWageBase := decimal.Min(annualGross, yc.SocialSecurityWageCap)
		employeeSS := mathutil.RoundCents(ssWageBase.Mul(decimal.NewFromFloat(SocialSecurityEmployeeRate)))
		employerSS := mathutil.RoundCents(ssWageBase.Mul(decimal.NewFromFloat(SocialSecurityEmployerRate)))

		employeeMedicare := mathutil.RoundCents(annualGross.Mul(decimal.NewFromFloat(MedicareRate)))
		employerMedicare := mathutil.RoundCents(annualGross.Mul(decimal.NewFromFloat(MedicareRate)))
		if annualGross.GreaterThan(yc.MedicareSurtaxThreshold) {
			surtaxBase := annualGross.Sub(yc.MedicareSurtaxThreshold)
			employeeMedicare = employeeMedicare.Add(mathutil.RoundCents(surtaxBase.Mul(decimal.NewFromFloat(AdditionalMedicareRate))))
		}

		deferralLimit := yc.ElectiveDeferralLimit.Add(yc.CatchUpAmount(age))
		desiredDeferral := annualGross.Mul(decimal.NewFromFloat(c.deferralRate))
		employeeDeferral := decimal.Min(desiredDeferral, deferralLimit)

		compForMatch := decimal.Min(annualGross, yc.CompensationCap)
		employerMatch := computeMatch(employeeDeferral, compForMatch, yc.MatchTiers)

		if employeeDeferral.Add(employerMatch).GreaterThan(yc.CombinedLimit415c) {
			employerMatch = decimal.Max(decimal.Zero, yc.CombinedLimit415c.Sub(employeeDeferral))
		}
		employeeDeferral = mathutil.RoundCents(employeeDeferral)
		employerMatch = mathutil.RoundCents(employerMatch)

		taxable := annualGross.Sub(yc.StandardDeduction).Sub(employeeDeferral)
		if taxable.IsNegative() {
			taxable = decimal.Zero
		}
		tax := mathutil.RoundCents(ComputeTax(taxable, yc.TaxBrackets))

		net := annualGross.Sub(employeeSS).Sub(employeeMedicare).Sub(employeeDeferral).Sub(tax)

		balance401k = balance401k.Mul(decimal.NewFromFloat(1 + e.InvestmentReturnRate)).
			Add(employeeDeferral).Add(employerMatch)

		indexedEarnings = append(indexedEarnings, decimal.Min(annualGross, yc.SocialSecurityWageCap))

		employeeContrib := domain.ContributionLines{Pension: employeeSS, Medical: employeeMedicare, Other: employeeDeferral}
		employerContrib := domain.ContributionLines{Pension: employerSS, Medical: employerMedicare, Other: employerMatch}

		ledger = append(ledger, domain.YearLedgerEntry{
			CalendarYear:     year,
			Age:              age,
			GrossSalary:      mathutil.RoundCents(annualGross),
			ContributionBase: mathutil.RoundCents(ssWageBase),
			EmployeeContrib:  employeeContrib,
			EmployerContrib:  employerContrib,
			TaxableIncome:    mathutil.RoundCents(taxable),
			Tax:              tax,
			Net:              mathutil.RoundCents(net),
			AccountBalances:  map[string]decimal.Decimal{"401k": mathutil.RoundCents(balance401k)},
		})
	}

	aime := computeAIME(indexedEarnings)
	pia := computePIA(aime)
	monthlyAnnuity401k := decimal.NewFromFloat(
		kernel.MonthlyAnnuity(balance401k.InexactFloat64(), DefaultAnnuityReturnRate, DefaultAnnuityMonths),
	)

	monthlyPension := mathutil.RoundCents(pia.Add(monthlyAnnuity401k))

	terminalAge := e.TerminalAgeOrDefault()
	schedule := domain.RetirementSchedule{}
	for age := retireAge; age < terminalAge; age++ {
		for month := 1; month <= constants.MonthsPerYear; month++ {
			schedule.Payouts = append(schedule.Payouts, domain.MonthlyPayout{Age: age, Month: month, Amount: monthlyPension})
		}
	}

	totalEmployee, totalEmployer := decimal.Zero, decimal.Zero
	cashFlows := make([]float64, 0, len(ledger)+(terminalAge-retireAge))
	cumulativeContrib, cumulativeBenefit := []float64{}, []float64{}
	ages := []int{}
	runningContrib, runningBenefit := 0.0, 0.0

	for _, entry := range ledger {
		totalEmployee = totalEmployee.Add(entry.EmployeeContrib.Total())
		totalEmployer = totalEmployer.Add(entry.EmployerContrib.Total())
		out := entry.EmployeeContrib.Total().InexactFloat64()
		cashFlows = append(cashFlows, -out)
		runningContrib += out
		ages = append(ages, entry.Age)
		cumulativeContrib = append(cumulativeContrib, runningContrib)
		cumulativeBenefit = append(cumulativeBenefit, runningBenefit)
	}
	for age := retireAge; age < terminalAge; age++ {
		annualBenefit := monthlyPension.Mul(decimal.NewFromInt(constants.MonthsPerYear)).InexactFloat64()
		cashFlows = append(cashFlows, annualBenefit)
		runningBenefit += annualBenefit
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
		c.logger.Debug("irr did not resolve", zap.String("op", "usa.calculate"), zap.Error(err))
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

	c.logger.Debug("usa pension calculated",
		zap.String("op", "usa.calculate"),
		zap.String("aime", aime.String()),
		zap.String("pia", pia.String()),
	)

	return result, nil
}

func computeMatch(employeeContrib, compForMatch decimal.Decimal, tiers []MatchTier) decimal.Decimal {
	match := decimal.Zero
	remaining := employeeContrib
	for _, tier := range tiers {
		tierWidth := compForMatch.Mul(tier.Limit)
		tierContribution := decimal.Min(remaining, tierWidth)
		if tierContribution.IsNegative() {
			tierContribution = decimal.Zero
		}
		match = match.Add(tierContribution.Mul(tier.Rate))
		remaining = remaining.Sub(tierContribution)
		if remaining.IsNegative() {
			remaining = decimal.Zero
		}
	}
	return match
}

// computeAIME averages the top 35 years of (capped) indexed annual
// earnings, converted to a monthly figure (§4.4).
func computeAIME(earnings []decimal.Decimal) decimal.Decimal {
	sorted := append([]decimal.Decimal(nil), earnings...)
	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			if sorted[j].GreaterThan(sorted[i]) {
				sorted[i], sorted[j] = sorted[j], sorted[i]
			}
		}
	}
	n := IndexedEarningsYears
	if len(sorted) < n {
		n = len(sorted)
	}
	total := decimal.Zero
	for i := 0; i < n; i++ {
		total = total.Add(sorted[i])
	}
	if total.IsZero() {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(int64(IndexedEarningsYears * 12)))
}

// computePIA applies the three-bend-point formula to AIME (§4.4).
func computePIA(aime decimal.Decimal) decimal.Decimal {
	switch {
	case aime.LessThanOrEqual(BendPoint1):
		return aime.Mul(BendRate1)
	case aime.LessThanOrEqual(BendPoint2):
		return BendPoint1.Mul(BendRate1).Add(aime.Sub(BendPoint1).Mul(BendRate2))
	default:
		return BendPoint1.Mul(BendRate1).
			Add(BendPoint2.Sub(BendPoint1).Mul(BendRate2)).
			Add(aime.Sub(BendPoint2).Mul(BendRate3))
	}
}
