package singapore

import (
	"github.com/finledger/pension-sim/internal/domain"
	"github.com/finledger/pension-sim/pkg/constants"
	"github.com/finledger/pension-sim/pkg/kernel"
	"github.com/finledger/pension-sim/pkg/mathutil"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Calculator implements the four-account CPF model plus CPF LIFE
// (§4.5). It is the most event-driven of the calculators: the annual
// event order (contribute, allocate, BHS check, accrue interest, BHS
// check again) is fixed by spec and must run in that sequence.
type Calculator struct {
	logger   *zap.Logger
	cfg      Config
	raTarget RATargetType
	plan     LifePlan
}

// Option configures plan choices a member makes (§4.5: "member choice").
type Option func(*Calculator)

// WithRATarget selects the FRS/ERS/BRS sum used to form RA at 55.
func WithRATarget(t RATargetType) Option { return func(c *Calculator) { c.raTarget = t } }

// WithLifePlan selects the CPF LIFE payout plan from age 65.
func WithLifePlan(p LifePlan) Option { return func(c *Calculator) { c.plan = p } }

// WithConfig overrides the full rule configuration (§4.5 closing
// paragraph: every rate/schedule is configuration, not a literal).
func WithConfig(cfg Config) Option { return func(c *Calculator) { c.cfg = cfg } }

// New builds a Calculator defaulting to FRS/Standard-plan/2024 rules.
func New(logger *zap.Logger, opts ...Option) *Calculator {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Calculator{logger: logger, cfg: DefaultConfig(), raTarget: RATargetFRS, plan: LifeStandard}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Calculator) CountryCode() string  { return "SG" }
func (c *Calculator) CurrencyCode() string { return "SGD" }

// RetirementAge is the CPF LIFE payout start age (§4.5: age 65).
func (c *Calculator) RetirementAge(p domain.Person) int {
	return c.cfg.PayoutStartAge
}

// accounts holds the four CPF account balances carried across years.
type accounts struct {
	OA, SA, MA, RA decimal.Decimal
}

func (c *Calculator) Calculate(p domain.Person, s domain.SalaryProfile, e domain.EconomicFactors) (domain.PensionResult, error) {
	cfg := c.cfg
	workEndYear := p.BirthYear + cfg.PayoutStartAge

	acc := accounts{OA: decimal.Zero, SA: decimal.Zero, MA: decimal.Zero, RA: decimal.Zero}
	var lockedBHS decimal.Decimal
	bhsLocked := false
	raEstablished := false

	ledger := make([]domain.YearLedgerEntry, 0, workEndYear-s.ContributionStartYear)

	for year := s.ContributionStartYear; year < workEndYear; year++ {
		age := p.AgeAt(year)
		band := BandFor(age)

		if age >= cfg.RetirementAccountAge && !raEstablished {
			target := cfg.RATarget(year, c.raTarget)
			saToRA := decimal.Min(acc.SA, target)
			acc.RA = acc.RA.Add(saToRA)
			acc.SA = acc.SA.Sub(saToRA)
			remaining := target.Sub(acc.RA)
			if remaining.IsPositive() {
				oaToRA := decimal.Min(acc.OA, remaining)
				acc.RA = acc.RA.Add(oaToRA)
				acc.OA = acc.OA.Sub(oaToRA)
			}
			if acc.RA.GreaterThan(target) {
				acc.RA = target
			}
			raEstablished = true
		}

		monthlyWage := decimal.NewFromFloat(s.MonthlySalaryAtYear(year))
		cappedWage := decimal.Min(monthlyWage, cfg.MonthlyWageCeiling)
		totalRate := band.EmployeeRate.Add(band.EmployerRate)
		annualContribution := decimal.Min(cappedWage.Mul(decimal.NewFromInt(constants.MonthsPerYear)).Mul(totalRate), cfg.AnnualCPFLimit)
		employeeContribution := mathutil.RoundCents(cappedWage.Mul(decimal.NewFromInt(constants.MonthsPerYear)).Mul(band.EmployeeRate))
		employerContribution := mathutil.RoundCents(cappedWage.Mul(decimal.NewFromInt(constants.MonthsPerYear)).Mul(band.EmployerRate))

		oaAmt := annualContribution.Mul(band.OAAllocation)
		maAmt := annualContribution.Mul(band.MAAllocation)
		redirected := annualContribution.Mul(band.SAAllocation)

		acc.OA = acc.OA.Add(oaAmt)
		acc.MA = acc.MA.Add(maAmt)
		if age >= cfg.RetirementAccountAge && raEstablished {
			acc.RA = acc.RA.Add(redirected)
		} else {
			acc.SA = acc.SA.Add(redirected)
		}

		bhsLimit := c.bhsLimitFor(year, age, &lockedBHS, &bhsLocked)
		applyBHSOverflow(&acc, age, cfg.RetirementAccountAge, bhsLimit)

		acc.OA = acc.OA.Mul(decimal.NewFromInt(1).Add(cfg.OAInterestRate))
		acc.SA = acc.SA.Mul(decimal.NewFromInt(1).Add(cfg.SAInterestRate))
		acc.MA = acc.MA.Mul(decimal.NewFromInt(1).Add(cfg.MAInterestRate))
		if raEstablished {
			acc.RA = acc.RA.Mul(decimal.NewFromInt(1).Add(cfg.RAInterestRate))
		}

		applyBHSOverflow(&acc, age, cfg.RetirementAccountAge, bhsLimit)

		ledger = append(ledger, domain.YearLedgerEntry{
			CalendarYear:     year,
			Age:              age,
			GrossSalary:      mathutil.RoundCents(decimal.NewFromFloat(s.AnnualSalaryAtYear(year))),
			ContributionBase: mathutil.RoundCents(cappedWage.Mul(decimal.NewFromInt(constants.MonthsPerYear))),
			EmployeeContrib:  domain.ContributionLines{Pension: employeeContribution},
			EmployerContrib:  domain.ContributionLines{Pension: employerContribution},
			TaxableIncome:    decimal.Zero,
			Tax:              decimal.Zero,
			Net:              mathutil.RoundCents(decimal.NewFromFloat(s.AnnualSalaryAtYear(year)).Sub(employeeContribution)),
			AccountBalances: map[string]decimal.Decimal{
				"OA": mathutil.RoundCents(acc.OA),
				"SA": mathutil.RoundCents(acc.SA),
				"MA": mathutil.RoundCents(acc.MA),
				"RA": mathutil.RoundCents(acc.RA),
			},
		})
	}

	terminalAge := e.TerminalAgeOrDefault()
	schedule, monthlyPensionAtRetire := c.buildLifeSchedule(acc.RA, cfg.PayoutStartAge, terminalAge, cfg)

	totalEmployee, totalEmployer := decimal.Zero, decimal.Zero
	for _, entry := range ledger {
		totalEmployee = totalEmployee.Add(entry.EmployeeContrib.Total())
		totalEmployer = totalEmployer.Add(entry.EmployerContrib.Total())
	}

	cashFlows, ages, cumulativeContrib, cumulativeBenefit := buildCashFlows(ledger, schedule, cfg.PayoutStartAge, terminalAge)

	totalBenefit := schedule.TotalBenefit()
	var roi *float64
	if totalEmployee.IsPositive() {
		r := totalBenefit.Sub(totalEmployee).Div(totalEmployee).InexactFloat64()
		roi = &r
	}
	irr, err := kernel.IRR(cashFlows)
	if err != nil {
		c.logger.Debug("irr did not resolve", zap.String("op", "singapore.calculate"), zap.Error(err))
		irr = nil
	}
	paybackAge := kernel.PaybackAge(ages, cumulativeContrib, cumulativeBenefit)

	result := domain.PensionResult{
		CountryCode:            c.CountryCode(),
		Currency:               c.CurrencyCode(),
		MonthlyPensionAtRetire: monthlyPensionAtRetire,
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

	c.logger.Debug("singapore cpf calculated",
		zap.String("op", "singapore.calculate"),
		zap.String("plan", string(c.plan)),
		zap.String("ra_at_65", acc.RA.String()),
	)

	return result, nil
}

// bhsLimitFor resolves step 3's cohort-locking rule: before 65 the
// limit tracks the calendar year's BHS; at 65 it locks to that year's
// value for every subsequent year.
func (c *Calculator) bhsLimitFor(year, age int, locked *decimal.Decimal, isLocked *bool) decimal.Decimal {
	if *isLocked {
		return *locked
	}
	limit := c.cfg.BHSAt(year)
	if age >= c.cfg.PayoutStartAge {
		*locked = limit
		*isLocked = true
	}
	return limit
}

// applyBHSOverflow moves MA balance above bhsLimit into SA (under the
// RA formation age) or RA (at/after it), per §4.5 steps 3 and 5.
func applyBHSOverflow(acc *accounts, age, raAge int, bhsLimit decimal.Decimal) {
	if acc.MA.LessThanOrEqual(bhsLimit) {
		return
	}
	overflow := acc.MA.Sub(bhsLimit)
	if age < raAge {
		acc.SA = acc.SA.Add(overflow)
	} else {
		acc.RA = acc.RA.Add(overflow)
	}
	acc.MA = bhsLimit
}

// buildLifeSchedule constructs the post-65 payout schedule for the
// configured CPF LIFE plan (§4.5), returning the schedule and the
// first month's payout amount.
func (c *Calculator) buildLifeSchedule(raBalance decimal.Decimal, payoutAge, terminalAge int, cfg Config) (domain.RetirementSchedule, decimal.Decimal) {
	schedule := domain.RetirementSchedule{}
	months := (terminalAge - payoutAge) * constants.MonthsPerYear
	premiumRate := cfg.RAInterestRate.InexactFloat64()

	switch c.plan {
	case LifeEscalating:
		initial := kernel.EscalatingAnnuity(raBalance.InexactFloat64(), premiumRate, cfg.EscalationRate.InexactFloat64(), months)
		cohortPayment := decimal.NewFromFloat(initial)
		for m := 0; m < months; m++ {
			if m > 0 && m%12 == 0 {
				cohortPayment = cohortPayment.Mul(decimal.NewFromInt(1).Add(cfg.EscalationRate))
			}
			age := payoutAge + m/12
			month := m%12 + 1
			schedule.Payouts = append(schedule.Payouts, domain.MonthlyPayout{Age: age, Month: month, Amount: mathutil.RoundCents(cohortPayment)})
		}
		first := decimal.Zero
		if len(schedule.Payouts) > 0 {
			first = schedule.Payouts[0].Amount
		}
		return schedule, first

	case LifeBasic:
		poolBalance := raBalance.Mul(cfg.BasicPlanPremiumRatio)
		raRemainder := raBalance.Sub(poolBalance)
		phase1Months := (90 - payoutAge) * constants.MonthsPerYear
		monthlyFromRA := decimal.NewFromFloat(kernel.MonthlyAnnuity(raRemainder.InexactFloat64(), cfg.RAInterestRate.InexactFloat64(), phase1Months))

		monthlyFactor := decimal.NewFromInt(1).Add(cfg.RAInterestRate.Div(decimal.NewFromInt(constants.MonthsPerYear)))
		poolAt90 := poolBalance.Mul(monthlyFactor.Pow(decimal.NewFromInt(int64(phase1Months))))

		phase2Months := months - phase1Months
		monthlyFromPool := decimal.Zero
		if phase2Months > 0 {
			monthlyFromPool = decimal.NewFromFloat(kernel.MonthlyAnnuity(poolAt90.InexactFloat64(), premiumRate, phase2Months))
		}

		for m := 0; m < months; m++ {
			age := payoutAge + m/12
			month := m%12 + 1
			amount := monthlyFromRA
			if m >= phase1Months {
				amount = monthlyFromPool
			}
			schedule.Payouts = append(schedule.Payouts, domain.MonthlyPayout{Age: age, Month: month, Amount: mathutil.RoundCents(amount)})
		}
		return schedule, mathutil.RoundCents(monthlyFromRA)

	default: // LifeStandard
		monthly := decimal.NewFromFloat(kernel.MonthlyAnnuity(raBalance.InexactFloat64(), premiumRate, months))
		for m := 0; m < months; m++ {
			age := payoutAge + m/12
			month := m%12 + 1
			schedule.Payouts = append(schedule.Payouts, domain.MonthlyPayout{Age: age, Month: month, Amount: mathutil.RoundCents(monthly)})
		}
		return schedule, mathutil.RoundCents(monthly)
	}
}

func buildCashFlows(ledger []domain.YearLedgerEntry, schedule domain.RetirementSchedule, payoutAge, terminalAge int) ([]float64, []int, []float64, []float64) {
	cashFlows := make([]float64, 0, len(ledger)+(terminalAge-payoutAge))
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

	annualByAge := map[int]float64{}
	for _, payout := range schedule.Payouts {
		annualByAge[payout.Age] += payout.Amount.InexactFloat64()
	}
	for age := payoutAge; age < terminalAge; age++ {
		amount := annualByAge[age]
		cashFlows = append(cashFlows, amount)
		runningBenefit += amount
		ages = append(ages, age)
		cumulativeContrib = append(cumulativeContrib, runningContrib)
		cumulativeBenefit = append(cumulativeBenefit, runningBenefit)
	}
	return cashFlows, ages, cumulativeContrib, cumulativeBenefit
}
