package domain

import (
	"math"
	"testing"
)

func TestSalaryProfileValidate(t *testing.T) {
	tests := []struct {
		name    string
		profile SalaryProfile
		wantErr bool
	}{
		{"valid", SalaryProfile{MonthlySalary: 10000, AnnualGrowthRate: 0.03, ContributionStartYear: 2012}, false},
		{"negative salary", SalaryProfile{MonthlySalary: -1, ContributionStartYear: 2012}, true},
		{"missing contribution start year", SalaryProfile{MonthlySalary: 10000, ContributionStartYear: 0}, true},
		{"growth rate below -1", SalaryProfile{MonthlySalary: 10000, AnnualGrowthRate: -1.5, ContributionStartYear: 2012}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.profile.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMonthlySalaryAtYear(t *testing.T) {
	s := SalaryProfile{MonthlySalary: 10000, AnnualGrowthRate: 0.05, ContributionStartYear: 2020}
	got := s.MonthlySalaryAtYear(2022)
	want := 10000 * math.Pow(1.05, 2)
	if math.Abs(got-want) > 0.001 {
		t.Errorf("MonthlySalaryAtYear(2022) = %v, want %v", got, want)
	}
}

func TestAnnualSalaryAtYear(t *testing.T) {
	s := SalaryProfile{MonthlySalary: 10000, AnnualGrowthRate: 0, ContributionStartYear: 2020}
	if got := s.AnnualSalaryAtYear(2020); got != 120000 {
		t.Errorf("AnnualSalaryAtYear(2020) = %v, want 120000", got)
	}
}
