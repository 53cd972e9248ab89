package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "simulation.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	return path
}

func TestLoadSimulationRequest(t *testing.T) {
	yaml := `
person:
  birthyear: 1990
  gender: male
  employment: employee
  startworkyear: 2012
salary:
  monthlysalary: 15000
  annualgrowthrate: 0.03
  contributionstartyear: 2012
economics:
  inflationrate: 0.02
  investmentreturnrate: 0.05
  socialsecurityreturnrate: 0.04
  basecurrency: CNY
  displaycurrency: CNY
  terminalage: 90
countrycodes:
  - CN
  - SG
displaycurrency: USD
logging:
  level: info
output:
  format: pretty
`
	path := writeTempConfig(t, yaml)

	req, err := LoadSimulationRequest(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if req.Person.BirthYear != 1990 {
		t.Errorf("BirthYear = %d, want 1990", req.Person.BirthYear)
	}
	if req.Salary.MonthlySalary != 15000 {
		t.Errorf("MonthlySalary = %v, want 15000", req.Salary.MonthlySalary)
	}
	if len(req.CountryCodes) != 2 || req.CountryCodes[0] != "CN" {
		t.Errorf("CountryCodes = %v", req.CountryCodes)
	}
	if req.DisplayCurrency != "USD" {
		t.Errorf("DisplayCurrency = %q, want USD", req.DisplayCurrency)
	}
	if req.Output.Format != "pretty" {
		t.Errorf("Output.Format = %q, want pretty", req.Output.Format)
	}
}

func TestLoadSimulationRequestMissingFile(t *testing.T) {
	_, err := LoadSimulationRequest(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}
