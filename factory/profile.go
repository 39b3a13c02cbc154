/*
Package factory provides category-profile configuration.

PURPOSE:
  Converts YAML profile definitions into lifecycle.CategoryProfile values
  and ships the built-in defaults. This keeps every per-category rule -
  notice periods, probation, required documents, platforms, compensation
  bounds - out of the engine code, so HR can tune them without a deploy.

YAML SCHEMA:
  profiles:
    - category: full_time
      display_name: Full Time Employee
      probation_months: 3
      notice_probation_days: 15
      notice_confirmed_days: 30
      bgv_required: true
      leave_benefits: true
      gratuity: true
      compensation: salary
      min_compensation: "100000"
      required_documents: [ ... ]
      platforms: [Gmail, Slack, ...]

  A file only overrides the categories it names; unnamed categories keep
  their built-in defaults.

USAGE:
  provider := factory.Defaults()
  provider, err := factory.LoadFile("profiles.yaml")
  engine := lifecycle.NewEngine(uow, provider)

SEE ALSO:
  - lifecycle/config.go: CategoryProfile and the ConfigProvider port
*/
package factory

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/rapidhr/lifecycle-engine/lifecycle"
)

// =============================================================================
// PROVIDER
// =============================================================================

// Provider is a static map-backed lifecycle.ConfigProvider.
type Provider struct {
	profiles map[lifecycle.Category]lifecycle.CategoryProfile
}

// Profile implements lifecycle.ConfigProvider.
func (p *Provider) Profile(c lifecycle.Category) (lifecycle.CategoryProfile, error) {
	profile, ok := p.profiles[c]
	if !ok {
		return lifecycle.CategoryProfile{}, &lifecycle.ValidationError{
			Field:  "category",
			Reason: "no profile configured for category: " + string(c),
		}
	}
	return profile, nil
}

// =============================================================================
// BUILT-IN DEFAULTS
// =============================================================================

// Defaults returns the built-in category profiles.
func Defaults() *Provider {
	return &Provider{profiles: map[lifecycle.Category]lifecycle.CategoryProfile{
		lifecycle.CategoryFullTime: {
			Category:            lifecycle.CategoryFullTime,
			DisplayName:         "Full Time Employee",
			ProbationMonths:     3,
			NoticeProbationDays: 15,
			NoticeConfirmedDays: 30,
			BGVRequired:         true,
			RequiredDocuments: []string{
				"10th Certificate",
				"12th Certificate",
				"Graduation Certificate",
				"Post Graduation Certificate (if applicable)",
				"Aadhaar Card",
				"PAN Card",
				"Previous Employment - Appointment Letter",
				"Previous Employment - Relieving Letter",
				"Previous Employment - Last 3 Salary Slips",
				"Previous Employment - Experience Letter",
				"Passport Size Photograph",
			},
			Platforms:        []string{"Gmail", "Slack", "TeamLogger", "Google Drive", "Jira"},
			LeaveBenefits:    true,
			Gratuity:         true,
			CompensationKind: lifecycle.CompSalary,
			MinCompensation:  decimal.NewFromInt(100000),
		},
		lifecycle.CategoryIntern: {
			Category:            lifecycle.CategoryIntern,
			DisplayName:         "Intern",
			ProbationMonths:     0,
			NoticeProbationDays: 7,
			NoticeConfirmedDays: 7,
			BGVRequired:         false,
			RequiredDocuments: []string{
				"10th Certificate",
				"12th Certificate",
				"Graduation Certificate",
				"Post Graduation Certificate (if applicable)",
				"Aadhaar Card",
				"PAN Card",
				"Passport Size Photograph",
			},
			Platforms:        []string{"Gmail", "Slack"},
			CompensationKind: lifecycle.CompStipend,
			MinCompensation:  decimal.NewFromInt(5000),
			MaxCompensation:  decimal.NewFromInt(50000),
			MinTenureMonths:  3,
			MaxTenureMonths:  6,
		},
		lifecycle.CategoryContractor: {
			Category:            lifecycle.CategoryContractor,
			DisplayName:         "Contractor",
			ProbationMonths:     1,
			NoticeProbationDays: 7,
			NoticeConfirmedDays: 7,
			BGVRequired:         false,
			RequiredDocuments: []string{
				"Aadhaar Card",
				"PAN Card",
				"GST Certificate (if applicable)",
				"Previous Work Samples",
				"Passport Size Photograph",
			},
			Platforms:        []string{"Gmail", "Slack", "TeamLogger"},
			CompensationKind: lifecycle.CompHourly,
			MinCompensation:  decimal.NewFromInt(100),
			MaxCompensation:  decimal.NewFromInt(5000),
		},
	}}
}

// =============================================================================
// YAML LOADING
// =============================================================================

// profileYAML is the file representation of one category profile.
type profileYAML struct {
	Category            string   `yaml:"category"`
	DisplayName         string   `yaml:"display_name"`
	ProbationMonths     int      `yaml:"probation_months"`
	NoticeProbationDays int      `yaml:"notice_probation_days"`
	NoticeConfirmedDays int      `yaml:"notice_confirmed_days"`
	BGVRequired         bool     `yaml:"bgv_required"`
	RequiredDocuments   []string `yaml:"required_documents"`
	Platforms           []string `yaml:"platforms"`
	LeaveBenefits       bool     `yaml:"leave_benefits"`
	Gratuity            bool     `yaml:"gratuity"`
	Compensation        string   `yaml:"compensation"` // salary | stipend | hourly
	MinCompensation     string   `yaml:"min_compensation"`
	MaxCompensation     string   `yaml:"max_compensation"`
	MinTenureMonths     int      `yaml:"min_tenure_months"`
	MaxTenureMonths     int      `yaml:"max_tenure_months"`
}

type fileYAML struct {
	Profiles []profileYAML `yaml:"profiles"`
}

// LoadFile reads a YAML profile file and overlays it on the defaults.
// Categories absent from the file keep their built-in profile.
func LoadFile(path string) (*Provider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profiles: %w", err)
	}
	return Parse(data)
}

// Parse overlays YAML profile definitions on the defaults.
func Parse(data []byte) (*Provider, error) {
	var f fileYAML
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse profiles: %w", err)
	}

	provider := Defaults()
	for _, py := range f.Profiles {
		profile, err := fromYAML(py)
		if err != nil {
			return nil, err
		}
		provider.profiles[profile.Category] = profile
	}
	return provider, nil
}

func fromYAML(py profileYAML) (lifecycle.CategoryProfile, error) {
	category, err := lifecycle.ParseCategory(py.Category)
	if err != nil {
		return lifecycle.CategoryProfile{}, err
	}
	kind, err := parseCompensationKind(py.Compensation)
	if err != nil {
		return lifecycle.CategoryProfile{}, err
	}

	minComp, err := parseAmount(py.MinCompensation)
	if err != nil {
		return lifecycle.CategoryProfile{}, fmt.Errorf("profile %s: min_compensation: %w", py.Category, err)
	}
	maxComp, err := parseAmount(py.MaxCompensation)
	if err != nil {
		return lifecycle.CategoryProfile{}, fmt.Errorf("profile %s: max_compensation: %w", py.Category, err)
	}

	return lifecycle.CategoryProfile{
		Category:            category,
		DisplayName:         py.DisplayName,
		ProbationMonths:     py.ProbationMonths,
		NoticeProbationDays: py.NoticeProbationDays,
		NoticeConfirmedDays: py.NoticeConfirmedDays,
		BGVRequired:         py.BGVRequired,
		RequiredDocuments:   py.RequiredDocuments,
		Platforms:           py.Platforms,
		LeaveBenefits:       py.LeaveBenefits,
		Gratuity:            py.Gratuity,
		CompensationKind:    kind,
		MinCompensation:     minComp,
		MaxCompensation:     maxComp,
		MinTenureMonths:     py.MinTenureMonths,
		MaxTenureMonths:     py.MaxTenureMonths,
	}, nil
}

func parseCompensationKind(s string) (lifecycle.CompensationKind, error) {
	switch lifecycle.CompensationKind(s) {
	case lifecycle.CompSalary, lifecycle.CompStipend, lifecycle.CompHourly:
		return lifecycle.CompensationKind(s), nil
	default:
		return "", &lifecycle.ValidationError{Field: "compensation", Reason: "unknown compensation kind: " + s}
	}
}

func parseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
