// Package config defines the financing plan structures and includes functions
// for loading, normalizing, and validating plan files.
package config

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"time"

	"github.com/google/uuid"
	"github.com/haschdl/casa-finan/pkg/constants"
	"github.com/haschdl/casa-finan/pkg/datetime"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// StartDateLayout is the format expected for the plan start date.
const StartDateLayout = constants.StartDateLayout

// Plan holds all parameters of one financing simulation. The JSON tags
// mirror the YAML keys so the HTTP editor and the session store exchange
// plans under the same field names.
type Plan struct {
	TotalBalance       float64        `yaml:"totalBalance" json:"totalBalance"`
	AnnualInterestRate float64        `yaml:"annualInterestRate" json:"annualInterestRate"` // percent per year
	TermMonths         int            `yaml:"termMonths" json:"termMonths"`
	StartDate          string         `yaml:"startDate,omitempty" json:"startDate,omitempty"` // "2006-01-02"
	Payers             []Payer        `yaml:"payers" json:"payers"`
	ExtraPayments      []ExtraPayment `yaml:"extraPayments,omitempty" json:"extraPayments,omitempty"`
	Logging            LoggingConfig  `yaml:"logging,omitempty" json:"logging,omitempty"`
	Output             OutputConfig   `yaml:"output,omitempty" json:"output,omitempty"`
}

// Payer is one participant entry in the plan.
type Payer struct {
	ID          string  `yaml:"id,omitempty" json:"id,omitempty"`
	Name        string  `yaml:"name" json:"name"`
	DownPayment float64 `yaml:"downPayment" json:"downPayment"`
}

// ExtraPayment is one ad-hoc payment entry in the plan. A missing amount is
// preserved as nil so the engine can skip it rather than treating it as zero.
type ExtraPayment struct {
	Month  int      `yaml:"month" json:"month"`
	Payer  string   `yaml:"payer" json:"payer"`
	Amount *float64 `yaml:"amount,omitempty" json:"amount,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty" json:"level,omitempty"`           // debug, info, warn, error
	Format     string `yaml:"format,omitempty" json:"format,omitempty"`         // json, console
	OutputFile string `yaml:"outputFile,omitempty" json:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty" json:"format,omitempty"` // pretty, csv
}

// DefaultPlan returns the example plan used to seed new sessions and the web
// editor: three payers splitting 450000 at 7.5% over 120 months.
func DefaultPlan() *Plan {
	return &Plan{
		TotalBalance:       constants.DefaultTotalBalance,
		AnnualInterestRate: constants.DefaultAnnualInterestRate,
		TermMonths:         constants.DefaultTermMonths,
		Payers: []Payer{
			{Name: "Pagador 1", DownPayment: constants.DefaultDownPayment},
			{Name: "Pagador 2", DownPayment: constants.DefaultDownPayment},
			{Name: "Pagador 3", DownPayment: constants.DefaultDownPayment},
		},
		ExtraPayments: []ExtraPayment{
			{Month: 6, Payer: "Pagador 1", Amount: amount(10000)},
			{Month: 12, Payer: "Pagador 2", Amount: amount(20000)},
			{Month: 24, Payer: "Pagador 3", Amount: amount(30000)},
		},
	}
}

func amount(v float64) *float64 {
	return &v
}

// LoadPlan takes a file path as input and loads the YAML-formatted plan
// there. Environment variables override file values.
func LoadPlan(configPath string) (*Plan, error) {
	viper.SetConfigFile(configPath)
	viper.AutomaticEnv()

	viper.SetConfigType("yml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading plan file, %s", err)
	}

	var plan Plan
	err := viper.Unmarshal(&plan, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
		timeToStringHookFunc(),
	)))
	if err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	return &plan, nil
}

// timeToStringHookFunc restores the plain text form of unquoted dates, which
// the YAML parser resolves into time.Time before viper hands them to the
// decoder.
func timeToStringHookFunc() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if from == reflect.TypeOf(time.Time{}) && to.Kind() == reflect.String {
			return data.(time.Time).Format(constants.StartDateLayout), nil
		}
		return data, nil
	}
}

// LoadPlanFromReader parses a YAML plan from an in-memory source, used by the
// HTTP editor and upload endpoints.
func LoadPlanFromReader(r io.Reader) (*Plan, error) {
	var plan Plan
	if err := yaml.NewDecoder(r).Decode(&plan); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("plan is empty")
		}
		return nil, fmt.Errorf("unable to decode plan, %s", err)
	}
	return &plan, nil
}

// Normalize applies defaults and assigns stable payer IDs.
func (plan *Plan) Normalize() {
	plan.NormalizeWithFixedTime(time.Now())
}

// NormalizeWithFixedTime applies defaults with an injectable time for testing.
// An omitted start date defaults to the last day of the current month, and
// payers without an ID get a generated UUID so schedules stay keyed even when
// display names repeat.
func (plan *Plan) NormalizeWithFixedTime(fixedTime time.Time) {
	if plan.StartDate == "" {
		plan.StartDate = datetime.EndOfMonth(fixedTime).Format(StartDateLayout)
	}
	for i := range plan.Payers {
		if plan.Payers[i].ID == "" {
			plan.Payers[i].ID = uuid.NewString()
		}
	}
}

// StartTime parses the plan start date.
func (plan *Plan) StartTime() (time.Time, error) {
	t, err := time.Parse(StartDateLayout, plan.StartDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid start date %q: expected %s", plan.StartDate, StartDateLayout)
	}
	return t, nil
}
