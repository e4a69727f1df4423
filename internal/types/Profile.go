/*

This file contains the investor profile submitted with every diagnostic request.
The profile is immutable for the duration of a single diagnostic run.

*/

package types

import (
	"encoding/json"
	"fmt"
)

// Horizon is the investment horizon declared by the investor.
type Horizon string

const (
	HorizonShort  Horizon = "short"
	HorizonMedium Horizon = "medium"
	HorizonLong   Horizon = "long"
)

// RiskTolerance is the declared risk appetite. The three values map to the
// conservative / moderate / aggressive vocabulary used in user-facing copy.
type RiskTolerance string

const (
	RiskLow    RiskTolerance = "low"
	RiskMedium RiskTolerance = "medium"
	RiskHigh   RiskTolerance = "high"
)

// Objective is one investment goal. A profile carries a non-empty set of
// objectives (multi-select in the questionnaire).
type Objective string

const (
	ObjectivePreserve      Objective = "preserve"
	ObjectivePassiveIncome Objective = "passive_income"
	ObjectiveMultiply      Objective = "multiply"
)

// InvestorProfile is the answer set of the investor questionnaire.
type InvestorProfile struct {
	Horizon          Horizon       `json:"horizon"`
	RiskTolerance    RiskTolerance `json:"riskTolerance"`
	CryptoPercentage float64       `json:"cryptoPercentage"` // % of total net worth held in crypto
	Objectives       []Objective   `json:"objective"`
}

// HasObjective reports whether the given objective was selected.
func (p InvestorProfile) HasObjective(o Objective) bool {
	for _, candidate := range p.Objectives {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseHorizon validates and normalizes a raw horizon value. "mid" is accepted
// as a legacy alias of "medium".
func ParseHorizon(raw string) (Horizon, error) {
	switch raw {
	case "short":
		return HorizonShort, nil
	case "medium", "mid":
		return HorizonMedium, nil
	case "long":
		return HorizonLong, nil
	}
	return "", fmt.Errorf("unknown horizon %q", raw)
}

// ParseRiskTolerance validates and normalizes a raw risk tolerance value.
// The conservative/moderate/aggressive aliases are accepted.
func ParseRiskTolerance(raw string) (RiskTolerance, error) {
	switch raw {
	case "low", "conservative":
		return RiskLow, nil
	case "medium", "moderate":
		return RiskMedium, nil
	case "high", "aggressive":
		return RiskHigh, nil
	}
	return "", fmt.Errorf("unknown risk tolerance %q", raw)
}

// ParseObjective validates a raw objective value.
func ParseObjective(raw string) (Objective, error) {
	switch raw {
	case "preserve":
		return ObjectivePreserve, nil
	case "passive_income", "income":
		return ObjectivePassiveIncome, nil
	case "multiply":
		return ObjectiveMultiply, nil
	}
	return "", fmt.Errorf("unknown objective %q", raw)
}

// The enum types normalize their alias vocabularies while decoding. A value
// no parser recognizes is kept verbatim so request validation can report it
// with the offending field instead of a generic decode failure.

func (h *Horizon) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if parsed, err := ParseHorizon(raw); err == nil {
		*h = parsed
	} else {
		*h = Horizon(raw)
	}
	return nil
}

func (r *RiskTolerance) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if parsed, err := ParseRiskTolerance(raw); err == nil {
		*r = parsed
	} else {
		*r = RiskTolerance(raw)
	}
	return nil
}

func (o *Objective) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if parsed, err := ParseObjective(raw); err == nil {
		*o = parsed
	} else {
		*o = Objective(raw)
	}
	return nil
}
