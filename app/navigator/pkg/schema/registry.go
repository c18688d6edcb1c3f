package schema

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// ValidationError reports a parsed artifact that does not satisfy its declared
// contract. It is distinct from transport or parse failures: by the time it is
// raised the payload was already valid JSON.
type ValidationError struct {
	Artifact string
	Field    string
	Message  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("schema validation failed [%s.%s]: %s", e.Artifact, e.Field, e.Message)
}

var mbtiPattern = regexp.MustCompile(`^[IE][NS][TF][JP]$`)

// riskTolerances is the closed enum for PersonaProfile.RiskTolerance.
var riskTolerances = map[string]bool{"Low": true, "Medium": true, "High": true}

// ValidatePersonalInfo checks the request-side input contract.
func ValidatePersonalInfo(p *PersonalInfo) error {
	if p.Gender == "" {
		return &ValidationError{Artifact: "PersonalInfo", Field: "gender", Message: "required field missing"}
	}
	if p.Age <= 0 {
		return &ValidationError{Artifact: "PersonalInfo", Field: "age", Message: "must be a positive integer"}
	}
	if !mbtiPattern.MatchString(p.MBTI) {
		return &ValidationError{Artifact: "PersonalInfo", Field: "mbti", Message: "must match [IE][NS][TF][JP]"}
	}
	if p.PreviousJob == "" {
		return &ValidationError{Artifact: "PersonalInfo", Field: "previous_job", Message: "required field missing"}
	}
	return nil
}

// ValidateProjectInfo checks the request-side input contract.
func ValidateProjectInfo(p *ProjectInfo) error {
	for field, v := range map[string]string{
		"food_sector": p.FoodSector,
		"region":      p.Region,
		"capital":     p.Capital,
	} {
		if strings.TrimSpace(v) == "" {
			return &ValidationError{Artifact: "ProjectInfo", Field: field, Message: "required field missing"}
		}
	}
	return nil
}

// DecodePersonaProfile parses and validates a raw profiler response.
func DecodePersonaProfile(raw json.RawMessage) (*PersonaProfile, error) {
	var p PersonaProfile
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, &ValidationError{Artifact: "PersonaProfile", Field: "-", Message: err.Error()}
	}
	if p.PersonaSummary == "" {
		return nil, &ValidationError{Artifact: "PersonaProfile", Field: "persona_summary", Message: "required field missing"}
	}
	if !riskTolerances[p.RiskTolerance] {
		return nil, &ValidationError{Artifact: "PersonaProfile", Field: "risk_tolerance", Message: "must be one of Low, Medium, High"}
	}
	if len(p.Strengths) == 0 {
		return nil, &ValidationError{Artifact: "PersonaProfile", Field: "strengths", Message: "must not be empty"}
	}
	return &p, nil
}

// DecodeMarketAnalysisList parses and validates a raw market-analyst response.
// Emptiness of the list is NOT rejected here; the orchestrator treats it as a
// separate precondition failure with its own error kind.
func DecodeMarketAnalysisList(raw json.RawMessage) (*MarketAnalysisList, error) {
	var l MarketAnalysisList
	if err := json.Unmarshal(raw, &l); err != nil {
		return nil, &ValidationError{Artifact: "MarketAnalysisList", Field: "-", Message: err.Error()}
	}
	for i, m := range l.MarketAnalyses {
		if m.Dong == "" {
			return nil, &ValidationError{
				Artifact: "MarketAnalysisList",
				Field:    fmt.Sprintf("market_analyses[%d].dong", i),
				Message:  "required field missing",
			}
		}
	}
	return &l, nil
}

// DecodeRecommendedItemList parses and validates a raw recommender response.
func DecodeRecommendedItemList(raw json.RawMessage) (*RecommendedItemList, error) {
	var l RecommendedItemList
	if err := json.Unmarshal(raw, &l); err != nil {
		return nil, &ValidationError{Artifact: "RecommendedItemList", Field: "-", Message: err.Error()}
	}
	for i, item := range l.RecommendedItems {
		if item.Item == "" {
			return nil, &ValidationError{
				Artifact: "RecommendedItemList",
				Field:    fmt.Sprintf("recommended_items[%d].item", i),
				Message:  "required field missing",
			}
		}
		for field, score := range map[string]float64{
			"market_fit_score":    item.MarketFitScore,
			"persona_fit_score":   item.PersonaFitScore,
			"profitability_score": item.ProfitabilityScore,
		} {
			if score < 0 || score > 100 {
				return nil, &ValidationError{
					Artifact: "RecommendedItemList",
					Field:    fmt.Sprintf("recommended_items[%d].%s", i, field),
					Message:  fmt.Sprintf("value %.1f out of range [0,100]", score),
				}
			}
		}
	}
	return &l, nil
}

// DecodeRoadmap parses and validates a raw roadmap-architect response.
func DecodeRoadmap(raw json.RawMessage) (*Roadmap, error) {
	var r Roadmap
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, &ValidationError{Artifact: "Roadmap", Field: "-", Message: err.Error()}
	}
	if r.Item == "" {
		return nil, &ValidationError{Artifact: "Roadmap", Field: "item", Message: "required field missing"}
	}
	if r.FinancialPlan.InitialInvestment < 0 {
		return nil, &ValidationError{Artifact: "Roadmap", Field: "financial_plan.initial_investment", Message: "must not be negative"}
	}
	return &r, nil
}
