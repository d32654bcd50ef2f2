package advisory

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/bibbank/loanrisk/internal/domain/model"
	"github.com/bibbank/loanrisk/internal/domain/port"
	"github.com/bibbank/loanrisk/internal/domain/valueobject"
)

// opinionSchema is what the model's JSON answer must look like before any
// of it is trusted.
const opinionSchema = `{
  "type": "object",
  "required": ["risk_level"],
  "properties": {
    "risk_level": {"type": "string", "minLength": 1},
    "risk_score": {"type": "number", "minimum": 0, "maximum": 100},
    "confidence_score": {"type": "number", "minimum": 0, "maximum": 100},
    "risk_factors": {"type": "array", "items": {"type": "string"}},
    "verification_notes": {"type": "string"},
    "recommendation": {"type": "string"},
    "anomalies_found": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["type"],
        "properties": {
          "type": {"type": "string"},
          "description": {"type": "string"},
          "severity": {"type": "string"}
        }
      }
    }
  }
}`

var schemaLoader = gojsonschema.NewStringLoader(opinionSchema)

var errNoJSONObject = errors.New("no JSON object in model response")

// levelScore maps a level to a score when the model gives only the level.
var levelScore = map[valueobject.RiskLevel]float64{
	valueobject.RiskLevelVeryLow:  10,
	valueobject.RiskLevelLow:      25,
	valueobject.RiskLevelMedium:   50,
	valueobject.RiskLevelHigh:     75,
	valueobject.RiskLevelVeryHigh: 90,
}

type opinion struct {
	RiskLevel   string   `json:"risk_level"`
	RiskScore   *float64 `json:"risk_score"`
	Confidence  float64  `json:"confidence_score"`
	RiskFactors []string `json:"risk_factors"`
	Notes       string   `json:"verification_notes"`
	Recommend   string   `json:"recommendation"`
	Anomalies   []struct {
		Type        string `json:"type"`
		Description string `json:"description"`
		Severity    string `json:"severity"`
	} `json:"anomalies_found"`
}

// extractObject returns the span from the first '{' to the last '}', which
// is how models that wrap JSON in prose are usually answered.
func extractObject(text string) ([]byte, error) {
	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start < 0 || end < start {
		return nil, errNoJSONObject
	}
	return []byte(text[start : end+1]), nil
}

// parseOpinion validates the model answer against opinionSchema and maps it
// onto an AdvisoryResult.
func parseOpinion(text string) (port.AdvisoryResult, error) {
	raw, err := extractObject(text)
	if err != nil {
		return port.AdvisoryResult{}, err
	}

	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return port.AdvisoryResult{}, fmt.Errorf("validate model response: %w", err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return port.AdvisoryResult{}, fmt.Errorf("model response failed validation: %v", errs)
	}

	var o opinion
	if err := json.Unmarshal(raw, &o); err != nil {
		return port.AdvisoryResult{}, fmt.Errorf("decode model response: %w", err)
	}

	level, err := valueobject.RiskLevelFromString(normalize(o.RiskLevel))
	if err != nil {
		return port.AdvisoryResult{}, err
	}

	res := port.AdvisoryResult{
		RiskLevel:      level,
		Recommendation: parseRecommendation(o.Recommend),
		Notes:          strings.TrimSpace(o.Notes),
		RiskFactors:    o.RiskFactors,
		RiskScore:      levelScore[level],
		Confidence:     model.ClampScore(o.Confidence),
	}
	if o.RiskScore != nil {
		res.RiskScore = model.ClampScore(*o.RiskScore)
	}
	for _, a := range o.Anomalies {
		sev, err := valueobject.SeverityFromString(a.Severity)
		if err != nil {
			sev = valueobject.SeverityMedium
		}
		typ := normalize(a.Type)
		if typ == "" {
			typ = "UNKNOWN"
		}
		desc := a.Description
		if desc == "" {
			desc = "AI detected anomaly"
		}
		res.Anomalies = append(res.Anomalies, model.Anomaly{
			Type:        model.AdvisoryAnomalyPrefix + typ,
			Description: desc,
			Severity:    sev,
		})
	}
	return res, nil
}

// parseRecommendation reads the leading verdict of strings such as
// "MANUAL REVIEW - income unclear". Unknown verdicts yield no recommendation.
func parseRecommendation(s string) valueobject.Recommendation {
	fields := strings.FieldsFunc(strings.ToUpper(s), func(r rune) bool {
		return r == ' ' || r == '-' || r == ',' || r == ':' || r == '.'
	})
	if len(fields) == 0 {
		return valueobject.Recommendation{}
	}
	verdict := strings.TrimPrefix(fields[0], "MANUAL_")
	if verdict == "MANUAL" && len(fields) > 1 {
		verdict = fields[1]
	}
	r, err := valueobject.RecommendationFromString(verdict)
	if err != nil {
		return valueobject.Recommendation{}
	}
	return r
}

func normalize(s string) string {
	return strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(s)), " ", "_")
}
