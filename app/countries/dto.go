package countries

import (
	"encoding/json"
	"strings"

	"github.com/joefazee/globeguide/internal/listing"
	"github.com/joefazee/globeguide/models"
)

// MaxFields is the most fields the upstream accepts in one request.
const MaxFields = 10

// Payload is a JSON array of country records as returned upstream.
type Payload struct {
	Body   json.RawMessage
	Cached bool
}

// EmptyPayload is returned when there is nothing to ask upstream.
func EmptyPayload() *Payload {
	return &Payload{Body: json.RawMessage("[]")}
}

// RegionStatsResponse represents one region in the statistics endpoint
type RegionStatsResponse struct {
	Region          models.Region `json:"region"`
	CountryCount    int           `json:"country_count"`
	TotalPopulation int64         `json:"total_population"`
	PopulationShare string        `json:"population_share"`
	Density         string        `json:"density"`
}

// ToRegionStatsResponse converts listing statistics to their response form
func ToRegionStatsResponse(stats []listing.RegionStat) []RegionStatsResponse {
	out := make([]RegionStatsResponse, 0, len(stats))
	for _, st := range stats {
		out = append(out, RegionStatsResponse{
			Region:          st.Region,
			CountryCount:    st.Countries,
			TotalPopulation: st.Population,
			PopulationShare: st.Share.StringFixed(2),
			Density:         st.Density.StringFixed(2),
		})
	}
	return out
}

// ParseFields splits a comma separated field list. An empty list yields
// fallback.
func ParseFields(raw string, fallback []string) ([]string, error) {
	fields := splitList(raw)
	if len(fields) == 0 {
		return fallback, nil
	}
	if len(fields) > MaxFields {
		return nil, models.NewValidationError(map[string]string{"fields": "at most 10 fields may be requested"})
	}
	for _, f := range fields {
		if !isFieldName(f) {
			return nil, models.NewValidationError(map[string]string{"fields": "invalid field name " + f})
		}
	}
	return fields, nil
}

// ParseCodes splits a comma separated code list, upper-casing each code.
func ParseCodes(raw string) ([]string, error) {
	codes := splitList(raw)
	for i, code := range codes {
		code = models.NormalizeCode(code)
		if !isAlphaCode(code) {
			return nil, models.NewValidationError(map[string]string{"codes": "invalid country code " + code})
		}
		codes[i] = code
	}
	return codes, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func isFieldName(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return false
		}
	}
	return s != ""
}

// isAlphaCode accepts alpha-2 and alpha-3 codes.
func isAlphaCode(code string) bool {
	if len(code) != 2 && len(code) != 3 {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < 'A' || code[i] > 'Z' {
			return false
		}
	}
	return true
}
