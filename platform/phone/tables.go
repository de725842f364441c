package phone

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// PrefixRewrite maps a pre-2018 Vietnam mobile prefix to its current prefix.
type PrefixRewrite struct {
	From string `yaml:"from" json:"from"`
	To   string `yaml:"to" json:"to"`
}

// CountryHint is a calling code that may be missing its leading "+".
type CountryHint struct {
	Code  string `yaml:"code" json:"code"`
	Label string `yaml:"label" json:"label"`
}

// Tables holds the read-only rewrite configuration used by the normalizer.
type Tables struct {
	Legacy    []PrefixRewrite `yaml:"legacy" json:"legacy"`
	Countries []CountryHint   `yaml:"countries" json:"countries"`
}

var defaultLegacy = []PrefixRewrite{
	// Viettel
	{From: "0162", To: "032"},
	{From: "0163", To: "033"},
	{From: "0164", To: "034"},
	{From: "0165", To: "035"},
	{From: "0166", To: "036"},
	{From: "0167", To: "037"},
	{From: "0168", To: "038"},
	{From: "0169", To: "039"},
	// Mobifone
	{From: "0120", To: "070"},
	{From: "0121", To: "079"},
	{From: "0122", To: "077"},
	{From: "0126", To: "076"},
	{From: "0128", To: "078"},
	// Vinaphone
	{From: "0123", To: "083"},
	{From: "0124", To: "084"},
	{From: "0125", To: "085"},
	{From: "0127", To: "081"},
	{From: "0129", To: "082"},
	// Vietnamobile
	{From: "0186", To: "056"},
	{From: "0188", To: "058"},
	// Gmobile
	{From: "0199", To: "059"},
}

var defaultCountries = []CountryHint{
	{Code: "886", Label: "Taiwan"},
	{Code: "86", Label: "China"},
	{Code: "82", Label: "South Korea"},
	{Code: "81", Label: "Japan"},
	{Code: "855", Label: "Cambodia"},
	{Code: "856", Label: "Laos"},
	{Code: "852", Label: "Hong Kong"},
	{Code: "65", Label: "Singapore"},
	{Code: "66", Label: "Thailand"},
	{Code: "60", Label: "Malaysia"},
	{Code: "61", Label: "Australia"},
	{Code: "44", Label: "United Kingdom"},
	{Code: "49", Label: "Germany"},
	{Code: "33", Label: "France"},
	{Code: "7", Label: "Russia"},
	{Code: "1", Label: "United States / Canada"},
}

// DefaultTables returns a copy of the compiled-in Vietnam rewrite table
// and country hint table.
func DefaultTables() Tables {
	return Tables{
		Legacy:    append([]PrefixRewrite(nil), defaultLegacy...),
		Countries: append([]CountryHint(nil), defaultCountries...),
	}
}

// Validate checks the shape of both tables.
func (t Tables) Validate() error {
	seen := make(map[string]struct{}, len(t.Legacy))
	for _, entry := range t.Legacy {
		if len(entry.From) != 4 || !isDigits(entry.From) || entry.From[0] != '0' {
			return fmt.Errorf("legacy prefix %q must be 4 digits starting with 0", entry.From)
		}
		if len(entry.To) != 3 || !isDigits(entry.To) {
			return fmt.Errorf("replacement %q for %s must be 3 digits", entry.To, entry.From)
		}
		if _, dup := seen[entry.From]; dup {
			return fmt.Errorf("legacy prefix %q listed twice", entry.From)
		}
		seen[entry.From] = struct{}{}
	}

	codes := make(map[string]struct{}, len(t.Countries))
	for _, hint := range t.Countries {
		if hint.Code == "" || len(hint.Code) > 3 || !isDigits(hint.Code) {
			return fmt.Errorf("country code %q must be 1-3 digits", hint.Code)
		}
		if _, dup := codes[hint.Code]; dup {
			return fmt.Errorf("country code %q listed twice", hint.Code)
		}
		codes[hint.Code] = struct{}{}
	}
	return nil
}

// hintsByLength returns the country hints ordered longest code first.
// Codes of equal length keep their table order.
func (t Tables) hintsByLength() []CountryHint {
	sorted := append([]CountryHint(nil), t.Countries...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i].Code) > len(sorted[j].Code)
	})
	return sorted
}

// LoadTables reads a YAML table file. A section left empty falls back to
// the compiled-in default for that section.
func LoadTables(path string) (Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Tables{}, fmt.Errorf("read phone tables: %w", err)
	}
	return ParseTables(data)
}

// ParseTables decodes YAML of the form
//
//	legacy:
//	  - {from: "0127", to: "081"}
//	countries:
//	  - {code: "886", label: Taiwan}
func ParseTables(data []byte) (Tables, error) {
	var parsed Tables
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return Tables{}, fmt.Errorf("decode phone tables: %w", err)
	}

	defaults := DefaultTables()
	if len(parsed.Legacy) == 0 {
		parsed.Legacy = defaults.Legacy
	}
	if len(parsed.Countries) == 0 {
		parsed.Countries = defaults.Countries
	}
	for i := range parsed.Legacy {
		parsed.Legacy[i].From = strings.TrimSpace(parsed.Legacy[i].From)
		parsed.Legacy[i].To = strings.TrimSpace(parsed.Legacy[i].To)
	}
	for i := range parsed.Countries {
		parsed.Countries[i].Code = strings.TrimPrefix(strings.TrimSpace(parsed.Countries[i].Code), "+")
	}

	if err := parsed.Validate(); err != nil {
		return Tables{}, err
	}
	return parsed, nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}
