// Package phone normalizes Vietnamese and international phone numbers
// taken from spreadsheets and free text.
// This is part of the platform layer and contains no business logic.
package phone

import (
	"log/slog"
	"strings"

	"phonenorm_backend/platform/logger"
)

// Kind classifies a valid number.
type Kind string

const (
	KindNone          Kind = ""
	KindDomestic      Kind = "domestic"
	KindInternational Kind = "international"
)

// Reason records why a number was rejected. Callers only see valid or
// invalid; the reason is kept for tracing and batch statistics.
type Reason string

const (
	ReasonNone                     Reason = ""
	ReasonEmptyInput               Reason = "empty_input"
	ReasonUnparseableInternational Reason = "unparseable_international"
	ReasonNoRuleMatched            Reason = "no_rule_matched"
)

// Result is the outcome of normalizing one input.
type Result struct {
	Valid     bool   `json:"valid"`
	Canonical string `json:"canonical,omitempty"`
	Kind      Kind   `json:"kind,omitempty"`
	Reason    Reason `json:"reason,omitempty"`
}

// String renders the canonical form, or "Invalid".
func (r Result) String() string {
	if !r.Valid {
		return "Invalid"
	}
	return r.Canonical
}

func domestic(s string) Result {
	return Result{Valid: true, Canonical: s, Kind: KindDomestic}
}

func invalid(reason Reason) Result {
	return Result{Reason: reason}
}

// Normalizer applies the rewrite-and-validate pipeline. It holds only
// read-only configuration and is safe for concurrent use.
type Normalizer struct {
	tables Tables
	hints  []CountryHint
	meta   Metadata
	opts   Options
	log    *logger.Logger
}

// New creates a Normalizer. A nil log disables rejection tracing.
func New(tables Tables, meta Metadata, opts Options, log *logger.Logger) *Normalizer {
	return &Normalizer{
		tables: tables,
		hints:  tables.hintsByLength(),
		meta:   meta,
		opts:   opts,
		log:    log,
	}
}

// NewDefault creates a noise-tolerant Normalizer over the compiled-in
// tables and libphonenumber metadata.
func NewDefault() *Normalizer {
	return New(DefaultTables(), NewLibMetadata(), Options{NoiseTolerant: true}, nil)
}

// Tables returns the configuration the normalizer was built with.
func (n *Normalizer) Tables() Tables {
	return n.tables
}

// Options returns the cleanup options the normalizer was built with.
func (n *Normalizer) Options() Options {
	return n.opts
}

// Normalize is the one-shot form of Normalizer.Normalize.
func Normalize(raw string, tables Tables, meta Metadata) Result {
	return New(tables, meta, Options{NoiseTolerant: true}, nil).Normalize(raw)
}

// Normalize classifies raw as a canonical domestic number, an annotated
// international number, or invalid. It never panics on bad input.
func (n *Normalizer) Normalize(raw string) Result {
	result := n.normalize(raw)
	if n.log != nil {
		if result.Valid {
			n.log.PhoneAccepted(string(result.Kind), mask(raw))
		} else {
			n.log.PhoneRejected(string(result.Reason), mask(raw))
		}
	}
	return result
}

func (n *Normalizer) normalize(raw string) Result {
	if strings.TrimSpace(raw) == "" {
		return invalid(ReasonEmptyInput)
	}

	s := clean(raw, n.opts)

	if strings.HasPrefix(s, "00") {
		s = "+" + s[2:]
	}

	// Country code in front of an 11-digit legacy mobile number. Back to
	// the 0-prefixed form so the legacy table can match it.
	if strings.HasPrefix(s, "84") && len(s) >= 11 {
		s = "0" + s[2:]
	}

	s = n.rewriteLegacy(s)

	switch {
	case strings.HasPrefix(s, "+84"):
		s = "0" + s[3:]
	case strings.HasPrefix(s, "84") && (len(s) == 10 || len(s) == 11):
		s = "0" + s[2:]
	}

	if isDomestic(s) {
		return domestic(s)
	}

	if len(s) == 9 && s[0] >= '3' && s[0] <= '9' {
		if withTrunk := "0" + s; isDomestic(withTrunk) {
			return domestic(withTrunk)
		}
	}

	if strings.HasPrefix(s, "+") {
		if result, ok := n.international(s); ok {
			return result
		}
		return invalid(ReasonUnparseableInternational)
	}

	for _, hint := range n.hints {
		if strings.HasPrefix(s, hint.Code) && len(s)-len(hint.Code) >= 7 {
			if result, ok := n.international("+" + s); ok {
				return result
			}
		}
	}

	return invalid(ReasonNoRuleMatched)
}

// rewriteLegacy applies the first matching legacy prefix rewrite to an
// 11-digit number.
func (n *Normalizer) rewriteLegacy(s string) string {
	if len(s) != 11 {
		return s
	}
	for _, entry := range n.tables.Legacy {
		if strings.HasPrefix(s, entry.From) {
			return entry.To + s[len(entry.From):]
		}
	}
	return s
}

func (n *Normalizer) international(s string) (Result, bool) {
	num, err := n.meta.Parse(s)
	if err != nil {
		if n.log != nil {
			n.log.Debug("international parse failed", slog.String("number", mask(s)), slog.String("error", err.Error()))
		}
		return Result{}, false
	}
	if !n.meta.IsValid(num) {
		return Result{}, false
	}
	return Result{
		Valid:     true,
		Canonical: num.E164() + " / " + n.meta.CountryName(num),
		Kind:      KindInternational,
	}, true
}

// isDomestic reports whether s is a canonical Vietnamese national number:
// an 11-digit 02x landline or a 10-digit number starting 03 to 09.
func isDomestic(s string) bool {
	if len(s) < 2 || s[0] != '0' || !isDigits(s) {
		return false
	}
	switch {
	case s[1] == '2':
		return len(s) == 11
	case s[1] >= '3' && s[1] <= '9':
		return len(s) == 10
	}
	return false
}

// mask keeps the last three characters of a raw input for logging.
func mask(raw string) string {
	trimmed := strings.TrimSpace(raw)
	r := []rune(trimmed)
	if len(r) <= 3 {
		return strings.Repeat("*", len(r))
	}
	return strings.Repeat("*", len(r)-3) + string(r[len(r)-3:])
}
