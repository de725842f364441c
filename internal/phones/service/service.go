package service

import (
	"context"
	"fmt"
	"strings"

	"phonenorm_backend/internal/phones/transport"
	"phonenorm_backend/platform/apperr"
	"phonenorm_backend/platform/logger"
	"phonenorm_backend/platform/phone"
	"phonenorm_backend/platform/sanitize"

	"github.com/google/uuid"
)

// Normalizer is the single-number capability the service batches over.
type Normalizer interface {
	Normalize(raw string) phone.Result
	Tables() phone.Tables
	Options() phone.Options
}

// Service normalizes batches of raw phone inputs.
type Service struct {
	normalizer Normalizer
	maxBatch   int
	log        *logger.Logger
}

// New creates a phones service. maxBatch caps the number of inputs per call;
// zero or less leaves batches unbounded.
func New(normalizer Normalizer, maxBatch int, log *logger.Logger) *Service {
	return &Service{normalizer: normalizer, maxBatch: maxBatch, log: log}
}

// NormalizeBatch normalizes every input and keeps the input order.
func (s *Service) NormalizeBatch(ctx context.Context, inputs []string) (transport.BatchResponse, error) {
	if s.maxBatch > 0 && len(inputs) > s.maxBatch {
		return transport.BatchResponse{}, apperr.TooLarge(fmt.Sprintf("batch of %d inputs exceeds the limit of %d", len(inputs), s.maxBatch)).
			WithDetails(map[string]int{"limit": s.maxBatch, "received": len(inputs)})
	}

	batchID := uuid.New()
	items := make([]transport.ItemResponse, 0, len(inputs))
	summary := transport.SummaryResponse{Reasons: map[string]int{}}

	for _, input := range inputs {
		result := s.normalizer.Normalize(input)
		items = append(items, toItem(input, result))

		summary.Total++
		switch {
		case result.Kind == phone.KindDomestic:
			summary.Valid++
			summary.Domestic++
		case result.Kind == phone.KindInternational:
			summary.Valid++
			summary.International++
		default:
			summary.Invalid++
			summary.Reasons[string(result.Reason)]++
		}
	}

	if s.log != nil {
		s.log.WithContext(ctx).BatchNormalized(batchID.String(), summary.Total, summary.Valid, summary.Invalid)
	}

	return transport.BatchResponse{BatchID: batchID, Items: items, Summary: summary}, nil
}

// NormalizeText splits free text into lines and normalizes each one.
func (s *Service) NormalizeText(ctx context.Context, text string) (transport.BatchResponse, error) {
	lines := SplitFreeText(text)
	if len(lines) == 0 {
		return transport.BatchResponse{}, apperr.Validation("text contains no phone numbers")
	}
	return s.NormalizeBatch(ctx, lines)
}

// Tables returns the active rewrite tables.
func (s *Service) Tables() transport.TablesResponse {
	tables := s.normalizer.Tables()
	resp := transport.TablesResponse{
		NoiseTolerant: s.normalizer.Options().NoiseTolerant,
		Legacy:        make([]transport.PrefixRewriteResponse, 0, len(tables.Legacy)),
		Countries:     make([]transport.CountryHintResponse, 0, len(tables.Countries)),
	}
	for _, entry := range tables.Legacy {
		resp.Legacy = append(resp.Legacy, transport.PrefixRewriteResponse{From: entry.From, To: entry.To})
	}
	for _, hint := range tables.Countries {
		resp.Countries = append(resp.Countries, transport.CountryHintResponse{Code: hint.Code, Label: hint.Label})
	}
	return resp
}

// SplitFreeText returns one entry per non-blank line of text. Markup from
// text pasted out of a web page or e-mail is stripped first.
func SplitFreeText(text string) []string {
	raw := strings.Split(strings.ReplaceAll(sanitize.StripHTML(text), "\r\n", "\n"), "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}

func toItem(input string, result phone.Result) transport.ItemResponse {
	return transport.ItemResponse{
		Input:      input,
		Normalized: result.String(),
		Valid:      result.Valid,
		Kind:       string(result.Kind),
		Reason:     string(result.Reason),
	}
}
