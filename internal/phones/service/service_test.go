package service

import (
	"context"
	"testing"

	"phonenorm_backend/platform/apperr"
	"phonenorm_backend/platform/phone"
)

func newTestService(maxBatch int) *Service {
	return New(phone.NewDefault(), maxBatch, nil)
}

func TestNormalizeBatchKeepsOrderAndCounts(t *testing.T) {
	svc := newTestService(10)
	inputs := []string{"O912-345-678", "", "+886912345678", "12345", "01271234567"}

	result, err := svc.NormalizeBatch(context.Background(), inputs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"0912345678", "Invalid", "+886912345678 / Taiwan", "Invalid", "0811234567"}
	if len(result.Items) != len(want) {
		t.Fatalf("expected %d items, got %d", len(want), len(result.Items))
	}
	for i, item := range result.Items {
		if item.Input != inputs[i] {
			t.Fatalf("item %d: expected input %q, got %q", i, inputs[i], item.Input)
		}
		if item.Normalized != want[i] {
			t.Fatalf("item %d: expected %q, got %q", i, want[i], item.Normalized)
		}
	}

	s := result.Summary
	if s.Total != 5 || s.Valid != 3 || s.Domestic != 2 || s.International != 1 || s.Invalid != 2 {
		t.Fatalf("unexpected summary %+v", s)
	}
	if s.Reasons["empty_input"] != 1 || s.Reasons["no_rule_matched"] != 1 {
		t.Fatalf("unexpected reasons %+v", s.Reasons)
	}
	if result.Items[1].Reason != "empty_input" || result.Items[1].Valid {
		t.Fatalf("expected empty input item, got %+v", result.Items[1])
	}
}

func TestNormalizeBatchRejectsOversizedBatch(t *testing.T) {
	svc := newTestService(2)

	_, err := svc.NormalizeBatch(context.Background(), []string{"1", "2", "3"})
	if apperr.GetKind(err) != apperr.KindTooLarge {
		t.Fatalf("expected KindTooLarge, got %v", err)
	}
}

func TestNormalizeBatchWithoutLimit(t *testing.T) {
	svc := newTestService(0)
	inputs := make([]string, 6000)
	for i := range inputs {
		inputs[i] = "0912345678"
	}

	result, err := svc.NormalizeBatch(context.Background(), inputs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Summary.Total != 6000 || result.Summary.Valid != 6000 {
		t.Fatalf("unexpected summary %+v", result.Summary)
	}
}

func TestNormalizeBatchAssignsDistinctIDs(t *testing.T) {
	svc := newTestService(10)

	first, _ := svc.NormalizeBatch(context.Background(), []string{"0912345678"})
	second, _ := svc.NormalizeBatch(context.Background(), []string{"0912345678"})
	if first.BatchID == second.BatchID {
		t.Fatal("expected distinct batch ids")
	}
}

func TestNormalizeText(t *testing.T) {
	svc := newTestService(10)

	result, err := svc.NormalizeText(context.Background(), "0912345678\r\n\n  84912345678  \n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(result.Items))
	}
	if result.Items[1].Normalized != "0912345678" {
		t.Fatalf("expected second line to normalize to 0912345678, got %q", result.Items[1].Normalized)
	}

	if _, err := svc.NormalizeText(context.Background(), " \n \n"); apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error for blank text, got %v", err)
	}
}

func TestSplitFreeText(t *testing.T) {
	got := SplitFreeText("a\r\n\n b \n\t\nc")
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Fatalf("expected [a b c], got %q", got)
	}
}

func TestTablesReportsActiveConfiguration(t *testing.T) {
	tables := phone.Tables{
		Legacy:    []phone.PrefixRewrite{{From: "0127", To: "081"}},
		Countries: []phone.CountryHint{{Code: "886", Label: "Taiwan"}},
	}
	svc := New(phone.New(tables, phone.NewLibMetadata(), phone.Options{}, nil), 10, nil)

	resp := svc.Tables()
	if resp.NoiseTolerant {
		t.Fatal("expected basic mode to be reported")
	}
	if len(resp.Legacy) != 1 || resp.Legacy[0].To != "081" {
		t.Fatalf("unexpected legacy table %+v", resp.Legacy)
	}
	if len(resp.Countries) != 1 || resp.Countries[0].Code != "886" {
		t.Fatalf("unexpected country hints %+v", resp.Countries)
	}
}

func TestSplitFreeTextStripsPastedMarkup(t *testing.T) {
	got := SplitFreeText("<table><tr><td>0912345678</td></tr><tr><td><b>+886912345678</b></td></tr></table>")
	if len(got) != 2 || got[0] != "0912345678" || got[1] != "+886912345678" {
		t.Fatalf("expected two numbers, got %q", got)
	}
}
