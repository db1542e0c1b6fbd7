package report

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/tuivoc/internal/model"
)

type fakeLister struct {
	summaries []model.CategorySummary
	err       error
}

func (f fakeLister) ListCategories(context.Context) ([]model.CategorySummary, error) {
	return f.summaries, f.err
}

func TestCategoriesReport(t *testing.T) {
	now := time.Date(2024, 3, 11, 12, 0, 0, 0, time.UTC)
	studied := now.Add(-10 * 24 * time.Hour)
	src := fakeLister{summaries: []model.CategorySummary{
		{Category: model.Category{Name: "animals"}, VocabCount: 0},
		{Category: model.Category{Name: "fruit", LastStudiedAt: &studied}, VocabCount: 12},
	}}
	lines, err := Categories(context.Background(), src, now)
	if err != nil {
		t.Fatalf("categories: %v", err)
	}
	if len(lines) != 3 {
		t.Fatalf("expected header and 2 rows, got %d", len(lines))
	}
	if !strings.Contains(lines[1], "never") || !strings.HasSuffix(lines[1], "-") {
		t.Fatalf("unexpected never-studied row: %q", lines[1])
	}
	if !strings.HasSuffix(lines[2], "10") {
		t.Fatalf("expected 10 days since, got %q", lines[2])
	}
}

func TestCategoriesReportEmptyAndError(t *testing.T) {
	lines, err := Categories(context.Background(), fakeLister{}, time.Now())
	if err != nil || lines != nil {
		t.Fatalf("expected no lines and no error, got %v %v", lines, err)
	}
	if _, err := Categories(context.Background(), fakeLister{err: errors.New("boom")}, time.Now()); err == nil {
		t.Fatalf("expected error")
	}
}
