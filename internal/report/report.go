package report

import (
	"context"
	"fmt"
	"time"

	"github.com/verte-zerg/tuivoc/internal/model"
)

// CategoryLister provides category summaries.
type CategoryLister interface {
	ListCategories(ctx context.Context) ([]model.CategorySummary, error)
}

// Categories renders the category table as lines. now anchors the
// "days since" column.
func Categories(ctx context.Context, src CategoryLister, now time.Time) ([]string, error) {
	summaries, err := src.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	if len(summaries) == 0 {
		return nil, nil
	}
	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []string{
			s.Category.Name,
			fmt.Sprintf("%d", s.VocabCount),
			studiedDate(s.Category.LastStudiedAt),
			daysSince(s.Category.LastStudiedAt, now),
		})
	}
	headers := []string{"Category", "Words", "Last studied", "Days"}
	return formatTable(headers, rows, map[int]bool{1: true, 3: true}), nil
}

func studiedDate(at *time.Time) string {
	if at == nil {
		return "never"
	}
	return at.Local().Format("2006-01-02")
}

func daysSince(at *time.Time, now time.Time) string {
	if at == nil {
		return "-"
	}
	days := int(now.Sub(*at).Hours() / 24)
	if days < 0 {
		days = 0
	}
	return fmt.Sprintf("%d", days)
}
