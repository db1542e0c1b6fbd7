package vocabfile

import (
	"fmt"
	"strings"

	"github.com/verte-zerg/tuivoc/internal/model"
)

func toVocabs(records []Record) ([]model.Vocab, error) {
	vocabs := make([]model.Vocab, 0, len(records))
	for i, rec := range records {
		word := strings.TrimSpace(rec.Word)
		if word == "" {
			return nil, fmt.Errorf("entry %d: word is empty", i+1)
		}
		status := model.StatusNew
		if rec.Status != "" {
			parsed, err := model.ParseStatus(rec.Status)
			if err != nil {
				return nil, fmt.Errorf("entry %d: %w", i+1, err)
			}
			if parsed != model.StatusAll {
				status = parsed
			}
		}
		vocabs = append(vocabs, model.Vocab{
			Word:    word,
			Meaning: strings.TrimSpace(rec.Meaning),
			Status:  status,
		})
	}
	if len(vocabs) == 0 {
		return nil, fmt.Errorf("vocab file is empty")
	}
	return vocabs, nil
}
