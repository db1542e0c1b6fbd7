// Package model defines shared data structures.
package model

import (
	"fmt"
	"strings"
	"time"
)

// VocabStatus is the learning stage of a vocabulary record.
type VocabStatus int

// Vocabulary stages. StatusAll is only meaningful as a filter.
const (
	StatusAll VocabStatus = iota
	StatusNew
	StatusLearning
	StatusMemorized
)

var statusNames = map[VocabStatus]string{
	StatusAll:       "all",
	StatusNew:       "new",
	StatusLearning:  "learning",
	StatusMemorized: "memorized",
}

// String returns the flag/config spelling of the status.
func (s VocabStatus) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// Label returns the capitalized label shown in the study header.
func (s VocabStatus) Label() string {
	name := s.String()
	return strings.ToUpper(name[:1]) + name[1:]
}

// ParseStatus parses a status name. Empty input means StatusAll.
func ParseStatus(value string) (VocabStatus, error) {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "" {
		return StatusAll, nil
	}
	for status, name := range statusNames {
		if name == value {
			return status, nil
		}
	}
	return StatusAll, fmt.Errorf("unknown status %q (expected all, new, learning or memorized)", value)
}

// StudyOpt selects which side of a vocabulary record is studied.
type StudyOpt int

// Study options.
const (
	StudyOptWord StudyOpt = iota + 1
	StudyOptMeaning
	StudyOptBoth
)

// String returns the flag/config spelling of the option.
func (o StudyOpt) String() string {
	switch o {
	case StudyOptWord:
		return "word"
	case StudyOptMeaning:
		return "meaning"
	case StudyOptBoth:
		return "both"
	default:
		return fmt.Sprintf("opt(%d)", int(o))
	}
}

// Noun describes what is being studied for the header line.
func (o StudyOpt) Noun() string {
	switch o {
	case StudyOptWord:
		return "words"
	case StudyOptMeaning:
		return "meanings"
	default:
		return "words and meanings"
	}
}

// ParseStudyOpt parses a study option name.
func ParseStudyOpt(value string) (StudyOpt, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "word", "words":
		return StudyOptWord, nil
	case "meaning", "meanings":
		return StudyOptMeaning, nil
	case "both", "":
		return StudyOptBoth, nil
	default:
		return 0, fmt.Errorf("unknown study mode %q (expected word, meaning or both)", value)
	}
}

// Category groups vocabulary records.
type Category struct {
	ID            int64
	Name          string
	LastStudiedAt *time.Time
}

// Vocab is one vocabulary record.
type Vocab struct {
	ID         int64
	CategoryID int64
	Word       string
	Meaning    string
	Status     VocabStatus
}

// StudyConfig defines study session settings.
type StudyConfig struct {
	Category  string
	Status    VocabStatus
	Opt       StudyOpt
	Shuffle   bool
	Seed      int64
	ImagesDir string
}

// CategorySummary summarizes a category for reporting.
type CategorySummary struct {
	Category   Category
	VocabCount int
}
