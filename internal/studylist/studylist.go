// Package studylist builds the ordered item sequence a study session walks.
package studylist

import (
	"fmt"

	"github.com/verte-zerg/tuivoc/internal/model"
)

// PlaceholderText is shown when a category has nothing to study.
const PlaceholderText = "No words to study"

// Item is one entry of a study list.
type Item struct {
	Text     string
	ImageKey string
}

// List is an immutable sequence of study items.
type List struct {
	items       []Item
	placeholder bool
}

// Build expands vocabs into study items according to opt. An empty source
// yields a single placeholder item.
func Build(vocabs []model.Vocab, opt model.StudyOpt) List {
	if len(vocabs) == 0 {
		return List{items: []Item{{Text: PlaceholderText}}, placeholder: true}
	}
	size := len(vocabs)
	if opt == model.StudyOptBoth {
		size *= 2
	}
	items := make([]Item, 0, size)
	for _, v := range vocabs {
		key := ImageKey(v)
		switch opt {
		case model.StudyOptWord:
			items = append(items, Item{Text: v.Word, ImageKey: key})
		case model.StudyOptMeaning:
			items = append(items, Item{Text: v.Meaning, ImageKey: key})
		default:
			items = append(items,
				Item{Text: v.Word, ImageKey: key},
				Item{Text: v.Meaning, ImageKey: key},
			)
		}
	}
	return List{items: items}
}

// ImageKey returns the image lookup key for a vocab.
func ImageKey(v model.Vocab) string {
	return fmt.Sprintf("%d_%s_img", v.CategoryID, v.Word)
}

// Len returns the number of items.
func (l List) Len() int {
	return len(l.items)
}

// At returns the item at index i, clamped to the list bounds.
func (l List) At(i int) Item {
	if len(l.items) == 0 {
		return Item{}
	}
	if i < 0 {
		i = 0
	}
	if i >= len(l.items) {
		i = len(l.items) - 1
	}
	return l.items[i]
}

// Placeholder reports whether the list was built from an empty source.
func (l List) Placeholder() bool {
	return l.placeholder
}
