// Package task 静态任务表：八个写诗任务的提示词与要求列表。
// 启动时构建一次，之后只读。
package task

import (
	"cowrite-test/internal/checker"
)

// TaskSpec 一个写作任务的不可变规格
type TaskSpec struct {
	ID           string                    `json:"id"`
	Title        string                    `json:"title"`
	Prompt       string                    `json:"prompt"`
	Requirements []checker.RequirementSpec `json:"requirements"`
}

func intPtr(v int) *int { return &v }

func boolPtr(v bool) *bool { return &v }

var catalog = []TaskSpec{
	{
		ID:     "t1-university",
		Title:  "University Life",
		Prompt: "Write a four-line poem about everyday life at university.",
		Requirements: []checker.RequirementSpec{
			{ID: "t1-lines", Kind: checker.KindLineCount, Label: "Exactly 4 lines", Exact: 4},
			{ID: "t1-words", Kind: checker.KindWordCount, Label: "Between 20 and 60 words", Min: intPtr(20), Max: intPtr(60)},
			{ID: "t1-include", Kind: checker.KindMustIncludeWords, Label: "Mention campus and library", Words: []string{"campus", "library"}, Mode: checker.ModeAll},
		},
	},
	{
		ID:     "t2-seasons",
		Title:  "Turning Seasons",
		Prompt: "Write a short poem about the change of seasons.",
		Requirements: []checker.RequirementSpec{
			{ID: "t2-lines", Kind: checker.KindLineCount, Label: "Exactly 4 lines", Exact: 4},
			{ID: "t2-maxline", Kind: checker.KindMaxWordsPerLine, Label: "At most 8 words per line", Max: intPtr(8)},
			{ID: "t2-include", Kind: checker.KindMustIncludeWords, Label: "Name at least two seasons", Words: []string{"spring", "summer", "autumn", "winter"}, Mode: checker.ModeAtLeast, AtLeast: 2},
		},
	},
	{
		ID:     "t3-midnight",
		Title:  "Midnight Coffee",
		Prompt: "Write a poem about working late at night over a cup of coffee.",
		Requirements: []checker.RequirementSpec{
			{ID: "t3-lines", Kind: checker.KindLineCount, Label: "Exactly 4 lines", Exact: 4},
			{ID: "t3-include", Kind: checker.KindMustIncludeWords, Label: "Use the words Coffee and Midnight, capitalized", Words: []string{"Coffee", "Midnight"}, Mode: checker.ModeAll, CaseSensitive: true, WholeWord: boolPtr(true)},
			{ID: "t3-commas", Kind: checker.KindPunctuationExactCount, Label: "Exactly two commas", Char: ",", Count: 2},
		},
	},
	{
		ID:     "t4-silence",
		Title:  "Unpunctuated Silence",
		Prompt: "Write a five-line poem about silence, without any punctuation at all.",
		Requirements: []checker.RequirementSpec{
			{ID: "t4-lines", Kind: checker.KindLineCount, Label: "Exactly 5 lines", Exact: 5},
			{ID: "t4-nopunct", Kind: checker.KindNoPunctuation, Label: "No punctuation marks", Chars: []string{".", ",", "!", "?", ";", ":"}},
			{ID: "t4-threeword", Kind: checker.KindHasLineWithExactWordCount, Label: "One line of exactly 3 words", Exact: 3},
		},
	},
	{
		ID:     "t5-rain",
		Title:  "Rain, Three Times",
		Prompt: "Write a poem in which the word rain appears exactly three times.",
		Requirements: []checker.RequirementSpec{
			{ID: "t5-rain", Kind: checker.KindWordOccursExactly, Label: "The word rain exactly 3 times", Word: "rain", Count: 3},
			{ID: "t5-words", Kind: checker.KindWordCount, Label: "At least 25 words", Min: intPtr(25)},
		},
	},
	{
		ID:     "t6-city",
		Title:  "Car-Free City",
		Prompt: "Write a four-line poem about a city evening without mentioning cars or traffic.",
		Requirements: []checker.RequirementSpec{
			{ID: "t6-lines", Kind: checker.KindLineCount, Label: "Exactly 4 lines", Exact: 4},
			{ID: "t6-avoid", Kind: checker.KindMustNotIncludeWords, Label: "No cars, no traffic", Words: []string{"car", "cars", "traffic"}},
			{ID: "t6-each", Kind: checker.KindEachLineContainsOneOf, Label: "Every line touches the street scene", Words: []string{"street", "light", "window", "crowd"}},
		},
	},
	{
		ID:     "t7-ocean",
		Title:  "Short-Breathed Ocean",
		Prompt: "Write a six-line poem about the ocean in very short lines.",
		Requirements: []checker.RequirementSpec{
			{ID: "t7-lines", Kind: checker.KindLineCount, Label: "Exactly 6 lines", Exact: 6},
			{ID: "t7-maxline", Kind: checker.KindMaxWordsPerLine, Label: "At most 6 words per line", Max: intPtr(6)},
			{ID: "t7-include", Kind: checker.KindMustIncludeWords, Label: "Mention salt", Words: []string{"salt"}, Mode: checker.ModeAll},
		},
	},
	{
		ID:     "t8-diary",
		Title:  "Timestamped Diary",
		Prompt: "Write a five-line diary poem where every line starts with a HH:MM timestamp.",
		Requirements: []checker.RequirementSpec{
			{ID: "t8-lines", Kind: checker.KindLineCount, Label: "Exactly 5 lines", Exact: 5},
			{ID: "t8-stamps", Kind: checker.KindEveryLineStartsWithTimestamp, Label: "Every line starts with HH:MM"},
			{ID: "t8-oneword", Kind: checker.KindHasTimestampOneWordLine, Label: "One line is a timestamp plus a single word"},
			{ID: "t8-words", Kind: checker.KindWordCount, Label: "At most 40 words", Max: intPtr(40)},
		},
	},
}

var byID = func() map[string]*TaskSpec {
	m := make(map[string]*TaskSpec, len(catalog))
	for i := range catalog {
		m[catalog[i].ID] = &catalog[i]
	}
	return m
}()

// All 全部任务（顺序固定）
func All() []TaskSpec {
	return catalog
}

// Get 按ID取任务
func Get(id string) (*TaskSpec, bool) {
	t, ok := byID[id]
	return t, ok
}

// IDs 全部任务ID，供会话分配池洗牌
func IDs() []string {
	ids := make([]string, 0, len(catalog))
	for i := range catalog {
		ids = append(ids, catalog[i].ID)
	}
	return ids
}
