// Package checker 对提交的诗歌文本做确定性的要求校验。
// 纯函数：同样的文本+同样的要求列表永远得到同样的结果，无I/O无隐藏状态。
package checker

import (
	"regexp"
	"strings"
)

// Kind 单条要求的类型标签
type Kind string

const (
	KindLineCount                    Kind = "lineCount"
	KindWordCount                    Kind = "wordCount"
	KindMaxWordsPerLine              Kind = "maxWordsPerLine"
	KindMustIncludeWords             Kind = "mustIncludeWords"
	KindWordOccursExactly            Kind = "wordOccursExactly"
	KindMustNotIncludeWords          Kind = "mustNotIncludeWords"
	KindNoPunctuation                Kind = "noPunctuation"
	KindPunctuationExactCount        Kind = "punctuationExactCount"
	KindEveryLineStartsWithTimestamp Kind = "everyLineStartsWithTimestamp"
	KindHasTimestampOneWordLine      Kind = "hasTimestampOneWordLine"
	KindEachLineContainsOneOf        Kind = "eachLineContainsOneOf"
	KindHasLineWithExactWordCount    Kind = "hasLineWithExactWordCount"
)

// mustIncludeWords 的两种模式
const (
	ModeAll     = "all"
	ModeAtLeast = "atLeast"
)

// RequirementSpec 一条结构/词汇约束。
// 按 Kind 取用对应字段，其余字段忽略；整个结构只读。
// 词匹配默认忽略大小写、整词锚定，可按条覆盖。
type RequirementSpec struct {
	ID    string `json:"id"`
	Kind  Kind   `json:"kind"`
	Label string `json:"label"`

	Exact   int      `json:"exact,omitempty"`    // lineCount / hasLineWithExactWordCount
	Min     *int     `json:"min,omitempty"`      // wordCount 下界（可省）
	Max     *int     `json:"max,omitempty"`      // wordCount 上界（可省）/ maxWordsPerLine
	Words   []string `json:"words,omitempty"`    // mustIncludeWords / mustNotIncludeWords / eachLineContainsOneOf
	Word    string   `json:"word,omitempty"`     // wordOccursExactly
	Count   int      `json:"count,omitempty"`    // wordOccursExactly / punctuationExactCount
	Char    string   `json:"char,omitempty"`     // punctuationExactCount
	Chars   []string `json:"chars,omitempty"`    // noPunctuation
	Mode    string   `json:"mode,omitempty"`     // mustIncludeWords: all / atLeast
	AtLeast int      `json:"at_least,omitempty"` // mustIncludeWords mode=atLeast

	CaseSensitive bool  `json:"case_sensitive,omitempty"`
	WholeWord     *bool `json:"whole_word,omitempty"` // nil 视为 true
}

func (r *RequirementSpec) wholeWord() bool {
	return r.WholeWord == nil || *r.WholeWord
}

// RequirementResult 单条要求的判定结果
type RequirementResult struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Passed  bool   `json:"passed"`
	Details string `json:"details,omitempty"`
}

// CheckResult 整次校验的结果：全部要求通过才算通过。
// 每次调用都新生成，不作为权威状态持久化。
type CheckResult struct {
	Passed       bool                `json:"passed"`
	Requirements []RequirementResult `json:"requirements"`
}

// Check 按要求列表的顺序逐条判定
func Check(text string, reqs []RequirementSpec) CheckResult {
	lines := NormalizeLines(text)
	result := CheckResult{Passed: true}
	for i := range reqs {
		passed, details := evaluate(text, lines, &reqs[i])
		result.Requirements = append(result.Requirements, RequirementResult{
			ID:      reqs[i].ID,
			Label:   reqs[i].Label,
			Passed:  passed,
			Details: details,
		})
		if !passed {
			result.Passed = false
		}
	}
	return result
}

// SubmitMetrics 提交时随文本一起记录的评估指标
type SubmitMetrics struct {
	WordCount          int  `json:"word_count"`
	MeetsRequiredWords bool `json:"meets_required_words"`
	MeetsAvoidWords    bool `json:"meets_avoid_words"`
}

// Metrics 从一次校验中提炼提交指标：
// 必含词 = 所有 mustIncludeWords/wordOccursExactly 通过；
// 避用词 = 所有 mustNotIncludeWords/noPunctuation 通过。没有对应要求时视为满足。
func Metrics(text string, reqs []RequirementSpec) SubmitMetrics {
	lines := NormalizeLines(text)
	m := SubmitMetrics{
		WordCount:          totalWordCount(lines),
		MeetsRequiredWords: true,
		MeetsAvoidWords:    true,
	}
	for i := range reqs {
		passed, _ := evaluate(text, lines, &reqs[i])
		switch reqs[i].Kind {
		case KindMustIncludeWords, KindWordOccursExactly:
			if !passed {
				m.MeetsRequiredWords = false
			}
		case KindMustNotIncludeWords, KindNoPunctuation:
			if !passed {
				m.MeetsAvoidWords = false
			}
		}
	}
	return m
}

var (
	timestampPrefixRe = regexp.MustCompile(`^\d{2}:\d{2}\s+`)
	bulletPrefixes    = []string{"- ", "* ", "• "}
)

// NormalizeLines 统一换行为 \n、逐行裁剪、丢弃空行。
// 所有行级判定都以这份行列表为准。
func NormalizeLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// stripStructuralPrefix 去掉行首的列表符号或 HH:MM 时间戳。
// 数词时只数内容词，时间戳日记体的行才不会多出一个"词"。
func stripStructuralPrefix(line string) string {
	for _, b := range bulletPrefixes {
		if strings.HasPrefix(line, b) {
			return strings.TrimSpace(strings.TrimPrefix(line, b))
		}
	}
	return strings.TrimSpace(timestampPrefixRe.ReplaceAllString(line, ""))
}

func lineWordCount(line string) int {
	return len(strings.Fields(stripStructuralPrefix(line)))
}

func totalWordCount(lines []string) int {
	total := 0
	for _, line := range lines {
		total += lineWordCount(line)
	}
	return total
}

// wordPattern 构造查找词的正则：转义原词，按需加整词边界与忽略大小写
func wordPattern(word string, caseSensitive, wholeWord bool) *regexp.Regexp {
	p := regexp.QuoteMeta(word)
	if wholeWord {
		p = `\b` + p + `\b`
	}
	if !caseSensitive {
		p = `(?i)` + p
	}
	return regexp.MustCompile(p)
}

func containsWord(text, word string, caseSensitive, wholeWord bool) bool {
	return wordPattern(word, caseSensitive, wholeWord).MatchString(text)
}

func countWord(text, word string, caseSensitive, wholeWord bool) int {
	return len(wordPattern(word, caseSensitive, wholeWord).FindAllStringIndex(text, -1))
}
