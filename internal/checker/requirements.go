package checker

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	// 行首时间戳：两位小时、两位分钟，后接词边界
	lineTimestampRe = regexp.MustCompile(`^\d{2}:\d{2}\b`)
	// 时间戳 + 恰好一个词的整行
	timestampOneWordRe = regexp.MustCompile(`^\d{2}:\d{2}\s+\S+$`)
)

// evaluate 单条要求的判定入口，按 Kind 分派
func evaluate(text string, lines []string, req *RequirementSpec) (bool, string) {
	switch req.Kind {
	case KindLineCount:
		return evalLineCount(lines, req)
	case KindWordCount:
		return evalWordCount(lines, req)
	case KindMaxWordsPerLine:
		return evalMaxWordsPerLine(lines, req)
	case KindMustIncludeWords:
		return evalMustIncludeWords(text, req)
	case KindWordOccursExactly:
		return evalWordOccursExactly(text, req)
	case KindMustNotIncludeWords:
		return evalMustNotIncludeWords(text, req)
	case KindNoPunctuation:
		return evalNoPunctuation(text, req)
	case KindPunctuationExactCount:
		return evalPunctuationExactCount(text, req)
	case KindEveryLineStartsWithTimestamp:
		return evalEveryLineStartsWithTimestamp(lines)
	case KindHasTimestampOneWordLine:
		return evalHasTimestampOneWordLine(lines)
	case KindEachLineContainsOneOf:
		return evalEachLineContainsOneOf(lines, req)
	case KindHasLineWithExactWordCount:
		return evalHasLineWithExactWordCount(lines, req)
	}
	return false, fmt.Sprintf("unknown requirement kind: %s", req.Kind)
}

func evalLineCount(lines []string, req *RequirementSpec) (bool, string) {
	n := len(lines)
	return n == req.Exact, fmt.Sprintf("found %d lines, expected %d", n, req.Exact)
}

func evalWordCount(lines []string, req *RequirementSpec) (bool, string) {
	n := totalWordCount(lines)
	ok := true
	if req.Min != nil && n < *req.Min {
		ok = false
	}
	if req.Max != nil && n > *req.Max {
		ok = false
	}
	var bound string
	switch {
	case req.Min != nil && req.Max != nil:
		bound = fmt.Sprintf("%d-%d", *req.Min, *req.Max)
	case req.Min != nil:
		bound = fmt.Sprintf("at least %d", *req.Min)
	case req.Max != nil:
		bound = fmt.Sprintf("at most %d", *req.Max)
	default:
		bound = "any"
	}
	return ok, fmt.Sprintf("total %d words, expected %s", n, bound)
}

func evalMaxWordsPerLine(lines []string, req *RequirementSpec) (bool, string) {
	max := 0
	if req.Max != nil {
		max = *req.Max
	}
	for i, line := range lines {
		if n := lineWordCount(line); n > max {
			return false, fmt.Sprintf("line %d has %d words, max %d", i+1, n, max)
		}
	}
	return true, fmt.Sprintf("every line within %d words", max)
}

func evalMustIncludeWords(text string, req *RequirementSpec) (bool, string) {
	var found, missing []string
	for _, w := range req.Words {
		if containsWord(text, w, req.CaseSensitive, req.wholeWord()) {
			found = append(found, w)
		} else {
			missing = append(missing, w)
		}
	}
	if req.Mode == ModeAtLeast {
		ok := len(found) >= req.AtLeast
		return ok, fmt.Sprintf("matched %d of %d words, need at least %d", len(found), len(req.Words), req.AtLeast)
	}
	if len(missing) > 0 {
		return false, fmt.Sprintf("missing: %s", strings.Join(missing, ", "))
	}
	return true, "all required words present"
}

func evalWordOccursExactly(text string, req *RequirementSpec) (bool, string) {
	n := countWord(text, req.Word, req.CaseSensitive, req.wholeWord())
	return n == req.Count, fmt.Sprintf("%q occurs %d times, expected %d", req.Word, n, req.Count)
}

func evalMustNotIncludeWords(text string, req *RequirementSpec) (bool, string) {
	var present []string
	for _, w := range req.Words {
		if containsWord(text, w, req.CaseSensitive, req.wholeWord()) {
			present = append(present, w)
		}
	}
	if len(present) > 0 {
		return false, fmt.Sprintf("forbidden words present: %s", strings.Join(present, ", "))
	}
	return true, "no forbidden words"
}

func evalNoPunctuation(text string, req *RequirementSpec) (bool, string) {
	var present []string
	for _, ch := range req.Chars {
		if strings.Contains(text, ch) {
			present = append(present, ch)
		}
	}
	if len(present) > 0 {
		return false, fmt.Sprintf("punctuation found: %s", strings.Join(present, " "))
	}
	return true, "no listed punctuation"
}

func evalPunctuationExactCount(text string, req *RequirementSpec) (bool, string) {
	n := strings.Count(text, req.Char)
	return n == req.Count, fmt.Sprintf("%q appears %d times, expected %d", req.Char, n, req.Count)
}

func evalEveryLineStartsWithTimestamp(lines []string) (bool, string) {
	for i, line := range lines {
		if !lineTimestampRe.MatchString(line) {
			return false, fmt.Sprintf("line %d does not start with HH:MM", i+1)
		}
	}
	return true, "every line starts with HH:MM"
}

func evalHasTimestampOneWordLine(lines []string) (bool, string) {
	for i, line := range lines {
		if timestampOneWordRe.MatchString(line) {
			return true, fmt.Sprintf("line %d is a timestamp plus one word", i+1)
		}
	}
	return false, "no line of the form HH:MM word"
}

func evalEachLineContainsOneOf(lines []string, req *RequirementSpec) (bool, string) {
	for i, line := range lines {
		content := stripStructuralPrefix(line)
		hit := false
		for _, w := range req.Words {
			if containsWord(content, w, req.CaseSensitive, req.wholeWord()) {
				hit = true
				break
			}
		}
		if !hit {
			return false, fmt.Sprintf("line %d contains none of: %s", i+1, strings.Join(req.Words, ", "))
		}
	}
	return true, "every line contains a listed word"
}

func evalHasLineWithExactWordCount(lines []string, req *RequirementSpec) (bool, string) {
	for i, line := range lines {
		if lineWordCount(line) == req.Exact {
			return true, fmt.Sprintf("line %d has exactly %d words", i+1, req.Exact)
		}
	}
	return false, fmt.Sprintf("no line with exactly %d words", req.Exact)
}
