package checker

import (
	"reflect"
	"strings"
	"testing"
)

func reqResult(t *testing.T, result CheckResult, id string) RequirementResult {
	t.Helper()
	for _, r := range result.Requirements {
		if r.ID == id {
			return r
		}
	}
	t.Fatalf("结果中找不到要求 %s: %+v", id, result)
	return RequirementResult{}
}

// TestLineCount 行数要求：恰好4行通过，3行/5行失败且details报告实际行数
func TestLineCount(t *testing.T) {
	reqs := []RequirementSpec{
		{ID: "lines", Kind: KindLineCount, Label: "Exactly 4 lines", Exact: 4},
	}

	cases := []struct {
		name    string
		text    string
		passed  bool
		details string
	}{
		{"four_lines", "a\nb\nc\nd", true, "found 4 lines"},
		{"three_lines", "a\nb\nc", false, "found 3 lines"},
		{"five_lines", "a\nb\nc\nd\ne", false, "found 5 lines"},
		{"blank_lines_dropped", "a\n\nb\n \nc\nd\n", true, "found 4 lines"},
		{"crlf_normalized", "a\r\nb\r\nc\r\nd", true, "found 4 lines"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := Check(tc.text, reqs)
			r := reqResult(t, res, "lines")
			if r.Passed != tc.passed {
				t.Fatalf("passed=%v, 期望 %v (details=%s)", r.Passed, tc.passed, r.Details)
			}
			if !strings.Contains(r.Details, tc.details) {
				t.Fatalf("details 缺少实际行数: %s", r.Details)
			}
		})
	}
}

// TestMustIncludeWordsCaseSensitive 大小写敏感+整词匹配：
// 小写 coffee 不算，Coffee 与 Midnight 同时整词出现才通过。
func TestMustIncludeWordsCaseSensitive(t *testing.T) {
	reqs := []RequirementSpec{
		{
			ID: "include", Kind: KindMustIncludeWords, Mode: ModeAll,
			Words: []string{"Coffee", "Midnight"}, CaseSensitive: true,
		},
	}

	lower := Check("coffee at midnight keeps me warm", reqs)
	if reqResult(t, lower, "include").Passed {
		t.Fatal("小写 coffee 不应满足大小写敏感的要求")
	}

	proper := Check("Coffee steams past Midnight in my cup", reqs)
	if !reqResult(t, proper, "include").Passed {
		t.Fatal("Coffee 与 Midnight 整词出现应通过")
	}

	// 整词锚定：Coffeepot 不算 Coffee
	embedded := Check("My Coffeepot sings at Midnight", reqs)
	if reqResult(t, embedded, "include").Passed {
		t.Fatal("Coffeepot 不应算作整词 Coffee")
	}
}

// TestMustIncludeWordsAtLeast 至少命中N个
func TestMustIncludeWordsAtLeast(t *testing.T) {
	reqs := []RequirementSpec{
		{
			ID: "seasons", Kind: KindMustIncludeWords, Mode: ModeAtLeast, AtLeast: 2,
			Words: []string{"spring", "summer", "autumn", "winter"},
		},
	}

	if !reqResult(t, Check("Spring rain melts into summer haze", reqs), "seasons").Passed {
		t.Fatal("命中两个季节应通过（默认忽略大小写）")
	}
	if reqResult(t, Check("Only winter lives here", reqs), "seasons").Passed {
		t.Fatal("只命中一个季节不应通过")
	}
}

// TestPunctuationExactCount 逗号恰好两个：0/1/3个都失败且details给出实际个数
func TestPunctuationExactCount(t *testing.T) {
	reqs := []RequirementSpec{
		{ID: "commas", Kind: KindPunctuationExactCount, Char: ",", Count: 2},
	}

	cases := []struct {
		text   string
		passed bool
		actual string
	}{
		{"one, two, three", true, "2 times"},
		{"no commas here", false, "0 times"},
		{"just one, comma", false, "1 times"},
		{"a, b, c, d", false, "3 times"},
	}

	for _, tc := range cases {
		r := reqResult(t, Check(tc.text, reqs), "commas")
		if r.Passed != tc.passed {
			t.Errorf("%q: passed=%v, 期望 %v", tc.text, r.Passed, tc.passed)
		}
		if !strings.Contains(r.Details, tc.actual) {
			t.Errorf("%q: details 缺少实际计数: %s", tc.text, r.Details)
		}
	}
}

// TestEveryLineStartsWithTimestamp 两位时:两位分锚定，单位数小时不通过
func TestEveryLineStartsWithTimestamp(t *testing.T) {
	reqs := []RequirementSpec{
		{ID: "stamps", Kind: KindEveryLineStartsWithTimestamp},
	}

	if !reqResult(t, Check("07:15 The kettle hums\n08:30 Steam rises", reqs), "stamps").Passed {
		t.Fatal("HH:MM 开头的行应通过")
	}
	if reqResult(t, Check("7:15 The kettle hums", reqs), "stamps").Passed {
		t.Fatal("单位数小时不应通过 ^\\d{2}:\\d{2} 锚定")
	}
	if reqResult(t, Check("07:15 ok\nThe kettle hums", reqs), "stamps").Passed {
		t.Fatal("任何一行没有时间戳都不应通过")
	}
}

// TestHasTimestampOneWordLine 时间戳+恰好一个词的行
func TestHasTimestampOneWordLine(t *testing.T) {
	reqs := []RequirementSpec{
		{ID: "oneword", Kind: KindHasTimestampOneWordLine},
	}

	if !reqResult(t, Check("07:15 Silence\n08:00 the day begins slowly", reqs), "oneword").Passed {
		t.Fatal("存在 HH:MM 词 形式的行应通过")
	}
	if reqResult(t, Check("07:15 two words\n08:00 three more words", reqs), "oneword").Passed {
		t.Fatal("没有单词行不应通过")
	}
}

// TestWordCountStripsStructuralPrefix 时间戳与列表符号不算词
func TestWordCountStripsStructuralPrefix(t *testing.T) {
	reqs := []RequirementSpec{
		{ID: "words", Kind: KindWordCount, Min: intp(4), Max: intp(4)},
	}

	cases := []string{
		"07:15 two words\n08:30 more here",
		"- two words\n* more here",
		"two words\nmore here",
	}
	for _, text := range cases {
		r := reqResult(t, Check(text, reqs), "words")
		if !r.Passed {
			t.Errorf("%q 应数出4个内容词: %s", text, r.Details)
		}
	}
}

// TestWordCountBounds 上下界可单独省略
func TestWordCountBounds(t *testing.T) {
	minOnly := []RequirementSpec{{ID: "w", Kind: KindWordCount, Min: intp(3)}}
	if reqResult(t, Check("two words", minOnly), "w").Passed {
		t.Fatal("低于下界不应通过")
	}
	if !reqResult(t, Check("now three words", minOnly), "w").Passed {
		t.Fatal("达到下界应通过")
	}

	maxOnly := []RequirementSpec{{ID: "w", Kind: KindWordCount, Max: intp(2)}}
	if !reqResult(t, Check("two words", maxOnly), "w").Passed {
		t.Fatal("不超上界应通过")
	}
	if reqResult(t, Check("now three words", maxOnly), "w").Passed {
		t.Fatal("超出上界不应通过")
	}
}

// TestMaxWordsPerLine 每行词数上限，details定位超限行
func TestMaxWordsPerLine(t *testing.T) {
	reqs := []RequirementSpec{
		{ID: "mwpl", Kind: KindMaxWordsPerLine, Max: intp(3)},
	}

	if !reqResult(t, Check("one two three\nfour five", reqs), "mwpl").Passed {
		t.Fatal("各行都在上限内应通过")
	}
	r := reqResult(t, Check("one two three\nfour five six seven", reqs), "mwpl")
	if r.Passed {
		t.Fatal("超限行不应通过")
	}
	if !strings.Contains(r.Details, "line 2") {
		t.Fatalf("details 应定位超限行: %s", r.Details)
	}
}

// TestWordOccursExactly 精确出现次数（整词、默认忽略大小写）
func TestWordOccursExactly(t *testing.T) {
	reqs := []RequirementSpec{
		{ID: "rain", Kind: KindWordOccursExactly, Word: "rain", Count: 3},
	}

	if !reqResult(t, Check("Rain falls rain sings and the rain sleeps", reqs), "rain").Passed {
		t.Fatal("三次 rain 应通过")
	}
	if reqResult(t, Check("rain and rain", reqs), "rain").Passed {
		t.Fatal("两次 rain 不应通过")
	}
	// raining 不算 rain
	if reqResult(t, Check("rain rain raining", reqs), "rain").Passed {
		t.Fatal("raining 不应算作整词 rain")
	}
}

// TestMustNotIncludeWords 避用词
func TestMustNotIncludeWords(t *testing.T) {
	reqs := []RequirementSpec{
		{ID: "avoid", Kind: KindMustNotIncludeWords, Words: []string{"car", "traffic"}},
	}

	if !reqResult(t, Check("the street hums with footsteps", reqs), "avoid").Passed {
		t.Fatal("不含避用词应通过")
	}
	r := reqResult(t, Check("a Car rolls past", reqs), "avoid")
	if r.Passed {
		t.Fatal("默认忽略大小写, Car 应命中避用词")
	}
	if !strings.Contains(r.Details, "car") {
		t.Fatalf("details 应列出命中的避用词: %s", r.Details)
	}
}

// TestNoPunctuation 禁用标点
func TestNoPunctuation(t *testing.T) {
	reqs := []RequirementSpec{
		{ID: "np", Kind: KindNoPunctuation, Chars: []string{".", ",", "!"}},
	}

	if !reqResult(t, Check("soft light through glass", reqs), "np").Passed {
		t.Fatal("无标点应通过")
	}
	if reqResult(t, Check("soft light, through glass", reqs), "np").Passed {
		t.Fatal("出现逗号不应通过")
	}
}

// TestEachLineContainsOneOf 每行至少含列表词之一（前缀剥离后）
func TestEachLineContainsOneOf(t *testing.T) {
	reqs := []RequirementSpec{
		{ID: "each", Kind: KindEachLineContainsOneOf, Words: []string{"street", "light", "window"}},
	}

	if !reqResult(t, Check("the street sleeps\na light blinks\nbehind the window", reqs), "each").Passed {
		t.Fatal("每行都含列表词应通过")
	}
	r := reqResult(t, Check("the street sleeps\nnothing here", reqs), "each")
	if r.Passed {
		t.Fatal("存在未命中的行不应通过")
	}
	if !strings.Contains(r.Details, "line 2") {
		t.Fatalf("details 应定位未命中的行: %s", r.Details)
	}
}

// TestHasLineWithExactWordCount 存在恰好N词的行
func TestHasLineWithExactWordCount(t *testing.T) {
	reqs := []RequirementSpec{
		{ID: "hlw", Kind: KindHasLineWithExactWordCount, Exact: 3},
	}

	if !reqResult(t, Check("one two\nthree little words\nand more of them here", reqs), "hlw").Passed {
		t.Fatal("存在三词行应通过")
	}
	if reqResult(t, Check("one two\nfour words are here", reqs), "hlw").Passed {
		t.Fatal("没有三词行不应通过")
	}
}

// TestOverallPassedRequiresAll 整体通过 = 所有要求通过；顺序与要求列表一致
func TestOverallPassedRequiresAll(t *testing.T) {
	reqs := []RequirementSpec{
		{ID: "a", Kind: KindLineCount, Exact: 2},
		{ID: "b", Kind: KindNoPunctuation, Chars: []string{","}},
	}

	res := Check("line one, with comma\nline two", reqs)
	if res.Passed {
		t.Fatal("存在失败项时整体不应通过")
	}
	if len(res.Requirements) != 2 || res.Requirements[0].ID != "a" || res.Requirements[1].ID != "b" {
		t.Fatalf("结果顺序应与要求列表一致: %+v", res.Requirements)
	}
	if !res.Requirements[0].Passed || res.Requirements[1].Passed {
		t.Fatalf("逐条结果错误: %+v", res.Requirements)
	}
}

// TestCheckIdempotent 同样输入两次调用产出完全相同的结果
func TestCheckIdempotent(t *testing.T) {
	reqs := []RequirementSpec{
		{ID: "lines", Kind: KindLineCount, Exact: 2},
		{ID: "words", Kind: KindWordCount, Min: intp(2), Max: intp(10)},
		{ID: "inc", Kind: KindMustIncludeWords, Mode: ModeAll, Words: []string{"moon"}},
	}
	text := "the moon climbs\nover quiet roofs"

	first := Check(text, reqs)
	second := Check(text, reqs)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("两次校验结果不一致:\n%+v\n%+v", first, second)
	}
}

// TestMetrics 提交指标的提炼规则
func TestMetrics(t *testing.T) {
	reqs := []RequirementSpec{
		{ID: "inc", Kind: KindMustIncludeWords, Mode: ModeAll, Words: []string{"moon"}},
		{ID: "avoid", Kind: KindMustNotIncludeWords, Words: []string{"sun"}},
		{ID: "lines", Kind: KindLineCount, Exact: 2},
	}

	m := Metrics("the moon climbs\nover quiet roofs", reqs)
	if m.WordCount != 6 {
		t.Fatalf("词数错误: %d", m.WordCount)
	}
	if !m.MeetsRequiredWords || !m.MeetsAvoidWords {
		t.Fatalf("必含/避用判定错误: %+v", m)
	}

	m = Metrics("the sun burns", reqs)
	if m.MeetsRequiredWords {
		t.Fatal("缺 moon 时必含词应不满足")
	}
	if m.MeetsAvoidWords {
		t.Fatal("含 sun 时避用词应不满足")
	}
}

func intp(v int) *int { return &v }
