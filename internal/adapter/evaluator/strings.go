package evaluator

import (
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/vinicius-lino-figueiredo/gequery/domain"
	"golang.org/x/text/cases"
)

func allStrings(vals []domain.Value) bool {
	for _, v := range vals {
		if !v.IsString() {
			return false
		}
	}
	return true
}

func (e *Evaluator) strConcat(vals []domain.Value) domain.EvalResult {
	if !allStrings(vals) {
		return domain.ErrorResult()
	}
	var sb strings.Builder
	for _, v := range vals {
		sb.WriteString(v.AsString())
	}
	return domain.ValueResult(domain.String(sb.String()))
}

func stringTest(test func(s, sub string) bool) func([]domain.Value) domain.EvalResult {
	return func(vals []domain.Value) domain.EvalResult {
		if !allStrings(vals) {
			return domain.ErrorResult()
		}
		return domain.BoolResult(test(vals[0].AsString(), vals[1].AsString()))
	}
}

var (
	strContains = strings.Contains
	startsWith  = strings.HasPrefix
	endsWith    = strings.HasSuffix
)

// likePattern translates a LIKE pattern into an anchored regular
// expression. "%" matches any run of characters and "_" a single one.
func likePattern(like string) string {
	var sb strings.Builder
	sb.WriteString(`\A(?s:`)
	for _, r := range like {
		switch r {
		case '%':
			sb.WriteString(".*")
		case '_':
			sb.WriteByte('.')
		default:
			sb.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	sb.WriteString(`)\z`)
	return sb.String()
}

func (e *Evaluator) like(vals []domain.Value) domain.EvalResult {
	if !allStrings(vals) {
		return domain.ErrorResult()
	}
	pattern := vals[1].AsString()
	re, err := regexp.Compile(likePattern(pattern))
	if err != nil {
		return e.invalidPattern(domain.FuncLike, pattern, err)
	}
	return domain.BoolResult(re.MatchString(vals[0].AsString()))
}

func (e *Evaluator) regexContains(vals []domain.Value) domain.EvalResult {
	if !allStrings(vals) {
		return domain.ErrorResult()
	}
	pattern := vals[1].AsString()
	re, err := regexp.Compile(pattern)
	if err != nil {
		return e.invalidPattern(domain.FuncRegexContains, pattern, err)
	}
	return domain.BoolResult(re.MatchString(vals[0].AsString()))
}

// regexMatch requires the whole string to match, whatever flags the
// pattern sets.
func (e *Evaluator) regexMatch(vals []domain.Value) domain.EvalResult {
	if !allStrings(vals) {
		return domain.ErrorResult()
	}
	pattern := vals[1].AsString()
	if _, err := regexp.Compile(pattern); err != nil {
		return e.invalidPattern(domain.FuncRegexMatch, pattern, err)
	}
	re := regexp.MustCompile(`\A(?:` + pattern + `)\z`)
	return domain.BoolResult(re.MatchString(vals[0].AsString()))
}

func (e *Evaluator) toLower(vals []domain.Value) domain.EvalResult {
	if !vals[0].IsString() {
		return domain.ErrorResult()
	}
	// cases.Caser keeps state, so it is not shared between calls
	return domain.ValueResult(domain.String(cases.Lower(e.lang).String(vals[0].AsString())))
}

func (e *Evaluator) toUpper(vals []domain.Value) domain.EvalResult {
	if !vals[0].IsString() {
		return domain.ErrorResult()
	}
	return domain.ValueResult(domain.String(cases.Upper(e.lang).String(vals[0].AsString())))
}

func trim(vals []domain.Value) domain.EvalResult {
	if !vals[0].IsString() {
		return domain.ErrorResult()
	}
	return domain.ValueResult(domain.String(strings.TrimSpace(vals[0].AsString())))
}

// charLength counts code points. Malformed text is an error.
func charLength(vals []domain.Value) domain.EvalResult {
	if !vals[0].IsString() || !utf8.ValidString(vals[0].AsString()) {
		return domain.ErrorResult()
	}
	return domain.ValueResult(domain.Int(int64(utf8.RuneCountInString(vals[0].AsString()))))
}

// byteLength is the UTF-8 length of strings or the length of bytes.
func byteLength(vals []domain.Value) domain.EvalResult {
	v := vals[0]
	switch v.Kind() {
	case domain.KindString:
		if !utf8.ValidString(v.AsString()) {
			return domain.ErrorResult()
		}
		return domain.ValueResult(domain.Int(int64(len(v.AsString()))))
	case domain.KindBytes:
		return domain.ValueResult(domain.Int(int64(len(v.AsBytes()))))
	}
	return domain.ErrorResult()
}

func reverse(vals []domain.Value) domain.EvalResult {
	if !vals[0].IsString() {
		return domain.ErrorResult()
	}
	runes := []rune(vals[0].AsString())
	slices.Reverse(runes)
	return domain.ValueResult(domain.String(string(runes)))
}

// replace replaces the first n occurrences, or all of them if n < 0.
func replace(n int) func([]domain.Value) domain.EvalResult {
	return func(vals []domain.Value) domain.EvalResult {
		if !allStrings(vals) {
			return domain.ErrorResult()
		}
		s, old, repl := vals[0].AsString(), vals[1].AsString(), vals[2].AsString()
		return domain.ValueResult(domain.String(strings.Replace(s, old, repl, n)))
	}
}

// substr slices strings by code point and bytes by byte. A negative
// position counts from the end; a missing length takes the rest.
func substr(vals []domain.Value) domain.EvalResult {
	if !vals[1].IsInteger() {
		return domain.ErrorResult()
	}
	length := int64(-1)
	if len(vals) > 2 {
		if !vals[2].IsInteger() || vals[2].AsInt() < 0 {
			return domain.ErrorResult()
		}
		length = vals[2].AsInt()
	}

	switch vals[0].Kind() {
	case domain.KindString:
		runes := []rune(vals[0].AsString())
		from, to := sliceBounds(int64(len(runes)), vals[1].AsInt(), length)
		return domain.ValueResult(domain.String(string(runes[from:to])))
	case domain.KindBytes:
		b := vals[0].AsBytes()
		from, to := sliceBounds(int64(len(b)), vals[1].AsInt(), length)
		return domain.ValueResult(domain.Bytes(slices.Clone(b[from:to])))
	}
	return domain.ErrorResult()
}

func sliceBounds(size, pos, length int64) (int64, int64) {
	if pos < 0 {
		pos = max(size+pos, 0)
	}
	from := min(pos, size)
	if length < 0 || length > size-from {
		return from, size
	}
	return from, from + length
}
