package article

import (
	"html"
	"math"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	wordsPerMinute   = 200
	sentimentStep    = 0.1
	maxKeywords      = 10
	minKeywordLength = 4
)

// Sentiment is a lexicon hit count, not a language model. It is good enough
// to tint a card, nothing more.
var positiveWords = map[string]struct{}{
	"good": {}, "great": {}, "excellent": {}, "amazing": {}, "wonderful": {},
	"fantastic": {}, "positive": {}, "success": {}, "successful": {}, "win": {},
	"happy": {}, "best": {}, "love": {}, "growth": {}, "improve": {},
	"breakthrough": {}, "celebrate": {}, "hope": {},
}

var negativeWords = map[string]struct{}{
	"bad": {}, "terrible": {}, "awful": {}, "horrible": {}, "negative": {},
	"fail": {}, "failure": {}, "lose": {}, "loss": {}, "sad": {}, "worst": {},
	"hate": {}, "crisis": {}, "death": {}, "war": {}, "attack": {},
	"decline": {}, "fear": {},
}

var stopWords = map[string]struct{}{
	"about": {}, "above": {}, "after": {}, "again": {}, "against": {}, "also": {},
	"among": {}, "because": {}, "been": {}, "before": {}, "being": {}, "below": {},
	"between": {}, "both": {}, "could": {}, "does": {}, "doing": {}, "down": {},
	"during": {}, "each": {}, "from": {}, "further": {}, "have": {}, "having": {},
	"here": {}, "hers": {}, "herself": {}, "himself": {}, "into": {}, "itself": {},
	"just": {}, "more": {}, "most": {}, "much": {}, "myself": {}, "once": {},
	"only": {}, "other": {}, "ours": {}, "ourselves": {}, "over": {}, "said": {},
	"says": {}, "same": {}, "should": {}, "some": {}, "such": {}, "than": {},
	"that": {}, "their": {}, "theirs": {}, "them": {}, "themselves": {}, "then": {},
	"there": {}, "these": {}, "they": {}, "this": {}, "those": {}, "through": {},
	"under": {}, "until": {}, "upon": {}, "very": {}, "were": {}, "what": {},
	"when": {}, "where": {}, "which": {}, "while": {}, "will": {}, "with": {},
	"within": {}, "without": {}, "would": {}, "your": {}, "yours": {},
	"yourself": {}, "yourselves": {},
}

var nonWordPattern = regexp.MustCompile(`[^\p{L}\p{N}_\s]+`)

var plainTextPolicy = func() *bluemonday.Policy {
	p := bluemonday.StrictPolicy()
	p.AddSpaceWhenStrippingTag(true)
	return p
}()

// PlainText drops markup from provider fields. Guardian bodies are HTML,
// the other providers mostly send text.
func PlainText(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return s
	}
	return html.UnescapeString(plainTextPolicy.Sanitize(s))
}

func computeMetrics(a Article) Normalized {
	body := PlainText(firstNonEmpty(a.Content, a.Description))

	return Normalized{
		ReadingTime: ReadingTime(body),
		Sentiment:   Sentiment(body),
		Keywords:    Keywords(PlainText(a.Title + " " + a.Description)),
	}
}

func ReadingTime(text string) int {
	words := len(strings.Fields(text))
	minutes := int(math.Ceil(float64(words) / wordsPerMinute))
	return max(1, minutes)
}

func Sentiment(text string) float64 {
	hits := 0
	for _, token := range strings.Fields(lower(text)) {
		if _, ok := positiveWords[token]; ok {
			hits++
		}
		if _, ok := negativeWords[token]; ok {
			hits--
		}
	}
	return clamp(float64(hits)*sentimentStep, -1, 1)
}

// Keywords keeps the first qualifying tokens in reading order. Repeats are
// kept on purpose: trending counts rely on them.
func Keywords(text string) []string {
	cleaned := nonWordPattern.ReplaceAllString(lower(text), "")

	keywords := make([]string, 0, maxKeywords)
	for _, token := range strings.Fields(cleaned) {
		if len([]rune(token)) < minKeywordLength {
			continue
		}
		if _, ok := stopWords[token]; ok {
			continue
		}
		keywords = append(keywords, token)
		if len(keywords) == maxKeywords {
			break
		}
	}
	return keywords
}

// cases.Caser is stateful, so one is built per call.
func lower(s string) string {
	return cases.Lower(language.Und).String(s)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
