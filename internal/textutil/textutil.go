package textutil

import (
	"regexp"
	"strings"

	"github.com/jonreiter/govader"
	"github.com/russross/blackfriday/v2"
)

var analyzer = govader.NewSentimentIntensityAnalyzer()

var (
	linkPattern = regexp.MustCompile(`\[(.*?)\]\((https?:\/\/[^\s\)]+)\)`)
	urlPattern  = regexp.MustCompile(`https?://\S+|www\.\S+`)
)

// RemoveLinks strips markdown links (keeping the link text) and bare
// URLs. Reddit bodies are full of both and they add nothing to the
// analysis prompt.
func RemoveLinks(input string) string {
	input = linkPattern.ReplaceAllString(input, "$1")
	return urlPattern.ReplaceAllString(input, "")
}

// MarkdownToText renders Reddit markdown to plain text with whitespace
// collapsed to single spaces.
func MarkdownToText(input string) string {
	output := blackfriday.Run([]byte(input), blackfriday.WithNoExtensions())
	plainText := strings.Join(strings.Fields(string(output)), " ")

	return strings.TrimSpace(RemoveLinks(plainText))
}

// VaderScore returns the VADER compound score for text. It is a cheap
// lexical signal recorded next to the model verdict, not a classifier.
func VaderScore(text string) float64 {
	return analyzer.PolarityScores(text).Compound
}
