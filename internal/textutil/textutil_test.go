package textutil

import (
	"strings"
	"testing"
)

func TestRemoveLinks(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"markdown link keeps text", "see [the review](https://example.com/review) here", "see the review here"},
		{"bare url removed", "more at https://example.com/x today", "more at  today"},
		{"www url removed", "check www.example.com now", "check  now"},
		{"no links untouched", "battery life is great", "battery life is great"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RemoveLinks(tt.input); got != tt.want {
				t.Errorf("RemoveLinks(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestMarkdownToText(t *testing.T) {
	got := MarkdownToText("# Review\n\nThe **camera** is *amazing*, see [specs](https://example.com).")
	if strings.Contains(got, "#") || strings.Contains(got, "**") || strings.Contains(got, "https://") {
		t.Errorf("markdown artifacts survived: %q", got)
	}
	if !strings.Contains(got, "camera") || !strings.Contains(got, "specs") {
		t.Errorf("content lost during conversion: %q", got)
	}
}

func TestVaderScore(t *testing.T) {
	pos := VaderScore("I absolutely love this, it is fantastic and wonderful")
	neg := VaderScore("This is terrible, I hate it, worst purchase ever")

	if pos <= 0 {
		t.Errorf("expected positive compound score, got %f", pos)
	}
	if neg >= 0 {
		t.Errorf("expected negative compound score, got %f", neg)
	}
}
