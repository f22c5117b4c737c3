package interpret

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInterpretExtractsEmbeddedJSON(t *testing.T) {
	raw := `Here is my answer: {"isValid":true,"nextQuestion":"چرا؟","isRootFound":false}`

	d := Interpret(raw, "memory leak")

	assert.True(t, d.IsValid)
	assert.Equal(t, "چرا؟", d.NextQuestion)
	assert.False(t, d.IsRootFound)
	assert.Empty(t, d.Clarification)
	assert.Equal(t, []string{}, d.Recommendations)
}

func TestInterpretSnakeCaseContract(t *testing.T) {
	raw := `{
		"is_valid": false,
		"needs_clarification": true,
		"clarification_message": "پاسخ شما مبهم است",
		"is_root_found": false,
		"next_question": ""
	}`

	d := Interpret(raw, "irrelevant")

	assert.False(t, d.IsValid)
	assert.Equal(t, "پاسخ شما مبهم است", d.Clarification)
	assert.False(t, d.IsRootFound)
}

func TestInterpretRootFound(t *testing.T) {
	raw := "```json\n" + `{
		"is_valid": true,
		"is_root_found": true,
		"root_cause": "هیچ مانیتورینگی برای مصرف حافظه وجود ندارد",
		"recommendations": ["افزودن مانیتورینگ حافظه", "بازبینی cron job"]
	}` + "\n```"

	d := Interpret(raw, "answer")

	assert.True(t, d.IsRootFound)
	assert.Equal(t, "هیچ مانیتورینگی برای مصرف حافظه وجود ندارد", d.RootCause)
	assert.Len(t, d.Recommendations, 2)
}

func TestInterpretFallbackOnProse(t *testing.T) {
	d := Interpret("I cannot help with that.", "دیتابیس کند است")

	assert.True(t, d.IsValid)
	assert.Equal(t, "چرا دیتابیس کند است?", d.NextQuestion)
	assert.False(t, d.IsRootFound)
	assert.Empty(t, d.Clarification)
	assert.Equal(t, []string{}, d.Recommendations)
}

func TestInterpretFallbackOnBrokenJSON(t *testing.T) {
	d := Interpret(`{"is_valid": tru`, "the answer")

	assert.True(t, d.IsValid)
	assert.Equal(t, "چرا the answer?", d.NextQuestion)
}

func TestInterpretDefaultsForMissingKeys(t *testing.T) {
	d := Interpret(`{}`, "ignored")

	assert.True(t, d.IsValid)
	assert.Empty(t, d.NextQuestion)
	assert.False(t, d.IsRootFound)
	assert.Empty(t, d.RootCause)
	assert.Equal(t, []string{}, d.Recommendations)
}

func TestInterpretIgnoresUnrecognizedKeys(t *testing.T) {
	raw := `{"is_valid": true, "confidence": 0.9, "model_notes": {"a": 1}, "next_question": "چرا این اتفاق افتاد؟"}`

	d := Interpret(raw, "ignored")

	assert.True(t, d.IsValid)
	assert.Equal(t, "چرا این اتفاق افتاد؟", d.NextQuestion)
}

func TestInterpretBracesInsideStrings(t *testing.T) {
	// The naive first/last-brace substring would grab trailing prose here;
	// the balanced scan has to recover the object.
	raw := `{"is_valid": true, "next_question": "چرا تنظیمات {برنامه} اشتباه است؟"} trailing } noise`

	d := Interpret(raw, "ignored")

	assert.True(t, d.IsValid)
	assert.Equal(t, "چرا تنظیمات {برنامه} اشتباه است؟", d.NextQuestion)
}

func TestInterpretSummary(t *testing.T) {
	raw := `The analysis concludes: {"root_cause":"فقدان تست بار","recommendations":["تست بار دوره‌ای","پایش منابع"]}`

	rootCause, recs := InterpretSummary(raw)

	assert.Equal(t, "فقدان تست بار", rootCause)
	assert.Equal(t, []string{"تست بار دوره‌ای", "پایش منابع"}, recs)
}

func TestInterpretSummaryFallback(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"prose", "sorry, no JSON today"},
		{"broken", `{"root_cause": `},
		{"empty root cause", `{"root_cause":"","recommendations":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rootCause, recs := InterpretSummary(tt.raw)
			assert.Equal(t, "نیاز به بررسی بیشتر", rootCause)
			assert.Equal(t, []string{"تحلیل را با جزئیات بیشتر تکرار کنید"}, recs)
		})
	}
}

func TestInterpretSummaryMissingRecommendations(t *testing.T) {
	rootCause, recs := InterpretSummary(`{"root_cause":"ریشه"}`)

	assert.Equal(t, "ریشه", rootCause)
	assert.Len(t, recs, 1)
}
