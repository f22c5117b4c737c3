package analysis

import (
	"fmt"
	"strings"
)

// Prompt texts for the three oracle round trips. The decision prompt pins
// the oracle to a single JSON object; interpret handles everything the
// oracle does anyway.

const firstWhySystemPrompt = `شما یک متخصص تحلیل ریشه‌ای مشکلات با تکنیک 5 Whys هستید.

وظیفه شما:
1. مشکل را بررسی کنید
2. اولین سوال "چرا" را بپرسید که به ریشه مشکل نزدیک‌تر شود
3. سوال باید واضح، مشخص و قابل پاسخ باشد

فقط سوال را بنویسید، بدون توضیح اضافی.`

const decisionSystemPrompt = `شما متخصص تحلیل 5 Whys هستید.

وظایف شما:
1. بررسی کنید پاسخ کاربر منطقی و مرتبط با سوال است
2. تشخیص دهید آیا به ریشه اصلی مشکل رسیده‌ایم
3. اگر پاسخ نامناسب است، درخواست توضیح بیشتر کنید
4. اگر به ریشه نرسیده‌ایم، سوال چرای بعدی را بپرسید

پاسخ را به فرمت JSON بدهید:
{
    "is_valid": true/false,
    "needs_clarification": true/false,
    "clarification_message": "پیام توضیحی اگر نیاز است",
    "is_root_found": true/false,
    "next_question": "سوال بعدی اگر ریشه پیدا نشده",
    "root_cause": "علت ریشه‌ای اگر پیدا شد",
    "recommendations": ["پیشنهاد 1", "پیشنهاد 2"]
}`

const summarySystemPrompt = `بر اساس تحلیل 5 Whys انجام شده:
1. علت ریشه‌ای را مشخص کن
2. 3-5 پیشنهاد عملی برای حل ارائه بده

پاسخ JSON:
{
    "root_cause": "علت ریشه‌ای",
    "recommendations": ["پیشنهاد 1", "پیشنهاد 2"]
}`

// firstWhyUserPrompt asks for the opening question of an interview.
func firstWhyUserPrompt(problem string) string {
	return fmt.Sprintf("مشکل: %s\n\nاولین سوال چرا را بپرس:", problem)
}

// decisionUserPrompt carries the full answered history plus the answer under
// judgment.
func decisionUserPrompt(problem string, steps []WhyStep, lastQuestion, currentAnswer string, currentStep int) string {
	return fmt.Sprintf(`مشکل اصلی: %s

تاریخچه:
%s

سوال فعلی (مرحله %d): %s
پاسخ کاربر: %s

تحلیل کن و پاسخ JSON بده:`, problem, historyText(steps), currentStep, lastQuestion, currentAnswer)
}

// summaryUserPrompt asks for the final root cause and recommendations.
func summaryUserPrompt(problem string, steps []WhyStep) string {
	return fmt.Sprintf("مشکل: %s\n\nتحلیل:\n%s", problem, summaryHistoryText(steps))
}

// historyText renders answered steps as numbered question/answer lines.
func historyText(steps []WhyStep) string {
	lines := make([]string, 0, len(steps))
	for _, s := range steps {
		if s.Answer == "" {
			continue
		}
		lines = append(lines, fmt.Sprintf("سوال %d: %s\nپاسخ %d: %s", s.StepNumber, s.Question, s.StepNumber, s.Answer))
	}
	return strings.Join(lines, "\n")
}

// summaryHistoryText renders answered steps as "چرا n" lines, the form the
// summary prompt expects.
func summaryHistoryText(steps []WhyStep) string {
	lines := make([]string, 0, len(steps))
	for _, s := range steps {
		if s.Answer == "" {
			continue
		}
		lines = append(lines, fmt.Sprintf("چرا %d: %s\nپاسخ: %s", s.StepNumber, s.Question, s.Answer))
	}
	return strings.Join(lines, "\n")
}
