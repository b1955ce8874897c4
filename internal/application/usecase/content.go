package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"zenmindful/internal/domain"
)

const fallbackTip = "Take a moment today to practice deep breathing. Even three mindful breaths can help center your thoughts and reduce stress."

var fallbackInsights = []string{
	"Small daily practices add up: every completed day strengthens the habit.",
	"Consistency matters more than intensity. Try to show up at the same time each day.",
	"Notice how you feel after each session. Awareness is part of the progress.",
	"If you miss a day, start again tomorrow. A streak restarts, progress does not.",
}

const systemPrompt = "You are a warm, concise wellness coach for a mindfulness app. Never give medical advice."

// ContentUseCase decorates responses with generated text. Generation is
// optional: every method degrades to static text or nothing.
type ContentUseCase struct {
	gen Generator
	log *slog.Logger
	obs Observer
}

func NewContentUseCase(gen Generator, log *slog.Logger, obs Observer) *ContentUseCase {
	if obs == nil {
		obs = nopObserver{}
	}
	return &ContentUseCase{gen: gen, log: log, obs: obs}
}

func (uc *ContentUseCase) DailyTip(ctx context.Context, user *domain.User) string {
	prompt := "Write one short, practical daily wellness tip (max 2 sentences)."
	if user != nil {
		if len(user.WellnessGoals) > 0 {
			prompt += " The user is working on: " + strings.Join(user.WellnessGoals, ", ") + "."
		}
		prompt += languageHint(user.PreferredLanguage)
	}

	tip, err := uc.gen.Generate(ctx, systemPrompt, prompt, 120)
	uc.obs.Generation("daily_tip", err == nil)
	if err != nil {
		uc.log.Warn("daily tip generation failed", "error", err)
		return fallbackTip
	}
	return tip
}

func (uc *ContentUseCase) Insights(ctx context.Context, user *domain.User, active []domain.ActiveChallenge, completed []domain.CompletedChallenge) []string {
	var b strings.Builder
	b.WriteString("Give 3 or 4 short, supportive insights about this user's challenge progress. ")
	b.WriteString("Respond with a JSON array of strings only.\n")
	for _, a := range active {
		fmt.Fprintf(&b, "- active: %s, %d/%d days, current streak %d\n",
			a.Challenge.Title, a.Progress.CompletedCount, a.Challenge.Duration, a.Progress.CurrentStreak)
	}
	for _, c := range completed {
		fmt.Fprintf(&b, "- completed: %s on %s\n", c.Challenge.Title, c.CompletedAt)
	}
	if user != nil {
		b.WriteString(languageHint(user.PreferredLanguage))
	}

	items, err := uc.gen.GenerateList(ctx, systemPrompt, b.String(), 400)
	uc.obs.Generation("insights", err == nil)
	if err != nil {
		uc.log.Warn("insights generation failed", "error", err)
		out := make([]string, len(fallbackInsights))
		copy(out, fallbackInsights)
		return out
	}
	return items
}

// Encouragement returns a one-line message for a progress update, or false
// when none could be generated.
func (uc *ContentUseCase) Encouragement(ctx context.Context, c domain.Challenge, p domain.Progress) (string, bool) {
	prompt := fmt.Sprintf(
		"The user just logged day %d of %d of the challenge %q (current streak %d). Write one encouraging sentence.",
		p.CompletedCount, c.Duration, c.Title, p.CurrentStreak)
	if p.Done {
		prompt = fmt.Sprintf("The user just finished the %d-day challenge %q. Write one congratulating sentence.", c.Duration, c.Title)
	}

	msg, err := uc.gen.Generate(ctx, systemPrompt, prompt, 60)
	uc.obs.Generation("encouragement", err == nil)
	if err != nil {
		uc.log.Warn("encouragement generation failed", "error", err)
		return "", false
	}
	return msg, true
}

func languageHint(lang string) string {
	if lang == "" || lang == "en" {
		return ""
	}
	return " Answer in the language with code " + lang + "."
}
