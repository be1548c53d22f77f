package analytics

import (
	"fmt"
	"strings"

	"github.com/zron-max/momentum-gird/internal/core/domain"
)

// Rule maps a category percentage threshold to a badge. Title and Subtitle
// may contain one %d verb, replaced with the category's percentage.
type Rule struct {
	Category  string
	Threshold int
	Title     string
	Subtitle  string
}

// DefaultRules carries the product's stock thresholds as data so they can be
// tuned without touching the deriver.
func DefaultRules() []Rule {
	return []Rule{
		{Category: domain.CategoryHabits, Threshold: 70, Title: "Consistent: %d%% habits", Subtitle: "Good job!"},
		{Category: domain.CategoryLearning, Threshold: 50, Title: "%d%% learning goal", Subtitle: "Keep going!"},
		{Category: domain.CategoryProjects, Threshold: 50, Title: "Project momentum", Subtitle: "Milestones being completed"},
		{Category: domain.CategoryRoutines, Threshold: 80, Title: "Routine adherence", Subtitle: "%d%%"},
		{Category: domain.CategoryMeals, Threshold: 70, Title: "Healthy days", Subtitle: "%d%% complete"},
	}
}

func expand(template string, pct int) string {
	if strings.Contains(template, "%d") {
		return fmt.Sprintf(template, pct)
	}
	return template
}

// DeriveAchievements evaluates the rules in order against the category
// aggregates; every rule whose category meets or exceeds its threshold emits
// one achievement. When nothing fires, exactly one placeholder badge is
// returned so the dashboard always has something to render.
func DeriveAchievements(aggregates []domain.CategoryAggregate, rules []Rule) []domain.Achievement {
	percentages := make(map[string]int, len(aggregates))
	for _, a := range aggregates {
		percentages[a.CategoryID] = a.CompletionPercentage
	}

	var out []domain.Achievement
	for _, r := range rules {
		pct, ok := percentages[r.Category]
		if !ok || pct < r.Threshold {
			continue
		}
		out = append(out, domain.Achievement{
			Title:        expand(r.Title, pct),
			Subtitle:     expand(r.Subtitle, pct),
			ThresholdMet: r.Category,
		})
	}

	if len(out) == 0 {
		out = append(out, domain.Achievement{
			Title:    "No recent achievements",
			Subtitle: "Start logging to see achievements",
		})
	}

	return out
}
