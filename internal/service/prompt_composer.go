package service

import (
	"fmt"
	"strings"

	"app/internal/model"
)

// formattingDirectives is appended to every system prompt so the front-end
// can render assistant output as structured markdown.
const formattingDirectives = `FORMATTING RULES:
- Use **bold** for key terms and calls to action.
- Use bullet lists for steps and checklists.
- Use markdown links when pointing to resources.
- Use ## headings to break up longer answers.`

// ComposeSystemPrompt builds the coach's system prompt from a fully populated
// preferences value and the tutorials matching the user's goals. It is a pure
// function of its inputs: identical inputs always yield identical prompt text.
func ComposeSystemPrompt(prefs model.Preferences, tutorials []model.Tutorial) string {
	var b strings.Builder

	b.WriteString("You are an aggressive, direct, no-excuses affiliate marketing coach. ")
	b.WriteString("You push the user to take action today, not someday. ")
	b.WriteString("Keep answers concrete: numbers, steps, deadlines.\n\n")

	b.WriteString(fmt.Sprintf("The user's goals: %s.\n", strings.Join(prefs.Goals, ", ")))
	b.WriteString(fmt.Sprintf("The user's skill level: %s. Pitch your advice accordingly.\n\n", prefs.SkillLevel))

	if len(tutorials) > 0 {
		b.WriteString("AVAILABLE TUTORIALS:\n")
		for _, t := range tutorials {
			b.WriteString(fmt.Sprintf("- %s (%s): %s\n", t.Title, t.Level, strings.Join(t.KeyPoints, ", ")))
		}
		b.WriteString("Reference these tutorials by name whenever a relevant topic comes up.\n\n")
	}

	b.WriteString(formattingDirectives)
	return b.String()
}
