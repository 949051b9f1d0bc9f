package nlviz

import (
	"strings"

	"github.com/lokeshwaranbm/No-code-data-analytics/internal/schema"
)

// checkTopic rejects prompts that are not analytics requests.
func checkTopic(prompt string, sch schema.Schema) error {
	if strings.TrimSpace(prompt) == "" {
		return notUnderstood()
	}
	words := wordForm(prompt)
	for _, phrase := range smallTalk {
		if strings.Contains(words, " "+phrase+" ") {
			return offTopic()
		}
	}
	lower := strings.ToLower(prompt)
	if containsAny(lower, analyticsKeywords) {
		return nil
	}
	np := Normalize(prompt)
	cols := append(append(append([]string{}, sch.Numeric...), sch.Categorical...), sch.Datetime...)
	for _, col := range cols {
		if nc := Normalize(col); nc != "" && strings.Contains(np, nc) {
			return nil
		}
	}
	return notUnderstood()
}
