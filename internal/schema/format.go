package schema

// FormattedQuestion is the shape the mobile app renders a survey question from.
type FormattedQuestion struct {
	ID      QuestionType   `json:"id"`
	ColName string         `json:"colName"`
	Prompt  string         `json:"prompt"`
	Fields  map[string]any `json:"fields"`
}

// FormattedPrompt is the shape the mobile app renders a prompt from.
type FormattedPrompt struct {
	ID      QuestionType `json:"id"`
	ColName string       `json:"colName"`
	Prompt  string       `json:"prompt"`
	Choices []string     `json:"choices"`
}

// FormatQuestions renders the resolved survey questions in order.
func (r *Resolved) FormatQuestions() []FormattedQuestion {
	out := make([]FormattedQuestion, 0, len(r.Questions))
	for _, q := range r.Questions {
		fields := map[string]any{}
		switch names := q.Type.Fields(); len(names) {
		case 0:
		case 1:
			fields["choices"] = choiceTexts(q.Choices)
		default:
			for _, n := range names {
				fields[n] = nil
			}
		}
		out = append(out, FormattedQuestion{ID: q.Type, ColName: q.Label, Prompt: q.Prompt, Fields: fields})
	}
	return out
}

// FormatPrompts renders the resolved prompts in order.
func (r *Resolved) FormatPrompts() []FormattedPrompt {
	out := make([]FormattedPrompt, 0, len(r.Prompts))
	for _, p := range r.Prompts {
		out = append(out, FormattedPrompt{ID: p.Type, ColName: p.Label, Prompt: p.Prompt, Choices: choiceTexts(p.Choices)})
	}
	return out
}

// A lone blank choice is how the survey builder stores "no choices".
func choiceTexts(in []string) []string {
	if len(in) == 1 && in[0] == "" {
		return []string{}
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

// Formatted is the schema portion of the register payload.
type Formatted struct {
	Questions []FormattedQuestion `json:"questions"`
	Prompts   []FormattedPrompt   `json:"prompts"`
}

func (r *Resolved) Format() Formatted {
	return Formatted{Questions: r.FormatQuestions(), Prompts: r.FormatPrompts()}
}
