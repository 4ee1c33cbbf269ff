package judge

import "strings"

// Kind is the classification of a judged answer.
type Kind int

const (
	Incorrect Kind = iota
	Partial
	Correct
)

// OfficialAnswerLabel introduces the official answer inside verdict text.
const OfficialAnswerLabel = "Respuesta correcta:"

func (k Kind) String() string {
	switch k {
	case Correct:
		return "correct"
	case Partial:
		return "partial"
	default:
		return "incorrect"
	}
}

// Points awarded for the verdict.
func (k Kind) Points() int {
	switch k {
	case Correct:
		return 2
	case Partial:
		return 1
	default:
		return 0
	}
}

// Verdict is the parsed judge output. Text always contains the official answer.
type Verdict struct {
	Kind           Kind
	Text           string
	OfficialAnswer string
}

// ParseVerdict classifies raw judge output and appends the official answer
// when the judge did not restate it.
func ParseVerdict(raw, officialAnswer string) Verdict {
	text := strings.TrimSpace(raw)
	if !strings.Contains(strings.ToLower(text), strings.ToLower(OfficialAnswerLabel)) {
		text += "\n\n💡 " + OfficialAnswerLabel + " " + officialAnswer
	}
	return Verdict{
		Kind:           Classify(raw),
		Text:           text,
		OfficialAnswer: officialAnswer,
	}
}

// Classify inspects the leading token: CORRECTA, PARCIAL, anything else is incorrect.
func Classify(raw string) Kind {
	lead := strings.ToUpper(strings.TrimLeft(raw, " \t\r\n*_`#>"))
	switch {
	case strings.HasPrefix(lead, "CORRECTA"):
		return Correct
	case strings.HasPrefix(lead, "PARCIAL"):
		return Partial
	default:
		return Incorrect
	}
}
