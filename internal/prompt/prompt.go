// Package prompt turns the generator form fields into the instruction text
// sent to the completion provider.
package prompt

// Objective is what the generated prompt should ask a model to do.
type Objective string

const (
	ObjectiveGenerate   Objective = "Generate"
	ObjectiveSummarize  Objective = "Summarize"
	ObjectiveTranslate  Objective = "Translate"
	ObjectiveCritique   Objective = "Critique"
	ObjectiveExplain    Objective = "Explain"
	ObjectiveCompare    Objective = "Compare"
	ObjectivePlan       Objective = "Plan"
	ObjectiveCode       Objective = "Code"
	ObjectiveBrainstorm Objective = "Brainstorm"
)

// Format is the shape of the output the generated prompt asks for.
type Format string

const (
	FormatParagraph     Format = "Paragraph"
	FormatBulletedList  Format = "Bulleted list"
	FormatMarkdownTable Format = "Markdown table"
	FormatJSON          Format = "JSON"
	FormatEmail         Format = "Email"
)

// Tone is the register the generated prompt asks for.
type Tone string

const (
	ToneProfessional   Tone = "Professional"
	ToneConversational Tone = "Conversational"
	ToneHumorous       Tone = "Humorous"
	ToneAcademic       Tone = "Academic"
	TonePersuasive     Tone = "Persuasive"
)

// Objectives, Formats and Tones are the closed choice sets in display order.
var (
	Objectives = []Objective{
		ObjectiveGenerate, ObjectiveSummarize, ObjectiveTranslate, ObjectiveCritique,
		ObjectiveExplain, ObjectiveCompare, ObjectivePlan, ObjectiveCode, ObjectiveBrainstorm,
	}
	Formats = []Format{
		FormatParagraph, FormatBulletedList, FormatMarkdownTable, FormatJSON, FormatEmail,
	}
	Tones = []Tone{
		ToneProfessional, ToneConversational, ToneHumorous, ToneAcademic, TonePersuasive,
	}
)

// Request is one generation's worth of form input. It lives only for the
// duration of a single generate action.
type Request struct {
	Objective    Objective `json:"objective" validate:"objective"`
	Topic        string    `json:"topic" validate:"notblank"`
	Role         string    `json:"role" validate:"notblank"`
	Format       Format    `json:"format" validate:"format"`
	Audience     string    `json:"audience" validate:"notblank"`
	Tone         Tone      `json:"tone" validate:"tone"`
	ExtraContext string    `json:"extra_context"`
}

// Default returns a Request preselecting the first entry of each choice set.
func Default() Request {
	return Request{Objective: Objectives[0], Format: Formats[0], Tone: Tones[0]}
}

// Choices bundles the closed sets for rendering and the options API.
type Choices struct {
	Objectives []Objective `json:"objectives"`
	Formats    []Format    `json:"formats"`
	Tones      []Tone      `json:"tones"`
}

// AllChoices returns every allowed value of each enumerated field.
func AllChoices() Choices {
	return Choices{Objectives: Objectives, Formats: Formats, Tones: Tones}
}

func (o Objective) valid() bool { return contains(Objectives, o) }
func (f Format) valid() bool    { return contains(Formats, f) }
func (t Tone) valid() bool      { return contains(Tones, t) }

func contains[T comparable](set []T, v T) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
