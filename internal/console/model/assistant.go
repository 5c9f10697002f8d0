package model

// Language is the language an assistant answers in.
type Language string

const (
	Spanish    Language = "Español"
	English    Language = "Inglés"
	Portuguese Language = "Portugués"
)

// Languages lists the selectable languages in display order.
var Languages = []Language{Spanish, English, Portuguese}

// Tone is the register an assistant answers in.
type Tone string

const (
	Professional Tone = "Profesional"
	Casual       Tone = "Casual"
	Formal       Tone = "Formal"
	Friendly     Tone = "Amigable"
)

// Tones lists the selectable tones in display order.
var Tones = []Tone{Professional, Casual, Formal, Friendly}

// ResponseLength is the percentage mix of short, medium and long replies.
// The three values must add up to 100 before an assistant is persisted.
type ResponseLength struct {
	Short  int `json:"short" validate:"min=0,max=100"`
	Medium int `json:"medium" validate:"min=0,max=100"`
	Long   int `json:"long" validate:"min=0,max=100"`
}

// Sum returns Short+Medium+Long.
func (r ResponseLength) Sum() int {
	return r.Short + r.Medium + r.Long
}

// Assistant is a conversational profile. It is replaced wholesale on update.
type Assistant struct {
	ID             string         `json:"id" validate:"required"`
	Name           string         `json:"name" validate:"assistant_name"`
	Language       Language       `json:"language" validate:"required,oneof=Español Inglés Portugués"`
	Tone           Tone           `json:"tone" validate:"required,oneof=Profesional Casual Formal Amigable"`
	ResponseLength ResponseLength `json:"responseLength"`
	AudioEnabled   bool           `json:"audioEnabled"`
	Rules          string         `json:"rules"`
}

// CloneAssistants returns a copy of list. A nil list stays nil so that
// "never fetched" and "fetched, empty" remain distinguishable.
func CloneAssistants(list []Assistant) []Assistant {
	if list == nil {
		return nil
	}
	out := make([]Assistant, len(list))
	copy(out, list)
	return out
}

// IndexOf returns the position of id in list, or -1.
func IndexOf(list []Assistant, id string) int {
	for i := range list {
		if list[i].ID == id {
			return i
		}
	}
	return -1
}
