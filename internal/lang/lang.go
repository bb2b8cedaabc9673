// Package lang picks the reply language for an answer. Detection is a
// plain code-point test: a question counts as Thai when any rune falls
// in the Thai Unicode block.
package lang

// Mode selects the reply language.
type Mode string

const (
	ModeAuto Mode = "auto"
	ModeThai Mode = "th"
	ModeEng  Mode = "en"
)

const (
	instructThai = "Reply in Thai."
	instructEng  = "Reply in English."
)

// IsThai reports whether text contains at least one rune in the Thai
// block (U+0E00–U+0E7F).
func IsThai(text string) bool {
	for _, r := range text {
		if r >= 0x0E00 && r <= 0x0E7F {
			return true
		}
	}
	return false
}

// ReplyInstruction builds the language instruction for the prompt.
// Explicit modes win; auto mirrors the raw (unexpanded) question.
func ReplyInstruction(mode Mode, question string) string {
	switch mode {
	case ModeThai:
		return instructThai
	case ModeEng:
		return instructEng
	}
	if IsThai(question) {
		return instructThai
	}
	return instructEng
}

// Valid reports whether mode is one of the recognized values.
func Valid(mode Mode) bool {
	return mode == ModeAuto || mode == ModeThai || mode == ModeEng
}
