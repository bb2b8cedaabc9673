package lang

import "testing"

func TestIsThai(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"ทำบัตรนักศึกษาหาย", true},
		{"mixed ภาษาไทย and English", true},
		{"How do I request a transcript?", false},
		{"", false},
		{"12345 !?", false},
		{"日本語テキスト", false},
	}
	for _, tt := range tests {
		if got := IsThai(tt.text); got != tt.want {
			t.Errorf("IsThai(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestReplyInstruction(t *testing.T) {
	tests := []struct {
		mode     Mode
		question string
		want     string
	}{
		{ModeThai, "any question", "Reply in Thai."},
		{ModeEng, "คำถามภาษาไทย", "Reply in English."},
		{ModeAuto, "คำถามภาษาไทย", "Reply in Thai."},
		{ModeAuto, "plain English question", "Reply in English."},
	}
	for _, tt := range tests {
		if got := ReplyInstruction(tt.mode, tt.question); got != tt.want {
			t.Errorf("ReplyInstruction(%q, %q) = %q, want %q", tt.mode, tt.question, got, tt.want)
		}
	}
}

func TestValid(t *testing.T) {
	for _, m := range []Mode{ModeAuto, ModeThai, ModeEng} {
		if !Valid(m) {
			t.Errorf("Valid(%q) = false, want true", m)
		}
	}
	if Valid(Mode("fr")) {
		t.Error("Valid(fr) = true, want false")
	}
}
