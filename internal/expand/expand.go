// Package expand rewrites student questions into retrieval-friendly
// queries by appending bilingual and terminology hints. Expansion is
// strictly additive so exact-match retrieval on the original wording
// is never degraded.
package expand

import (
	"fmt"
	"strings"
)

// rule is one trigger in the expansion table. English triggers match
// case-insensitively; Thai triggers match exact substrings. A rule
// fires only when its hint is not already present in the query.
type rule struct {
	trigger string
	unless  string // suppress when this substring is present (optional)
	hint    string
	thai    bool
}

// rules is the hand-maintained campus-term table. Declaration order is
// the order hints are appended in.
var rules = []rule{
	{trigger: "transcript", unless: "certificate", hint: "Transcript/Certificate"},
	{trigger: "power of attorney", hint: "Power of Attorney form"},
	{trigger: "student card", hint: "student card / citizen ID / passport"},

	{trigger: "ใบมอบอำนาจ", hint: "Power of Attorney", thai: true},
	{trigger: "บัตรนิสิต", hint: "student card", thai: true},
	{trigger: "นักศึกษา", hint: "student", thai: true},
	{trigger: "ทำบัตร", hint: "student card", thai: true},
	{trigger: "ลงทะเบียน", hint: "registration", thai: true},
	{trigger: "โปรแกรม", hint: "program (major)", thai: true},
	{trigger: "ผลคะแนนอังกฤษ", hint: "English score", thai: true},
	{trigger: "ทะเบียน", hint: "registrar", thai: true},
}

// Expand appends English hints for any matched campus terms as a single
// parenthetical suffix. Duplicate hints are suppressed by
// case-insensitive containment against the original query only. When no
// trigger fires the input is returned unchanged.
func Expand(query string) string {
	lower := strings.ToLower(query)

	var hints []string
	for _, r := range rules {
		if r.thai {
			if !strings.Contains(query, r.trigger) {
				continue
			}
		} else {
			if !strings.Contains(lower, r.trigger) {
				continue
			}
			if r.unless != "" && strings.Contains(lower, r.unless) {
				continue
			}
		}
		if strings.Contains(lower, strings.ToLower(r.hint)) {
			continue
		}
		hints = append(hints, r.hint)
	}

	if len(hints) == 0 {
		return query
	}
	return fmt.Sprintf("%s (%s)", query, strings.Join(hints, ", "))
}
