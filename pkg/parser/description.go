package parser

import (
	"regexp"

	"github.com/movimail/movimail/pkg/extract"
)

// descriptionRules is a bank's ordered regex table for pulling a merchant
// or concept out of a notification. The first matching pattern wins; the
// fallbacks mirror the extraction text choice (body, then subject, then a
// bank placeholder).
type descriptionRules struct {
	patterns      []*regexp.Regexp
	clean         *regexp.Regexp // stripped from the captured group, may be nil
	subjectPrefix *regexp.Regexp // stripped when falling back to the subject
	placeholder   string
}

func (r descriptionRules) extract(body, subject string) string {
	text := body
	if text == "" {
		text = subject
	}

	for _, re := range r.patterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		desc := m[1]
		if r.clean != nil {
			desc = r.clean.ReplaceAllString(desc, "")
		}
		return extract.NormalizeDescription(desc)
	}

	if subject != "" {
		return extract.NormalizeDescription(r.subjectPrefix.ReplaceAllString(subject, ""))
	}

	if text == "" {
		return r.placeholder
	}
	if runes := []rune(text); len(runes) > 100 {
		text = string(runes[:100])
	}
	return extract.NormalizeDescription(text)
}
