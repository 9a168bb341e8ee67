package enrichment

import (
	"github.com/maxaizer/job-monitor/internal/entities"
	"github.com/maxaizer/job-monitor/internal/textmatch"
	"strings"
)

var (
	interimHints   = []string{"interim", "konsult", "consultant", "temporary", "visstid"}
	permanentHints = []string{"permanent", "tillsvidare", "full-time", "heltid"}

	interimKeywords = textmatch.CompileAll([]string{
		"interim", "fractional", "konsult", "uppdrag", "deltid", "konsultuppdrag", "interimschef",
	})
	permanentKeywords = textmatch.CompileAll([]string{
		"tillsvidare", "fast tjänst", "permanent", "heltid", "tillsvidareanställning", "fast anställning",
	})
)

// ClassifyEmploymentType returns nil when the type cannot be determined.
// A recognised apiHint always wins over the text.
func ClassifyEmploymentType(title, description, apiHint string) *entities.EmploymentType {
	if hint := strings.ToLower(strings.TrimSpace(apiHint)); hint != "" {
		for _, h := range interimHints {
			if hint == h {
				return employmentType(entities.Interim)
			}
		}
		for _, h := range permanentHints {
			if hint == h {
				return employmentType(entities.Permanent)
			}
		}
	}

	text := textmatch.Join(title, description)
	isInterim := textmatch.AnyIn(interimKeywords, text)
	isPermanent := textmatch.AnyIn(permanentKeywords, text)

	switch {
	case isInterim && isPermanent:
		return classifyByTitle(title)
	case isInterim:
		return employmentType(entities.Interim)
	case isPermanent:
		return employmentType(entities.Permanent)
	default:
		return nil
	}
}

func classifyByTitle(title string) *entities.EmploymentType {
	text := textmatch.NewText(title)
	isInterim := textmatch.AnyIn(interimKeywords, text)
	isPermanent := textmatch.AnyIn(permanentKeywords, text)

	if isInterim && !isPermanent {
		return employmentType(entities.Interim)
	}
	if isPermanent && !isInterim {
		return employmentType(entities.Permanent)
	}
	return nil
}

func employmentType(t entities.EmploymentType) *entities.EmploymentType {
	return &t
}
