package delivery

import (
	"github.com/maxaizer/job-monitor/internal/entities"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"strings"
)

var sourceLabels = map[entities.Source]string{
	"capa":            "CAPA",
	"interimsearch":   "Interim Search",
	"wise":            "Wise",
	"headagent":       "Head Agent",
	"michaelberglund": "Michael Berglund",
	"mason":           "Mason",
	"hammerhanborg":   "Hammer & Hanborg",
	"novare":          "Novare",
	"platsbanken":     "Platsbanken (Arbetsförmedlingen)",
}

// SourceLabel returns the display name of a source, title-casing unknown identifiers.
func SourceLabel(source entities.Source) string {
	if label, ok := sourceLabels[source]; ok {
		return label
	}
	words := strings.ReplaceAll(string(source), "_", " ")
	return cases.Title(language.Swedish).String(words)
}
