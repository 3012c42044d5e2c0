// Package report holds the narrative allowlist: the fixed, per-language
// tables naming which summary fields a narrative consumer may reference per
// report section, and the prompt assembly that serializes a summary into a
// grounded narration request.
package report

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/S2thend/cursor-history-mcp/pkg/wrapped"
)

// Section is one narrative block. Fields lists the summary fields, as JSON
// paths, that the narrator is permitted to reference in that block.
type Section struct {
	Name   string
	Title  string
	Fields []string
}

var englishSections = []Section{
	{
		Name:   "overview",
		Title:  "The year in numbers",
		Fields: []string{"meta.year", "stats.totalQuestions", "stats.activeMonths", "stats.monthlyDistribution"},
	},
	{
		Name:   "topics",
		Title:  "What you worked on",
		Fields: []string{"topics"},
	},
	{
		Name:   "keywords",
		Title:  "Your vocabulary",
		Fields: []string{"keywords.unigrams", "keywords.bigrams"},
	},
	{
		Name:   "habits",
		Title:  "How you ask",
		Fields: []string{"lengthBuckets"},
	},
	{
		Name:   "highlights",
		Title:  "Questions that stood out",
		Fields: []string{"samples.questions"},
	},
	{
		Name:   "caveats",
		Title:  "Worth noting",
		Fields: []string{"notes"},
	},
}

var spanishSections = []Section{
	{
		Name:   "overview",
		Title:  "El año en cifras",
		Fields: []string{"meta.year", "stats.totalQuestions", "stats.activeMonths", "stats.monthlyDistribution"},
	},
	{
		Name:   "topics",
		Title:  "En qué trabajaste",
		Fields: []string{"topics"},
	},
	{
		Name:   "keywords",
		Title:  "Tu vocabulario",
		Fields: []string{"keywords.unigrams", "keywords.bigrams"},
	},
	{
		Name:   "habits",
		Title:  "Cómo preguntas",
		Fields: []string{"lengthBuckets"},
	},
	{
		Name:   "highlights",
		Title:  "Preguntas destacadas",
		Fields: []string{"samples.questions"},
	},
	{
		Name:   "caveats",
		Title:  "A tener en cuenta",
		Fields: []string{"notes"},
	},
}

var instructions = map[string]string{
	"en": "Write a friendly year-in-review for a developer from the facts below. " +
		"One short paragraph per numbered section, in English. " +
		"Use ONLY the listed facts; never invent numbers and never quote a question that is not shown.",
	"es": "Escribe un resumen anual cercano para una persona desarrolladora a partir de los datos siguientes. " +
		"Un párrafo corto por sección numerada, en español. " +
		"Usa SOLO los datos listados; nunca inventes cifras ni cites una pregunta que no aparezca.",
}

// Allowlist returns the narrative sections for a language. Unknown languages
// fall back to English.
func Allowlist(language string) []Section {
	if language == "es" {
		return spanishSections
	}
	return englishSections
}

// Prompt serializes a summary into a narration request. Only facts covered
// by the allowlist sections are written out; sections without data are
// skipped.
func Prompt(s *wrapped.Summary, language string) string {
	instr, ok := instructions[language]
	if !ok {
		instr = instructions["en"]
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s\n\n", instr)

	n := 0
	for _, section := range Allowlist(language) {
		body := renderSection(s, section.Name)
		if body == "" {
			continue
		}
		n++
		fmt.Fprintf(&buf, "%d. %s\n%s", n, section.Title, body)
	}

	return buf.String()
}

func renderSection(s *wrapped.Summary, name string) string {
	var buf bytes.Buffer
	switch name {
	case "overview":
		fmt.Fprintf(&buf, "   - year: %d\n", s.Meta.Year)
		fmt.Fprintf(&buf, "   - total questions: %d\n", s.Stats.TotalQuestions)
		fmt.Fprintf(&buf, "   - active months: %d\n", s.Stats.ActiveMonths)
		for _, month := range sortedMonths(s.Stats.MonthlyDistribution) {
			fmt.Fprintf(&buf, "   - %s: %d\n", month, s.Stats.MonthlyDistribution[month])
		}
	case "topics":
		for _, topic := range s.Topics {
			fmt.Fprintf(&buf, "   - %s: share %.0f%%, trend early %.0f%% mid %.0f%% late %.0f%%, keywords:",
				topic.Name, topic.Share*100,
				topic.Trend.Early*100, topic.Trend.Mid*100, topic.Trend.Late*100)
			for _, kw := range topic.Keywords {
				fmt.Fprintf(&buf, " %s", kw)
			}
			fmt.Fprintf(&buf, "\n")
		}
	case "keywords":
		for i, kw := range s.Keywords.Unigrams {
			if i >= 10 {
				break
			}
			fmt.Fprintf(&buf, "   - term %q used %d times\n", kw.Term, kw.Count)
		}
		for i, kw := range s.Keywords.Bigrams {
			if i >= 5 {
				break
			}
			fmt.Fprintf(&buf, "   - phrase %q used %d times\n", kw.Term, kw.Count)
		}
	case "habits":
		b := s.LengthBuckets
		if b.Short+b.Medium+b.Long > 0 {
			fmt.Fprintf(&buf, "   - short questions (<=100 chars): %d\n", b.Short)
			fmt.Fprintf(&buf, "   - medium questions (101-280 chars): %d\n", b.Medium)
			fmt.Fprintf(&buf, "   - long questions (>=281 chars): %d\n", b.Long)
		}
	case "highlights":
		for _, q := range s.Samples.Questions {
			fmt.Fprintf(&buf, "   - %q\n", q)
		}
	case "caveats":
		for _, note := range s.Notes {
			fmt.Fprintf(&buf, "   - %s\n", note)
		}
	}
	return buf.String()
}

func sortedMonths(dist map[string]int) []string {
	months := make([]string, 0, len(dist))
	for month := range dist {
		months = append(months, month)
	}
	sort.Strings(months)
	return months
}
