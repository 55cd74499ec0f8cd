package extract

import (
	"context"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/matzehuels/textuml/pkg/model"
)

// Failure messages returned by [Heuristic].
const (
	MsgTooShort  = "Text is too short. Please provide more details."
	MsgNoClasses = "No classes found. Use capitalized class names like Student, Book, etc."
)

// minTextLength is the shortest trimmed text the heuristic accepts.
const minTextLength = 10

var (
	explicitClassRe = regexp.MustCompile(`(?i)(?:class|entity|table)\s+(\w+)`)
	capitalizedRe   = regexp.MustCompile(`\b([A-Z][a-z]+)\b`)
	listSplitRe     = regexp.MustCompile(`,|\sand\s`)
	articleRe       = regexp.MustCompile(`\b(?:a|an|the)\b`)

	stopWords = map[string]bool{
		"Has": true, "Have": true, "The": true, "And": true, "With": true,
		"From": true, "For": true, "That": true, "This": true,
	}
)

// relationRule matches "<source> <phrase> <target>" in lower-cased text.
type relationRule struct {
	kind    model.Kind
	phrases []string
}

// Rules are tried in order; the first match wins for an ordered pair.
var relationRules = []relationRule{
	{model.KindInheritance, []string{"inherits from", "extends"}},
	{model.KindComposition, []string{"consists of"}},
	{model.KindAggregation, []string{"contains", "has"}},
	{model.KindAssociation, []string{"uses"}},
}

// Heuristic extracts diagrams with pattern rules:
//
//   - classes are words after "class", "entity" or "table", plus every
//     capitalised word, minus a few stop words and names of two letters or
//     fewer;
//   - "<Class> has a, b and c" lists attributes;
//   - "<A> inherits from|extends|consists of|contains|has|uses <B>" relates
//     two classes.
//
// The zero value is ready to use.
type Heuristic struct{}

// Name implements [Named].
func (Heuristic) Name() string { return "heuristic" }

// Extract implements [Extractor].
func (h Heuristic) Extract(ctx context.Context, text string) (*model.Diagram, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	resp := h.Process(text)
	return resp.Diagram()
}

// Process runs the rules and returns the wire response.
func (Heuristic) Process(text string) Response {
	if utf8.RuneCountInString(strings.TrimSpace(text)) < minTextLength {
		return Response{Error: MsgTooShort}
	}
	classes := findClasses(text)
	if len(classes) == 0 {
		return Response{Error: MsgNoClasses}
	}
	return Response{
		Success:       true,
		Classes:       classes,
		Attributes:    findAttributes(text, classes),
		Relationships: findRelationships(text, classes),
	}
}

func findClasses(text string) []string {
	title := cases.Title(language.English)
	found := map[string]struct{}{}
	for _, m := range explicitClassRe.FindAllStringSubmatch(text, -1) {
		found[title.String(m[1])] = struct{}{}
	}
	for _, m := range capitalizedRe.FindAllStringSubmatch(text, -1) {
		found[m[1]] = struct{}{}
	}

	classes := make([]string, 0, len(found))
	for c := range found {
		if stopWords[c] || utf8.RuneCountInString(c) <= 2 {
			continue
		}
		classes = append(classes, c)
	}
	slices.Sort(classes)
	return classes
}

func findAttributes(text string, classes []string) map[string][]string {
	lower := strings.ToLower(text)
	lowered := make(map[string]bool, len(classes))
	for _, c := range classes {
		lowered[strings.ToLower(c)] = true
	}

	attrs := make(map[string][]string, len(classes))
	for _, cls := range classes {
		list := []string{}
		re := regexp.MustCompile(regexp.QuoteMeta(strings.ToLower(cls)) + `\s+(?:has|have)\s+([^.!?]+)`)
		for _, m := range re.FindAllStringSubmatch(lower, -1) {
			for _, part := range listSplitRe.Split(m[1], -1) {
				part = strings.TrimSpace(articleRe.ReplaceAllString(strings.TrimSpace(part), ""))
				if part == "" || lowered[part] {
					continue
				}
				name := strings.Fields(part)[0]
				if utf8.RuneCountInString(name) > 1 && !slices.Contains(list, name) {
					list = append(list, name)
				}
			}
		}
		attrs[cls] = list
	}
	return attrs
}

func findRelationships(text string, classes []string) []model.Relationship {
	lower := strings.ToLower(text)
	rels := []model.Relationship{}
	for _, src := range classes {
		for _, dst := range classes {
			if src == dst {
				continue
			}
			if kind, ok := matchRelation(lower, strings.ToLower(src), strings.ToLower(dst)); ok {
				rels = append(rels, model.Relationship{Source: src, Target: dst, Kind: kind}.WithDefaults())
			}
		}
	}
	return rels
}

func matchRelation(text, src, dst string) (model.Kind, bool) {
	for _, rule := range relationRules {
		for _, phrase := range rule.phrases {
			if strings.Contains(text, src+" "+phrase+" "+dst) {
				return rule.kind, true
			}
		}
	}
	return "", false
}
