// Package entities implements the dictionary-matching entity
// extractor (§4.10): a fixed, curated vocabulary of dataset, method,
// task and metric names matched case-insensitively, on word
// boundaries, against each paper's title and abstract. There is no
// learned NER model in scope — enrichment-stage entity discovery
// (RoleIntroduces) is a declared Non-goal of the core build engine.
package entities

import (
	"regexp"
	"strings"

	"github.com/DashankaNadeeshanDeSilva/papergraph/internal/models"
	"github.com/DashankaNadeeshanDeSilva/papergraph/internal/store"
)

type compiledEntry struct {
	entry dictionaryEntry
	re    *regexp.Regexp
}

var compiledDictionary = compileDictionary()

func compileDictionary() []compiledEntry {
	entries := buildDictionary()
	compiled := make([]compiledEntry, 0, len(entries))
	for _, e := range entries {
		pattern := `(?i)\b` + regexp.QuoteMeta(e.Name) + `\b`
		compiled = append(compiled, compiledEntry{entry: e, re: regexp.MustCompile(pattern)})
	}
	return compiled
}

// Mention is one entity found in a single paper's text, still
// addressed by name rather than by store-assigned id.
type Mention struct {
	Type models.EntityType
	Name string
	Role models.EntityRole
}

// ExtractMentions scans title and abstract for every dictionary entry
// that occurs at least once, deduplicated by (type, lowercased name)
// within this one paper (§4.10 step 1).
func ExtractMentions(p models.Paper) []Mention {
	text := p.Title
	if p.Abstract != nil {
		text = text + " " + *p.Abstract
	}
	if strings.TrimSpace(text) == "" {
		return nil
	}

	seen := make(map[string]bool)
	var mentions []Mention
	for _, c := range compiledDictionary {
		if !c.re.MatchString(text) {
			continue
		}
		key := string(c.entry.Type) + "|" + strings.ToLower(c.entry.Name)
		if seen[key] {
			continue
		}
		seen[key] = true
		mentions = append(mentions, Mention{Type: c.entry.Type, Name: c.entry.Name, Role: roleFor(c.entry.Type)})
	}
	return mentions
}

// BatchExtract runs ExtractMentions over every paper and merges the
// result into a deduplicated entity list plus index-addressed
// paper-entity links, in the shape InsertEntityBatch's single
// transaction expects (§4.10 step 2: "Batch-extraction merges
// identical entities across papers").
func BatchExtract(papers []models.Paper) ([]models.Entity, []store.EntityLinkByIndex) {
	entityIndex := make(map[string]int)
	var entityList []models.Entity
	var links []store.EntityLinkByIndex

	for _, p := range papers {
		for _, m := range ExtractMentions(p) {
			key := string(m.Type) + "|" + strings.ToLower(m.Name)
			idx, ok := entityIndex[key]
			if !ok {
				idx = len(entityList)
				entityIndex[key] = idx
				entityList = append(entityList, models.Entity{Type: m.Type, Name: m.Name})
			}
			links = append(links, store.EntityLinkByIndex{PaperID: p.ID, EntityIndex: idx, Role: m.Role})
		}
	}

	return entityList, links
}
