package graphalgo

import (
	"fmt"

	"github.com/DashankaNadeeshanDeSilva/papergraph/internal/text"
)

// NameCluster joins the corpus's top-3 terms over the community's
// member source ids with ", "; falls back to "Cluster <communityID>"
// when the corpus yields nothing (e.g. every member had an empty
// token list) (§4.8).
func NameCluster(corpus *text.Corpus, communityID int, memberSourceIDs []string) string {
	terms := corpus.TopTerms(memberSourceIDs, 3)
	if len(terms) == 0 {
		return fmt.Sprintf("Cluster %d", communityID)
	}

	name := terms[0]
	for _, t := range terms[1:] {
		name += ", " + t
	}
	return name
}
