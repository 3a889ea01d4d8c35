package text

// stopwordList combines standard English function words with the
// academic-discourse vocabulary that dominates paper titles/abstracts
// (§4.4). Fixed and literal: any change to this list changes every
// downstream TF-IDF vector, so it is never derived from a library or
// loaded from a file.
var stopwordList = []string{
	// function words
	"a", "an", "the", "and", "or", "but", "if", "then", "else", "when",
	"at", "by", "for", "with", "without", "about", "against", "between",
	"into", "through", "during", "before", "after", "above", "below",
	"to", "from", "up", "down", "in", "out", "on", "off", "over", "under",
	"again", "further", "once", "here", "there", "all", "any", "both",
	"each", "few", "more", "most", "other", "some", "such", "no", "nor",
	"not", "only", "own", "same", "so", "than", "too", "very", "can",
	"will", "just", "don", "should", "now", "of", "is", "are", "was",
	"were", "be", "been", "being", "have", "has", "had", "having", "do",
	"does", "did", "doing", "would", "could", "ought", "this", "that",
	"these", "those", "am", "it", "its", "itself", "they", "them",
	"their", "theirs", "themselves", "we", "us", "our", "ours",
	"ourselves", "you", "your", "yours", "yourself", "yourselves", "he",
	"him", "his", "himself", "she", "her", "hers", "herself", "who",
	"whom", "which", "what", "while", "as", "because", "until", "per",
	"via", "also", "thus", "hence", "therefore", "however", "although",
	"upon", "within", "across", "among", "towards", "toward", "onto",
	"unless", "whereas", "whereby", "yet", "one", "two", "three",

	// academic discourse words
	"paper", "papers", "study", "studies", "research", "article",
	"work", "works", "propose", "proposed", "proposes", "proposing",
	"present", "presented", "presents", "presenting", "method",
	"methods", "methodology", "approach", "approaches", "framework",
	"model", "models", "modeling", "result", "results", "finding",
	"findings", "conclusion", "conclusions", "discuss", "discussed",
	"discussion", "analysis", "analyze", "analyzed", "analyzing",
	"evaluate", "evaluated", "evaluation", "experiment", "experiments",
	"experimental", "demonstrate", "demonstrated", "demonstrates",
	"show", "shows", "shown", "showing", "introduce", "introduced",
	"introduces", "introducing", "novel", "new", "existing", "recent",
	"recently", "previous", "previously", "compared", "compare",
	"comparison", "performance", "significant", "significantly",
	"effective", "effectiveness", "efficient", "efficiency",
	"improve", "improved", "improves", "improving", "improvement",
	"state-of-the-art", "baseline", "baselines", "dataset", "datasets",
	"data", "benchmark", "benchmarks", "task", "tasks", "problem",
	"problems", "challenge", "challenges", "solution", "solutions",
	"contribution", "contributions", "section", "sections", "figure",
	"figures", "table", "tables", "abstract", "introduction", "related",
	"survey", "review", "overview", "furthermore", "moreover",
	"additionally", "based", "using", "used", "use", "uses",
}

var stopwords = buildStopwordSet()

func buildStopwordSet() map[string]bool {
	set := make(map[string]bool, len(stopwordList))
	for _, w := range stopwordList {
		set[w] = true
	}
	return set
}
