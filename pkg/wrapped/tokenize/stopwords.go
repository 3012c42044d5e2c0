package tokenize

// maskingTokens are the lowercase forms of sanitization placeholders; they
// appear in masked text but never describe a topic.
var maskingTokens = []string{"url", "path", "email", "secret", "truncated"}

// stopwordSets holds the built-in per-language stopword tables. Tokens
// shorter than minTokenLength never reach the filter, so two-letter
// function words are omitted.
var stopwordSets = map[string][]string{
	LanguageEnglish: englishStopwords,
	LanguageSpanish: spanishStopwords,
}

var englishStopwords = []string{
	"the", "and", "for", "are", "but", "not", "you", "all", "any", "can",
	"had", "her", "was", "one", "our", "out", "day", "get", "has", "him",
	"his", "how", "man", "new", "now", "old", "see", "two", "way", "who",
	"did", "its", "let", "put", "say", "she", "too", "use", "that", "with",
	"have", "this", "will", "your", "from", "they", "know", "want", "been",
	"good", "much", "some", "time", "very", "when", "come", "here", "just",
	"like", "long", "make", "many", "more", "only", "over", "such", "take",
	"than", "them", "well", "were", "what", "where", "which", "while", "would",
	"there", "their", "about", "could", "other", "after", "first", "never",
	"these", "think", "also", "into", "because", "does", "doesnt", "dont",
	"doesn", "don", "didn", "isn", "won", "couldn", "shouldn", "wouldn",
	"should", "cant", "cannot", "isnt", "wont", "why", "then", "each",
	"between", "both", "before", "being", "same", "still", "even", "again",
	"using", "used", "need", "needs", "trying", "tried", "getting", "instead",
	"something", "anything", "someone", "thing", "things", "please", "thanks",
	"help", "work", "works", "working", "issue", "problem", "question",
	"best", "better",
}

var spanishStopwords = []string{
	"que", "qué", "los", "las", "del", "por", "con", "una", "para", "este",
	"esta", "como", "cómo", "pero", "mas", "más", "sus", "les", "muy", "sin", "sobre",
	"también", "tambien", "hasta", "hay", "donde", "dónde", "quien", "quién",
	"desde", "todo", "todos", "toda", "todas", "otro", "otra", "otros",
	"otras", "ese", "esa", "esos", "esas", "esto", "estos", "estas", "algo",
	"nada", "cada", "tal", "vez", "porque", "cuando", "cuándo", "cual",
	"cuál", "ser", "son", "fue", "era", "está", "están", "estoy",
	"tengo", "tiene", "tienen", "hace", "hacer", "puede", "puedo", "pueden",
	"quiero", "quiere", "debe", "debo", "sea", "solo", "sólo", "aquí",
	"aqui", "ahí", "ahora", "entonces", "así", "asi", "bien", "mal",
	"ayuda", "gracias", "favor", "pregunta", "problema", "necesito", "usar",
	"usando", "funciona", "mejor", "algún", "algun", "alguna", "ningún",
	"ningun", "mismo", "misma", "antes", "después", "despues", "durante",
	"entre", "contra",
}
