// Package categorize assigns each article one category from a fixed
// closed set by scoring its text against per-category keyword lists.
package categorize

import "strings"

// Category names in scoring order.
const (
	Technology    = "technology"
	Sports        = "sports"
	Business      = "business"
	Entertainment = "entertainment"
	General       = "general"
)

type entry struct {
	name     string
	keywords []string
}

// Table order decides ties: when two categories reach the same non-zero
// score, the earlier entry wins. Keywords are lowercase Portuguese.
var table = []entry{
	{Technology, []string{"tecnologia", "tech", "inovação", "digital"}},
	{Sports, []string{"esportes", "futebol", "olimpiadas", "copa"}},
	{Business, []string{"economia", "mercado", "empresas", "financas"}},
	{Entertainment, []string{"entretenimento", "famosos", "cultura", "tv"}},
	{General, []string{"geral", "brasil", "mundo", "politica"}},
}

// Categories returns the closed category set in table order.
func Categories() []string {
	names := make([]string, len(table))
	for i, e := range table {
		names[i] = e.name
	}
	return names
}

// Categorize scores title, description and content together against
// every category's keywords and returns the highest-scoring category.
// A text that matches no keyword at all is General. Pure function.
func Categorize(title, description, content string) string {
	text := strings.ToLower(title + " " + description + " " + content)

	best := General
	bestScore := 0
	for _, e := range table {
		score := 0
		for _, kw := range e.keywords {
			score += strings.Count(text, kw)
		}
		if score > bestScore {
			best = e.name
			bestScore = score
		}
	}
	return best
}
