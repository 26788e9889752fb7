package scanning

import (
	"strings"

	"github.com/cloudflare/ahocorasick"
)

// Category maps a spending category to the keywords that identify it
type Category struct {
	Name     string
	Keywords []string
}

// DefaultTaxonomy is the ordered category table. When a receipt matches
// keywords from several categories the earlier entry wins.
var DefaultTaxonomy = []Category{
	{Name: "Groceries", Keywords: []string{"market", "mart", "fresh", "food", "bakery", "dairy", "milk", "egg", "veg", "fruit", "grocery", "supermarket", "kirana"}},
	{Name: "Food", Keywords: []string{"restaurant", "cafe", "coffee", "burger", "pizza", "kitchen", "dining", "bistro", "bar", "tea", "snack", "hotel"}},
	{Name: "Travel", Keywords: []string{"fuel", "petrol", "gas", "station", "oil", "uber", "lyft", "ola", "taxi", "cab", "trip", "airline", "flight", "parking", "toll"}},
	{Name: "Medical", Keywords: []string{"pharmacy", "chemist", "hospital", "clinic", "doctor", "med", "health", "tablet", "pill"}},
	{Name: "Shopping", Keywords: []string{"fashion", "clothing", "apparel", "shoe", "wear", "retail", "mall", "amazon", "flipkart", "store", "myntra"}},
	{Name: "Utilities", Keywords: []string{"electric", "power", "water", "bill", "recharge", "wifi", "internet", "broadband", "airtel", "jio", "vodafone"}},
}

// Classifier guesses a spending category from receipt text using a single
// Aho-Corasick pass over all keywords. It is safe for concurrent use.
type Classifier struct {
	matcher    *ahocorasick.Matcher
	categories []string
	owner      []int // keyword index -> category index
}

// NewClassifier builds a classifier over an ordered taxonomy.
// A keyword listed under several categories belongs to the first one.
func NewClassifier(taxonomy []Category) *Classifier {
	c := &Classifier{categories: make([]string, len(taxonomy))}

	seen := make(map[string]bool)
	var keywords []string
	for i, cat := range taxonomy {
		c.categories[i] = cat.Name
		for _, kw := range cat.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw == "" || seen[kw] {
				continue
			}
			seen[kw] = true
			keywords = append(keywords, kw)
			c.owner = append(c.owner, i)
		}
	}

	if len(keywords) > 0 {
		c.matcher = ahocorasick.NewStringMatcher(keywords)
	}
	return c
}

// Classify returns the earliest-declared category with a keyword present in
// the text, or nil when nothing matches.
func (c *Classifier) Classify(text string) *string {
	if c.matcher == nil {
		return nil
	}

	best := -1
	for _, hit := range c.matcher.MatchThreadSafe([]byte(strings.ToLower(text))) {
		if hit < 0 || hit >= len(c.owner) {
			continue
		}
		if cat := c.owner[hit]; best < 0 || cat < best {
			best = cat
		}
	}
	if best < 0 {
		return nil
	}
	name := c.categories[best]
	return &name
}

// classificationText combines everything the classifier should look at
func classificationText(rawText string, merchant *string, items []LineItem) string {
	names := make([]string, len(items))
	for i, item := range items {
		names[i] = item.Name
	}
	m := ""
	if merchant != nil {
		m = *merchant
	}
	return strings.ToLower(rawText + " " + m + " " + strings.Join(names, " "))
}
