package source

import (
	"testing"

	"github.com/elonfeng/newsprio/pkg/article"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	c := NewClassifier(nil, article.CategoryEntertainment)

	tests := []struct {
		text string
		want article.Category
	}{
		{"India wins cricket World Cup final", article.CategorySports},
		{"Sensex rallies as RBI holds rates", article.CategoryBusiness},
		{"ISRO launches new satellite", article.CategoryTechnology},
		{"Chief Minister faces opposition in assembly", article.CategoryPolitics},
		{"Bollywood trailer breaks records", article.CategoryEntertainment},
		{"Weather stays pleasant", article.CategoryEntertainment},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, c.Classify(tt.text), tt.text)
	}
}

func TestClassifyMatchesWholeWords(t *testing.T) {
	c := NewClassifier(nil, article.CategoryBusiness)
	// "said" must not count as "ai", "goalkeeper" not as "goal".
	assert.Equal(t, article.CategoryBusiness, c.Classify("He said the goalkeeper left"))
}

func TestClassifyTieGoesToFirstCategory(t *testing.T) {
	c := NewClassifier(nil, article.CategoryPolitics)
	// "startup" is both a Business and a Technology keyword.
	assert.Equal(t, article.CategoryBusiness, c.Classify("a startup"))
}

func TestClassifyExtraKeywords(t *testing.T) {
	c := NewClassifier(map[article.Category][]string{
		article.CategoryTechnology: {" Quantum "},
	}, article.CategoryBusiness)
	assert.Equal(t, article.CategoryTechnology, c.Classify("Quantum computing milestone"))

	// Defaults are not mutated by extras.
	assert.NotContains(t, DefaultCategoryKeywords[article.CategoryTechnology], " Quantum ")
}
