package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mailsift/mailsift/internal/model"
)

func TestCompile_TierAssignment(t *testing.T) {
	set := Compile([]model.Category{
		{
			ID: "demo",
			Keywords: model.Keywords{
				Absolute: []string{"facture"},
				Strong:   []string{"paiement", "iban"},
				Weak:     []string{"montant"},
			},
			Exclusions: []string{"publicité"},
		},
	})

	require.Equal(t, 1, set.Len())
	compiled := set.Categories()[0]

	assert.Len(t, compiled.Absolute, 1)
	assert.Len(t, compiled.Strong, 2)
	assert.Len(t, compiled.Weak, 1)
	assert.Len(t, compiled.Exclusions, 1)
	assert.Equal(t, model.TierAbsolute, compiled.Absolute[0].Tier)
	assert.Equal(t, model.TierExclusion, compiled.Exclusions[0].Tier)
}

func TestMatcher_Matches(t *testing.T) {
	tests := []struct {
		name    string
		keyword string
		text    string
		want    bool
	}{
		{
			name:    "exact substring",
			keyword: "facture",
			text:    "votre facture est disponible",
			want:    true,
		},
		{
			name:    "case insensitive",
			keyword: "Facture",
			text:    "FACTURE N°1234",
			want:    true,
		},
		{
			name:    "partial word match is accepted",
			keyword: "urgent",
			text:    "please respond urgently",
			want:    true,
		},
		{
			name:    "accented keyword",
			keyword: "réunion",
			text:    "réunion prévue demain",
			want:    true,
		},
		{
			name:    "no occurrence",
			keyword: "virement",
			text:    "bonjour et bienvenue",
			want:    false,
		},
		{
			name:    "regex metacharacters are literal",
			keyword: "50% (promo)",
			text:    "profitez de 50% (promo) aujourd'hui",
			want:    true,
		},
		{
			name:    "metacharacters do not act as regex",
			keyword: "a.c",
			text:    "abc",
			want:    false,
		},
		{
			name:    "dollar and brackets literal",
			keyword: "[$100]",
			text:    "you owe [$100] now",
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := Compile([]model.Category{{
				ID:       "demo",
				Keywords: model.Keywords{Absolute: []string{tt.keyword}},
			}})
			matchers := set.Categories()[0].Absolute
			require.Len(t, matchers, 1)
			assert.Equal(t, tt.want, matchers[0].Matches(tt.text))
		})
	}
}

func TestCompile_SkipsEmptyKeywords(t *testing.T) {
	set := Compile([]model.Category{{
		ID:       "demo",
		Keywords: model.Keywords{Strong: []string{"", "paiement", ""}},
	}})

	assert.Len(t, set.Categories()[0].Strong, 1)
}

func TestCompile_PreservesCategoryOrder(t *testing.T) {
	set := Compile([]model.Category{
		{ID: "first"},
		{ID: "second"},
		{ID: "third"},
	})

	require.Equal(t, 3, set.Len())
	var ids []string
	for _, c := range set.Categories() {
		ids = append(ids, c.Category.ID)
	}
	assert.Equal(t, []string{"first", "second", "third"}, ids)
}
