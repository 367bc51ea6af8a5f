package normalize

import (
	"strings"
	"testing"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Copa do Brasil", "Copa do Brasil"},
		{"tags", "<b>Copa</b> do Brasil começa hoje", "Copa do Brasil começa hoje"},
		{"nested tags", "<p><a href=\"/x\">Eleições</a> em 2026</p>", "Eleições em 2026"},
		{"entities", "Lucro &amp; prejuízo &quot;recorde&quot;", `Lucro & prejuízo "recorde"`},
		{"nbsp", "mercado financeiro", "mercado financeiro"},
		{"zero width space", "bol​sa de valores", "bolsa de valores"},
		{"whitespace runs", "  economia \n\t brasileira  ", "economia brasileira"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanText(tt.in); got != tt.want {
				t.Errorf("CleanText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestResolveImageURL(t *testing.T) {
	page := "https://g1.globo.com/noticia/copa.html"

	tests := []struct {
		name string
		img  string
		want string
	}{
		{"absolute", "https://cdn.example.com/a.jpg", "https://cdn.example.com/a.jpg"},
		{"protocol relative", "//cdn.example.com/a.jpg", "https://cdn.example.com/a.jpg"},
		{"root relative", "/img/a.jpg", "https://g1.globo.com/img/a.jpg"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveImageURL(page, tt.img); got != tt.want {
				t.Errorf("ResolveImageURL(%q) = %q, want %q", tt.img, got, tt.want)
			}
		})
	}
}

func TestArticleIDStable(t *testing.T) {
	a := ArticleID("g1", "https://g1.globo.com/noticia/copa.html")
	b := ArticleID("g1", "https://g1.globo.com/noticia/copa.html")
	if a != b {
		t.Errorf("same inputs produced different IDs: %q vs %q", a, b)
	}
	if !strings.HasPrefix(a, "g1_") {
		t.Errorf("expected source key prefix, got %q", a)
	}
}

func TestArticleIDDistinguishesSources(t *testing.T) {
	u := "https://example.com/materia"
	if ArticleID("g1", u) == ArticleID("uol", u) {
		t.Error("same URL from different sources must not collide")
	}
	if ArticleID("g1", u) == ArticleID("g1", u+"?x=1") {
		t.Error("different URLs must not collide")
	}
}
