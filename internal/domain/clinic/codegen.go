package clinic

import (
	"strings"

	"github.com/fammo-app/fammo/internal/shared/id"
)

// CodeGenerator produces referral code candidates of the form
// "<prefix>-<slug part>" or "<prefix>-<random suffix>".
type CodeGenerator struct {
	prefix     string
	slugMaxLen int
	suffixLen  int
	random     func(n int) (string, error)
}

func NewCodeGenerator(prefix string, slugMaxLen, suffixLen int) *CodeGenerator {
	if prefix == "" {
		prefix = "vet"
	}
	if slugMaxLen <= 0 {
		slugMaxLen = 10
	}
	if suffixLen <= 0 {
		suffixLen = 5
	}
	return &CodeGenerator{
		prefix:     prefix,
		slugMaxLen: slugMaxLen,
		suffixLen:  suffixLen,
		random: func(n int) (string, error) {
			return id.Generate(id.LowerAlnum, n)
		},
	}
}

// WithRandom replaces the random source. Used by tests.
func (g *CodeGenerator) WithRandom(fn func(n int) (string, error)) *CodeGenerator {
	g.random = fn
	return g
}

// FromSlug strips separators from slug and truncates it. ok is false when
// nothing usable remains.
func (g *CodeGenerator) FromSlug(slug string) (code string, ok bool) {
	base := strings.ReplaceAll(NormalizeCode(slug), "-", "")
	if len(base) > g.slugMaxLen {
		base = base[:g.slugMaxLen]
	}
	if base == "" {
		return "", false
	}
	return g.prefix + "-" + base, true
}

func (g *CodeGenerator) Random() (string, error) {
	suffix, err := g.random(g.suffixLen)
	if err != nil {
		return "", err
	}
	return g.prefix + "-" + suffix, nil
}

// Candidate returns the code to try on the given attempt: the slug-derived
// code first, random codes afterwards.
func (g *CodeGenerator) Candidate(slug string, attempt int) (string, error) {
	if attempt == 0 {
		if code, ok := g.FromSlug(slug); ok {
			return code, nil
		}
	}
	return g.Random()
}
