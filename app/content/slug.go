package content

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonAlnumRe = regexp.MustCompile(`[^a-z0-9]+`)

	// NFD decomposition followed by removal of combining marks strips
	// diacritics ("café" -> "cafe") before slugging.
	marksStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// Slugify derives a URL-safe slug from a title. Pure function: the same
// input always yields the same base slug; uniqueness is SlugSet's job.
func Slugify(s string) string {
	folded, _, err := transform.String(marksStripper, s)
	if err != nil {
		folded = s
	}

	slug := nonAlnumRe.ReplaceAllString(strings.ToLower(folded), "-")
	return strings.Trim(slug, "-")
}

// SlugSet is the process-wide registry of slugs already taken, seeded from
// the destination store before transformation begins. Reserve both resolves
// and records a slug in one call, so two posts transformed in the same run
// can never collide.
type SlugSet struct {
	seen map[string]struct{}
	mu   sync.Mutex
}

func NewSlugSet() *SlugSet {
	return &SlugSet{
		seen: make(map[string]struct{}),
	}
}

func (s *SlugSet) Add(slug string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen[slug] = struct{}{}
}

func (s *SlugSet) Has(slug string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.seen[slug]
	return ok
}

func (s *SlugSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.seen)
}

// Reserve returns base if it is still free, otherwise base with the first
// free numeric suffix (-1, -2, ...). The winner is recorded before returning.
func (s *SlugSet) Reserve(base string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	slug := base
	for i := 1; ; i++ {
		if _, taken := s.seen[slug]; !taken {
			break
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}

	s.seen[slug] = struct{}{}
	return slug
}
