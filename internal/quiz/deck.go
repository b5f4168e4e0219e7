package quiz

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math/rand/v2"
	"os"
	"path"
	"slices"
	"strings"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

//go:embed decks
var decksFS embed.FS

// Card is a single flashcard.
type Card struct {
	ID       string `yaml:"id"`
	Category string `yaml:"category"`
	Question string `yaml:"question"`
	Answer   string `yaml:"answer"`
	Hint     string `yaml:"hint,omitempty"`
}

// Deck is an ordered set of cards.
type Deck struct {
	Name string `yaml:"name"`
	// Version is the semantic version of the deck content ("v1.2.0").
	Version string `yaml:"version,omitempty"`
	// Requires is the minimum prepdeck version able to read the deck.
	Requires string `yaml:"requires,omitempty"`
	Cards    []Card `yaml:"cards"`
}

// ErrIncompatibleDeck is returned when a deck needs a newer prepdeck.
var ErrIncompatibleDeck = errors.New("deck requires a newer prepdeck")

// CheckCompatible reports whether a binary at appVersion can use the deck.
// Development builds accept every deck.
func (d *Deck) CheckCompatible(appVersion string) error {
	if d.Requires == "" || !semver.IsValid(appVersion) {
		return nil
	}
	if semver.Compare(appVersion, d.Requires) < 0 {
		return fmt.Errorf("%w: %q needs %s, running %s", ErrIncompatibleDeck, d.Name, d.Requires, appVersion)
	}
	return nil
}

// ParseDeck decodes a YAML deck from r and validates it.
func ParseDeck(r io.Reader) (*Deck, error) {
	var d Deck
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&d); err != nil {
		return nil, fmt.Errorf("decode deck: %w", err)
	}
	if err := d.validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// LoadFile reads a deck from a YAML file on disk.
func LoadFile(p string) (*Deck, error) {
	f, err := os.Open(p)
	if err != nil {
		return nil, fmt.Errorf("open deck: %w", err)
	}
	defer f.Close()

	d, err := ParseDeck(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}
	return d, nil
}

// Builtin returns the decks shipped with the binary merged into one.
func Builtin() (*Deck, error) {
	entries, err := fs.ReadDir(decksFS, "decks")
	if err != nil {
		return nil, fmt.Errorf("read embedded decks: %w", err)
	}

	merged := &Deck{Name: "Built-in"}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		f, err := decksFS.Open(path.Join("decks", e.Name()))
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", e.Name(), err)
		}
		d, err := ParseDeck(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.Name(), err)
		}
		merged.Cards = append(merged.Cards, d.Cards...)
		if d.Version != "" && (merged.Version == "" || semver.Compare(d.Version, merged.Version) > 0) {
			merged.Version = d.Version
		}
		if d.Requires != "" && (merged.Requires == "" || semver.Compare(d.Requires, merged.Requires) > 0) {
			merged.Requires = d.Requires
		}
	}
	if err := merged.validate(); err != nil {
		return nil, err
	}
	return merged, nil
}

// Load returns the deck at p, or the built-in deck when p is empty.
func Load(p string) (*Deck, error) {
	if p == "" {
		return Builtin()
	}
	return LoadFile(p)
}

func (d *Deck) validate() error {
	if len(d.Cards) == 0 {
		return fmt.Errorf("deck %q has no cards", d.Name)
	}
	for _, v := range []string{d.Version, d.Requires} {
		if v != "" && !semver.IsValid(v) {
			return fmt.Errorf("deck %q: invalid version %q", d.Name, v)
		}
	}
	seen := make(map[string]bool, len(d.Cards))
	for i, c := range d.Cards {
		if c.ID == "" {
			return fmt.Errorf("card %d: missing id", i)
		}
		if seen[c.ID] {
			return fmt.Errorf("card %q: duplicate id", c.ID)
		}
		seen[c.ID] = true
		if strings.TrimSpace(c.Question) == "" || strings.TrimSpace(c.Answer) == "" {
			return fmt.Errorf("card %q: question and answer are required", c.ID)
		}
	}
	return nil
}

// Categories returns the distinct categories in first-appearance order.
func (d *Deck) Categories() []string {
	var cats []string
	for _, c := range d.Cards {
		if c.Category != "" && !slices.Contains(cats, c.Category) {
			cats = append(cats, c.Category)
		}
	}
	return cats
}

// Filter returns the cards of one category. An empty category returns
// every card.
func (d *Deck) Filter(category string) []Card {
	if category == "" {
		return slices.Clone(d.Cards)
	}
	var out []Card
	for _, c := range d.Cards {
		if c.Category == category {
			out = append(out, c)
		}
	}
	return out
}

// Card returns the card with the given ID.
func (d *Deck) Card(id string) (Card, bool) {
	for _, c := range d.Cards {
		if c.ID == id {
			return c, true
		}
	}
	return Card{}, false
}

// Shuffle returns cards in a random order drawn from rng. The input slice
// is not modified.
func Shuffle(cards []Card, rng *rand.Rand) []Card {
	out := slices.Clone(cards)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}
