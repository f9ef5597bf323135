// Package domain holds per-domain vocabulary and guardrail rules. The
// built-in cars domain ships with the binary; additional domains can be
// loaded from YAML packs.
package domain

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Rules describes one domain's vocabulary and guardrail tuning.
type Rules struct {
	Name string `yaml:"name"`

	// Vocabulary terms used by the relevance check: the enhanced text
	// should contain at least one of them.
	Vocabulary []string `yaml:"vocabulary"`

	// ProhibitedWords are flagged as warnings when present.
	ProhibitedWords []string `yaml:"prohibited_words"`

	// MaxLength overrides the global maximum when positive.
	MaxLength int `yaml:"max_length"`

	// ClosingStatement is appended to enhanced descriptions when set.
	ClosingStatement string `yaml:"closing_statement"`

	// SystemPrompt is the domain-specific instruction for the
	// generation collaborator.
	SystemPrompt string `yaml:"system_prompt"`
}

// Registry maps domain names to their rules. Populated once at startup,
// read-only afterwards.
type Registry struct {
	domains map[string]Rules
}

// NewRegistry returns a registry with the built-in domains.
func NewRegistry() *Registry {
	return &Registry{
		domains: map[string]Rules{
			"cars": carsRules(),
		},
	}
}

// Lookup returns the rules for a domain name (case-insensitive).
func (r *Registry) Lookup(name string) (Rules, bool) {
	rules, ok := r.domains[strings.ToLower(name)]
	return rules, ok
}

// Names returns the registered domain names, sorted.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.domains))
	for name := range r.domains {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// LoadFile merges domain packs from a YAML file into the registry.
// A pack with the name of a built-in domain replaces it.
func (r *Registry) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read domain pack: %w", err)
	}

	var packs []Rules
	if err := yaml.Unmarshal(data, &packs); err != nil {
		return fmt.Errorf("parse domain pack %s: %w", path, err)
	}

	for _, pack := range packs {
		if pack.Name == "" {
			return fmt.Errorf("domain pack %s: entry without a name", path)
		}
		r.domains[strings.ToLower(pack.Name)] = pack
	}
	return nil
}

// carsRules is the built-in car-listing domain.
func carsRules() Rules {
	return Rules{
		Name: "cars",
		Vocabulary: []string{
			"samochód", "auto", "pojazd", "marka", "model", "silnik",
			"kolor", "przebieg", "rocznik", "paliwo", "napęd", "sedan",
			"suv", "hatchback", "combi", "van", "kabriolet",
		},
		ProhibitedWords:  []string{"gwarantowane"},
		MaxLength:        600,
		ClosingStatement: "Zapraszamy do kontaktu!",
		SystemPrompt: "Jesteś asystentem sprzedaży samochodów. " +
			"Twoim zadaniem jest uzupełnić luki [GAP:n] w podanym tekście. " +
			"Dla każdej luki wybierz JEDNO słowo (przymiotnik lub rzeczownik), " +
			"które najlepiej pasuje do kontekstu. " +
			"Odpowiedz w formacie JSON, bez wyjaśnień.",
	}
}
