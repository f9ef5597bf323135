package grammar

import (
	"strings"
	"unicode"

	"gapfill/internal/model"
)

type entryKey struct {
	lemma  string
	c      model.Case
	gender model.Gender
	number model.Number
}

// caseRow holds the seven singular forms of one lemma in case order:
// nominative, genitive, dative, accusative, instrumental, locative, vocative.
type caseRow [7]string

var caseOrder = [7]model.Case{
	model.CaseNominative, model.CaseGenitive, model.CaseDative,
	model.CaseAccusative, model.CaseInstrumental, model.CaseLocative,
	model.CaseVocative,
}

// Masculine singular rows for adjectives common in listing copy:
// colors, engine types, condition. The table is authoritative; the
// suffix fallback never overrides it.
var mascRows = map[string]caseRow{
	"czarny":    {"czarny", "czarnego", "czarnemu", "czarny", "czarnym", "czarnym", "czarny"},
	"biały":     {"biały", "białego", "białemu", "biały", "białym", "białym", "biały"},
	"czerwony":  {"czerwony", "czerwonego", "czerwonemu", "czerwony", "czerwonym", "czerwonym", "czerwony"},
	"srebrny":   {"srebrny", "srebrnego", "srebrnemu", "srebrny", "srebrnym", "srebrnym", "srebrny"},
	"szary":     {"szary", "szarego", "szaremu", "szary", "szarym", "szarym", "szary"},
	"niebieski": {"niebieski", "niebieskiego", "niebieskiemu", "niebieski", "niebieskim", "niebieskim", "niebieski"},
	"zielony":   {"zielony", "zielonego", "zielonemu", "zielony", "zielonym", "zielonym", "zielony"},
	"żółty":     {"żółty", "żółtego", "żółtemu", "żółty", "żółtym", "żółtym", "żółty"},
	"benzynowy": {"benzynowy", "benzynowego", "benzynowemu", "benzynowy", "benzynowym", "benzynowym", "benzynowy"},
	"dieselowy": {"dieselowy", "dieselowego", "dieselowemu", "dieselowy", "dieselowym", "dieselowym", "dieselowy"},
	"hybrydowy": {"hybrydowy", "hybrydowego", "hybrydowemu", "hybrydowy", "hybrydowym", "hybrydowym", "hybrydowy"},
	"zadbany":   {"zadbany", "zadbanego", "zadbanemu", "zadbany", "zadbanym", "zadbanym", "zadbany"},
	"nowy":      {"nowy", "nowego", "nowemu", "nowy", "nowym", "nowym", "nowy"},
	"stary":     {"stary", "starego", "staremu", "stary", "starym", "starym", "stary"},
	"piękny":    {"piękny", "pięknego", "pięknemu", "piękny", "pięknym", "pięknym", "piękny"},
}

// Feminine singular rows for the lemmas the cars domain pairs with
// feminine nouns (wersja, skrzynia, cena).
var femRows = map[string]caseRow{
	"czarny": {"czarna", "czarnej", "czarnej", "czarną", "czarną", "czarnej", "czarna"},
	"biały":  {"biała", "białej", "białej", "białą", "białą", "białej", "biała"},
	"nowy":   {"nowa", "nowej", "nowej", "nową", "nową", "nowej", "nowa"},
	"stary":  {"stara", "starej", "starej", "starą", "starą", "starej", "stara"},
	"piękny": {"piękna", "pięknej", "pięknej", "piękną", "piękną", "pięknej", "piękna"},
}

var entries map[entryKey]string

func init() {
	entries = make(map[entryKey]string, (len(mascRows)+len(femRows))*7)
	for lemma, row := range mascRows {
		for i, c := range caseOrder {
			entries[entryKey{lemma, c, model.GenderMasc, model.NumberSing}] = row[i]
		}
	}
	for lemma, row := range femRows {
		for i, c := range caseOrder {
			entries[entryKey{lemma, c, model.GenderFem, model.NumberSing}] = row[i]
		}
	}
}

// stemFamily selects which suffix set a lemma declines with.
type stemFamily int

const (
	familyHard  stemFamily = iota // -y / -a / -e lemmas with hard stems
	familyVelar                   // -ki / -gi stems (soft velar)
	familySoft                    // other -i stems
)

// suffix sets indexed by case in caseOrder.
var (
	hardMasc = caseRow{"y", "ego", "emu", "ego", "ym", "ym", "y"}
	hardFem  = caseRow{"a", "ej", "ej", "ą", "ą", "ej", "a"}
	hardNeut = caseRow{"e", "ego", "emu", "e", "ym", "ym", "e"}
	hardPlur = caseRow{"e", "ych", "ym", "e", "ymi", "ych", "e"}

	velarMasc = caseRow{"i", "iego", "iemu", "iego", "im", "im", "i"}
	velarFem  = caseRow{"a", "iej", "iej", "ą", "ą", "iej", "a"}
	velarNeut = caseRow{"ie", "iego", "iemu", "ie", "im", "im", "ie"}
	velarPlur = caseRow{"ie", "ich", "im", "ie", "imi", "ich", "ie"}

	softMasc = caseRow{"i", "iego", "iemu", "iego", "im", "im", "i"}
	softFem  = caseRow{"ia", "iej", "iej", "ią", "ią", "iej", "ia"}
	softNeut = caseRow{"ie", "iego", "iemu", "ie", "im", "im", "ie"}
	softPlur = caseRow{"ie", "ich", "im", "ie", "imi", "ich", "ie"}
)

func suffixRow(family stemFamily, gender model.Gender, number model.Number) caseRow {
	if number == model.NumberPlur {
		// Non-masculine-personal plural; gender does not split it.
		switch family {
		case familyVelar:
			return velarPlur
		case familySoft:
			return softPlur
		default:
			return hardPlur
		}
	}
	switch family {
	case familyVelar:
		switch gender {
		case model.GenderFem:
			return velarFem
		case model.GenderNeut:
			return velarNeut
		default:
			return velarMasc
		}
	case familySoft:
		switch gender {
		case model.GenderFem:
			return softFem
		case model.GenderNeut:
			return softNeut
		default:
			return softMasc
		}
	default:
		switch gender {
		case model.GenderFem:
			return hardFem
		case model.GenderNeut:
			return hardNeut
		default:
			return hardMasc
		}
	}
}

// classifyLemma splits a nominative-singular adjective into stem and
// declension family. ok is false when the ending matches no class.
func classifyLemma(lemma string) (stem string, family stemFamily, ok bool) {
	r := []rune(lemma)
	if len(r) < 3 {
		return "", familyHard, false
	}
	last := r[len(r)-1]
	prev := r[len(r)-2]

	switch last {
	case 'y':
		return string(r[:len(r)-1]), familyHard, true
	case 'i':
		if prev == 'k' || prev == 'g' {
			return string(r[:len(r)-1]), familyVelar, true
		}
		return string(r[:len(r)-1]), familySoft, true
	case 'a':
		switch {
		case prev == 'i':
			return string(r[:len(r)-2]), familySoft, true
		case prev == 'k' || prev == 'g':
			return string(r[:len(r)-1]), familyVelar, true
		default:
			return string(r[:len(r)-1]), familyHard, true
		}
	case 'e':
		switch {
		case prev == 'i' && len(r) >= 4 && (r[len(r)-3] == 'k' || r[len(r)-3] == 'g'):
			return string(r[:len(r)-2]), familyVelar, true
		case prev == 'i':
			return string(r[:len(r)-2]), familySoft, true
		default:
			return string(r[:len(r)-1]), familyHard, true
		}
	}
	return "", familyHard, false
}

// LemmaGender guesses the grammatical gender and number of a word from
// its nominative-singular ending. Best effort: ok is false for endings
// outside the adjective classes.
func LemmaGender(word string) (model.Gender, model.Number, bool) {
	r := []rune(strings.ToLower(word))
	if len(r) < 3 {
		return model.GenderMasc, model.NumberSing, false
	}
	switch r[len(r)-1] {
	case 'y', 'i':
		return model.GenderMasc, model.NumberSing, true
	case 'a':
		return model.GenderFem, model.NumberSing, true
	case 'e':
		return model.GenderNeut, model.NumberSing, true
	}
	return model.GenderMasc, model.NumberSing, false
}

// Inflect returns the surface form of lemma in the target case, gender
// and number. The entry table is checked first and is authoritative;
// unknown lemmas fall back to the class suffix rewrite. When the lemma
// matches no class the input is returned unchanged together with
// model.ErrLowConfidence, a warning signal rather than a failure.
func Inflect(lemma string, c model.Case, gender model.Gender, number model.Number) (string, error) {
	lower := strings.ToLower(lemma)

	if form, ok := entries[entryKey{lower, c, gender, number}]; ok {
		return matchCapitalization(lemma, form), nil
	}

	// Nominative with the lemma's own gender/number is a no-op.
	if c == model.CaseNominative {
		if g, n, ok := LemmaGender(lower); ok && g == gender && n == number {
			return lemma, nil
		}
	}

	stem, family, ok := classifyLemma(lower)
	if !ok {
		return lemma, model.ErrLowConfidence
	}

	row := suffixRow(family, gender, number)
	form := stem + row[caseIndex(c)]
	return matchCapitalization(lemma, form), nil
}

func caseIndex(c model.Case) int {
	for i, cc := range caseOrder {
		if cc == c {
			return i
		}
	}
	return 0
}

// matchCapitalization carries a leading capital from the source word
// over to the inflected form.
func matchCapitalization(src, form string) string {
	if src == "" || form == "" {
		return form
	}
	r := []rune(src)
	if unicode.IsUpper(r[0]) {
		f := []rune(form)
		f[0] = unicode.ToUpper(f[0])
		return string(f)
	}
	return form
}

// CaseCandidates returns the cases a surface ending is compatible with.
// Several Polish adjective endings are shared across cases (-ym serves
// both instrumental and locative), so the result is a set, not a single
// case. Nominative-looking forms double as accusative for inanimates.
func CaseCandidates(form string) []model.Case {
	lower := strings.ToLower(form)

	type rule struct {
		suffix string
		cases  []model.Case
	}
	// Longest suffix first.
	rules := []rule{
		{"iego", []model.Case{model.CaseGenitive, model.CaseAccusative}},
		{"iemu", []model.Case{model.CaseDative}},
		{"ymi", []model.Case{model.CaseInstrumental}},
		{"imi", []model.Case{model.CaseInstrumental}},
		{"ych", []model.Case{model.CaseGenitive, model.CaseLocative}},
		{"ich", []model.Case{model.CaseGenitive, model.CaseLocative}},
		{"ego", []model.Case{model.CaseGenitive, model.CaseAccusative}},
		{"emu", []model.Case{model.CaseDative}},
		{"iej", []model.Case{model.CaseGenitive, model.CaseDative, model.CaseLocative}},
		{"ej", []model.Case{model.CaseGenitive, model.CaseDative, model.CaseLocative}},
		{"ym", []model.Case{model.CaseInstrumental, model.CaseLocative}},
		{"im", []model.Case{model.CaseInstrumental, model.CaseLocative}},
		{"ą", []model.Case{model.CaseAccusative, model.CaseInstrumental}},
		{"y", []model.Case{model.CaseNominative, model.CaseAccusative, model.CaseVocative}},
		{"i", []model.Case{model.CaseNominative, model.CaseAccusative, model.CaseVocative}},
		{"a", []model.Case{model.CaseNominative, model.CaseVocative}},
		{"e", []model.Case{model.CaseNominative, model.CaseAccusative, model.CaseVocative}},
	}

	for _, r := range rules {
		if strings.HasSuffix(lower, r.suffix) {
			return r.cases
		}
	}
	return nil
}

// KnownLemmas returns the lemmas present in the entry table, for tests
// and diagnostics.
func KnownLemmas() []string {
	out := make([]string, 0, len(mascRows))
	for lemma := range mascRows {
		out = append(out, lemma)
	}
	return out
}
