// Demo program for the declension engine: inflects a set of adjectives
// through all seven cases, table entries and suffix fallback alike.
package main

import (
	"errors"
	"fmt"

	"gapfill/internal/grammar"
	"gapfill/internal/model"
)

func main() {
	lemmas := []string{
		"czarny",    // table entry
		"biały",     // table entry
		"wysoki",    // velar stem, suffix fallback
		"używany",   // hard stem, suffix fallback
		"benzynowa", // feminine
	}

	for _, lemma := range lemmas {
		gender, number, ok := grammar.LemmaGender(lemma)
		if !ok {
			fmt.Printf("%s: no declension class\n\n", lemma)
			continue
		}

		fmt.Printf("%s (%s %s)\n", lemma, gender, number)
		for _, c := range model.Cases() {
			form, err := grammar.Inflect(lemma, c, gender, number)
			if err != nil && errors.Is(err, model.ErrLowConfidence) {
				fmt.Printf("  %-12s %s (low confidence)\n", c, form)
				continue
			}
			fmt.Printf("  %-12s %s\n", c, form)
		}
		fmt.Println()
	}
}
