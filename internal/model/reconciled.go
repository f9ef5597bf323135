package model

// ReconciledText is the reconciler's output: the gap-free candidate text
// plus the filler chosen for each gap index. Immutable once built except
// for the corrector's explicit filler replacement.
type ReconciledText struct {
	// Text is the reconstructed sentence with resolved markers replaced.
	Text string

	// Original is the normalized input with its gap markers intact.
	Original string

	// Fillers maps gap index to the chosen filler. Indices present in
	// the gap list but absent here are unresolved.
	Fillers map[int]string

	// Alternatives holds the collaborator's alternative fillers per gap,
	// verbatim. Empty slice when none were supplied, never nil.
	Alternatives map[int][]string

	// Unresolved lists gap indices with no filler, ascending.
	Unresolved []int
}
