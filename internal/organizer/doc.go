// Package organizer performs the physical move of a classified file into its
// category directory with deterministic collision handling.
//
// Each relocation moves one file (rename, or verified copy plus delete when
// the move crosses filesystems); there is no multi-file transaction.
// Partial completion across a batch is possible and is handled by the
// controller's outcome policy, not here.
package organizer
