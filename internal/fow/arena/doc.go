// Package arena provides a generation-checked slot map used to own viewers,
// occluders and tri-soup collections.
//
// Slots are reused through a free list and the backing array never shrinks.
// Every removal bumps the slot generation, so an ID held past its removal
// fails with ErrStaleID instead of aliasing whatever reused the slot.
package arena
