// Package placement resolves wander-mode coordinates for links.
//
// Links are partitioned by the side in their seed and each side is placed
// independently: a left-gutter link is never compared against a right-gutter
// one. Within a side, links are visited in ascending seed Y (ties broken by
// key) and each is dropped at its seeded position, then nudged vertically,
// alternating down and up with growing distance, until its padded rectangle
// clears every rectangle already placed on that side. Every JitterEvery
// attempts the horizontal position is re-rolled inside the usable band so a
// vertically saturated column can still be escaped.
//
// The walk is greedy and local: no backtracking, a fixed attempt budget per
// link, and a deterministic outcome for a fixed input. A link that still
// overlaps when the budget runs out keeps its last position and is marked
// Dimmed; overlap is a visual degradation, never an error.
//
// [Place] is pure. It reads seeds and sizes and returns rectangles; applying
// them to elements is the caller's job. All randomness (the enlarged
// decoration roll and horizontal jitter) comes from a PRNG seeded by the
// link's key and seed, so repeated calls with the same input return the same
// output.
package placement
