// Package cart holds the shopping-cart state machine.
//
// State is only ever produced by Reduce, which maps (state, action) to a new
// state without mutating its input. Total and ItemCount are projections of
// Items and are recomputed on every transition.
package cart
