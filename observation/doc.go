// Package observation is the runtime linked by code valobs generates.
//
// A generated record embeds an identity (a UUID) and a *Registrar. Reads call
// Registrar.Access, writes that change the value run inside
// Registrar.WithMutation, and in-place modifications bracket the callback with
// WillSet and a deferred DidSet.
//
// Identity is the single source of truth for "same logical value": Copy
// assigns a fresh identity and a fresh registrar, and assigning an observable
// value that carries the identity already stored is not a change.
package observation
