// Package ir provides the host-neutral model shared by the valobs engine and
// its hosts.
//
// This package contains type definitions and serialization only. All other
// internal packages import ir; ir imports nothing internal.
//
// The model has two halves:
//   - Input: Declaration and Member, with the directives and type
//     capabilities a host has already resolved.
//   - Output: Expansion, which lists one MemberExpansion per input member,
//     the record-level SupportMembers, the optional Conformance and the
//     Diagnostics of one transformation.
//
// Key design constraints:
//   - The engine owns no state; everything it needs is in these values.
//   - All JSON tags use snake_case and enums serialize as their text names.
//   - Canonical JSON (RFC 8785) is the only form used for hashes and golden
//     snapshots.
package ir
