// Package testutil provides deterministic identities for observation tests.
package testutil
