package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainSource      = "valobs/source/v1"
	DomainDeclaration = "valobs/declaration/v1"
	DomainExpansion   = "valobs/expansion/v1"
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// SourceHash keys a generated file in the expansion cache. It covers the
// path, the template source, the configuration fingerprint, the IR version
// and the extracted declarations. Declarations carry capabilities resolved
// from the whole package, so an Equal method added in a sibling file
// invalidates the entry too.
func SourceHash(path string, src []byte, fingerprint string, decls []Declaration) (string, error) {
	if decls == nil {
		decls = []Declaration{}
	}
	canonical, err := MarshalCanonical(map[string]any{
		"path":         path,
		"source":       string(src),
		"fingerprint":  fingerprint,
		"ir_version":   IRVersion,
		"declarations": decls,
	})
	if err != nil {
		return "", fmt.Errorf("SourceHash: %w", err)
	}
	return hashWithDomain(DomainSource, canonical), nil
}

// DeclarationHash computes the content-addressed ID of a declaration.
// Positions are part of the hash: diagnostics depend on them.
func DeclarationHash(decl Declaration) (string, error) {
	canonical, err := MarshalCanonical(decl)
	if err != nil {
		return "", fmt.Errorf("DeclarationHash: %w", err)
	}
	return hashWithDomain(DomainDeclaration, canonical), nil
}

// ExpansionHash computes the content-addressed ID of an expansion.
func ExpansionHash(exp *Expansion) (string, error) {
	canonical, err := MarshalCanonical(exp)
	if err != nil {
		return "", fmt.Errorf("ExpansionHash: %w", err)
	}
	return hashWithDomain(DomainExpansion, canonical), nil
}
