package scene

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content hashes. The version suffix allows the
// algorithm to change without colliding with stored fingerprints.
const (
	DomainScene = "scenekit/scene/v1"
)

// hashWithDomain computes SHA-256(domain + 0x00 + data).
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Fingerprint returns the content hash of the scene. Two scenes are
// structurally equal exactly when their fingerprints match.
func (s *Scene) Fingerprint() (string, error) {
	canonical, err := MarshalCanonical(s)
	if err != nil {
		return "", fmt.Errorf("fingerprint: %w", err)
	}
	return hashWithDomain(DomainScene, canonical), nil
}

// MustFingerprint is like Fingerprint but panics on error.
// Use only in tests or when the scene is known to be well formed.
func (s *Scene) MustFingerprint() string {
	fp, err := s.Fingerprint()
	if err != nil {
		panic(err)
	}
	return fp
}
