package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainConfiguration = "runloop/configuration/v1"
)

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data)
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// ConfigurationHash fingerprints a configuration by its canonical JSON.
//
// Key order does not affect the hash; values do. Two configurations holding
// different handles that render identically share a hash, so use
// Configuration.Equal when identity matters.
func ConfigurationHash(c Configuration) (string, error) {
	canonical, err := MarshalCanonical(c)
	if err != nil {
		return "", fmt.Errorf("ConfigurationHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainConfiguration, canonical), nil
}

// MustConfigurationHash is like ConfigurationHash but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustConfigurationHash(c Configuration) string {
	h, err := ConfigurationHash(c)
	if err != nil {
		panic(err)
	}
	return h
}
