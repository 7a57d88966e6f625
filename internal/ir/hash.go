package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

// Domain prefixes for minted identifiers.
// Version suffix enables future algorithm migration.
const (
	DomainMergedGraph = "rdfpipe/merged-graph/v1"
	DomainStatsNode   = "rdfpipe/stats-node/v1"
	DomainPartition   = "rdfpipe/partition/v1"
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

// canonicalName joins NFC-normalized parts with NUL separators, so that
// canonically equivalent Unicode spellings mint the same identifier.
func canonicalName(parts []string) string {
	normalized := make([]string, len(parts))
	for i, p := range parts {
		normalized[i] = norm.NFC.String(p)
	}
	return strings.Join(normalized, "\x00")
}

// MintIRI derives a stable IRI under base from the given parts.
// The local name is the first 128 bits of the domain-separated hash.
//
// Example: MintIRI("urn:graph:", DomainMergedGraph, "<g1>", "<g2>")
func MintIRI(base, domain string, parts ...string) IRI {
	sum := hashWithDomain(domain, []byte(canonicalName(parts)))
	return IRI(base + sum[:32])
}

// PartitionGraphPrefix starts the IRI of every graph minted for a rule
// partition.
const PartitionGraphPrefix = "urn:rdfpipe:partition:"

// MintPartitionGraph derives the graph of a rule partition from its key
// using a name-based (SHA-1) UUID in the URL namespace.
func MintPartitionGraph(key string) IRI {
	id := uuid.NewSHA1(uuid.NameSpaceURL, []byte(canonicalName([]string{DomainPartition, key})))
	return IRI(PartitionGraphPrefix + id.String())
}

// IsPartitionGraph reports whether v was minted by MintPartitionGraph.
func IsPartitionGraph(v Value) bool {
	iri, ok := v.(IRI)
	return ok && strings.HasPrefix(string(iri), PartitionGraphPrefix)
}

// Fingerprint returns a 64-bit hash of the canonical forms of vs.
// Used for partition assignment and approximate distinct counting.
func Fingerprint(vs ...Value) uint64 {
	d := xxhash.New()
	for i, v := range vs {
		if i > 0 {
			_, _ = d.WriteString(keySep)
		}
		if v != nil {
			_, _ = d.WriteString(FormatTerm(v))
		}
	}
	return d.Sum64()
}

// PartitionOf maps v to one of n partitions. n must be positive.
func PartitionOf(v Value, n int) int {
	return int(Fingerprint(v) % uint64(n))
}
