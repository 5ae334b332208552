package journal

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"

	"golang.org/x/text/unicode/norm"
)

// DomainEntry is the domain prefix for entry IDs.
// The version suffix enables future algorithm migration.
const DomainEntry = "fleetlot/entry/v1"

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data)
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// EntryID computes the content-addressed ID of a journal entry.
//
// The line is NFC-normalised first so visually identical input produces
// the same ID regardless of how the text was composed. Fields are
// length-prefixed to rule out boundary ambiguity.
func EntryID(runID string, seq int64, line string) string {
	normalized := norm.NFC.String(line)

	buf := make([]byte, 0, 8+len(runID)+8+8+len(normalized))
	buf = binary.BigEndian.AppendUint64(buf, uint64(len(runID)))
	buf = append(buf, runID...)
	buf = binary.BigEndian.AppendUint64(buf, uint64(seq))
	buf = binary.BigEndian.AppendUint64(buf, uint64(len(normalized)))
	buf = append(buf, normalized...)

	return hashWithDomain(DomainEntry, buf)
}
