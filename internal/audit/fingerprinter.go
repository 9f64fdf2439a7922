package audit

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"

	"github.com/steph544/compliance-app-sub001/internal/core"
)

// FingerprintAnswers derives a stable fingerprint for an answers payload so
// audit entries can be correlated with the exact input that produced them.
// Marshalling goes through encoding/json, whose map key ordering is sorted,
// so equal payloads fingerprint equally regardless of construction order.
func FingerprintAnswers(answers core.Answers) string {
	data, err := json.Marshal(answers)
	if err != nil {
		return "(unfingerprintable)"
	}
	return Fingerprint(data)
}

// Fingerprint hashes a raw payload.
func Fingerprint(payload []byte) string {
	hash := sha256.Sum256(payload)
	return base64.StdEncoding.EncodeToString(hash[:])
}

var _ core.Fingerprinter = Fingerprint
