package audit

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/cockroachdb/errors"

	roowizerrors "github.com/rooforge/roowiz/internal/errors"
	"github.com/rooforge/roowiz/internal/mcpconfig"
)

// IntegrityHash computes a deterministic SHA-256 digest of the document.
// encoding/json emits map keys in sorted order, so the compact encoding is
// canonical for equal documents.
func IntegrityHash(doc *mcpconfig.Document) (string, error) {
	if doc == nil {
		doc = mcpconfig.NewDocument()
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return "", errors.Wrap(err, "encoding document")
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// VerifyIntegrity recomputes the document hash and compares it against
// expected. A mismatch returns an error matching roowizerrors.ErrIntegrity,
// signaling out-of-band tampering between audits.
func VerifyIntegrity(doc *mcpconfig.Document, expected string) error {
	actual, err := IntegrityHash(doc)
	if err != nil {
		return err
	}
	if actual != expected {
		return errors.Wrapf(roowizerrors.ErrIntegrity,
			"document hash %s does not match expected %s", actual, expected)
	}
	return nil
}
