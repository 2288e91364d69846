package fingerprint

import (
	"crypto/md5" // #nosec G501 -- display digest only
	_ "crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/opencontainers/go-digest"
)

// DigestSet holds standard digests of a string for human comparison.
type DigestSet struct {
	MD5    string
	SHA256 string
}

// Digests computes MD5 and SHA-256 over the UTF-8 bytes of text.
func Digests(text string) DigestSet {
	return digestBytes([]byte(text))
}

func digestBytes(data []byte) DigestSet {
	sum := md5.Sum(data) // #nosec G401 -- display digest only
	return DigestSet{
		MD5:    hex.EncodeToString(sum[:]),
		SHA256: digest.SHA256.FromBytes(data).Encoded(),
	}
}

// Report is the full fingerprint readout for one string.
type Report struct {
	Text      string `json:"text" yaml:"text"`
	Algorithm string `json:"algorithm" yaml:"algorithm"`
	Form      Form   `json:"form" yaml:"form"`
	Primary   uint32 `json:"primary" yaml:"primary"`
	Secondary uint32 `json:"secondary" yaml:"secondary"`
	Unique64  uint64 `json:"unique64" yaml:"unique64"`
	MD5       string `json:"md5" yaml:"md5"`
	SHA256    string `json:"sha256" yaml:"sha256"`
}

// Fingerprint returns the report's halves as a Fingerprint.
func (r Report) Fingerprint() Fingerprint {
	return Fingerprint{Primary: r.Primary, Secondary: r.Secondary}
}

// CLiteral renders the pair as a C-style initializer row.
func (r Report) CLiteral() string {
	return CLiteral(r.Fingerprint(), r.Text)
}

// Lines renders the human readable report.
func (r Report) Lines() []string {
	return []string{
		"md5: " + r.MD5,
		"sha256: " + r.SHA256,
		fmt.Sprintf("unique for long: 0x%x", r.Unique64),
		fmt.Sprintf("hash: 0x%x, flag: 0x%x", r.Primary, r.Secondary),
		r.CLiteral(),
	}
}

// CLiteral renders `{ 0xPRIMARY, 0xSECONDARY }, // text`.
func CLiteral(fp Fingerprint, text string) string {
	return fmt.Sprintf("{ 0x%x, 0x%x }, // %s", fp.Primary, fp.Secondary, text)
}
