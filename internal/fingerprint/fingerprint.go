package fingerprint

import (
	"errors"
	"fmt"
	"hash/crc32"
	"hash/fnv"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/text/unicode/norm"
)

const mask32 = 0xFFFFFFFF

// Fingerprint is a pair of independently derived 32-bit values.
type Fingerprint struct {
	Primary   uint32
	Secondary uint32
}

// Unique64 packs both halves into one comparable token.
func (f Fingerprint) Unique64() uint64 {
	return (uint64(f.Primary)&mask32)<<32 | uint64(f.Secondary)&mask32
}

// Split is the inverse of Unique64.
func Split(unique uint64) Fingerprint {
	return Fingerprint{
		Primary:   uint32((unique >> 32) & mask32),
		Secondary: uint32(unique & mask32),
	}
}

func (f Fingerprint) String() string {
	return fmt.Sprintf("0x%x", f.Unique64())
}

// Algorithm is one versioned mixing function. Implementations must be pure
// functions of the input bytes.
type Algorithm interface {
	Name() string
	Sum(data []byte) Fingerprint
}

// Names of the built-in algorithms.
const (
	FNVCRC = "fnv-crc"
	XXH64  = "xxh64"

	DefaultAlgorithm = FNVCRC
)

// ErrUnknownAlgorithm is returned by Lookup for unregistered names.
var ErrUnknownAlgorithm = errors.New("unknown fingerprint algorithm")

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// fnvCRC pairs FNV-1a 32 with CRC-32C.
type fnvCRC struct{}

func (fnvCRC) Name() string { return FNVCRC }

func (fnvCRC) Sum(data []byte) Fingerprint {
	h := fnv.New32a()
	_, _ = h.Write(data)
	return Fingerprint{
		Primary:   h.Sum32(),
		Secondary: crc32.Checksum(data, castagnoli),
	}
}

// xxh64 splits a seed-zero xxHash64 into its high and low words.
type xxh64 struct{}

func (xxh64) Name() string { return XXH64 }

func (xxh64) Sum(data []byte) Fingerprint {
	return Split(xxhash.Sum64(data))
}

var algorithms = map[string]Algorithm{
	FNVCRC: fnvCRC{},
	XXH64:  xxh64{},
}

// Lookup returns the algorithm registered under name. An empty name selects
// DefaultAlgorithm.
func Lookup(name string) (Algorithm, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = DefaultAlgorithm
	}
	alg, ok := algorithms[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownAlgorithm, name, strings.Join(Algorithms(), ", "))
	}
	return alg, nil
}

// Algorithms lists the registered algorithm names in sorted order.
func Algorithms() []string {
	names := make([]string, 0, len(algorithms))
	for name := range algorithms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Form selects the byte representation hashed for a string.
type Form string

const (
	// FormRaw hashes the UTF-8 bytes exactly as given.
	FormRaw Form = "raw"
	// FormNFC hashes the Unicode NFC normalization of the input.
	FormNFC Form = "nfc"
)

// ParseForm validates a form name. Empty selects FormRaw.
func ParseForm(value string) (Form, error) {
	switch Form(strings.ToLower(strings.TrimSpace(value))) {
	case "", FormRaw:
		return FormRaw, nil
	case FormNFC:
		return FormNFC, nil
	default:
		return "", fmt.Errorf("unknown fingerprint form %q (expected raw or nfc)", value)
	}
}

// Bytes returns the canonical bytes of text for the form.
func (f Form) Bytes(text string) []byte {
	if f == FormNFC {
		return norm.NFC.Bytes([]byte(text))
	}
	return []byte(text)
}

// Generator computes fingerprints with a fixed algorithm and form.
type Generator struct {
	algorithm Algorithm
	form      Form
}

// NewGenerator resolves the named algorithm and form.
func NewGenerator(algorithm string, form Form) (*Generator, error) {
	alg, err := Lookup(algorithm)
	if err != nil {
		return nil, err
	}
	parsed, err := ParseForm(string(form))
	if err != nil {
		return nil, err
	}
	return &Generator{algorithm: alg, form: parsed}, nil
}

// Algorithm returns the generator's algorithm name.
func (g *Generator) Algorithm() string { return g.algorithm.Name() }

// Form returns the generator's byte form.
func (g *Generator) Form() Form { return g.form }

// Compute fingerprints text. It never fails.
func (g *Generator) Compute(text string) Fingerprint {
	return g.algorithm.Sum(g.form.Bytes(text))
}

// Report fingerprints text and computes the display digests of its
// canonical bytes.
func (g *Generator) Report(text string) Report {
	data := g.form.Bytes(text)
	fp := g.algorithm.Sum(data)
	digests := digestBytes(data)
	return Report{
		Text:      text,
		Algorithm: g.algorithm.Name(),
		Form:      g.form,
		Primary:   fp.Primary,
		Secondary: fp.Secondary,
		Unique64:  fp.Unique64(),
		MD5:       digests.MD5,
		SHA256:    digests.SHA256,
	}
}

// Compute fingerprints text with the default algorithm over raw bytes.
func Compute(text string) Fingerprint {
	return algorithms[DefaultAlgorithm].Sum([]byte(text))
}
