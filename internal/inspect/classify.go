package inspect

import (
	"fmt"
	"path/filepath"
	"strings"

	"keyprobe/internal/services"
)

// Kind identifies how an artifact is inspected.
type Kind int

const (
	KindAPK Kind = iota + 1
	KindIPA
	KindProfile
	KindCertificate
	KindKeystore
)

func (k Kind) String() string {
	switch k {
	case KindAPK:
		return "apk"
	case KindIPA:
		return "ipa"
	case KindProfile:
		return "mobileprovision"
	case KindCertificate:
		return "certificate"
	case KindKeystore:
		return "keystore"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Classify returns the artifact kind for path based on its extension.
// Matching is case-insensitive.
func Classify(path string) (Kind, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".apk":
		return KindAPK, nil
	case ".ipa":
		return KindIPA, nil
	case ".mobileprovision":
		return KindProfile, nil
	case ".rsa":
		return KindCertificate, nil
	case ".keystore", ".jks":
		return KindKeystore, nil
	default:
		return 0, services.Wrap(services.ErrUnsupported, "inspect", "classify",
			fmt.Sprintf("no handler for %q (expected .apk, .ipa, .mobileprovision, .rsa, .keystore or .jks)", filepath.Base(path)), nil)
	}
}
