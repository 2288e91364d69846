package fingerprint

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"testing"
)

func TestKnownVectors(t *testing.T) {
	tests := []struct {
		algorithm string
		input     string
		want      Fingerprint
	}{
		{FNVCRC, "", Fingerprint{Primary: 0x811c9dc5, Secondary: 0x00000000}},
		{FNVCRC, "a", Fingerprint{Primary: 0xe40c292c, Secondary: 0xc1d04330}},
		{XXH64, "", Fingerprint{Primary: 0xef46db37, Secondary: 0x51d8e999}},
		{XXH64, "a", Fingerprint{Primary: 0xd24ec4f1, Secondary: 0xa98c6e5b}},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/%q", tt.algorithm, tt.input), func(t *testing.T) {
			gen, err := NewGenerator(tt.algorithm, FormRaw)
			if err != nil {
				t.Fatalf("NewGenerator: %v", err)
			}
			got := gen.Compute(tt.input)
			if got != tt.want {
				t.Fatalf("got %#x/%#x want %#x/%#x", got.Primary, got.Secondary, tt.want.Primary, tt.want.Secondary)
			}
		})
	}
}

func TestComputeIsDeterministic(t *testing.T) {
	inputs := []string{"", "a", "com.example.app", "日本語テキスト", "line\nbreak\x00nul"}
	for _, name := range Algorithms() {
		gen, err := NewGenerator(name, FormRaw)
		if err != nil {
			t.Fatalf("NewGenerator(%s): %v", name, err)
		}
		for _, in := range inputs {
			first := gen.Compute(in)
			for i := 0; i < 5; i++ {
				again := gen.Compute(in)
				if again != first || again.Unique64() != first.Unique64() {
					t.Fatalf("%s(%q) not deterministic: %v vs %v", name, in, first, again)
				}
			}
		}
	}
}

func TestDefaultComputeMatchesGenerator(t *testing.T) {
	gen, err := NewGenerator("", "")
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}
	if gen.Algorithm() != DefaultAlgorithm || gen.Form() != FormRaw {
		t.Fatalf("unexpected defaults: %s %s", gen.Algorithm(), gen.Form())
	}
	if Compute("hello") != gen.Compute("hello") {
		t.Fatal("package Compute must use the default generator settings")
	}
}

func TestUnique64Packing(t *testing.T) {
	fp := Fingerprint{Primary: 0x1, Secondary: 0xFFFFFFFF}
	if got := fp.Unique64(); got != 0x1FFFFFFFF {
		t.Fatalf("Unique64 = %#x, want 0x1ffffffff", got)
	}
	if Split(fp.Unique64()) != fp {
		t.Fatal("Split must invert Unique64")
	}

	fp = Fingerprint{Primary: 0xFFFFFFFF, Secondary: 0x80000000}
	if got := fp.Unique64(); got != 0xFFFFFFFF80000000 {
		t.Fatalf("Unique64 = %#x, want 0xffffffff80000000", got)
	}
}

func TestUnique64KeepsSecondaryHighBit(t *testing.T) {
	for _, name := range Algorithms() {
		gen, err := NewGenerator(name, FormRaw)
		if err != nil {
			t.Fatalf("NewGenerator(%s): %v", name, err)
		}

		var probe string
		var fp Fingerprint
		for i := 0; i < 1000; i++ {
			probe = fmt.Sprintf("probe-%d", i)
			fp = gen.Compute(probe)
			if fp.Secondary&0x80000000 != 0 {
				break
			}
		}
		if fp.Secondary&0x80000000 == 0 {
			t.Fatalf("%s: no probe produced a secondary with the top bit set", name)
		}

		u := fp.Unique64()
		if u != uint64(fp.Primary)<<32|uint64(fp.Secondary) {
			t.Fatalf("%s(%q): packing identity broken", name, probe)
		}
		if uint32(u) != fp.Secondary {
			t.Fatalf("%s(%q): secondary bits lost: %#x vs %#x", name, probe, uint32(u), fp.Secondary)
		}
		if uint32(u>>32) != fp.Primary {
			t.Fatalf("%s(%q): primary bits lost: %#x vs %#x", name, probe, uint32(u>>32), fp.Primary)
		}
	}
}

func TestNoCollisionsInRandomSample(t *testing.T) {
	const sample = 10000
	const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789._-/"

	rng := rand.New(rand.NewPCG(20230516, 144050))
	inputs := make(map[string]struct{}, sample)
	for len(inputs) < sample {
		n := 1 + rng.IntN(32)
		buf := make([]byte, n)
		for i := range buf {
			buf[i] = alphabet[rng.IntN(len(alphabet))]
		}
		inputs[string(buf)] = struct{}{}
	}

	for _, name := range Algorithms() {
		gen, err := NewGenerator(name, FormRaw)
		if err != nil {
			t.Fatalf("NewGenerator(%s): %v", name, err)
		}
		seen := make(map[uint64]string, sample)
		for in := range inputs {
			u := gen.Compute(in).Unique64()
			if prev, ok := seen[u]; ok {
				t.Fatalf("%s: %q and %q collide on %#x", name, prev, in, u)
			}
			seen[u] = in
		}
	}
}

func TestFormNFC(t *testing.T) {
	composed := "caf\u00e9"
	decomposed := "cafe\u0301"

	raw, err := NewGenerator(FNVCRC, FormRaw)
	if err != nil {
		t.Fatalf("NewGenerator raw: %v", err)
	}
	nfc, err := NewGenerator(FNVCRC, FormNFC)
	if err != nil {
		t.Fatalf("NewGenerator nfc: %v", err)
	}

	if raw.Compute(composed) == raw.Compute(decomposed) {
		t.Fatal("raw form must distinguish composed and decomposed input")
	}
	if nfc.Compute(composed) != nfc.Compute(decomposed) {
		t.Fatal("nfc form must treat canonically equivalent input alike")
	}
	if nfc.Compute(composed) != raw.Compute(composed) {
		t.Fatal("nfc form must not change already normalized input")
	}
}

func TestLookupAndParseForm(t *testing.T) {
	if _, err := Lookup("md4"); !errors.Is(err, ErrUnknownAlgorithm) {
		t.Fatalf("expected ErrUnknownAlgorithm, got %v", err)
	}
	alg, err := Lookup("  XXH64 ")
	if err != nil || alg.Name() != XXH64 {
		t.Fatalf("Lookup normalised name failed: %v %v", alg, err)
	}
	if _, err := NewGenerator(FNVCRC, Form("nfkd")); err == nil {
		t.Fatal("expected error for unsupported form")
	}

	tests := []struct {
		in      string
		want    Form
		wantErr bool
	}{
		{"", FormRaw, false},
		{"RAW", FormRaw, false},
		{" nfc ", FormNFC, false},
		{"nfd", "", true},
	}
	for _, tt := range tests {
		got, err := ParseForm(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("ParseForm(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Fatalf("ParseForm(%q) = %q, %v", tt.in, got, err)
		}
	}
}
