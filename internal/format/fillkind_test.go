package format

import "testing"

func TestGenerateByteDeterministic(t *testing.T) {
	a := GenerateByte(FillPlainText, 42, 100)
	b := GenerateByte(FillPlainText, 42, 100)
	if a != b {
		t.Fatalf("GenerateByte not deterministic: %v != %v", a, b)
	}
}

func TestGenerateByteLineEndings(t *testing.T) {
	cr := GenerateByte(FillPlainText, 7, 97*3+95)
	lf := GenerateByte(FillPlainText, 7, 97*3+96)
	if cr != '\r' {
		t.Fatalf("expected CR at pos%%97==95, got %q", cr)
	}
	if lf != '\n' {
		t.Fatalf("expected LF at pos%%97==96, got %q", lf)
	}
}

func TestGenerateBodyMatchesGenerateByte(t *testing.T) {
	buf := make([]byte, 200)
	GenerateBody(FillJSONString, 9, 10, buf)
	for i, got := range buf {
		want := GenerateByte(FillJSONString, 9, 10+int64(i))
		if got != want {
			t.Fatalf("byte %d: got %v want %v", i, got, want)
		}
	}
}

func TestGenerateByteAlphabets(t *testing.T) {
	for pos := int64(0); pos < 500; pos++ {
		b := GenerateByte(FillJSONString, 1, pos)
		found := false
		for _, a := range []byte(printableAlphabet) {
			if a == b {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("byte %v at pos %d not in printable alphabet", b, pos)
		}
	}
}
