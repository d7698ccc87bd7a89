package favicon

import (
	"bytes"
	"encoding/base64"
	"errors"
	"testing"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func TestDecode(t *testing.T) {
	uri := Prefix + base64.StdEncoding.EncodeToString(pngHeader)

	got, err := Decode(uri)
	if err != nil {
		t.Fatalf("Decode err=%v", err)
	}
	if !bytes.Equal(got, pngHeader) {
		t.Fatalf("Decode = %x", got)
	}
}

func TestDecode_LineBreaks(t *testing.T) {
	enc := base64.StdEncoding.EncodeToString(pngHeader)
	uri := Prefix + enc[:4] + "\n" + enc[4:]

	if _, err := Decode(uri); err != nil {
		t.Fatalf("Decode err=%v", err)
	}
}

func TestDecode_Errors(t *testing.T) {
	if _, err := Decode(""); !errors.Is(err, ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
	if _, err := Decode("data:image/jpeg;base64,AAAA"); !errors.Is(err, ErrFormat) {
		t.Fatalf("expected ErrFormat, got %v", err)
	}
	if _, err := Decode(Prefix + "!!!"); !errors.Is(err, ErrFormat) {
		t.Fatalf("expected ErrFormat, got %v", err)
	}
}
