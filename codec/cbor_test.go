package codec

import (
	"bytes"
	"testing"

	"github.com/fxamacker/cbor/v2"
)

type record struct {
	Name  string
	Items map[string]int
}

func TestMarshalDeterministicMapOrder(t *testing.T) {
	a := record{Name: "r", Items: map[string]int{"b": 2, "a": 1, "c": 3}}
	b := record{Name: "r", Items: map[string]int{"c": 3, "a": 1, "b": 2}}

	ea, err := Marshal(a)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	for i := 0; i < 16; i++ {
		eb, err := Marshal(b)
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		if !bytes.Equal(ea, eb) {
			t.Fatalf("encoding not deterministic")
		}
	}

	var got record
	if err := cbor.Unmarshal(ea, &got); err != nil {
		t.Fatalf("cbor.Unmarshal: %v", err)
	}
	if got.Name != "r" || got.Items["c"] != 3 {
		t.Fatalf("unexpected decode %+v", got)
	}
}
