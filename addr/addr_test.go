package addr

import (
	"bytes"
	"testing"

	"xdao.co/dchunk/model"
)

func TestIdFromBytesRoundTrip(t *testing.T) {
	raw := []byte{0x00, 0x01, 0xfe, 0xff, 'x'}
	a := IdFromBytes(raw)
	b := IdFromBytes(append([]byte(nil), raw...))
	if a != b {
		t.Fatalf("ids from equal bytes differ: %s vs %s", a, b)
	}

	got, err := a.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	if !bytes.Equal(got, raw) {
		t.Fatalf("round trip mismatch: got %x want %x", got, raw)
	}

	if IdFromBytes([]byte("other")) == a {
		t.Fatalf("ids from different bytes must differ")
	}
}

func TestIdBytesRejectsOpaqueText(t *testing.T) {
	_, err := NewId("!not-multibase").Bytes()
	if !model.IsKind(err, model.KindFormat) {
		t.Fatalf("expected KindFormat, got %v", err)
	}
}

func TestNewEpochKeyRejectsUntimed(t *testing.T) {
	id := NewId("list")
	_, err := NewEpochKey(id, 0, 7)
	if !model.IsKind(err, model.KindContract) {
		t.Fatalf("expected KindContract, got %v", err)
	}
	if model.RuleID(err) != "DCHUNK-KEY-002" {
		t.Fatalf("unexpected rule %q", model.RuleID(err))
	}
}

func TestKeyEquality(t *testing.T) {
	id := IdFromBytes([]byte("k"))
	k1, err := NewEpochKey(id, 10, 3)
	if err != nil {
		t.Fatalf("NewEpochKey: %v", err)
	}
	k2, _ := NewEpochKey(id, 10, 3)
	if k1 != k2 {
		t.Fatalf("expected equal keys")
	}
	k3, _ := NewKey(id, 10)
	if k1 == k3 {
		t.Fatalf("epoch must participate in equality")
	}
	if e, ok := k3.Epoch(); ok || e != 0 {
		t.Fatalf("expected no epoch on NewKey")
	}
	if !Untimed(id).IsUntimed() {
		t.Fatalf("expected untimed key")
	}
	if _, err := NewKey(id, -1); !model.IsKind(err, model.KindContract) {
		t.Fatalf("expected negative timestamp rejection")
	}
}

func TestKeyTimestampAccessor(t *testing.T) {
	id := NewId("list")
	k, err := NewEpochKey(id, 5, 1)
	if err != nil {
		t.Fatalf("NewEpochKey: %v", err)
	}
	if k.Timestamp() != 5 || k.IsUntimed() {
		t.Fatalf("timestamp: got %d untimed=%v", k.Timestamp(), k.IsUntimed())
	}
	if e, ok := k.Epoch(); !ok || e != 1 {
		t.Fatalf("epoch: got %d, %v", e, ok)
	}
	if k.String() != "list@5#1" {
		t.Fatalf("String: got %q", k.String())
	}
	if u := Untimed(id); u.Timestamp() != 0 || u.String() != "list" {
		t.Fatalf("untimed key: %d %q", u.Timestamp(), u.String())
	}
}
