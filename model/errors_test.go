package model

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsKindThroughWrapping(t *testing.T) {
	base := NewError(KindTruncated, "DCHUNK-BLK-003", "short block")
	wrapped := fmt.Errorf("decode chunk: %w", base)

	if !IsKind(wrapped, KindTruncated) {
		t.Fatalf("expected KindTruncated through fmt wrapping")
	}
	if IsKind(wrapped, KindFormat) {
		t.Fatalf("unexpected KindFormat match")
	}
	if got := RuleID(wrapped); got != "DCHUNK-BLK-003" {
		t.Fatalf("RuleID: got %q", got)
	}
}

func TestWrapErrorKeepsCause(t *testing.T) {
	cause := errors.New("bad padding")
	err := WrapError(KindDecrypt, "DCHUNK-SYM-002", "decrypt failed", cause)
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to be reachable via errors.Is")
	}
	if err.Error() != "decrypt failed: bad padding" {
		t.Fatalf("unexpected message %q", err.Error())
	}

	if WrapError(KindDecrypt, "X", "m", nil).(*Error).Cause != nil {
		t.Fatalf("nil cause must not be recorded")
	}
}

func TestRuleIDUnknown(t *testing.T) {
	if RuleID(errors.New("plain")) != "" {
		t.Fatalf("expected empty RuleID for unstructured error")
	}
}
