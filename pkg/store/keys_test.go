package store

import (
	"bytes"
	"testing"
)

func TestMsgKeyOrdersByTimestamp(t *testing.T) {
	// byte order of the padded timestamp must equal numeric order,
	// including across digit-count boundaries
	a := MsgKey("cnv_1", 999, "msg_a")
	b := MsgKey("cnv_1", 1000, "msg_b")
	c := MsgKey("cnv_1", 10_000_000_000_000, "msg_c")
	if !(bytes.Compare(a, b) < 0 && bytes.Compare(b, c) < 0) {
		t.Fatalf("keys out of order:\n%s\n%s\n%s", a, b, c)
	}
	if !bytes.HasPrefix(a, msgPrefix("cnv_1")) {
		t.Fatalf("key outside scan prefix: %s", a)
	}
}

func TestDirectKeyCanonicalizesPair(t *testing.T) {
	if !bytes.Equal(DirectKey("usr_b", "usr_a"), DirectKey("usr_a", "usr_b")) {
		t.Fatalf("pair order changed the key")
	}
	if string(DirectKey("usr_a", "usr_b")) != "direct:usr_a:usr_b" {
		t.Fatalf("unexpected key: %s", DirectKey("usr_a", "usr_b"))
	}
}
