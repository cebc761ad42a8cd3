package main

import "testing"

func TestLookupInt(t *testing.T) {
	t.Setenv("MT_WIDTH", "320")
	v, ok, err := lookupInt("MT_WIDTH")
	if err != nil || !ok || v != 320 {
		t.Fatalf("got %d, %v, %v", v, ok, err)
	}

	t.Setenv("MT_EMPTY", "")
	if _, ok, err := lookupInt("MT_EMPTY"); ok || err != nil {
		t.Fatalf("empty value: ok=%v err=%v", ok, err)
	}
	if _, ok, err := lookupInt("MT_UNSET_VARIABLE"); ok || err != nil {
		t.Fatalf("unset value: ok=%v err=%v", ok, err)
	}

	t.Setenv("MT_DEPTH", "abc")
	if _, ok, err := lookupInt("MT_DEPTH"); ok || err == nil {
		t.Fatalf("malformed value accepted: ok=%v err=%v", ok, err)
	}
}
