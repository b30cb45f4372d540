package fastcdc

import "testing"

func TestStrongHashUnkeyedDeterministic(t *testing.T) {
	data := []byte("the quick brown fox jumps over the lazy dog")
	a := strongHash(data, nil)
	b := strongHash(data, nil)
	if !a.Equal(b) {
		t.Fatal("unkeyed strong hash must be deterministic")
	}
}

func TestStrongHashUnkeyedDiffersOnDifferentData(t *testing.T) {
	a := strongHash([]byte("alpha"), nil)
	b := strongHash([]byte("beta"), nil)
	if a.Equal(b) {
		t.Fatal("different inputs must not collide in this test")
	}
}

func TestStrongHashKeyedDiffersFromUnkeyed(t *testing.T) {
	data := []byte("identical content")
	var key [32]byte
	for i := range key {
		key[i] = byte(i + 1)
	}
	unkeyed := strongHash(data, nil)
	keyed := strongHash(data, &key)
	if unkeyed.Equal(keyed) {
		t.Fatal("keyed and unkeyed strong hashes must differ")
	}
}

func TestStrongHashKeyedDeterministicPerKey(t *testing.T) {
	data := []byte("identical content")
	var key [32]byte
	for i := range key {
		key[i] = byte(i + 1)
	}
	a := strongHash(data, &key)
	b := strongHash(data, &key)
	if !a.Equal(b) {
		t.Fatal("keyed strong hash must be deterministic for a fixed key")
	}
}

func TestStrongHashDifferentKeysDiffer(t *testing.T) {
	data := []byte("identical content")
	var k1, k2 [32]byte
	for i := range k1 {
		k1[i] = byte(i)
		k2[i] = byte(255 - i)
	}
	a := strongHash(data, &k1)
	b := strongHash(data, &k2)
	if a.Equal(b) {
		t.Fatal("different keys must produce different strong hashes")
	}
}
