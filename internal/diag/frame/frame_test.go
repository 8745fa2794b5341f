package frame

import (
	"bytes"
	"errors"
	"math/rand"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	cases := [][]byte{
		{},
		{0x00},
		{0x7E},
		{0x7D},
		{0x7E, 0x7D, 0x7E},
		bytes.Repeat([]byte{0xAB, 0x7E, 0x7D, 0xFF}, 200),
	}

	r := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		n := r.Intn(4096)
		b := make([]byte, n)
		r.Read(b)
		cases = append(cases, b)
	}

	for i, want := range cases {
		framed := Encapsulate(want)
		got, err := Decapsulate(framed)
		if err != nil {
			t.Fatalf("case %d: decapsulate: %v", i, err)
		}
		if !bytes.Equal(got, want) {
			t.Fatalf("case %d: round trip mismatch: got %x want %x", i, got, want)
		}
	}
}

func TestCorruptionDetected(t *testing.T) {
	payload := []byte("paging request type 1 with imsi mobile identity")
	framed := Encapsulate(payload)

	// Flip a bit strictly inside the framed form, away from the
	// sentinel/escape bytes, to simulate line noise.
	idx := len(framed) / 2
	for framed[idx] == sentinel || framed[idx] == escape {
		idx++
	}
	framed[idx] ^= 0x01

	_, err := Decapsulate(framed)
	if err == nil {
		t.Fatal("expected CRC error for corrupted frame")
	}
	var crcErr *ErrBadCRC
	if !errors.As(err, &crcErr) {
		t.Fatalf("expected *ErrBadCRC, got %T: %v", err, err)
	}
}

func TestEmptyPayload(t *testing.T) {
	framed := Encapsulate(nil)
	got, err := Decapsulate(framed)
	if err != nil {
		t.Fatalf("decapsulate: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty payload, got %x", got)
	}
}
