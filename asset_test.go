package texcache

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestIndexKeyFormat(t *testing.T) {
	tests := []struct {
		name       string
		index, gen uint32
		want       string
	}{
		{"zero", 0, 0, "asset://index/0"},
		{"index only", 7, 0, "asset://index/7"},
		{"generation only", 0, 1, "asset://index/4294967296"},
		{"both", 1, 1, "asset://index/4294967297"},
		{"max", 0xFFFFFFFF, 0xFFFFFFFF, "asset://index/18446744073709551615"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IndexID(tt.index, tt.gen).Key(); got != tt.want {
				t.Errorf("Key() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUUIDKeyFormat(t *testing.T) {
	u := uuid.MustParse("550e8400-e29b-41d4-a716-446655440000")
	want := "asset://uuid/550e8400-e29b-41d4-a716-446655440000"
	if got := UUIDID(u).Key(); got != want {
		t.Errorf("Key() = %q, want %q", got, want)
	}
}

func TestKeyRoundTrip(t *testing.T) {
	ids := []AssetID{
		IndexID(0, 0),
		IndexID(42, 0),
		IndexID(0, 3),
		IndexID(0xFFFFFFFF, 0xFFFFFFFF),
		IndexID(123456, 789),
		UUIDID(uuid.MustParse("550e8400-e29b-41d4-a716-446655440000")),
		UUIDID(uuid.Nil),
	}
	for _, id := range ids {
		got, err := ParseKey(id.Key())
		if err != nil {
			t.Fatalf("ParseKey(%q) = %v", id.Key(), err)
		}
		if got != id {
			t.Errorf("ParseKey(Key()) = %+v, want %+v", got, id)
		}
	}
}

func TestParseKeySplitsPackedValue(t *testing.T) {
	id, err := ParseKey("asset://index/4294967297") // gen 1, index 1
	if err != nil {
		t.Fatal(err)
	}
	index, gen := id.Index()
	if index != 1 || gen != 1 {
		t.Errorf("Index() = (%d, %d), want (1, 1)", index, gen)
	}
}

func TestParseKeyNotSupported(t *testing.T) {
	keys := []string{
		"",
		"asset:/",
		"http://example.com/cat.png",
		"file://index/1",
		"asset://garbage",
		"asset://",
		"asset://index/",
		"asset://index/notanumber",
		"asset://index/-1",
		"asset://index/18446744073709551616", // u64 overflow
		"asset://uuid/not-a-uuid",
		"asset://uuid/",
	}
	for _, key := range keys {
		if _, err := ParseKey(key); !errors.Is(err, ErrNotSupported) {
			t.Errorf("ParseKey(%q) = %v, want ErrNotSupported", key, err)
		}
	}
}

func TestAssetIDKind(t *testing.T) {
	if got := IndexID(1, 2).Kind(); got != AssetIndex {
		t.Errorf("IndexID Kind() = %v, want AssetIndex", got)
	}
	if got := UUIDID(uuid.Nil).Kind(); got != AssetUUID {
		t.Errorf("UUIDID Kind() = %v, want AssetUUID", got)
	}
}

func TestAssetIDString(t *testing.T) {
	id := IndexID(5, 0)
	if id.String() != id.Key() {
		t.Errorf("String() = %q, want %q", id.String(), id.Key())
	}
}
