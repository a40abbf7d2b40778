package cache

import "testing"

func TestMockCache(t *testing.T) {
	c := NewMockCache()

	if _, ok := c.Get("missing"); ok {
		t.Errorf("Get() on empty cache reported a hit")
	}

	if err := c.Set("projection:u1", `{"monthsSaved":4}`); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	val, ok := c.Get("projection:u1")
	if !ok {
		t.Fatalf("Get() missed after Set()")
	}
	if val != `{"monthsSaved":4}` {
		t.Errorf("Get() = %s, expected stored value", val)
	}
}
