package cache

import "testing"

func TestBasicOperations(t *testing.T) {
	c := New[int, string](3)
	c.Put(1, "one")
	c.Put(2, "two")
	c.Put(3, "three")

	if v, ok := c.Get(1); !ok || v != "one" {
		t.Errorf("Get(1) = %q, %v; want \"one\", true", v, ok)
	}
	if !c.Contains(2) {
		t.Error("Contains(2) = false, want true")
	}
	if c.Len() != 3 {
		t.Errorf("Len = %d, want 3", c.Len())
	}
}

func TestLRUEviction(t *testing.T) {
	c := New[int, string](3)
	c.Put(1, "one")
	c.Put(2, "two")
	c.Put(3, "three")

	c.Get(1)          // key 1 becomes most recent
	c.Put(4, "four")  // evicts key 2, the coldest

	if !c.Contains(1) {
		t.Error("recently used key 1 evicted")
	}
	if c.Contains(2) {
		t.Error("cold key 2 survived eviction")
	}
	if !c.Contains(4) {
		t.Error("new key 4 missing")
	}
	if c.Len() != 3 {
		t.Errorf("Len = %d, want 3", c.Len())
	}
}

func TestPutOverwritesAndPromotes(t *testing.T) {
	c := New[int, string](2)
	c.Put(1, "one")
	c.Put(2, "two")
	c.Put(1, "ONE") // overwrite promotes key 1
	c.Put(3, "three")

	if v, ok := c.Get(1); !ok || v != "ONE" {
		t.Errorf("Get(1) = %q, %v; want \"ONE\", true", v, ok)
	}
	if c.Contains(2) {
		t.Error("key 2 should have been evicted, not key 1")
	}
}

func TestContainsDoesNotPromote(t *testing.T) {
	c := New[int, int](2)
	c.Put(1, 10)
	c.Put(2, 20)
	c.Contains(1) // must not refresh recency
	c.Put(3, 30)

	if c.Contains(1) {
		t.Error("Contains promoted key 1")
	}
	if !c.Contains(2) {
		t.Error("key 2 wrongly evicted")
	}
}

func TestCapacityOne(t *testing.T) {
	c := New[int, int](1)
	c.Put(10, 100)
	c.Put(20, 200)

	if c.Contains(10) {
		t.Error("capacity-1 cache kept evicted key")
	}
	if v, ok := c.Get(20); !ok || v != 200 {
		t.Errorf("Get(20) = %d, %v; want 200, true", v, ok)
	}
}

func TestZeroCapacityStoresNothing(t *testing.T) {
	c := New[int, int](0)
	c.Put(1, 1)
	if c.Len() != 0 {
		t.Errorf("Len = %d, want 0", c.Len())
	}
}

func TestClear(t *testing.T) {
	c := New[int, int](4)
	c.Put(1, 1)
	c.Put(2, 2)
	c.Clear()
	if c.Len() != 0 || c.Contains(1) {
		t.Error("Clear left residual entries")
	}
	// Still usable afterwards.
	c.Put(3, 3)
	if v, ok := c.Get(3); !ok || v != 3 {
		t.Error("cache unusable after Clear")
	}
}
