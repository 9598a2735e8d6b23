package snowflake

import "testing"

func TestGenerateIDUnique(t *testing.T) {
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		id := GenerateIDString()
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = struct{}{}
	}
}

func TestGenerateIDMonotonic(t *testing.T) {
	prev := GenerateID()
	for i := 0; i < 100; i++ {
		next := GenerateID()
		if next <= prev {
			t.Fatalf("id not increasing: %d then %d", prev, next)
		}
		prev = next
	}
}
