package types

import (
	"errors"
	"testing"
)

func TestGoodKindValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind GoodKind
		want bool
	}{
		{DEFAULT, true},
		{A, true},
		{B, true},
		{C, true},
		{GoodKind("Z"), false},
		{GoodKind(""), false},
	}

	for _, tt := range tests {
		if got := tt.kind.Valid(); got != tt.want {
			t.Errorf("GoodKind(%q).Valid() = %v, want %v", tt.kind, got, tt.want)
		}
	}
}

func TestGoodSplit(t *testing.T) {
	t.Parallel()

	g := Good{Kind: A, Quantity: 10}
	split, err := g.Split(4)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if split.Kind != A || split.Quantity != 4 {
		t.Errorf("split = %+v, want {A 4}", split)
	}
	if g.Quantity != 6 {
		t.Errorf("remaining quantity = %v, want 6", g.Quantity)
	}
}

func TestGoodSplitNonPositive(t *testing.T) {
	t.Parallel()

	g := Good{Kind: A, Quantity: 10}
	if _, err := g.Split(0); err == nil {
		t.Fatal("expected error for zero split")
	}
	if _, err := g.Split(-1); err == nil {
		t.Fatal("expected error for negative split")
	}
	if g.Quantity != 10 {
		t.Errorf("quantity mutated on failed split: %v, want 10", g.Quantity)
	}
}

func TestGoodSplitInsufficient(t *testing.T) {
	t.Parallel()

	g := Good{Kind: A, Quantity: 5}
	_, err := g.Split(6)
	if err == nil {
		t.Fatal("expected InsufficientGoodQuantityError")
	}
	var insufficient *InsufficientGoodQuantityError
	if !errors.As(err, &insufficient) {
		t.Fatalf("err = %v (%T), want *InsufficientGoodQuantityError", err, err)
	}
	if g.Quantity != 5 {
		t.Errorf("quantity mutated on failed split: %v, want 5", g.Quantity)
	}
}
