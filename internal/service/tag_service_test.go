package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"tagdo/internal/tagname"
)

func TestGetOrCreateNormalizes(t *testing.T) {
	_, svc, _ := newTestServices()

	tag, created, err := svc.GetOrCreate(context.Background(), "  Important  ")
	if err != nil {
		t.Fatalf("get or create: %v", err)
	}
	if !created {
		t.Fatal("first call must create")
	}
	if tag.Name != "important" {
		t.Fatalf("expected canonical name, got %q", tag.Name)
	}
}

func TestGetOrCreateResolvesEquivalentInputs(t *testing.T) {
	_, svc, db := newTestServices()

	first, _, err := svc.GetOrCreate(context.Background(), "  Important  ")
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, created, err := svc.GetOrCreate(context.Background(), "IMPORTANT")
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if created {
		t.Fatal("equivalent input must not create a second row")
	}
	if first.ID != second.ID {
		t.Fatalf("expected same identity, got %q and %q", first.ID, second.ID)
	}
	if len(db.tags) != 1 {
		t.Fatalf("expected one tag row, got %d", len(db.tags))
	}
}

func TestGetOrCreateJapaneseNames(t *testing.T) {
	_, svc, _ := newTestServices()

	tag, created, err := svc.GetOrCreate(context.Background(), "重要")
	if err != nil || !created || tag.Name != "重要" {
		t.Fatalf("got tag=%+v created=%v err=%v", tag, created, err)
	}
	tag, created, err = svc.GetOrCreate(context.Background(), "ユニークタグ")
	if err != nil || !created || tag.Name != "ユニークタグ" {
		t.Fatalf("got tag=%+v created=%v err=%v", tag, created, err)
	}
	_, created, err = svc.GetOrCreate(context.Background(), "ユニークタグ")
	if err != nil || created {
		t.Fatalf("re-create must resolve to the existing tag, created=%v err=%v", created, err)
	}
}

func TestGetOrCreateValidation(t *testing.T) {
	_, svc, _ := newTestServices()

	tests := []struct {
		raw  string
		want error
	}{
		{raw: "", want: tagname.ErrEmpty},
		{raw: "   ", want: tagname.ErrEmpty},
		{raw: strings.Repeat("a", 21), want: tagname.ErrTooLong},
		{raw: "invalid@tag!", want: tagname.ErrInvalidChar},
	}
	for _, tt := range tests {
		_, _, err := svc.GetOrCreate(context.Background(), tt.raw)
		var tnErr *TagNameError
		if !errors.As(err, &tnErr) {
			t.Fatalf("GetOrCreate(%q): expected TagNameError, got %v", tt.raw, err)
		}
		if !errors.Is(err, tt.want) {
			t.Fatalf("GetOrCreate(%q): expected cause %v, got %v", tt.raw, tt.want, err)
		}
	}

	// Boundary: exactly 20 characters is fine.
	if _, _, err := svc.GetOrCreate(context.Background(), strings.Repeat("a", 20)); err != nil {
		t.Fatalf("20-char name must pass, got %v", err)
	}
}

func TestTagListSortedWithCounts(t *testing.T) {
	todoSvc, svc, _ := newTestServices()
	ctx := context.Background()

	if _, _, err := svc.GetOrCreate(ctx, "zebra"); err != nil {
		t.Fatalf("seed zebra: %v", err)
	}
	if _, err := todoSvc.Create(ctx, CreateTodoInput{Title: "1", Tags: []string{"zebra", "alpha"}}); err != nil {
		t.Fatalf("seed todo 1: %v", err)
	}
	if _, err := todoSvc.Create(ctx, CreateTodoInput{Title: "2", Tags: []string{"zebra"}}); err != nil {
		t.Fatalf("seed todo 2: %v", err)
	}
	if _, _, err := svc.GetOrCreate(ctx, "beta"); err != nil {
		t.Fatalf("seed beta: %v", err)
	}

	list, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 tags, got %d", len(list))
	}
	if list[0].Name != "alpha" || list[1].Name != "beta" || list[2].Name != "zebra" {
		t.Fatalf("expected name-ascending order, got %+v", list)
	}
	if list[0].Count != 1 || list[1].Count != 0 || list[2].Count != 2 {
		t.Fatalf("unexpected counts: %+v", list)
	}
}
