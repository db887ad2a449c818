package dto

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDueDateParsesDateOnly(t *testing.T) {
	var req CreateTodoRequest
	if err := json.Unmarshal([]byte(`{"title":"t","dueDate":"2026-02-19"}`), &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	got := req.DueDate.Ptr()
	if got == nil {
		t.Fatal("expected a due date")
	}
	want := time.Date(2026, 2, 19, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestDueDateParsesRFC3339(t *testing.T) {
	var req CreateTodoRequest
	if err := json.Unmarshal([]byte(`{"title":"t","dueDate":"2026-02-19T15:04:05Z"}`), &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	got := req.DueDate.Ptr()
	if got == nil || got.Hour() != 15 {
		t.Fatalf("got %v", got)
	}
}

func TestDueDateNullAndEmpty(t *testing.T) {
	for _, body := range []string{
		`{"title":"t"}`,
		`{"title":"t","dueDate":null}`,
		`{"title":"t","dueDate":""}`,
	} {
		var req CreateTodoRequest
		if err := json.Unmarshal([]byte(body), &req); err != nil {
			t.Fatalf("unmarshal %s: %v", body, err)
		}
		if req.DueDate.Ptr() != nil {
			t.Fatalf("expected nil due date for %s", body)
		}
	}
}

func TestDueDateRejectsGarbage(t *testing.T) {
	var req CreateTodoRequest
	if err := json.Unmarshal([]byte(`{"title":"t","dueDate":"next tuesday"}`), &req); err == nil {
		t.Fatal("expected an error")
	}
}

func TestTagsMustBeArray(t *testing.T) {
	var req CreateTodoRequest
	if err := json.Unmarshal([]byte(`{"title":"t","tags":"work"}`), &req); err == nil {
		t.Fatal("expected an error for non-array tags")
	}
	var upd UpdateTodoRequest
	if err := json.Unmarshal([]byte(`{"tags":{"a":1}}`), &upd); err == nil {
		t.Fatal("expected an error for non-array tags")
	}
}

func TestUpdateTagsNilVsEmpty(t *testing.T) {
	var omitted UpdateTodoRequest
	if err := json.Unmarshal([]byte(`{"title":"x"}`), &omitted); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if omitted.Tags != nil {
		t.Fatal("omitted tags must stay nil (keep associations)")
	}

	var cleared UpdateTodoRequest
	if err := json.Unmarshal([]byte(`{"tags":[]}`), &cleared); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if cleared.Tags == nil || len(*cleared.Tags) != 0 {
		t.Fatal("explicit empty tags must decode as an empty replacement set")
	}
}
