//go:build !integration

package usecase_test

import (
	"errors"
	"testing"

	"travel-ai-planner/internal/domain"
	"travel-ai-planner/internal/usecase"
)

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{
			name: "bare object",
			in:   `{"a":1}`,
			want: `{"a":1}`,
		},
		{
			name: "fenced with language tag",
			in:   "```json\n{\"a\":1}\n```",
			want: `{"a":1}`,
		},
		{
			name: "fenced without language tag",
			in:   "```\n{\"a\":1}\n```",
			want: `{"a":1}`,
		},
		{
			name: "surrounded by prose",
			in:   "Sure! Here is your plan:\n{\"days\":[]}\nLet me know if you need changes.",
			want: `{"days":[]}`,
		},
		{
			name: "nested braces",
			in:   `prefix {"a":{"b":2}} suffix`,
			want: `{"a":{"b":2}}`,
		},
		{
			name:    "no json at all",
			in:      "I'm sorry, I cannot help with that.",
			wantErr: true,
		},
		{
			name:    "empty input",
			in:      "",
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := usecase.ExtractJSON(tc.in)
			if tc.wantErr {
				if !errors.Is(err, domain.ErrMalformedResponse) {
					t.Fatalf("expected ErrMalformedResponse, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestParseStructure(t *testing.T) {
	t.Run("valid structure", func(t *testing.T) {
		raw := "```json\n" + `{"trip":{"name":"Test","destination":"Lisbon","start_date":"2026-05-01","end_date":"2026-05-02"},"days":[{"date":"2026-05-01"},{"date":"2026-05-02"}]}` + "\n```"
		st, err := usecase.ParseStructure(raw)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(st.Days) != 2 || st.Trip.Destination != "Lisbon" {
			t.Errorf("bad parse: %+v", st)
		}
	})

	t.Run("no days is malformed", func(t *testing.T) {
		raw := `{"trip":{"name":"Test"},"days":[]}`
		if _, err := usecase.ParseStructure(raw); !errors.Is(err, domain.ErrMalformedResponse) {
			t.Fatalf("expected ErrMalformedResponse, got %v", err)
		}
	})

	t.Run("invalid json is malformed", func(t *testing.T) {
		if _, err := usecase.ParseStructure(`{"trip": forgot quotes}`); !errors.Is(err, domain.ErrMalformedResponse) {
			t.Fatalf("expected ErrMalformedResponse, got %v", err)
		}
	})
}

func TestParseActivities(t *testing.T) {
	t.Run("valid payload", func(t *testing.T) {
		acts, err := usecase.ParseActivities(`{"activities":[{"name":"Walk","category":"sightseeing"}]}`)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(acts) != 1 || acts[0].Name != "Walk" {
			t.Errorf("bad parse: %+v", acts)
		}
	})

	t.Run("empty list is valid", func(t *testing.T) {
		acts, err := usecase.ParseActivities(`{"activities":[]}`)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(acts) != 0 {
			t.Errorf("expected empty list, got %+v", acts)
		}
	})

	t.Run("missing activities key is malformed", func(t *testing.T) {
		if _, err := usecase.ParseActivities(`{"items":[]}`); !errors.Is(err, domain.ErrMalformedResponse) {
			t.Fatalf("expected ErrMalformedResponse, got %v", err)
		}
	})
}
