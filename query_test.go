package mq

import (
	"errors"
	"testing"
)

func TestMatchLiterals(t *testing.T) {
	tests := []struct {
		name      string
		condition any
		entry     any
		want      bool
	}{
		{
			name:      "scalar_equality",
			condition: map[string]any{"a": 1},
			entry:     map[string]any{"a": 1},
			want:      true,
		},
		{
			name:      "scalar_inequality",
			condition: map[string]any{"a": 1},
			entry:     map[string]any{"a": 2},
		},
		{
			name:      "numeric_cross_type_equality",
			condition: map[string]any{"a": 1},
			entry:     map[string]any{"a": 1.0},
			want:      true,
		},
		{
			name:      "membership_in_sequence",
			condition: map[string]any{"tags": "x"},
			entry:     map[string]any{"tags": []any{"x", "y"}},
			want:      true,
		},
		{
			name:      "membership_miss",
			condition: map[string]any{"tags": "z"},
			entry:     map[string]any{"tags": []any{"x", "y"}},
		},
		{
			// A sequence entry turns the literal check into membership, so a
			// sequence condition matches only as a nested element.
			name:      "sequence_literal_checks_membership",
			condition: []any{1, 2},
			entry:     []any{1, 2},
		},
		{
			name:      "sequence_literal_as_nested_element",
			condition: []any{1, 2},
			entry:     []any{[]any{1, 2}, []any{3}},
			want:      true,
		},
		{
			name:      "nested_mapping_equality",
			condition: map[string]any{"a": map[string]any{"b": 1}},
			entry:     map[string]any{"a": map[string]any{"b": 1}},
			want:      true,
		},
		{
			name:      "missing_field_fails_soft",
			condition: map[string]any{"x": 1},
			entry:     map[string]any{"a": 1},
		},
		{
			name:      "empty_condition_matches_anything",
			condition: map[string]any{},
			entry:     map[string]any{"a": 1},
			want:      true,
		},
		{
			name:      "conjunction_over_keys",
			condition: map[string]any{"a": 1, "b": 2},
			entry:     map[string]any{"a": 1, "b": 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := New(tt.condition).Match(tt.entry)
			if err != nil {
				t.Fatalf("Match() error = %v", err)
			}
			if got != tt.want {
				t.Fatalf("Match() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMatchDotPaths(t *testing.T) {
	tests := []struct {
		name      string
		condition any
		entry     any
		want      bool
	}{
		{
			name:      "nested_path",
			condition: map[string]any{"a.b.c": 1},
			entry:     map[string]any{"a": map[string]any{"b": map[string]any{"c": 1}}},
			want:      true,
		},
		{
			name:      "array_fan_out",
			condition: map[string]any{"items.name": "x"},
			entry: map[string]any{"items": []any{
				map[string]any{"name": "y"},
				map[string]any{"name": "x"},
			}},
			want: true,
		},
		{
			name:      "array_fan_out_miss",
			condition: map[string]any{"items.name": "z"},
			entry: map[string]any{"items": []any{
				map[string]any{"name": "y"},
				map[string]any{"name": "x"},
			}},
		},
		{
			name:      "explicit_index",
			condition: map[string]any{"items.1.name": "x"},
			entry: map[string]any{"items": []any{
				map[string]any{"name": "y"},
				map[string]any{"name": "x"},
			}},
			want: true,
		},
		{
			name:      "null_short_circuits_descent",
			condition: map[string]any{"a.b": nil},
			entry:     map[string]any{"a": nil},
			want:      true,
		},
		{
			name:      "operator_behind_path",
			condition: map[string]any{"user.age": map[string]any{"$gte": 18}},
			entry:     map[string]any{"user": map[string]any{"age": 21}},
			want:      true,
		},
		{
			name:      "operator_distributes_over_sequence",
			condition: map[string]any{"scores": map[string]any{"$gt": 90}},
			entry:     map[string]any{"scores": []any{40, 95, 60}},
			want:      true,
		},
		{
			name:      "operator_distribution_miss",
			condition: map[string]any{"scores": map[string]any{"$gt": 90}},
			entry:     map[string]any{"scores": []any{40, 60}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := New(tt.condition).Match(tt.entry)
			if err != nil {
				t.Fatalf("Match() error = %v", err)
			}
			if got != tt.want {
				t.Fatalf("Match() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMatchExists(t *testing.T) {
	tests := []struct {
		name      string
		condition any
		entry     any
		want      bool
	}{
		{
			name:      "exists_true_key_absent",
			condition: map[string]any{"a": map[string]any{"$exists": true}},
			entry:     map[string]any{"b": 1},
		},
		{
			name:      "exists_true_key_present_null",
			condition: map[string]any{"a": map[string]any{"$exists": true}},
			entry:     map[string]any{"a": nil},
			want:      true,
		},
		{
			name:      "exists_false_key_absent",
			condition: map[string]any{"a": map[string]any{"$exists": false}},
			entry:     map[string]any{"b": 1},
			want:      true,
		},
		{
			name:      "exists_false_key_present",
			condition: map[string]any{"a": map[string]any{"$exists": false}},
			entry:     map[string]any{"a": 1},
		},
		{
			name: "exists_beside_another_check",
			condition: map[string]any{"a": map[string]any{
				"$exists": true,
				"$gt":     0,
			}},
			entry: map[string]any{"a": 1},
			want:  true,
		},
		{
			// The operator body reached through $not is a no-op, so the
			// negation always fails regardless of key presence.
			name:      "exists_under_not_uses_noop_body",
			condition: map[string]any{"a": map[string]any{"$not": map[string]any{"$exists": false}}},
			entry:     map[string]any{"b": 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := New(tt.condition).Match(tt.entry)
			if err != nil {
				t.Fatalf("Match() error = %v", err)
			}
			if got != tt.want {
				t.Fatalf("Match() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMatchErrors(t *testing.T) {
	tests := []struct {
		name      string
		condition any
		entry     any
		wantErr   error
	}{
		{
			name:      "unknown_operator",
			condition: map[string]any{"a": map[string]any{"$bogus": 1}},
			entry:     map[string]any{"a": 1},
			wantErr:   ErrUnsupportedOperator,
		},
		{
			name:      "top_level_unknown_operator",
			condition: map[string]any{"$bogus": 1},
			entry:     map[string]any{"a": 1},
			wantErr:   ErrUnsupportedOperator,
		},
		{
			name:      "explicit_index_out_of_range",
			condition: map[string]any{"items.5": 1},
			entry:     map[string]any{"items": []any{1, 2}},
			wantErr:   ErrIndexOutOfRange,
		},
		{
			name:      "not_implemented_text",
			condition: map[string]any{"$text": "abc"},
			entry:     map[string]any{"a": 1},
			wantErr:   ErrNotImplemented,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.condition).Match(tt.entry)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Match() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// Condition keys are evaluated in sorted order, so a condition mixing a
// failing key with an erroring sibling resolves the same way on every call.
func TestMatchKeyOrderIsDeterministic(t *testing.T) {
	tests := []struct {
		name      string
		condition any
		entry     any
		wantErr   bool
	}{
		{
			name: "failing_key_sorts_before_erroring_sibling",
			condition: map[string]any{
				"a": 9,
				"b": map[string]any{"$bogus": 1},
			},
			entry: map[string]any{"a": 1, "b": 1},
		},
		{
			name: "erroring_key_sorts_before_failing_sibling",
			condition: map[string]any{
				"a": map[string]any{"$bogus": 1},
				"z": 9,
			},
			entry:   map[string]any{"a": 1, "z": 1},
			wantErr: true,
		},
		{
			name: "elem_match_criteria",
			condition: map[string]any{"tags": map[string]any{"$elemMatch": map[string]any{
				"$bogus": 1,
				"$gt":    100,
			}}},
			entry:   map[string]any{"tags": []any{1}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query := New(tt.condition)
			for i := 0; i < 200; i++ {
				got, err := query.Match(tt.entry)
				if (err != nil) != tt.wantErr {
					t.Fatalf("Match() call %d error = %v, wantErr %v", i+1, err, tt.wantErr)
				}
				if got {
					t.Fatalf("Match() call %d = true, want false", i+1)
				}
			}
		})
	}
}

func TestMatchIsRepeatable(t *testing.T) {
	query := New(map[string]any{
		"$or": []any{
			map[string]any{"a": map[string]any{"$gt": 5}},
			map[string]any{"tags": "x"},
		},
	})
	entry := map[string]any{"a": 7, "tags": []any{"y"}}

	for i := 0; i < 3; i++ {
		got, err := query.Match(entry)
		if err != nil {
			t.Fatalf("Match() error = %v", err)
		}
		if !got {
			t.Fatalf("Match() = false on call %d, want true", i+1)
		}
	}
}

func TestEqualValues(t *testing.T) {
	tests := []struct {
		name string
		a    any
		b    any
		want bool
	}{
		{name: "nested_numeric_cross_type", a: map[string]any{"n": int64(1)}, b: map[string]any{"n": 1.0}, want: true},
		{name: "sequence_order_matters", a: []any{1, 2}, b: []any{2, 1}},
		{name: "nil_equals_nil", a: nil, b: nil, want: true},
		{name: "string_vs_number", a: "1", b: 1},
		{name: "bool_vs_number", a: true, b: 1},
		{name: "mapping_length_mismatch", a: map[string]any{"a": 1}, b: map[string]any{"a": 1, "b": 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := equalValues(tt.a, tt.b); got != tt.want {
				t.Fatalf("equalValues(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}
