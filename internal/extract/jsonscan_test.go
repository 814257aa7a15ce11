// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import "testing"

func TestFirstJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare object", `{"a":1}`, `{"a":1}`},
		{"bare array", `[1,2,3]`, `[1,2,3]`},
		{"leading prose", `Sure! Here is the JSON: {"a":1}`, `{"a":1}`},
		{"trailing prose", `{"a":1} Hope that helps.`, `{"a":1}`},
		{"nested objects", `text {"a":{"b":[1,{"c":2}]}} tail`, `{"a":{"b":[1,{"c":2}]}}`},
		{"braces inside strings", `{"title":"On {braces} and ]brackets["}`, `{"title":"On {braces} and ]brackets["}`},
		{"escaped quote in string", `{"a":"he said \"hi\" {"}`, `{"a":"he said \"hi\" {"}`},
		{"unbalanced", `{"a": [1, 2`, ""},
		{"no json at all", "nothing to see here", ""},
		{"empty", "", ""},
		{"stray closer before open", `] {"a":1}`, `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FirstJSON(tt.in)
			if got != tt.want {
				t.Errorf("FirstJSON(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
