// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package session

import "testing"

func TestShareURL(t *testing.T) {
	tests := []struct {
		location string
		want     string
	}{
		{"http://localhost:5173/", "http://localhost:5173/?search=abc"},
		{"https://papers.example.org/app?tab=list#top", "https://papers.example.org/app?search=abc&tab=list#top"},
		{"https://papers.example.org/?search=old", "https://papers.example.org/?search=abc"},
	}
	for _, tc := range tests {
		got, err := ShareURL(tc.location, "abc")
		if err != nil {
			t.Fatalf("ShareURL(%q): %v", tc.location, err)
		}
		if got != tc.want {
			t.Errorf("ShareURL(%q) = %q, want %q", tc.location, got, tc.want)
		}
	}
}

func TestParseHandle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"abc123", "abc123"},
		{"  abc123\n", "abc123"},
		{"http://localhost:5173/?search=abc123", "abc123"},
		{"https://papers.example.org/app?tab=x&search=h%2F1", "h/1"},
		{"http://localhost:5173/", ""},
		{"", ""},
	}
	for _, tc := range tests {
		if got := ParseHandle(tc.in); got != tc.want {
			t.Errorf("ParseHandle(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
