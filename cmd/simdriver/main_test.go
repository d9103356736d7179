package main

import "testing"

func TestSpeedURL(t *testing.T) {
	tests := []struct {
		link, session, want string
	}{
		{"ws://localhost:8090/ws/sim", "a", "http://localhost:8090/api/sessions/a/speed"},
		{"wss://robots.example/ws/sim/", "b", "https://robots.example/api/sessions/b/speed"},
	}
	for _, tt := range tests {
		if got := speedURL(tt.link, tt.session); got != tt.want {
			t.Errorf("speedURL(%q) = %q, want %q", tt.link, got, tt.want)
		}
	}
}
