package realip

import (
	"net/http/httptest"
	"testing"
)

func TestFromRequest(t *testing.T) {
	tests := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		want       string
	}{
		{
			name:       "cloudflare header wins",
			headers:    map[string]string{"CF-Connecting-IP": "198.51.100.7", "X-Forwarded-For": "203.0.113.5"},
			remoteAddr: "10.0.0.1:443",
			want:       "198.51.100.7",
		},
		{
			name:       "invalid cloudflare header skipped",
			headers:    map[string]string{"CF-Connecting-IP": "not-an-ip", "X-Forwarded-For": "203.0.113.5, 10.0.0.1"},
			remoteAddr: "10.0.0.1:443",
			want:       "203.0.113.5",
		},
		{
			name:       "forwarded-for later entry used when first invalid",
			headers:    map[string]string{"X-Forwarded-For": "unknown, 203.0.113.5"},
			remoteAddr: "10.0.0.1:443",
			want:       "203.0.113.5",
		},
		{
			name:       "real-ip fallback",
			headers:    map[string]string{"X-Real-IP": "2001:db8::1"},
			remoteAddr: "10.0.0.1:443",
			want:       "2001:db8::1",
		},
		{
			name:       "remote address fallback",
			remoteAddr: "192.0.2.10:51234",
			want:       "192.0.2.10",
		},
		{
			name:       "ipv6 remote address",
			remoteAddr: "[2001:db8::2]:443",
			want:       "2001:db8::2",
		},
		{
			name:       "nothing validates falls back to remote host",
			headers:    map[string]string{"CF-Connecting-IP": "bogus", "X-Forwarded-For": "also-bogus"},
			remoteAddr: "not-an-address",
			want:       "not-an-address",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := FromRequest(r); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
