package util

import (
	"net/http"
	"testing"
)

func TestNewProxyFunc_Explicit(t *testing.T) {
	proxyFunc := NewProxyFunc("http://proxy:3128", "http://sproxy:3128", "localhost")

	req, _ := http.NewRequest(http.MethodGet, "https://inference.example.com/generate", nil)
	u, err := proxyFunc(req)
	if err != nil {
		t.Fatalf("proxy func failed: %v", err)
	}
	if u == nil || u.Host != "sproxy:3128" {
		t.Errorf("expected https proxy, got %v", u)
	}

	req, _ = http.NewRequest(http.MethodGet, "http://inference.example.com/generate", nil)
	u, _ = proxyFunc(req)
	if u == nil || u.Host != "proxy:3128" {
		t.Errorf("expected http proxy, got %v", u)
	}
}

func TestNewProxyFunc_Bypass(t *testing.T) {
	proxyFunc := NewProxyFunc("http://proxy:3128", "", "localhost, 127.0.0.1")

	req, _ := http.NewRequest(http.MethodGet, "http://localhost:8000/health", nil)
	u, err := proxyFunc(req)
	if err != nil {
		t.Fatalf("proxy func failed: %v", err)
	}
	if u != nil {
		t.Errorf("expected direct connection for bypassed host, got %v", u)
	}
}

func TestNewProxyFunc_Default(t *testing.T) {
	proxyFunc := NewProxyFunc("", "", "")
	// With no explicit proxies the environment decides; just make sure
	// the function is callable.
	req, _ := http.NewRequest(http.MethodGet, "http://example.com", nil)
	if _, err := proxyFunc(req); err != nil {
		t.Fatalf("proxy func failed: %v", err)
	}
}
