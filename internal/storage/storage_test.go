package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocalStorage_ResolveURL(t *testing.T) {
	ls := NewLocalStorage("http://localhost:8080/")

	assert.Equal(t, "http://localhost:8080/uploads/promo.mp4", ls.ResolveURL("promo.mp4"))
	assert.Equal(t, "http://localhost:8080/uploads/promo.mp4", ls.ResolveURL("/promo.mp4"))
}

func TestLocalStorage_AbsoluteURLPassesThrough(t *testing.T) {
	ls := NewLocalStorage("http://localhost:8080")

	assert.Equal(t, "https://cdn.example.com/a.png", ls.ResolveURL("https://cdn.example.com/a.png"))
}
