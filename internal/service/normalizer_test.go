package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_StripsPunctuationNoise(t *testing.T) {
	n := NewTextNormalizer(500)

	got := n.Normalize("¿Cómo contacto al portero?!@#$")
	assert.Equal(t, "¿Cómo contacto al portero?", got)
}

func TestNormalize_KeepsAccentsAndEnie(t *testing.T) {
	n := NewTextNormalizer(500)

	got := n.Normalize("  ¿Cuándo baña el jardín la señora Muñoz?  ")
	assert.Equal(t, "¿Cuándo baña el jardín la señora Muñoz?", got)
}

func TestNormalize_AllRemovedYieldsEmpty(t *testing.T) {
	n := NewTextNormalizer(500)

	assert.Equal(t, "", n.Normalize("!!!@@@"))
	assert.Equal(t, "", n.Normalize("   "))
}

func TestNormalize_TruncatesToMaxRunes(t *testing.T) {
	n := NewTextNormalizer(500)

	long := strings.Repeat("á", 600)
	got := n.Normalize(long)
	assert.Equal(t, 500, len([]rune(got)))
}
