package service

import (
	"strings"
	"testing"

	"asistente-fincas/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestAssemble_JoinsWithBlankLine(t *testing.T) {
	a := NewContextAssembler(1500)

	got := a.Assemble([]models.Document{
		{Content: "primer documento"},
		{Content: "segundo documento"},
	})
	assert.Equal(t, "primer documento\n\nsegundo documento", got)
}

func TestAssemble_EmptyListYieldsEmptyString(t *testing.T) {
	a := NewContextAssembler(1500)
	assert.Equal(t, "", a.Assemble(nil))
	assert.Equal(t, "", a.Assemble([]models.Document{}))
}

func TestAssemble_TruncatesToWordBudget(t *testing.T) {
	a := NewContextAssembler(10)

	doc := models.Document{Content: strings.Repeat("palabra ", 30)}
	got := a.Assemble([]models.Document{doc})
	assert.Len(t, strings.Fields(got), 10)
}

func TestAssemble_UnderBudgetKeepsEveryWord(t *testing.T) {
	a := NewContextAssembler(10)

	got := a.Assemble([]models.Document{
		{Content: "tres palabras justas"},
		{Content: "dos más"},
	})
	assert.Len(t, strings.Fields(got), 5)
}
