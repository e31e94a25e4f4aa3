package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContainsPattern_EscapaComodines(t *testing.T) {
	assert.Equal(t, "%arroz%", containsPattern("arroz"))
	assert.Equal(t, `%50\%%`, containsPattern("50%"))
	assert.Equal(t, `%a\_b%`, containsPattern("a_b"))
	assert.Equal(t, `%c:\\tmp%`, containsPattern(`c:\tmp`))
}

func TestStatementsFor_StoreSeUsaTalCual(t *testing.T) {
	s := &Store{}
	assert.Same(t, s, statementsFor(s))
	_, wrapped := statementsFor(nil).(direct)
	assert.True(t, wrapped)
}
