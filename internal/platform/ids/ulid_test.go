package ids

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerator_New_DeveGerarIDsCrescentes(t *testing.T) {
	gen := NewGenerator()

	a := gen.New()
	b := gen.New()

	assert.Len(t, a, 26)
	assert.Less(t, a, b)
	assert.True(t, Valid(a))
}

func TestValid_QuandoFormatoInvalido_DeveRetornarFalso(t *testing.T) {
	assert.False(t, Valid(""))
	assert.False(t, Valid("123"))
	assert.False(t, Valid("01HXXXXXXXXXXXXXXXXXXXXXXU"))
	assert.True(t, Valid(DefaultGenerator().New()))
}
