package antifraude

import (
	"context"

	"github.com/marcelojr/premiacao/internal/domain"
)

// Noop aceita todos os votos; usado quando Redis ou o rate limit estão desligados.
type Noop struct{}

func NewNoop() Noop {
	return Noop{}
}

func (Noop) Check(context.Context, domain.Vote) error {
	return nil
}

var _ domain.Antifraude = Noop{}
