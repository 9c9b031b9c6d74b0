package domain

import (
	"errors"
	"fmt"
)

// Categorias. Os erros específicos abaixo embrulham uma delas, então
// errors.Is(err, ErrValidation) vale para qualquer falha de validação.
var (
	ErrValidation           = errors.New("validacao falhou")
	ErrConflict             = errors.New("conflito")
	ErrReferentialIntegrity = errors.New("registro referenciado por dependentes")
	ErrNotFound             = errors.New("registro nao encontrado")
)

var (
	ErrInvalidDateRange = fmt.Errorf("%w: data de termino anterior a data de criacao", ErrValidation)
	ErrInvalidChoice    = fmt.Errorf("%w: escolha de voto invalida", ErrValidation)
	ErrInvalidScore     = fmt.Errorf("%w: nota fora do intervalo permitido", ErrValidation)
	ErrMissingField     = fmt.Errorf("%w: campo obrigatorio", ErrValidation)
	ErrInvalidField     = fmt.Errorf("%w: campo invalido", ErrValidation)
	ErrNominationClosed = fmt.Errorf("%w: nominacao fora do periodo de votacao", ErrValidation)
)

var (
	ErrDuplicateKey          = fmt.Errorf("%w: chave duplicada", ErrConflict)
	ErrDuplicateVote         = fmt.Errorf("%w: usuario ja votou neste nominado", ErrConflict)
	ErrDuplicateNomination   = fmt.Errorf("%w: usuario ja nominado nesta nominacao", ErrConflict)
	ErrDuplicateEvaluation   = fmt.Errorf("%w: jurado ja avaliou este nominado", ErrConflict)
	ErrDuplicateSubscription = fmt.Errorf("%w: usuario ja inscrito nesta nominacao", ErrConflict)
)
