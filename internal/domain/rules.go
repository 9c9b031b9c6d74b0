package domain

import (
	"fmt"
	"strings"
	"time"
)

// NewNomineeWindow define por quanto tempo um nominado aparece como novidade.
const NewNomineeWindow = 30 * 24 * time.Hour

// MaxScore é o teto de uma nota do júri (smallint positivo).
const MaxScore = 32767

// IsActive diz se a nominação aceita votos no instante now. Sem data de
// término ela fica aberta indefinidamente a partir da criação.
func IsActive(n Nomination, now time.Time) bool {
	if now.Before(n.CreatedDate) {
		return false
	}
	if n.EndDate == nil {
		return true
	}
	return !now.After(*n.EndDate)
}

// IsNew vale enquanto now <= created_at + 30 dias.
func IsNew(n Nominee, now time.Time) bool {
	return !now.After(n.CreatedAt.Add(NewNomineeWindow))
}

// ValidateDateRange garante end_date >= created_date quando end_date existe.
func ValidateDateRange(created time.Time, end *time.Time) error {
	if end != nil && end.Before(created) {
		return ErrInvalidDateRange
	}
	return nil
}

func (c Choice) Valid() bool {
	switch c {
	case ChoiceYes, ChoiceNo, ChoiceAbstain:
		return true
	}
	return false
}

func (c Choice) Label() string {
	switch c {
	case ChoiceYes:
		return "yes"
	case ChoiceNo:
		return "no"
	case ChoiceAbstain:
		return "abstain"
	default:
		return string(c)
	}
}

// ParseChoice aceita o código (Y/N/A) ou o nome (yes/no/abstain), sem diferenciar caixa.
func ParseChoice(raw string) (Choice, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "y", "yes":
		return ChoiceYes, nil
	case "n", "no":
		return ChoiceNo, nil
	case "a", "abstain":
		return ChoiceAbstain, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidChoice, raw)
}

func AllChoices() []Choice {
	return []Choice{ChoiceYes, ChoiceNo, ChoiceAbstain}
}

func (t Tally) Total() int64 {
	return t.Yes + t.No + t.Abstain
}

// Add soma um voto na partição correspondente; escolhas desconhecidas são ignoradas.
func (t *Tally) Add(c Choice, n int64) {
	switch c {
	case ChoiceYes:
		t.Yes += n
	case ChoiceNo:
		t.No += n
	case ChoiceAbstain:
		t.Abstain += n
	}
}

func (t Tally) Count(c Choice) int64 {
	switch c {
	case ChoiceYes:
		return t.Yes
	case ChoiceNo:
		return t.No
	case ChoiceAbstain:
		return t.Abstain
	}
	return 0
}
