package voting

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/marcelojr/premiacao/internal/domain"
)

const (
	maxRoleName    = 50
	maxPersonName  = 30
	maxTitle       = 200
	maxEmailLength = 254
)

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s", domain.ErrMissingField, field)
	}
	return nil
}

func maxLen(field, value string, limit int) error {
	if len([]rune(value)) > limit {
		return fmt.Errorf("%w: %s excede %d caracteres", domain.ErrInvalidField, field, limit)
	}
	return nil
}

func validEmail(field, value string) error {
	if err := maxLen(field, value, maxEmailLength); err != nil {
		return err
	}
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value {
		return fmt.Errorf("%w: %s nao eh um email valido", domain.ErrInvalidField, field)
	}
	return nil
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func validateRole(in RoleInput) error {
	return firstErr(
		required("name", in.Name),
		maxLen("name", in.Name, maxRoleName),
	)
}

func validateUser(in UserInput) error {
	return firstErr(
		required("email", in.Email),
		validEmail("email", in.Email),
		required("role_id", string(in.RoleID)),
		maxLen("name", in.Name, maxPersonName),
		maxLen("surname", in.Surname, maxPersonName),
	)
}

func validateNomination(in NominationInput, created time.Time) error {
	if err := firstErr(
		required("name", in.Name),
		maxLen("name", in.Name, maxTitle),
	); err != nil {
		return err
	}
	return domain.ValidateDateRange(created, in.EndDate)
}

func validateNominee(in NomineeInput) error {
	if err := firstErr(
		required("nomination_id", string(in.NominationID)),
		required("user_id", string(in.UserID)),
		required("project_name", in.ProjectName),
		maxLen("project_name", in.ProjectName, maxTitle),
	); err != nil {
		return err
	}
	if in.Contact != "" {
		return validEmail("contact", in.Contact)
	}
	return nil
}

func validateScore(score int) error {
	if score < 0 || score > domain.MaxScore {
		return fmt.Errorf("%w: %d (0..%d)", domain.ErrInvalidScore, score, domain.MaxScore)
	}
	return nil
}

func validateExam(in ExamInput) error {
	if err := firstErr(
		required("name", in.Name),
		maxLen("name", in.Name, maxTitle),
	); err != nil {
		return err
	}
	if in.ExamDate.IsZero() {
		return fmt.Errorf("%w: exam_date", domain.ErrMissingField)
	}
	return nil
}
