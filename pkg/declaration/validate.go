package declaration

import (
	"strings"

	"github.com/ghoshnapatra/ghoshna/pkg/errors"
)

// Validate checks that every field is filled in and safe to render.
// It is the upstream check the form layer runs before invoking an export;
// the pipeline itself renders blank fields as placeholders.
func (r Record) Validate() error {
	for _, f := range Fields {
		if err := errors.ValidateFieldValue(string(f), r.Get(f)); err != nil {
			return err
		}
	}

	missing := r.Missing()
	if len(missing) > 0 {
		names := make([]string, len(missing))
		for i, f := range missing {
			names[i] = f.Label()
		}
		return errors.New(errors.ErrCodeValidationIncomplete,
			"कृपया सभी फ़ील्ड भरें (%s)", strings.Join(names, ", "))
	}

	if _, ok := ParseDate(r.Date); !ok {
		return errors.New(errors.ErrCodeInvalidInput, "invalid date %q (want YYYY-MM-DD)", r.Date)
	}
	return nil
}
