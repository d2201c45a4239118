package boundary

import (
	"fmt"
	"strconv"

	"github.com/staticdex/staticdex/internal/errors"
)

func errBadBoundary(b FieldBoundary, reason string) error {
	return errors.InputError(
		errors.ErrCodeBadFieldBoundary,
		fmt.Sprintf("field boundary invalid: %s", reason),
		strconv.Itoa(b.DocID),
		b.Start,
		nil,
	)
}
