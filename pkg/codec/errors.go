package codec

import "github.com/staticdex/staticdex/internal/errors"

func truncatedFrontCode() error {
	return errors.CodecError(errors.ErrCodeTruncatedVarint, "front-coded string: suffix runs past end of buffer", nil)
}
