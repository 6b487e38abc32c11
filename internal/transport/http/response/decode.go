package response

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/baechuer/real-time-ressys/services/user-service/internal/domain"
)

const maxBodyBytes = 1 << 20

// DecodeJSON reads exactly one JSON value from the request body into dst.
// Unknown fields, trailing values, empty bodies and bodies over 1MB are all
// reported as invalid_json.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return invalidJSON(err)
	}

	switch err := dec.Decode(&struct{}{}); {
	case errors.Is(err, io.EOF):
		return nil
	case err != nil:
		return invalidJSON(err)
	default:
		return domain.ErrInvalidJSON(errors.New("multiple JSON values"))
	}
}

func invalidJSON(err error) error {
	var tooBig *http.MaxBytesError
	if errors.As(err, &tooBig) {
		return domain.WithMeta(domain.ErrInvalidJSON(err), map[string]string{"reason": "body too large"})
	}
	return domain.ErrInvalidJSON(err)
}
