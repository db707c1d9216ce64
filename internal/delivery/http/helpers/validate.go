package helpers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// MaxRequestBody bounds registration and settings payloads. The largest is a
// team of the biggest group event with names and emails for every member.
const MaxRequestBody = 64 << 10

// Validator is implemented by request bodies that normalise and check themselves.
// Validate returns the problems found; none means valid.
type Validator interface {
	Validate() []string
}

// DecodeAndValidate reads exactly one JSON object from the body into dest,
// rejecting unknown fields, and runs dest's Validate when it has one.
// On failure it writes a 400 bad_request and returns false.
func DecodeAndValidate(w http.ResponseWriter, r *http.Request, dest any) bool {
	if err := decodeBody(w, r, dest); err != nil {
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return false
	}
	if v, ok := dest.(Validator); ok {
		if errs := v.Validate(); len(errs) > 0 {
			WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, strings.Join(errs, "; "))
			return false
		}
	}
	return true
}

func decodeBody(w http.ResponseWriter, r *http.Request, dest any) error {
	if r.Body == nil {
		return errors.New("request body is required")
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxRequestBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return errors.New("request body is required")
		case errors.As(err, &tooLarge):
			return fmt.Errorf("request body exceeds %d bytes", tooLarge.Limit)
		default:
			return err
		}
	}
	if dec.More() {
		return errors.New("request body must hold a single JSON object")
	}
	return nil
}
