package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"STOREFRONT_BACK-END/internal/dto"
)

// maxBodyBytes bounds request bodies; profiles carry base64 images
const maxBodyBytes = 10 << 20

// WriteJSONResponse writes a JSON response to the HTTP response writer
func WriteJSONResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// WriteErrorResponse writes a dto.ErrorResponse
func WriteErrorResponse(w http.ResponseWriter, status int, errMsg, message string) {
	WriteJSONResponse(w, status, dto.ErrorResponse{Error: errMsg, Message: message})
}

// WriteValidationResponse writes a 422 with the failing fields
func WriteValidationResponse(w http.ResponseWriter, message string, details map[string]string) {
	WriteJSONResponse(w, http.StatusUnprocessableEntity, dto.ErrorResponse{
		Error:   "Validation failed",
		Message: message,
		Details: details,
	})
}

// WriteHTMLResponse writes a rendered HTML document
func WriteHTMLResponse(w http.ResponseWriter, status int, html []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(html)
}

// DecodeJSONRequest decodes a size-limited JSON body into dst
func DecodeJSONRequest(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return errors.New("request body is empty")
		case errors.As(err, &maxErr):
			return fmt.Errorf("request body exceeds %d bytes", maxErr.Limit)
		default:
			return err
		}
	}
	return nil
}
