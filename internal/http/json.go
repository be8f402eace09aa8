package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	apperrors "github.com/target/mmk-auth-api/internal/errors"
	"github.com/target/mmk-auth-api/internal/ports"
)

// serverErrorMessage is the only text clients see for internal failures.
const serverErrorMessage = "Server error"

// DecodeJSON decodes JSON from the request body into the destination and handles errors.
// Returns true if successful, false if there was an error (error response already written).
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteError(w, ErrorParams{
				Code:    http.StatusRequestEntityTooLarge,
				ErrCode: "request_too_large",
				Err:     errors.New("request body too large"),
			})
			return false
		}
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_json", Err: err})
		return false
	}

	return true
}

// WriteJSON writes a JSON response with the given status code and data.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := buf.WriteTo(w); err != nil {
		// Response writer errors (e.g., client disconnect) can't be recovered from here.
		return
	}
}

// ErrorParams groups parameters for WriteError to adhere to the ≤3 params guideline.
type ErrorParams struct {
	Code    int
	ErrCode string
	Err     error
}

// WriteError writes a JSON error response using ErrorParams.
func WriteError(w http.ResponseWriter, p ErrorParams) {
	WriteJSON(w, p.Code, map[string]string{"error": p.ErrCode, "message": p.Err.Error()})
}

// InternalErrorRecorder is notified about every internal error written to a client.
type InternalErrorRecorder interface {
	RecordInternalError(err error)
}

// errorWriter turns service errors into JSON responses.
type errorWriter struct {
	logger   *slog.Logger
	recorder InternalErrorRecorder
}

// write maps err onto a status and body. Token verification failures answer 403 and
// revoked tokens 401; internal errors are logged and never leak their cause.
func (ew errorWriter) write(ctx context.Context, w http.ResponseWriter, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		err = apperrors.MapDBError(err)
		if !errors.As(err, &appErr) {
			appErr = apperrors.Wrap(err, apperrors.ErrCodeInternal, serverErrorMessage)
		}
	}

	status := apperrors.HTTPStatus(appErr.Code)
	errCode := string(appErr.Code)
	message := appErr.Message

	switch {
	case errors.Is(err, ports.ErrTokenRevoked):
		status, errCode = http.StatusUnauthorized, "token_revoked"
	case errors.Is(err, ports.ErrTokenInvalid):
		status, errCode = http.StatusForbidden, "invalid_token"
	case status >= http.StatusInternalServerError:
		message = serverErrorMessage
		errCode = string(apperrors.ErrCodeInternal)
		ew.log().ErrorContext(ctx, "request failed", "error", err)
		if ew.recorder != nil {
			ew.recorder.RecordInternalError(err)
		}
	}

	WriteJSON(w, status, map[string]string{"error": errCode, "message": message})
}

func (ew errorWriter) log() *slog.Logger {
	if ew.logger != nil {
		return ew.logger
	}
	return slog.Default()
}
