package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/sgkaarstdave/AbrechnungApp/internal/domain"
)

// MaxBodyBytes caps JSON request bodies.
const MaxBodyBytes = 1 << 20

// RespondJSON writes a JSON response with the given status code.
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// RespondError writes a JSON error response, detecting domain.AppError for status codes.
func RespondError(w http.ResponseWriter, err error) {
	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		RespondJSON(w, appErr.Status, map[string]string{
			"code":    appErr.Code,
			"message": appErr.Message,
		})
		return
	}
	RespondJSON(w, http.StatusInternalServerError, map[string]string{
		"code":    "INTERNAL_ERROR",
		"message": "Interner Fehler",
	})
}

// RespondErrorLogged is RespondError that also logs the cause of 5xx responses.
func RespondErrorLogged(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var appErr *domain.AppError
	if !errors.As(err, &appErr) || appErr.Status >= http.StatusInternalServerError {
		logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", GetRequestID(r.Context()),
			"error", err,
		)
	}
	RespondError(w, err)
}

// RespondFile writes a spreadsheet download.
func RespondFile(w http.ResponseWriter, filename, contentType string, data []byte, cached bool) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+strings.ReplaceAll(filename, `"`, "")+`"`)
	if cached {
		w.Header().Set("X-Report-Cache", "hit")
	} else {
		w.Header().Set("X-Report-Cache", "miss")
	}
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// DecodeJSON reads and decodes a JSON request body into dst. Bodies over
// MaxBodyBytes are rejected.
func DecodeJSON(r *http.Request, dst interface{}) error {
	return json.NewDecoder(http.MaxBytesReader(nil, r.Body, MaxBodyBytes)).Decode(dst)
}

func badBody(w http.ResponseWriter) {
	RespondError(w, domain.ErrValidation("Ungültige Eingabe"))
}

// ClientIP returns the first X-Forwarded-For entry, or the host of RemoteAddr.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
