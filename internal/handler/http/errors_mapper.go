package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-quote-sync/internal/service"
	"github.com/MKhiriev/go-quote-sync/internal/store"
	"github.com/MKhiriev/go-quote-sync/internal/utils"
	"github.com/MKhiriev/go-quote-sync/internal/validators"
)

var errorStatusMap = map[error]int{
	validators.ErrInvalidPushRequest: http.StatusBadRequest,
	validators.ErrInvariantViolation: http.StatusBadRequest,
	validators.ErrUnsupportedType:    http.StatusBadRequest,
	utils.ErrEmptyBody:               http.StatusBadRequest,
	ErrContentHashMismatch:           http.StatusBadRequest,
	ErrBodyTooLarge:                  http.StatusRequestEntityTooLarge,

	service.ErrVersionIsNotSpecified: http.StatusInternalServerError,

	store.ErrRecordNotFound:  http.StatusNotFound,
	store.ErrRecordsNotSaved: http.StatusInternalServerError,

	store.ErrBuildingSQLQuery:     http.StatusInternalServerError,
	store.ErrExecutingQuery:       http.StatusInternalServerError,
	store.ErrBeginningTransaction: http.StatusServiceUnavailable,
	store.ErrCommitingTransaction: http.StatusInternalServerError,
	store.ErrExecutingStatement:   http.StatusInternalServerError,
	store.ErrScanningRow:          http.StatusInternalServerError,
	store.ErrScanningRows:         http.StatusInternalServerError,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}
