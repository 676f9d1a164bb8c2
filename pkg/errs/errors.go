package errs

import (
	"errors"
	"net/http"
)

const (
	ErrStatusInternalServer = http.StatusInternalServerError
	ErrStatusClient         = http.StatusBadRequest
	ErrStatusNotLoggedIn    = http.StatusUnauthorized
	ErrStatusNoPermission   = http.StatusForbidden
	ErrStatusNotFound       = http.StatusNotFound
	ErrStatusConflict       = http.StatusConflict
	ErrStatusBadGateway     = http.StatusBadGateway
)

var (
	ErrInternalServer   = errors.New("Internal server error")
	ErrClient           = errors.New("Bad request")
	ErrNotLoggedIn      = errors.New("Unauthorized access")
	ErrUnauthorized     = errors.New("Forbidden access")
	ErrNotFound         = errors.New("Resource not found")
	ErrConflict         = errors.New("Conflicting record found")
	ErrInvalidSignature = errors.New("Invalid payment signature")
	ErrInvalidOrderRef  = errors.New("Invalid order reference")
	ErrBookingNotFound  = errors.New("Booking not found")
	ErrTourNotFound     = errors.New("Tour not found")
	ErrNotAnImage       = errors.New("Uploaded file is not an image")
	ErrMediaUpload      = errors.New("Media host upload failed")
	ErrExpiredToken     = errors.New("Token has expired")
)

var errorMap = map[error]int{
	ErrInternalServer:   ErrStatusInternalServer,
	ErrClient:           ErrStatusClient,
	ErrNotLoggedIn:      ErrStatusNotLoggedIn,
	ErrUnauthorized:     ErrStatusNoPermission,
	ErrNotFound:         ErrStatusNotFound,
	ErrConflict:         ErrStatusConflict,
	ErrInvalidSignature: ErrStatusClient,
	ErrInvalidOrderRef:  ErrStatusClient,
	ErrBookingNotFound:  ErrStatusNotFound,
	ErrTourNotFound:     ErrStatusNotFound,
	ErrNotAnImage:       ErrStatusClient,
	ErrMediaUpload:      ErrStatusBadGateway,
	ErrExpiredToken:     ErrStatusNotLoggedIn,
}

func GetErrorStatusCode(err error) int {
	errStatusCode, ok := errorMap[err]
	if !ok {
		errStatusCode = errorMap[ErrInternalServer]
	}
	return errStatusCode
}
