package errors

import "net/http"

var (
	ErrInvalidCoordinates = New(
		"INVALID_COORDINATES",
		"Invalid coordinates provided",
		http.StatusBadRequest,
	)

	ErrInvalidRequest = New(
		"INVALID_REQUEST",
		"Invalid request parameters",
		http.StatusBadRequest,
	)

	ErrGeocodeFailed = New(
		"GEOCODE_FAILED",
		"Geocoding request failed",
		http.StatusBadGateway,
	)

	ErrGeocoderDisabled = New(
		"GEOCODER_DISABLED",
		"Geocoder is disabled",
		http.StatusServiceUnavailable,
	)

	ErrUnknownLayer = New(
		"UNKNOWN_LAYER",
		"Unknown layer",
		http.StatusBadRequest,
	)

	ErrDatasetSourceMissing = New(
		"DATASET_SOURCE_MISSING",
		"No dataset source URL configured for layer",
		http.StatusBadRequest,
	)

	ErrAdminDisabled = New(
		"ADMIN_DISABLED",
		"Not found",
		http.StatusNotFound,
	)

	ErrUnauthorized = New(
		"UNAUTHORIZED",
		"Invalid admin token",
		http.StatusUnauthorized,
	)

	ErrDatabaseError = New(
		"DATABASE_ERROR",
		"Database operation failed",
		http.StatusInternalServerError,
	)

	ErrCacheError = New(
		"CACHE_ERROR",
		"Cache operation failed",
		http.StatusInternalServerError,
	)

	ErrInternalServer = New(
		"INTERNAL_SERVER_ERROR",
		"Internal server error",
		http.StatusInternalServerError,
	)
)
