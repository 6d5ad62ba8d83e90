package apperrors

import "errors"

// Domain entity errors represent missing entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrPropertyNotFound indicates that a property (residential development) with the given ID does not exist
	// or is not owned by the requesting user.
	ErrPropertyNotFound = errors.New("property not found")

	// ErrBuildingNotFound indicates that a building with the given ID does not exist.
	ErrBuildingNotFound = errors.New("building not found")

	// ErrUnitNotFound indicates that a unit (lot) with the given code does not exist in the property.
	ErrUnitNotFound = errors.New("unit not found")

	// ErrUserNotFound indicates that a Telegram user has not been registered yet.
	ErrUserNotFound = errors.New("user not found")

	// ErrFacilityNotFound indicates that the catalog has no facility with the given ID.
	ErrFacilityNotFound = errors.New("facility not found in catalog")

	ErrAssumptionsNotFound = errors.New("investment assumptions not found")
)

// Business logic errors represent validation failures or constraint violations.
// These errors indicate that an operation cannot be completed due to business rules.
var (
	// ErrInvalidInput indicates that a calculation received inputs it cannot produce
	// meaningful numbers from (e.g., a non-positive unit price or a comparison year
	// that is not part of the projection).
	ErrInvalidInput = errors.New("invalid input")

	// ErrDuplicateProperty indicates that the user already imported this catalog facility.
	ErrDuplicateProperty = errors.New("property already added")

	// ErrInvalidUUID indicates that a provided ID is not a valid UUID format.
	ErrInvalidUUID = errors.New("invalid UUID format")

	// ErrEmptyID indicates that a required ID parameter is empty or missing.
	ErrEmptyID = errors.New("ID cannot be empty")

	// ErrNoPriceForUnit indicates that a unit has no price, so no investment figures can be built.
	ErrNoPriceForUnit = errors.New("unit has no price")

	// ErrInstallmentNotConfigured indicates that the property has no installment terms set.
	ErrInstallmentNotConfigured = errors.New("installment terms not configured")

	// ErrUnknownSetting indicates that a settings field name is not recognised.
	ErrUnknownSetting = errors.New("unknown setting")
)

// Integration errors represent failures talking to collaborators outside the process.
var (
	// ErrCatalogNotLoaded indicates that the facility cache has not been loaded yet.
	ErrCatalogNotLoaded = errors.New("catalog not loaded")

	// ErrCatalogUnavailable indicates that the catalog API could not be reached or returned an error.
	ErrCatalogUnavailable = errors.New("catalog unavailable")

	// ErrInvalidToken indicates that a mini app access token is missing, expired or forged.
	ErrInvalidToken = errors.New("invalid access token")

	// ErrTelegram indicates that the Telegram Bot API rejected a request.
	ErrTelegram = errors.New("telegram api error")
)
