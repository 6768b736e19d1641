package apperror

// Code represents a unique error code for the application
type Code string

// General error codes
const (
	// General validation
	CodeRequiredField   Code = "REQUIRED_FIELD"
	CodeInvalidInput    Code = "INVALID_INPUT"
	CodeInvalidFormat   Code = "INVALID_FORMAT"
	CodeInvalidState    Code = "INVALID_STATE"
	CodeNotFound        Code = "NOT_FOUND"
	CodeValidationError Code = "VALIDATION_ERROR"

	// Configuration
	CodeConfigurationError Code = "CONFIGURATION_ERROR"

	// External service errors
	CodeExternalServiceError Code = "EXTERNAL_SERVICE_ERROR"
	CodeServiceTimeout       Code = "SERVICE_TIMEOUT"
	CodeServiceUnavailable   Code = "SERVICE_UNAVAILABLE"
	CodeRateLimitExceeded    Code = "RATE_LIMIT_EXCEEDED"

	// System errors
	CodeInternalError Code = "INTERNAL_ERROR"
	CodeUnknownError  Code = "UNKNOWN_ERROR"
)

// Swap-engine error codes
const (
	// Chain / token model errors
	CodeChainUnknown     Code = "CHAIN_UNKNOWN"
	CodeTokenInvalid     Code = "TOKEN_INVALID"
	CodeMissingDecimals  Code = "TOKEN_MISSING_DECIMALS"
	CodePriceUnavailable Code = "PRICE_UNAVAILABLE"

	// Catalog errors
	CodeCatalogFetchFailed Code = "CATALOG_FETCH_FAILED"
	CodeCatalogTimeout     Code = "CATALOG_TIMEOUT"

	// Aggregator / quote errors
	CodeQuoteRequestInvalid Code = "QUOTE_REQUEST_INVALID"
	CodeQuoteFailed         Code = "QUOTE_FAILED"
	CodeQuoteTimeout        Code = "QUOTE_TIMEOUT"
	CodeNoRoutesFound       Code = "NO_ROUTES_FOUND"
	CodeQuoteSuperseded     Code = "QUOTE_SUPERSEDED"

	// Wallet errors
	CodeWalletNotReady      Code = "WALLET_NOT_READY"
	CodeAddressUnresolved   Code = "ADDRESS_UNRESOLVED"
	CodeSubmissionFailed    Code = "SUBMISSION_FAILED"
	CodeProviderUnavailable Code = "PROVIDER_UNAVAILABLE"

	// Price feed errors
	CodeFeedConnectionError Code = "FEED_CONNECTION_ERROR"
	CodeFeedClosed          Code = "FEED_CLOSED"

	// Circuit breaker errors
	CodeCircuitOpen Code = "CIRCUIT_OPEN"
)
