package apperror

// messages maps error codes to human-readable messages. These strings
// are shown directly in the session status line, so they stay short.
var messages = map[Code]string{
	// General validation
	CodeRequiredField:   "Required field is missing",
	CodeInvalidInput:    "Invalid input provided",
	CodeInvalidFormat:   "Invalid data format",
	CodeInvalidState:    "Invalid state for this operation",
	CodeNotFound:        "Resource not found",
	CodeValidationError: "Validation error",

	// Configuration
	CodeConfigurationError: "Configuration error",

	// External service errors
	CodeExternalServiceError: "External service error",
	CodeServiceTimeout:       "Service request timeout",
	CodeServiceUnavailable:   "Service temporarily unavailable",
	CodeRateLimitExceeded:    "Rate limit exceeded",

	// System errors
	CodeInternalError: "Internal server error",
	CodeUnknownError:  "An unknown error occurred",

	// Chain / token model errors
	CodeChainUnknown:     "Unknown chain",
	CodeTokenInvalid:     "Invalid token",
	CodeMissingDecimals:  "Token has no decimal precision",
	CodePriceUnavailable: "Price data unavailable",

	// Catalog errors
	CodeCatalogFetchFailed: "Failed to fetch token list",
	CodeCatalogTimeout:     "Token list request timed out",

	// Aggregator / quote errors
	CodeQuoteRequestInvalid: "Invalid amount",
	CodeQuoteFailed:         "Failed to find routes",
	CodeQuoteTimeout:        "Route request timed out",
	CodeNoRoutesFound:       "No routes found",
	CodeQuoteSuperseded:     "Quote superseded by newer input",

	// Wallet errors
	CodeWalletNotReady:      "Wallet not connected",
	CodeAddressUnresolved:   "No address for this chain",
	CodeSubmissionFailed:    "Transaction submission failed",
	CodeProviderUnavailable: "No wallet provider for this chain",

	// Price feed errors
	CodeFeedConnectionError: "Price feed connection error",
	CodeFeedClosed:          "Price feed closed",

	// Circuit breaker errors
	CodeCircuitOpen: "Aggregator temporarily unavailable",
}

// MessageFor returns the display message for a code, falling back to
// the code itself.
func MessageFor(code Code) string {
	if m, ok := messages[code]; ok {
		return m
	}
	return string(code)
}
