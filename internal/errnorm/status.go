package errnorm

import "net/http"

// statusDescriptions covers the status codes ERPNext commonly answers with.
// Codes not listed here fall through to the transport message.
var statusDescriptions = map[int]string{
	http.StatusBadRequest:          "Bad Request - Invalid request parameters",
	http.StatusUnauthorized:        "Unauthorized - Invalid or missing credentials",
	http.StatusForbidden:           "Forbidden - Insufficient permissions",
	http.StatusNotFound:            "Not Found - Resource does not exist",
	http.StatusConflict:            "Conflict - Resource was modified or already exists",
	http.StatusExpectationFailed:   "Expectation Failed - Validation error in ERPNext",
	http.StatusInternalServerError: "Internal Server Error - ERPNext server error",
	http.StatusBadGateway:          "Bad Gateway - ERPNext server is unreachable",
	http.StatusServiceUnavailable:  "Service Unavailable - ERPNext is temporarily unavailable",
}

