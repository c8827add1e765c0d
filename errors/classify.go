package errors

// ClassifyStatus converts an upstream HTTP status code into a typed error.
// Returns nil for 2xx status codes.
func ClassifyStatus(dependency, endpoint string, statusCode int) *Error {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return nil
	case statusCode == 401 || statusCode == 403:
		return CriticalUpstream(dependency, endpoint, statusCode)
	case statusCode == 408 || statusCode == 429:
		return Upstream(dependency, endpoint, statusCode, nil)
	case statusCode >= 400 && statusCode < 500:
		return NonRetryableUpstream(dependency, endpoint, statusCode)
	default:
		return Upstream(dependency, endpoint, statusCode, nil)
	}
}
