// Package upstream provides the HTTP transport for external market-data
// providers. A Client turns one provider's base URL, credentials, and
// timeout into a gate.CallFunc; resilience is applied by the gate, not
// here, so a Client performs exactly one HTTP round trip per call.
package upstream
