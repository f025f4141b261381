package zpclient

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"syscall"
)

// ErrorType represents the category of error that occurred
type ErrorType int

const (
	// ErrTypeNetwork indicates a network-level error (reset, unreachable, etc.)
	ErrTypeNetwork ErrorType = iota
	// ErrTypeTimeout indicates the request exceeded its deadline
	ErrTypeTimeout
	// ErrTypeConnectionRefused indicates the zone player refused the connection
	ErrTypeConnectionRefused
	// ErrTypeDNS indicates a DNS resolution failure
	ErrTypeDNS
	// ErrTypeHTTP indicates an HTTP-level error (non-200 status code)
	ErrTypeHTTP
	// ErrTypeParse indicates a payload that did not have the expected shape
	ErrTypeParse
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeNetwork:
		return "Network Error"
	case ErrTypeTimeout:
		return "Timeout"
	case ErrTypeConnectionRefused:
		return "Connection Refused"
	case ErrTypeDNS:
		return "DNS Error"
	case ErrTypeHTTP:
		return "HTTP Error"
	case ErrTypeParse:
		return "Parse Error"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// DeviceError represents an error that occurred while talking to a zone player
type DeviceError struct {
	Type       ErrorType // Category of error
	Message    string    // Human-readable error message
	StatusCode int       // HTTP status code (if applicable)
	Err        error     // Underlying error (if any)
	DeviceIP   string    // Device address (for context)
	Path       string    // Endpoint path (for context)
}

// Error implements the error interface
func (e *DeviceError) Error() string {
	prefix := e.Type.String()
	if e.DeviceIP != "" {
		prefix = fmt.Sprintf("%s [%s/%s]", prefix, e.DeviceIP, e.Path)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", prefix, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *DeviceError) Unwrap() error {
	return e.Err
}

// ClassifyNetworkError analyzes a transport error and returns a DeviceError
// with the most specific type that applies.
func ClassifyNetworkError(err error, deviceIP string) *DeviceError {
	if err == nil {
		return nil
	}

	if os.IsTimeout(err) || errors.Is(err, os.ErrDeadlineExceeded) {
		return &DeviceError{Type: ErrTypeTimeout, Message: "Request timed out", Err: err, DeviceIP: deviceIP}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &DeviceError{
			Type:     ErrTypeDNS,
			Message:  fmt.Sprintf("DNS resolution failed for %s", dnsErr.Name),
			Err:      err,
			DeviceIP: deviceIP,
		}
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) && errors.Is(opErr.Err, syscall.ECONNREFUSED) {
		return &DeviceError{Type: ErrTypeConnectionRefused, Message: "Device refused connection", Err: err, DeviceIP: deviceIP}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil && urlErr.Err != err {
		return ClassifyNetworkError(urlErr.Err, deviceIP)
	}

	return &DeviceError{Type: ErrTypeNetwork, Message: "Network error occurred", Err: err, DeviceIP: deviceIP}
}

// NewNetworkError creates a network-level error with automatic classification
func NewNetworkError(message string, err error) *DeviceError {
	classified := ClassifyNetworkError(err, "")
	if classified == nil {
		return &DeviceError{Type: ErrTypeNetwork, Message: message}
	}
	classified.Message = message
	return classified
}

// NewHTTPError creates an HTTP-level error
func NewHTTPError(statusCode int, message string) *DeviceError {
	return &DeviceError{
		Type:       ErrTypeHTTP,
		Message:    message,
		StatusCode: statusCode,
	}
}

// NewParseError creates a parsing error
func NewParseError(message string, err error) *DeviceError {
	return &DeviceError{
		Type:    ErrTypeParse,
		Message: message,
		Err:     err,
	}
}

func asDeviceError(err error) (*DeviceError, bool) {
	var devErr *DeviceError
	if errors.As(err, &devErr) {
		return devErr, true
	}
	return nil, false
}

// GetTroubleshootingHint returns troubleshooting tips for a zone player
// error, or nil when err did not come from a zone player.
func GetTroubleshootingHint(err error) []string {
	devErr, ok := asDeviceError(err)
	if !ok {
		return nil
	}

	switch devErr.Type {
	case ErrTypeTimeout:
		return []string{
			"Check that the player is powered on",
			"A player that just rebooted needs about a minute before it answers",
			"Weak wireless links show up as timeouts; check its RSSI with 'zpnet map'",
		}

	case ErrTypeConnectionRefused:
		return []string{
			"Verify the address belongs to a Sonos player",
			fmt.Sprintf("The debug endpoint listens on port %d", DefaultPort),
		}

	case ErrTypeDNS:
		return []string{
			"Use the IP address instead of hostname",
			"Check your network DNS settings",
		}

	case ErrTypeHTTP:
		return []string{
			fmt.Sprintf("The player answered HTTP %d; the endpoint may not exist on this firmware", devErr.StatusCode),
		}

	case ErrTypeParse:
		return []string{
			"The debug format varies between firmware releases",
			"Run with ZPNET_LOG_LEVEL=debug to see the request that failed",
		}

	default:
		return []string{
			"Check that you're on the same network as the players",
			"Run with ZPNET_LOG_LEVEL=debug for details",
		}
	}
}

// GetShortErrorMessage returns a concise, user-friendly error message
func GetShortErrorMessage(err error) string {
	devErr, ok := asDeviceError(err)
	if !ok {
		return err.Error()
	}

	switch devErr.Type {
	case ErrTypeTimeout:
		return "Device not responding (timeout)"
	case ErrTypeConnectionRefused:
		return "Device refused connection"
	case ErrTypeDNS:
		return "Cannot resolve device hostname"
	case ErrTypeNetwork:
		return "Network error - check connection"
	case ErrTypeHTTP:
		return fmt.Sprintf("Device error (HTTP %d)", devErr.StatusCode)
	case ErrTypeParse:
		return "Failed to parse device response"
	default:
		return devErr.Message
	}
}
