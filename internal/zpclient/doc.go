// Package zpclient is an HTTP client for the undocumented debug endpoint
// that every Sonos zone player serves on port 1400.
//
// The endpoint has no versioning and no authentication; responses are raw
// text, sometimes wrapped in an XML document. The client only transports
// bytes. Interpreting them is left to the diagnostics package so that a
// change in one payload's shape degrades one field and nothing else.
//
// Every request is bounded by DefaultTimeout (5s). Nothing is retried.
//
// # Errors
//
// Failures are returned as *DeviceError, classified by ErrorType.
// GetShortErrorMessage and GetTroubleshootingHint turn them into text for
// the terminal:
//
//	_, err := zpclient.NewClient("192.168.1.20").Reboot(ctx)
//	if err != nil {
//	    fmt.Println(zpclient.GetShortErrorMessage(err))
//	}
package zpclient
