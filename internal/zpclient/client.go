package zpclient

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/muurk/zpnet/internal/logging"
)

const (
	// DefaultPort is the zone player's HTTP port
	DefaultPort = 1400

	// DefaultTimeout bounds every request made to a zone player
	DefaultTimeout = 5 * time.Second

	// maxBodySize caps how much of a debug payload is read
	maxBodySize = 4 << 20
)

// Debug endpoint paths, relative to the device base URL.
const (
	PathStation           = "status/proc/ath_rincon/station"
	PathDmesg             = "status/dmesg"
	PathPerf              = "status/perf"
	PathScanResults       = "status/scanresults"
	PathTopology          = "status/topology"
	PathDeviceDescription = "xml/device_description.xml"
	PathReboot            = "reboot"
	PathAVTransport       = "MediaRenderer/AVTransport/Control"
)

const getTransportInfoAction = "urn:schemas-upnp-org:service:AVTransport:1#GetTransportInfo"

const getTransportInfoBody = `<?xml version="1.0" encoding="utf-8"?>` +
	`<s:Envelope xmlns:s="http://schemas.xmlsoap.org/soap/envelope/" s:encodingStyle="http://schemas.xmlsoap.org/soap/encoding/">` +
	`<s:Body><u:GetTransportInfo xmlns:u="urn:schemas-upnp-org:service:AVTransport:1">` +
	`<InstanceID>0</InstanceID></u:GetTransportInfo></s:Body></s:Envelope>`

// Client talks to one zone player's debug endpoint.
type Client struct {
	// BaseURL is the base URL for the device (e.g., "http://192.168.1.20:1400")
	BaseURL string

	// Addr is the address the client was created for, used in errors and logs
	Addr string

	// HTTPClient is the underlying HTTP client
	HTTPClient *http.Client
}

// NewClient creates a client for the zone player at addr. A bare IP gets
// the default port; "host:port" is used as given.
func NewClient(addr string) *Client {
	hostPort := addr
	if _, _, err := net.SplitHostPort(addr); err != nil {
		hostPort = net.JoinHostPort(addr, strconv.Itoa(DefaultPort))
	}

	return &Client{
		BaseURL:    "http://" + hostPort,
		Addr:       addr,
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
	}
}

// SetTimeout sets the HTTP request timeout
func (c *Client) SetTimeout(timeout time.Duration) {
	c.HTTPClient.Timeout = timeout
}

// URL returns the absolute URL of a debug path.
func (c *Client) URL(path string) string {
	return c.BaseURL + "/" + strings.TrimPrefix(path, "/")
}

// Get fetches a debug path and returns the raw body.
func (c *Client) Get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(path), nil)
	if err != nil {
		return nil, c.annotate(NewNetworkError("failed to create GET request", err), path)
	}
	return c.do(req, path)
}

// Reboot asks the zone player to restart and returns its textual answer.
func (c *Client) Reboot(ctx context.Context) (string, error) {
	body, err := c.Get(ctx, PathReboot)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(body)), nil
}

// transportInfoEnvelope matches the SOAP response of GetTransportInfo.
// Element names are matched without namespaces.
type transportInfoEnvelope struct {
	Body struct {
		Response struct {
			State  string `xml:"CurrentTransportState"`
			Status string `xml:"CurrentTransportStatus"`
		} `xml:"GetTransportInfoResponse"`
	} `xml:"Body"`
}

// TransportState returns the AVTransport state, e.g. "PLAYING" or "STOPPED".
func (c *Client) TransportState(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL(PathAVTransport), bytes.NewBufferString(getTransportInfoBody))
	if err != nil {
		return "", c.annotate(NewNetworkError("failed to create SOAP request", err), PathAVTransport)
	}
	req.Header.Set("Content-Type", `text/xml; charset="utf-8"`)
	req.Header.Set("SOAPACTION", `"`+getTransportInfoAction+`"`)

	body, err := c.do(req, PathAVTransport)
	if err != nil {
		return "", err
	}

	var env transportInfoEnvelope
	if err := xml.Unmarshal(body, &env); err != nil {
		return "", c.annotate(NewParseError("failed to parse GetTransportInfo response", err), PathAVTransport)
	}
	if env.Body.Response.State == "" {
		return "", c.annotate(NewParseError("GetTransportInfo response has no CurrentTransportState", nil), PathAVTransport)
	}

	return env.Body.Response.State, nil
}

func (c *Client) do(req *http.Request, path string) ([]byte, error) {
	start := time.Now()
	body, err := c.doAttempt(req, path)
	logging.LogRequest(c.Addr, path, time.Since(start), err)
	return body, err
}

func (c *Client) doAttempt(req *http.Request, path string) ([]byte, error) {
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, c.annotate(NewNetworkError(req.Method+" request failed", err), path)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, c.annotate(NewHTTPError(resp.StatusCode, fmt.Sprintf("unexpected status code: %d", resp.StatusCode)), path)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, c.annotate(NewNetworkError("failed to read response body", err), path)
	}

	return body, nil
}

func (c *Client) annotate(err *DeviceError, path string) *DeviceError {
	err.DeviceIP = c.Addr
	err.Path = path
	return err
}
