package pep

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/op/go-logging"

	"github.com/pombreda/argus-pep-api-c/xacml"
)

// Client ships XACML requests to an Argus PEP daemon and decodes its
// replies. It owns a list of candidate endpoints and fails over across
// them in order whenever an endpoint fails: a connection error, a
// non-200 status, or a reply that does not decode.
type Client struct {
	// Endpoints are tried in order on every call; at least one is
	// required. Each is the full PEP authorization URL, e.g.
	// "https://pepd.example.org:8154/authz".
	Endpoints []string

	// HTTPClient is used for every request. If nil, a client with a
	// 10-second timeout is constructed lazily, using ClientCert if set.
	HTTPClient *http.Client

	// ClientCert, if set, is presented as the TLS client certificate on
	// every connection opened by the lazily-constructed HTTPClient. It
	// is ignored once HTTPClient has been set explicitly. Typically the
	// same PEM material used for Subject composition.
	ClientCert *tls.Certificate

	// Log receives a WARNING line per failed endpoint and a NOTICE line
	// when falling back to a subsequent one. May be nil to disable
	// logging entirely.
	Log *logging.Logger
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	transport := &http.Transport{}
	if c.ClientCert != nil {
		transport.TLSClientConfig = &tls.Config{
			Certificates: []tls.Certificate{*c.ClientCert},
		}
	}
	c.HTTPClient = &http.Client{Timeout: 10 * time.Second, Transport: transport}
	return c.HTTPClient
}

// Authorize marshals req, POSTs it to each configured endpoint in turn,
// and returns the first reply that unmarshals. It returns
// ErrNoEndpointsConfigured if Endpoints is empty and ErrAllEndpointsFailed
// if every endpoint refused the connection, returned a non-200 status, or
// sent a reply that did not decode.
func (c *Client) Authorize(ctx context.Context, req *xacml.Request) (*xacml.Response, error) {
	if len(c.Endpoints) == 0 {
		return nil, ErrNoEndpointsConfigured
	}
	body, err := xacml.MarshalRequest(req)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for i, endpoint := range c.Endpoints {
		resp, err := c.post(ctx, endpoint, body)
		if err != nil {
			lastErr = err
			c.logf(logging.WARNING, "endpoint %s failed: %s", endpoint, err)
			if i+1 < len(c.Endpoints) {
				c.logf(logging.NOTICE, "falling back to %s", c.Endpoints[i+1])
			}
			continue
		}
		return resp, nil
	}
	if lastErr != nil {
		return nil, fmt.Errorf("%w: %s", ErrAllEndpointsFailed, lastErr)
	}
	return nil, ErrAllEndpointsFailed
}

func (c *Client) post(ctx context.Context, endpoint string, body []byte) (*xacml.Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/octet-stream")

	httpResp, err := c.httpClient().Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, err
	}
	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, httpResp.StatusCode)
	}
	return xacml.UnmarshalResponse(respBody)
}

func (c *Client) logf(level logging.Level, format string, args ...interface{}) {
	if c.Log == nil {
		return
	}
	switch level {
	case logging.WARNING:
		c.Log.Warningf(format, args...)
	default:
		c.Log.Noticef(format, args...)
	}
}
