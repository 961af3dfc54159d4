// Package pep is the transport façade: it POSTs a marshaled xacml.Request
// to one of a configured list of Argus PEP daemon endpoints, failing over
// to the next endpoint when one fails (connection error, non-200 status, or
// undecodable reply), and unmarshals the response
// body back into an xacml.Response. The wire codec itself lives in the
// hessian and xacml packages; this package only adds the HTTP framing
// around it.
package pep

import "fmt"

var ErrNoEndpointsConfigured = fmt.Errorf("pep: no PEP daemon endpoints configured")
var ErrAllEndpointsFailed = fmt.Errorf("pep: could not reach any configured PEP daemon endpoint")
var ErrUnexpectedStatus = fmt.Errorf("pep: PEP daemon returned an unexpected HTTP status")
