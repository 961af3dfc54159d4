// Package subject composes a single xacml.Subject's attribute list from the
// optional identity inputs a caller typically has on hand: an X.509
// certificate chain, an explicit Distinguished Name, and VOMS Fully
// Qualified Attribute Names. The composition is a client-side convenience
// only -- the wire codec never merges anything itself.
package subject

import (
	"crypto/x509"
	"encoding/pem"
	"fmt"

	"github.com/pombreda/argus-pep-api-c/xacml"
)

const (
	attrSubjectID    = "urn:oasis:names:tc:xacml:1.0:subject:subject-id"
	dataTypeX500Name = "urn:oasis:names:tc:xacml:1.0:data-type:x500Name"
	attrVOMSPrimary  = "voms-primary-fqan"
	attrVOMSFQANs    = "voms-fqan"
	categorySubject  = "urn:oasis:names:tc:xacml:1.0:subject-category:access-subject"
)

// Inputs holds the optional identity material a caller has gathered before
// issuing an authorization request. Any subset may be left zero-valued;
// Build skips what's absent.
type Inputs struct {
	// CertPEM is a PEM-encoded certificate chain; the end-entity
	// certificate's subject DN becomes the subject-id attribute unless
	// DN overrides it. Leave nil if no certificate is available.
	CertPEM []byte

	// DN, if non-empty, is used verbatim as the subject-id attribute,
	// overriding any DN extracted from CertPEM.
	DN string

	// FQANs lists VOMS Fully Qualified Attribute Names, primary first.
	// A non-empty slice produces both a single-valued voms-primary-fqan
	// attribute (FQANs[0]) and a voms-fqan attribute carrying all of
	// them in order.
	FQANs []string
}

// Build assembles a Subject from in, issuing attributes in the fixed order
// subject-id, voms-primary-fqan, voms-fqan. It returns an error only if
// CertPEM is set but unparseable.
func Build(in Inputs) (*xacml.Subject, error) {
	s := &xacml.Subject{Category: ptr(categorySubject)}

	id := in.DN
	if id == "" && len(in.CertPEM) > 0 {
		dn, err := subjectDNFromPEM(in.CertPEM)
		if err != nil {
			return nil, err
		}
		id = dn
	}
	if id != "" {
		s.Attributes = append(s.Attributes, xacml.Attribute{
			ID:       attrSubjectID,
			DataType: ptr(dataTypeX500Name),
			Values:   []string{id},
		})
	}

	if len(in.FQANs) > 0 {
		s.Attributes = append(s.Attributes,
			xacml.Attribute{ID: attrVOMSPrimary, Values: []string{in.FQANs[0]}},
			xacml.Attribute{ID: attrVOMSFQANs, Values: append([]string(nil), in.FQANs...)},
		)
	}

	return s, nil
}

// subjectDNFromPEM parses the first certificate in a PEM chain and returns
// its subject's RFC 2253 distinguished name string.
func subjectDNFromPEM(data []byte) (string, error) {
	block, _ := pem.Decode(data)
	if block == nil || block.Type != "CERTIFICATE" {
		return "", fmt.Errorf("subject: no CERTIFICATE block found in PEM input")
	}
	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return "", fmt.Errorf("subject: parsing end-entity certificate: %w", err)
	}
	return cert.Subject.String(), nil
}

func ptr(s string) *string { return &s }
