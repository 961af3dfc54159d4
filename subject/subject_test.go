package subject

import "testing"

func TestBuildFromExplicitDN(t *testing.T) {
	s, err := Build(Inputs{DN: "CN=Jane Doe,O=Example"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(s.Attributes) != 1 {
		t.Fatalf("got %d attributes, want 1", len(s.Attributes))
	}
	if s.Attributes[0].ID != attrSubjectID || s.Attributes[0].Values[0] != "CN=Jane Doe,O=Example" {
		t.Fatalf("unexpected subject-id attribute: %+v", s.Attributes[0])
	}
}

func TestBuildWithVOMSFQANs(t *testing.T) {
	s, err := Build(Inputs{FQANs: []string{"/dteam/Role=production", "/dteam"}})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(s.Attributes) != 2 {
		t.Fatalf("got %d attributes, want 2", len(s.Attributes))
	}
	if s.Attributes[0].ID != attrVOMSPrimary || s.Attributes[0].Values[0] != "/dteam/Role=production" {
		t.Fatalf("unexpected primary fqan attribute: %+v", s.Attributes[0])
	}
	if s.Attributes[1].ID != attrVOMSFQANs || len(s.Attributes[1].Values) != 2 || s.Attributes[1].Values[0] != "/dteam/Role=production" {
		t.Fatalf("unexpected fqan list attribute: %+v", s.Attributes[1])
	}
}

func TestBuildWithNoInputsProducesEmptySubject(t *testing.T) {
	s, err := Build(Inputs{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(s.Attributes) != 0 {
		t.Fatalf("got %d attributes, want 0", len(s.Attributes))
	}
}

func TestBuildRejectsUnparseablePEM(t *testing.T) {
	_, err := Build(Inputs{CertPEM: []byte("not a certificate")})
	if err == nil {
		t.Fatal("expected an error for unparseable PEM input")
	}
}
