package xacml

import (
	"testing"

	"github.com/pombreda/argus-pep-api-c/hessian"
)

func strPtr(s string) *string { return &s }

func TestRequestRoundTrip(t *testing.T) {
	req := &Request{
		Subjects: []Subject{{
			Category: strPtr("urn:oasis:names:tc:xacml:1.0:subject-category:access-subject"),
			Attributes: []Attribute{{
				ID:       "urn:oasis:names:tc:xacml:1.0:subject:subject-id",
				DataType: strPtr("urn:oasis:names:tc:xacml:1.0:data-type:x500Name"),
				Values:   []string{"/O=Example/CN=Jane Doe"},
			}},
		}},
		Resources: []Resource{{
			Attributes: []Attribute{{
				ID:     "urn:oasis:names:tc:xacml:1.0:resource:resource-id",
				Values: []string{"/data/set/1"},
			}},
		}},
		Action: &Action{
			Attributes: []Attribute{{ID: "urn:oasis:names:tc:xacml:1.0:action:action-id", Values: []string{"read"}}},
		},
	}

	data, err := MarshalRequest(req)
	if err != nil {
		t.Fatalf("MarshalRequest: %v", err)
	}
	got, err := UnmarshalRequest(data)
	if err != nil {
		t.Fatalf("UnmarshalRequest: %v", err)
	}
	if len(got.Subjects) != 1 || got.Subjects[0].Attributes[0].Values[0] != "/O=Example/CN=Jane Doe" {
		t.Fatalf("subject round trip mismatch: %+v", got.Subjects)
	}
	if got.Action == nil || got.Action.Attributes[0].Values[0] != "read" {
		t.Fatalf("action round trip mismatch: %+v", got.Action)
	}
}

func TestMarshalRequestRejectsMissingAttributeID(t *testing.T) {
	req := &Request{
		Subjects: []Subject{{Attributes: []Attribute{{Values: []string{"x"}}}}},
	}
	_, err := MarshalRequest(req)
	encErr, ok := err.(*EncodeError)
	if !ok {
		t.Fatalf("got %T, want *EncodeError", err)
	}
	if encErr.FieldPath != "Request.subjects[0].attributes[0].id" {
		t.Errorf("got field path %q", encErr.FieldPath)
	}
}

// A Permit decision accompanied by an obligation assigning a uid and a
// gid is the common happy path against a production PEP daemon.
func TestPermitWithUIDGIDObligation(t *testing.T) {
	resp := &Response{
		Results: []Result{{
			Decision: Permit,
			Status:   &Status{Message: "ok", Code: &StatusCode{Code: WellKnownStatusOK}},
			Obligations: []Obligation{{
				ID:        "x-posix-account-map",
				FulfillOn: FulfillOnPermit,
				Assignments: []AttributeAssignment{
					{ID: "uid", Values: []string{"jdoe"}},
					{ID: "gid", Values: []string{"users"}},
				},
			}},
		}},
	}
	got := roundTripResponse(t, resp)
	r := got.Results[0]
	if r.Decision != Permit {
		t.Fatalf("got decision %s, want Permit", r.Decision)
	}
	if len(r.Obligations) != 1 || len(r.Obligations[0].Assignments) != 2 {
		t.Fatalf("obligation round trip mismatch: %+v", r.Obligations)
	}
	if r.Obligations[0].Assignments[0].Values[0] != "jdoe" || r.Obligations[0].Assignments[1].Values[0] != "users" {
		t.Fatalf("assignment values mismatch: %+v", r.Obligations[0].Assignments)
	}
}

func TestDenyWithNoObligations(t *testing.T) {
	resp := &Response{Results: []Result{{Decision: Deny}}}
	got := roundTripResponse(t, resp)
	if got.Results[0].Decision != Deny {
		t.Fatalf("got decision %s, want Deny", got.Results[0].Decision)
	}
	if len(got.Results[0].Obligations) != 0 {
		t.Fatalf("expected no obligations, got %+v", got.Results[0].Obligations)
	}
}

func TestIndeterminateWithStatusMessage(t *testing.T) {
	resp := &Response{
		Results: []Result{{
			Decision: Indeterminate,
			Status:   &Status{Message: "policy retrieval failed", Code: &StatusCode{Code: "urn:oasis:names:tc:xacml:1.0:status:processing-error"}},
		}},
	}
	got := roundTripResponse(t, resp)
	r := got.Results[0]
	if r.Decision != Indeterminate {
		t.Fatalf("got decision %s, want Indeterminate", r.Decision)
	}
	if r.Status == nil || r.Status.Message != "policy retrieval failed" {
		t.Fatalf("status round trip mismatch: %+v", r.Status)
	}
}

// A subject carrying a primary FQAN plus the full FQAN list must keep
// both attributes, with the primary first in the list.
func TestVOMSFQANSubject(t *testing.T) {
	req := &Request{
		Subjects: []Subject{{
			Attributes: []Attribute{
				{ID: "voms-primary-fqan", Values: []string{"/dteam/Role=production"}},
				{ID: "voms-fqan", Values: []string{"/dteam/Role=production", "/dteam"}},
			},
		}},
	}
	data, err := MarshalRequest(req)
	if err != nil {
		t.Fatalf("MarshalRequest: %v", err)
	}
	got, err := UnmarshalRequest(data)
	if err != nil {
		t.Fatalf("UnmarshalRequest: %v", err)
	}
	attrs := got.Subjects[0].Attributes
	if attrs[0].ID != "voms-primary-fqan" || attrs[0].Values[0] != "/dteam/Role=production" {
		t.Fatalf("primary fqan mismatch: %+v", attrs[0])
	}
	if attrs[1].ID != "voms-fqan" || attrs[1].Values[0] != "/dteam/Role=production" {
		t.Fatalf("fqan list mismatch or not primary-first: %+v", attrs[1])
	}
}

// An AttributeAssignment may carry multiple values (secondary group
// list); order matters to the enforcement point.
func TestSecondaryGIDsObligation(t *testing.T) {
	resp := &Response{
		Results: []Result{{
			Decision: Permit,
			Obligations: []Obligation{{
				ID:        "x-posix-account-map",
				FulfillOn: FulfillOnPermit,
				Assignments: []AttributeAssignment{
					{ID: "secondary-gids", Values: []string{"wheel", "staff", "ops"}},
				},
			}},
		}},
	}
	got := roundTripResponse(t, resp)
	values := got.Results[0].Obligations[0].Assignments[0].Values
	want := []string{"wheel", "staff", "ops"}
	if len(values) != len(want) {
		t.Fatalf("got %d values, want %d", len(values), len(want))
	}
	for i, w := range want {
		if values[i] != w {
			t.Errorf("value %d = %q, want %q", i, values[i], w)
		}
	}
}

// An extra, unrecognized key in a wire Map must be skipped rather than
// rejected, so newer servers can add fields without breaking old clients.
func TestForwardCompatibleUnknownKey(t *testing.T) {
	result := hessian.NewMap()
	result.TypeName, result.HasType = classResult, true
	result.Put(hessian.String("decision"), hessian.Int32(int32(Permit)))
	result.Put(hessian.String("futureField"), hessian.String("x"))

	results := hessian.NewList()
	results.Items = append(results.Items, result)

	m := hessian.NewMap()
	m.TypeName, m.HasType = classResponse, true
	m.Put(hessian.String("results"), results)
	m.Put(hessian.String("anotherFutureField"), hessian.Null{})

	data, err := hessian.Serialize(m)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	got, err := UnmarshalResponse(data)
	if err != nil {
		t.Fatalf("UnmarshalResponse should tolerate unknown keys, got error: %v", err)
	}
	if len(got.Results) != 1 || got.Results[0].Decision != Permit {
		t.Fatalf("unknown keys changed the decoded result: %+v", got.Results)
	}
}

func TestStatusCodeDepthCap(t *testing.T) {
	// Build a chain 32 deep (the cap) and confirm it still decodes, then
	// push one level further and confirm it fails with DepthExceeded.
	build := func(depth int) *StatusCode {
		var sc *StatusCode
		for i := 0; i < depth; i++ {
			sc = &StatusCode{Code: "urn:x", Subcode: sc}
		}
		return sc
	}

	okResp := &Response{Results: []Result{{Decision: Permit, Status: &Status{Message: "m", Code: build(32)}}}}
	if _, err := roundTripResponseErr(okResp); err != nil {
		t.Fatalf("32-deep status code chain should decode, got: %v", err)
	}

	tooDeep := &Response{Results: []Result{{Decision: Permit, Status: &Status{Message: "m", Code: build(33)}}}}
	_, err := roundTripResponseErr(tooDeep)
	if err == nil {
		t.Fatal("expected a depth-exceeded error for a 33-deep chain")
	}
	decErr, ok := err.(*DecodeError)
	if !ok {
		t.Fatalf("got %T, want *DecodeError", err)
	}
	if decErr.Reason != hessian.ReasonDepthExceeded {
		t.Errorf("got reason %s, want %s", decErr.Reason, hessian.ReasonDepthExceeded)
	}
}

func roundTripResponse(t *testing.T, resp *Response) *Response {
	t.Helper()
	got, err := roundTripResponseErr(resp)
	if err != nil {
		t.Fatalf("round trip failed: %v", err)
	}
	return got
}

func roundTripResponseErr(resp *Response) (*Response, error) {
	data, err := MarshalResponse(resp)
	if err != nil {
		return nil, err
	}
	return UnmarshalResponse(data)
}

func TestEmptyRequestRoundTrip(t *testing.T) {
	data, err := MarshalRequest(&Request{})
	if err != nil {
		t.Fatalf("MarshalRequest: %v", err)
	}
	got, err := UnmarshalRequest(data)
	if err != nil {
		t.Fatalf("UnmarshalRequest: %v", err)
	}
	if len(got.Subjects) != 0 || len(got.Resources) != 0 || got.Action != nil || got.Environment != nil {
		t.Fatalf("empty request did not round trip cleanly: %+v", got)
	}
}

func TestAttributeWithZeroValuesEncodesAsEmptyList(t *testing.T) {
	m, err := attributeToMap(&Attribute{ID: "urn:x"}, "attr")
	if err != nil {
		t.Fatalf("attributeToMap: %v", err)
	}
	node, _ := m.Get(keyValues)
	list, ok := node.(*hessian.List)
	if !ok {
		t.Fatalf("values encoded as %T, want an empty *List", node)
	}
	if len(list.Items) != 0 {
		t.Fatalf("got %d items, want 0", len(list.Items))
	}
}

func TestDecodeUnknownDecisionMapsToIndeterminate(t *testing.T) {
	result := hessian.NewMap()
	result.TypeName, result.HasType = classResult, true
	result.Put(hessian.String("decision"), hessian.Int32(99))
	r, err := resultFromMap(result, "Result")
	if err != nil {
		t.Fatalf("resultFromMap: %v", err)
	}
	if r.Decision != Indeterminate {
		t.Fatalf("got decision %s, want Indeterminate", r.Decision)
	}
}

func TestDecodeRejectsUnknownFulfillOn(t *testing.T) {
	o := hessian.NewMap()
	o.TypeName, o.HasType = classObligation, true
	o.Put(hessian.String("id"), hessian.String("urn:x"))
	o.Put(hessian.String("fulfillOn"), hessian.Int32(7))
	_, err := obligationFromMap(o, "Obligation")
	decErr, ok := err.(*DecodeError)
	if !ok {
		t.Fatalf("got %T, want *DecodeError", err)
	}
	if decErr.Reason != hessian.ReasonEnumOutOfRange {
		t.Errorf("got reason %s, want %s", decErr.Reason, hessian.ReasonEnumOutOfRange)
	}
}

func TestDecodeRejectsUnknownWireClass(t *testing.T) {
	m := hessian.NewMap()
	m.TypeName, m.HasType = "org.glite.authz.pep.model.Mystery", true
	data, err := hessian.Serialize(m)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	_, err = UnmarshalResponse(data)
	decErr, ok := err.(*DecodeError)
	if !ok {
		t.Fatalf("got %T, want *DecodeError", err)
	}
	if decErr.Reason != hessian.ReasonShapeMismatch {
		t.Errorf("got reason %s, want %s", decErr.Reason, hessian.ReasonShapeMismatch)
	}
}
