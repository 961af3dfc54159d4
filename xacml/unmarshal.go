package xacml

import (
	"fmt"

	"github.com/op/go-logging"

	"github.com/pombreda/argus-pep-api-c/hessian"
)

var log = logging.MustGetLogger("xacml")

// warnUnknownKeys logs and skips wire keys the decoder does not recognize,
// so a newer server can add fields without breaking old clients.
func warnUnknownKeys(m *hessian.Map, path string, known ...string) {
	for _, k := range m.Keys {
		ks, ok := k.(hessian.String)
		if !ok {
			continue
		}
		recognized := false
		for _, want := range known {
			if string(ks) == want {
				recognized = true
				break
			}
		}
		if !recognized {
			log.Warningf("skipping unknown key %q in %s", string(ks), path)
		}
	}
}

// UnmarshalResponse decodes Hessian wire bytes into a Response. It
// is the primary entry point the rest of the client depends on. On
// any error no partial Response is returned.
func UnmarshalResponse(data []byte) (*Response, error) {
	root, err := hessian.Deserialize(data)
	if err != nil {
		return nil, err
	}
	m, err := expectMap(root, classResponse, "Response")
	if err != nil {
		return nil, err
	}
	return responseFromMap(m, "Response")
}

// UnmarshalRequest decodes Hessian wire bytes into a Request. Mirrors
// UnmarshalResponse; used by the round-trip tests and the CLI's debugging
// subcommands, not by the live transport path.
func UnmarshalRequest(data []byte) (*Request, error) {
	root, err := hessian.Deserialize(data)
	if err != nil {
		return nil, err
	}
	m, err := expectMap(root, classRequest, "Request")
	if err != nil {
		return nil, err
	}
	return requestFromMap(m, "Request")
}

func expectMap(n hessian.Node, wantClass, path string) (*hessian.Map, error) {
	n = hessian.Deref(n)
	m, ok := n.(*hessian.Map)
	if !ok {
		return nil, decodeErr(path, hessian.ReasonShapeMismatch, fmt.Sprintf("expected a %s map", wantClass))
	}
	if m.HasType && m.TypeName != wantClass {
		return nil, decodeErr(path, hessian.ReasonShapeMismatch, fmt.Sprintf("unexpected wire class %q, want %q", m.TypeName, wantClass))
	}
	return m, nil
}

func requestFromMap(m *hessian.Map, path string) (*Request, error) {
	warnUnknownKeys(m, path, keySubjects, keyResources, keyAction, keyEnvironment)
	req := &Request{}

	subjectsNode, _ := m.Get(keySubjects)
	subjects, err := asList(subjectsNode, path+".subjects")
	if err != nil {
		return nil, err
	}
	for i, item := range subjects.Items {
		sm, err := expectMap(item, classSubject, fmt.Sprintf("%s.subjects[%d]", path, i))
		if err != nil {
			return nil, err
		}
		subject, err := subjectFromMap(sm, fmt.Sprintf("%s.subjects[%d]", path, i))
		if err != nil {
			return nil, err
		}
		req.Subjects = append(req.Subjects, *subject)
	}

	resourcesNode, _ := m.Get(keyResources)
	resources, err := asList(resourcesNode, path+".resources")
	if err != nil {
		return nil, err
	}
	for i, item := range resources.Items {
		rm, err := expectMap(item, classResource, fmt.Sprintf("%s.resources[%d]", path, i))
		if err != nil {
			return nil, err
		}
		resource, err := resourceFromMap(rm, fmt.Sprintf("%s.resources[%d]", path, i))
		if err != nil {
			return nil, err
		}
		req.Resources = append(req.Resources, *resource)
	}

	if actionNode, ok := m.Get(keyAction); ok {
		am, err := expectMap(actionNode, classAction, path+".action")
		if err != nil {
			return nil, err
		}
		action, err := actionFromMap(am, path+".action")
		if err != nil {
			return nil, err
		}
		req.Action = action
	}

	if envNode, ok := m.Get(keyEnvironment); ok {
		em, err := expectMap(envNode, classEnvironment, path+".environment")
		if err != nil {
			return nil, err
		}
		env, err := environmentFromMap(em, path+".environment")
		if err != nil {
			return nil, err
		}
		req.Environment = env
	}

	return req, nil
}

func subjectFromMap(m *hessian.Map, path string) (*Subject, error) {
	warnUnknownKeys(m, path, keyCategory, keyAttributes)
	s := &Subject{Category: optString(m, keyCategory)}
	attrs, err := attributesFromMap(m, path+".attributes")
	if err != nil {
		return nil, err
	}
	s.Attributes = attrs
	return s, nil
}

func resourceFromMap(m *hessian.Map, path string) (*Resource, error) {
	warnUnknownKeys(m, path, keyContent, keyAttributes)
	r := &Resource{Content: optString(m, keyContent)}
	attrs, err := attributesFromMap(m, path+".attributes")
	if err != nil {
		return nil, err
	}
	r.Attributes = attrs
	return r, nil
}

func actionFromMap(m *hessian.Map, path string) (*Action, error) {
	warnUnknownKeys(m, path, keyAttributes)
	attrs, err := attributesFromMap(m, path+".attributes")
	if err != nil {
		return nil, err
	}
	return &Action{Attributes: attrs}, nil
}

func environmentFromMap(m *hessian.Map, path string) (*Environment, error) {
	warnUnknownKeys(m, path, keyAttributes)
	attrs, err := attributesFromMap(m, path+".attributes")
	if err != nil {
		return nil, err
	}
	return &Environment{Attributes: attrs}, nil
}

func attributesFromMap(m *hessian.Map, path string) ([]Attribute, error) {
	node, _ := m.Get(keyAttributes)
	list, err := asList(node, path)
	if err != nil {
		return nil, err
	}
	attrs := make([]Attribute, 0, len(list.Items))
	for i, item := range list.Items {
		am, err := expectMap(item, classAttribute, fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		a, err := attributeFromMap(am, fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		attrs = append(attrs, *a)
	}
	return attrs, nil
}

func attributeFromMap(m *hessian.Map, path string) (*Attribute, error) {
	warnUnknownKeys(m, path, keyID, keyDataType, keyIssuer, keyValues)
	id, ok := stringField(m, keyID)
	if !ok {
		return nil, decodeErr(path+".id", hessian.ReasonMissingField, "required string field is absent or null")
	}
	values, err := stringListFromMap(m, keyValues, path+".values")
	if err != nil {
		return nil, err
	}
	return &Attribute{
		ID:       id,
		DataType: optString(m, keyDataType),
		Issuer:   optString(m, keyIssuer),
		Values:   values,
	}, nil
}

func responseFromMap(m *hessian.Map, path string) (*Response, error) {
	warnUnknownKeys(m, path, keyRequest, keyResults)
	resp := &Response{}
	if reqNode, ok := m.Get(keyRequest); ok {
		rm, err := expectMap(reqNode, classRequest, path+".request")
		if err != nil {
			return nil, err
		}
		req, err := requestFromMap(rm, path+".request")
		if err != nil {
			return nil, err
		}
		resp.Request = req
	}

	resultsNode, _ := m.Get(keyResults)
	results, err := asList(resultsNode, path+".results")
	if err != nil {
		return nil, err
	}
	for i, item := range results.Items {
		rm, err := expectMap(item, classResult, fmt.Sprintf("%s.results[%d]", path, i))
		if err != nil {
			return nil, err
		}
		result, err := resultFromMap(rm, fmt.Sprintf("%s.results[%d]", path, i))
		if err != nil {
			return nil, err
		}
		resp.Results = append(resp.Results, *result)
	}
	return resp, nil
}

func resultFromMap(m *hessian.Map, path string) (*Result, error) {
	warnUnknownKeys(m, path, keyDecision, keyResourceID, keyStatus, keyObligations)
	decisionNode, ok := m.Get(keyDecision)
	if !ok {
		return nil, decodeErr(path+".decision", hessian.ReasonMissingField, "required field is absent or null")
	}
	decisionInt, ok := decisionNode.(hessian.Int32)
	if !ok {
		return nil, decodeErr(path+".decision", hessian.ReasonShapeMismatch, "decision must be an Int32")
	}

	result := &Result{
		Decision:   decisionFromWire(int32(decisionInt)),
		ResourceID: optString(m, keyResourceID),
	}

	if statusNode, ok := m.Get(keyStatus); ok {
		sm, err := expectMap(statusNode, classStatus, path+".status")
		if err != nil {
			return nil, err
		}
		status, err := statusFromMap(sm, path+".status")
		if err != nil {
			return nil, err
		}
		result.Status = status
	}

	if obligationsNode, ok := m.Get(keyObligations); ok {
		list, err := asList(obligationsNode, path+".obligations")
		if err != nil {
			return nil, err
		}
		for i, item := range list.Items {
			om, err := expectMap(item, classObligation, fmt.Sprintf("%s.obligations[%d]", path, i))
			if err != nil {
				return nil, err
			}
			obligation, err := obligationFromMap(om, fmt.Sprintf("%s.obligations[%d]", path, i))
			if err != nil {
				return nil, err
			}
			result.Obligations = append(result.Obligations, *obligation)
		}
	}

	return result, nil
}

func statusFromMap(m *hessian.Map, path string) (*Status, error) {
	warnUnknownKeys(m, path, keyMessage, keyCode)
	message, ok := stringField(m, keyMessage)
	if !ok {
		return nil, decodeErr(path+".message", hessian.ReasonMissingField, "required string field is absent or null")
	}
	status := &Status{Message: message}
	// A null or absent code is not an error -- Status just has no code.
	if codeNode, ok := m.Get(keyCode); ok {
		cm, err := expectMap(codeNode, classStatusCode, path+".code")
		if err != nil {
			return nil, err
		}
		code, err := statusCodeFromMap(cm, path+".code", 1)
		if err != nil {
			return nil, err
		}
		status.Code = code
	}
	return status, nil
}

func statusCodeFromMap(m *hessian.Map, path string, depth int) (*StatusCode, error) {
	if depth > maxStatusCodeDepth {
		return nil, decodeErr(path, hessian.ReasonDepthExceeded, "status code nesting exceeds cap")
	}
	warnUnknownKeys(m, path, keyCode, keySubcode)
	code, ok := stringField(m, keyCode)
	if !ok {
		return nil, decodeErr(path+".code", hessian.ReasonMissingField, "required string field is absent or null")
	}
	sc := &StatusCode{Code: code}
	if subNode, ok := m.Get(keySubcode); ok {
		sm, err := expectMap(subNode, classStatusCode, path+".subcode")
		if err != nil {
			return nil, err
		}
		sub, err := statusCodeFromMap(sm, path+".subcode", depth+1)
		if err != nil {
			return nil, err
		}
		sc.Subcode = sub
	}
	return sc, nil
}

func obligationFromMap(m *hessian.Map, path string) (*Obligation, error) {
	warnUnknownKeys(m, path, keyID, keyFulfillOn, keyAssignments)
	id, ok := stringField(m, keyID)
	if !ok {
		return nil, decodeErr(path+".id", hessian.ReasonMissingField, "required string field is absent or null")
	}
	fulfillOn := FulfillOnDeny
	if fNode, ok := m.Get(keyFulfillOn); ok {
		fInt, ok := fNode.(hessian.Int32)
		if !ok {
			return nil, decodeErr(path+".fulfillOn", hessian.ReasonShapeMismatch, "fulfillOn must be an Int32")
		}
		f, ok := fulfillOnFromWire(int32(fInt))
		if !ok {
			return nil, decodeErr(path+".fulfillOn", hessian.ReasonEnumOutOfRange, fmt.Sprintf("unknown fulfillOn code %d", fInt))
		}
		fulfillOn = f
	}
	o := &Obligation{ID: id, FulfillOn: fulfillOn}
	if assignNode, ok := m.Get(keyAssignments); ok {
		list, err := asList(assignNode, path+".assignments")
		if err != nil {
			return nil, err
		}
		for i, item := range list.Items {
			am, err := expectMap(item, classAttributeAssignment, fmt.Sprintf("%s.assignments[%d]", path, i))
			if err != nil {
				return nil, err
			}
			a, err := attributeAssignmentFromMap(am, fmt.Sprintf("%s.assignments[%d]", path, i))
			if err != nil {
				return nil, err
			}
			o.Assignments = append(o.Assignments, *a)
		}
	}
	return o, nil
}

func attributeAssignmentFromMap(m *hessian.Map, path string) (*AttributeAssignment, error) {
	warnUnknownKeys(m, path, keyID, keyValues)
	id, ok := stringField(m, keyID)
	if !ok {
		return nil, decodeErr(path+".id", hessian.ReasonMissingField, "required string field is absent or null")
	}
	values, err := stringListFromMap(m, keyValues, path+".values")
	if err != nil {
		return nil, err
	}
	return &AttributeAssignment{ID: id, Values: values}, nil
}

// asList coerces node to a List, tolerating an absent or Null node (both
// decode as an empty list).
func asList(node hessian.Node, path string) (*hessian.List, error) {
	if node == nil {
		return hessian.NewList(), nil
	}
	node = hessian.Deref(node)
	if _, isNull := node.(hessian.Null); isNull {
		return hessian.NewList(), nil
	}
	list, ok := node.(*hessian.List)
	if !ok {
		return nil, decodeErr(path, hessian.ReasonShapeMismatch, "expected a list")
	}
	return list, nil
}

// stringField returns the string at key, requiring it be present and
// non-null -- the shared rule behind every "required string field" check.
func stringField(m *hessian.Map, key string) (string, bool) {
	node, ok := m.Get(key)
	if !ok {
		return "", false
	}
	s, ok := hessian.Deref(node).(hessian.String)
	if !ok {
		return "", false
	}
	return string(s), true
}

// optString returns nil when key is absent or its value is Null, and a
// pointer to the string otherwise -- both forms denote absence identically
// on the wire.
func optString(m *hessian.Map, key string) *string {
	node, ok := m.Get(key)
	if !ok {
		return nil
	}
	s, isStr := hessian.Deref(node).(hessian.String)
	if !isStr {
		return nil
	}
	v := string(s)
	return &v
}

func stringListFromMap(m *hessian.Map, key, path string) ([]string, error) {
	node, _ := m.Get(key)
	list, err := asList(node, path)
	if err != nil {
		return nil, err
	}
	values := make([]string, 0, len(list.Items))
	for i, item := range list.Items {
		s, ok := hessian.Deref(item).(hessian.String)
		if !ok {
			return nil, decodeErr(fmt.Sprintf("%s[%d]", path, i), hessian.ReasonShapeMismatch, "expected a string")
		}
		values = append(values, string(s))
	}
	return values, nil
}
