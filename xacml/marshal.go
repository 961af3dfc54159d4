package xacml

import (
	"fmt"

	"github.com/pombreda/argus-pep-api-c/hessian"
)

// MarshalRequest builds the Hessian wire bytes for req. It is the
// primary entry point the rest of the client depends on.
func MarshalRequest(req *Request) ([]byte, error) {
	m, err := requestToMap(req, "Request")
	if err != nil {
		return nil, err
	}
	return hessian.Serialize(m)
}

// MarshalResponse builds the Hessian wire bytes for resp. Mirrors
// MarshalRequest; used by the round-trip tests and by the CLI's debugging
// encode/decode subcommands, not by the live transport path.
func MarshalResponse(resp *Response) ([]byte, error) {
	m, err := responseToMap(resp, "Response")
	if err != nil {
		return nil, err
	}
	return hessian.Serialize(m)
}

func requestToMap(req *Request, path string) (*hessian.Map, error) {
	m := hessian.NewMap()
	m.TypeName, m.HasType = classRequest, true

	subjects := hessian.NewList()
	for i, s := range req.Subjects {
		sm, err := subjectToMap(&s, fmt.Sprintf("%s.subjects[%d]", path, i))
		if err != nil {
			return nil, err
		}
		subjects.Items = append(subjects.Items, sm)
	}
	m.Put(hessian.String(keySubjects), subjects)

	resources := hessian.NewList()
	for i, r := range req.Resources {
		rm, err := resourceToMap(&r, fmt.Sprintf("%s.resources[%d]", path, i))
		if err != nil {
			return nil, err
		}
		resources.Items = append(resources.Items, rm)
	}
	m.Put(hessian.String(keyResources), resources)

	if req.Action != nil {
		am, err := actionToMap(req.Action, path+".action")
		if err != nil {
			return nil, err
		}
		m.Put(hessian.String(keyAction), am)
	} else {
		m.Put(hessian.String(keyAction), hessian.Null{})
	}

	if req.Environment != nil {
		em, err := environmentToMap(req.Environment, path+".environment")
		if err != nil {
			return nil, err
		}
		m.Put(hessian.String(keyEnvironment), em)
	} else {
		m.Put(hessian.String(keyEnvironment), hessian.Null{})
	}

	return m, nil
}

func subjectToMap(s *Subject, path string) (*hessian.Map, error) {
	m := hessian.NewMap()
	m.TypeName, m.HasType = classSubject, true
	m.Put(hessian.String(keyCategory), optionalString(s.Category))
	attrs, err := attributesToList(s.Attributes, path+".attributes")
	if err != nil {
		return nil, err
	}
	m.Put(hessian.String(keyAttributes), attrs)
	return m, nil
}

func resourceToMap(r *Resource, path string) (*hessian.Map, error) {
	m := hessian.NewMap()
	m.TypeName, m.HasType = classResource, true
	m.Put(hessian.String(keyContent), optionalString(r.Content))
	attrs, err := attributesToList(r.Attributes, path+".attributes")
	if err != nil {
		return nil, err
	}
	m.Put(hessian.String(keyAttributes), attrs)
	return m, nil
}

func actionToMap(a *Action, path string) (*hessian.Map, error) {
	m := hessian.NewMap()
	m.TypeName, m.HasType = classAction, true
	attrs, err := attributesToList(a.Attributes, path+".attributes")
	if err != nil {
		return nil, err
	}
	m.Put(hessian.String(keyAttributes), attrs)
	return m, nil
}

func environmentToMap(e *Environment, path string) (*hessian.Map, error) {
	m := hessian.NewMap()
	m.TypeName, m.HasType = classEnvironment, true
	attrs, err := attributesToList(e.Attributes, path+".attributes")
	if err != nil {
		return nil, err
	}
	m.Put(hessian.String(keyAttributes), attrs)
	return m, nil
}

func attributesToList(attrs []Attribute, path string) (*hessian.List, error) {
	list := hessian.NewList()
	for i, a := range attrs {
		am, err := attributeToMap(&a, fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		list.Items = append(list.Items, am)
	}
	return list, nil
}

func attributeToMap(a *Attribute, path string) (*hessian.Map, error) {
	if a.ID == "" {
		return nil, missingRequired(path + ".id")
	}
	m := hessian.NewMap()
	m.TypeName, m.HasType = classAttribute, true
	m.Put(hessian.String(keyID), hessian.String(a.ID))
	m.Put(hessian.String(keyDataType), optionalString(a.DataType))
	m.Put(hessian.String(keyIssuer), optionalString(a.Issuer))
	m.Put(hessian.String(keyValues), stringListToList(a.Values))
	return m, nil
}

func responseToMap(resp *Response, path string) (*hessian.Map, error) {
	m := hessian.NewMap()
	m.TypeName, m.HasType = classResponse, true
	if resp.Request != nil {
		rm, err := requestToMap(resp.Request, path+".request")
		if err != nil {
			return nil, err
		}
		m.Put(hessian.String(keyRequest), rm)
	} else {
		m.Put(hessian.String(keyRequest), hessian.Null{})
	}
	results := hessian.NewList()
	for i, r := range resp.Results {
		rm, err := resultToMap(&r, fmt.Sprintf("%s.results[%d]", path, i))
		if err != nil {
			return nil, err
		}
		results.Items = append(results.Items, rm)
	}
	m.Put(hessian.String(keyResults), results)
	return m, nil
}

func resultToMap(r *Result, path string) (*hessian.Map, error) {
	m := hessian.NewMap()
	m.TypeName, m.HasType = classResult, true
	m.Put(hessian.String(keyDecision), hessian.Int32(r.Decision))
	m.Put(hessian.String(keyResourceID), optionalString(r.ResourceID))
	if r.Status != nil {
		sm, err := statusToMap(r.Status, path+".status")
		if err != nil {
			return nil, err
		}
		m.Put(hessian.String(keyStatus), sm)
	} else {
		m.Put(hessian.String(keyStatus), hessian.Null{})
	}
	obligations := hessian.NewList()
	for i, o := range r.Obligations {
		om, err := obligationToMap(&o, fmt.Sprintf("%s.obligations[%d]", path, i))
		if err != nil {
			return nil, err
		}
		obligations.Items = append(obligations.Items, om)
	}
	m.Put(hessian.String(keyObligations), obligations)
	return m, nil
}

func statusToMap(s *Status, path string) (*hessian.Map, error) {
	if s.Message == "" {
		return nil, missingRequired(path + ".message")
	}
	m := hessian.NewMap()
	m.TypeName, m.HasType = classStatus, true
	m.Put(hessian.String(keyMessage), hessian.String(s.Message))
	if s.Code != nil {
		cm, err := statusCodeToMap(s.Code, path+".code")
		if err != nil {
			return nil, err
		}
		m.Put(hessian.String(keyCode), cm)
	} else {
		m.Put(hessian.String(keyCode), hessian.Null{})
	}
	return m, nil
}

func statusCodeToMap(sc *StatusCode, path string) (*hessian.Map, error) {
	if sc.Code == "" {
		return nil, missingRequired(path + ".code")
	}
	m := hessian.NewMap()
	m.TypeName, m.HasType = classStatusCode, true
	m.Put(hessian.String(keyCode), hessian.String(sc.Code))
	if sc.Subcode != nil {
		sub, err := statusCodeToMap(sc.Subcode, path+".subcode")
		if err != nil {
			return nil, err
		}
		m.Put(hessian.String(keySubcode), sub)
	} else {
		m.Put(hessian.String(keySubcode), hessian.Null{})
	}
	return m, nil
}

func obligationToMap(o *Obligation, path string) (*hessian.Map, error) {
	if o.ID == "" {
		return nil, missingRequired(path + ".id")
	}
	m := hessian.NewMap()
	m.TypeName, m.HasType = classObligation, true
	m.Put(hessian.String(keyID), hessian.String(o.ID))
	m.Put(hessian.String(keyFulfillOn), hessian.Int32(o.FulfillOn))
	assignments := hessian.NewList()
	for i, a := range o.Assignments {
		am, err := attributeAssignmentToMap(&a, fmt.Sprintf("%s.assignments[%d]", path, i))
		if err != nil {
			return nil, err
		}
		assignments.Items = append(assignments.Items, am)
	}
	m.Put(hessian.String(keyAssignments), assignments)
	return m, nil
}

func attributeAssignmentToMap(a *AttributeAssignment, path string) (*hessian.Map, error) {
	if a.ID == "" {
		return nil, missingRequired(path + ".id")
	}
	m := hessian.NewMap()
	m.TypeName, m.HasType = classAttributeAssignment, true
	m.Put(hessian.String(keyID), hessian.String(a.ID))
	m.Put(hessian.String(keyValues), stringListToList(a.Values))
	return m, nil
}

func optionalString(s *string) hessian.Node {
	if s == nil {
		return hessian.Null{}
	}
	return hessian.String(*s)
}

func stringListToList(values []string) *hessian.List {
	list := hessian.NewList()
	for _, v := range values {
		list.Items = append(list.Items, hessian.String(v))
	}
	return list
}
