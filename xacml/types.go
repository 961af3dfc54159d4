// Package xacml implements the domain mapping layer of the Argus PEP wire
// protocol: the XACML request/response object graph, and the translation
// between it and the Hessian map/list shapes the hessian package knows how
// to serialize.
package xacml

// Attribute is a single named, typed value (or set of values) attached to a
// Subject, Resource, Action, or Environment.
type Attribute struct {
	ID       string
	DataType *string
	Issuer   *string
	Values   []string
}

// Subject describes the entity requesting access: an X.500 DN, a
// certificate-derived subject-id, and/or VOMS FQANs, all expressed as
// Attributes by the caller (or the subject package).
type Subject struct {
	Category   *string
	Attributes []Attribute
}

// Resource describes the thing access is requested against.
type Resource struct {
	Content    *string
	Attributes []Attribute
}

// Action describes what the Subject wants to do to the Resource.
type Action struct {
	Attributes []Attribute
}

// Environment carries ambient attributes (time of day, etc.) outside the
// Subject/Resource/Action triple.
type Environment struct {
	Attributes []Attribute
}

// Request is the query shipped to the PEP daemon.
type Request struct {
	Subjects    []Subject
	Resources   []Resource
	Action      *Action
	Environment *Environment
}

// AttributeAssignment is one (id, values) pair an Obligation instructs the
// enforcement point to act on.
type AttributeAssignment struct {
	ID     string
	Values []string
}

// Obligation is an instruction the enforcement point must carry out when
// the accompanying Result's Decision matches FulfillOn.
type Obligation struct {
	ID          string
	FulfillOn   FulfillOn
	Assignments []AttributeAssignment
}

// StatusCode is a recursive URN-tagged outcome code, independent of the
// Decision it accompanies.
type StatusCode struct {
	Code    string
	Subcode *StatusCode
}

// Status carries a human-readable message and an optional structured code.
type Status struct {
	Message string
	Code    *StatusCode
}

// Result is one Subject/Resource/Action decision within a Response.
type Result struct {
	Decision    Decision
	ResourceID  *string
	Status      *Status
	Obligations []Obligation
}

// Response is what the PEP daemon returns for a Request.
type Response struct {
	Request *Request
	Results []Result
}
