package xacml

// Wire class names: the stable type strings carried by Hessian Maps on the
// wire. These are the wire contract; never rename them to "clean
// up" -- a byte-exact match against the Java reference implementation is
// the entire point of this codec.
const (
	classRequest             = "org.glite.authz.pep.model.Request"
	classSubject             = "org.glite.authz.pep.model.Subject"
	classResource            = "org.glite.authz.pep.model.Resource"
	classAction              = "org.glite.authz.pep.model.Action"
	classEnvironment         = "org.glite.authz.pep.model.Environment"
	classAttribute           = "org.glite.authz.pep.model.Attribute"
	classResponse            = "org.glite.authz.pep.model.Response"
	classResult              = "org.glite.authz.pep.model.Result"
	classStatus              = "org.glite.authz.pep.model.Status"
	classStatusCode          = "org.glite.authz.pep.model.StatusCode"
	classObligation          = "org.glite.authz.pep.model.Obligation"
	classAttributeAssignment = "org.glite.authz.pep.model.AttributeAssignment"
)

// Wire field-key strings: lowerCamelCase English names, fixed.
const (
	keySubjects    = "subjects"
	keyResources   = "resources"
	keyAction      = "action"
	keyEnvironment = "environment"
	keyCategory    = "category"
	keyAttributes  = "attributes"
	keyContent     = "content"
	keyID          = "id"
	keyDataType    = "dataType"
	keyIssuer      = "issuer"
	keyValues      = "values"
	keyRequest     = "request"
	keyResults     = "results"
	keyDecision    = "decision"
	keyResourceID  = "resourceId"
	keyStatus      = "status"
	keyObligations = "obligations"
	keyMessage     = "message"
	keyCode        = "code"
	keySubcode     = "subcode"
	keyFulfillOn   = "fulfillOn"
	keyAssignments = "assignments"
)

// maxStatusCodeDepth bounds StatusCode.Subcode recursion on decode, so a
// hostile stream cannot exhaust the stack.
const maxStatusCodeDepth = 32

// WellKnownStatusOK is the status-code URI callers compare against to
// recognize a successful evaluation. The codec never inspects it
// itself -- status-code strings are opaque to the wire format.
const WellKnownStatusOK = "urn:oasis:names:tc:xacml:1.0:status:ok"
