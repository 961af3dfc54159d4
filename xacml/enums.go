package xacml

// Decision is the outcome of evaluating a Request against policy.
type Decision int32

const (
	Deny          Decision = 0
	Permit        Decision = 1
	Indeterminate Decision = 2
	NotApplicable Decision = 3
)

func (d Decision) String() string {
	switch d {
	case Deny:
		return "Deny"
	case Permit:
		return "Permit"
	case Indeterminate:
		return "Indeterminate"
	case NotApplicable:
		return "NotApplicable"
	default:
		return "Indeterminate"
	}
}

// decisionFromWire maps an unknown integer to Indeterminate rather than
// rejecting it, so a newer server cannot make an old client error out.
func decisionFromWire(v int32) Decision {
	switch v {
	case int32(Deny):
		return Deny
	case int32(Permit):
		return Permit
	case int32(Indeterminate):
		return Indeterminate
	case int32(NotApplicable):
		return NotApplicable
	default:
		return Indeterminate
	}
}

// FulfillOn names which Decision an Obligation applies to.
type FulfillOn int32

const (
	FulfillOnDeny   FulfillOn = 0
	FulfillOnPermit FulfillOn = 1
)

func (f FulfillOn) String() string {
	switch f {
	case FulfillOnDeny:
		return "Deny"
	case FulfillOnPermit:
		return "Permit"
	default:
		return "Deny"
	}
}

// fulfillOnFromWire is strict: unlike Decision, an out-of-range integer is
// rejected rather than defaulted.
func fulfillOnFromWire(v int32) (FulfillOn, bool) {
	switch v {
	case int32(FulfillOnDeny):
		return FulfillOnDeny, true
	case int32(FulfillOnPermit):
		return FulfillOnPermit, true
	default:
		return 0, false
	}
}
