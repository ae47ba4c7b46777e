package claims

// OutcomeKind tags which variant of Outcome holds.
type OutcomeKind int

const (
	// OutcomeIdle means no lookup has completed yet.
	OutcomeIdle OutcomeKind = iota
	// OutcomeFound means the latest completed lookup returned a claim.
	OutcomeFound
	// OutcomeNotFound means the latest completed lookup failed for any reason.
	OutcomeNotFound
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeIdle:
		return "idle"
	case OutcomeFound:
		return "found"
	case OutcomeNotFound:
		return "not_found"
	}
	return "unknown"
}

// Outcome is the result of a claim search: exactly one of Idle, Found(Record), or NotFound.
//
// The zero value is Idle.
type Outcome struct {
	kind   OutcomeKind
	record Record
	cause  error
}

// Idle returns the outcome before any lookup has completed.
func Idle() Outcome {
	return Outcome{kind: OutcomeIdle, record: Record{}, cause: nil}
}

// Found returns the outcome of a successful lookup.
func Found(record Record) Outcome {
	return Outcome{kind: OutcomeFound, record: record, cause: nil}
}

// NotFound returns the outcome of a failed lookup. cause explains the failure and is kept for logging only.
func NotFound(cause error) Outcome {
	return Outcome{kind: OutcomeNotFound, record: Record{}, cause: cause}
}

// Kind returns which variant holds.
func (o Outcome) Kind() OutcomeKind {
	return o.kind
}

// Record returns the claim when the outcome is Found.
func (o Outcome) Record() (Record, bool) {
	return o.record, o.kind == OutcomeFound
}

// Cause returns why a NotFound outcome failed. It is nil for other outcomes.
func (o Outcome) Cause() error {
	return o.cause
}

// View is what the tracking page shows below the search form.
type View int

const (
	ViewNothing View = iota
	ViewRecord
	ViewNotFoundNotice
)

// ViewFor applies the rendering rule: a Found outcome shows the record table; a NotFound outcome shows the
// not-found notice only when the query field is non-empty and no lookup is in flight; anything else shows nothing.
func ViewFor(o Outcome, query string, inFlight bool) View {
	switch o.kind {
	case OutcomeFound:
		return ViewRecord
	case OutcomeNotFound:
		if _, ok := ParseQuery(query); ok && !inFlight {
			return ViewNotFoundNotice
		}
	case OutcomeIdle:
	}
	return ViewNothing
}
