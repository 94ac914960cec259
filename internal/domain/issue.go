package domain

import "errors"

// IssueKind classifies a validation or parse failure.
type IssueKind string

const (
	IssueFieldMissing    IssueKind = "field_missing"
	IssueDateFormat      IssueKind = "date_format"
	IssueTimeFormat      IssueKind = "time_format"
	IssueOrder           IssueKind = "order"
	IssueBusinessHours   IssueKind = "business_hours"
	IssueOverlap         IssueKind = "overlap"
	IssueStructuralParse IssueKind = "structural_parse"
)

// Issue is a machine-readable failure with a human-readable message.
// Line is the 1-based source line (0 when not row-bound). RecordID and
// OtherID name the records involved, when known.
type Issue struct {
	Kind     IssueKind
	Line     int
	Field    string
	RecordID string
	OtherID  string
	Message  string
}

func (i Issue) Error() string { return i.Message }

// Issues is an ordered list of failures.
type Issues []Issue

// Messages returns the message of every issue in order.
func (is Issues) Messages() []string {
	out := make([]string, len(is))
	for i, issue := range is {
		out[i] = issue.Message
	}
	return out
}

// Err joins the issues into a single error, or nil when empty.
func (is Issues) Err() error {
	if len(is) == 0 {
		return nil
	}
	errs := make([]error, len(is))
	for i, issue := range is {
		errs[i] = issue
	}
	return errors.Join(errs...)
}

// OfKind returns the subset of issues with the given kind.
func (is Issues) OfKind(kind IssueKind) Issues {
	var out Issues
	for _, issue := range is {
		if issue.Kind == kind {
			out = append(out, issue)
		}
	}
	return out
}
