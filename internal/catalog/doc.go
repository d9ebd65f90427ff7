// Package catalog defines the movie and series records Marquee manages and
// the validation rules a draft must pass before it is sent to the backend.
//
// # Records
//
// A Record is a Draft plus the ID assigned by the backend. Drafts travel as
// the body of create and update requests; the client never invents or
// changes an ID.
//
// # Validation
//
// Validate is pure: it takes the current time as an argument and returns a
// FieldErrors map keyed by JSON field name. Every rule runs so the form can
// show all problems at once. An empty map means the draft is safe to submit.
//
//	errs := catalog.Validate(draft, time.Now())
//	if !errs.Valid() {
//		fmt.Println(errs.Summary())
//	}
//
// ParseDraft and ValidateForm accept the raw strings typed into the TUI form
// and report unparsable numbers as field errors instead of zero values.
package catalog
