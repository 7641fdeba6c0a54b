// Package classification models the buyer's Business/Consumer classification
// for one checkout session as a pure state machine. Field edits and gateway
// responses are events; Transition never performs I/O, which keeps the
// interleaving rules (stale-response guard, consumer-switch cancellation)
// testable without a network.
package classification

import (
	"github.com/taxbridge/taxbridge-api/internal/client/registry"
)

// BuyerType distinguishes business from consumer buyers.
type BuyerType string

const (
	// Business buyers carry a company name and a tax identifier.
	Business BuyerType = "b2b"
	// Consumer is the default classification.
	Consumer BuyerType = "b2c"
)

// ValidationStatus tracks the lifecycle of the session's tax identifier
// against the external registry.
type ValidationStatus int

const (
	Unvalidated ValidationStatus = iota
	Validating
	Valid
	Invalid
)

func (s ValidationStatus) String() string {
	switch s {
	case Validating:
		return "validating"
	case Valid:
		return "valid"
	case Invalid:
		return "invalid"
	default:
		return "unvalidated"
	}
}

// MaxCompanyNameLength caps the company name field.
const MaxCompanyNameLength = 40

// State is the classification of one checkout session. It lives only for the
// session; the durable side effects are written to the customer record by the
// reconciliation engine.
//
// Seq increments on every edit that changes which identifier (or buyer type)
// is active. Validation events carry the Seq they were started under and are
// dropped when it no longer matches, so a late registry reply for an
// abandoned identifier can never mutate the state.
type State struct {
	BuyerType     BuyerType
	CompanyName   string
	TaxID         string
	Validation    ValidationStatus
	Payload       *registry.CheckResult
	InvalidReason string
	Seq           uint64

	// ConsumerChosen records an explicit consumer choice, as opposed to the
	// consumer default of a fresh session. A session that chose consumer must
	// never be re-seeded from a stored identifier.
	ConsumerChosen bool
}

// NewState returns the initial classification for a fresh session.
func NewState() State {
	return State{BuyerType: Consumer}
}

// Event is a classification state transition input.
type Event interface {
	isEvent()
}

// SetBuyerType switches between business and consumer classification.
type SetBuyerType struct {
	Type BuyerType
}

// SetCompanyName edits the company name field.
type SetCompanyName struct {
	Name string
}

// SetTaxID edits the tax identifier field.
type SetTaxID struct {
	Value string
}

// ValidationStarted marks a registry call as in flight.
type ValidationStarted struct {
	Seq uint64
}

// ValidationSucceeded delivers a confirmed registry verdict.
type ValidationSucceeded struct {
	Seq     uint64
	Payload *registry.CheckResult
}

// ValidationFailed delivers a registry rejection of the identifier.
type ValidationFailed struct {
	Seq    uint64
	Reason string
}

func (SetBuyerType) isEvent()        {}
func (SetCompanyName) isEvent()      {}
func (SetTaxID) isEvent()            {}
func (ValidationStarted) isEvent()   {}
func (ValidationSucceeded) isEvent() {}
func (ValidationFailed) isEvent()    {}

// Transition applies one event and returns the next state. It is a pure
// function; unknown or stale events leave the state unchanged.
func Transition(s State, ev Event) State {
	switch e := ev.(type) {
	case SetBuyerType:
		if e.Type == s.BuyerType {
			if e.Type == Consumer {
				s.ConsumerChosen = true
			}
			return s
		}
		if e.Type == Consumer {
			// Switching to consumer discards business data. The Seq bump
			// cancels any in-flight validation for the abandoned identifier.
			return State{BuyerType: Consumer, Seq: s.Seq + 1, ConsumerChosen: true}
		}
		// Re-entry path: a previously known business buyer keeps prior data.
		s.BuyerType = Business
		s.ConsumerChosen = false
		return s

	case SetCompanyName:
		if len(e.Name) > MaxCompanyNameLength {
			return s
		}
		s.CompanyName = e.Name
		return s

	case SetTaxID:
		if e.Value == s.TaxID {
			return s
		}
		s.TaxID = e.Value
		s.Validation = Unvalidated
		s.Payload = nil
		s.InvalidReason = ""
		s.Seq++
		return s

	case ValidationStarted:
		if e.Seq != s.Seq || s.TaxID == "" {
			return s
		}
		s.Validation = Validating
		return s

	case ValidationSucceeded:
		if e.Seq != s.Seq {
			return s
		}
		s.Validation = Valid
		s.Payload = e.Payload
		s.InvalidReason = ""
		return s

	case ValidationFailed:
		if e.Seq != s.Seq {
			return s
		}
		s.Validation = Invalid
		s.Payload = nil
		s.InvalidReason = e.Reason
		return s
	}

	return s
}

// SeedValidated marks the session as a known business buyer holding an
// already confirmed identifier. Used for cache hits and the re-entry
// shortcut, where no fresh registry call is wanted.
func SeedValidated(s State, taxID string, payload *registry.CheckResult) State {
	s.BuyerType = Business
	s.TaxID = taxID
	s.Validation = Valid
	s.Payload = payload
	s.InvalidReason = ""
	s.ConsumerChosen = false
	s.Seq++
	return s
}

// CompletionReason explains why checkout completion is blocked.
type CompletionReason string

const (
	ReasonNone               CompletionReason = ""
	ReasonCompanyNameMissing CompletionReason = "company-name-required"
	ReasonTaxIDUnvalidated   CompletionReason = "tax-id-unvalidated"
	ReasonValidationPending  CompletionReason = "tax-id-validation-pending"
	ReasonTaxIDInvalid       CompletionReason = "tax-id-invalid"
)

// Complete evaluates the completion-intercept predicate: consumers may always
// complete, business buyers need a company name and a confirmed identifier.
func Complete(s State) (bool, CompletionReason) {
	if s.BuyerType == Consumer {
		return true, ReasonNone
	}
	if s.CompanyName == "" {
		return false, ReasonCompanyNameMissing
	}
	switch s.Validation {
	case Valid:
		return true, ReasonNone
	case Validating:
		return false, ReasonValidationPending
	case Invalid:
		return false, ReasonTaxIDInvalid
	default:
		return false, ReasonTaxIDUnvalidated
	}
}
