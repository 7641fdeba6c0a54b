package classification_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/taxbridge/taxbridge-api/internal/classification"
	"github.com/taxbridge/taxbridge-api/internal/client/registry"
)

func businessState(taxID string) classification.State {
	s := classification.NewState()
	s = classification.Transition(s, classification.SetBuyerType{Type: classification.Business})
	s = classification.Transition(s, classification.SetCompanyName{Name: "Acme GmbH"})
	s = classification.Transition(s, classification.SetTaxID{Value: taxID})
	return s
}

func TestNewState_DefaultsToConsumer(t *testing.T) {
	s := classification.NewState()

	assert.Equal(t, classification.Consumer, s.BuyerType)
	assert.Equal(t, classification.Unvalidated, s.Validation)

	complete, reason := classification.Complete(s)
	assert.True(t, complete)
	assert.Equal(t, classification.ReasonNone, reason)
}

func TestTransition_SetTaxIDResetsValidation(t *testing.T) {
	s := businessState("DE123456789")
	s = classification.Transition(s, classification.ValidationStarted{Seq: s.Seq})
	s = classification.Transition(s, classification.ValidationSucceeded{
		Seq:     s.Seq,
		Payload: &registry.CheckResult{VatNumber: "DE123456789", ChecksumValid: true},
	})
	assert.Equal(t, classification.Valid, s.Validation)

	prevSeq := s.Seq
	s = classification.Transition(s, classification.SetTaxID{Value: "DE987654321"})

	assert.Equal(t, classification.Unvalidated, s.Validation)
	assert.Nil(t, s.Payload)
	assert.Empty(t, s.InvalidReason)
	assert.Equal(t, prevSeq+1, s.Seq)
}

func TestTransition_SetTaxIDSameValueIsNoop(t *testing.T) {
	s := businessState("DE123456789")
	prev := s

	s = classification.Transition(s, classification.SetTaxID{Value: "DE123456789"})

	assert.Equal(t, prev, s)
}

func TestTransition_CompanyNameLengthCapped(t *testing.T) {
	s := businessState("DE123456789")

	tooLong := make([]byte, classification.MaxCompanyNameLength+1)
	for i := range tooLong {
		tooLong[i] = 'x'
	}
	next := classification.Transition(s, classification.SetCompanyName{Name: string(tooLong)})

	assert.Equal(t, "Acme GmbH", next.CompanyName)
}

func TestTransition_ConsumerSwitchClearsBusinessData(t *testing.T) {
	s := businessState("DE123456789")
	s = classification.Transition(s, classification.ValidationStarted{Seq: s.Seq})
	inflightSeq := s.Seq

	s = classification.Transition(s, classification.SetBuyerType{Type: classification.Consumer})

	assert.Equal(t, classification.Consumer, s.BuyerType)
	assert.Empty(t, s.CompanyName)
	assert.Empty(t, s.TaxID)
	assert.Equal(t, classification.Unvalidated, s.Validation)

	// A reply for the abandoned identifier lands after the switch. It must
	// not resurrect business state.
	s = classification.Transition(s, classification.ValidationSucceeded{
		Seq:     inflightSeq,
		Payload: &registry.CheckResult{VatNumber: "DE123456789", ChecksumValid: true},
	})
	assert.Equal(t, classification.Unvalidated, s.Validation)
	assert.Nil(t, s.Payload)

	complete, reason := classification.Complete(s)
	assert.True(t, complete)
	assert.Equal(t, classification.ReasonNone, reason)
}

func TestTransition_BusinessReentryKeepsPriorFields(t *testing.T) {
	s := businessState("DE123456789")
	s = classification.Transition(s, classification.ValidationStarted{Seq: s.Seq})
	s = classification.Transition(s, classification.ValidationSucceeded{
		Seq:     s.Seq,
		Payload: &registry.CheckResult{VatNumber: "DE123456789", ChecksumValid: true},
	})

	// Toggle away and back. The consumer switch clears everything; the
	// business switch itself never invents data.
	s = classification.Transition(s, classification.SetBuyerType{Type: classification.Consumer})
	s = classification.Transition(s, classification.SetBuyerType{Type: classification.Business})

	assert.Equal(t, classification.Business, s.BuyerType)
	assert.Empty(t, s.TaxID)
	assert.Equal(t, classification.Unvalidated, s.Validation)
}

func TestTransition_ConsumerChoiceRecorded(t *testing.T) {
	s := classification.NewState()
	assert.False(t, s.ConsumerChosen, "the consumer default is not a choice")

	// Choosing consumer on a fresh session changes nothing else, but the
	// choice itself must stick.
	s = classification.Transition(s, classification.SetBuyerType{Type: classification.Consumer})
	assert.True(t, s.ConsumerChosen)

	s = classification.Transition(s, classification.SetBuyerType{Type: classification.Business})
	assert.False(t, s.ConsumerChosen)

	s = classification.Transition(s, classification.SetBuyerType{Type: classification.Consumer})
	assert.True(t, s.ConsumerChosen)

	s = classification.SeedValidated(s, "DE123456789", nil)
	assert.False(t, s.ConsumerChosen)
}

func TestTransition_StaleValidationEventsDropped(t *testing.T) {
	s := businessState("DE123456789")
	s = classification.Transition(s, classification.ValidationStarted{Seq: s.Seq})
	staleSeq := s.Seq

	// The buyer edits the identifier while the first check is in flight.
	s = classification.Transition(s, classification.SetTaxID{Value: "FR12345678901"})

	s = classification.Transition(s, classification.ValidationSucceeded{
		Seq:     staleSeq,
		Payload: &registry.CheckResult{VatNumber: "DE123456789", ChecksumValid: true},
	})
	assert.Equal(t, classification.Unvalidated, s.Validation, "stale success must not apply")

	s = classification.Transition(s, classification.ValidationFailed{Seq: staleSeq, Reason: "not registered"})
	assert.Equal(t, classification.Unvalidated, s.Validation, "stale failure must not apply")
	assert.Equal(t, "FR12345678901", s.TaxID)
}

func TestTransition_ValidationStartedRequiresTaxID(t *testing.T) {
	s := classification.NewState()
	s = classification.Transition(s, classification.SetBuyerType{Type: classification.Business})

	s = classification.Transition(s, classification.ValidationStarted{Seq: s.Seq})

	assert.Equal(t, classification.Unvalidated, s.Validation)
}

func TestTransition_ValidationFailedRecordsReason(t *testing.T) {
	s := businessState("DE123456789")
	s = classification.Transition(s, classification.ValidationStarted{Seq: s.Seq})

	s = classification.Transition(s, classification.ValidationFailed{Seq: s.Seq, Reason: "checksum failed"})

	assert.Equal(t, classification.Invalid, s.Validation)
	assert.Equal(t, "checksum failed", s.InvalidReason)
	assert.Nil(t, s.Payload)
}

func TestSeedValidated(t *testing.T) {
	s := classification.NewState()
	payload := &registry.CheckResult{VatNumber: "DE123456789", CountryCode: "DE", ChecksumValid: true}

	prevSeq := s.Seq
	s = classification.SeedValidated(s, "DE123456789", payload)

	assert.Equal(t, classification.Business, s.BuyerType)
	assert.Equal(t, "DE123456789", s.TaxID)
	assert.Equal(t, classification.Valid, s.Validation)
	assert.Same(t, payload, s.Payload)
	assert.Equal(t, prevSeq+1, s.Seq)
}

func TestComplete(t *testing.T) {
	valid := businessState("DE123456789")
	valid = classification.Transition(valid, classification.ValidationStarted{Seq: valid.Seq})
	valid = classification.Transition(valid, classification.ValidationSucceeded{
		Seq:     valid.Seq,
		Payload: &registry.CheckResult{VatNumber: "DE123456789", ChecksumValid: true},
	})

	pending := businessState("DE123456789")
	pending = classification.Transition(pending, classification.ValidationStarted{Seq: pending.Seq})

	invalid := businessState("DE123456789")
	invalid = classification.Transition(invalid, classification.ValidationStarted{Seq: invalid.Seq})
	invalid = classification.Transition(invalid, classification.ValidationFailed{Seq: invalid.Seq, Reason: "not registered"})

	noName := classification.Transition(valid, classification.SetCompanyName{Name: ""})

	tests := []struct {
		name       string
		state      classification.State
		complete   bool
		wantReason classification.CompletionReason
	}{
		{"consumer always completes", classification.NewState(), true, classification.ReasonNone},
		{"validated business completes", valid, true, classification.ReasonNone},
		{"business without company name blocked", noName, false, classification.ReasonCompanyNameMissing},
		{"unvalidated identifier blocked", businessState("DE123456789"), false, classification.ReasonTaxIDUnvalidated},
		{"in-flight validation blocked", pending, false, classification.ReasonValidationPending},
		{"invalid identifier blocked", invalid, false, classification.ReasonTaxIDInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			complete, reason := classification.Complete(tt.state)
			assert.Equal(t, tt.complete, complete)
			assert.Equal(t, tt.wantReason, reason)
		})
	}
}
