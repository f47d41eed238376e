// Package form holds the declarative schemas of the dashboard forms and
// turns raw posted values into typed fields or field-scoped error messages.
package form

import (
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/garyjia/invoice-dashboard/internal/domain/entity"
	"github.com/garyjia/invoice-dashboard/pkg/utils"
)

// Field names as posted by the invoice form
const (
	FieldCustomerID = "customerId"
	FieldAmount     = "amount"
	FieldStatus     = "status"
)

// Messages shown next to invalid invoice fields
const (
	MsgSelectCustomer = "Please select a customer."
	MsgAmountPositive = "Please enter an amount greater than $0."
	MsgAmountTooLarge = "Please enter an amount no greater than $21,474,836.47."
	MsgSelectStatus   = "Please select an invoice status."
)

// FieldErrors maps a field name to its error messages
type FieldErrors map[string][]string

// Add appends a message for field
func (fe FieldErrors) Add(field, msg string) {
	fe[field] = append(fe[field], msg)
}

// State is what a form action hands back for re-display
type State struct {
	Errors  FieldErrors `json:"errors,omitempty"`
	Message string      `json:"message,omitempty"`
}

// InvoiceForm carries the raw invoice form values
type InvoiceForm struct {
	CustomerID string `form:"customerId" validate:"required,identifier"`
	Amount     string `form:"amount" validate:"positive_amount"`
	Status     string `form:"status" validate:"required,oneof=pending paid"`
}

// InvoiceFields are the validated, typed invoice values
type InvoiceFields struct {
	CustomerID  string
	AmountCents int64
	Status      string
}

var fieldMessages = map[string]string{
	FieldCustomerID: MsgSelectCustomer,
	FieldAmount:     MsgAmountPositive,
	FieldStatus:     MsgSelectStatus,
}

// Validator checks form schemas
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a form validator
func NewValidator() *Validator {
	return &Validator{validate: utils.NewValidator()}
}

// ValidateInvoice validates f. On success fields is non-nil; otherwise
// either the field errors or err is set. err is reserved for a validator
// failure unrelated to the posted values.
func (v *Validator) ValidateInvoice(f InvoiceForm) (*InvoiceFields, FieldErrors, error) {
	if err := v.validate.Struct(f); err != nil {
		fieldErrs, err := fieldErrorsFrom(err)
		return nil, fieldErrs, err
	}

	fieldErrs := FieldErrors{}
	// positive_amount already proved the string parses
	amount, _ := utils.ParseAmount(f.Amount)
	cents, ok := entity.ToMinorUnits(amount)
	switch {
	case !ok:
		fieldErrs.Add(FieldAmount, MsgAmountTooLarge)
		return nil, fieldErrs, nil
	case cents <= 0:
		fieldErrs.Add(FieldAmount, MsgAmountPositive)
		return nil, fieldErrs, nil
	}

	return &InvoiceFields{
		CustomerID:  f.CustomerID,
		AmountCents: cents,
		Status:      f.Status,
	}, nil, nil
}

// fieldErrorsFrom maps validator errors to one message per field
func fieldErrorsFrom(err error) (FieldErrors, error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, err
	}
	fieldErrs := FieldErrors{}
	for _, fe := range verrs {
		field := fe.Field()
		if len(fieldErrs[field]) > 0 {
			continue
		}
		fieldErrs.Add(field, fieldMessages[field])
	}
	return fieldErrs, nil
}
