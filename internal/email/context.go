package email

import (
	"strings"

	"github.com/ignite/payment-assist/internal/records"
)

// NeutralPlaceholder substitutes for personalization fields the customer
// record does not carry. Personalization is best-effort, never required.
const NeutralPlaceholder = "valued customer"

// Personalization carries the optional customer attributes interpolated into
// message text. Present/absent is explicit: a zero Field means the record
// had no usable value and the neutral placeholder applies.
type Personalization struct {
	Gender          Field
	Tenure          Field
	InternetService Field
	PaymentMethod   Field
	MonthlyCharges  Field
}

// Field is an optional attribute value. Known distinguishes "present with
// value" from "absent", so placeholder fallback is a branch, not an accident
// of missing-key handling.
type Field struct {
	Known bool
	Value records.Attr
}

func fieldFrom(rec *records.CustomerRecord, name string) Field {
	attr, ok := rec.Attr(name)
	if !ok || attr.Empty() {
		return Field{}
	}
	return Field{Known: true, Value: attr}
}

// PersonalizationFrom extracts the personalization fields from a customer
// record, tolerating absent or empty attributes.
func PersonalizationFrom(rec *records.CustomerRecord) Personalization {
	return Personalization{
		Gender:          fieldFrom(rec, "gender"),
		Tenure:          fieldFrom(rec, "Tenure"),
		InternetService: fieldFrom(rec, "Internet Service"),
		PaymentMethod:   fieldFrom(rec, "Payment Method"),
		MonthlyCharges:  fieldFrom(rec, "Monthly Charges"),
	}
}

// buildContext assembles the Liquid render context. Every slot is always
// present; unknown personalization fields carry their neutral substitute.
func buildContext(customerID string, amountDue float64, dueDate string, p Personalization) map[string]interface{} {
	ctx := map[string]interface{}{
		"customer_id": customerID,
		"amount_due":  amountDue,
		"due_date":    dueDate,
		"salutation":  salutation(p.Gender),
	}

	if p.Tenure.Known {
		ctx["tenure"] = p.Tenure.Value.String()
		ctx["tenure_known"] = true
	} else {
		ctx["tenure"] = ""
		ctx["tenure_known"] = false
	}

	if p.InternetService.Known {
		ctx["internet_service"] = p.InternetService.Value.String()
	} else {
		ctx["internet_service"] = "subscribed"
	}

	if p.PaymentMethod.Known {
		ctx["payment_method"] = p.PaymentMethod.Value.String()
	} else {
		ctx["payment_method"] = "your usual payment method"
	}

	if p.MonthlyCharges.Known {
		ctx["monthly_charges"] = p.MonthlyCharges.Value.String()
		ctx["monthly_charges_known"] = true
	} else {
		ctx["monthly_charges"] = ""
		ctx["monthly_charges_known"] = false
	}

	return ctx
}

// salutation derives the greeting from the gender field. Anything other than
// an explicit known value falls back to the neutral placeholder.
func salutation(gender Field) string {
	if !gender.Known {
		return NeutralPlaceholder
	}
	switch strings.ToLower(gender.Value.String()) {
	case "male", "m":
		return "Sir"
	case "female", "f":
		return "Madam"
	default:
		return NeutralPlaceholder
	}
}
