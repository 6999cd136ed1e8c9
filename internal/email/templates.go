package email

// SegmentTemplate is one enumerated message variant. Variants are tagged by
// class code; wording and tone differ per segment, the slot set does not.
// Adding a segment means adding a variant here, nothing else.
type SegmentTemplate struct {
	Code    int
	Name    string
	Subject string
	Body    string
}

// Slot names available to every variant:
//
//	customer_id, amount_due, due_date, salutation, tenure, tenure_known,
//	internet_service, payment_method, monthly_charges, monthly_charges_known
//
// Personalization slots are always populated; absent customer attributes
// arrive as neutral placeholders, so templates never need missing-value
// guards beyond the *_known booleans.
var segmentTemplates = []SegmentTemplate{
	{
		Code:    0,
		Name:    "critical_defaulter",
		Subject: "Urgent: immediate action required on account {{ customer_id }}",
		Body: `Dear {{ salutation }},

Our records show a seriously overdue balance of {{ amount_due | currency }} on account {{ customer_id }}. Payment must reach us by {{ due_date }} to avoid suspension of your {{ internet_service }} service and referral of the balance for collection.

Please settle the full amount today using {{ payment_method }}. If you have already paid, contact our billing team immediately so we can reconcile your account.

Billing & Collections Team`,
	},
	{
		Code:    1,
		Name:    "habitual_defaulter",
		Subject: "Payment overdue on account {{ customer_id }} - please act by {{ due_date }}",
		Body: `Dear {{ salutation }},

This is a reminder that {{ amount_due | currency }} is due on account {{ customer_id }} by {{ due_date }}. We have noticed payments on this account are frequently delayed, and repeated late payment can affect your {{ internet_service }} service.

Setting up automatic payment via {{ payment_method }} takes a few minutes and avoids reminders like this one. Your regular monthly charge is {{ monthly_charges | currency }}.

Billing Team`,
	},
	{
		Code:    2,
		Name:    "occasional_defaulter",
		Subject: "Friendly reminder: {{ amount_due | currency }} due {{ due_date }} for {{ customer_id }}",
		Body: `Dear {{ salutation }},

Just a friendly reminder that a payment of {{ amount_due | currency }} for account {{ customer_id }} is due on {{ due_date }}.{% if tenure_known %} You have been with us for {{ tenure | tenure_phrase }}, and your payments are usually right on time.{% endif %}

You can pay as usual with {{ payment_method }}. If the payment is already on its way, please disregard this note.

Thank you for being with us,
Billing Team`,
	},
	{
		Code:    3,
		Name:    "timely_payer",
		Subject: "Your upcoming payment for account {{ customer_id }}",
		Body: `Dear {{ salutation }},

A quick heads-up: your next payment of {{ amount_due | currency }} for account {{ customer_id }} is scheduled for {{ due_date }}. No action is needed if you pay via {{ payment_method }} as usual.

{% if tenure_known %}Thank you for {{ tenure | tenure_phrase }} of on-time payments - we appreciate it.{% else %}Thank you for your consistently on-time payments.{% endif %}

Billing Team`,
	},
}

// genericTemplate is the segment-agnostic fallback used when the class code
// has no variant. Degraded personalization is preferred over refusing
// service.
var genericTemplate = SegmentTemplate{
	Code:    -1,
	Name:    "generic",
	Subject: "Payment reminder for account {{ customer_id }}",
	Body: `Dear {{ salutation }},

This is a reminder regarding pending dues of {{ amount_due | currency }} for account {{ customer_id }}. Please clear the outstanding balance by {{ due_date }}.

Thank you,
Billing Team`,
}
