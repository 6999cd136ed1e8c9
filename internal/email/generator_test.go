package email

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/payment-assist/internal/records"
)

func fullPersonalization() Personalization {
	return Personalization{
		Gender:          Field{Known: true, Value: records.StringAttr("Female")},
		Tenure:          Field{Known: true, Value: records.NumberAttr(30)},
		InternetService: Field{Known: true, Value: records.StringAttr("Fiber optic")},
		PaymentMethod:   Field{Known: true, Value: records.StringAttr("Electronic check")},
		MonthlyCharges:  Field{Known: true, Value: records.NumberAttr(89.9)},
	}
}

func TestRenderOccasionalDefaulter(t *testing.T) {
	g := NewGenerator()

	out := g.Render(2, "E00789", 120.00, "2025-02-01", fullPersonalization())

	require.NotEmpty(t, out.Subject)
	require.NotEmpty(t, out.Body)
	assert.Contains(t, out.Body, "E00789")
	assert.Contains(t, out.Body, "$120.00")
	assert.Contains(t, out.Body, "2025-02-01")
	assert.Contains(t, out.Body, "Madam")
	assert.Contains(t, out.Body, "Electronic check")
	// 30 months crosses the two year mark for the tenure phrase.
	assert.Contains(t, out.Body, "2 years")
}

func TestRenderDeterministic(t *testing.T) {
	g := NewGenerator()
	p := fullPersonalization()

	first := g.Render(1, "C100", 55.5, "2025-03-15", p)
	for i := 0; i < 5; i++ {
		again := g.Render(1, "C100", 55.5, "2025-03-15", p)
		assert.Equal(t, first, again)
	}
}

func TestRenderEachSegmentVariantDiffers(t *testing.T) {
	g := NewGenerator()
	p := fullPersonalization()

	seen := make(map[string]int)
	for code := 0; code <= 3; code++ {
		out := g.Render(code, "C1", 10, "2025-01-01", p)
		require.NotEmpty(t, out.Subject, "code %d", code)
		require.NotEmpty(t, out.Body, "code %d", code)
		if prev, dup := seen[out.Body]; dup {
			t.Errorf("codes %d and %d rendered identical bodies", prev, code)
		}
		seen[out.Body] = code
	}
}

func TestRenderUnknownCodeFallsBackToGeneric(t *testing.T) {
	g := NewGenerator()

	out := g.Render(42, "C777", 33.0, "2025-04-01", Personalization{})

	assert.Contains(t, out.Subject, "C777")
	assert.Contains(t, out.Body, "$33.00")
	assert.Contains(t, out.Body, "2025-04-01")
}

func TestRenderNeutralPlaceholders(t *testing.T) {
	g := NewGenerator()

	out := g.Render(2, "C555", 60.0, "2025-05-01", Personalization{})

	assert.Contains(t, out.Body, NeutralPlaceholder)
	assert.Contains(t, out.Body, "your usual payment method")
	// No tenure means the tenure sentence is omitted entirely.
	assert.NotContains(t, out.Body, "You have been with us")
}

func TestRenderZeroAndNegativeAmounts(t *testing.T) {
	g := NewGenerator()
	p := fullPersonalization()

	out := g.Render(3, "C1", 0, "2025-06-01", p)
	assert.Contains(t, out.Body, "$0.00")

	out = g.Render(3, "C1", -25.0, "2025-06-01", p)
	assert.Contains(t, out.Body, "$-25.00")
}

func TestPersonalizationFrom(t *testing.T) {
	rec := &records.CustomerRecord{
		CustomerID: "C9",
		Attributes: map[string]records.Attr{
			"Gender":          records.StringAttr("Male"),
			"tenure":          records.NumberAttr(12),
			"Payment Method":  records.StringAttr("Mailed check"),
			"Monthly Charges": records.NumberAttr(45.3),
		},
	}

	p := PersonalizationFrom(rec)

	assert.True(t, p.Gender.Known)
	assert.Equal(t, "Male", p.Gender.Value.String())
	assert.True(t, p.Tenure.Known)
	assert.True(t, p.PaymentMethod.Known)
	assert.True(t, p.MonthlyCharges.Known)
	assert.False(t, p.InternetService.Known)
}

func TestPersonalizationFromEmptyValues(t *testing.T) {
	rec := &records.CustomerRecord{
		CustomerID: "C9",
		Attributes: map[string]records.Attr{
			"gender": records.StringAttr("  "),
		},
	}

	p := PersonalizationFrom(rec)
	assert.False(t, p.Gender.Known)
}

func TestSalutation(t *testing.T) {
	tests := []struct {
		name   string
		gender Field
		want   string
	}{
		{"male", Field{Known: true, Value: records.StringAttr("Male")}, "Sir"},
		{"female lowercase", Field{Known: true, Value: records.StringAttr("female")}, "Madam"},
		{"single letter", Field{Known: true, Value: records.StringAttr("F")}, "Madam"},
		{"other", Field{Known: true, Value: records.StringAttr("nonbinary")}, NeutralPlaceholder},
		{"unknown", Field{}, NeutralPlaceholder},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, salutation(tt.gender))
		})
	}
}

func TestSubjectsNeverContainUnrenderedSlots(t *testing.T) {
	g := NewGenerator()
	p := fullPersonalization()

	for code := -1; code <= 4; code++ {
		out := g.Render(code, "C1", 10, "2025-01-01", p)
		if strings.Contains(out.Subject, "{{") || strings.Contains(out.Body, "{{") {
			t.Errorf("code %d left unrendered slots: %q / %q", code, out.Subject, out.Body)
		}
	}
}
