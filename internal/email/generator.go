package email

import (
	"fmt"
	"log"
)

// EmailContent is a rendered collections message.
type EmailContent struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Generator renders segment-specific collections emails. It is a pure
// function of its inputs: no external calls, no randomness, and identical
// inputs always produce byte-identical output.
type Generator struct {
	templates *TemplateService
	variants  map[int]SegmentTemplate
	fallback  SegmentTemplate
}

// NewGenerator creates a generator with the built-in segment variants.
func NewGenerator() *Generator {
	variants := make(map[int]SegmentTemplate, len(segmentTemplates))
	for _, t := range segmentTemplates {
		variants[t.Code] = t
	}
	return &Generator{
		templates: NewTemplateService(),
		variants:  variants,
		fallback:  genericTemplate,
	}
}

// Render produces the message for a segment code. An unrecognized code falls
// back to the generic variant rather than failing the request; a zero or
// negative amount renders without special-casing.
func (g *Generator) Render(segmentCode int, customerID string, amountDue float64, dueDate string, p Personalization) EmailContent {
	tmpl, ok := g.variants[segmentCode]
	if !ok {
		log.Printf("EmailGenerator: no variant for segment code %d, using generic template", segmentCode)
		tmpl = g.fallback
	}

	ctx := buildContext(customerID, amountDue, dueDate, p)

	subject, err := g.templates.Render(cacheKey(tmpl, "subject"), tmpl.Subject, ctx)
	if err != nil {
		// Render errors mean a broken built-in template; the raw pattern is
		// returned by the template service and still carries the customer id.
		log.Printf("EmailGenerator: subject render failed for %s: %v", tmpl.Name, err)
	}
	body, err := g.templates.Render(cacheKey(tmpl, "body"), tmpl.Body, ctx)
	if err != nil {
		log.Printf("EmailGenerator: body render failed for %s: %v", tmpl.Name, err)
	}

	return EmailContent{Subject: subject, Body: body}
}

func cacheKey(tmpl SegmentTemplate, part string) string {
	return fmt.Sprintf("segment:%d:%s", tmpl.Code, part)
}
