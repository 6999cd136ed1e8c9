// Package email renders segment-specific collections messages using the
// Liquid template language for personalization.
package email

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"

	"github.com/osteele/liquid"
)

// TemplateService handles Liquid template rendering with caching. Parsed
// templates are cached by key; the segment variant set is small and fixed,
// so every template is parsed at most once per process.
type TemplateService struct {
	engine *liquid.Engine
	cache  sync.Map // map[string]*liquid.Template
}

// NewTemplateService creates a template service with the collections filters
// registered.
func NewTemplateService() *TemplateService {
	ts := &TemplateService{
		engine: liquid.NewEngine(),
	}
	ts.registerFilters()
	return ts
}

// registerFilters adds the filters the segment templates rely on.
func (ts *TemplateService) registerFilters() {
	// Fallback value: {{ payment_method | default: "your usual payment method" }}
	ts.engine.RegisterFilter("default", func(value interface{}, defaultVal string) interface{} {
		if value == nil {
			return defaultVal
		}
		strVal := fmt.Sprintf("%v", value)
		if strVal == "" || strVal == "<nil>" {
			return defaultVal
		}
		return value
	})

	// Currency formatting: {{ amount_due | currency }} -> $120.00
	ts.engine.RegisterFilter("currency", func(value interface{}) string {
		var f float64
		switch v := value.(type) {
		case float64:
			f = v
		case float32:
			f = float64(v)
		case int:
			f = float64(v)
		case int64:
			f = float64(v)
		case string:
			parsed, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return v
			}
			f = parsed
		default:
			return fmt.Sprintf("%v", value)
		}
		return fmt.Sprintf("$%.2f", f)
	})

	// Capitalize first letter: {{ segment | capitalize }}
	ts.engine.RegisterFilter("capitalize", func(s string) string {
		if len(s) == 0 {
			return s
		}
		return strings.ToUpper(string(s[0])) + strings.ToLower(s[1:])
	})

	// Tenure in months to a readable phrase: {{ tenure | tenure_phrase }}
	ts.engine.RegisterFilter("tenure_phrase", func(value interface{}) string {
		var months int
		switch v := value.(type) {
		case int:
			months = v
		case int64:
			months = int(v)
		case float64:
			months = int(v)
		case string:
			parsed, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return v
			}
			months = int(parsed)
		default:
			return fmt.Sprintf("%v", value)
		}

		switch {
		case months <= 0:
			return "a new customer"
		case months == 1:
			return "1 month"
		case months < 24:
			return fmt.Sprintf("%d months", months)
		default:
			years := months / 12
			if years == 1 {
				return "1 year"
			}
			return fmt.Sprintf("%d years", years)
		}
	})
}

// Render processes a template with the given context, caching the parsed
// template under cacheKey for repeated renders.
func (ts *TemplateService) Render(cacheKey string, templateStr string, ctx map[string]interface{}) (string, error) {
	if cacheKey != "" {
		if cached, ok := ts.cache.Load(cacheKey); ok {
			tpl := cached.(*liquid.Template)
			return tpl.RenderString(ctx)
		}
	}

	tpl, err := ts.engine.ParseString(templateStr)
	if err != nil {
		log.Printf("TemplateService: parse error for %q: %v", cacheKey, err)
		return templateStr, err
	}

	if cacheKey != "" {
		ts.cache.Store(cacheKey, tpl)
	}

	result, err := tpl.RenderString(ctx)
	if err != nil {
		log.Printf("TemplateService: render error for %q: %v", cacheKey, err)
		return templateStr, err
	}
	return result, nil
}
