package strategy

import (
	"fmt"

	"github.com/osteele/liquid"

	"rfmpulse/pkg/contracts/domain"
)

var templates = map[domain.StrategyKind]string{
	domain.StrategyRetention: "RETENTION & EXCLUSIVE UPSELLING: Offer Exclusive Bundle {{ product }}. " +
		"Target {{ city }} (Age {{ age }}). Focus on loyalty retention.",
	domain.StrategyCrossSell: "CROSS-SELLING: Offer bundle with {{ product }} to customers in {{ city }}. " +
		"Target {{ age }} audience to raise frequency & value.",
	domain.StrategyActivation: "ACTIVATION: Drive repeat purchase for {{ product }}. " +
		"Use testimonial ads in {{ city }} (Target {{ age }}).",
	domain.StrategyWinBack: "WIN-BACK (EFFICIENT): Offer time-limited hard discount on {{ product }}. " +
		"Focus only on {{ city }} to conserve budget; halt if no lift.",
	domain.StrategyGeneral: "GENERAL: Optimize ads for {{ product }} in {{ city }}.",
}

// StrategyFor maps a segment to its strategy family
func StrategyFor(segment domain.Segment) domain.StrategyKind {
	switch segment {
	case domain.SegmentChampion, domain.SegmentLoyalCustomer:
		return domain.StrategyRetention
	case domain.SegmentPotentialLoyalist:
		return domain.StrategyCrossSell
	case domain.SegmentNewCustomer:
		return domain.StrategyActivation
	case domain.SegmentHibernating:
		return domain.StrategyWinBack
	default:
		return domain.StrategyGeneral
	}
}

// Renderer fills the strategy templates
type Renderer struct {
	parsed map[domain.StrategyKind]*liquid.Template
}

// NewRenderer parses every strategy template
func NewRenderer() (*Renderer, error) {
	engine := liquid.NewEngine()
	r := &Renderer{parsed: make(map[domain.StrategyKind]*liquid.Template, len(templates))}
	for kind, src := range templates {
		tpl, err := engine.ParseString(src)
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", kind, err)
		}
		r.parsed[kind] = tpl
	}
	return r, nil
}

// Render fills the template of kind. Unknown kinds use the general template.
func (r *Renderer) Render(kind domain.StrategyKind, product, city, age string) (string, error) {
	tpl, ok := r.parsed[kind]
	if !ok {
		tpl = r.parsed[domain.StrategyGeneral]
	}

	out, err := tpl.RenderString(liquid.Bindings{
		"product": product,
		"city":    city,
		"age":     age,
	})
	if err != nil {
		return "", fmt.Errorf("render %s strategy: %w", kind, err)
	}
	return out, nil
}
