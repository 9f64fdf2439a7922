package validation

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/steph544/compliance-app-sub001/internal/core"
)

// ValidateRules checks catalog rules for structural problems. Rules that
// reference a control id missing from the catalog are allowed (the mapper
// drops those selections at mapping time) but logged at warn level, since
// they usually mean a rule outlived a retired control.
func ValidateRules(rules []core.Rule, knownControls map[string]struct{}) ([]core.Rule, error) {
	seenIDs := make(map[string]struct{})
	var validRules []core.Rule

	for i, rule := range rules {
		if rule.RuleID == "" {
			return nil, fmt.Errorf("rule #%d missing rule_id", i)
		}
		if _, exists := seenIDs[rule.RuleID]; exists {
			return nil, fmt.Errorf("rule id '%s' is not unique", rule.RuleID)
		}
		seenIDs[rule.RuleID] = struct{}{}

		if rule.Name == "" {
			return nil, fmt.Errorf("rule '%s' missing name", rule.RuleID)
		}
		if len(rule.Actions.SelectControls) == 0 {
			return nil, fmt.Errorf("rule '%s' selects no controls", rule.RuleID)
		}
		designation, err := core.ParseDesignation(string(rule.Actions.Designation))
		if err != nil {
			return nil, fmt.Errorf("rule '%s': %w", rule.RuleID, err)
		}
		rule.Actions.Designation = designation
		if err := rule.Conditions.Validate(); err != nil {
			return nil, fmt.Errorf("validating conditions for rule '%s': %w", rule.RuleID, err)
		}

		for _, controlID := range rule.Actions.SelectControls {
			if _, known := knownControls[controlID]; !known {
				log.Warn().
					Str("rule_id", rule.RuleID).
					Str("control_id", controlID).
					Msg("rule references a control missing from the catalog")
			}
		}

		validRules = append(validRules, rule)
	}

	return validRules, nil
}

// ValidateControls checks catalog controls and indexes them by control id.
func ValidateControls(controls []core.Control) (map[string]core.Control, error) {
	indexed := make(map[string]core.Control, len(controls))

	for i, control := range controls {
		if control.ControlID == "" {
			return nil, fmt.Errorf("control #%d missing control_id", i)
		}
		if _, exists := indexed[control.ControlID]; exists {
			return nil, fmt.Errorf("control id '%s' is not unique", control.ControlID)
		}
		if control.Name == "" {
			return nil, fmt.Errorf("control '%s' missing name", control.ControlID)
		}
		indexed[control.ControlID] = control
	}

	return indexed, nil
}
