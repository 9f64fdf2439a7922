// Package mapper expands control selections into per-framework findings for
// compliance reporting. The mapper is a pure fan-out: vendor guidance is
// resolved by the caller before invoking it.
package mapper

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/steph544/compliance-app-sub001/internal/core"
)

// Map emits one finding per (selection, framework reference) pair. A control
// with N framework references yields exactly N findings; zero references
// yield zero findings. A selection whose control id has no catalog entry is
// skipped with a warn-level diagnostic so catalog/rule drift stays visible.
func Map(selections []core.ControlSelection, controls map[string]core.Control) []core.FrameworkFinding {
	findings := make([]core.FrameworkFinding, 0, len(selections))

	for _, sel := range selections {
		control, ok := controls[sel.ControlID]
		if !ok {
			log.Warn().
				Str("control_id", sel.ControlID).
				Strs("rule_ids", sel.RuleIDs).
				Msg("selection references a control missing from the catalog, dropping")
			continue
		}

		finding := findingText(sel, control)
		for _, ref := range control.FrameworkRefs {
			findings = append(findings, core.FrameworkFinding{
				Finding:               finding,
				FrameworkRef:          ref,
				ControlID:             control.ControlID,
				ControlName:           control.Name,
				Designation:           sel.Designation,
				Evidence:              control.EvidenceArtifacts,
				Description:           control.Description,
				ImplementationSteps:   control.ImplementationSteps,
				ImplementationLevel:   control.ImplementationLevel,
				ControlType:           control.Type,
				ImplementationVendor:  control.ImplementationVendor,
				ImplementationService: control.ImplementationService,
			})
		}
	}

	return findings
}

func findingText(sel core.ControlSelection, control core.Control) string {
	if len(sel.Reasoning) > 0 && sel.Reasoning[0] != "" {
		return sel.Reasoning[0]
	}
	return fmt.Sprintf("Control required: %s", control.Name)
}

// ResolveVendorGuidance returns a copy of the catalog with each control's
// generic description, steps and service replaced by the guidance for the
// given vendor, where such guidance exists. Vendor selection is a request
// time policy decision, so this runs on the caller side of Map.
func ResolveVendorGuidance(controls map[string]core.Control, vendor string) map[string]core.Control {
	if vendor == "" {
		return controls
	}

	resolved := make(map[string]core.Control, len(controls))
	for id, control := range controls {
		if guidance, ok := control.VendorGuidance[vendor]; ok {
			control.ImplementationVendor = vendor
			control.ImplementationService = guidance.Service
			if guidance.Description != "" {
				control.Description = guidance.Description
			}
			if guidance.Steps != "" {
				control.ImplementationSteps = guidance.Steps
			}
		}
		resolved[id] = control
	}
	return resolved
}
