package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/keyframe/internal/presentation/graph"
	"github.com/aretw0/keyframe/pkg/domain"
)

// Report describes an animator definition as Markdown: its parameters, a
// table of states per layer, and any validation findings.
func Report(def *domain.AnimatorData, errs, warnings []error) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", def.Name)

	switch {
	case len(errs) > 0:
		fmt.Fprintf(&sb, "**Invalid**: %d error(s), %d warning(s).\n\n", len(errs), len(warnings))
	case len(warnings) > 0:
		fmt.Fprintf(&sb, "**Valid** with %d warning(s).\n\n", len(warnings))
	default:
		sb.WriteString("**Valid**.\n\n")
	}

	if len(def.Parameters) > 0 {
		sb.WriteString("## Parameters\n\n| Name | Type | Default |\n| --- | --- | --- |\n")
		for _, p := range def.Parameters {
			fmt.Fprintf(&sb, "| %s | %s | %s |\n", p.Name, p.Type, defaultValue(p))
		}
		sb.WriteString("\n")
	}

	for i, layer := range def.Layers {
		title := layer.Name
		if title == "" {
			title = "Layer " + strconv.Itoa(i)
		}
		fmt.Fprintf(&sb, "## %s\n\nDefault state: `%s`\n\n", title, layer.DefaultState)
		sb.WriteString("| State | Length | Loop | Speed | Transitions |\n| --- | --- | --- | --- | --- |\n")
		for _, s := range layer.States {
			speed := strconv.FormatFloat(s.Speed, 'g', -1, 64)
			if s.SpeedParameter != "" {
				speed += " × " + s.SpeedParameter
			}
			fmt.Fprintf(&sb, "| %s | %g | %t | %s | %s |\n", s.Name, s.Length, s.Loop, speed, transitions(s.Transitions))
		}
		if len(layer.AnyStateTransitions) > 0 {
			fmt.Fprintf(&sb, "\nAny State: %s\n", transitions(layer.AnyStateTransitions))
		}
		sb.WriteString("\n")
	}

	findings(&sb, "Errors", errs)
	findings(&sb, "Warnings", warnings)
	return sb.String()
}

func findings(sb *strings.Builder, title string, list []error) {
	if len(list) == 0 {
		return
	}
	fmt.Fprintf(sb, "## %s\n\n", title)
	for _, e := range list {
		fmt.Fprintf(sb, "- %s\n", e)
	}
	sb.WriteString("\n")
}

func transitions(ts []domain.TransitionData) string {
	if len(ts) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(ts))
	for _, t := range ts {
		label := graph.Label(t)
		if label == "" {
			parts = append(parts, "→ "+t.ToState)
			continue
		}
		parts = append(parts, fmt.Sprintf("→ %s (%s)", t.ToState, label))
	}
	return strings.Join(parts, ", ")
}

func defaultValue(p domain.ParameterData) string {
	switch p.Type {
	case domain.ParameterInt:
		return strconv.Itoa(p.DefaultInt)
	case domain.ParameterFloat:
		return strconv.FormatFloat(p.DefaultFloat, 'g', -1, 64)
	}
	return strconv.FormatBool(p.DefaultBool)
}
