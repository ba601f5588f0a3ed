package graph

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/keyframe/pkg/domain"
)

// Overlay contains runtime data to visualize on the graph.
type Overlay struct {
	Layers []domain.LayerSnapshot
}

// GenerateMermaid produces a Mermaid flowchart with one subgraph per layer.
// It applies semantic styling:
// - Default state: ((Circle))
// - Looping state: ([Stadium])
// - Other states: [Rectangle]
// - Any State: {{Hexagon}}, its transitions dotted
// Transition labels list the conditions and the exit time.
// If overlay is given, current and next states are highlighted.
func GenerateMermaid(def *domain.AnimatorData, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for i, layer := range def.Layers {
		title := layer.Name
		if title == "" {
			title = "layer " + strconv.Itoa(i)
		}
		fmt.Fprintf(&sb, "    subgraph L%d[\"%s\"]\n", i, escape(title))

		for _, s := range layer.States {
			opener, closer := "[", "]"
			switch {
			case s.Name == layer.DefaultState:
				opener, closer = "((", "))"
			case s.Loop:
				opener, closer = "([", "])"
			}
			fmt.Fprintf(&sb, "        %s%s\"%s\"%s\n", nodeID(i, s.Name), opener, escape(s.Name), closer)
		}

		for _, s := range layer.States {
			for _, t := range s.Transitions {
				fmt.Fprintf(&sb, "        %s %s %s\n", nodeID(i, s.Name), arrow(t, false), nodeID(i, t.ToState))
			}
		}

		if len(layer.AnyStateTransitions) > 0 {
			anyID := fmt.Sprintf("L%d__any", i)
			fmt.Fprintf(&sb, "        %s{{\"Any State\"}}\n", anyID)
			for _, t := range layer.AnyStateTransitions {
				fmt.Fprintf(&sb, "        %s %s %s\n", anyID, arrow(t, true), nodeID(i, t.ToState))
			}
		}
		sb.WriteString("    end\n")
	}

	if overlay != nil && len(overlay.Layers) > 0 {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for contrast regardless of theme.
		sb.WriteString("    classDef next fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		for _, l := range overlay.Layers {
			if l.Current != "" {
				fmt.Fprintf(&sb, "    class %s current;\n", nodeID(l.Layer, l.Current))
			}
			if l.Next != "" {
				fmt.Fprintf(&sb, "    class %s next;\n", nodeID(l.Layer, l.Next))
			}
		}
	}

	return sb.String()
}

func arrow(t domain.TransitionData, dotted bool) string {
	label := Label(t)
	switch {
	case label == "" && dotted:
		return "-.->"
	case label == "":
		return "-->"
	case dotted:
		return fmt.Sprintf("-. \"%s\" .->", escape(label))
	}
	return fmt.Sprintf("-- \"%s\" -->", escape(label))
}

// Label renders a transition's guard, e.g. "run && speed > 0.5 && exit 0.9".
func Label(t domain.TransitionData) string {
	var parts []string
	for _, c := range t.Conditions {
		parts = append(parts, condition(c))
	}
	if t.HasExitTime {
		parts = append(parts, "exit "+strconv.FormatFloat(t.ExitTime, 'g', -1, 64))
	}
	return strings.Join(parts, " && ")
}

func condition(c domain.ConditionData) string {
	v := strconv.FormatFloat(c.Threshold, 'g', -1, 64)
	switch c.Mode {
	case domain.ConditionIf:
		return c.Parameter
	case domain.ConditionIfNot:
		return "!" + c.Parameter
	case domain.ConditionGreater:
		return c.Parameter + " > " + v
	case domain.ConditionLess:
		return c.Parameter + " < " + v
	case domain.ConditionEquals:
		return c.Parameter + " == " + v
	case domain.ConditionNotEqual:
		return c.Parameter + " != " + v
	}
	return fmt.Sprintf("%s %s %s", c.Parameter, c.Mode, v)
}

func nodeID(layer int, state string) string {
	return fmt.Sprintf("L%d_%s", layer, sanitizeMermaidID(state))
}

func escape(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
