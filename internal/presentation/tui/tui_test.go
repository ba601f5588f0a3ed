package tui_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/aretw0/keyframe/internal/presentation/tui"
	"github.com/aretw0/keyframe/pkg/dsl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReport(t *testing.T) {
	b := dsl.New("hero").Bool("run").Float("pace", 1.5)
	base := b.Layer("base")
	base.State("Idle").Length(1).Loop().To("Run").When("run")
	base.State("Run").Length(0.5).SpeedParameter("pace")
	base.Any("Idle").Unless("run")
	def := b.Definition()

	md := tui.Report(&def, nil, []error{errors.New("state Run is slow")})

	assert.Contains(t, md, "# hero\n")
	assert.Contains(t, md, "**Valid** with 1 warning(s).")
	assert.Contains(t, md, "| pace | float | 1.5 |")
	assert.Contains(t, md, "| run | bool | false |")
	assert.Contains(t, md, "## base\n\nDefault state: `Idle`")
	assert.Contains(t, md, "| Idle | 1 | true | 1 | → Run (run) |")
	assert.Contains(t, md, "| Run | 0.5 | false | 1 × pace | - |")
	assert.Contains(t, md, "Any State: → Idle (!run)")
	assert.Contains(t, md, "## Warnings\n\n- state Run is slow")
	assert.NotContains(t, md, "## Errors")

	invalid := tui.Report(&def, []error{errors.New("boom")}, nil)
	assert.Contains(t, invalid, "**Invalid**: 1 error(s), 0 warning(s).")
}

func TestNewRenderer(t *testing.T) {
	render, err := tui.NewRenderer(false, 80)
	require.NoError(t, err)

	out, err := render("# Title\n\nSome *text*.")
	require.NoError(t, err)
	assert.Contains(t, out, "Title")
	assert.Contains(t, out, "text")
}

func TestPrintBanner_NotTerminal(t *testing.T) {
	var buf bytes.Buffer
	tui.PrintBanner(&buf)
	assert.Empty(t, buf.String())
	assert.False(t, tui.IsTerminal(&buf))
}
