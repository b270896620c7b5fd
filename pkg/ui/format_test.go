package ui

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"agentstow/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	cases := map[string]Format{
		"":     FormatAuto,
		"auto": FormatAuto,
		"term": FormatTerminal,
		"text": FormatText,
		"json": FormatJSON,
		"yaml": FormatYAML,
		"yml":  FormatYAML,
	}
	for input, want := range cases {
		got, err := ParseFormat(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	_, err := ParseFormat("xml")
	assert.Error(t, err)
}

func TestFormatString(t *testing.T) {
	assert.Equal(t, "json", FormatJSON.String())
	assert.Equal(t, "yaml", FormatYAML.String())
	assert.Equal(t, "term", FormatTerminal.String())
}

func sampleReport() *types.Report {
	r := &types.Report{Command: "install", Backend: "manual"}
	r.Add("agents", types.OutcomeLinked, "/dst/agents -> /src/agents")
	r.Add("skills", types.OutcomeConflict, "/dst/skills exists and is not a symlink")
	return r
}

func TestRenderReportText(t *testing.T) {
	var buf bytes.Buffer
	r := &Renderer{Out: &buf, Format: FormatText}
	require.NoError(t, r.Report(sampleReport()))

	out := buf.String()
	assert.Contains(t, out, "agents")
	assert.Contains(t, out, "skills")
	assert.Contains(t, out, "install: 1 succeeded, 1 conflicts (2 total)")
}

func TestRenderReportJSON(t *testing.T) {
	var buf bytes.Buffer
	r := &Renderer{Out: &buf, Format: FormatJSON}
	require.NoError(t, r.Report(sampleReport()))

	var decoded types.Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "install", decoded.Command)
	assert.Len(t, decoded.Results, 2)
}

func TestRenderStatusNotInstalled(t *testing.T) {
	var buf bytes.Buffer
	r := &Renderer{Out: &buf, Format: FormatText}
	require.NoError(t, r.Status(&types.StatusReport{TargetRoot: "/dst"}))
	assert.Contains(t, buf.String(), "not installed")
}

func TestRenderStatusYAML(t *testing.T) {
	var buf bytes.Buffer
	r := &Renderer{Out: &buf, Format: FormatYAML}
	report := &types.StatusReport{
		TargetRoot: "/dst",
		Installed:  true,
		Entries: []types.StatusEntry{
			{Name: "agents", Kind: types.EntryLinked, Dest: "/src/agents"},
		},
	}
	require.NoError(t, r.Status(report))
	assert.Contains(t, buf.String(), "target_root: /dst")
	assert.Contains(t, buf.String(), "kind: linked")
}

func TestRenderExtension(t *testing.T) {
	var buf bytes.Buffer
	r := &Renderer{Out: &buf, Format: FormatText}
	require.NoError(t, r.Extension(&types.ExtensionStatus{
		Name: "extras", Path: "/dst/extras", Installed: true,
		Branch: "main", Commit: "abc1234 initial", Ignored: true,
	}))

	out := buf.String()
	assert.Contains(t, out, "branch: main")
	assert.Contains(t, out, "abc1234")
	assert.Contains(t, out, "ignore-list: ok")

	buf.Reset()
	require.NoError(t, r.Extension(&types.ExtensionStatus{Name: "extras"}))
	assert.Contains(t, buf.String(), "not installed")
}

func TestRenderList(t *testing.T) {
	var buf bytes.Buffer
	r := &Renderer{Out: &buf, Format: FormatText}
	require.NoError(t, r.List([]types.Package{
		{Name: "agents", SourcePath: "/src/agents"},
		{Name: "skills", SourcePath: "/src/skills"},
	}))
	assert.True(t, strings.Contains(buf.String(), "2 packages"))
}
