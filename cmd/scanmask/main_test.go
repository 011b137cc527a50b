package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	timelinedto "scanmask/internal/modules/timeline/dto"
)

func TestParseSteps(t *testing.T) {
	t.Parallel()
	steps, err := parseSteps([]string{"2000:300:120", " 1800 : 180 : 115 "})
	require.NoError(t, err)
	require.Len(t, steps, 2)
	assert.Equal(t, 1800, steps[1].Frequency)
	assert.Equal(t, 180, steps[1].Duration)

	_, err = parseSteps([]string{"2000:300"})
	require.Error(t, err)
	_, err = parseSteps([]string{"a:b:c"})
	require.Error(t, err)
}

func TestProgressPrinterPrintsPhaseChanges(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	emit := progressPrinter(&buf)
	for i, label := range []string{"Phase 1: 2000Hz", "Phase 1: 2000Hz", "Phase 2: 1800Hz"} {
		idx := 0
		if i == 2 {
			idx = 1
		}
		emit(timelinedto.Event{Kind: timelinedto.EventProgress, Progress: timelinedto.Progress{PhaseIndex: idx, PhaseLabel: label, ElapsedSeconds: i}})
	}
	emit(timelinedto.Event{Kind: timelinedto.EventStopped})
	emit(timelinedto.Event{Kind: timelinedto.EventCompleted})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "Phase 1: 2000Hz")
	assert.Contains(t, lines[1], "Phase 2: 1800Hz")
	assert.Equal(t, "scan complete", lines[3])
}

func TestPatternsListSeedsCatalog(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"--data", dir, "patterns", "list"})
	require.NoError(t, root.Execute())

	assert.Contains(t, out.String(), "Brain T1 Weighted")
	assert.Contains(t, out.String(), "Spine MRI")
	assert.FileExists(t, filepath.Join(dir, ".scanmask", "scanmask.db"))
}
