package services

import (
	"strings"
	"testing"

	"github.com/chryscloud/nexus-monitor/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinkGPUProcessesLowestIndexWins(t *testing.T) {
	devices := []GPUDevice{
		{Index: 2, Resident: []ResidentProcess{{PID: 500, VRAMBytes: 3 * 1024 * 1024}}},
		{Index: 0, Resident: []ResidentProcess{{PID: 500, VRAMBytes: 1024 * 1024}}},
		{Index: 1, Resident: []ResidentProcess{{PID: 500, VRAMBytes: 2 * 1024 * 1024}, {PID: 0}}},
	}

	links := LinkGPUProcesses(devices)

	require.Len(t, links, 1)
	assert.Equal(t, GPUProcessLink{GPUIndex: 0, VRAMUsedMB: 1.0}, links[500])
}

func TestLinkGPUProcessesFirstEntryOnDeviceWins(t *testing.T) {
	devices := []GPUDevice{
		{Index: 0, Resident: []ResidentProcess{{PID: 9, VRAMBytes: 4 * 1024 * 1024}, {PID: 9, VRAMBytes: 0}}},
	}
	links := LinkGPUProcesses(devices)
	assert.Equal(t, 4.0, links[9].VRAMUsedMB)
}

func TestRankProcessesThresholdIsExclusive(t *testing.T) {
	table := []RawProcess{
		{PID: 1, Name: "idle", CPUPercent: 2.0},
		{PID: 2, Name: "busy", CPUPercent: 2.01},
	}
	ranked := RankProcesses(table, nil, 2.0, 10)
	require.Len(t, ranked, 1)
	assert.Equal(t, int32(2), ranked[0].PID)
	assert.Equal(t, SystemUser, ranked[0].User)
}

func TestRankProcessesSkipsDuplicatePids(t *testing.T) {
	table := []RawProcess{
		{PID: 3, Name: "a", CPUPercent: 10},
		{PID: 3, Name: "a", CPUPercent: 12},
		{PID: 0, Name: "idle", CPUPercent: 99},
	}
	ranked := RankProcesses(table, nil, 2.0, 10)
	require.Len(t, ranked, 1)
	assert.Equal(t, 10.0, ranked[0].CPUPercent)
}

func TestRankProcessesTruncatesCommand(t *testing.T) {
	table := []RawProcess{{
		PID:        4,
		Name:       "java",
		Args:       []string{"/usr/lib/jvm/java-17-openjdk-amd64/bin/java", "-Dconfig.file=/etc/server/application.conf", "-jar", "server.jar"},
		CPUPercent: 40,
	}}
	ranked := RankProcesses(table, nil, 2.0, 10)
	require.Len(t, ranked, 1)
	assert.Len(t, []rune(ranked[0].Command), 60)
	assert.True(t, strings.HasSuffix(ranked[0].Command, "..."))
}

func TestSortProcessesIdempotent(t *testing.T) {
	idx := 0
	vram := 12.5
	processes := []models.ProcessInfo{
		{PID: 1, CPUPercent: 80},
		{PID: 2, CPUPercent: 3, GPUIndex: &idx, VRAMUsedMB: &vram},
		{PID: 3, CPUPercent: 80},
		{PID: 4, CPUPercent: 20},
		{PID: 5, CPUPercent: 0, GPUIndex: &idx, VRAMUsedMB: &vram},
	}

	SortProcesses(processes)
	first := pids(processes)
	assert.Equal(t, []int32{2, 5, 1, 3, 4}, first)

	SortProcesses(processes)
	assert.Equal(t, first, pids(processes))
}

func pids(processes []models.ProcessInfo) []int32 {
	out := make([]int32, 0, len(processes))
	for _, p := range processes {
		out = append(out, p.PID)
	}
	return out
}
