package services

import (
	"sort"

	"github.com/chryscloud/nexus-monitor/models"
	"github.com/chryscloud/nexus-monitor/utils"
)

// GPUProcessLink - the device a process is resident on and the VRAM it holds there
type GPUProcessLink struct {
	GPUIndex   int
	VRAMUsedMB float64
}

// LinkGPUProcesses maps pids to the GPU they run on. A pid resident on several devices is
// linked to the lowest device index.
func LinkGPUProcesses(devices []GPUDevice) map[int32]GPUProcessLink {
	links := make(map[int32]GPUProcessLink)
	for _, d := range devices {
		for _, p := range d.Resident {
			if p.PID <= 0 {
				continue
			}
			if existing, ok := links[p.PID]; ok && existing.GPUIndex <= d.Index {
				continue
			}
			links[p.PID] = GPUProcessLink{
				GPUIndex:   d.Index,
				VRAMUsedMB: utils.BytesToMB(p.VRAMBytes, 1),
			}
		}
	}
	return links
}

// RankProcesses keeps GPU-linked processes and those above cpuThreshold, GPU-linked first
// then by descending cpu, at most limit entries.
func RankProcesses(table []RawProcess, links map[int32]GPUProcessLink, cpuThreshold float64, limit int) []models.ProcessInfo {
	selected := make([]models.ProcessInfo, 0)
	seen := make(map[int32]bool, len(table))

	for _, raw := range table {
		if raw.PID <= 0 || seen[raw.PID] {
			continue
		}
		link, linked := links[raw.PID]
		if !linked && !(raw.CPUPercent > cpuThreshold) {
			continue
		}
		seen[raw.PID] = true

		user := raw.Username
		if user == "" {
			user = SystemUser
		}
		info := models.ProcessInfo{
			PID:           raw.PID,
			User:          user,
			Command:       utils.BuildCommand(raw.Args, raw.Name),
			CPUPercent:    nonNegative(utils.Round(raw.CPUPercent, 1)),
			MemoryPercent: utils.ClampPercent(utils.Round(raw.MemoryPercent, 1)),
		}
		if linked {
			gpuIndex, vram := link.GPUIndex, link.VRAMUsedMB
			info.GPUIndex = &gpuIndex
			info.VRAMUsedMB = &vram
		}
		selected = append(selected, info)
	}

	SortProcesses(selected)
	if limit > 0 && len(selected) > limit {
		selected = selected[:limit]
	}
	return selected
}

// SortProcesses orders GPU-linked processes first, then by descending cpu. Equal keys keep
// their relative order so sorting a sorted list is a no-op.
func SortProcesses(processes []models.ProcessInfo) {
	sort.SliceStable(processes, func(i, j int) bool {
		a, b := processes[i], processes[j]
		if a.GPULinked() != b.GPULinked() {
			return a.GPULinked()
		}
		return a.CPUPercent > b.CPUPercent
	})
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
