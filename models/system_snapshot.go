// Copyright 2020 Wearless Tech Inc All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package models

const (
	AgentStatusRunning = "Nexus Agent is running"
	AgentVersion       = "0.1.0"
)

// AgentStatus - service identity returned on the agent root path
type AgentStatus struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// SystemSnapshot - all metrics of one poll, recomputed on every request
type SystemSnapshot struct {
	Hostname        string        `json:"hostname"`
	IPAddress       string        `json:"ip_address"`        // outbound-routing local address
	OSName          string        `json:"os_name"`           // e.g. Linux 6.1.0
	UptimeSeconds   float64       `json:"uptime_seconds"`    // now - boot time
	UptimeHuman     string        `json:"uptime_human"`      // formatting of uptime_seconds
	CPUModel        string        `json:"cpu_model"`         // model name of the first cpu
	CPUUsagePercent float64       `json:"cpu_usage_percent"` // [0,100]
	CPUCoreCount    int           `json:"cpu_core_count"`    // logical cores
	RAMTotalGB      float64       `json:"ram_total_gb"`
	RAMUsedGB       float64       `json:"ram_used_gb"` // never above ram_total_gb
	RAMPercent      float64       `json:"ram_percent"`
	NetSentMB       float64       `json:"net_sent_mb"` // cumulative since boot
	NetRecvMB       float64       `json:"net_recv_mb"` // cumulative since boot
	GPUs            []GpuInfo     `json:"gpus"`        // device index ascending
	Processes       []ProcessInfo `json:"processes"`   // gpu-linked first, then cpu descending
}

// GpuInfo - one GPU device
type GpuInfo struct {
	Index                    int     `json:"index"`
	Name                     string  `json:"name"`
	TemperatureCelsius       int     `json:"temperature_celsius"`
	FanSpeedPercent          int     `json:"fan_speed_percent"`
	PowerDrawWatts           float64 `json:"power_draw_watts"`
	CoreUtilizationPercent   int     `json:"core_utilization_percent"`
	MemoryTotalGB            float64 `json:"memory_total_gb"`
	MemoryUsedGB             float64 `json:"memory_used_gb"`
	MemoryUtilizationPercent float64 `json:"memory_utilization_percent"` // 0 when total is 0
}

// ProcessInfo - one listed process. GPUIndex and VRAMUsedMB are both set or both nil.
type ProcessInfo struct {
	PID           int32    `json:"pid"`
	User          string   `json:"user"`
	Command       string   `json:"command"` // at most 60 characters
	CPUPercent    float64  `json:"cpu_percent"`
	MemoryPercent float64  `json:"memory_percent"`
	GPUIndex      *int     `json:"gpu_index"`
	VRAMUsedMB    *float64 `json:"vram_used_mb"`
}

// GPULinked reports whether the process holds a context on a GPU
func (p *ProcessInfo) GPULinked() bool {
	return p.GPUIndex != nil
}
