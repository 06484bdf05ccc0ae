package services

import (
	"context"
	"time"
)

// CounterSource reads host counters. Every method degrades to zero values instead of failing,
// so one broken source never aborts a poll.
type CounterSource interface {
	Host(ctx context.Context) HostInfo
	CPUAndMemory(ctx context.Context) CPUMemory
	NetworkTotals(ctx context.Context) NetTotals
	// ProcessTable skips processes that vanish or deny access while being read.
	// On context expiry it returns the records read so far.
	ProcessTable(ctx context.Context) []RawProcess
}

// GPUSource enumerates GPU devices. An unavailable driver yields no devices.
type GPUSource interface {
	Devices(ctx context.Context) []GPUDevice
	Close() error
}

type HostInfo struct {
	Hostname string
	OSName   string
	CPUModel string
	BootTime time.Time // zero when unknown
}

type CPUMemory struct {
	CPUPercent  float64
	CoreCount   int
	TotalBytes  uint64
	UsedBytes   uint64
	UsedPercent float64
}

// NetTotals - cumulative counters since boot
type NetTotals struct {
	BytesSent uint64
	BytesRecv uint64
}

type GPUDevice struct {
	Index              int
	Name               string
	TemperatureC       uint32
	FanSpeedPercent    uint32
	PowerDrawMw        uint32
	UtilizationPercent uint32
	MemoryTotalBytes   uint64
	MemoryUsedBytes    uint64
	Resident           []ResidentProcess // compute then graphics
}

// ResidentProcess - a process holding a context on a device
type ResidentProcess struct {
	PID       int32
	VRAMBytes uint64
}

type RawProcess struct {
	PID           int32
	Username      string // "system" when the owner cannot be resolved
	Name          string
	Args          []string
	CPUPercent    float64 // since the previous poll, may exceed 100 on multi-core
	MemoryPercent float64
}

// noGPUSource is used when GPU collection is disabled
type noGPUSource struct{}

func (noGPUSource) Devices(ctx context.Context) []GPUDevice { return nil }
func (noGPUSource) Close() error                            { return nil }
