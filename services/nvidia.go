package services

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/NVIDIA/go-nvml/pkg/nvml"
	g "github.com/chryscloud/nexus-monitor/globals"
)

// nvmlDevice is the part of nvml.Device read on every poll
type nvmlDevice interface {
	GetName() (string, nvml.Return)
	GetTemperature(nvml.TemperatureSensors) (uint32, nvml.Return)
	GetFanSpeed() (uint32, nvml.Return)
	GetPowerUsage() (uint32, nvml.Return)
	GetUtilizationRates() (nvml.Utilization, nvml.Return)
	GetMemoryInfo() (nvml.Memory, nvml.Return)
	GetComputeRunningProcesses() ([]nvml.ProcessInfo, nvml.Return)
	GetGraphicsRunningProcesses() ([]nvml.ProcessInfo, nvml.Return)
}

// NvidiaSource reads NVIDIA GPUs through NVML. The library is initialized once; when that
// fails the source stays unavailable for the lifetime of the process and reports no devices.
type NvidiaSource struct {
	available bool
	devices   []nvmlDevice
}

// NewGPUSource returns the NVML source, or a source without devices when GPU collection is off
func NewGPUSource(enabled bool) GPUSource {
	if !enabled {
		g.Log.Info("GPU collection disabled by configuration")
		return noGPUSource{}
	}
	return NewNvidiaSource()
}

func NewNvidiaSource() *NvidiaSource {
	n := &NvidiaSource{}
	if err := n.init(); err != nil {
		g.Log.Warn("NVIDIA GPU source disabled, running GPU-less:", err)
		return n
	}
	g.Log.Info("NVIDIA driver detected and NVML initialized, devices:", len(n.devices))
	return n
}

func (n *NvidiaSource) init() (err error) {
	// a missing or broken driver library must never take the agent down
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("NVML initialization panicked: %v", r)
		}
	}()

	if ret := nvml.Init(); !errors.Is(ret, nvml.SUCCESS) {
		return fmt.Errorf("failed to initialize NVML: %s", nvml.ErrorString(ret))
	}

	count, ret := nvml.DeviceGetCount()
	if !errors.Is(ret, nvml.SUCCESS) {
		nvml.Shutdown()
		return fmt.Errorf("failed to count NVIDIA devices: %s", nvml.ErrorString(ret))
	}

	// a nil entry keeps the enumeration index of a device whose handle failed
	devices := make([]nvmlDevice, count)
	for i := 0; i < count; i++ {
		device, ret := nvml.DeviceGetHandleByIndex(i)
		if !errors.Is(ret, nvml.SUCCESS) {
			g.Log.Warn("failed to get handle of NVIDIA device", i, nvml.ErrorString(ret))
			continue
		}
		devices[i] = device
	}

	n.devices = devices
	n.available = true
	return nil
}

// Available reports whether NVML initialized at startup
func (n *NvidiaSource) Available() bool {
	return n.available
}

func (n *NvidiaSource) Close() error {
	if !n.available {
		return nil
	}
	n.available = false
	if ret := nvml.Shutdown(); !errors.Is(ret, nvml.SUCCESS) {
		return fmt.Errorf("failed to shutdown NVML: %s", nvml.ErrorString(ret))
	}
	return nil
}

func (n *NvidiaSource) Devices(ctx context.Context) []GPUDevice {
	if !n.available {
		return nil
	}
	return readDevices(ctx, n.devices)
}

func readDevices(ctx context.Context, devices []nvmlDevice) []GPUDevice {
	result := make([]GPUDevice, 0, len(devices))
	for i, device := range devices {
		if ctx.Err() != nil {
			break
		}
		if device == nil {
			continue
		}
		result = append(result, readDevice(device, i))
	}
	return result
}

// readDevice reads each field on its own, a failing sensor leaves only that field at zero
func readDevice(device nvmlDevice, index int) GPUDevice {
	gpu := GPUDevice{Index: index, Name: UnknownValue}

	capture(device.GetName, &gpu.Name)
	capture(func() (uint32, nvml.Return) { return device.GetTemperature(nvml.TEMPERATURE_GPU) }, &gpu.TemperatureC)
	capture(device.GetFanSpeed, &gpu.FanSpeedPercent)
	capture(device.GetPowerUsage, &gpu.PowerDrawMw)

	if util, ret := device.GetUtilizationRates(); errors.Is(ret, nvml.SUCCESS) {
		gpu.UtilizationPercent = util.Gpu
	}
	if mem, ret := device.GetMemoryInfo(); errors.Is(ret, nvml.SUCCESS) {
		gpu.MemoryTotalBytes = mem.Total
		gpu.MemoryUsedBytes = mem.Used
		if gpu.MemoryUsedBytes > gpu.MemoryTotalBytes {
			gpu.MemoryUsedBytes = gpu.MemoryTotalBytes
		}
	}

	gpu.Resident = residentProcesses(device)
	return gpu
}

// residentProcesses unions compute and graphics contexts, first listing of a pid wins
func residentProcesses(device nvmlDevice) []ResidentProcess {
	seen := make(map[uint32]bool)
	var procs []ResidentProcess

	for _, call := range []func() ([]nvml.ProcessInfo, nvml.Return){
		device.GetComputeRunningProcesses,
		device.GetGraphicsRunningProcesses,
	} {
		list, ret := call()
		if !errors.Is(ret, nvml.SUCCESS) {
			continue
		}
		for _, p := range list {
			if p.Pid == 0 || seen[p.Pid] {
				continue
			}
			seen[p.Pid] = true
			used := p.UsedGpuMemory
			if used == math.MaxUint64 {
				// NVML_VALUE_NOT_AVAILABLE
				used = 0
			}
			procs = append(procs, ResidentProcess{PID: int32(p.Pid), VRAMBytes: used})
		}
	}
	return procs
}

func capture[T any](call func() (T, nvml.Return), dst *T) bool {
	if val, ret := call(); errors.Is(ret, nvml.SUCCESS) {
		*dst = val
		return true
	}
	return false
}
