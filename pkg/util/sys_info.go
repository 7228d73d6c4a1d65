package util

import (
	"context"
	"runtime"

	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
)

// SysInfo 运行环境信息
type SysInfo struct {
	OS             string  `json:"os"`
	Arch           string  `json:"arch"`
	Platform       string  `json:"platform"`
	Uptime         uint64  `json:"uptime"`
	MemTotal       uint64  `json:"memTotal"`
	MemUsedPercent float64 `json:"memUsedPercent"`
	Goroutines     int     `json:"goroutines"`
	HeapAlloc      uint64  `json:"heapAlloc"`
}

// GetSysInfo 采集主机与进程信息，单项采集失败时保留零值
func GetSysInfo(ctx context.Context) SysInfo {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	info := SysInfo{
		OS:         runtime.GOOS,
		Arch:       runtime.GOARCH,
		Goroutines: runtime.NumGoroutine(),
		HeapAlloc:  ms.HeapAlloc,
	}
	if h, err := host.InfoWithContext(ctx); err == nil {
		info.Platform = h.Platform + " " + h.PlatformVersion
		info.Uptime = h.Uptime
	}
	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		info.MemTotal = vm.Total
		info.MemUsedPercent = vm.UsedPercent
	}
	return info
}
