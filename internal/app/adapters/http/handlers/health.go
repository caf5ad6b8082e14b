package handlers

import (
	"chatoverlay/internal/app/ports"
	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/mem"
	"net/http"
	"runtime"
	"time"
)

type healthResponse struct {
	Status     string  `json:"status"`
	Connection string  `json:"connection"`
	Uptime     string  `json:"uptime"`
	Channel    string  `json:"channel"`
	Emotes     int     `json:"emotes"`
	OnScreen   int     `json:"on_screen"`
	Pending    int     `json:"pending"`
	CPU        float64 `json:"cpu_percent"`
	MemUsed    float64 `json:"mem_used_percent"`
	HeapMB     float64 `json:"heap_mb"`
	Goroutines int     `json:"goroutines"`
}

func (h *Handlers) HealthHandler(c *gin.Context) {
	var cpuPercent float64
	if percent, err := cpu.Percent(0, false); err == nil && len(percent) > 0 {
		cpuPercent = percent[0]
	}

	var memPercent float64
	if vm, err := mem.VirtualMemory(); err == nil {
		memPercent = vm.UsedPercent
	}

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	state := h.irc.State()
	status := "ok"
	if state != ports.Connected {
		status = "degraded"
	}

	c.JSON(http.StatusOK, healthResponse{
		Status:     status,
		Connection: state.String(),
		Uptime:     time.Since(h.started).Round(time.Second).String(),
		Channel:    h.manager.Get().Channel.Login,
		Emotes:     h.directory.Size(),
		OnScreen:   len(h.feed.Snapshot()),
		Pending:    h.feed.Pending(),
		CPU:        cpuPercent,
		MemUsed:    memPercent,
		HeapMB:     float64(ms.HeapAlloc) / 1024 / 1024,
		Goroutines: runtime.NumGoroutine(),
	})
}
