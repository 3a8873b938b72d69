// Package sysinfo gathers the labeled strings shown next to the
// rendered image. Collectors run in parallel with bounded timeouts and
// individually failing collectors simply omit their entry; the package
// returns a plain label-to-value map with no ordering guarantee.
package sysinfo

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

// collectTimeout bounds every outbound query so one slow probe cannot
// stall the display.
const collectTimeout = 2 * time.Second

type collector struct {
	key string
	fn  func(ctx context.Context) (string, error)
}

var collectors = []collector{
	{"os", collectOS},
	{"host", collectHost},
	{"kernel", collectKernel},
	{"uptime", collectUptime},
	{"shell", collectShell},
	{"cpu", collectCPU},
	{"memory", collectMemory},
	{"disk", collectDisk},
}

// Keys lists every collector key, in default display order.
func Keys() []string {
	keys := make([]string, len(collectors))
	for i, c := range collectors {
		keys[i] = c.key
	}
	return keys
}

// Collect fans out all collectors and returns whatever succeeded
// before the per-collector timeout.
func Collect(ctx context.Context, logger *log.Logger) map[string]string {
	if logger == nil {
		logger = log.Default()
	}

	var (
		mu   sync.Mutex
		info = make(map[string]string, len(collectors))
	)
	g, ctx := errgroup.WithContext(ctx)
	for _, c := range collectors {
		c := c
		g.Go(func() error {
			cctx, cancel := context.WithTimeout(ctx, collectTimeout)
			defer cancel()

			value, err := c.fn(cctx)
			if err != nil {
				logger.Debug("collector failed", "key", c.key, "err", err)
				return nil
			}
			mu.Lock()
			info[c.key] = value
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return info
}

func collectOS(context.Context) (string, error) {
	name := runtime.GOOS
	if data, err := os.ReadFile("/etc/os-release"); err == nil {
		for _, line := range strings.Split(string(data), "\n") {
			if v, ok := strings.CutPrefix(line, "PRETTY_NAME="); ok {
				name = strings.Trim(v, `"`)
				break
			}
		}
	}
	return fmt.Sprintf("OS: %s %s", name, runtime.GOARCH), nil
}

func collectHost(context.Context) (string, error) {
	host, err := os.Hostname()
	if err != nil {
		return "", err
	}
	return "Host: " + host, nil
}

func collectKernel(ctx context.Context) (string, error) {
	out, err := exec.CommandContext(ctx, "uname", "-r").Output()
	if err != nil {
		return "", err
	}
	return "Kernel: " + strings.TrimSpace(string(out)), nil
}

func collectUptime(context.Context) (string, error) {
	data, err := os.ReadFile("/proc/uptime")
	if err != nil {
		return "", err
	}
	fields := strings.Fields(string(data))
	if len(fields) == 0 {
		return "", fmt.Errorf("empty /proc/uptime")
	}
	secs, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return "", err
	}
	return "Uptime: " + formatUptime(time.Duration(secs) * time.Second), nil
}

func formatUptime(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60

	var parts []string
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 || days > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	parts = append(parts, fmt.Sprintf("%dm", minutes))
	return strings.Join(parts, " ")
}

func collectShell(context.Context) (string, error) {
	shell := os.Getenv("SHELL")
	if shell == "" {
		return "", fmt.Errorf("SHELL not set")
	}
	return "Shell: " + filepath.Base(shell), nil
}

func collectCPU(context.Context) (string, error) {
	data, err := os.ReadFile("/proc/cpuinfo")
	if err != nil {
		return "", err
	}
	model := ""
	for _, line := range strings.Split(string(data), "\n") {
		if strings.HasPrefix(line, "model name") {
			if _, after, ok := strings.Cut(line, ":"); ok {
				model = strings.TrimSpace(after)
			}
			break
		}
	}
	if model == "" {
		return "", fmt.Errorf("no model name in /proc/cpuinfo")
	}
	return fmt.Sprintf("CPU: %s (%d)", model, runtime.NumCPU()), nil
}

func collectMemory(context.Context) (string, error) {
	data, err := os.ReadFile("/proc/meminfo")
	if err != nil {
		return "", err
	}
	var totalKB, availKB int64
	for _, line := range strings.Split(string(data), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		switch fields[0] {
		case "MemTotal:":
			totalKB, _ = strconv.ParseInt(fields[1], 10, 64)
		case "MemAvailable:":
			availKB, _ = strconv.ParseInt(fields[1], 10, 64)
		}
	}
	if totalKB == 0 {
		return "", fmt.Errorf("no MemTotal in /proc/meminfo")
	}
	usedGiB := float64(totalKB-availKB) / (1 << 20)
	totalGiB := float64(totalKB) / (1 << 20)
	return fmt.Sprintf("Memory: %.1f GiB / %.1f GiB", usedGiB, totalGiB), nil
}

func collectDisk(ctx context.Context) (string, error) {
	// df keeps this portable across unixes without cgo or syscall
	// flavors; POSIX -k reports 1024-byte blocks.
	out, err := exec.CommandContext(ctx, "df", "-k", "/").Output()
	if err != nil {
		return "", err
	}
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	if len(lines) < 2 {
		return "", fmt.Errorf("unexpected df output")
	}
	fields := strings.Fields(lines[len(lines)-1])
	if len(fields) < 4 {
		return "", fmt.Errorf("unexpected df output")
	}
	totalKB, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return "", err
	}
	usedKB, err := strconv.ParseInt(fields[2], 10, 64)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Disk: %.0f GiB / %.0f GiB", float64(usedKB)/(1<<20), float64(totalKB)/(1<<20)), nil
}
