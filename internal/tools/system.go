package tools

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v4/host"
	gopsutilNet "github.com/shirou/gopsutil/v4/net"
	"github.com/shirou/gopsutil/v4/process"

	"github.com/secagent/secagent/internal/schema"
)

// NewSystemInfoTool reports host identity, OS and kernel details.
func NewSystemInfoTool() Tool {
	s := schema.ToolSchema{
		Name:        string(ToolSystemInfo),
		Description: "Get host information (hostname, OS, kernel, uptime)",
	}
	return NewFuncTool(s, func(ctx context.Context, _ Args) (string, error) {
		info, err := host.InfoWithContext(ctx)
		if err != nil {
			return fmt.Sprintf("Error getting system info: %s", err), nil
		}

		var sb strings.Builder
		sb.WriteString("System Information:\n\n")
		fmt.Fprintf(&sb, "Hostname: %s\n", info.Hostname)
		fmt.Fprintf(&sb, "OS: %s\n", info.OS)
		fmt.Fprintf(&sb, "Platform: %s %s (%s)\n", info.Platform, info.PlatformVersion, info.PlatformFamily)
		fmt.Fprintf(&sb, "Kernel: %s %s\n", info.KernelVersion, info.KernelArch)
		fmt.Fprintf(&sb, "Uptime: %s\n", time.Duration(info.Uptime)*time.Second)
		fmt.Fprintf(&sb, "Processes: %d\n", info.Procs)
		if info.VirtualizationSystem != "" {
			fmt.Fprintf(&sb, "Virtualization: %s (%s)\n", info.VirtualizationSystem, info.VirtualizationRole)
		}
		return sb.String(), nil
	})
}

type processRow struct {
	pid      int32
	name     string
	user     string
	cpu      float64
	memBytes uint64
}

// NewProcessListTool lists the top processes by CPU or resident memory.
func NewProcessListTool() Tool {
	sortBy := schema.Optional("sort_by", schema.String("cpu"), "Sort key: cpu or memory")
	sortBy.Enum = []string{"cpu", "memory"}

	s := schema.ToolSchema{
		Name:        string(ToolListProcesses),
		Description: "List running processes sorted by CPU or memory usage",
		Parameters: []schema.ToolParameter{
			sortBy,
			schema.Optional("limit", schema.Int(20), "Maximum processes to show"),
		},
	}
	return NewFuncTool(s, func(ctx context.Context, args Args) (string, error) {
		key, err := args.String("sort_by")
		if err != nil {
			return "", err
		}
		limit, err := args.Int("limit")
		if err != nil {
			return "", err
		}

		procs, err := process.ProcessesWithContext(ctx)
		if err != nil {
			return fmt.Sprintf("Error listing processes: %s", err), nil
		}

		rows := make([]processRow, 0, len(procs))
		for _, p := range procs {
			if p == nil {
				continue
			}
			row := processRow{pid: p.Pid}
			if row.name, err = p.NameWithContext(ctx); err != nil || row.name == "" {
				row.name = fmt.Sprintf("[%d]", p.Pid)
			}
			if row.user, err = p.UsernameWithContext(ctx); err != nil || row.user == "" {
				row.user = "system"
			}
			row.cpu, _ = p.CPUPercentWithContext(ctx)
			if mem, err := p.MemoryInfoWithContext(ctx); err == nil && mem != nil {
				row.memBytes = mem.RSS
			}
			rows = append(rows, row)
		}

		sort.SliceStable(rows, func(i, j int) bool {
			if key == "memory" {
				return rows[i].memBytes > rows[j].memBytes
			}
			return rows[i].cpu > rows[j].cpu
		})
		if limit > 0 && len(rows) > limit {
			rows = rows[:limit]
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "Top %d process(es) by %s:\n", len(rows), key)
		for _, r := range rows {
			fmt.Fprintf(&sb, "  %7d  %-16s %6.1f%% cpu %8.1f MB  %s\n",
				r.pid, r.user, r.cpu, float64(r.memBytes)/(1024*1024), r.name)
		}
		return sb.String(), nil
	})
}

// NewConnectionsTool lists sockets, by default only those in LISTEN state.
func NewConnectionsTool() Tool {
	kind := schema.Optional("kind", schema.String("inet"), "Socket family: inet, tcp or udp")
	kind.Enum = []string{"inet", "tcp", "udp"}

	s := schema.ToolSchema{
		Name:        string(ToolListConnections),
		Description: "List network connections and listening ports",
		Parameters: []schema.ToolParameter{
			kind,
			schema.Optional("listening_only", schema.Bool(true), "Only show listening sockets"),
			schema.Optional("max_results", schema.Int(100), "Maximum results"),
		},
	}
	return NewFuncTool(s, func(ctx context.Context, args Args) (string, error) {
		k, err := args.String("kind")
		if err != nil {
			return "", err
		}
		listening, err := args.Bool("listening_only")
		if err != nil {
			return "", err
		}
		maxResults, err := args.Int("max_results")
		if err != nil {
			return "", err
		}

		conns, err := gopsutilNet.ConnectionsWithContext(ctx, k)
		if err != nil {
			return fmt.Sprintf("Error listing connections: %s", err), nil
		}

		var lines []string
		for _, c := range conns {
			if listening && c.Status != "LISTEN" && !(c.Type == 2 && c.Raddr.IP == "") {
				continue
			}
			lines = append(lines, fmt.Sprintf("  %-5s %-22s %-22s %-12s pid=%d",
				socketType(c.Type), addr(c.Laddr), addr(c.Raddr), c.Status, c.Pid))
			if maxResults > 0 && len(lines) >= maxResults {
				break
			}
		}
		if len(lines) == 0 {
			return "No matching connections found", nil
		}
		sort.Strings(lines)
		return fmt.Sprintf("Found %d connection(s):\n%s", len(lines), strings.Join(lines, "\n")), nil
	})
}

func socketType(t uint32) string {
	switch t {
	case 1:
		return "tcp"
	case 2:
		return "udp"
	default:
		return fmt.Sprintf("%d", t)
	}
}

func addr(a gopsutilNet.Addr) string {
	if a.IP == "" && a.Port == 0 {
		return "-"
	}
	return fmt.Sprintf("%s:%d", a.IP, a.Port)
}
