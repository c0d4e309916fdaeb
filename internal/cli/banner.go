package cli

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"golang.org/x/sys/cpu"

	"github.com/agbru/cassels/internal/config"
	"github.com/agbru/cassels/internal/search"
	"github.com/agbru/cassels/internal/ui"
)

// PrintExecutionConfig prints the environment the search runs in and where
// its artifacts go.
func PrintExecutionConfig(cfg config.AppConfig, workers int, out io.Writer) {
	fmt.Fprintf(out, "--- Execution Configuration ---\n")
	fmt.Fprintf(out, "Environment: %s%d%s logical processors, Go %s%s%s, CPU features: %s.\n",
		ui.ColorCyan(), runtime.NumCPU(), ui.ColorReset(),
		ui.ColorCyan(), runtime.Version(), ui.ColorReset(), cpuFeatures())
	fmt.Fprintf(out, "Workers per wave: %s%d%s.\n", ui.ColorCyan(), workers, ui.ColorReset())
	fmt.Fprintf(out, "Tables: %s%s%s, candidates: %s%s%s.\n",
		ui.ColorYellow(), cfg.TablesPath, ui.ColorReset(),
		ui.ColorYellow(), cfg.OutputPath, ui.ColorReset())
}

// cpuFeatures lists the floating-point extensions the castle evaluation can
// benefit from.
func cpuFeatures() string {
	var features []string
	switch runtime.GOARCH {
	case "amd64", "386":
		if cpu.X86.HasFMA {
			features = append(features, "FMA")
		}
		if cpu.X86.HasAVX2 {
			features = append(features, "AVX2")
		}
		if cpu.X86.HasAVX512F {
			features = append(features, "AVX-512")
		}
	case "arm64":
		if cpu.ARM64.HasASIMD {
			features = append(features, "ASIMD")
		}
	}
	if len(features) == 0 {
		return "none detected"
	}
	return strings.Join(features, ", ")
}

// PrintExecutionMode prints the runs about to execute.
func PrintExecutionMode(plan config.Plan, out io.Writer) {
	if len(plan.Runs) == 1 {
		r := plan.Runs[0]
		fmt.Fprintf(out, "Execution mode: single run, level %s%d%s (N=%d), max_len %s%d%s.\n",
			ui.ColorMagenta(), r.Level, ui.ColorReset(), search.Normalize(r.Level),
			ui.ColorMagenta(), r.MaxLen, ui.ColorReset())
	} else {
		fmt.Fprintf(out, "Execution mode: plan of %s%d%s runs.\n", ui.ColorMagenta(), len(plan.Runs), ui.ColorReset())
		for i, r := range plan.Runs {
			note := ""
			if r.Note != "" {
				note = fmt.Sprintf(" %s[%s]%s", ui.ColorCyan(), r.Note, ui.ColorReset())
			}
			fmt.Fprintf(out, "  %d. level %d (N=%d), max_len %d%s\n", i+1, r.Level, search.Normalize(r.Level), r.MaxLen, note)
		}
	}
	fmt.Fprintf(out, "\n--- Starting Execution ---\n")
}
