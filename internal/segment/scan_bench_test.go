package segment

import (
	"fmt"
	"strings"
	"testing"

	"github.com/joshuapare/cfgkit/internal/buffer"
)

// benchConfig builds n steppers and n macros, comments and a persistence
// block included.
func benchConfig(n int) []byte {
	var sb strings.Builder
	sb.WriteString("# generated\n[printer]\nkinematics: corexy\n\n")
	for i := 0; i < n; i++ {
		fmt.Fprintf(&sb, "# axis %d\n[stepper_%d]\nstep_pin: PC%d   # step\ndir_pin: !PB%d\n#enable_pin: !PA%d\nrotation_distance: 40\n\n", i, i, i, i, i)
		fmt.Fprintf(&sb, "[gcode_macro m%d]\ngcode:\n  G28\n  # home first\n  G1 X%d F3000\n#  M400\n\n", i, i)
	}
	sb.WriteString("#*# <---------------------- SAVE_CONFIG ---------------------->\n#*# [probe]\n#*# z_offset = 1.2\n")
	return []byte(sb.String())
}

func benchmarkScan(b *testing.B, n int) {
	data := benchConfig(n)
	b.SetBytes(int64(len(data)))
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := Scan(buffer.FromBytes(data)); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkScan_Small is about the size of a stock printer.cfg.
func BenchmarkScan_Small(b *testing.B) { benchmarkScan(b, 10) }

// BenchmarkScan_Large is a config with many macros pulled in.
func BenchmarkScan_Large(b *testing.B) { benchmarkScan(b, 500) }
