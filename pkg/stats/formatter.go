package stats

import (
	"fmt"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Formatter defines the interface for formatting a Summary.
type Formatter interface {
	// Format converts a Summary to a formatted string.
	Format(summary *Summary) string
}

// FormatFunc is a function adapter for the Formatter interface.
type FormatFunc func(summary *Summary) string

// Format implements the Formatter interface.
func (f FormatFunc) Format(summary *Summary) string {
	return f(summary)
}

// NewYAMLFormatter returns a Formatter emitting the summary as YAML.
func NewYAMLFormatter() Formatter {
	return FormatFunc(func(summary *Summary) string {
		data, err := yaml.Marshal(summary)
		if err != nil {
			return fmt.Sprintf("# marshal error: %v\n", err)
		}
		return string(data)
	})
}

// NewMarkdownFormatter returns a Formatter emitting a human-readable report.
func NewMarkdownFormatter() Formatter {
	return FormatFunc(formatMarkdown)
}

// FormatterFor picks a formatter from a file name: .md gives Markdown,
// anything else YAML.
func FormatterFor(path string) Formatter {
	if strings.HasSuffix(strings.ToLower(path), ".md") {
		return NewMarkdownFormatter()
	}
	return NewYAMLFormatter()
}

func formatMarkdown(s *Summary) string {
	var sb strings.Builder

	sb.WriteString("# Encoding Summary\n\n")
	fmt.Fprintf(&sb, "- Session: %s\n", s.SessionID)
	fmt.Fprintf(&sb, "- Generated: %s\n", s.GeneratedAt.Format("2006-01-02 15:04:05"))
	if s.Aborted {
		fmt.Fprintf(&sb, "- **Aborted**: %s\n", s.AbortReason)
	}
	sb.WriteString("\n")

	sb.WriteString("## Source\n\n")
	sb.WriteString("| Item | Value |\n")
	sb.WriteString("|------|-------|\n")
	fmt.Fprintf(&sb, "| Path | %s |\n", s.Source.Path)
	fmt.Fprintf(&sb, "| Size | %dx%d |\n", s.Source.Width, s.Source.Height)
	fmt.Fprintf(&sb, "| Bit depth | %d |\n", s.Source.BitDepth)
	fmt.Fprintf(&sb, "| Frame rate | %.2f fps |\n", s.Source.FrameRate)
	sb.WriteString("\n")

	sb.WriteString("## Pictures\n\n")
	sb.WriteString("| Layer | Count |\n")
	sb.WriteString("|-------|-------|\n")
	fmt.Fprintf(&sb, "| Primary | %d |\n", s.Sequence.Primary)
	fmt.Fprintf(&sb, "| Enhancement | %d |\n", s.Sequence.Enhancement)
	fmt.Fprintf(&sb, "| Redundant | %d |\n", s.Sequence.Redundant)
	fmt.Fprintf(&sb, "| IDR | %d |\n", s.Sequence.IDR)
	sb.WriteString("\n")

	if len(s.Slices) > 0 {
		sb.WriteString("## Slice Types\n\n")
		sb.WriteString("| Type | Count | Size |\n")
		sb.WriteString("|------|-------|------|\n")
		types := make([]string, 0, len(s.Slices))
		for t := range s.Slices {
			types = append(types, t)
		}
		slices.Sort(types)
		for _, t := range types {
			st := s.Slices[t]
			fmt.Fprintf(&sb, "| %s | %d | %s |\n", t, st.Count, formatBytes(st.Bytes))
		}
		fmt.Fprintf(&sb, "\nTotal: %s", formatBytes(s.TotalBytes()))
		if rate := s.Bitrate(); rate > 0 {
			fmt.Fprintf(&sb, " (%.1f kbit/s)", rate/1000)
		}
		sb.WriteString("\n\n")
	}

	sb.WriteString("## Output\n\n")
	sb.WriteString("| Item | Value |\n")
	sb.WriteString("|------|-------|\n")
	fmt.Fprintf(&sb, "| Path | %s |\n", s.Output.Path)
	fmt.Fprintf(&sb, "| Frames | %d |\n", s.Output.Frames)
	fmt.Fprintf(&sb, "| Paired fields | %d |\n", s.Output.PairedFields)
	fmt.Fprintf(&sb, "| Synthesized fields | %d |\n", s.Output.SynthesizedFields)
	fmt.Fprintf(&sb, "| Bytes written | %s |\n", formatBytes(s.Output.BytesWritten))

	return sb.String()
}

func formatBytes(n int64) string {
	switch {
	case n >= 1024*1024:
		return fmt.Sprintf("%.2f MB", float64(n)/(1024*1024))
	case n >= 1024:
		return fmt.Sprintf("%.2f KB", float64(n)/1024)
	default:
		return fmt.Sprintf("%d B", n)
	}
}
