package cmdutils

import (
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/secagent/secagent/internal/schema"
	"github.com/secagent/secagent/internal/shared/stringutils"
)

const Logo = "🛡"

// historyPreview bounds each entry printed by PrintHistory, in runes.
const historyPreview = 200

func PrintResponse(w io.Writer, text string) {
	if text == "" {
		return
	}

	fmt.Fprintf(w, "\n%s Agent\n%s\n\n", Logo, text)
}

// StreamResponse copies chunks to w as they arrive and returns the full text.
func StreamResponse(w io.Writer, chunks iter.Seq[string]) string {
	var sb strings.Builder
	for chunk := range chunks {
		sb.WriteString(chunk)
		fmt.Fprint(w, chunk)
	}
	return sb.String()
}

// PrintHistory lists conversation entries one per line, shortened.
func PrintHistory(w io.Writer, entries []schema.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "(no history)")
		return
	}
	for i, e := range entries {
		label := string(e.Role)
		if e.Role == schema.RoleTool {
			label = "tool:" + e.ToolName
		}
		content := strings.ReplaceAll(stringutils.Truncate(e.Content, historyPreview), "\n", " ")
		fmt.Fprintf(w, "%3d. [%s] %s\n", i+1, label, content)
	}
}
