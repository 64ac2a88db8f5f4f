package diagnostic

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/sonar-lang/sonar/internal/position"
)

// Renderer writes diagnostics with a quoted source snippet.
type Renderer struct {
	header  *color.Color
	message *color.Color
	snippet *color.Color
}

// NewRenderer creates a renderer. When colored is false all output is plain.
func NewRenderer(colored bool) *Renderer {
	r := &Renderer{
		header:  color.New(color.Bold, color.FgHiWhite),
		message: color.New(color.Bold, color.FgHiRed),
		snippet: color.New(color.FgCyan),
	}
	for _, c := range []*color.Color{r.header, r.message, r.snippet} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return r
}

// Render writes err to w. Diagnostics get a caret snippet of source; any
// other error is written as a single line.
func (r *Renderer) Render(w io.Writer, err error, source string) {
	diag, ok := As(err)
	if !ok {
		fmt.Fprintf(w, "%s %s\n", r.message.Sprint("error:"), err)
		return
	}

	location := diag.Location.String()
	if diag.SourceName != "" {
		location = diag.SourceName + ":" + location
	}
	fmt.Fprintf(w, "%s %s %s\n", r.header.Sprint(location+":"), r.message.Sprint("error:"), diag.Message)

	file := position.NewSourceFile(diag.SourceName, source)
	if snippet := position.NewSpanHighlighter(file).HighlightSpan(diag.Span); snippet != "" {
		fmt.Fprint(w, r.snippet.Sprint(snippet))
	}
}
