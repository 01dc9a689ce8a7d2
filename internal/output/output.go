// Package output renders benchmark results and gate verdicts for the
// terminal: bordered tables for suites, colored status lines for verdicts.
package output

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"
)

// Renderer renders tabular data.
type Renderer interface {
	Start(ctx context.Context) error
	Stop() error
	RenderToString(headers []string, rows [][]string, opts ...RenderOption) string
	RenderToWriter(w io.Writer, headers []string, rows [][]string, opts ...RenderOption)
}

type renderer struct {
	log logrus.FieldLogger
}

// NewRenderer creates a table renderer.
// Returns Renderer interface, not *renderer struct.
func NewRenderer(log logrus.FieldLogger) Renderer {
	return &renderer{
		log: log.WithField("component", "output.renderer"),
	}
}

func (r *renderer) Start(_ context.Context) error {
	r.log.Debug("Output renderer started")

	return nil
}

func (r *renderer) Stop() error {
	r.log.Debug("Output renderer stopped")

	return nil
}

// RenderOption configures table rendering.
type RenderOption func(*tablewriter.Table)

// WithAlignment sets column alignment (use tablewriter constants).
func WithAlignment(alignment int) RenderOption {
	return func(t *tablewriter.Table) {
		t.SetAlignment(alignment)
	}
}

// WithBorder controls border visibility.
func WithBorder(show bool) RenderOption {
	return func(t *tablewriter.Table) {
		t.SetBorder(show)
	}
}

// WithFooter adds a footer row, typically totals.
func WithFooter(footer []string) RenderOption {
	return func(t *tablewriter.Table) {
		t.SetFooter(footer)
	}
}

func (r *renderer) RenderToString(headers []string, rows [][]string, opts ...RenderOption) string {
	buf := &bytes.Buffer{}
	r.RenderToWriter(buf, headers, rows, opts...)

	return buf.String()
}

func (r *renderer) RenderToWriter(w io.Writer, headers []string, rows [][]string, opts ...RenderOption) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(headers)

	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("│")
	table.SetRowSeparator("─")
	table.SetHeaderLine(true)
	table.SetBorder(true)
	table.SetTablePadding(" ")
	table.SetNoWhiteSpace(false)

	for _, opt := range opts {
		opt(table)
	}

	table.AppendBulk(rows)
	table.Render()
}

// Compile-time interface compliance check
var _ Renderer = (*renderer)(nil)

// formatDuration renders a duration for human-readable output, scaling
// from microseconds up to minutes.
func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%.0fµs", float64(d.Microseconds()))
	}

	if d < time.Second {
		return fmt.Sprintf("%.0fms", float64(d.Milliseconds()))
	}

	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}

	return fmt.Sprintf("%.1fm", d.Minutes())
}

// secondsToDuration converts fractional seconds, the unit result
// timestamps are recorded in, to a time.Duration.
func secondsToDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}
