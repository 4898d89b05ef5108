package ui

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"marsphotos/pkg/fetcher"
)

type recordingSender struct {
	titles   []string
	messages []string
	err      error
}

func (r *recordingSender) Send(title, message string) error {
	r.titles = append(r.titles, title)
	r.messages = append(r.messages, message)
	return r.err
}

func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := Output
	Output = &buf
	SetColor(false)
	t.Cleanup(func() {
		Output = prev
		SetColor(true)
	})
	return &buf
}

func TestNotifierKinds(t *testing.T) {
	tests := []struct {
		kind        string
		wantConsole bool
		wantDesktop bool
	}{
		{NotifyTerminal, true, false},
		{NotifyDesktop, true, true},
		{NotifyNone, false, false},
		{"DESKTOP", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			buf := captureOutput(t)
			sender := &recordingSender{}
			n := NewNotifierWithSender(tt.kind, sender)

			require.NoError(t, n.SendSuccess("Done", "3 downloaded"))

			if tt.wantConsole {
				assert.Contains(t, buf.String(), "Done: 3 downloaded")
			} else {
				assert.Empty(t, buf.String())
			}
			if tt.wantDesktop {
				assert.Equal(t, []string{"Done"}, sender.titles)
			} else {
				assert.Empty(t, sender.titles)
			}
		})
	}
}

func TestNotifierSenderError(t *testing.T) {
	captureOutput(t)
	n := NewNotifierWithSender(NotifyDesktop, &recordingSender{err: errors.New("no display")})
	assert.Error(t, n.SendError("Failed", "boom"))
}

func TestNotifierNilSender(t *testing.T) {
	buf := captureOutput(t)
	n := NewNotifierWithSender(NotifyDesktop, nil)
	require.NoError(t, n.SendSuccess("Done", "ok"))
	assert.Contains(t, buf.String(), "Done: ok")
}

func TestPrintHelpers(t *testing.T) {
	buf := captureOutput(t)

	PrintInfo("Rover", "curiosity")
	PrintWarning("Skipped line", "bad date")
	PrintError("Oops")
	PrintSuccess("All good")

	out := buf.String()
	assert.Contains(t, out, "Rover: curiosity")
	assert.Contains(t, out, "Skipped line: bad date")
	assert.Contains(t, out, "Oops")
	assert.Contains(t, out, "All good")
	assert.NotContains(t, out, "\033[")
}

func TestColorize(t *testing.T) {
	SetColor(true)
	assert.Equal(t, "\033[32mok\033[0m", Green("ok"))
	SetColor(false)
	assert.Equal(t, "ok", Green("ok"))
	SetColor(true)
}

func TestRenderSummary(t *testing.T) {
	s := fetcher.Summary{
		Dates:       4,
		DatesFailed: 1,
		PhotosFound: 10,
		Downloaded:  7,
		Skipped:     2,
		Failed:      1,
		Bytes:       3 << 20,
		Elapsed:     1500 * time.Millisecond,
		Cancelled:   true,
	}

	out := RenderSummary(s)
	assert.Contains(t, out, "Mars photo run")
	assert.Contains(t, out, "cancelled")
	assert.Contains(t, out, "Downloaded")
	assert.Contains(t, out, "3.0 MiB")
	assert.Contains(t, out, "1.5s")

	assert.Equal(t, "7 downloaded, 2 skipped, 2 failed across 4 dates", SummaryMessage(s))
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", FormatBytes(512))
	assert.Equal(t, "1.0 KiB", FormatBytes(1024))
	assert.Equal(t, "1.5 MiB", FormatBytes(1536*1024))
}
