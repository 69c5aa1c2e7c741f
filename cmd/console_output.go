package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/mitchellh/colorstring"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

var levelColors = map[string]string{
	"panic": "[red][bold]",
	"fatal": "[red][bold]",
	"error": "[red]",
	"warn":  "[yellow]",
	"debug": "[blue]",
	"trace": "[dark_gray]",
}

// fields that are already part of the rendered line
var consoleHiddenFields = map[string]bool{
	zerolog.LevelFieldName:     true,
	zerolog.MessageFieldName:   true,
	zerolog.TimestampFieldName: true,
	zerolog.ErrorFieldName:     true,
	"command":                  true,
}

func debugOutput() bool {
	return os.Getenv("BOOTSTRAP_DEBUG") != ""
}

// ConsoleWriter renders zerolog's JSON events as coloured, human-readable lines. Progress is
// green, the commands about to run are cyan.
type ConsoleWriter struct {
	out    io.Writer
	buffer strings.Builder
	lock   sync.Mutex
}

func NewConsoleWriter(out io.Writer) *ConsoleWriter {
	return &ConsoleWriter{out: out}
}

func (w *ConsoleWriter) Write(p []byte) (int, error) {
	w.lock.Lock()
	defer w.lock.Unlock()

	var evt map[string]interface{}
	d := json.NewDecoder(bytes.NewReader(p))
	d.UseNumber()
	if err := d.Decode(&evt); err != nil {
		return 0, eris.Wrapf(err, "cannot decode event: %s", p)
	}

	level, _ := evt[zerolog.LevelFieldName].(string)
	color, ok := levelColors[level]
	if !ok {
		color = "[green]"
		if evt["command"] == true {
			color = "[cyan]"
		}
	}

	w.buffer.Reset()
	w.buffer.WriteString(color)
	if level == "error" || level == "fatal" {
		w.buffer.WriteString("Error: ")
	}
	w.buffer.WriteString(shortenPath(evt))

	if details, ok := evt[zerolog.ErrorFieldName].(string); ok {
		w.buffer.WriteString("\n  ")
		w.buffer.WriteString(details)
	}

	if debugOutput() {
		writeFields(&w.buffer, evt)
	}

	w.buffer.WriteString("[reset]\n")
	if _, err := colorstring.Fprint(w.out, w.buffer.String()); err != nil {
		return 0, err
	}

	return len(p), nil
}

// shortenPath replaces the event's "path" inside its message with a path relative to the
// working directory
func shortenPath(evt map[string]interface{}) string {
	msg, _ := evt[zerolog.MessageFieldName].(string)
	path, ok := evt["path"].(string)
	if !ok {
		return msg
	}

	wd, err := os.Getwd()
	if err != nil {
		return msg
	}

	relPath, err := filepath.Rel(wd, path)
	if err != nil || strings.HasPrefix(relPath, "..") {
		return msg
	}
	return strings.ReplaceAll(msg, path, relPath)
}

func writeFields(buffer *strings.Builder, evt map[string]interface{}) {
	names := make([]string, 0, len(evt))
	for name := range evt {
		if !consoleHiddenFields[name] {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return
	}
	sort.Strings(names)

	buffer.WriteString(" [dark_gray]")
	for idx, name := range names {
		if idx > 0 {
			buffer.WriteString(" ")
		}
		fmt.Fprintf(buffer, "%s=%v", name, evt[name])
	}
}

func init() {
	zerolog.ErrorMarshalFunc = func(err error) interface{} {
		return eris.ToString(err, debugOutput())
	}
}
