package parser

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/nao1215/trialtab/internal/model"
)

// utf8BOM is stripped from the first line if present.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Decode reads one subject timeline (a JSON array of steps) per line.
// Lines that are not a valid JSON array are skipped; their 0-based
// indices are returned in skipped and logged. Whitespace-only lines count
// as uninterpretable unless only whitespace follows them. Wrongly typed
// step fields do not skip a line; they are kept on the event (Event.Err).
// Only read errors are returned as err.
func Decode(r io.Reader, logger *slog.Logger) (subjects []model.Subject, skipped []int, err error) {
	if logger == nil {
		logger = slog.Default()
	}

	var blank []int
	br := bufio.NewReader(r)
	for line := 0; ; line++ {
		raw, readErr := br.ReadBytes('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return nil, nil, fmt.Errorf("failed to read line %d: %w", line, readErr)
		}
		if len(raw) == 0 && errors.Is(readErr, io.EOF) {
			break
		}

		if line == 0 {
			raw = bytes.TrimPrefix(raw, utf8BOM)
		}
		raw = bytes.TrimSpace(raw)

		if len(raw) == 0 {
			blank = append(blank, line)
		} else {
			for _, b := range blank {
				logger.Info("could not interpret entry", "line", b, "error", "blank line")
			}
			skipped = append(skipped, blank...)
			blank = blank[:0]

			var events []model.Event
			if err := decodeTimeline(raw, &events); err != nil {
				logger.Info("could not interpret entry", "line", line, "error", err)
				skipped = append(skipped, line)
			} else {
				subjects = append(subjects, model.Subject{Line: line, Events: events})
			}
		}

		if errors.Is(readErr, io.EOF) {
			break
		}
	}

	logger.Debug("decoded dataset", "subjects", len(subjects), "skipped", len(skipped), "trailing_blank", len(blank))
	return subjects, skipped, nil
}

// errNotArray is reported for lines holding valid JSON other than an array.
var errNotArray = errors.New("timeline is not a JSON array")

// decodeTimeline unmarshals one line into events.
func decodeTimeline(raw []byte, events *[]model.Event) error {
	if raw[0] != '[' && json.Valid(raw) {
		return errNotArray
	}
	return json.Unmarshal(raw, events)
}
