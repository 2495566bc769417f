package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"

	"github.com/devbush/audio-transcriber/internal/domain"
)

func renderCSV(records []domain.Record) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(Columns); err != nil {
		return nil, err
	}
	for _, r := range records {
		if err := w.Write(row(r)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// renderText returns the transcript of a single record verbatim, or one
// "<name>\n<text>\n" block per successful record joined by blank lines
func renderText(records []domain.Record) []byte {
	if len(records) == 1 {
		return []byte(records[0].Text)
	}
	var blocks []string
	for _, r := range records {
		if !r.Success {
			continue
		}
		blocks = append(blocks, r.FileName+"\n"+r.Text+"\n")
	}
	return []byte(strings.Join(blocks, "\n"))
}

type jsonBatch struct {
	Summary domain.Summary  `json:"summary"`
	Results []domain.Record `json:"results"`
}

func renderJSON(records []domain.Record, summary domain.Summary) ([]byte, error) {
	if len(records) == 1 {
		return json.MarshalIndent(records[0], "", "  ")
	}
	return json.MarshalIndent(jsonBatch{Summary: summary, Results: records}, "", "  ")
}
