package output

import (
	"encoding/json"

	"github.com/hostprint/hostprint/internal/analysis"
	"github.com/hostprint/hostprint/pkg/model"
)

// Report pairs a fingerprint with its analysis; this is the shape the
// JSON output modes emit.
type Report struct {
	Fingerprint model.Fingerprint `json:"fingerprint"`
	Analysis    analysis.Analysis `json:"analysis"`
}

func ToJSON(fp model.Fingerprint, an analysis.Analysis) (string, error) {
	data, err := json.MarshalIndent(Report{Fingerprint: fp, Analysis: an}, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
