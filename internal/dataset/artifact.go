package dataset

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
)

// CSVArtifactName returns the export filename for a processed dataset,
// e.g. Y14M_CCARD_2025-03-31.csv.
func CSVArtifactName(product ProductCode, reportingDate string) string {
	return fmt.Sprintf("Y14M_%s_%s.csv", product, reportingDate)
}

// NarrativeArtifactName returns the export filename for the narrative
// text, e.g. Y14M_Narrative_CCARD_2025-03-31.txt.
func NarrativeArtifactName(product ProductCode, reportingDate string) string {
	return fmt.Sprintf("Y14M_Narrative_%s_%s.txt", product, reportingDate)
}

// WriteArtifacts writes the processed CSV and narrative text into dir
// using the standard artifact names, and returns both paths.
func WriteArtifacts(dir string, ds Dataset, product ProductCode, reportingDate, narrative string) (csvPath, txtPath string, err error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", eris.Wrapf(err, "artifact: create dir %s", dir)
	}

	csvPath = filepath.Join(dir, CSVArtifactName(product, reportingDate))
	if err := WriteCSVFile(csvPath, ds); err != nil {
		return "", "", err
	}

	txtPath = filepath.Join(dir, NarrativeArtifactName(product, reportingDate))
	if err := os.WriteFile(txtPath, []byte(narrative), 0o644); err != nil {
		return "", "", eris.Wrapf(err, "artifact: write %s", txtPath)
	}

	return csvPath, txtPath, nil
}
