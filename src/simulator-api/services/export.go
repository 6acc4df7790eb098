package services

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	log "github.com/sirupsen/logrus"

	"github.com/jiaming2012/sim-trading/src/simulator-api/models"
)

func WritePerformanceCSV(w io.Writer, points []models.PerformancePoint) error {
	rows := make([]*models.PerformancePointDTO, 0, len(points))
	for _, p := range points {
		rows = append(rows, p.ToDTO())
	}

	if err := gocsv.Marshal(&rows, w); err != nil {
		return fmt.Errorf("error marshalling performance points: %w", err)
	}

	return nil
}

// ExportPerformanceCSV writes points to path, creating parent directories.
func ExportPerformanceCSV(path string, points []models.PerformancePoint) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("ExportPerformanceCSV: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("ExportPerformanceCSV: error creating file: %w", err)
	}
	defer file.Close()

	if err := WritePerformanceCSV(file, points); err != nil {
		return fmt.Errorf("ExportPerformanceCSV: %w", err)
	}

	log.Infof("Exported %d performance points to %s", len(points), path)
	return nil
}
