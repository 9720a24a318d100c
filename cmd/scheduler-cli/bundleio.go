package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/noah-isme/ll-scheduler-kernel/internal/kernel"
	"github.com/noah-isme/ll-scheduler-kernel/internal/models"
)

func loadBundle(path string) (kernel.Bundle, error) {
	var bundle kernel.Bundle
	raw, err := os.ReadFile(path)
	if err != nil {
		return bundle, fmt.Errorf("read bundle %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, &bundle); err != nil {
		return bundle, fmt.Errorf("parse bundle %s: %w", path, err)
	}
	return bundle, nil
}

func loadEvents(path string) ([]models.ScheduledEventDraft, error) {
	var events []models.ScheduledEventDraft
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read events %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, &events); err != nil {
		return nil, fmt.Errorf("parse events %s: %w", path, err)
	}
	return events, nil
}

func writeJSON(path string, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	if path == "" || path == "-" {
		_, err = os.Stdout.Write(append(raw, '\n'))
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}
