package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/johnquangdev/meeting-digest/internal/domain/entities"
)

// readTranscript loads a transcript file. JSON input may be a cue array or an
// object with cues and/or raw; anything else is taken as raw text.
func readTranscript(path string, stdin io.Reader) (*entities.TranscriptContent, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read transcript: %w", err)
	}

	trimmed := bytes.TrimSpace(data)
	looksJSON := len(trimmed) > 0 && (trimmed[0] == '[' || trimmed[0] == '{')
	if strings.EqualFold(filepath.Ext(path), ".json") || looksJSON {
		content, jsonErr := parseJSONTranscript(trimmed)
		if jsonErr == nil {
			return content, nil
		}
		if strings.EqualFold(filepath.Ext(path), ".json") {
			return nil, jsonErr
		}
	}

	return &entities.TranscriptContent{Raw: string(data)}, nil
}

func parseJSONTranscript(data []byte) (*entities.TranscriptContent, error) {
	if len(data) > 0 && data[0] == '[' {
		var cues []entities.TranscriptCue
		if err := json.Unmarshal(data, &cues); err != nil {
			return nil, fmt.Errorf("failed to parse cue array: %w", err)
		}
		return &entities.TranscriptContent{Cues: cues}, nil
	}

	var content entities.TranscriptContent
	if err := json.Unmarshal(data, &content); err != nil {
		return nil, fmt.Errorf("failed to parse transcript json: %w", err)
	}
	return &content, nil
}
