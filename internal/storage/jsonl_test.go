package storage

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"tradeRouter/internal/model"
)

func TestJsonlStoragePutQuoteBatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "quotes", "quotes.jsonl")
	sink := NewJsonlStorage(path)

	records := []model.QuoteRecord{
		{
			Kind:        model.QuoteKindSwap,
			ChainID:     56,
			BlockNumber: 100,
			CreatedAt:   time.Now().UTC(),
			UsdIn:       "1000000000000000000000000000000000",
			UsdOut:      "999000000000000000000000000000000",
		},
		{
			Kind:        model.QuoteKindIncrease,
			ChainID:     56,
			BlockNumber: 100,
			CreatedAt:   time.Now().UTC(),
		},
	}
	if err := sink.PutQuoteBatch(records); err != nil {
		t.Fatalf("put batch: %v", err)
	}
	// A second batch appends.
	if err := sink.PutQuoteBatch(records[:1]); err != nil {
		t.Fatalf("append batch: %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer file.Close()

	var lines []model.QuoteRecord
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var record model.QuoteRecord
		if err := json.Unmarshal(scanner.Bytes(), &record); err != nil {
			t.Fatalf("parse line: %v", err)
		}
		lines = append(lines, record)
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("scan: %v", err)
	}

	if len(lines) != 3 {
		t.Fatalf("lines: got %d, want 3", len(lines))
	}
	if lines[0].Kind != model.QuoteKindSwap || lines[1].Kind != model.QuoteKindIncrease {
		t.Fatalf("kinds: %s, %s", lines[0].Kind, lines[1].Kind)
	}
	if lines[0].UsdIn != records[0].UsdIn {
		t.Fatalf("usd in: got %s", lines[0].UsdIn)
	}

	if err := sink.PutQuoteBatch(nil); err != nil {
		t.Fatalf("empty batch: %v", err)
	}
}
