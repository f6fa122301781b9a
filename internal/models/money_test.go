package models

import (
	"encoding/json"
	"testing"
)

func TestMoneyJSONAcceptsStringAndNumber(t *testing.T) {
	var fromString, fromNumber Money
	if err := json.Unmarshal([]byte(`"10.005"`), &fromString); err != nil {
		t.Fatalf("unmarshal string failed: %v", err)
	}
	if err := json.Unmarshal([]byte(`10`), &fromNumber); err != nil {
		t.Fatalf("unmarshal number failed: %v", err)
	}
	if fromString.String() != "10.01" {
		t.Fatalf("expected rounded 10.01, got %s", fromString.String())
	}
	out, err := json.Marshal(fromNumber)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(out) != `"10.00"` {
		t.Fatalf("unexpected json: %s", out)
	}
}

func TestNewMoneyFromStringRejectsGarbage(t *testing.T) {
	if _, err := NewMoneyFromString("ten"); err == nil {
		t.Fatalf("expected parse error")
	}
	m, err := NewMoneyFromString("-1")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if !m.IsNegative() {
		t.Fatalf("expected negative amount")
	}
}
