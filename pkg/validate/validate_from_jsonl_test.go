package validate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/Gunvolt24/techshop/internal/domain"
)

func TestValidateJSONLStream_Mixed(t *testing.T) {
	line1 := oneLineJSON(draftJSON("first", "a@example.com"))
	line2 := oneLineJSON(draftJSON("second", "")) // нет email
	line3 := ""
	line4 := oneLineJSON(draftJSON("third", "c@example.com"))

	input := strings.Join([]string{line1, line2, line3, line4}, "\n")
	var out bytes.Buffer

	res, err := ValidateJSONLStream(context.Background(), NewOrderValidator(), strings.NewReader(input), &out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.ValidLinesCount != 2 || res.InvalidLinesCount != 1 {
		t.Fatalf("unexpected counters: %+v", res)
	}
	if len(res.Problems) != 1 || res.Problems[0].Line != 2 || !errors.Is(res.Problems[0].Err, ErrInvalidOrder) {
		t.Fatalf("unexpected problems: %+v", res.Problems)
	}

	outLines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(outLines) != 2 {
		t.Fatalf("expected 2 output lines, got %d", len(outLines))
	}
	names := make([]string, 0, 2)
	for _, l := range outLines {
		var d domain.OrderDraft
		if err := json.Unmarshal([]byte(l), &d); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		names = append(names, d.FullName)
	}
	if names[0] != "first" || names[1] != "third" {
		t.Fatalf("unexpected output order: %v", names)
	}
}

func TestValidateJSONLStream_LargeLine(t *testing.T) {
	bigComment := strings.Repeat("X", 200_000) // > 64KB
	raw := strings.Replace(oneLineJSON(draftJSON("big", "b@example.com")), "позвонить за час", bigComment, 1)

	var out bytes.Buffer
	res, err := ValidateJSONLStream(context.Background(), NewOrderValidator(), strings.NewReader(raw+"\n"), &out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.ValidLinesCount != 1 {
		t.Fatalf("expected 1 valid line, got %+v", res)
	}
}

func TestValidateJSONLStream_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	_, err := ValidateJSONLStream(ctx, NewOrderValidator(), strings.NewReader(oneLineJSON(draftJSON("a", "a@example.com"))), &out)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
