package validate

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/Gunvolt24/techshop/internal/ports"
)

// JSONLResult — статистика валидации потока JSONL.
type JSONLResult struct {
	ValidLinesCount   int
	InvalidLinesCount int
	Problems          []LineProblem
}

// LineProblem — невалидная строка и причина.
type LineProblem struct {
	Line int
	Err  error
}

// ValidateJSONLStream — черновики заказов построчно из reader, валидные
// пишутся в writer каноническим JSON (по строке на черновик). Пустые строки
// пропускаются, причины отказа — в Problems с номером строки.
func ValidateJSONLStream(ctx context.Context, validator ports.OrderValidator, ir io.Reader, ow io.Writer) (JSONLResult, error) {
	var res JSONLResult

	scanner := bufio.NewScanner(ir)
	// запас на большие строки
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 10*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if err := ctx.Err(); err != nil {
			return res, err
		}
		lineBytes := scanner.Bytes()
		if len(strings.TrimSpace(string(lineBytes))) == 0 {
			continue
		}

		draft, err := ValidateDraftFromJSON(ctx, validator, lineBytes)
		if err != nil {
			res.InvalidLinesCount++
			res.Problems = append(res.Problems, LineProblem{Line: lineNo, Err: err})
			continue
		}

		marshal, _ := json.Marshal(draft)
		if _, err := ow.Write(marshal); err != nil {
			return res, fmt.Errorf("write valid line: %w", err)
		}
		if _, err := ow.Write([]byte("\n")); err != nil {
			return res, fmt.Errorf("write newline: %w", err)
		}
		res.ValidLinesCount++
	}
	if err := scanner.Err(); err != nil {
		return res, fmt.Errorf("scan: %w", err)
	}
	return res, nil
}
