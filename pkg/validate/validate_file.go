package validate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Gunvolt24/techshop/internal/ports"
)

// InputFormat — формат файла черновиков.
type InputFormat string

const (
	FormatAuto  InputFormat = "auto"
	FormatJSON  InputFormat = "json"
	FormatJSONL InputFormat = "jsonl"
)

const stdinPath = "-"

// ParseFormat — формат из флага CLI.
func ParseFormat(s string) (InputFormat, error) {
	switch f := InputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatAuto:
		return FormatAuto, nil
	case FormatJSON, FormatJSONL:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported format: %s", s)
	}
}

// resolveFormat — явный формат как есть; auto: stdin читается построчно,
// файл по расширению (.jsonl или JSON-документ).
func resolveFormat(path string, format InputFormat) InputFormat {
	if format != FormatAuto {
		return format
	}
	if path == stdinPath || strings.EqualFold(filepath.Ext(path), ".jsonl") {
		return FormatJSONL
	}
	return FormatJSON
}

func summarize(valid, invalid int) string {
	return fmt.Sprintf("%d valid / %d invalid", valid, invalid)
}

// ValidateFile — проверяет черновики заказов из файла (или stdin при "-")
// и пишет валидные в канонической форме в out. Возвращает итог вида
// "N valid / M invalid".
func ValidateFile(ctx context.Context, validator ports.OrderValidator, path string, format InputFormat, out io.Writer) (string, error) {
	format = resolveFormat(path, format)
	if format != FormatJSON && format != FormatJSONL {
		return "", fmt.Errorf("unsupported format: %s", format)
	}

	in := io.Reader(os.Stdin)
	if path != stdinPath {
		f, err := os.Open(path)
		if err != nil {
			return "", fmt.Errorf("open file: %w", err)
		}
		defer f.Close()
		in = f
	}

	if format == FormatJSONL {
		res, err := ValidateJSONLStream(ctx, validator, in, out)
		if err != nil {
			return "", err
		}
		return summarize(res.ValidLinesCount, res.InvalidLinesCount), nil
	}
	return validateDocument(ctx, validator, in, out)
}

// validateDocument — один черновик на весь вход.
func validateDocument(ctx context.Context, validator ports.OrderValidator, in io.Reader, out io.Writer) (string, error) {
	raw, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	draft, err := ValidateDraftFromJSON(ctx, validator, raw)
	if err != nil {
		return summarize(0, 1), err
	}
	if err := json.NewEncoder(out).Encode(draft); err != nil {
		return "", fmt.Errorf("write draft: %w", err)
	}
	return summarize(1, 0), nil
}
