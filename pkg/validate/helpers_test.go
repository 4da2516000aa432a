package validate

import (
	"bytes"
	"encoding/json"
	"strings"
)

// ---- функции для тестирования ----

func draftJSON(name, email string) string {
	return `{
  "full_name": "` + name + `",
  "phone": "+7 (999) 123-45-67",
  "email": "` + email + `",
  "delivery_address": "Москва, ул. Пушкина, 1",
  "delivery_date": "21.12.2024",
  "delivery_interval": "10:00-14:00",
  "comment": "позвонить за час",
  "good_ids": [1, 1, 5],
  "subscribe": true
}`
}

func oneLineJSON(s string) string {
	var b bytes.Buffer
	_ = json.Compact(&b, []byte(s))
	return b.String()
}

func withField(raw, field string) string {
	return "{" + field + "," + strings.TrimPrefix(strings.TrimSpace(raw), "{")
}
