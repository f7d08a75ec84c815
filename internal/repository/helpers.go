package repository

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/alexanderramin/edutrack/internal/domain"
)

// parseNullableTime parses a sql.NullString into a *time.Time using the given layout.
// Returns nil if the value is NULL, empty, or fails to parse.
func parseNullableTime(s sql.NullString, layout string) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t, err := time.Parse(layout, s.String)
	if err != nil {
		return nil
	}
	return &t
}

// nullableTimeToString returns SQL NULL for a nil time.
func nullableTimeToString(t *time.Time, layout string) interface{} {
	if t == nil {
		return nil
	}
	return t.Format(layout)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func intToBool(i int) bool {
	return i != 0
}

type placeholderRow struct {
	Offset          int    `json:"offset"`
	Length          int    `json:"length"`
	PlaceholderText string `json:"placeholder_text"`
	SubtaskIndex    int    `json:"subtask_index,omitempty"`
}

func encodePlaceholders(ps []domain.AnswerPlaceholder) (string, error) {
	rows := make([]placeholderRow, 0, len(ps))
	for _, p := range ps {
		rows = append(rows, placeholderRow(p))
	}
	data, err := json.Marshal(rows)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decodePlaceholders(s string) ([]domain.AnswerPlaceholder, error) {
	if s == "" {
		return nil, nil
	}
	var rows []placeholderRow
	if err := json.Unmarshal([]byte(s), &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	out := make([]domain.AnswerPlaceholder, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.AnswerPlaceholder(r))
	}
	return out, nil
}

func encodeIDs(ids []int) string {
	if len(ids) == 0 {
		return "[]"
	}
	data, _ := json.Marshal(ids)
	return string(data)
}

func decodeIDs(s string) []int {
	var ids []int
	_ = json.Unmarshal([]byte(s), &ids)
	return ids
}
