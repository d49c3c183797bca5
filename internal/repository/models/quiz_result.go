package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// StringSlice stores a []string as a JSON array in a text column.
type StringSlice []string

// Value implements the driver.Valuer interface. nil is stored as "[]".
func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	jsonData, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(jsonData), nil
}

// Scan implements the sql.Scanner interface. NULL, "" and "null" scan as empty.
func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = StringSlice{}
		return nil
	}

	var bytesToParse []byte
	switch v := value.(type) {
	case []byte:
		bytesToParse = v
	case string:
		bytesToParse = []byte(v)
	default:
		return errors.New("StringSlice Scan: unsupported type " + fmt.Sprintf("%T", value))
	}

	if len(bytesToParse) == 0 || string(bytesToParse) == "null" {
		*s = StringSlice{}
		return nil
	}
	return json.Unmarshal(bytesToParse, s)
}

// QuizResult is a row of quiz_results.
type QuizResult struct {
	ID             string      `db:"id"`
	SessionID      string      `db:"session_id"`
	Topic          string      `db:"topic"`
	Difficulty     string      `db:"difficulty"`
	TotalQuestions int         `db:"total_questions"`
	Score          int         `db:"score"`
	WeakSubtopics  StringSlice `db:"weak_sub_topics"`
	OverallRemark  string      `db:"overall_remark"`
	CompletedAt    time.Time   `db:"completed_at"`
	CreatedAt      time.Time   `db:"created_at"`
}

func (QuizResult) TableName() string {
	return "quiz_results"
}
