package dbmodels

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/pkg/errors"
)

// Типизированные jsonb-обертки для динамических полей кандидата.
// Набор ключей каждого поля задает продюсер (см. ResumeData).

func jsonScan(value interface{}, out interface{}) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, out)
	case string:
		return json.Unmarshal([]byte(v), out)
	}
	return errors.New("неподдерживаемый тип значения jsonb")
}

// StringSlice - jsonb список строк (навыки, сертификаты, языки)
type StringSlice []string

func (s StringSlice) Value() (driver.Value, error) {
	valueString, err := json.Marshal(s)
	return string(valueString), err
}

func (s *StringSlice) Scan(value interface{}) error {
	return jsonScan(value, s)
}

// JSONMap - jsonb объект со свободной схемой
type JSONMap map[string]interface{}

func (j JSONMap) Value() (driver.Value, error) {
	valueString, err := json.Marshal(j)
	return string(valueString), err
}

func (j *JSONMap) Scan(value interface{}) error {
	return jsonScan(value, j)
}

// JSONMapSlice - jsonb список объектов (опыт работы)
type JSONMapSlice []map[string]interface{}

func (j JSONMapSlice) Value() (driver.Value, error) {
	valueString, err := json.Marshal(j)
	return string(valueString), err
}

func (j *JSONMapSlice) Scan(value interface{}) error {
	return jsonScan(value, j)
}

// ResumeData - результат разбора резюме внешним сервисом.
// Известные ключи продюсера: skills, yearsOfExperience, education,
// при недоступности сервиса: status, message, candidate_id.
type ResumeData = JSONMap
