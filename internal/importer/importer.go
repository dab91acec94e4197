// Package importer decodes curriculum unit files for bulk loading.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/noah-isme/score-tracker-api/internal/models"
)

var csvHeader = []string{"subject", "lesson_type", "test_number", "unit_name", "content"}

// ErrUnsupportedFormat is returned for file extensions other than csv, yaml and yml.
var ErrUnsupportedFormat = errors.New("unsupported curriculum file format")

type yamlDocument struct {
	Units []yamlUnit `yaml:"units"`
}

type yamlUnit struct {
	Subject    string `yaml:"subject"`
	LessonType string `yaml:"lesson_type"`
	TestNumber int    `yaml:"test_number"`
	UnitName   string `yaml:"unit_name"`
	Content    string `yaml:"content"`
}

// Decode picks a decoder from the file name extension.
func Decode(name string, r io.Reader) ([]models.CurriculumUnit, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return DecodeCSV(r)
	case ".yaml", ".yml":
		return DecodeYAML(r)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
	}
}

// DecodeCSV reads rows of subject,lesson_type,test_number,unit_name,content.
// The header row is required; content may be empty.
func DecodeCSV(r io.Reader) ([]models.CurriculumUnit, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	index, err := headerIndex(header)
	if err != nil {
		return nil, err
	}

	var units []models.CurriculumUnit
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv line %d: %w", line, err)
		}
		field := func(name string) string {
			i, ok := index[name]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		number, err := strconv.Atoi(field("test_number"))
		if err != nil {
			return nil, fmt.Errorf("csv line %d: test_number %q is not an integer", line, field("test_number"))
		}
		units = append(units, newUnit(field("subject"), field("lesson_type"), number, field("unit_name"), field("content")))
	}
	return units, nil
}

// DecodeYAML reads a document with a top-level units list.
func DecodeYAML(r io.Reader) ([]models.CurriculumUnit, error) {
	var doc yamlDocument
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	units := make([]models.CurriculumUnit, 0, len(doc.Units))
	for _, u := range doc.Units {
		units = append(units, newUnit(u.Subject, u.LessonType, u.TestNumber, u.UnitName, u.Content))
	}
	return units, nil
}

func headerIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\uFEFF")))] = i
	}
	for _, required := range csvHeader[:4] {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("csv header missing %q column", required)
		}
	}
	return index, nil
}

func newUnit(subject, lessonType string, testNumber int, unitName, content string) models.CurriculumUnit {
	unit := models.CurriculumUnit{
		Subject:    models.Subject(strings.TrimSpace(subject)),
		LessonType: models.LessonType(strings.TrimSpace(lessonType)),
		TestNumber: testNumber,
		UnitName:   strings.TrimSpace(unitName),
	}
	if c := strings.TrimSpace(content); c != "" {
		unit.Content = &c
	}
	return unit
}
