package extract

import (
	"context"
	"cooked/internal/schedule"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ErrNoClasses is returned when a document yields no usable course.
var ErrNoClasses = errors.New("no classes found in document")

// DefaultUnits is assumed for extracted classes whose unit count is missing.
const DefaultUnits = 4.0

const extractPrompt = `You extract university course schedules.
Return a JSON object of the form {"classes":[{"courseName":"CSCI 104","professor":"Mark Redekopp","units":4}]}.
courseName is the department code and number. professor is the instructor's full name as written.
units is the credit-hour count as a number; use 0 if it is not given.
List every distinct course once. Ignore discussion, lab and quiz sections of a course already listed.
If there are no courses, return {"classes":[]}.`

// Extractor turns a schedule document into class inputs.
type Extractor interface {
	Extract(ctx context.Context, doc Document) ([]schedule.ClassInput, error)
}

// ModelClient is the part of the model client the extractor needs.
type ModelClient interface {
	Complete(ctx context.Context, system, user string, jsonOutput bool) (string, error)
	CompleteWithImage(ctx context.Context, system, prompt, imageURL string, jsonOutput bool) (string, error)
}

// LLMExtractor extracts course lists with the hosted model.
// PDF and calendar documents are converted to text locally first;
// images are sent to the model as data URLs.
type LLMExtractor struct {
	model     ModelClient
	maxLength int // maximum number of characters of text sent to the model
}

func (e *LLMExtractor) Extract(ctx context.Context, doc Document) ([]schedule.ClassInput, error) {
	var (
		answer string
		err    error
	)

	switch doc.Kind {
	case KindImage:
		dataURL := "data:" + doc.ContentType + ";base64," + base64.StdEncoding.EncodeToString(doc.Data)
		answer, err = e.model.CompleteWithImage(ctx, extractPrompt, "Extract the courses from this schedule screenshot.", dataURL, true)
	case KindText, KindPDF, KindICS:
		var text string
		text, err = e.text(doc)
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(text) == "" {
			return nil, ErrNoClasses
		}
		answer, err = e.model.Complete(ctx, extractPrompt, text, true)
	default:
		return nil, ErrUnsupportedDocument
	}
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", doc.Kind, err)
	}

	classes, err := ParseClasses(answer)
	if err != nil {
		return nil, err
	}
	if len(classes) == 0 {
		return nil, ErrNoClasses
	}

	slog.Debug("[Extractor] classes extracted", "kind", doc.Kind, "count", len(classes))
	return classes, nil
}

func (e *LLMExtractor) text(doc Document) (string, error) {
	var (
		text string
		err  error
	)
	switch doc.Kind {
	case KindPDF:
		text, err = PDFText(doc.Data)
	case KindICS:
		text, err = ICSText(doc.Data)
	default:
		if !utf8.Valid(doc.Data) {
			return "", ErrUnsupportedDocument
		}
		text = string(doc.Data)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrUnreadableDocument, doc.Kind, err)
	}

	if e.maxLength > 0 && utf8.RuneCountInString(text) > e.maxLength {
		text = string([]rune(text)[:e.maxLength])
	}
	return text, nil
}

// units accepts a number, a numeric string or null.
type units float64

func (u *units) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if raw == "" || raw == "null" {
		*u = 0
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		// "4 units" and similar free text
		fields := strings.Fields(raw)
		if len(fields) == 0 {
			*u = 0
			return nil
		}
		if v, err = strconv.ParseFloat(fields[0], 64); err != nil {
			*u = 0
			return nil
		}
	}
	*u = units(v)
	return nil
}

type extractedClass struct {
	CourseName string `json:"courseName"`
	Professor  string `json:"professor"`
	Units      units  `json:"units"`
}

// ParseClasses reads the model's answer. Markdown code fences are tolerated and both
// {"classes":[...]} and a bare array are accepted. Classes without a course name are
// dropped; classes without a positive unit count get DefaultUnits.
func ParseClasses(answer string) ([]schedule.ClassInput, error) {
	answer = stripCodeFence(answer)

	var extracted []extractedClass
	if strings.HasPrefix(answer, "[") {
		if err := json.Unmarshal([]byte(answer), &extracted); err != nil {
			return nil, fmt.Errorf("parse extracted classes: %w", err)
		}
	} else {
		var envelope struct {
			Classes []extractedClass `json:"classes"`
		}
		if err := json.Unmarshal([]byte(answer), &envelope); err != nil {
			return nil, fmt.Errorf("parse extracted classes: %w", err)
		}
		extracted = envelope.Classes
	}

	classes := make([]schedule.ClassInput, 0, len(extracted))
	for _, c := range extracted {
		name := strings.TrimSpace(c.CourseName)
		if name == "" {
			continue
		}
		u := float64(c.Units)
		if u <= 0 {
			u = DefaultUnits
		}
		classes = append(classes, schedule.ClassInput{
			CourseName: name,
			Professor:  strings.TrimSpace(c.Professor),
			Units:      u,
		})
	}
	return classes, nil
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if newline := strings.IndexByte(s, '\n'); newline >= 0 {
		s = s[newline+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// NewLLMExtractor creates a model-backed extractor.
// maxLength limits the characters of document text sent to the model; 0 disables the limit.
func NewLLMExtractor(model ModelClient, maxLength int) *LLMExtractor {
	return &LLMExtractor{model: model, maxLength: maxLength}
}
