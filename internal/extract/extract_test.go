package extract

import (
	"context"
	"cooked/internal/schedule"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const calendar = "BEGIN:VCALENDAR\r\n" +
	"VERSION:2.0\r\n" +
	"PRODID:-//Test//EN\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:1@test\r\n" +
	"DTSTAMP:20250825T000000Z\r\n" +
	"DTSTART:20250825T100000Z\r\n" +
	"SUMMARY:CSCI 104 Lecture\r\n" +
	"DESCRIPTION:Instructor: Mark Redekopp\r\n" +
	"LOCATION:SGM 124\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:2@test\r\n" +
	"DTSTAMP:20250825T000000Z\r\n" +
	"DTSTART:20250827T100000Z\r\n" +
	"SUMMARY:CSCI 104 Lecture\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:3@test\r\n" +
	"DTSTAMP:20250825T000000Z\r\n" +
	"DTSTART:20250826T120000Z\r\n" +
	"SUMMARY:WRIT 150\r\n" +
	"END:VEVENT\r\n" +
	"END:VCALENDAR\r\n"

type fakeModel struct {
	answer    string
	err       error
	system    string
	user      string
	imageURL  string
	textCalls int
}

func (f *fakeModel) Complete(_ context.Context, system, user string, _ bool) (string, error) {
	f.textCalls++
	f.system, f.user = system, user
	return f.answer, f.err
}

func (f *fakeModel) CompleteWithImage(_ context.Context, system, prompt, imageURL string, _ bool) (string, error) {
	f.system, f.user, f.imageURL = system, prompt, imageURL
	return f.answer, f.err
}

func TestDetectKind(t *testing.T) {
	cases := []struct {
		name        string
		contentType string
		data        []byte
		kind        Kind
		mime        string
	}{
		{"schedule.pdf", "", []byte("%PDF-1.7\n..."), KindPDF, "application/pdf"},
		{"", "", []byte("\x89PNG\r\n\x1a\n0000"), KindImage, "image/png"},
		{"cal.txt", "text/plain", []byte(calendar), KindICS, "text/calendar"},
		{"classes.ics", "", []byte("garbage"), KindICS, "text/calendar"},
		{"notes", "text/plain", []byte("CSCI 104 with Redekopp"), KindText, "text/plain"},
		{"shot.jpeg", "", []byte{0x00, 0x01}, KindImage, "image/jpeg"},
		{"upload", "image/heic", []byte{0x00, 0x01}, KindImage, "image/heic"},
	}

	for _, c := range cases {
		kind, mime, err := DetectKind(c.name, c.contentType, c.data)
		require.NoError(t, err, c.name)
		assert.Equal(t, c.kind, kind, c.name)
		assert.Equal(t, c.mime, mime, c.name)
	}
}

func TestDetectKind_Unsupported(t *testing.T) {
	_, _, err := DetectKind("archive.zip", "application/zip", []byte("PK\x03\x04"))
	assert.ErrorIs(t, err, ErrUnsupportedDocument)
}

func TestICSText_CollapsesRepeatedEvents(t *testing.T) {
	text, err := ICSText([]byte(calendar))

	require.NoError(t, err)
	assert.Equal(t, "CSCI 104 Lecture | Instructor: Mark Redekopp | SGM 124\nWRIT 150", text)
}

func TestPDFText_Invalid(t *testing.T) {
	_, err := PDFText([]byte("%PDF-1.4 truncated"))
	assert.Error(t, err)
}

func TestParseClasses(t *testing.T) {
	answer := "```json\n" + `{"classes":[
		{"courseName":"CSCI 104","professor":"Mark Redekopp","units":4},
		{"courseName":"MATH 226","professor":"Lee","units":"2"},
		{"courseName":"WRIT 150","professor":"Smith","units":0},
		{"courseName":"  ","professor":"Nobody","units":4}
	]}` + "\n```"

	classes, err := ParseClasses(answer)

	require.NoError(t, err)
	assert.Equal(t, []schedule.ClassInput{
		{CourseName: "CSCI 104", Professor: "Mark Redekopp", Units: 4},
		{CourseName: "MATH 226", Professor: "Lee", Units: 2},
		{CourseName: "WRIT 150", Professor: "Smith", Units: DefaultUnits},
	}, classes)
}

func TestParseClasses_BareArray(t *testing.T) {
	classes, err := ParseClasses(`[{"courseName":"EE 109","professor":"Puvvada","units":"4 units"}]`)

	require.NoError(t, err)
	assert.Equal(t, []schedule.ClassInput{{CourseName: "EE 109", Professor: "Puvvada", Units: 4}}, classes)
}

func TestParseClasses_Invalid(t *testing.T) {
	_, err := ParseClasses("Sorry, I cannot help with that.")
	assert.Error(t, err)
}

func TestLLMExtractor_Extract_Text(t *testing.T) {
	model := &fakeModel{answer: `{"classes":[{"courseName":"CSCI 104","professor":"Redekopp","units":4}]}`}
	extractor := NewLLMExtractor(model, 0)

	classes, err := extractor.Extract(context.Background(), NewTextDocument("I'm taking CSCI 104 with Redekopp"))

	require.NoError(t, err)
	assert.Len(t, classes, 1)
	assert.Equal(t, "I'm taking CSCI 104 with Redekopp", model.user)
	assert.Equal(t, extractPrompt, model.system)
}

func TestLLMExtractor_Extract_TruncatesText(t *testing.T) {
	model := &fakeModel{answer: `{"classes":[{"courseName":"CSCI 104","professor":"Redekopp","units":4}]}`}
	extractor := NewLLMExtractor(model, 10)

	_, err := extractor.Extract(context.Background(), NewTextDocument(strings.Repeat("é", 50)))

	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("é", 10), model.user)
}

func TestLLMExtractor_Extract_ICS(t *testing.T) {
	model := &fakeModel{answer: `{"classes":[{"courseName":"CSCI 104","professor":"Mark Redekopp","units":4}]}`}
	extractor := NewLLMExtractor(model, 0)

	doc, err := NewFileDocument("schedule.ics", "text/calendar", []byte(calendar))
	require.NoError(t, err)

	_, err = extractor.Extract(context.Background(), doc)

	require.NoError(t, err)
	assert.Contains(t, model.user, "CSCI 104 Lecture | Instructor: Mark Redekopp")
}

func TestLLMExtractor_Extract_Image(t *testing.T) {
	model := &fakeModel{answer: `{"classes":[{"courseName":"PHYS 151","professor":"Bickers","units":4}]}`}
	extractor := NewLLMExtractor(model, 0)

	doc := Document{Kind: KindImage, ContentType: "image/png", Data: []byte{1, 2, 3}}
	classes, err := extractor.Extract(context.Background(), doc)

	require.NoError(t, err)
	assert.Equal(t, "PHYS 151", classes[0].CourseName)
	assert.Equal(t, "data:image/png;base64,AQID", model.imageURL)
	assert.Equal(t, 0, model.textCalls)
}

func TestLLMExtractor_Extract_NoClasses(t *testing.T) {
	model := &fakeModel{answer: `{"classes":[]}`}
	extractor := NewLLMExtractor(model, 0)

	_, err := extractor.Extract(context.Background(), NewTextDocument("hello"))
	assert.ErrorIs(t, err, ErrNoClasses)

	_, err = extractor.Extract(context.Background(), NewTextDocument("   "))
	assert.ErrorIs(t, err, ErrNoClasses)
	assert.Equal(t, 1, model.textCalls, "blank text must not reach the model")
}

func TestLLMExtractor_Extract_CorruptPDF(t *testing.T) {
	model := &fakeModel{answer: `{"classes":[]}`}
	extractor := NewLLMExtractor(model, 0)
	doc, err := NewFileDocument("schedule.pdf", "application/pdf", []byte("%PDF-1.4 truncated"))
	require.NoError(t, err)

	_, err = extractor.Extract(context.Background(), doc)

	assert.ErrorIs(t, err, ErrUnreadableDocument)
	assert.Zero(t, model.textCalls)
}

func TestLLMExtractor_Extract_ModelError(t *testing.T) {
	extractor := NewLLMExtractor(&fakeModel{err: errors.New("rate limited")}, 0)

	_, err := extractor.Extract(context.Background(), NewTextDocument("CSCI 104"))

	assert.ErrorContains(t, err, "extract text: rate limited")
}

func TestLLMExtractor_Extract_BinaryText(t *testing.T) {
	extractor := NewLLMExtractor(&fakeModel{}, 0)

	_, err := extractor.Extract(context.Background(), Document{Kind: KindText, Data: []byte{0xff, 0xfe, 0xfd}})

	assert.ErrorIs(t, err, ErrUnsupportedDocument)
}
