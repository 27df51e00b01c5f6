// Package importer turns an uploaded quiz document into a validated
// quiz. Each non-blank line of the document is one question:
//
//	question text,option 1,option 2,option 3,option 4,correct index
//
// Exactly six comma-separated fields, correct index in [0,3]. Embedded
// commas are not supported; there is no quoting or escaping. Parsing is
// all-or-nothing: the first bad line aborts the whole import.
package importer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"quizforge-backend/internal/models"
)

// MaxDocumentBytes caps uploaded document size at 1 MB.
const MaxDocumentBytes = 1 << 20

const fieldsPerLine = models.OptionCount + 2

// Fixed tags applied to every imported quiz; the instructor adjusts them
// during editor review.
const (
	importedSubject    = "Imported"
	importedKeyStage   = models.KS3
	importedDifficulty = models.DifficultyMedium
)

type ParseErrorKind string

const (
	EmptyDocument      ParseErrorKind = "EMPTY_DOCUMENT"
	DocumentTooLarge   ParseErrorKind = "DOCUMENT_TOO_LARGE"
	MalformedLine      ParseErrorKind = "MALFORMED_LINE"
	InvalidAnswerIndex ParseErrorKind = "INVALID_ANSWER_INDEX"
	EmptyOption        ParseErrorKind = "EMPTY_OPTION"
)

// ParseError describes why an import was rejected. Line is the 1-based
// line number of the offending line, or 0 for document-level failures.
type ParseError struct {
	Kind ParseErrorKind
	Line int
}

func (e *ParseError) Error() string {
	switch e.Kind {
	case EmptyDocument:
		return "the file is empty or contains no valid lines"
	case DocumentTooLarge:
		return fmt.Sprintf("the file exceeds the %d byte limit", MaxDocumentBytes)
	case MalformedLine:
		return fmt.Sprintf("line %d is malformed: each line must have %d comma-separated parts", e.Line, fieldsPerLine)
	case InvalidAnswerIndex:
		return fmt.Sprintf("line %d: the correct answer index must be a number between 0 and %d", e.Line, models.OptionCount-1)
	case EmptyOption:
		return fmt.Sprintf("line %d: all four options must contain text", e.Line)
	}
	return fmt.Sprintf("line %d: invalid", e.Line)
}

// Parse converts document text into a single quiz carrying a fresh
// upload-sourced identity. title is the suggested quiz title, normally
// the source filename without its extension.
func Parse(content string, title string) (*models.Quiz, error) {
	if len(content) > MaxDocumentBytes {
		return nil, &ParseError{Kind: DocumentTooLarge}
	}

	var questions []models.Question
	lineNum := 0
	for line := range strings.Lines(content) {
		line = strings.TrimRight(line, "\r\n")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lineNum++

		q, err := parseLine(line, lineNum)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}

	if lineNum == 0 {
		return nil, &ParseError{Kind: EmptyDocument}
	}

	if strings.TrimSpace(title) == "" {
		title = "Uploaded Quiz"
	}

	return &models.Quiz{
		ID:         models.NewPublishedID(models.SourceUpload),
		Title:      title,
		Subject:    importedSubject,
		KeyStage:   importedKeyStage,
		Difficulty: importedDifficulty,
		Questions:  questions,
	}, nil
}

func parseLine(line string, lineNum int) (models.Question, error) {
	parts := strings.Split(line, ",")
	if len(parts) != fieldsPerLine {
		return models.Question{}, &ParseError{Kind: MalformedLine, Line: lineNum}
	}

	idx, err := strconv.Atoi(strings.TrimSpace(parts[fieldsPerLine-1]))
	if err != nil || idx < 0 || idx >= models.OptionCount {
		return models.Question{}, &ParseError{Kind: InvalidAnswerIndex, Line: lineNum}
	}

	options := make([]string, models.OptionCount)
	for i := range options {
		opt := strings.TrimSpace(parts[i+1])
		if opt == "" {
			return models.Question{}, &ParseError{Kind: EmptyOption, Line: lineNum}
		}
		options[i] = opt
	}

	q := models.Question{
		ID:                 uuid.NewString(),
		Text:               strings.TrimSpace(parts[0]),
		Options:            options,
		CorrectAnswerIndex: idx,
	}
	if err := models.ValidateQuestion(q); err != nil {
		// Empty question text is the only constraint not covered above.
		return models.Question{}, &ParseError{Kind: MalformedLine, Line: lineNum}
	}
	return q, nil
}

// SuggestTitle derives a quiz title from an uploaded filename by
// stripping its extension.
func SuggestTitle(filename string) string {
	name := filename
	if i := strings.LastIndex(name, "."); i > 0 {
		name = name[:i]
	}
	return strings.TrimSpace(name)
}
