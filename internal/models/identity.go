package models

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Quiz identities are opaque strings whose prefix encodes lifecycle and
// provenance. A "draft-" prefix is the only signal that a record is an
// unpublished draft; any other prefix (or none) denotes a published or
// externally sourced quiz:
//
//	draft-<uuid>         unpublished draft, lives in the draft store
//	ai-generated-<uuid>  published, produced by the AI adapter
//	uploaded-<uuid>      published, produced by the file importer
//	<uuid>               published, authored manually
//
// Internally the draft/published distinction is a tag on QuizID so the
// prefix is parsed exactly once, at the wire boundary.
const draftPrefix = "draft-"

// Source classifies where a quiz came from. It picks the provenance
// prefix of published identities.
type Source string

const (
	SourceManual Source = "manual"
	SourceAI     Source = "ai"
	SourceUpload Source = "upload"
)

// QuizID is a tagged quiz identity: either a draft identity or a
// published one. The zero value means "no identity assigned yet".
type QuizID struct {
	value string
	draft bool
}

// NewDraftID mints a fresh draft identity.
func NewDraftID() QuizID {
	return QuizID{value: draftPrefix + uuid.NewString(), draft: true}
}

// NewPublishedID mints a fresh published identity tagged with its source.
func NewPublishedID(src Source) QuizID {
	switch src {
	case SourceAI:
		return QuizID{value: "ai-generated-" + uuid.NewString()}
	case SourceUpload:
		return QuizID{value: "uploaded-" + uuid.NewString()}
	default:
		return QuizID{value: uuid.NewString()}
	}
}

// ParseQuizID classifies a wire-format identity string.
func ParseQuizID(s string) (QuizID, error) {
	if s == "" {
		return QuizID{}, fmt.Errorf("quiz identity must not be empty")
	}
	return QuizID{value: s, draft: strings.HasPrefix(s, draftPrefix)}, nil
}

func (id QuizID) IsZero() bool { return id.value == "" }

func (id QuizID) IsDraft() bool { return id.draft }

func (id QuizID) String() string { return id.value }

func (id QuizID) Equal(o QuizID) bool { return id.value == o.value }

func (id QuizID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.value)
}

func (id *QuizID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*id = QuizID{}
		return nil
	}
	parsed, err := ParseQuizID(s)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
