package form

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"html"
	"io"
	"os"
	"strings"

	"NYCU-SDC/checkin-backend/internal"
	"NYCU-SDC/checkin-backend/internal/form/aggregate"
	"NYCU-SDC/checkin-backend/internal/form/question"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"gopkg.in/yaml.v3"
)

//go:embed questionnaire.yaml
var defaultDocument []byte

// Document is the questionnaire configuration file: the participant questions
// and the sample counts shown on the admin dashboard.
type Document struct {
	Title       string              `yaml:"title" json:"title" validate:"required"`
	Description string              `yaml:"description" json:"description"`
	Questions   []question.Question `yaml:"questions" json:"questions" validate:"required,min=1,dive"`
	Dashboard   []aggregate.Input   `yaml:"dashboard" json:"dashboard" validate:"dive"`
}

// Questionnaire is the fixed, validated question sequence of a check-in.
type Questionnaire struct {
	Title       string
	Description string

	questions []question.Answerable
	index     map[string]question.Answerable
	ids       []string
}

// DefaultDocument parses the embedded daily check-in questionnaire
func DefaultDocument(v *validator.Validate) (Document, error) {
	return ParseDocument(bytes.NewReader(defaultDocument), v)
}

// LoadDocument reads a questionnaire document from path; an empty path selects the embedded default.
func LoadDocument(path string, v *validator.Validate) (Document, error) {
	if path == "" {
		return DefaultDocument(v)
	}

	file, err := os.Open(path)
	if err != nil {
		return Document{}, fmt.Errorf("open questionnaire %s: %w", path, err)
	}
	defer func() {
		_ = file.Close()
	}()

	return ParseDocument(file, v)
}

func ParseDocument(r io.Reader, v *validator.Validate) (Document, error) {
	var document Document

	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	err := decoder.Decode(&document)
	if err != nil {
		return Document{}, fmt.Errorf("%w: could not parse yaml: %w", internal.ErrQuestionnaireInvalid, err)
	}

	sanitizeDocument(&document)

	err = internal.ValidateStruct(v, document)
	if err != nil {
		return Document{}, fmt.Errorf("%w: %w", internal.ErrQuestionnaireInvalid, err)
	}

	// Dashboard entries describe other surveys, so their ids may repeat participant question ids
	err = checkUniqueIDs(document.Questions)
	if err != nil {
		return Document{}, err
	}

	dashboardQuestions := make([]question.Question, 0, len(document.Dashboard))
	for _, input := range document.Dashboard {
		dashboardQuestions = append(dashboardQuestions, input.Question)
	}
	err = checkUniqueIDs(dashboardQuestions)
	if err != nil {
		return Document{}, err
	}

	return document, nil
}

func NewQuestionnaire(document Document) (*Questionnaire, error) {
	err := checkUniqueIDs(document.Questions)
	if err != nil {
		return nil, err
	}

	q := &Questionnaire{
		Title:       document.Title,
		Description: document.Description,
		questions:   make([]question.Answerable, 0, len(document.Questions)),
		index:       make(map[string]question.Answerable, len(document.Questions)),
		ids:         make([]string, 0, len(document.Questions)),
	}

	var errs []error
	for _, descriptor := range document.Questions {
		answerable, err := question.NewAnswerable(descriptor)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		q.questions = append(q.questions, answerable)
		q.index[descriptor.ID] = answerable
		q.ids = append(q.ids, descriptor.ID)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return q, nil
}

// Questions returns the question descriptors in questionnaire order
func (q *Questionnaire) Questions() []question.Question {
	questions := make([]question.Question, len(q.questions))
	for i, answerable := range q.questions {
		questions[i] = answerable.Question()
	}
	return questions
}

// QuestionIDs returns the question identifiers in questionnaire order
func (q *Questionnaire) QuestionIDs() []string {
	ids := make([]string, len(q.ids))
	copy(ids, q.ids)
	return ids
}

func (q *Questionnaire) Total() int {
	return len(q.ids)
}

func (q *Questionnaire) Answerable(questionID string) (question.Answerable, error) {
	answerable, ok := q.index[questionID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", internal.ErrQuestionNotFound, questionID)
	}
	return answerable, nil
}

func checkUniqueIDs(questions []question.Question) error {
	seen := make(map[string]bool, len(questions))
	for _, descriptor := range questions {
		if seen[descriptor.ID] {
			return fmt.Errorf("%w: %s", internal.ErrDuplicateQuestionID, descriptor.ID)
		}
		seen[descriptor.ID] = true
	}
	return nil
}

var textPolicy = bluemonday.StrictPolicy()

// sanitizeText strips any markup from configured text; the result is plain text, not HTML.
func sanitizeText(value string) string {
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(value)))
}

func sanitizeQuestion(q *question.Question) {
	q.Prompt = sanitizeText(q.Prompt)
	if q.Scale != nil {
		q.Scale.MinValueLabel = sanitizeText(q.Scale.MinValueLabel)
		q.Scale.MaxValueLabel = sanitizeText(q.Scale.MaxValueLabel)
	}
	for i := range q.Options {
		q.Options[i].Label = sanitizeText(q.Options[i].Label)
	}
}

func sanitizeDocument(document *Document) {
	document.Title = sanitizeText(document.Title)
	document.Description = sanitizeText(document.Description)

	for i := range document.Questions {
		sanitizeQuestion(&document.Questions[i])
	}

	for i := range document.Dashboard {
		sanitizeQuestion(&document.Dashboard[i].Question)
		for j := range document.Dashboard[i].Responses {
			response := &document.Dashboard[i].Responses[j]
			response.Label = sanitizeText(response.Label)
		}
	}
}
