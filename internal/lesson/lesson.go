// Package lesson turns a free-text topic prompt into a structured lesson:
// timed steps plus the primitives each step should illustrate. The asset
// pipeline makes no assumption about how these were derived; this package is
// one possible supplier.
package lesson

import "github.com/Kabilkirithik/kydy-nxtwave-openai/internal/primitive"

type Step struct {
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	KeyPoints       []string `json:"key_points,omitempty"`
	Formula         string   `json:"formula,omitempty"`
	DurationSeconds int      `json:"duration_seconds"`
}

type Lesson struct {
	Topic              string              `json:"topic"`
	Subtopic           string              `json:"subtopic,omitempty"`
	Intent             string              `json:"intent,omitempty"`
	Audience           string              `json:"audience,omitempty"`
	Steps              []Step              `json:"suggested_steps"`
	Primitives         []primitive.Request `json:"primitives"`
	LearningObjectives []string            `json:"learning_objectives,omitempty"`
}
