package lesson

import (
	"context"
	"strings"

	"github.com/Kabilkirithik/kydy-nxtwave-openai/internal/primitive"
)

// HeuristicExtractor is the offline tier: keyword matching against the
// primitive catalog plus canned step sequences. It never fails, so it can
// back an LLM extractor or stand alone when no model is configured.
type HeuristicExtractor struct{}

func NewHeuristicExtractor() *HeuristicExtractor {
	return &HeuristicExtractor{}
}

func (h *HeuristicExtractor) Extract(_ context.Context, prompt string) (*Lesson, error) {
	lower := strings.ToLower(prompt)

	var primitives []primitive.Request
	switch {
	case containsAny(lower, "resistor", "ohm", "circuit"):
		primitives = []primitive.Request{
			{Tag: "resistor", Params: map[string]any{"value": "10kΩ"}},
			{Tag: "battery", Params: map[string]any{"voltage": "9V"}},
			{Tag: "graph"},
		}
	case containsAny(lower, "battery", "voltage", "power"):
		primitives = []primitive.Request{
			{Tag: "battery", Params: map[string]any{"voltage": "12V"}},
			{Tag: "graph"},
		}
	case containsAny(lower, "stethoscope", "medical", "heart"):
		primitives = []primitive.Request{
			{Tag: "stethoscope"},
			{Tag: "graph"},
		}
	default:
		primitives = []primitive.Request{
			{Tag: "graph"},
			{Tag: "graph", Params: map[string]any{"points": []any{10.0, 30.0, 20.0, 40.0, 35.0, 50.0, 45.0, 60.0}}},
		}
	}

	steps := genericSteps(prompt)
	if containsAny(lower, "ohm", "resistor") {
		steps = ohmsLawSteps()
	}

	return &Lesson{
		Topic:      clip(prompt, 60),
		Subtopic:   "Introduction",
		Intent:     "educational",
		Audience:   "beginner",
		Steps:      steps,
		Primitives: primitives,
		LearningObjectives: []string{
			"Understand the core concepts",
			"Apply knowledge practically",
			"Build a solid foundation",
		},
	}, nil
}

func ohmsLawSteps() []Step {
	return []Step{
		{
			Title:       "Introduction to Ohm's Law",
			Description: "Ohm's Law is a fundamental principle in electrical engineering that describes the relationship between voltage, current, and resistance in an electrical circuit. The current through a conductor between two points is directly proportional to the voltage across the two points and inversely proportional to the resistance between them.",
			KeyPoints: []string{
				"Ohm's Law: V = I × R",
				"Voltage (V) is measured in volts",
				"Current (I) is measured in amperes",
				"Resistance (R) is measured in ohms",
			},
			Formula:         "V = I × R",
			DurationSeconds: 20,
		},
		{
			Title:       "Understanding Resistance",
			Description: "Resistance is the opposition to the flow of electric current. In a resistor, resistance is determined by the material, length, and cross-sectional area. Color-coded bands on resistors indicate their resistance value, making it easy to identify components in circuits.",
			KeyPoints: []string{
				"Resistance opposes current flow",
				"Measured in ohms (Ω)",
				"Color bands indicate resistance value",
				"Higher resistance = less current flow",
			},
			DurationSeconds: 20,
		},
		{
			Title:       "Circuit Analysis",
			Description: "With Ohm's Law we can calculate any one of the three variables if we know the other two, which makes circuit design and troubleshooting much easier. Let's see how voltage, current, and resistance interact in a simple circuit.",
			KeyPoints: []string{
				"Calculate voltage: V = I × R",
				"Calculate current: I = V / R",
				"Calculate resistance: R = V / I",
				"All three are interconnected",
			},
			Formula:         "I = V / R",
			DurationSeconds: 25,
		},
	}
}

func genericSteps(prompt string) []Step {
	return []Step{
		{
			Title:       "Introduction",
			Description: "Welcome to this lesson about " + clip(prompt, 50) + ". We'll explore the fundamental concepts and build a solid understanding step by step.",
			KeyPoints: []string{
				"Understanding the basics",
				"Key terminology",
				"Real-world applications",
			},
			DurationSeconds: 20,
		},
		{
			Title:       "Core Concepts",
			Description: "Let's dive into the core concepts, breaking complex ideas into manageable pieces with visual aids and examples. Each concept builds on the previous one.",
			KeyPoints: []string{
				"Breaking down complex ideas",
				"Visual learning aids",
				"Step-by-step progression",
			},
			DurationSeconds: 25,
		},
		{
			Title:       "Practical Application",
			Description: "Now that we understand the theory, let's see how these concepts apply in real-world scenarios. Practical examples solidify understanding and show the relevance of what we've learned.",
			KeyPoints: []string{
				"Real-world examples",
				"Practical applications",
				"Connecting theory to practice",
			},
			DurationSeconds: 25,
		},
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
