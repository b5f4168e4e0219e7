package tutor

import "github.com/prepdeck/prepdeck/internal/llm"

// ReplySchema is the structured output of a tutor answer.
var ReplySchema = &llm.Schema{
	Name:        "tutor-reply",
	Description: "An interview-coach explanation with follow-up questions",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"topic": map[string]any{
				"type":        "string",
				"description": "Two to four word topic label",
			},
			"explanation": map[string]any{
				"type":        "string",
				"description": "Interview-ready explanation in 3-6 sentences",
			},
			"follow_ups": map[string]any{
				"type":        "array",
				"description": "Questions an interviewer might ask next",
				"items":       map[string]any{"type": "string"},
			},
		},
		"required":             []any{"topic", "explanation", "follow_ups"},
		"additionalProperties": false,
	},
}

// SummarySchema is the structured output of Summarize.
var SummarySchema = &llm.Schema{
	Name:        "answer-summary",
	Description: "A one or two sentence summary of an answer",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"summary": map[string]any{
				"type":        "string",
				"description": "At most two sentences, under 200 characters",
			},
		},
		"required":             []any{"summary"},
		"additionalProperties": false,
	},
}

const replySystemPrompt = `You are a senior Salesforce architect coaching a candidate for a technical interview.
Answer the candidate's question the way a strong interviewee would: accurate, concrete, and concise.
Prefer platform terminology (governor limits, sharing model, bulkification) where it applies.
Suggest two or three follow-up questions an interviewer would plausibly ask next.`

const summarySystemPrompt = `Summarize the answer below for a revision notebook.
Keep the key terms, drop examples, and stay under 200 characters.`
