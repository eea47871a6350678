package interview

import (
	"fmt"
	"strings"
)

// contextPhrase renders the session context as a prompt fragment, e.g.
// "a Senior Backend Engineer position in the fintech industry".
func contextPhrase(c Context) string {
	var b strings.Builder
	b.WriteString("a ")
	if c.Experience != "" {
		b.WriteString(c.Experience)
		b.WriteString(" ")
	}
	b.WriteString(c.Position)
	b.WriteString(" position")
	if c.Industry != "" {
		b.WriteString(" in the ")
		b.WriteString(c.Industry)
		b.WriteString(" industry")
	}
	return b.String()
}

// questionPrompt asks the provider for one new question/ideal-answer pair,
// listing every previously asked question and demanding uniqueness.
func questionPrompt(c Context, previous []string) string {
	var b strings.Builder
	if len(previous) > 0 {
		b.WriteString("Here are questions that have already been asked (ensure your new question is unique):\n")
		for _, q := range previous {
			fmt.Fprintf(&b, "- %s\n", q)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Generate 1 distinct, new interview question and its concise, ideal answer for %s.\n", contextPhrase(c))
	if len(previous) > 0 {
		b.WriteString("This new question MUST be UNIQUE and DIFFERENT from any of the previously listed questions.\n")
	}
	b.WriteString("The answer should be no more than 3-5 sentences.\n")
	b.WriteString("Ensure the question and answer pair follows this strict format:\n")
	b.WriteString("Question: [Your question here]\n")
	b.WriteString("Answer: [Your ideal answer here]\n")
	return b.String()
}

// feedbackPrompt asks the provider to evaluate one submitted answer.
func feedbackPrompt(c Context, question, userAnswer, idealAnswer string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "As an expert interview coach, evaluate the following user's answer to a question for %s.\n", contextPhrase(c))
	b.WriteString("Provide concise, actionable feedback focusing ONLY on areas for improvement. Do NOT just rephrase the ideal answer.\n")
	b.WriteString("Limit your feedback to 3-5 sentences.\n")
	fmt.Fprintf(&b, "Interview Question: %s\n", question)
	fmt.Fprintf(&b, "User's Answer: %s\n", userAnswer)
	fmt.Fprintf(&b, "Ideal Answer: %s\n", idealAnswer)
	b.WriteString("Feedback:\n")
	return b.String()
}

// overallPrompt asks the provider for the terminal assessment of a fully
// answered practice session, in the strict labeled format the parser
// expects.
func overallPrompt(c Context, steps []StepRecord) string {
	var b strings.Builder
	b.WriteString("Review the following interview questions, ideal answers, user's answers, and individual feedback.\n")
	b.WriteString("Based on this, provide an overall hiring percentage (e.g., '75%').\n")
	b.WriteString("Then, list 3-5 key areas for improvement across all answers. Be specific and actionable.\n")
	b.WriteString("Finally, provide an encouraging overall message to the user, no more than 3 sentences.\n")
	b.WriteString("Use the following strict format:\n\n")
	b.WriteString("Hiring Percentage: [X%]\n")
	b.WriteString("Areas for Improvement:\n- [Area 1]\n- [Area 2]\n- [Area 3]\n")
	b.WriteString("Overall Message: [Your encouraging message]\n\n")
	for i, step := range steps {
		fmt.Fprintf(&b, "--- Question %d ---\n", i+1)
		fmt.Fprintf(&b, "Question: %s\n", step.Question)
		fmt.Fprintf(&b, "Ideal Answer: %s\n", step.IdealAnswer)
		fmt.Fprintf(&b, "Your Answer: %s\n", step.UserAnswer)
		fmt.Fprintf(&b, "Individual Feedback: %s\n\n", step.Feedback)
	}
	fmt.Fprintf(&b, "Consider the candidate's responses for %s.\n", contextPhrase(c))
	return b.String()
}
