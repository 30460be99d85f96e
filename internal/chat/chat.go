// Package chat answers study questions with canned tips picked by keyword.
package chat

import "strings"

type rule struct {
	match func(text string) bool
	reply string
}

func anyOf(words ...string) func(string) bool {
	return func(text string) bool {
		for _, w := range words {
			if strings.Contains(text, w) {
				return true
			}
		}
		return false
	}
}

func allOf(words ...string) func(string) bool {
	return func(text string) bool {
		for _, w := range words {
			if !strings.Contains(text, w) {
				return false
			}
		}
		return true
	}
}

// First match wins, so "html" must precede the "ml" rule.
var rules = []rule{
	{anyOf("html"), "HTML (HyperText Markup Language) defines the structure of web pages using elements like headings, paragraphs, links, and more. Start by learning the basic tags such as <h1>, <p>, <a>, and <div>."},
	{anyOf("css"), "CSS (Cascading Style Sheets) is used to style HTML. Focus on selectors, the box model, flexbox, and grid to build responsive layouts."},
	{anyOf("javascript", "js"), "JavaScript makes your web pages interactive. Begin with variables, functions, arrays, objects, and DOM manipulation."},
	{anyOf("machine learning", "ml"), "Machine Learning is about learning patterns from data. Start with supervised learning (like regression and classification) before moving to deep learning."},
	{allOf("web", "development"), "For web development, master HTML, CSS, and JavaScript first, then explore a framework like React. Build small projects like a todo app or portfolio site."},
}

const Fallback = "I am a simple assistant. In the future, I will be powered by a real ML model, but for now I can give short tips about HTML, CSS, JavaScript, and Machine Learning."

// Responder is stateless and safe for concurrent use.
type Responder struct{}

func NewResponder() *Responder { return &Responder{} }

func (*Responder) Reply(message string) string {
	text := strings.ToLower(message)
	for _, r := range rules {
		if r.match(text) {
			return r.reply
		}
	}
	return Fallback
}
