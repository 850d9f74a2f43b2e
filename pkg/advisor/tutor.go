package advisor

import (
	"context"
	"fmt"
	"hash/fnv"
	"log"
	"strings"

	"github.com/SankarSubbayya/Finnie/pkg/rag"
	"github.com/SankarSubbayya/Finnie/pkg/store"
)

// noContentResponse is returned when retrieval finds nothing for the query
const noContentResponse = "I'd be happy to help you learn about that topic! However, I don't have specific content about it in my knowledge base. Could you rephrase your question or ask about a related concept?"

var engagementLines = map[string][]string{
	"beginner": {
		"Great question! Let me help you understand this step by step.",
		"That's an excellent starting point for learning about finance!",
		"I'm excited to help you learn about this important concept!",
	},
	"intermediate": {
		"Interesting question! Let's dive deeper into this concept.",
		"That shows good understanding! Let me build on what you know.",
		"Great question! This is a key concept in financial analysis.",
	},
	"advanced": {
		"Excellent question! This is a sophisticated concept that requires careful analysis.",
		"That's a nuanced question that touches on advanced financial theory.",
		"Great question! Let's explore the complexities of this topic.",
	},
}

var followUpQuestions = map[string][]string{
	"beginner": {
		"What do you think are the main benefits of this approach?",
		"How might this concept apply to your personal finances?",
		"What questions do you have about this topic?",
		"Would you like to see a practical example?",
	},
	"intermediate": {
		"How does this relate to other financial concepts you know?",
		"What are the potential risks and limitations?",
		"How would you apply this in a real-world scenario?",
		"What factors would you consider when implementing this?",
	},
	"advanced": {
		"What are the mathematical foundations of this concept?",
		"How does this relate to modern portfolio theory?",
		"What are the empirical studies that support this?",
		"How would you model this quantitatively?",
	},
}

var conceptTerms = []string{
	"portfolio", "risk", "return", "diversification", "volatility",
	"sharpe ratio", "beta", "alpha", "correlation", "covariance",
	"efficient frontier", "capital asset pricing model", "arbitrage",
}

// TutorAgent teaches financial concepts from the retrieval corpus, pitched
// at the caller's experience level
type TutorAgent struct {
	retriever *rag.Retriever
	logger    *log.Logger
}

// NewTutorAgent creates the educational responder
func NewTutorAgent(retriever *rag.Retriever, logger *log.Logger) *TutorAgent {
	return &TutorAgent{retriever: retriever, logger: logger}
}

func (a *TutorAgent) Category() string { return CategoryTutor }

// Process retrieves educational content for the query and wraps it in a
// level-appropriate teaching response
func (a *TutorAgent) Process(_ context.Context, state *store.State) (result *Result) {
	defer func() {
		if r := recover(); r != nil {
			if a.logger != nil {
				a.logger.Printf("[TUTOR] Recovered from panic: %v", r)
			}
			result = &Result{Response: ErrResponse, Sources: []store.Source{}}
		}
	}()

	level := knowledgeLevel(state.UserProfile())
	docs := a.retriever.Search(state.Query, 5, rag.Filters{Level: level})

	if len(docs) == 0 {
		// Retry without the level filter before giving up.
		docs = a.retriever.Search(state.Query, 5, rag.Filters{})
	}
	if len(docs) == 0 {
		return &Result{
			Response: noContentResponse,
			Sources:  []store.Source{},
			Fields: map[string]interface{}{
				"difficulty_level": level,
				"follow_up_questions": []string{
					"What specific aspect of finance would you like to learn about?",
					"Are you looking for beginner, intermediate, or advanced content?",
					"What's your current experience level with investing?",
				},
			},
		}
	}

	best := docs[0]
	concepts := extractConcepts(best.Content)

	var parts []string
	parts = append(parts, pick(engagementLines[level], state.Query))
	parts = append(parts, fmt.Sprintf("You asked: %q", state.Query))
	parts = append(parts, best.Content)

	sources := make([]store.Source, 0, len(docs))
	for _, doc := range docs {
		sources = append(sources, store.Source{Title: doc.Title, URL: doc.URL, Score: doc.Score})
	}

	if a.logger != nil {
		a.logger.Printf("[TUTOR] Answered at %s level with %d sources", level, len(sources))
	}

	return &Result{
		Response: strings.Join(parts, "\n\n"),
		Sources:  sources,
		Fields: map[string]interface{}{
			"difficulty_level":    level,
			"follow_up_questions": pickTwo(followUpQuestions[level], state.Query),
			"concepts_covered":    concepts,
			"learning_objectives": learningObjectives(concepts),
		},
	}
}

// knowledgeLevel maps the profile's experience level onto the corpus
// levels. Unknown values and "expert" collapse onto the nearest level.
func knowledgeLevel(profile map[string]interface{}) string {
	experience, _ := profile["experience_level"].(string)
	switch experience {
	case "intermediate":
		return "intermediate"
	case "advanced", "expert":
		return "advanced"
	default:
		return "beginner"
	}
}

func extractConcepts(content string) []string {
	contentLower := strings.ToLower(content)
	var concepts []string
	for _, term := range conceptTerms {
		if strings.Contains(contentLower, term) {
			concepts = append(concepts, titleCase(term))
		}
		if len(concepts) == 5 {
			break
		}
	}
	return concepts
}

func learningObjectives(concepts []string) []string {
	topic := "the topic"
	if len(concepts) > 0 {
		topic = concepts[0]
	}
	objectives := []string{
		fmt.Sprintf("Understand the concept of %s", topic),
		"Apply the knowledge to real-world scenarios",
		"Identify key factors and considerations",
	}
	if len(concepts) > 1 {
		objectives = append(objectives, fmt.Sprintf("Recognize the relationship between %s and %s", concepts[0], concepts[1]))
	}
	return objectives
}

// pick selects one option deterministically from the query so repeated
// queries produce identical responses
func pick(options []string, query string) string {
	if len(options) == 0 {
		return ""
	}
	return options[queryHash(query)%len(options)]
}

func pickTwo(options []string, query string) []string {
	if len(options) < 2 {
		return options
	}
	first := queryHash(query) % len(options)
	second := (first + 1) % len(options)
	return []string{options[first], options[second]}
}

func queryHash(query string) int {
	h := fnv.New32a()
	h.Write([]byte(query))
	return int(h.Sum32() & 0x7fffffff)
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
