package ai

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/zhouzirui/medchat/internal/model/medical"
)

// Disclaimer closes every generated and fallback answer.
const Disclaimer = "⚠️ This is educational information only. Please consult a healthcare professional for proper diagnosis and treatment."

// fallbackDisclaimer is the labelled variant closing template answers.
const fallbackDisclaimer = "⚠️ **Important:** This is educational information only. Please consult a healthcare professional for proper diagnosis and treatment."

// NoContextResponse is returned when retrieval finds nothing.
const NoContextResponse = "I'm a medical information assistant and I couldn't find relevant information about that in my medical database. I can only answer questions related to health conditions, symptoms, and medical topics. Please try asking a medical question or consult a healthcare professional."

// fallbackContextRunes bounds the context excerpt quoted by FallbackResponse.
const fallbackContextRunes = 500

const systemPrompt = `You are a specialized Medical Information Assistant powered by a RAG (Retrieval-Augmented Generation) system. Your role is STRICTLY LIMITED to answering medical and health-related questions based ONLY on the medical database provided.

STRICT RULES:
1. ONLY answer questions about health, medical conditions, symptoms, diseases, and treatments
2. Use ONLY the medical information provided - DO NOT use your general knowledge
3. If asked non-medical questions (weather, sports, politics, coding, etc.), politely refuse and redirect to medical topics
4. If the medical database doesn't contain relevant information, say so clearly
5. Always remind users this is educational information and they should consult healthcare professionals
6. Be empathetic, clear, and professional
7. If a question seems medical but the database has no relevant info, suggest they consult a doctor

RESPONSE FORMAT:
- Start with a direct, helpful answer to their medical question
- Use information from the medical database
- Include relevant symptoms, treatments, when to seek care
- End with: "` + Disclaimer + `"

If the question is NOT medical, respond: "I'm a specialized medical information assistant. I can only answer questions about health conditions, symptoms, diseases, and medical topics based on my medical database. Please ask a medical or health-related question."`

// SystemPrompt returns the instructions shared by every generator.
func SystemPrompt() string {
	return systemPrompt
}

// ContextText joins the retrieved documents into the block quoted to the
// model.
func ContextText(docs []medical.Document) string {
	parts := make([]string, 0, len(docs))
	for _, doc := range docs {
		title := doc.Title
		if title == "" {
			title = "Unknown"
		}
		parts = append(parts, fmt.Sprintf("**%s**\n%s", title, doc.Content))
	}
	return strings.Join(parts, "\n\n---\n\n")
}

// UserPrompt builds the turn carrying the question and its context.
func UserPrompt(query string, docs []medical.Document) string {
	var b strings.Builder
	b.WriteString("User Question: ")
	b.WriteString(query)
	b.WriteString("\n\nMedical Database Information:\n")
	b.WriteString(ContextText(docs))
	b.WriteString("\n\nNow provide your response:")
	return b.String()
}

// FallbackResponse is the template answer used when no model is available
// or the model call fails.
func FallbackResponse(query string, docs []medical.Document) string {
	var b strings.Builder
	b.WriteString("Based on the medical information I found:\n\n")
	b.WriteString(truncateRunes(ContextText(docs), fallbackContextRunes))
	b.WriteString("...\n\n")
	fmt.Fprintf(&b, "\n**Regarding your medical question about '%s':**\n", query)
	fmt.Fprintf(&b, "The information above from %d medical source(s) may be relevant to your inquiry. ", len(docs))
	b.WriteString("\n\n")
	b.WriteString(fallbackDisclaimer)
	return b.String()
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
